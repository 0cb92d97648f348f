package report

import (
	"math"
	"time"
)

const isoLayout = "2006-01-02T15:04:05.000Z"

// isoTime renders t as UTC ISO-8601 with millisecond precision.
func isoTime(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

func timeValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return isoTime(*t)
}

func stringValue(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func int64Value(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

// floatValue maps NaN and infinities to null; JSON has no encoding for them.
func floatValue(v *float64) any {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return *v
}

func boolValue(v *bool) any {
	if v == nil {
		return nil
	}
	return *v
}

func prefixed(base string, path *string) any {
	if path == nil {
		return nil
	}
	return base + *path
}
