package flatten

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// KnownMetricKeys are the attribution keys kept as individual fields.
var KnownMetricKeys = []string{"Gclid", "yid", "fbc", "fbclid", "utm_source", "utm_campaign"}

const (
	trackingPrefix = "utm"
	// CatchAllKey holds every other tracking key as key=value lines.
	CatchAllKey = "utm"
)

// MergeMetrics folds attribution payloads into one Object.
//
// For every known key the last non-empty value across payloads wins (nil when
// none had it). Every other key starting with the tracking prefix is rendered
// as key=value in encounter order and joined with newlines under CatchAllKey.
func MergeMetrics(payloads []*Object) *Object {
	known := make(map[string]any, len(KnownMetricKeys))
	isKnown := make(map[string]bool, len(KnownMetricKeys))
	for _, k := range KnownMetricKeys {
		isKnown[k] = true
	}

	var others []string
	for _, payload := range payloads {
		if payload == nil {
			continue
		}
		for _, key := range payload.keys {
			value := payload.values[key]
			if isKnown[key] {
				if present(value) {
					known[key] = value
				}
				continue
			}
			if strings.HasPrefix(key, trackingPrefix) {
				others = append(others, key+"="+FormatValue(value))
			}
		}
	}

	out := NewObject()
	for _, k := range KnownMetricKeys {
		out.Set(k, known[k])
	}
	out.Set(CatchAllKey, strings.Join(others, "\n"))
	return out
}

func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	default:
		return true
	}
}

// FormatValue renders v as plain text: strings as-is, numbers in shortest
// form, nil as "null" and composite values as JSON.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case *Object, map[string]any, []any:
		var buf bytes.Buffer
		if err := encodeValue(&buf, t); err != nil {
			return fmt.Sprint(t)
		}
		return buf.String()
	default:
		return fmt.Sprint(t)
	}
}
