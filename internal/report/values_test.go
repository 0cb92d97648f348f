package report

import (
	"math"
	"testing"
	"time"
)

func TestFloatValueDropsNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		v := v
		if got := floatValue(&v); got != nil {
			t.Fatalf("floatValue(%v) = %v, want nil", v, got)
		}
	}
	rate := 0.42
	if got := floatValue(&rate); got != 0.42 {
		t.Fatalf("floatValue(0.42) = %v", got)
	}
	if got := floatValue(nil); got != nil {
		t.Fatalf("floatValue(nil) = %v, want nil", got)
	}
}

func TestIsoTimeUsesUTCMilliseconds(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	at := time.Date(2024, 6, 1, 15, 4, 5, 123456789, loc)
	if got := isoTime(at); got != "2024-06-01T12:04:05.123Z" {
		t.Fatalf("isoTime = %q", got)
	}
}
