package metrics

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
)

var (
	usersTotal     atomic.Uint64
	usersDone      atomic.Uint64
	usersSkipped   atomic.Uint64
	usersFailed    atomic.Uint64
	recordsWritten atomic.Uint64
	shapeDropped   atomic.Uint64

	userDuration = newHistogram([]float64{50, 100, 250, 500, 1000, 2000, 5000, 10000, 30000})
)

// SetUsersTotal records the size of the candidate population.
func SetUsersTotal(n int) {
	usersTotal.Store(uint64(max(n, 0)))
}

// IncUserDone increments the built-record counter.
func IncUserDone() {
	usersDone.Add(1)
}

// IncUserSkipped increments the skipped counter (no record, no error).
func IncUserSkipped() {
	usersSkipped.Add(1)
}

// IncUserFailed increments the failed counter.
func IncUserFailed() {
	usersFailed.Add(1)
}

// AddRecordsWritten records how many records reached the output.
func AddRecordsWritten(n int) {
	recordsWritten.Add(uint64(max(n, 0)))
}

// AddShapeDropped records how many records the field-count filter removed.
func AddShapeDropped(n int) {
	shapeDropped.Add(uint64(max(n, 0)))
}

// ObserveUserDurationMs records one user's processing time in milliseconds.
func ObserveUserDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	userDuration.Observe(value)
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeGauge(&buf, "report_users_total", "Candidate users in this run", usersTotal.Load())
	writeCounter(&buf, "report_users_done_total", "Users with a built record", usersDone.Load())
	writeCounter(&buf, "report_users_skipped_total", "Users skipped without error", usersSkipped.Load())
	writeCounter(&buf, "report_users_failed_total", "Users dropped after an error", usersFailed.Load())
	writeCounter(&buf, "report_records_written_total", "Records written to the output", recordsWritten.Load())
	writeCounter(&buf, "report_records_shape_dropped_total", "Records dropped by the field-count filter", shapeDropped.Load())
	writeHistogram(&buf, "report_user_duration_ms", "Per-user processing time in milliseconds", userDuration.Snapshot())
	return buf.String()
}

// WriteFile writes the rendered metrics to path (node_exporter textfile format).
func WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(Render()), 0o644)
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe adds value to the first bucket it fits; Render accumulates.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeGauge(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s gauge\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
