// Package telemetry holds the process-wide request counters and latency
// accumulator, plus the JSONL event logger. The registry is constructed at
// startup and injected; it is not ambient global state.
package telemetry

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Counter names recorded by the pipeline.
const (
	CounterRequests       = "requests_total"
	CounterAmbiguous      = "ambiguous_total"
	CounterClarifications = "clarifications_total"
	CounterResolved       = "resolved_total"
	CounterAnswers        = "answer_total"
	CounterErrors         = "errors_total"
)

// counterNames fixes the exposition order.
var counterNames = []string{
	CounterRequests,
	CounterAmbiguous,
	CounterClarifications,
	CounterResolved,
	CounterAnswers,
	CounterErrors,
}

// Registry accumulates counters and total latency. All methods are safe for
// concurrent use; increments across different counters are not transactional
// with each other.
type Registry struct {
	mu        sync.Mutex
	counters  map[string]int64
	latencyMS float64
}

// NewRegistry returns an empty Registry with all known counters at zero.
func NewRegistry() *Registry {
	counters := make(map[string]int64, len(counterNames))
	for _, name := range counterNames {
		counters[name] = 0
	}
	return &Registry{counters: counters}
}

// Inc adds one to the named counter.
func (r *Registry) Inc(name string) {
	r.mu.Lock()
	r.counters[name]++
	r.mu.Unlock()
}

// ObserveLatency adds a request duration to the latency accumulator.
func (r *Registry) ObserveLatency(d time.Duration) {
	r.mu.Lock()
	r.latencyMS += float64(d.Microseconds()) / 1000.0
	r.mu.Unlock()
}

// Snapshot is a point-in-time copy of the registry.
type Snapshot struct {
	Counters     map[string]int64
	LatencyMSSum float64
	AvgLatencyMS float64
}

// Stats returns a snapshot. Average latency divides by requests_total,
// treating zero requests as one to avoid division by zero.
func (r *Registry) Stats() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	counters := make(map[string]int64, len(r.counters))
	for k, v := range r.counters {
		counters[k] = v
	}

	total := counters[CounterRequests]
	if total == 0 {
		total = 1
	}
	avg := math.Round(r.latencyMS/float64(total)*100) / 100

	return Snapshot{
		Counters:     counters,
		LatencyMSSum: r.latencyMS,
		AvgLatencyMS: avg,
	}
}

// PrometheusText renders the registry in Prometheus text exposition format
// under the uire_ prefix.
func (r *Registry) PrometheusText() string {
	s := r.Stats()
	var b strings.Builder
	for _, name := range counterNames {
		fmt.Fprintf(&b, "uire_%s %d\n", name, s.Counters[name])
	}
	fmt.Fprintf(&b, "uire_latency_ms_sum %g\n", s.LatencyMSSum)
	fmt.Fprintf(&b, "uire_avg_latency_ms %g\n", s.AvgLatencyMS)
	return b.String()
}

// NewEventLogger builds a zap logger that appends one JSON event per line
// to the given file. Pipeline handlers log a detect/clarify/resolve/answer
// event per call with the hashed client id and latency.
func NewEventLogger(path string) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating event log directory: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building event logger: %w", err)
	}
	return logger, nil
}
