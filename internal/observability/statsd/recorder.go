package statsd

import (
	"maps"
	"sync"
	"time"
)

// Metric is one call captured by Recorder.
type Metric struct {
	Kind  string
	Name  string
	Value float64
	Tags  map[string]string
}

// Recorder is an in-memory Sink for tests and the admin CLI's dry runs.
type Recorder struct {
	mu      sync.Mutex
	metrics []Metric
}

var _ Sink = (*Recorder)(nil)

func (r *Recorder) add(kind, name string, v float64, tags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics = append(r.metrics, Metric{Kind: kind, Name: name, Value: v, Tags: maps.Clone(tags)})
}

// Count records a counter.
func (r *Recorder) Count(name string, value int64, tags map[string]string) {
	r.add("c", name, float64(value), tags)
}

// Gauge records a gauge.
func (r *Recorder) Gauge(name string, value float64, tags map[string]string) {
	r.add("g", name, value, tags)
}

// Timing records a timing in milliseconds.
func (r *Recorder) Timing(name string, value time.Duration, tags map[string]string) {
	r.add("ms", name, float64(value)/float64(time.Millisecond), tags)
}

// Named returns every captured metric with the given name, in call order.
func (r *Recorder) Named(name string) []Metric {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Metric
	for _, m := range r.metrics {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

// Total sums the values of all counters with the given name.
func (r *Recorder) Total(name string) int64 {
	var total int64
	for _, m := range r.Named(name) {
		if m.Kind == "c" {
			total += int64(m.Value)
		}
	}
	return total
}
