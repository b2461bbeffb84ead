// Package metrics names and tags the metrics emitted by the generation pipeline.
package metrics

import (
	"strconv"
	"time"

	obserrors "github.com/rajatvd/GifGenerator/internal/observability/errors"
	"github.com/rajatvd/GifGenerator/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultTimeout = "timeout"
	ResultAborted = "aborted"
)

// Metric names.
const (
	JobRun                = "job.run"
	JobRunDuration        = "job.run_duration"
	GenerationAttempt     = "generation.attempt"
	GenerationRetry       = "generation.retry"
	GenerationResult      = "generation.result"
	DeliveryResult        = "delivery.result"
	SchedulerTicksSkipped = "scheduler.ticks_skipped"
)

// RunMetric describes one finished job run.
type RunMetric struct {
	Generator string
	Result    string
	Delivered int
	Failed    int
	Duration  time.Duration
	Err       error
}

// EmitRun emits the per-run counter and duration.
func EmitRun(sink statsd.Sink, in RunMetric) {
	if sink == nil {
		return
	}
	tags := withErrorClass(map[string]string{
		"generator": in.Generator,
		"result":    in.Result,
	}, in.Err)
	sink.Count(JobRun, 1, tags)
	sink.Gauge("job.delivered", float64(in.Delivered), map[string]string{"generator": in.Generator})
	sink.Gauge("job.failed", float64(in.Failed), map[string]string{"generator": in.Generator})
	if in.Duration > 0 {
		sink.Timing(JobRunDuration, in.Duration, CloneTags(tags))
	}
}

// AttemptMetric describes one bounded generation attempt.
type AttemptMetric struct {
	Generator string
	Attempt   int
	Result    string
	Duration  time.Duration
	Err       error
}

// EmitAttempt emits one generation.attempt counter and its timing.
func EmitAttempt(sink statsd.Sink, in AttemptMetric) {
	if sink == nil {
		return
	}
	tags := withErrorClass(map[string]string{
		"generator": in.Generator,
		"attempt":   strconv.Itoa(in.Attempt),
		"result":    in.Result,
	}, in.Err)
	sink.Count(GenerationAttempt, 1, tags)
	if in.Duration > 0 {
		sink.Timing(GenerationAttempt+"_duration", in.Duration, CloneTags(tags))
	}
}

// EmitRetry counts a retry before attempt n.
func EmitRetry(sink statsd.Sink, generator string, attempt int) {
	if sink == nil {
		return
	}
	sink.Count(GenerationRetry, 1, map[string]string{
		"generator": generator,
		"attempt":   strconv.Itoa(attempt),
	})
}

// EmitGenerationResult counts the final outcome of one artifact.
// reason is empty on success.
func EmitGenerationResult(sink statsd.Sink, generator, reason string, attempts int) {
	if sink == nil {
		return
	}
	result := ResultSuccess
	if reason != "" {
		result = reason
	}
	sink.Count(GenerationResult, 1, map[string]string{
		"generator": generator,
		"result":    result,
		"attempts":  strconv.Itoa(attempts),
	})
}

// EmitDelivery counts one delivery attempt.
func EmitDelivery(sink statsd.Sink, channel string, duration time.Duration, err error) {
	if sink == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	tags := withErrorClass(map[string]string{"channel": channel, "result": result}, err)
	sink.Count(DeliveryResult, 1, tags)
	if duration > 0 {
		sink.Timing("delivery.duration", duration, CloneTags(tags))
	}
}

// EmitTicksSkipped counts grid points the scheduler dropped after a slow run.
func EmitTicksSkipped(sink statsd.Sink, generator string, skipped int) {
	if sink == nil || skipped <= 0 {
		return
	}
	sink.Count(SchedulerTicksSkipped, int64(skipped), map[string]string{"generator": generator})
}

func withErrorClass(tags map[string]string, err error) map[string]string {
	if err == nil {
		return tags
	}
	if class := obserrors.Classify(err); class != "" {
		tags["error_class"] = class
	}
	return tags
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
