package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/rajatvd/GifGenerator/internal/errors"
	"github.com/rajatvd/GifGenerator/internal/observability/statsd"
)

func TestEmitRun(t *testing.T) {
	var rec statsd.Recorder
	EmitRun(&rec, RunMetric{
		Generator: "neural_ode",
		Result:    ResultAborted,
		Duration:  time.Second,
		Err:       apperrors.Wrap(errors.New("x"), apperrors.ErrCodeDirectoryUnreadable, "list"),
	})

	runs := rec.Named(JobRun)
	require.Len(t, runs, 1)
	assert.Equal(t, "directory_unreadable", runs[0].Tags["error_class"])
	assert.Equal(t, ResultAborted, runs[0].Tags["result"])
	assert.Len(t, rec.Named(JobRunDuration), 1)
}

func TestEmitGenerationResult(t *testing.T) {
	var rec statsd.Recorder
	EmitGenerationResult(&rec, "neural_ode", "", 1)
	EmitGenerationResult(&rec, "neural_ode", "timeout_exhausted", 3)

	got := rec.Named(GenerationResult)
	require.Len(t, got, 2)
	assert.Equal(t, ResultSuccess, got[0].Tags["result"])
	assert.Equal(t, "timeout_exhausted", got[1].Tags["result"])
	assert.Equal(t, "3", got[1].Tags["attempts"])
}

func TestEmitTicksSkipped(t *testing.T) {
	var rec statsd.Recorder
	EmitTicksSkipped(&rec, "g", 0)
	EmitTicksSkipped(&rec, "g", 2)
	assert.Equal(t, int64(2), rec.Total(SchedulerTicksSkipped))
}

func TestNilSinkIsNoop(t *testing.T) {
	EmitRun(nil, RunMetric{})
	EmitAttempt(nil, AttemptMetric{})
	EmitRetry(nil, "g", 2)
	EmitDelivery(nil, "telegram", time.Second, errors.New("x"))
}
