package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerationConfig_MergeDoesNotMutate(t *testing.T) {
	base := GenerationConfig{"frames": 100, "fps": 60}
	merged := base.Merge(GenerationConfig{"fps": 30, "device": "cpu"})

	assert.Equal(t, 60, base["fps"])
	assert.NotContains(t, base, "device")
	assert.Equal(t, GenerationConfig{"frames": 100, "fps": 30, "device": "cpu"}, merged)
}

func TestParseGenerationConfig(t *testing.T) {
	cfg, err := ParseGenerationConfig("")
	require.NoError(t, err)
	assert.Empty(t, cfg)

	cfg, err = ParseGenerationConfig(`{"frames": 10, "smooth_colours": true}`)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, cfg["frames"], 0)
	assert.Equal(t, true, cfg["smooth_colours"])

	_, err = ParseGenerationConfig(`[1,2]`)
	require.Error(t, err)

	_, err = ParseGenerationConfig(`null`)
	require.Error(t, err)
}

func TestArtifactResult(t *testing.T) {
	ok := Success("gifs/a1.mp4", 2)
	assert.True(t, ok.Succeeded())
	assert.Equal(t, 2, ok.Attempts)

	failed := Failure(FailureTimeoutExhausted, 3, nil)
	assert.False(t, failed.Succeeded())
	assert.Equal(t, FailureTimeoutExhausted, failed.Reason)
}

func TestNumberedFilename_Path(t *testing.T) {
	n := NumberedFilename{Dir: "gifs", Prefix: "neural_ode_", Seq: 8, Ext: ".mp4"}
	assert.Equal(t, "neural_ode_8.mp4", n.Base())
	assert.Equal(t, "gifs/neural_ode_8.mp4", n.Path())
}

func TestRunSummary_Counts(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := RunSummary{
		StartedAt:  start,
		FinishedAt: start.Add(90 * time.Second),
		Items: []ItemOutcome{
			{Seq: 1, Status: ItemDelivered},
			{Seq: 2, Status: ItemGenerationFailed},
			{Seq: 3, Status: ItemDelivered},
		},
	}
	assert.Equal(t, 2, s.Count(ItemDelivered))
	assert.Equal(t, 1, s.Count(ItemGenerationFailed))
	assert.Equal(t, 0, s.Count(ItemDeliveryFailed))
	assert.Equal(t, 90*time.Second, s.Duration())
}
