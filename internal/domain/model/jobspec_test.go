package model

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/rajatvd/GifGenerator/internal/errors"
)

func validSpec() JobSpec {
	return JobSpec{
		GeneratorName:     "neural_ode",
		Config:            GenerationConfig{"frames": 100},
		Destination:       Destination{ID: "42", Token: "secret"},
		OutputDir:         "gifs/neural_ode_gifs",
		NamePrefix:        "neural_ode_",
		Extension:         ".mp4",
		ArtifactCount:     2,
		PerAttemptTimeout: 10 * time.Minute,
		MaxAttempts:       3,
		Interval:          time.Hour,
		DeliveryTimeout:   100 * time.Second,
	}
}

func TestJobSpec_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*JobSpec)
		wantField string
	}{
		{name: "valid", mutate: func(*JobSpec) {}},
		{name: "zero count allowed", mutate: func(s *JobSpec) { s.ArtifactCount = 0 }},
		{name: "missing generator", mutate: func(s *JobSpec) { s.GeneratorName = " " }, wantField: "GIFGEN_GENERATOR"},
		{name: "missing dir", mutate: func(s *JobSpec) { s.OutputDir = "" }, wantField: "GIFGEN_OUTPUT_ROOT"},
		{name: "extension without dot", mutate: func(s *JobSpec) { s.Extension = "mp4" }, wantField: "GIFGEN_GENERATOR"},
		{name: "negative count", mutate: func(s *JobSpec) { s.ArtifactCount = -1 }, wantField: "GIFGEN_COUNT"},
		{name: "zero timeout", mutate: func(s *JobSpec) { s.PerAttemptTimeout = 0 }, wantField: "GIFGEN_ATTEMPT_TIMEOUT"},
		{name: "zero attempts", mutate: func(s *JobSpec) { s.MaxAttempts = 0 }, wantField: "GIFGEN_MAX_ATTEMPTS"},
		{name: "negative attempts", mutate: func(s *JobSpec) { s.MaxAttempts = -2 }, wantField: "GIFGEN_MAX_ATTEMPTS"},
		{name: "zero interval", mutate: func(s *JobSpec) { s.Interval = 0 }, wantField: "GIFGEN_INTERVAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validSpec()
			tt.mutate(&spec)
			err := spec.Validate()
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.IsConfiguration(err))
			assert.Equal(t, tt.wantField, apperrors.GetField(err))
		})
	}
}

func TestDestination_RedactsToken(t *testing.T) {
	d := Destination{ID: "1234", Token: "bot-token"}

	assert.NotContains(t, d.String(), "bot-token")
	assert.NotContains(t, fmt.Sprintf("%v", d), "bot-token")

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logger.Info("loaded", "destination", d)
	assert.NotContains(t, buf.String(), "bot-token")
	assert.Contains(t, buf.String(), `"id":"1234"`)
}
