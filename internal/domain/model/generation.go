// Package model defines the data types that flow through the generation pipeline:
// the job description built at startup, per-attempt requests and per-run outcomes.
package model

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
)

// GenerationConfig is the named parameter set handed to a generator backend.
// Values are treated as immutable; Clone and Merge always return new maps.
type GenerationConfig map[string]any

// Clone returns a shallow copy of the config.
func (c GenerationConfig) Clone() GenerationConfig {
	out := make(GenerationConfig, len(c))
	maps.Copy(out, c)
	return out
}

// Merge returns a copy of c with every key of overrides applied on top.
func (c GenerationConfig) Merge(overrides GenerationConfig) GenerationConfig {
	out := c.Clone()
	maps.Copy(out, overrides)
	return out
}

// ParseGenerationConfig decodes a JSON object. An empty string yields an empty config.
func ParseGenerationConfig(raw string) (GenerationConfig, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return GenerationConfig{}, nil
	}
	var cfg GenerationConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, fmt.Errorf("parse generation config: %w", err)
	}
	if cfg == nil {
		return nil, fmt.Errorf("parse generation config: expected a JSON object")
	}
	return cfg, nil
}

// RenderRequest asks a generator backend to produce one artifact at OutputPath.
type RenderRequest struct {
	Generator  string
	Config     GenerationConfig
	OutputPath string
}
