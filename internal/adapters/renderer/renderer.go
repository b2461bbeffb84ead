// Package renderer drives the generator backends that actually produce
// artifacts: a local command (exec) or a remote render service (http).
package renderer

import (
	"github.com/rajatvd/GifGenerator/internal/core"
	"github.com/rajatvd/GifGenerator/internal/domain/model"
)

// payload is the request body shared by both backends.
type payload struct {
	Generator  string                 `json:"generator"`
	Config     model.GenerationConfig `json:"config"`
	OutputPath string                 `json:"output_path"`
}

func newPayload(req model.RenderRequest) payload {
	cfg := req.Config
	if cfg == nil {
		cfg = model.GenerationConfig{}
	}
	return payload{Generator: req.Generator, Config: cfg, OutputPath: req.OutputPath}
}

var (
	_ core.Renderer = (*Exec)(nil)
	_ core.Renderer = (*HTTP)(nil)
)
