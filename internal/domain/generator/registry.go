// Package generator holds the read-only registry of artifact generators the
// daemon knows how to drive, each with its default parameters and naming.
package generator

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rajatvd/GifGenerator/internal/domain/model"
	apperrors "github.com/rajatvd/GifGenerator/internal/errors"
)

// RenderFunc produces one artifact for a request.
type RenderFunc func(ctx context.Context, req model.RenderRequest) (string, error)

// Capability describes one generator kind.
type Capability struct {
	Name          string
	DefaultConfig model.GenerationConfig
	Prefix        string
	Extension     string
	// Subdir is the directory under the output root where this kind writes.
	Subdir string
	Invoke RenderFunc
}

// OutputDir returns the directory for this kind under root.
func (c Capability) OutputDir(root string) string {
	return filepath.Join(root, c.Subdir)
}

// Registry maps generator names to capabilities. It is built once and never
// mutated afterwards, so it is safe to share.
type Registry struct {
	caps map[string]Capability
}

// NewRegistry validates and indexes caps. Duplicate names are rejected.
func NewRegistry(caps ...Capability) (*Registry, error) {
	r := &Registry{caps: make(map[string]Capability, len(caps))}
	for _, c := range caps {
		if err := validate(c); err != nil {
			return nil, err
		}
		if _, dup := r.caps[c.Name]; dup {
			return nil, apperrors.Configurationf("GIFGEN_GENERATOR", "generator %q registered twice", c.Name)
		}
		c.DefaultConfig = c.DefaultConfig.Clone()
		r.caps[c.Name] = c
	}
	return r, nil
}

func validate(c Capability) error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return apperrors.Configuration("GIFGEN_GENERATOR", "generator name is required")
	case c.Prefix == "":
		return apperrors.Configurationf("GIFGEN_GENERATOR", "generator %q has no file prefix", c.Name)
	case !strings.HasPrefix(c.Extension, "."):
		return apperrors.Configurationf("GIFGEN_GENERATOR", "generator %q extension must start with a dot", c.Name)
	case c.Invoke == nil:
		return apperrors.Configurationf("GIFGEN_GENERATOR", "generator %q has no backend", c.Name)
	}
	return nil
}

// Lookup returns the capability for name with a private copy of its defaults.
func (r *Registry) Lookup(name string) (Capability, error) {
	c, ok := r.caps[name]
	if !ok {
		return Capability{}, apperrors.Configurationf("GIFGEN_GENERATOR",
			"unknown generator %q (known: %s)", name, strings.Join(r.Names(), ", "))
	}
	c.DefaultConfig = c.DefaultConfig.Clone()
	return c, nil
}

// Names lists registered generators in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.caps))
	for n := range r.caps {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// String is used in admin output.
func (r *Registry) String() string {
	return fmt.Sprintf("generators[%s]", strings.Join(r.Names(), ","))
}
