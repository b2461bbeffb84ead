package generator

import "github.com/rajatvd/GifGenerator/internal/domain/model"

// NeuralODEName is the generator that renders a randomly initialised neural ODE.
const NeuralODEName = "neural_ode"

// NeuralODE returns the neural_ode capability backed by invoke.
func NeuralODE(invoke RenderFunc) Capability {
	return Capability{
		Name: NeuralODEName,
		DefaultConfig: model.GenerationConfig{
			"device":              "cuda",
			"frames":              100,
			"fps":                 60,
			"end_time":            500,
			"channels_per_colour": 1,
			"eps":                 1e-5,
			"image_size":          []int{224, 224},
			"smooth_colours":      false,
		},
		Prefix:    "neural_ode_",
		Extension: ".mp4",
		Subdir:    "neural_ode_gifs",
		Invoke:    invoke,
	}
}

// Builtins returns every generator shipped with gifgen, all driven by invoke.
func Builtins(invoke RenderFunc) []Capability {
	return []Capability{NeuralODE(invoke)}
}
