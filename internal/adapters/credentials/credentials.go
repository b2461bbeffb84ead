// Package credentials loads the delivery destination from the credential
// store, a JSON file of the form {"token": "...", "id": ...}.
package credentials

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/viper"

	"github.com/rajatvd/GifGenerator/internal/domain/model"
	apperrors "github.com/rajatvd/GifGenerator/internal/errors"
)

const field = "GIFGEN_INFOFILE"

// Options controls how the credential file is read.
type Options struct {
	// Path to the JSON file. Required.
	Path string
	// EnvPrefix, when set, lets {PREFIX}_TOKEN and {PREFIX}_ID override
	// the file's values.
	EnvPrefix string
}

// Load reads the credential file and returns the destination it describes.
// A missing or unreadable file and missing keys are configuration errors.
// The id may be a JSON string or number.
func Load(opts Options) (model.Destination, error) {
	path := strings.TrimSpace(opts.Path)
	if path == "" {
		return model.Destination{}, apperrors.Configuration(field, "credential file path is required")
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if opts.EnvPrefix != "" {
		v.SetEnvPrefix(opts.EnvPrefix)
		v.AutomaticEnv()
	}

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return model.Destination{}, apperrors.Configurationf(field, "credential file %s not found", path)
		}
		return model.Destination{}, &apperrors.AppError{
			Code:    apperrors.ErrCodeConfiguration,
			Message: "read credential file " + path,
			Field:   field,
			Cause:   err,
		}
	}

	dest := model.Destination{
		Token: strings.TrimSpace(v.GetString("token")),
		ID:    strings.TrimSpace(v.GetString("id")),
	}
	switch {
	case dest.Token == "":
		return model.Destination{}, apperrors.Configurationf(field, "credential file %s has no token", path)
	case dest.ID == "":
		return model.Destination{}, apperrors.Configurationf(field, "credential file %s has no id", path)
	}
	return dest, nil
}
