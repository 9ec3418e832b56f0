package filter

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunequiz/internal/domain/song"
)

// ExtensionConfig represents the configuration for ExtensionFilter.
type ExtensionConfig struct {
	Extensions []string `yaml:"extensions" mapstructure:"extensions" default:"[\".mp3\",\".wav\"]" validate:"min=1,dive,startswith=."`
}

// ExtensionFilter keeps only files the output can decode.
type ExtensionFilter struct {
	allowed map[string]bool
}

// NewExtensionFilter creates a new extension filter.
func NewExtensionFilter() *ExtensionFilter {
	return &ExtensionFilter{}
}

func (f *ExtensionFilter) Name() string {
	return "extension_filter"
}

func (f *ExtensionFilter) Description() string {
	return "Keeps only audio files with an allowed extension (.mp3 and .wav by default)"
}

func (f *ExtensionFilter) ReturnCodes() []string {
	return []string{"unsupported_extension"}
}

func (f *ExtensionFilter) ValidateConfig(settings map[string]any) error {
	var config ExtensionConfig

	// Decode map[string]any to struct using mapstructure
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &config,
		TagName: "mapstructure",
	})
	if err != nil {
		return errors.Wrap(err, "failed to create decoder")
	}

	if err := decoder.Decode(settings); err != nil {
		return errors.Wrap(err, "failed to decode settings")
	}

	// Set defaults
	if err := defaults.Set(&config); err != nil {
		return errors.Wrap(err, "failed to set defaults")
	}

	// Validate using validator
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return errors.Wrap(err, "validation failed")
	}

	f.allowed = make(map[string]bool, len(config.Extensions))
	for _, ext := range config.Extensions {
		f.allowed[strings.ToLower(ext)] = true
	}
	zlog.Debug().Msgf("extension filter config: %+v", config)
	return nil
}

func (f *ExtensionFilter) AppliesTo(source song.SourceType) bool {
	// Spotify URIs have no file extension
	return source == song.SourceFolder || source == song.SourceMPD
}

func (f *ExtensionFilter) Check(ctx context.Context, s song.Song) Result {
	// If config is not set, accept all songs
	if f.allowed == nil {
		return Accept()
	}

	if !f.allowed[s.Ext()] {
		return Reject("unsupported_extension")
	}
	return Accept()
}

func init() {
	Register("extension_filter", func() Filter {
		return NewExtensionFilter()
	})
}
