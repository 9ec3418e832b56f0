package filter

import (
	"context"
	"regexp"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/osa030/tunequiz/internal/domain/song"
)

// NamePatternConfig represents the configuration for NamePatternFilter.
type NamePatternConfig struct {
	Exclude []string `yaml:"exclude" mapstructure:"exclude" validate:"min=1"`
}

// NamePatternFilter excludes songs whose name matches any configured
// regular expression, e.g. jingles kept in the same folder.
type NamePatternFilter struct {
	patterns []*regexp.Regexp
}

func (f *NamePatternFilter) Name() string {
	return "name_pattern_filter"
}

func (f *NamePatternFilter) Description() string {
	return "Excludes songs whose name matches one of the configured patterns"
}

func (f *NamePatternFilter) ReturnCodes() []string {
	return []string{"excluded_name"}
}

func (f *NamePatternFilter) ValidateConfig(settings map[string]any) error {
	var config NamePatternConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return errors.Wrap(err, "failed to decode settings")
	}
	if err := validator.New().Struct(config); err != nil {
		return errors.Wrap(err, "validation failed")
	}

	patterns := make([]*regexp.Regexp, 0, len(config.Exclude))
	for _, expr := range config.Exclude {
		re, err := regexp.Compile(expr)
		if err != nil {
			return errors.Wrapf(err, "invalid pattern %q", expr)
		}
		patterns = append(patterns, re)
	}
	f.patterns = patterns
	return nil
}

func (f *NamePatternFilter) AppliesTo(source song.SourceType) bool {
	return true
}

func (f *NamePatternFilter) Check(ctx context.Context, s song.Song) Result {
	for _, re := range f.patterns {
		if re.MatchString(s.Name) {
			return Reject("excluded_name")
		}
	}
	return Accept()
}

func init() {
	Register("name_pattern_filter", func() Filter {
		return &NamePatternFilter{}
	})
}
