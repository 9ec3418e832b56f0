package source

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/mapstructure"

	"github.com/osa030/tunequiz/internal/domain/song"
)

type MPDProviderConfig struct {
	Directory string `yaml:"directory" mapstructure:"directory"`
}

// MPDProvider lists songs from the MPD music database. An empty directory
// means the whole library.
type MPDProvider struct {
	library MPDLibrary
	config  *MPDProviderConfig
}

// NewMPDProvider creates a new MPDProvider.
func NewMPDProvider(library MPDLibrary, settings map[string]any) (*MPDProvider, error) {
	if library == nil {
		return nil, errors.New("mpd connection is required")
	}

	var config MPDProviderConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	return &MPDProvider{library: library, config: &config}, nil
}

// Songs lists the library songs under the configured directory.
func (p *MPDProvider) Songs(ctx context.Context) ([]song.Song, error) {
	songs, err := p.library.ListSongs(ctx, p.config.Directory)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list mpd directory %q", p.config.Directory)
	}
	return songs, nil
}

// Name returns the provider name.
func (p *MPDProvider) Name() string {
	return "mpd"
}
