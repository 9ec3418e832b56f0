package source

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/osa030/tunequiz/internal/domain/song"
)

type PlaylistProviderConfig struct {
	PlaylistURL string `yaml:"playlist_url" mapstructure:"playlist_url" validate:"required"`
}

// PlaylistProvider lists the tracks of a Spotify playlist. A successful
// listing is kept, so list-songs followed by a session costs one round of
// API calls; a failed one is retried on the next call.
type PlaylistProvider struct {
	spotify SpotifyClient
	url     string

	mu     sync.Mutex
	listed []song.Song
}

// NewPlaylistProvider creates a new PlaylistProvider.
func NewPlaylistProvider(spotify SpotifyClient, settings map[string]any) (*PlaylistProvider, error) {
	if spotify == nil {
		return nil, errors.New("spotify client is required")
	}

	var config PlaylistProviderConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(err, "playlist_url is required")
	}
	return &PlaylistProvider{spotify: spotify, url: config.PlaylistURL}, nil
}

// Songs returns the playlist tracks in playlist order.
func (p *PlaylistProvider) Songs(ctx context.Context) ([]song.Song, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.listed == nil {
		songs, err := p.spotify.GetPlaylistSongs(ctx, p.url)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to list playlist %s", p.url)
		}
		p.listed = songs
	}
	return p.listed, nil
}

func (p *PlaylistProvider) Name() string {
	return "playlist"
}
