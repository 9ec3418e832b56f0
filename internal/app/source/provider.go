// Package source provides the song providers that fill the quiz queue.
package source

import (
	"context"

	"github.com/osa030/tunequiz/internal/domain/song"
)

// Provider is the interface for song providers.
// Different implementations list songs from different places
// (e.g., a local folder, a Spotify playlist, an MPD library).
type Provider interface {
	// Songs lists every song the provider offers, in a stable order.
	Songs(ctx context.Context) ([]song.Song, error)

	// Name returns the provider name (used in config).
	Name() string
}

// SpotifyClient defines the Spotify operations needed by the playlist provider.
type SpotifyClient interface {
	GetPlaylistSongs(ctx context.Context, playlistURL string) ([]song.Song, error)
}

// MPDLibrary defines the MPD operations needed by the library provider.
type MPDLibrary interface {
	ListSongs(ctx context.Context, dir string) ([]song.Song, error)
}

// Clients carries the remote clients providers may need. Nil clients are
// fine as long as no provider needs them.
type Clients struct {
	Spotify SpotifyClient
	MPD     MPDLibrary
}
