// Package spotify provides a client for the Spotify API: playlist lookup
// for quiz songs and Spotify Connect playback.
package spotify

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/coder/quartz"
	zlog "github.com/rs/zerolog/log"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"github.com/osa030/tunequiz/internal/domain/song"
)

const pageSize = 100

// api is the subset of *spotify.Client used here.
type api interface {
	GetPlaylistItems(ctx context.Context, playlistID spotify.ID, opts ...spotify.RequestOption) (*spotify.PlaylistItemPage, error)
	PlayerDevices(ctx context.Context) ([]spotify.PlayerDevice, error)
	PlayOpt(ctx context.Context, opt *spotify.PlayOptions) error
	PauseOpt(ctx context.Context, opt *spotify.PlayOptions) error
}

// Config represents Spotify client configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	Market       string
}

// Client is a Spotify API client.
type Client struct {
	client   api
	market   string
	attempts int
	backoff  time.Duration
	clock    quartz.Clock
}

// New creates a client that refreshes its access token from cfg.RefreshToken.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RefreshToken == "" {
		return nil, errors.New("spotify credentials are required")
	}

	auth := spotifyauth.New(
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithClientSecret(cfg.ClientSecret),
		spotifyauth.WithScopes(
			spotifyauth.ScopePlaylistReadPrivate,
			spotifyauth.ScopeUserReadPlaybackState,
			spotifyauth.ScopeUserModifyPlaybackState,
		),
	)
	httpClient := auth.Client(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})

	return newClient(spotify.New(httpClient), cfg.Market), nil
}

func newClient(c api, market string) *Client {
	if market == "" {
		market = "JP"
	}
	return &Client{
		client:   c,
		market:   market,
		attempts: 3,
		backoff:  time.Second,
		clock:    quartz.NewReal(),
	}
}

// GetPlaylistSongs pages through a playlist and returns its playable
// tracks. Episodes and tracks unavailable in the market are left out.
func (c *Client) GetPlaylistSongs(ctx context.Context, playlistURL string) ([]song.Song, error) {
	id := extractPlaylistID(playlistURL)
	if id == "" {
		return nil, errors.Newf("invalid playlist URL %q", playlistURL)
	}

	var songs []song.Song
	for offset := 0; ; offset += pageSize {
		var page *spotify.PlaylistItemPage
		err := c.retry(ctx, "playlist items", func() (err error) {
			page, err = c.client.GetPlaylistItems(ctx, spotify.ID(id),
				spotify.Limit(pageSize),
				spotify.Offset(offset),
				spotify.Market(c.market),
			)
			return err
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get items of playlist %s", id)
		}

		for _, item := range page.Items {
			if t := item.Track.Track; playable(t) {
				songs = append(songs, convertTrack(t))
			}
		}
		if len(page.Items) < pageSize {
			return songs, nil
		}
	}
}

func playable(t *spotify.FullTrack) bool {
	if t == nil || t.ID == "" {
		return false
	}
	return t.IsPlayable == nil || *t.IsPlayable
}

func convertTrack(t *spotify.FullTrack) song.Song {
	s := song.Song{
		ID:       string(t.ID),
		Name:     t.Name,
		Location: string(t.URI),
		Source:   song.SourceSpotify,
	}
	if len(t.Artists) > 0 {
		s.Artist = t.Artists[0].Name
	}
	if s.Location == "" {
		s.Location = "spotify:track:" + s.ID
	}
	return s
}

// retry runs fn up to c.attempts times, waiting longer after each
// transient failure. Other failures are returned at once.
func (c *Client) retry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !isRetryable(err) || attempt >= c.attempts {
			break
		}

		wait := c.backoff * time.Duration(attempt)
		zlog.Debug().Msgf("spotify: %s failed, retrying: attempt=%d wait=%s error=%v", op, attempt, wait, err)
		timer := c.clock.NewTimer(wait, "spotify", "retry")
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Wrapf(ctx.Err(), "spotify %s", op)
		case <-timer.C:
		}
	}
	if err != nil && isRetryable(err) {
		return errors.Wrapf(err, "spotify %s: gave up after %d attempts", op, c.attempts)
	}
	return err
}

// isRetryable reports whether err looks transient: rate limiting or a
// server side failure.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusTooManyRequests || apiErr.Status >= http.StatusInternalServerError
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "rate limit") {
		return true
	}
	for _, code := range []string{"429", "500", "502", "503", "504"} {
		if strings.Contains(msg, code) {
			return true
		}
	}
	return false
}

// extractPlaylistID accepts a playlist URI, an open.spotify.com link
// (optionally with a locale segment) or a bare ID.
func extractPlaylistID(input string) string {
	input = strings.TrimSpace(input)
	if id, ok := strings.CutPrefix(input, "spotify:playlist:"); ok {
		return id
	}

	if u, err := url.Parse(input); err == nil && strings.HasSuffix(u.Host, "open.spotify.com") {
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		for i := 0; i+1 < len(segments); i++ {
			if segments[i] == "playlist" {
				return segments[i+1]
			}
		}
		return ""
	}

	return input
}
