// Package mpd plays quiz songs on a Music Player Daemon and lists its
// library. Every operation dials a short-lived connection, so an idle
// timeout on the server never breaks the session.
package mpd

import (
	"context"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/coder/quartz"
	gompd "github.com/fhs/gompd/v2/mpd"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunequiz/internal/domain/song"
)

// conn is the subset of *gompd.Client used here.
type conn interface {
	Clear() error
	Add(uri string) error
	Play(pos int) error
	Pause(pause bool) error
	Stop() error
	Repeat(repeat bool) error
	Delete(start, end int) error
	SetVolume(volume int) error
	Status() (gompd.Attrs, error)
	ListAllInfo(uri string) ([]gompd.Attrs, error)
	Close() error
}

// Config represents the MPD connection settings.
type Config struct {
	Network  string // "tcp" or "unix"
	Addr     string
	Password string
	Fade     time.Duration // Intro fade out
}

// Client talks to one MPD server.
type Client struct {
	config Config
	dial   func() (conn, error)
	clock  quartz.Clock
}

// New creates an MPD client. It does not connect until first used.
func New(config Config) *Client {
	c := &Client{config: config, clock: quartz.NewReal()}
	c.dial = func() (conn, error) {
		if config.Password != "" {
			return gompd.DialAuthenticated(config.Network, config.Addr, config.Password)
		}
		return gompd.Dial(config.Network, config.Addr)
	}
	return c
}

// do runs fn with a fresh connection.
func (c *Client) do(ctx context.Context, op string, fn func(conn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cl, err := c.dial()
	if err != nil {
		return errors.Wrapf(err, "failed to connect to mpd at %s", c.config.Addr)
	}
	defer func() {
		if err := cl.Close(); err != nil {
			zlog.Debug().Msgf("mpd: close failed: op=%s error=%v", op, err)
		}
	}()

	if err := fn(cl); err != nil {
		return errors.Wrapf(err, "mpd %s failed", op)
	}
	return nil
}

// Ping checks that the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, "ping", func(conn) error { return nil })
}

// ListSongs lists every file of the library below dir. An empty dir lists
// the whole library.
func (c *Client) ListSongs(ctx context.Context, dir string) ([]song.Song, error) {
	var songs []song.Song
	err := c.do(ctx, "listallinfo", func(cl conn) error {
		entries, err := cl.ListAllInfo(dir)
		if err != nil {
			return err
		}
		for _, attrs := range entries {
			if s, ok := convertAttrs(attrs); ok {
				songs = append(songs, s)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return songs, nil
}

// convertAttrs turns a listallinfo entry into a song. Directories and
// playlists are skipped.
func convertAttrs(attrs gompd.Attrs) (song.Song, bool) {
	file := attrs["file"]
	if file == "" {
		return song.Song{}, false
	}

	name := attrs["Title"]
	if name == "" {
		base := path.Base(file)
		name = strings.TrimSuffix(base, path.Ext(base))
	}
	return song.Song{
		ID:       file,
		Name:     name,
		Artist:   attrs["Artist"],
		Location: file,
		Source:   song.SourceMPD,
	}, true
}

// volume reads the current volume. Servers without a mixer report -1.
func volume(cl conn) (int, error) {
	status, err := cl.Status()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(status["volume"])
	if err != nil {
		return -1, nil
	}
	return v, nil
}
