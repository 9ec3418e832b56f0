package mpd

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/coder/quartz"
	gompd "github.com/fhs/gompd/v2/mpd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/tunequiz/internal/domain/song"
)

// fakeServer stands in for MPD. Each dial hands out a fakeConn sharing it.
type fakeServer struct {
	mu      sync.Mutex
	calls   []string
	status  gompd.Attrs
	entries []gompd.Attrs
	failOn  string
	dialErr error
	open    int
}

func (s *fakeServer) record(call string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
	if s.failOn == call {
		return errors.Newf("%s refused", call)
	}
	return nil
}

func (s *fakeServer) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *fakeServer) setStatus(k, v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[k] = v
}

type fakeConn struct{ s *fakeServer }

func (c *fakeConn) Clear() error             { return c.s.record("clear") }
func (c *fakeConn) Add(uri string) error     { return c.s.record("add:" + uri) }
func (c *fakeConn) Play(pos int) error       { return c.s.record(fmt.Sprintf("play:%d", pos)) }
func (c *fakeConn) Pause(pause bool) error   { return c.s.record(fmt.Sprintf("pause:%v", pause)) }
func (c *fakeConn) Stop() error              { return c.s.record("stop") }
func (c *fakeConn) Repeat(repeat bool) error { return c.s.record(fmt.Sprintf("repeat:%v", repeat)) }
func (c *fakeConn) Delete(start, end int) error {
	return c.s.record(fmt.Sprintf("delete:%d-%d", start, end))
}
func (c *fakeConn) SetVolume(v int) error { return c.s.record(fmt.Sprintf("volume:%d", v)) }

func (c *fakeConn) Status() (gompd.Attrs, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	status := gompd.Attrs{}
	for k, v := range c.s.status {
		status[k] = v
	}
	return status, nil
}

func (c *fakeConn) ListAllInfo(uri string) ([]gompd.Attrs, error) {
	if err := c.s.record("listallinfo:" + uri); err != nil {
		return nil, err
	}
	return c.s.entries, nil
}

func (c *fakeConn) Close() error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	c.s.open--
	return nil
}

func newTestClient(t *testing.T, cfg Config, clock quartz.Clock) (*Client, *fakeServer) {
	t.Helper()
	srv := &fakeServer{status: gompd.Attrs{"volume": "60"}}
	c := New(cfg)
	c.clock = clock
	c.dial = func() (conn, error) {
		if srv.dialErr != nil {
			return nil, srv.dialErr
		}
		srv.mu.Lock()
		srv.open++
		srv.mu.Unlock()
		return &fakeConn{s: srv}, nil
	}
	return c, srv
}

func TestClient_ListSongs(t *testing.T) {
	c, srv := newTestClient(t, Config{}, quartz.NewReal())
	srv.entries = []gompd.Attrs{
		{"directory": "quiz"},
		{"file": "quiz/01 Intro.mp3", "Title": "Intro", "Artist": "Band"},
		{"file": "quiz/untitled.wav"},
		{"playlist": "quiz/best.m3u"},
	}

	songs, err := c.ListSongs(context.Background(), "quiz")
	require.NoError(t, err)
	assert.Equal(t, []song.Song{
		{ID: "quiz/01 Intro.mp3", Name: "Intro", Artist: "Band", Location: "quiz/01 Intro.mp3", Source: song.SourceMPD},
		{ID: "quiz/untitled.wav", Name: "untitled", Location: "quiz/untitled.wav", Source: song.SourceMPD},
	}, songs)
	assert.Equal(t, []string{"listallinfo:quiz"}, srv.Calls())
	assert.Equal(t, 0, srv.open, "connection is closed after use")
}

func TestClient_Errors(t *testing.T) {
	c, srv := newTestClient(t, Config{Addr: "localhost:6600"}, quartz.NewReal())

	srv.dialErr = errors.New("connection refused")
	assert.ErrorContains(t, c.Ping(context.Background()), "localhost:6600")

	srv.dialErr = nil
	srv.failOn = "listallinfo:"
	_, err := c.ListSongs(context.Background(), "")
	assert.ErrorContains(t, err, "listallinfo")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.Ping(ctx), context.Canceled)
}

func TestOutput_Play(t *testing.T) {
	c, srv := newTestClient(t, Config{}, quartz.NewReal())
	o := NewOutput(c)
	ctx := context.Background()

	require.NoError(t, o.Play(ctx, song.Song{ID: "a.mp3", Location: "a.mp3", Source: song.SourceMPD}))
	require.NoError(t, o.Pause(ctx))
	require.NoError(t, o.Resume(ctx))
	require.NoError(t, o.Stop(ctx))

	assert.Equal(t, []string{
		"clear", "repeat:false", "add:a.mp3", "play:0",
		"pause:true", "pause:false", "stop",
	}, srv.Calls())

	err := o.Play(ctx, song.FromFile("/music/a.mp3"))
	assert.ErrorIs(t, err, ErrUnsupportedSong)
}

func TestOutput_IntroDropsStartClip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clock := quartz.NewMock(t)
	c, srv := newTestClient(t, Config{}, clock)
	o := NewOutput(c)
	defer o.Close()

	srv.setStatus("song", "0")
	require.NoError(t, o.PlayIntro(ctx, "intro/start.mp3", "intro/loop.mp3"))
	assert.Equal(t, []string{"clear", "add:intro/start.mp3", "add:intro/loop.mp3", "repeat:true", "play:0"}, srv.Calls())

	clock.Advance(introPollInterval).MustWait(ctx)
	assert.NotContains(t, srv.Calls(), "delete:0-1", "start clip still playing")

	srv.setStatus("song", "1")
	require.Eventually(t, func() bool {
		clock.Advance(introPollInterval).MustWait(ctx)
		for _, call := range srv.Calls() {
			if call == "delete:0-1" {
				return true
			}
		}
		return false
	}, time.Second, time.Millisecond)
}

func TestOutput_StopIntroFades(t *testing.T) {
	c, srv := newTestClient(t, Config{Fade: 15 * time.Millisecond}, quartz.NewReal())
	o := NewOutput(c)
	ctx := context.Background()

	require.NoError(t, o.PlayIntro(ctx, "", "intro/loop.mp3"))
	require.NoError(t, o.StopIntro(ctx))

	calls := srv.Calls()
	var volumes []string
	for _, call := range calls {
		if len(call) > 7 && call[:7] == "volume:" {
			volumes = append(volumes, call)
		}
	}
	require.Len(t, volumes, fadeSteps+1)
	assert.Equal(t, "volume:56", volumes[0])
	assert.Equal(t, "volume:0", volumes[fadeSteps-1])
	assert.Equal(t, "volume:60", volumes[fadeSteps], "volume is restored")
	assert.Equal(t, []string{"stop", "clear", "volume:60"}, calls[len(calls)-3:])
}

func TestOutput_StopIntroWithoutMixer(t *testing.T) {
	c, srv := newTestClient(t, Config{Fade: time.Second}, quartz.NewReal())
	srv.setStatus("volume", "-1")
	o := NewOutput(c)

	require.NoError(t, o.StopIntro(context.Background()))
	assert.Equal(t, []string{"stop", "clear"}, srv.Calls())
}
