package playback

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/tunequiz/internal/domain/song"
)

type fakeOutput struct {
	mu     sync.Mutex
	calls  []string
	failOn map[string]bool
	closed bool
	intro  [2]string
	// time left on the context handed to StopIntro
	stopIntroBudget time.Duration
}

func newFakeOutput() *fakeOutput {
	return &fakeOutput{failOn: make(map[string]bool)}
}

func (o *fakeOutput) record(call string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, call)
}

func (o *fakeOutput) Play(_ context.Context, s song.Song) error {
	o.record("play:" + s.Name)
	if o.failOn[s.Name] {
		return errors.New("cannot decode")
	}
	return nil
}

func (o *fakeOutput) Pause(context.Context) error  { o.record("pause"); return nil }
func (o *fakeOutput) Resume(context.Context) error { o.record("resume"); return nil }
func (o *fakeOutput) Stop(context.Context) error   { o.record("stop"); return nil }

func (o *fakeOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	return nil
}

func (o *fakeOutput) Calls() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.calls...)
}

type fakeIntroOutput struct {
	*fakeOutput
}

func (o fakeIntroOutput) PlayIntro(_ context.Context, start, loop string) error {
	o.record("intro")
	o.mu.Lock()
	o.intro = [2]string{start, loop}
	o.mu.Unlock()
	return nil
}

func (o fakeIntroOutput) StopIntro(ctx context.Context) error {
	o.record("stop_intro")
	if deadline, ok := ctx.Deadline(); ok {
		o.mu.Lock()
		o.stopIntroBudget = time.Until(deadline)
		o.mu.Unlock()
	}
	return nil
}

func songs(names ...string) []song.Song {
	out := make([]song.Song, 0, len(names))
	for i, n := range names {
		out = append(out, song.Song{ID: string(rune('a' + i)), Name: n, Location: "/music/" + n + ".mp3", Source: song.SourceFolder})
	}
	return out
}

func waitOutput(t *testing.T, c *Controller) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, c.Sync(ctx))
}

func TestController_NextPlaysQueueInOrder(t *testing.T) {
	out := newFakeOutput()
	c := NewController(out, Config{})
	defer c.Close()

	c.EnqueueMultiple(songs("one", "two"))
	assert.Equal(t, 2, c.GetQueueSize())

	require.NoError(t, c.Next())
	cur, ok := c.GetCurrentSong()
	require.True(t, ok)
	assert.Equal(t, "one", cur.Name)
	assert.Equal(t, StatePlaying, c.GetState())

	require.NoError(t, c.Next())
	cur, _ = c.GetCurrentSong()
	assert.Equal(t, "two", cur.Name)
	assert.Len(t, c.GetPlayedSongs(), 1)

	err := c.Next()
	assert.ErrorIs(t, err, ErrQueueEmpty)
	assert.Equal(t, StateIdle, c.GetState())
	_, ok = c.GetCurrentSong()
	assert.False(t, ok)
	assert.Len(t, c.GetPlayedSongs(), 2)

	waitOutput(t, c)
	assert.Equal(t, []string{"play:one", "play:two", "stop"}, out.Calls())
}

func TestController_PauseResume(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(c *Controller)
		action  func(c *Controller) error
		wantErr error
		want    State
	}{
		{
			name:    "pause without song",
			prepare: func(*Controller) {},
			action:  (*Controller).Pause,
			wantErr: ErrNoSong,
			want:    StateIdle,
		},
		{
			name:    "pause playing song",
			prepare: func(c *Controller) { _ = c.Next() },
			action:  (*Controller).Pause,
			want:    StatePaused,
		},
		{
			name:    "pause twice",
			prepare: func(c *Controller) { _ = c.Next(); _ = c.Pause() },
			action:  (*Controller).Pause,
			wantErr: ErrNotPlaying,
			want:    StatePaused,
		},
		{
			name:    "resume playing song",
			prepare: func(c *Controller) { _ = c.Next() },
			action:  (*Controller).Resume,
			wantErr: ErrNotPaused,
			want:    StatePlaying,
		},
		{
			name:    "resume paused song",
			prepare: func(c *Controller) { _ = c.Next(); _ = c.Pause() },
			action:  (*Controller).Resume,
			want:    StatePlaying,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(newFakeOutput(), Config{})
			defer c.Close()
			c.EnqueueMultiple(songs("one"))

			tt.prepare(c)
			err := tt.action(c)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, c.GetState())
		})
	}
}

func TestController_PlayFailureEmitsEvent(t *testing.T) {
	out := newFakeOutput()
	out.failOn["broken"] = true
	c := NewController(out, Config{})
	defer c.Close()

	c.EnqueueMultiple(songs("broken"))
	require.NoError(t, c.Next())
	waitOutput(t, c)

	var failed *Event
	for len(c.Events()) > 0 {
		e := <-c.Events()
		if e.Type == EventSongFailed {
			failed = &e
		}
	}
	require.NotNil(t, failed)
	assert.Equal(t, "broken", failed.Song.Name)
	assert.Error(t, failed.Err)
	// The round keeps going; the host decides when to skip.
	assert.Equal(t, StatePlaying, c.GetState())
}

func TestController_Intro(t *testing.T) {
	t.Run("unsupported output", func(t *testing.T) {
		c := NewController(newFakeOutput(), Config{IntroLoop: "loop.mp3"})
		defer c.Close()
		assert.ErrorIs(t, c.StartIntro(), ErrIntroUnsupported)
		assert.NoError(t, c.StopIntro())
	})

	t.Run("no clips configured", func(t *testing.T) {
		c := NewController(fakeIntroOutput{newFakeOutput()}, Config{})
		defer c.Close()
		assert.ErrorIs(t, c.StartIntro(), ErrIntroUnsupported)
	})

	t.Run("start pause resume stop", func(t *testing.T) {
		out := fakeIntroOutput{newFakeOutput()}
		c := NewController(out, Config{IntroStart: "start.mp3", IntroLoop: "loop.mp3"})
		defer c.Close()

		require.NoError(t, c.StartIntro())
		assert.Equal(t, StateIntro, c.GetState())

		require.NoError(t, c.Pause())
		assert.Equal(t, StatePaused, c.GetState())
		require.NoError(t, c.Resume())
		assert.Equal(t, StateIntro, c.GetState())

		require.NoError(t, c.StopIntro())
		assert.Equal(t, StateIdle, c.GetState())

		waitOutput(t, c)
		assert.Equal(t, []string{"intro", "pause", "resume", "stop_intro"}, out.Calls())
		assert.Equal(t, [2]string{"start.mp3", "loop.mp3"}, out.intro)
	})

	t.Run("fade longer than the command timeout", func(t *testing.T) {
		out := fakeIntroOutput{newFakeOutput()}
		c := NewController(out, Config{
			IntroLoop:      "loop.mp3",
			CommandTimeout: 200 * time.Millisecond,
			Fade:           2 * time.Second,
		})
		defer c.Close()

		require.NoError(t, c.StartIntro())
		require.NoError(t, c.StopIntro())
		waitOutput(t, c)

		out.mu.Lock()
		defer out.mu.Unlock()
		assert.Greater(t, out.stopIntroBudget, 2*time.Second-100*time.Millisecond,
			"stopping the intro gets the whole fade on top of the command timeout")
	})
}

func TestController_Close(t *testing.T) {
	out := newFakeOutput()
	c := NewController(out, Config{})
	c.EnqueueMultiple(songs("one"))
	require.NoError(t, c.Next())

	require.NoError(t, c.Close())
	assert.True(t, out.closed)
	assert.Equal(t, []string{"play:one", "stop"}, out.Calls())

	assert.ErrorIs(t, c.Next(), ErrClosed)
	assert.NoError(t, c.Close())
	assert.NotPanics(t, func() { _ = c.Pause() })
}
