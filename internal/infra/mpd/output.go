package mpd

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunequiz/internal/domain/song"
)

// ErrUnsupportedSong is returned for songs that are not in the MPD library.
var ErrUnsupportedSong = errors.New("mpd output only plays library songs")

const (
	fadeSteps         = 15
	introPollInterval = 250 * time.Millisecond
)

// Output plays songs through MPD. The play queue is owned by the quiz:
// every song or intro replaces it.
type Output struct {
	client *Client

	mu          sync.Mutex
	introCancel context.CancelFunc
	introDone   chan struct{}
}

// NewOutput creates an MPD output.
func NewOutput(client *Client) *Output {
	return &Output{client: client}
}

// Play replaces the MPD queue with s and starts it.
func (o *Output) Play(ctx context.Context, s song.Song) error {
	if s.Source != song.SourceMPD {
		return errors.Wrapf(ErrUnsupportedSong, "%s song %s", s.Source, s.ID)
	}
	o.cancelIntro()

	return o.client.do(ctx, "play", func(cl conn) error {
		if err := cl.Clear(); err != nil {
			return err
		}
		if err := cl.Repeat(false); err != nil {
			return err
		}
		if err := cl.Add(s.Location); err != nil {
			return err
		}
		return cl.Play(0)
	})
}

func (o *Output) Pause(ctx context.Context) error {
	return o.client.do(ctx, "pause", func(cl conn) error { return cl.Pause(true) })
}

func (o *Output) Resume(ctx context.Context) error {
	return o.client.do(ctx, "resume", func(cl conn) error { return cl.Pause(false) })
}

func (o *Output) Stop(ctx context.Context) error {
	o.cancelIntro()
	return o.client.do(ctx, "stop", func(cl conn) error { return cl.Stop() })
}

// PlayIntro queues the start clip and the loop clip with repeat on. Once
// the start clip is over it is removed, leaving the loop clip repeating.
func (o *Output) PlayIntro(ctx context.Context, start, loop string) error {
	o.cancelIntro()

	err := o.client.do(ctx, "intro", func(cl conn) error {
		if err := cl.Clear(); err != nil {
			return err
		}
		for _, clip := range []string{start, loop} {
			if clip == "" {
				continue
			}
			if err := cl.Add(clip); err != nil {
				return errors.Wrapf(err, "failed to add intro clip %s", clip)
			}
		}
		if err := cl.Repeat(loop != ""); err != nil {
			return err
		}
		return cl.Play(0)
	})
	if err != nil {
		return err
	}

	if start != "" && loop != "" {
		watchCtx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		o.mu.Lock()
		o.introCancel, o.introDone = cancel, done
		o.mu.Unlock()
		go o.dropStartClip(watchCtx, done)
	}
	return nil
}

// dropStartClip waits for MPD to move past the start clip and deletes it.
func (o *Output) dropStartClip(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := o.client.clock.NewTicker(introPollInterval, "mpd", "intro")
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		var dropped bool
		err := o.client.do(ctx, "intro watch", func(cl conn) error {
			status, err := cl.Status()
			if err != nil {
				return err
			}
			if status["song"] != "1" {
				return nil
			}
			dropped = true
			return cl.Delete(0, 1)
		})
		if err != nil {
			zlog.Debug().Msgf("mpd: intro watch: %v", err)
			if ctx.Err() != nil {
				return
			}
		}
		if dropped {
			return
		}
	}
}

// StopIntro fades the intro out, stops it and restores the volume.
func (o *Output) StopIntro(ctx context.Context) error {
	o.cancelIntro()

	return o.client.do(ctx, "stop intro", func(cl conn) error {
		original, err := volume(cl)
		if err != nil {
			return err
		}
		if original > 0 && o.client.config.Fade > 0 {
			if err := o.fade(ctx, cl, original); err != nil {
				zlog.Debug().Msgf("mpd: fade cut short: %v", err)
			}
		}
		if err := cl.Stop(); err != nil {
			return err
		}
		if err := cl.Clear(); err != nil {
			return err
		}
		if original > 0 {
			return cl.SetVolume(original)
		}
		return nil
	})
}

func (o *Output) fade(ctx context.Context, cl conn, from int) error {
	step := o.client.config.Fade / fadeSteps
	for i := fadeSteps - 1; i >= 0; i-- {
		if err := cl.SetVolume(from * i / fadeSteps); err != nil {
			return err
		}
		timer := o.client.clock.NewTimer(step, "mpd", "fade")
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

// Close stops the intro watcher. MPD keeps its own state.
func (o *Output) Close() error {
	o.cancelIntro()
	return nil
}

func (o *Output) cancelIntro() {
	o.mu.Lock()
	cancel, done := o.introCancel, o.introDone
	o.introCancel, o.introDone = nil, nil
	o.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}
