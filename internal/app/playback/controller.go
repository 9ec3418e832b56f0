package playback

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunequiz/internal/domain/song"
)

// Errors
var (
	ErrNoSong           = errors.New("no song current")
	ErrQueueEmpty       = errors.New("queue is empty")
	ErrNotPlaying       = errors.New("not playing")
	ErrNotPaused        = errors.New("not paused")
	ErrIntroUnsupported = errors.New("intro not supported by output")
	ErrClosed           = errors.New("controller closed")
)

// Config holds controller configuration.
type Config struct {
	IntroStart     string        // Clip played once when the intro starts
	IntroLoop      string        // Clip looped until the intro ends
	CommandTimeout time.Duration // Upper bound for a single output call
	Fade           time.Duration // Intro fade out, added to the stop intro bound
}

type command struct {
	name    string
	song    *song.Song
	timeout time.Duration // CommandTimeout when zero
	run     func(ctx context.Context) error
}

// Controller manages playback with an internal queue. State changes happen
// synchronously; the output is driven from a worker goroutine so callers
// never wait on audio.
type Controller struct {
	mu sync.RWMutex

	// Queue management
	queue  []song.Song // Songs waiting to be played
	played []song.Song // Songs that have been played (history)

	// Current song state
	current     *song.Song
	state       State
	introActive bool

	output Output
	config Config

	// Worker
	cmds       chan command
	workerDone chan struct{}
	closed     bool

	// Events
	eventCh      chan Event
	eventsClosed bool

	// Context
	ctx    context.Context
	cancel context.CancelFunc
}

// NewController creates a new playback controller and starts its worker.
func NewController(output Output, config Config) *Controller {
	if config.CommandTimeout <= 0 {
		config.CommandTimeout = 5 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		queue:      make([]song.Song, 0),
		played:     make([]song.Song, 0),
		state:      StateIdle,
		output:     output,
		config:     config,
		cmds:       make(chan command, 32),
		workerDone: make(chan struct{}),
		eventCh:    make(chan Event, 32),
		ctx:        ctx,
		cancel:     cancel,
	}
	go c.worker()
	return c
}

// Events returns the event channel.
func (c *Controller) Events() <-chan Event {
	return c.eventCh
}

// Next makes the next queued song current and starts it. It returns
// ErrQueueEmpty when nothing is left.
func (c *Controller) Next() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	if c.current != nil {
		c.played = append(c.played, *c.current)
		c.current = nil
	}

	if len(c.queue) == 0 {
		c.state = StateIdle
		c.enqueueLocked(command{name: "stop", run: c.output.Stop})
		c.sendEventLocked(Event{Type: EventQueueEmpty, State: c.state})
		return ErrQueueEmpty
	}

	s := c.queue[0]
	c.queue = c.queue[1:]
	c.current = &s
	c.state = StatePlaying

	c.enqueueLocked(command{
		name: "play",
		song: &s,
		run: func(ctx context.Context) error {
			return c.output.Play(ctx, s)
		},
	})
	c.sendEventLocked(Event{Type: EventSongStarted, Song: c.current, State: c.state})
	return nil
}

// Pause pauses the current song or the intro.
func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil && !c.introActive {
		return ErrNoSong
	}
	if c.state != StatePlaying && c.state != StateIntro {
		return ErrNotPlaying
	}

	c.state = StatePaused
	c.enqueueLocked(command{name: "pause", song: c.current, run: c.output.Pause})
	c.sendEventLocked(Event{Type: EventStateChanged, Song: c.current, State: c.state})
	return nil
}

// Resume resumes paused playback.
func (c *Controller) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil && !c.introActive {
		return ErrNoSong
	}
	if c.state != StatePaused {
		return ErrNotPaused
	}

	if c.introActive {
		c.state = StateIntro
	} else {
		c.state = StatePlaying
	}
	c.enqueueLocked(command{name: "resume", song: c.current, run: c.output.Resume})
	c.sendEventLocked(Event{Type: EventStateChanged, Song: c.current, State: c.state})
	return nil
}

// StartIntro plays the intro clips if both the config and the output
// support it.
func (c *Controller) StartIntro() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	intro, ok := c.output.(IntroOutput)
	if !ok || (c.config.IntroStart == "" && c.config.IntroLoop == "") {
		return ErrIntroUnsupported
	}
	if c.introActive {
		return nil
	}

	c.introActive = true
	c.state = StateIntro
	start, loop := c.config.IntroStart, c.config.IntroLoop
	c.enqueueLocked(command{
		name: "intro",
		run: func(ctx context.Context) error {
			return intro.PlayIntro(ctx, start, loop)
		},
	})
	c.sendEventLocked(Event{Type: EventIntroStarted, State: c.state})
	return nil
}

// StopIntro fades the intro out. It is a no-op when no intro is playing.
func (c *Controller) StopIntro() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.introActive {
		return nil
	}
	intro := c.output.(IntroOutput)

	c.introActive = false
	c.state = StateIdle
	c.enqueueLocked(command{
		name:    "stop_intro",
		timeout: c.config.CommandTimeout + c.config.Fade,
		run:     intro.StopIntro,
	})
	c.sendEventLocked(Event{Type: EventIntroStopped, State: c.state})
	return nil
}

// Stop stops playback completely.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil {
		c.played = append(c.played, *c.current)
	}
	c.current = nil
	c.introActive = false
	c.state = StateIdle
	c.enqueueLocked(command{name: "stop", run: c.output.Stop})
	return nil
}

// EnqueueMultiple adds multiple songs to the end of the queue.
func (c *Controller) EnqueueMultiple(songs []song.Song) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.queue = append(c.queue, songs...)
}

// GetState returns the current playback state.
func (c *Controller) GetState() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// GetCurrentSong returns the current song.
func (c *Controller) GetCurrentSong() (*song.Song, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.current == nil {
		return nil, false
	}
	s := *c.current
	return &s, true
}

// GetQueueSize returns the number of songs in the queue.
func (c *Controller) GetQueueSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.queue)
}

// GetPlayedSongs returns a copy of the played songs.
func (c *Controller) GetPlayedSongs() []song.Song {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]song.Song, len(c.played))
	copy(result, c.played)
	return result
}

// Sync waits until every output command issued so far has run.
func (c *Controller) Sync(ctx context.Context) error {
	done := make(chan struct{})
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.enqueueLocked(command{name: "sync", run: func(context.Context) error {
		close(done)
		return nil
	}})
	c.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops playback, waits for pending output commands and releases
// the output.
func (c *Controller) Close() error {
	_ = c.Stop()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.cmds)
	c.mu.Unlock()

	<-c.workerDone
	c.cancel()
	err := c.output.Close()

	c.mu.Lock()
	c.eventsClosed = true
	close(c.eventCh)
	c.mu.Unlock()

	if err != nil {
		return errors.Wrap(err, "failed to close output")
	}
	return nil
}

// enqueueLocked hands a command to the worker. Must be called with lock held.
func (c *Controller) enqueueLocked(cmd command) {
	if c.closed {
		return
	}
	select {
	case c.cmds <- cmd:
	default:
		zlog.Warn().Msgf("playback: output busy, dropping command: command=%s", cmd.name)
	}
}

func (c *Controller) worker() {
	defer close(c.workerDone)

	for cmd := range c.cmds {
		timeout := cmd.timeout
		if timeout <= 0 {
			timeout = c.config.CommandTimeout
		}
		ctx, cancel := context.WithTimeout(c.ctx, timeout)
		err := cmd.run(ctx)
		cancel()
		if err == nil {
			continue
		}

		zlog.Error().Err(err).Msgf("playback: output command failed: command=%s", cmd.name)
		if cmd.name == "play" {
			c.mu.Lock()
			c.sendEventLocked(Event{
				Type:  EventSongFailed,
				Song:  cmd.song,
				State: c.state,
				Err:   errors.Wrapf(err, "failed to play %s", cmd.song.Name),
			})
			c.mu.Unlock()
		}
	}
}

// sendEventLocked sends an event without blocking.
// Must be called with lock held.
func (c *Controller) sendEventLocked(e Event) {
	if c.eventsClosed {
		return
	}
	select {
	case c.eventCh <- e:
		// Successfully sent
	case <-c.ctx.Done():
		// Context cancelled, don't send
	default:
		// Channel full, drop event
	}
}
