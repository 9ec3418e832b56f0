// Package player plays local audio files by running an external command,
// ffplay by default, one process per song.
package player

import (
	"context"
	"os/exec"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunequiz/internal/domain/song"
)

var (
	ErrUnsupportedSong  = errors.New("command output only plays local files")
	ErrPauseUnsupported = errors.New("pausing a process is not supported on this platform")
)

// Config represents the command output settings. The file to play is
// appended after Args.
type Config struct {
	Command string   `yaml:"command" mapstructure:"command" default:"ffplay" validate:"required"`
	Args    []string `yaml:"args" mapstructure:"args" default:"[\"-nodisp\",\"-autoexit\",\"-loglevel\",\"quiet\"]"`
}

// NewConfig decodes free-form output settings.
func NewConfig(settings map[string]any) (Config, error) {
	var config Config
	if err := mapstructure.Decode(settings, &config); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return Config{}, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(config); err != nil {
		return Config{}, errors.Wrap(err, "validation failed")
	}
	return config, nil
}

// process is one running player command.
type process struct {
	cmd    *exec.Cmd
	done   chan struct{}
	err    error
	paused bool
}

func (p *process) exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Output runs one player process at a time. It implements playback.Output
// and playback.IntroOutput.
type Output struct {
	config Config

	mu      sync.Mutex
	current *process
	intro   chan struct{} // closed to end the intro loop
	closed  bool
}

// New creates a command output.
func New(config Config) *Output {
	return &Output{config: config}
}

// Play replaces whatever is playing with s.
func (o *Output) Play(ctx context.Context, s song.Song) error {
	if s.Source != song.SourceFolder {
		return errors.Wrapf(ErrUnsupportedSong, "%s song %s", s.Source, s.ID)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.stopIntroLocked()
	o.killLocked()
	p, err := o.start(s.Location)
	if err != nil {
		return err
	}
	o.current = p
	return nil
}

// Pause suspends the running process.
func (o *Output) Pause(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	p := o.current
	if p == nil || p.exited() || p.paused {
		return nil
	}
	if err := suspend(p.cmd.Process); err != nil {
		return errors.Wrap(err, "failed to pause player")
	}
	p.paused = true
	return nil
}

// Resume continues a suspended process.
func (o *Output) Resume(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	p := o.current
	if p == nil || p.exited() || !p.paused {
		return nil
	}
	if err := resume(p.cmd.Process); err != nil {
		return errors.Wrap(err, "failed to resume player")
	}
	p.paused = false
	return nil
}

// Stop kills the running process and ends the intro loop.
func (o *Output) Stop(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.stopIntroLocked()
	o.killLocked()
	return nil
}

// PlayIntro plays start once, then loop over and over until StopIntro.
// Either clip may be empty.
func (o *Output) PlayIntro(ctx context.Context, start, loop string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.stopIntroLocked()
	o.killLocked()

	stop := make(chan struct{})
	o.intro = stop
	go o.runIntro(stop, start, loop)
	return nil
}

// StopIntro ends the intro loop. A process has no volume control, so the
// clip is cut rather than faded.
func (o *Output) StopIntro(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.intro == nil {
		return nil
	}
	o.stopIntroLocked()
	o.killLocked()
	return nil
}

// Close stops playback. The output cannot be used afterwards.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.stopIntroLocked()
	o.killLocked()
	o.closed = true
	return nil
}

func (o *Output) runIntro(stop chan struct{}, start, loop string) {
	clip := start
	if clip == "" {
		clip = loop
	}
	for clip != "" {
		o.mu.Lock()
		if o.intro != stop || o.closed {
			o.mu.Unlock()
			return
		}
		p, err := o.start(clip)
		if err != nil {
			o.mu.Unlock()
			zlog.Error().Err(err).Msgf("player: intro clip failed: clip=%s", clip)
			return
		}
		o.current = p
		o.mu.Unlock()

		select {
		case <-p.done:
		case <-stop:
			return
		}
		if p.err != nil {
			zlog.Debug().Msgf("player: intro clip exited: clip=%s error=%v", clip, p.err)
		}
		clip = loop
	}
}

func (o *Output) start(path string) (*process, error) {
	if o.closed {
		return nil, errors.New("player output is closed")
	}

	args := append(append([]string(nil), o.config.Args...), path)
	cmd := exec.Command(o.config.Command, args...)
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "failed to start %s", o.config.Command)
	}
	zlog.Debug().Msgf("player: started: pid=%d file=%s", cmd.Process.Pid, path)

	p := &process{cmd: cmd, done: make(chan struct{})}
	go func() {
		p.err = cmd.Wait()
		close(p.done)
	}()
	return p, nil
}

func (o *Output) stopIntroLocked() {
	if o.intro != nil {
		close(o.intro)
		o.intro = nil
	}
}

// killLocked kills the current process and waits for it to be reaped.
func (o *Output) killLocked() {
	p := o.current
	o.current = nil
	if p == nil || p.exited() {
		return
	}
	if err := p.cmd.Process.Kill(); err != nil {
		zlog.Debug().Msgf("player: kill failed: pid=%d error=%v", p.cmd.Process.Pid, err)
	}
	<-p.done
}
