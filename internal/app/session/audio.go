package session

import (
	"sync/atomic"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunequiz/internal/app/playback"
	"github.com/osa030/tunequiz/internal/app/round"
)

// audio adapts the playback controller to round.Audio. Controller calls
// only queue commands, so none of these block the loop.
type audio struct {
	ctrl      *playback.Controller
	exhausted atomic.Bool
}

func newAudio(ctrl *playback.Controller) *audio {
	return &audio{ctrl: ctrl}
}

func (a *audio) AdvanceToNextSong() round.Outcome {
	err := a.ctrl.Next()
	if err == nil {
		return round.Started
	}
	if !errors.Is(err, playback.ErrQueueEmpty) {
		zlog.Warn().Err(err).Msg("session: cannot advance, ending the game")
	}
	a.exhausted.Store(true)
	return round.QueueExhausted
}

func (a *audio) Pause()      { a.log("pause", a.ctrl.Pause()) }
func (a *audio) Resume()     { a.log("resume", a.ctrl.Resume()) }
func (a *audio) StartIntro() { a.log("start intro", a.ctrl.StartIntro()) }
func (a *audio) StopIntro()  { a.log("stop intro", a.ctrl.StopIntro()) }

// log records a failed command. Pausing with nothing playing and the like
// are expected and only show up at debug level.
func (a *audio) log(op string, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, playback.ErrNoSong) ||
		errors.Is(err, playback.ErrNotPlaying) ||
		errors.Is(err, playback.ErrNotPaused) ||
		errors.Is(err, playback.ErrIntroUnsupported) {
		zlog.Debug().Msgf("session: %s ignored: %v", op, err)
		return
	}
	zlog.Warn().Err(err).Msgf("session: %s failed", op)
}

// Exhausted reports whether the song queue ran out.
func (a *audio) Exhausted() bool {
	return a.exhausted.Load()
}
