package round

import (
	"github.com/cockroachdb/errors"

	"github.com/osa030/tunequiz/internal/domain/actor"
	"github.com/osa030/tunequiz/internal/infra/logger"
)

// ErrIntroNotAllowed is returned when the intro is started outside PhaseIdle
// or after the first song.
var ErrIntroNotAllowed = errors.New("intro can only run before the first song")

// Intro walks through the host and then every player, waiting for the host
// to acknowledge each one.
type Intro struct {
	game *Game
	step int // -1 is the host, 0.. index into game.players
}

// BeginIntro starts the intro sequence. While it runs the game is in
// PhaseIntro and Apply forwards every action to it.
func (g *Game) BeginIntro() (*Intro, error) {
	if g.phase != PhaseIdle || g.songsPlayed > 0 {
		return nil, ErrIntroNotAllowed
	}

	in := &Intro{game: g, step: -1}
	g.intro = in
	g.audio.StartIntro()

	g.host.SetIntro()
	g.notifyHost()
	g.setPhase(PhaseIntro)

	logger.Host().Msg("Press 'H' as HOST to say hi...")
	logger.Host().Msg("Press spacebar as HOST to skip...")
	return in, nil
}

// Current returns the actor being introduced.
func (in *Intro) Current() actor.ID {
	if in.step < 0 {
		return actor.HostID
	}
	return in.game.players[in.step].ID
}

// Done reports whether the intro has finished.
func (in *Intro) Done() bool {
	return in.game.intro != in
}

func (in *Intro) apply(a Action) bool {
	g := in.game

	switch a.Kind {
	case ActionHostAcknowledge:
		in.advance()
		return true
	case ActionHostSayHi:
		if in.step >= 0 {
			return false
		}
		g.host.ToggleGreeting()
		g.notifyHost()
		return true
	case ActionPlayerBuzz:
		if in.step < 0 || g.players[in.step].ID != a.Player {
			return false
		}
		p := g.players[in.step]
		p.ToggleGreeting()
		g.notifyPlayer(p)
		return true
	case ActionHostPause:
		g.audio.Pause()
		return true
	case ActionHostResume:
		g.audio.Resume()
		return true
	}
	return false
}

func (in *Intro) advance() {
	g := in.game

	if in.step < 0 {
		g.host.SetActive()
		g.host.SetHighlight(true)
		g.host.Greeting = false
		g.notifyHost()
	} else {
		p := g.players[in.step]
		p.SetIdle()
		p.SetHighlight(false)
		p.Greeting = false
		g.notifyPlayer(p)
	}

	in.step++
	if in.step >= len(g.players) {
		in.finish()
		return
	}

	p := g.players[in.step]
	p.SetIntro()
	p.SetHighlight(true)
	g.notifyPlayer(p)
	logger.Game().Int("player", int(p.ID)).Msgf("Welcome Player #%d", p.ID)
	logger.Host().Msgf("Press spacebar as HOST to show next Player #%d...", p.ID)
}

func (in *Intro) finish() {
	g := in.game

	g.audio.StopIntro()
	g.host.SetActive()
	g.host.SetHighlight(true)
	g.notifyHost()
	for _, p := range g.players {
		p.SetActive()
		g.notifyPlayer(p)
	}

	g.intro = nil
	g.setPhase(PhaseIdle)
	logger.Host().Msg("Press '0' for no points, '1' for points, and 'Esc' to quit.")
	logger.Host().Msg("Press spacebar to start the song.")
}
