package round

import (
	"fmt"
	"slices"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunequiz/internal/domain/actor"
	"github.com/osa030/tunequiz/internal/infra/logger"
)

var (
	ErrNoPlayers       = errors.New("no players: at least one buzzer is required")
	ErrDuplicatePlayer = errors.New("duplicate player id")
)

// InvariantViolation is the panic value raised when the game detects a
// state it can never legally reach.
type InvariantViolation struct {
	Phase     Phase
	Responder Responder
	Reason    string
}

func (v InvariantViolation) Error() string {
	return fmt.Sprintf("round invariant violated: %s (phase=%s responder=%s)", v.Reason, v.Phase, v.Responder)
}

// Game is the round state machine. It is not safe for concurrent use:
// the session loop is its only caller.
type Game struct {
	phase     Phase
	responder Responder
	disabled  map[actor.ID]struct{}

	host    *actor.Host
	players []*actor.Player
	byID    map[actor.ID]*actor.Player

	audio     Audio
	presenter Presenter

	songsPlayed int
	intro       *Intro
}

// New creates a game in PhaseIdle with the host in control.
func New(host *actor.Host, players []*actor.Player, audio Audio, presenter Presenter) (*Game, error) {
	if len(players) == 0 {
		return nil, ErrNoPlayers
	}

	byID := make(map[actor.ID]*actor.Player, len(players))
	for _, p := range players {
		if _, ok := byID[p.ID]; ok {
			return nil, errors.Wrapf(ErrDuplicatePlayer, "player %d", p.ID)
		}
		byID[p.ID] = p
	}

	return &Game{
		phase:     PhaseIdle,
		responder: HostResponder(),
		disabled:  make(map[actor.ID]struct{}),
		host:      host,
		players:   players,
		byID:      byID,
		audio:     audio,
		presenter: presenter,
	}, nil
}

// Phase returns the current phase.
func (g *Game) Phase() Phase { return g.phase }

// Responder returns who stopped the current song.
func (g *Game) Responder() Responder { return g.responder }

// Done reports whether the session is over.
func (g *Game) Done() bool { return g.phase == PhaseQuit }

// IsDisabled reports whether the player is excluded for the current song.
func (g *Game) IsDisabled(id actor.ID) bool {
	_, ok := g.disabled[id]
	return ok
}

// Player returns the player with the given id.
func (g *Game) Player(id actor.ID) (*actor.Player, bool) {
	p, ok := g.byID[id]
	return p, ok
}

// Host returns the host.
func (g *Game) Host() *actor.Host { return g.host }

// Players returns the players in join order.
func (g *Game) Players() []*actor.Player { return g.players }

// Apply applies one classified action. It reports whether the action
// changed anything; ignored actions return false.
func (g *Game) Apply(a Action) bool {
	if g.phase == PhaseQuit {
		return false
	}
	if a.Kind == ActionQuit {
		g.quit("quit requested")
		return true
	}

	var handled bool
	switch g.phase {
	case PhaseIntro:
		handled = g.intro.apply(a)
	case PhaseIdle:
		handled = g.applyIdle(a)
	case PhaseMusicRound:
		handled = g.applyMusicRound(a)
	case PhaseRankingRound:
		handled = g.applyRankingRound(a)
	}

	g.checkInvariants()
	return handled
}

func (g *Game) applyIdle(a Action) bool {
	switch a.Kind {
	case ActionHostAdvance:
		g.nextSong()
		return true
	case ActionHostPause:
		g.pause()
		return true
	case ActionHostResume:
		g.resume()
		return true
	}
	return false
}

func (g *Game) applyMusicRound(a Action) bool {
	switch a.Kind {
	case ActionPlayerBuzz:
		return g.buzz(a.Player)
	case ActionHostSkip:
		g.skip()
		return true
	case ActionHostPause:
		g.pause()
		return true
	case ActionHostResume:
		g.resume()
		return true
	}
	return false
}

func (g *Game) applyRankingRound(a Action) bool {
	id, ok := g.responder.Player()
	if !ok {
		// The host cannot score itself.
		return false
	}

	switch a.Kind {
	case ActionHostPenalty:
		g.penalty(id)
		return true
	case ActionHostAward:
		g.award(id)
		return true
	}
	return false
}

// nextSong asks for the next song. An exhausted queue ends the session
// without touching any actor.
func (g *Game) nextSong() {
	if g.audio.AdvanceToNextSong() == QueueExhausted {
		logger.Game().Msg("No more songs! The game ends here!")
		g.quit("song queue exhausted")
		return
	}

	g.songsPlayed++
	clear(g.disabled)

	g.host.SetActive()
	g.host.SetHighlight(false)
	g.notifyHost()
	for _, p := range g.players {
		p.SetActive()
		p.SetHighlight(false)
		g.notifyPlayer(p)
	}

	g.setPhase(PhaseMusicRound)
	logger.Sound().Int("song_no", g.songsPlayed).Msg("Song started!")
	logger.Game().Msg("Players, press anything to stop the song!")
}

func (g *Game) buzz(id actor.ID) bool {
	p, ok := g.byID[id]
	if !ok {
		zlog.Debug().Msgf("round: buzz from unknown player ignored: player=%d", id)
		return false
	}
	if g.IsDisabled(id) {
		zlog.Debug().Msgf("round: buzz from disabled player ignored: player=%d", id)
		return false
	}

	g.audio.Pause()
	g.responder = PlayerResponder(id)

	p.SetAnswering()
	p.SetHighlight(true)
	g.notifyPlayer(p)

	g.host.SetRanking()
	g.host.SetHighlight(true)
	g.notifyHost()

	g.setPhase(PhaseRankingRound)
	logger.Player().Int("player", int(id)).Msgf("Song stopped by the Player #%d!", id)
	logger.Host().Msgf("Give points to the Player #%d...", id)
	return true
}

func (g *Game) skip() {
	g.audio.Pause()
	g.responder = HostResponder()

	g.host.SetActive()
	g.host.SetHighlight(false)
	g.notifyHost()
	for _, p := range g.players {
		p.SetActive()
		p.SetHighlight(false)
		g.notifyPlayer(p)
	}

	g.setPhase(PhaseIdle)
	logger.Host().Msg("Song skipped by the HOST! Play next song by pressing space!")
}

func (g *Game) pause() {
	g.audio.Pause()
	g.host.SetActive()
	g.host.SetHighlight(true)
	g.notifyHost()
}

func (g *Game) resume() {
	g.audio.Resume()
	g.host.SetActive()
	g.host.SetHighlight(false)
	g.notifyHost()
}

// penalty takes a point and excludes the player until the next song.
func (g *Game) penalty(id actor.ID) {
	p := g.byID[id]
	p.Score--
	p.SetEliminated()
	p.SetHighlight(false)
	g.disabled[id] = struct{}{}
	g.notifyPlayer(p)

	g.host.SetActive()
	g.host.SetHighlight(true)
	g.notifyHost()

	g.responder = HostResponder()
	g.setPhase(PhaseMusicRound)
	logger.Game().Int("player", int(id)).Int("score", p.Score).Msgf("Penalty points to the Player #%d!", id)
	logger.Host().Msg("Now HOST is in control!")
}

func (g *Game) award(id actor.ID) {
	p := g.byID[id]
	p.Score++
	p.SetWin()
	p.SetHighlight(true)
	g.notifyPlayer(p)

	g.host.SetActive()
	g.host.SetHighlight(true)
	g.notifyHost()

	g.responder = HostResponder()
	g.setPhase(PhaseIdle)
	logger.Game().Int("player", int(id)).Int("score", p.Score).Msgf("Points awarded to the Player #%d!", id)
	logger.Host().Msg("Now HOST is in control!")
}

func (g *Game) quit(reason string) {
	g.audio.Pause()
	if g.intro != nil {
		g.audio.StopIntro()
		g.intro = nil
	}
	g.responder = HostResponder()
	g.setPhase(PhaseQuit)
	logger.Game().Str("reason", reason).Msg("Game exited.")
}

func (g *Game) setPhase(p Phase) {
	if g.phase == p {
		return
	}
	zlog.Debug().Msgf("round: phase changed: %s -> %s responder=%s", g.phase, p, g.responder)
	g.phase = p
}

// checkInvariants panics when the responder and phase disagree.
func (g *Game) checkInvariants() {
	_, isPlayer := g.responder.Player()
	if isPlayer != (g.phase == PhaseRankingRound) {
		panic(InvariantViolation{
			Phase:     g.phase,
			Responder: g.responder,
			Reason:    "a player responder must exist exactly during the ranking round",
		})
	}
	if g.phase == PhaseIntro && g.intro == nil {
		panic(InvariantViolation{Phase: g.phase, Responder: g.responder, Reason: "intro phase without intro sequence"})
	}
}

func (g *Game) notifyPlayer(p *actor.Player) {
	if g.presenter == nil {
		return
	}
	g.presenter.NotifyStateChanged(Change{
		Actor:       p.ID,
		State:       p.State.String(),
		Highlighted: p.Highlighted,
		Greeting:    p.Greeting,
		Score:       p.Score,
	})
}

func (g *Game) notifyHost() {
	if g.presenter == nil {
		return
	}
	g.presenter.NotifyStateChanged(Change{
		Actor:       actor.HostID,
		State:       g.host.State.String(),
		Highlighted: g.host.Highlighted,
		Greeting:    g.host.Greeting,
	})
}

// Board returns a snapshot of the game for presenters.
func (g *Game) Board() Board {
	b := Board{
		Phase:       g.phase,
		Responder:   g.responder,
		Host:        g.host.Snapshot(),
		Players:     make([]actor.Player, 0, len(g.players)),
		Disabled:    make([]actor.ID, 0, len(g.disabled)),
		SongsPlayed: g.songsPlayed,
	}
	for _, p := range g.players {
		b.Players = append(b.Players, p.Snapshot())
	}
	for id := range g.disabled {
		b.Disabled = append(b.Disabled, id)
	}
	slices.Sort(b.Disabled)
	if g.intro != nil {
		id := g.intro.Current()
		b.IntroActor = &id
	}
	return b
}

// Render hands the current board to the presenter.
func (g *Game) Render() {
	if g.presenter == nil {
		return
	}
	g.presenter.Render(g.Board())
}
