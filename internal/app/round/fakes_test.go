package round

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/osa030/tunequiz/internal/domain/actor"
)

type fakeAudio struct {
	remaining  int
	started    int
	pauses     int
	resumes    int
	introOn    bool
	introStops int
}

func (a *fakeAudio) AdvanceToNextSong() Outcome {
	if a.remaining == 0 {
		return QueueExhausted
	}
	a.remaining--
	a.started++
	return Started
}

func (a *fakeAudio) Pause()      { a.pauses++ }
func (a *fakeAudio) Resume()     { a.resumes++ }
func (a *fakeAudio) StartIntro() { a.introOn = true }
func (a *fakeAudio) StopIntro() {
	a.introOn = false
	a.introStops++
}

type recordingPresenter struct {
	changes []Change
	renders []Board
}

func (p *recordingPresenter) NotifyStateChanged(c Change) { p.changes = append(p.changes, c) }
func (p *recordingPresenter) Render(b Board)              { p.renders = append(p.renders, b) }

type fixture struct {
	game      *Game
	audio     *fakeAudio
	presenter *recordingPresenter
}

func newFixture(t *testing.T, players int, songs int) *fixture {
	t.Helper()

	ps := make([]*actor.Player, 0, players)
	for i := 0; i < players; i++ {
		ps = append(ps, actor.NewPlayer(actor.ID(i), "", ""))
	}
	audio := &fakeAudio{remaining: songs}
	presenter := &recordingPresenter{}

	g, err := New(actor.NewHost("Host"), ps, audio, presenter)
	require.NoError(t, err)
	return &fixture{game: g, audio: audio, presenter: presenter}
}

// musicRound puts the fixture into PhaseMusicRound.
func (f *fixture) musicRound(t *testing.T) {
	t.Helper()
	require.True(t, f.game.Apply(HostAction(ActionHostAdvance)))
	require.Equal(t, PhaseMusicRound, f.game.Phase())
}

// rankingRound puts the fixture into PhaseRankingRound with id responding.
func (f *fixture) rankingRound(t *testing.T, id actor.ID) {
	t.Helper()
	f.musicRound(t)
	require.True(t, f.game.Apply(Buzz(id)))
	require.Equal(t, PhaseRankingRound, f.game.Phase())
}

func (f *fixture) player(t *testing.T, id actor.ID) *actor.Player {
	t.Helper()
	p, ok := f.game.Player(id)
	require.True(t, ok)
	return p
}
