package actor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPlayer(t *testing.T) {
	p := NewPlayer(2, "Player #2", "a")

	assert.Equal(t, ID(2), p.ID)
	assert.Equal(t, "Player #2", p.Name)
	assert.Equal(t, "a", p.Buzzer)
	assert.Equal(t, 0, p.Score)
	assert.Equal(t, PlayerIdle, p.State)
	assert.False(t, p.Highlighted)
	assert.False(t, p.Greeting)
}

func TestPlayer_SettersAcceptAnyTransition(t *testing.T) {
	tests := []struct {
		name     string
		from     PlayerState
		set      func(p *Player)
		expected PlayerState
	}{
		{name: "win to idle", from: PlayerWin, set: (*Player).SetIdle, expected: PlayerIdle},
		{name: "eliminated to intro", from: PlayerEliminated, set: (*Player).SetIntro, expected: PlayerIntro},
		{name: "idle to active", from: PlayerIdle, set: (*Player).SetActive, expected: PlayerActive},
		{name: "intro to answering", from: PlayerIntro, set: (*Player).SetAnswering, expected: PlayerAnswering},
		{name: "answering to eliminated", from: PlayerAnswering, set: (*Player).SetEliminated, expected: PlayerEliminated},
		{name: "idle to win", from: PlayerIdle, set: (*Player).SetWin, expected: PlayerWin},
		{name: "active to active", from: PlayerActive, set: (*Player).SetActive, expected: PlayerActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Player{State: tt.from, Score: 3}
			tt.set(p)
			assert.Equal(t, tt.expected, p.State)
			assert.Equal(t, 3, p.Score, "setters must not touch the score")
		})
	}
}

func TestHost_Setters(t *testing.T) {
	h := NewHost("Host")
	assert.Equal(t, HostIdle, h.State)

	h.SetRanking()
	assert.Equal(t, HostRanking, h.State)
	h.SetIntro()
	assert.Equal(t, HostIntro, h.State)
	h.SetActive()
	assert.Equal(t, HostActive, h.State)
	h.SetIdle()
	assert.Equal(t, HostIdle, h.State)
}

func TestGreetingToggle(t *testing.T) {
	p := NewPlayer(0, "p", "z")
	p.ToggleGreeting()
	assert.True(t, p.Greeting)
	p.ToggleGreeting()
	assert.False(t, p.Greeting)

	h := NewHost("h")
	h.ToggleGreeting()
	assert.True(t, h.Greeting)
}

func TestSnapshot_IsACopy(t *testing.T) {
	p := NewPlayer(1, "p", "x")
	snap := p.Snapshot()
	p.Score = 5
	p.SetWin()

	assert.Equal(t, 0, snap.Score)
	assert.Equal(t, PlayerIdle, snap.State)
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "answering", PlayerAnswering.String())
	assert.Equal(t, "unknown", PlayerState(42).String())
	assert.Equal(t, "ranking", HostRanking.String())
	assert.Equal(t, "unknown", HostState(-3).String())
}
