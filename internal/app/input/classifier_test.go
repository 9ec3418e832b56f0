package input

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osa030/tunequiz/internal/app/round"
	"github.com/osa030/tunequiz/internal/domain/actor"
)

type buzzerMap map[string]actor.ID

func (m buzzerMap) ByBuzzer(key string) (actor.ID, bool) {
	id, ok := m[key]
	return id, ok
}

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier(NewKeyMap(DefaultKeys()), buzzerMap{"a": 0, "l": 1, "q": 2})

	tests := []struct {
		name   string
		key    string
		phase  round.Phase
		want   round.Action
		wantOK bool
	}{
		{name: "space acknowledges during intro", key: "space", phase: round.PhaseIntro, want: round.HostAction(round.ActionHostAcknowledge), wantOK: true},
		{name: "space starts song when idle", key: "space", phase: round.PhaseIdle, want: round.HostAction(round.ActionHostAdvance), wantOK: true},
		{name: "space skips during music", key: "space", phase: round.PhaseMusicRound, want: round.HostAction(round.ActionHostSkip), wantOK: true},
		{name: "space dropped while ranking", key: "space", phase: round.PhaseRankingRound, wantOK: false},
		{name: "say hi during intro", key: "h", phase: round.PhaseIntro, want: round.HostAction(round.ActionHostSayHi), wantOK: true},
		{name: "say hi dropped outside intro", key: "h", phase: round.PhaseIdle, wantOK: false},
		{name: "pause", key: "s", phase: round.PhaseMusicRound, want: round.HostAction(round.ActionHostPause), wantOK: true},
		{name: "pause with shift held", key: "S", phase: round.PhaseMusicRound, want: round.HostAction(round.ActionHostPause), wantOK: true},
		{name: "say hi with caps lock", key: "H", phase: round.PhaseIntro, want: round.HostAction(round.ActionHostSayHi), wantOK: true},
		{name: "resume during intro", key: "c", phase: round.PhaseIntro, want: round.HostAction(round.ActionHostResume), wantOK: true},
		{name: "award", key: "1", phase: round.PhaseRankingRound, want: round.HostAction(round.ActionHostAward), wantOK: true},
		{name: "penalty", key: "0", phase: round.PhaseRankingRound, want: round.HostAction(round.ActionHostPenalty), wantOK: true},
		{name: "award key is still classified when idle", key: "1", phase: round.PhaseIdle, want: round.HostAction(round.ActionHostAward), wantOK: true},
		{name: "escape quits", key: "esc", phase: round.PhaseRankingRound, want: round.HostAction(round.ActionQuit), wantOK: true},
		{name: "ctrl+c quits during intro", key: "ctrl+c", phase: round.PhaseIntro, want: round.HostAction(round.ActionQuit), wantOK: true},
		{name: "buzzer", key: "l", phase: round.PhaseMusicRound, want: round.Buzz(1), wantOK: true},
		{name: "buzzer during intro", key: "q", phase: round.PhaseIntro, want: round.Buzz(2), wantOK: true},
		{name: "unknown key", key: "x", phase: round.PhaseMusicRound, wantOK: false},
		{name: "nothing after quit", key: "esc", phase: round.PhaseQuit, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.Classify(RawEvent{Key: tt.key}, tt.phase)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestClassifier_SeparateAcknowledgeKey(t *testing.T) {
	keys := DefaultKeys()
	keys.Acknowledge = []string{"enter"}
	c := NewClassifier(NewKeyMap(keys), nil)

	_, ok := c.Classify(RawEvent{Key: "space"}, round.PhaseIntro)
	assert.False(t, ok)

	got, ok := c.Classify(RawEvent{Key: "enter"}, round.PhaseIntro)
	assert.True(t, ok)
	assert.Equal(t, round.ActionHostAcknowledge, got.Kind)
}

func TestClassifier_ConfiguredKeysIgnoreCase(t *testing.T) {
	keys := DefaultKeys()
	keys.Pause = []string{" P "}
	c := NewClassifier(NewKeyMap(keys), nil)

	for _, k := range []string{"p", "P"} {
		got, ok := c.Classify(RawEvent{Key: k}, round.PhaseMusicRound)
		assert.True(t, ok, k)
		assert.Equal(t, round.ActionHostPause, got.Kind, k)
	}
}

func TestNewKeyMap_FallsBackToDefaults(t *testing.T) {
	m := NewKeyMap(Keys{Pause: []string{"p"}})

	assert.Equal(t, []string{"p"}, m.Pause.Keys())
	assert.Equal(t, []string{"c"}, m.Resume.Keys())
	assert.Equal(t, "esc/ctrl+c", m.Quit.Help().Key)
	assert.Len(t, m.All(), 8)
	assert.Len(t, m.FullHelp(), 3)
}

func TestKeyMap_Reserved(t *testing.T) {
	reserved := NewKeyMap(DefaultKeys()).Reserved()

	assert.ElementsMatch(t, []string{"esc", "ctrl+c", "space", "s", "c", "1", "0", "h"}, reserved,
		"space is bound twice but listed once")
}
