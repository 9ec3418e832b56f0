package input

import (
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunequiz/internal/app/round"
	"github.com/osa030/tunequiz/internal/domain/actor"
)

// RawEvent is a key press as delivered by the input device layer.
type RawEvent struct {
	Key string    // Normalised key name, e.g. "space", "a", "esc"
	At  time.Time // When the key was seen
}

// BuzzerLookup resolves a buzzer key to the player holding it.
type BuzzerLookup interface {
	ByBuzzer(key string) (actor.ID, bool)
}

// Classifier turns raw events into round actions.
type Classifier struct {
	keys    KeyMap
	buzzers BuzzerLookup
}

// NewClassifier creates a new classifier.
func NewClassifier(keys KeyMap, buzzers BuzzerLookup) *Classifier {
	return &Classifier{keys: keys, buzzers: buzzers}
}

// Classify maps an event to an action. The phase disambiguates keys that
// mean different things at different times; the advance key acknowledges
// during the intro, starts a song when idle and skips during a song.
// Unrecognised events report false.
func (c *Classifier) Classify(ev RawEvent, phase round.Phase) (round.Action, bool) {
	if phase == round.PhaseQuit {
		return round.Action{}, false
	}
	if matches(ev.Key, c.keys.Quit) {
		return round.HostAction(round.ActionQuit), true
	}

	if phase == round.PhaseIntro {
		return c.classifyIntro(ev)
	}

	switch {
	case matches(ev.Key, c.keys.Advance):
		switch phase {
		case round.PhaseIdle:
			return round.HostAction(round.ActionHostAdvance), true
		case round.PhaseMusicRound:
			return round.HostAction(round.ActionHostSkip), true
		}
		return round.Action{}, false
	case matches(ev.Key, c.keys.Pause):
		return round.HostAction(round.ActionHostPause), true
	case matches(ev.Key, c.keys.Resume):
		return round.HostAction(round.ActionHostResume), true
	case matches(ev.Key, c.keys.Award):
		return round.HostAction(round.ActionHostAward), true
	case matches(ev.Key, c.keys.Penalty):
		return round.HostAction(round.ActionHostPenalty), true
	}

	return c.classifyBuzzer(ev)
}

func (c *Classifier) classifyIntro(ev RawEvent) (round.Action, bool) {
	switch {
	case matches(ev.Key, c.keys.Acknowledge):
		return round.HostAction(round.ActionHostAcknowledge), true
	case matches(ev.Key, c.keys.SayHi):
		return round.HostAction(round.ActionHostSayHi), true
	case matches(ev.Key, c.keys.Pause):
		return round.HostAction(round.ActionHostPause), true
	case matches(ev.Key, c.keys.Resume):
		return round.HostAction(round.ActionHostResume), true
	}
	return c.classifyBuzzer(ev)
}

func (c *Classifier) classifyBuzzer(ev RawEvent) (round.Action, bool) {
	if c.buzzers != nil {
		if id, ok := c.buzzers.ByBuzzer(ev.Key); ok {
			return round.Buzz(id), true
		}
	}
	zlog.Debug().Msgf("input: dropped unrecognised key: key=%q", ev.Key)
	return round.Action{}, false
}
