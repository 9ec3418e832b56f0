// Package registry keeps the players of a session and their buzzers.
package registry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/osa030/tunequiz/internal/domain/actor"
)

var (
	ErrDuplicateBuzzer = errors.New("buzzer already taken")
	ErrReservedKey     = errors.New("buzzer key is bound to a host control")
	ErrEmptyBuzzer     = errors.New("buzzer key is empty")
)

// PlayerRegistry manages players with thread-safe access. Players get
// sequential ids in join order; buzzer keys are matched case-insensitively.
type PlayerRegistry struct {
	mu       sync.RWMutex
	players  []*actor.Player
	byBuzzer map[string]*actor.Player
	reserved map[string]bool
	nextID   actor.ID
}

// NewPlayerRegistry creates a new player registry. Keys in reserved can
// never become buzzers.
func NewPlayerRegistry(reserved []string) *PlayerRegistry {
	r := &PlayerRegistry{
		byBuzzer: make(map[string]*actor.Player),
		reserved: make(map[string]bool, len(reserved)),
	}
	for _, k := range reserved {
		r.reserved[normalize(k)] = true
	}
	return r
}

// Join adds a new player holding buzzer and returns their id. An empty
// name becomes "Player #<id>".
func (r *PlayerRegistry) Join(name, buzzer string) (actor.ID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := normalize(buzzer)
	if key == "" {
		return 0, ErrEmptyBuzzer
	}
	if r.reserved[key] {
		return 0, errors.Wrapf(ErrReservedKey, "key %q", buzzer)
	}
	if holder, ok := r.byBuzzer[key]; ok {
		return 0, errors.Wrapf(ErrDuplicateBuzzer, "key %q is held by player %d", buzzer, holder.ID)
	}

	id := r.nextID
	r.nextID++
	if name == "" {
		name = fmt.Sprintf("Player #%d", id)
	}

	p := actor.NewPlayer(id, name, key)
	r.players = append(r.players, p)
	r.byBuzzer[key] = p
	return id, nil
}

// ByBuzzer resolves a buzzer key to the player holding it.
func (r *PlayerRegistry) ByBuzzer(key string) (actor.ID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byBuzzer[normalize(key)]
	if !ok {
		return 0, false
	}
	return p.ID, true
}

// All returns all players in join order.
func (r *PlayerRegistry) All() []*actor.Player {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*actor.Player, len(r.players))
	copy(result, r.players)
	return result
}

// Count returns the number of players.
func (r *PlayerRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}

func normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
