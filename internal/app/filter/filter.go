// Package filter provides the filter chain deciding which songs make it
// into the quiz queue.
package filter

import (
	"context"
	"slices"
	"sync"

	"github.com/osa030/tunequiz/internal/domain/song"
)

// Result is the verdict of one filter on one song. Code names the reason
// of a rejection, e.g. "hidden_file".
type Result struct {
	Accepted bool
	Code     string
}

// Accept returns an accepted result.
func Accept() Result {
	return Result{Accepted: true}
}

// Reject returns a rejection carrying code.
func Reject(code string) Result {
	return Result{Code: code}
}

// Filter decides whether a listed song may be played.
type Filter interface {
	// Name is the key used under "filters" in the config.
	Name() string
	Description() string
	// ReturnCodes lists every code Check may reject with.
	ReturnCodes() []string
	// ValidateConfig decodes and applies the settings from the config.
	ValidateConfig(settings map[string]any) error
	// AppliesTo reports whether songs from source are checked at all.
	AppliesTo(source song.SourceType) bool
	Check(ctx context.Context, s song.Song) Result
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func() Filter)
)

// Register makes a filter available to NewChainFromConfig. It is called
// from init functions.
func Register(name string, factory func() Filter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Names returns the registered filter names in alphabetical order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// New returns a fresh, unconfigured instance of the named filter.
func New(name string) (Filter, bool) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, false
	}
	return factory(), true
}
