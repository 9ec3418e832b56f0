package filter

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunequiz/internal/domain/song"
	"github.com/osa030/tunequiz/internal/infra/config"
)

// alwaysOn lists filters that run unless the config explicitly disables them.
var alwaysOn = map[string]bool{
	"extension_filter":   true,
	"hidden_file_filter": true,
}

// order fixes the position of known filters. Stateful filters go last so
// they only remember songs every other filter accepted.
var order = map[string]int{
	"hidden_file_filter":    0,
	"extension_filter":      1,
	"name_pattern_filter":   2,
	"duplicate_song_filter": 9,
}

func rank(name string) int {
	if r, ok := order[name]; ok {
		return r
	}
	return 5
}

// Chain executes filters in sequence.
type Chain struct {
	filters []Filter
}

// NewChain creates a new filter chain.
func NewChain() *Chain {
	return &Chain{
		filters: make([]Filter, 0),
	}
}

// NewChainFromConfig builds a chain from every registered filter that is
// enabled in cfg. The extension and hidden file filters are on unless a
// config entry turns them off.
func NewChainFromConfig(cfg *config.Config) (*Chain, error) {
	for name := range cfg.Filters {
		if _, ok := New(name); !ok {
			return nil, errors.Newf("unknown filter: %s", name)
		}
	}

	names := Names()
	sort.SliceStable(names, func(i, j int) bool {
		return rank(names[i]) < rank(names[j])
	})

	chain := NewChain()
	for _, name := range names {
		fc, configured := cfg.Filters[name]
		enabled := fc.Enabled || (!configured && alwaysOn[name])
		if !enabled {
			continue
		}

		f, _ := New(name)
		if err := f.ValidateConfig(fc.Settings); err != nil {
			return nil, errors.Wrapf(err, "invalid settings for %s", name)
		}
		chain.Add(f)
		zlog.Debug().Msgf("filter enabled: name=%s", name)
	}

	return chain, nil
}

// Add adds a filter to the chain.
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Execute runs all filters in sequence.
// Returns immediately if any filter rejects the song.
// Filters are only applied if they declare they apply to the song's source.
func (c *Chain) Execute(ctx context.Context, s song.Song) Result {
	for _, f := range c.filters {
		// Skip filters that don't apply to this source
		if !f.AppliesTo(s.Source) {
			continue
		}

		result := f.Check(ctx, s)
		if !result.Accepted {
			return result
		}
	}
	return Accept()
}

// Apply returns the songs accepted by the chain, in their original order.
func (c *Chain) Apply(ctx context.Context, songs []song.Song) []song.Song {
	accepted := make([]song.Song, 0, len(songs))
	for _, s := range songs {
		result := c.Execute(ctx, s)
		if !result.Accepted {
			zlog.Debug().Msgf("song rejected by filter: id=%s name=%s reason=%s", s.ID, s.Name, result.Code)
			continue
		}
		accepted = append(accepted, s)
	}
	return accepted
}

// Filters returns all filters in the chain.
func (c *Chain) Filters() []Filter {
	return c.filters
}
