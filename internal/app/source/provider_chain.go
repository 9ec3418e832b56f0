package source

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunequiz/internal/domain/song"
)

// SongWithSource represents a song with its source provider info.
type SongWithSource struct {
	Song        song.Song
	DisplayName string
}

// ProviderWithMetadata wraps a provider with its metadata.
type ProviderWithMetadata struct {
	Provider    Provider
	DisplayName string
}

// ProviderChain collects songs from multiple providers in order.
type ProviderChain struct {
	providers []ProviderWithMetadata
}

// NewProviderChain creates a new provider chain.
func NewProviderChain(providers []ProviderWithMetadata) *ProviderChain {
	return &ProviderChain{
		providers: providers,
	}
}

// Songs retrieves songs from all providers. A failing provider is logged
// and skipped; songs listed by an earlier provider win over later copies.
func (c *ProviderChain) Songs(ctx context.Context) ([]SongWithSource, error) {
	var all []SongWithSource
	seen := make(map[string]bool)

	for i, pm := range c.providers {
		zlog.Debug().Msgf("listing provider: index=%d total=%d name=%s provider_type=%s",
			i+1, len(c.providers), pm.DisplayName, pm.Provider.Name())

		songs, err := pm.Provider.Songs(ctx)
		if err != nil {
			zlog.Warn().Msgf("provider failed, trying next: provider=%s error=%v", pm.DisplayName, err)
			continue
		}

		if len(songs) == 0 {
			zlog.Debug().Msgf("provider returned no songs: provider=%s", pm.DisplayName)
			continue
		}

		added := 0
		for _, s := range songs {
			if seen[s.ID] {
				continue
			}
			seen[s.ID] = true
			all = append(all, SongWithSource{Song: s, DisplayName: pm.DisplayName})
			added++
		}

		zlog.Info().Msgf("provider returned songs: provider=%s count=%d total_so_far=%d",
			pm.DisplayName, added, len(all))
	}

	if len(all) == 0 {
		return nil, errors.New("all providers failed to return songs")
	}

	return all, nil
}

// Name returns the chain name.
func (c *ProviderChain) Name() string {
	return "provider_chain"
}
