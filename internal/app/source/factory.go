package source

import (
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunequiz/internal/infra/config"
)

// NewProviderChainFromConfig creates a provider chain from configuration.
func NewProviderChainFromConfig(cfg *config.Config, clients Clients) (*ProviderChain, error) {
	if len(cfg.Songs.Sources) == 0 {
		return nil, errors.New("no song sources configured")
	}

	var providers []ProviderWithMetadata

	for i, scfg := range cfg.Songs.Sources {
		var provider Provider
		var err error
		zlog.Debug().Msgf("creating song provider: index=%d type=%s settings=%+v", i+1, scfg.Type, scfg.Settings)
		switch scfg.Type {
		case config.SourceFolder:
			provider, err = NewFolderProvider(scfg.Settings)

		case config.SourcePlaylist:
			if clients.Spotify == nil {
				err = errors.New("spotify client is not configured")
				break
			}
			provider, err = NewPlaylistProvider(clients.Spotify, scfg.Settings)

		case config.SourceMPD:
			if clients.MPD == nil {
				err = errors.New("mpd connection is not configured")
				break
			}
			provider, err = NewMPDProvider(clients.MPD, scfg.Settings)

		default:
			return nil, errors.Newf("unsupported source type: %s (source index %d)", scfg.Type, i)
		}

		if err != nil {
			return nil, errors.Wrapf(err, "failed to create provider (index %d, type %s)", i, scfg.Type)
		}

		displayName := scfg.DisplayName
		if displayName == "" {
			displayName = provider.Name()
		}
		providers = append(providers, ProviderWithMetadata{
			Provider:    provider,
			DisplayName: displayName,
		})

		zlog.Info().Msgf("registered song provider: index=%d type=%s display_name=%s", i+1, scfg.Type, displayName)
	}

	return NewProviderChain(providers), nil
}
