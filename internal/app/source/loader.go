package source

import (
	"context"
	"math/rand/v2"

	"github.com/cockroachdb/errors"

	"github.com/osa030/tunequiz/internal/app/filter"
	"github.com/osa030/tunequiz/internal/domain/song"
	"github.com/osa030/tunequiz/internal/infra/logger"
)

// ErrNoSongs is returned when nothing survives listing and filtering.
var ErrNoSongs = errors.New("no playable songs found")

// Loader builds the quiz queue: list, filter, shuffle, limit.
type Loader struct {
	Chain   *ProviderChain
	Filters *filter.Chain
	Shuffle bool
	Limit   int        // 0 keeps every song
	Rand    *rand.Rand // nil uses the global source
}

// Load returns the songs to play, in play order.
func (l *Loader) Load(ctx context.Context) ([]song.Song, error) {
	listed, err := l.Chain.Songs(ctx)
	if err != nil {
		return nil, err
	}

	songs := make([]song.Song, 0, len(listed))
	for _, s := range listed {
		songs = append(songs, s.Song)
	}
	if l.Filters != nil {
		songs = l.Filters.Apply(ctx, songs)
	}
	if len(songs) == 0 {
		return nil, ErrNoSongs
	}

	if l.Shuffle {
		shuffle := rand.Shuffle
		if l.Rand != nil {
			shuffle = l.Rand.Shuffle
		}
		shuffle(len(songs), func(i, j int) {
			songs[i], songs[j] = songs[j], songs[i]
		})
	}

	if l.Limit > 0 && len(songs) > l.Limit {
		songs = songs[:l.Limit]
	}

	for i, s := range songs {
		logger.Song().Int("song_no", i+1).Str("source", string(s.Source)).Msg(s.Name)
	}
	return songs, nil
}
