package playback

import (
	"context"

	"github.com/osa030/tunequiz/internal/domain/song"
)

// Output is an audio backend. Implementations return quickly and keep any
// long running work on their own goroutines.
type Output interface {
	// Play replaces whatever is playing with s.
	Play(ctx context.Context, s song.Song) error
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Stop(ctx context.Context) error
	Close() error
}

// IntroOutput is implemented by backends able to play the intro clips.
type IntroOutput interface {
	// PlayIntro plays start once and then loops loop until StopIntro.
	PlayIntro(ctx context.Context, start, loop string) error
	// StopIntro fades the intro out.
	StopIntro(ctx context.Context) error
}
