package filter

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/osa030/tunequiz/internal/domain/song"
)

// HiddenFileFilter drops dot files such as macOS "._" resource forks.
type HiddenFileFilter struct{}

func (f *HiddenFileFilter) Name() string {
	return "hidden_file_filter"
}

func (f *HiddenFileFilter) Description() string {
	return "Skips hidden files whose name starts with a dot"
}

func (f *HiddenFileFilter) ReturnCodes() []string {
	return []string{"hidden_file"}
}

func (f *HiddenFileFilter) ValidateConfig(settings map[string]any) error {
	return nil
}

func (f *HiddenFileFilter) AppliesTo(source song.SourceType) bool {
	return source == song.SourceFolder || source == song.SourceMPD
}

func (f *HiddenFileFilter) Check(ctx context.Context, s song.Song) Result {
	base := filepath.Base(s.Location)
	if s.Source == song.SourceMPD {
		// MPD URIs always use forward slashes
		base = path.Base(s.Location)
	}
	if strings.HasPrefix(base, ".") {
		return Reject("hidden_file")
	}
	return Accept()
}

func init() {
	Register("hidden_file_filter", func() Filter {
		return &HiddenFileFilter{}
	})
}
