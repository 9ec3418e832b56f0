package source

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunequiz/internal/domain/song"
)

type FolderProviderConfig struct {
	Path      string `yaml:"path" mapstructure:"path" validate:"required"`
	Recursive bool   `yaml:"recursive" mapstructure:"recursive"`
	MaxDepth  int    `yaml:"max_depth" mapstructure:"max_depth" default:"8" validate:"gte=1"`
}

// FolderProvider lists the files of a local folder. Extension and hidden
// file checks are left to the filter chain.
type FolderProvider struct {
	config *FolderProviderConfig
}

// NewFolderProvider creates a new FolderProvider.
func NewFolderProvider(settings map[string]any) (*FolderProvider, error) {
	var config FolderProviderConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}
	return &FolderProvider{config: &config}, nil
}

// Songs lists the files in the folder sorted by path.
func (p *FolderProvider) Songs(ctx context.Context) ([]song.Song, error) {
	root := filepath.Clean(p.config.Path)
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open songs folder %s", root)
	}
	if !info.IsDir() {
		return nil, errors.Newf("%s is not a folder", root)
	}

	var songs []song.Song
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			zlog.Warn().Msgf("folder provider: skipping unreadable entry: path=%s error=%v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			if !p.config.Recursive || depth(root, path) > p.config.MaxDepth {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() || d.Type()&fs.ModeSymlink != 0 {
			songs = append(songs, song.FromFile(path))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list songs folder")
	}

	sort.Slice(songs, func(i, j int) bool { return songs[i].ID < songs[j].ID })
	return songs, nil
}

// Name returns the provider name.
func (p *FolderProvider) Name() string {
	return "folder"
}

func depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return 0
	}
	n := 1
	for _, r := range rel {
		if r == filepath.Separator {
			n++
		}
	}
	return n
}
