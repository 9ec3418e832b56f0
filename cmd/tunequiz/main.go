// Package main provides the tunequiz entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/osa030/tunequiz/internal/app/filter"
	"github.com/osa030/tunequiz/internal/app/input"
	"github.com/osa030/tunequiz/internal/app/playback"
	"github.com/osa030/tunequiz/internal/app/session"
	"github.com/osa030/tunequiz/internal/app/source"
	"github.com/osa030/tunequiz/internal/domain/song"
	"github.com/osa030/tunequiz/internal/infra/config"
	"github.com/osa030/tunequiz/internal/infra/logger"
	"github.com/osa030/tunequiz/internal/infra/mpd"
	"github.com/osa030/tunequiz/internal/infra/player"
	"github.com/osa030/tunequiz/internal/infra/spotify"
	"github.com/osa030/tunequiz/internal/ui/tui"
)

var (
	app        = kingpin.New("tunequiz", "Music quiz party game for the terminal")
	configPath = app.Flag("config", "Path to config file").Default("config/tunequiz.yaml").String()
	songsDir   = app.Flag("songs", "Folder with the quiz songs (replaces the configured sources)").String()
	shuffle    = app.Flag("shuffle", "Shuffle the songs (--no-shuffle keeps folder order)").IsSetByUser(&shuffleSet).Bool()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: ui.log_file from the config)").String()

	startCmd       = app.Command("start", "Start a quiz session (default)").Default()
	listSongsCmd   = app.Command("list-songs", "Print the songs a session would play and exit")
	listKeysCmd    = app.Command("list-keys", "Print the host keys and player buzzers and exit")
	listFiltersCmd = app.Command("list-filters", "List available song filters and exit")

	shuffleSet bool
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if command == listFiltersCmd.FullCommand() {
		printFilters()
		return
	}

	loggerConfig := logger.Config{Output: "stderr", Level: "info"}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if _, err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	var opts []config.Option
	if *songsDir != "" {
		opts = append(opts, config.WithSongsFolder(*songsDir))
	}
	if shuffleSet {
		opts = append(opts, config.WithShuffle(*shuffle))
	}

	cfg, err := config.Load(*configPath, opts...)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	switch command {
	case listKeysCmd.FullCommand():
		printKeys(cfg)
		return
	case listSongsCmd.FullCommand():
		if err := listSongs(cfg); err != nil {
			zlog.Fatal().Msgf("Failed to list songs: %v", err)
		}
		return
	case startCmd.FullCommand():
	}

	// The board owns the terminal from here on, so logs go to a file.
	loggerConfig.Output = cfg.UI.LogFile
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	closer, err := logger.Init(loggerConfig)
	if err != nil {
		zlog.Fatal().Msgf("Failed to initialize logger: %v", err)
	}
	defer closer.Close()

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Session error: %v", err)
		fmt.Fprintf(os.Stderr, "tunequiz: %v\n", err)
		closer.Close()
		os.Exit(1)
	}
}

// run executes one session. Using a separate function ensures defer
// statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clients, output, err := setupBackends(ctx, cfg)
	if err != nil {
		return err
	}

	songs, err := loadSongs(ctx, cfg, clients)
	if err != nil {
		_ = output.Close()
		return err
	}

	queue := input.NewQueue(64)
	sessionMgr, err := session.NewManager(cfg, songs, output, queue)
	if err != nil {
		_ = output.Close()
		return errors.Wrap(err, "failed to create session")
	}
	defer sessionMgr.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	board := tui.NewProgram(ctx, session.KeyMapFromConfig(cfg), queue, cfg.UI.AltScreen)
	sessionMgr.GetNotificationManager().Subscribe(board)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer board.End()
		return sessionMgr.Run(gctx)
	})
	g.Go(func() error {
		// Closing the board ends the session.
		defer cancel()
		return board.Run(gctx)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	printScoreboard(sessionMgr)
	return nil
}

// setupBackends creates the remote clients the sources need and the
// configured audio output.
func setupBackends(ctx context.Context, cfg *config.Config) (source.Clients, playback.Output, error) {
	var (
		clients       source.Clients
		spotifyClient *spotify.Client
		mpdClient     *mpd.Client
	)

	if cfg.UsesSpotify() {
		c, err := spotify.New(ctx, spotify.Config{
			ClientID:     cfg.Spotify.ClientID,
			ClientSecret: cfg.Spotify.ClientSecret,
			RefreshToken: cfg.Spotify.RefreshToken,
			Market:       cfg.Spotify.Market,
		})
		if err != nil {
			return clients, nil, errors.Wrap(err, "failed to create Spotify client")
		}
		spotifyClient = c
		clients.Spotify = c
	}

	if cfg.UsesMPD() {
		mpdClient = mpd.New(mpd.Config{
			Network:  cfg.MPD.Network,
			Addr:     cfg.MPD.Addr,
			Password: cfg.MPD.Password,
			Fade:     cfg.FadeDuration(),
		})
		if err := mpdClient.Ping(ctx); err != nil {
			return clients, nil, err
		}
		zlog.Info().Msgf("connected to mpd: addr=%s", cfg.MPD.Addr)
		clients.MPD = mpdClient
	}

	var output playback.Output
	switch cfg.Output.Type {
	case config.OutputCommand:
		pc, err := player.NewConfig(cfg.Output.Settings)
		if err != nil {
			return clients, nil, errors.Wrap(err, "invalid command output settings")
		}
		output = player.New(pc)
	case config.OutputMPD:
		output = mpd.NewOutput(mpdClient)
	case config.OutputSpotify:
		output = spotify.NewOutput(spotifyClient, cfg.Spotify.DeviceName)
	default:
		return clients, nil, errors.Newf("unsupported output type: %s", cfg.Output.Type)
	}
	zlog.Info().Msgf("audio output: type=%s", cfg.Output.Type)

	return clients, output, nil
}

func loadSongs(ctx context.Context, cfg *config.Config, clients source.Clients) ([]song.Song, error) {
	filters, err := filter.NewChainFromConfig(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "invalid filter config")
	}
	chain, err := source.NewProviderChainFromConfig(cfg, clients)
	if err != nil {
		return nil, errors.Wrap(err, "invalid song sources")
	}

	loader := &source.Loader{
		Chain:   chain,
		Filters: filters,
		Shuffle: cfg.Songs.Shuffle,
		Limit:   cfg.Songs.Limit,
	}
	return loader.Load(ctx)
}

func listSongs(cfg *config.Config) error {
	ctx := context.Background()
	clients, output, err := setupBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer output.Close()

	songs, err := loadSongs(ctx, cfg, clients)
	if err != nil {
		return err
	}

	fmt.Printf("Songs (%d):\n", len(songs))
	for i, s := range songs {
		fmt.Printf("  %3d. %s [%s] %s\n", i+1, songTitle(s), strings.ToLower(string(s.Source)), s.Location)
	}
	return nil
}

func printKeys(cfg *config.Config) {
	keys := session.KeyMapFromConfig(cfg)
	fmt.Println("Host keys:")
	for _, b := range keys.All() {
		h := b.Help()
		fmt.Printf("  %-16s %s\n", h.Key, h.Desc)
	}

	fmt.Println("Player buzzers:")
	for i, b := range cfg.Game.Buzzers {
		name := b.Name
		if name == "" {
			name = fmt.Sprintf("Player #%d", i)
		}
		fmt.Printf("  %-16s %s\n", b.Key, name)
	}
}

// printFilters prints available filters.
func printFilters() {
	fmt.Println("Available Filters:")
	for _, name := range filter.Names() {
		f, _ := filter.New(name)
		codes := strings.Join(f.ReturnCodes(), ", ")
		fmt.Printf("  %-30s - %s [codes: %s]\n", f.Name(), f.Description(), codes)
	}
}

func printScoreboard(m *session.Manager) {
	status := m.GetStatus()
	fmt.Printf("\nGame over (%s) after %d song(s), %s\n",
		status.EndReason, len(status.Played), status.Elapsed.Round(time.Second))
	fmt.Println("Final scores:")
	for i, p := range m.Scores() {
		fmt.Printf("  %d. %-20s %3d\n", i+1, p.Name, p.Score)
	}
	if len(status.Played) == 0 {
		return
	}
	fmt.Println("Songs played:")
	for i, s := range status.Played {
		fmt.Printf("  %3d. %s\n", i+1, songTitle(s))
	}
}

func songTitle(s song.Song) string {
	if s.Artist == "" {
		return s.Name
	}
	return s.Name + " - " + s.Artist
}
