package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-volley/internal/core"
	"github.com/vovakirdan/tui-volley/internal/host"
	"github.com/vovakirdan/tui-volley/internal/platform/tui"
	"github.com/vovakirdan/tui-volley/internal/registry"
	"github.com/vovakirdan/tui-volley/internal/replay"
	"github.com/vovakirdan/tui-volley/internal/storage"
)

var (
	flagMode   string
	flagRecord string
)

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Play a match",
	Long: `Play a match in the terminal. Without a variant a menu lets you pick the
variant and the mode.

Modes:
  cpu      - You (left side) against the CPU
  hotseat  - Two players on one keyboard
  demo     - Watch the CPU play itself

Controls:
  A/D or arrows  - Move (player 2 uses arrows in hotseat)
  W or Up        - Jump
  J / .          - Strike (player 1 / player 2)
  K / /          - Block in the air (player 1 / player 2)
  Space          - Serve
  P              - Pause
  R              - Rematch (after the match)
  B/Esc          - Back to menu (paused or finished)
  Q/Ctrl+C       - Quit

Difficulty options:
  easy   - CPU starts weak and improves as the match goes on
  normal - CPU starts at 40% and improves
  hard   - CPU starts at 80% and improves
  fixed  - CPU stays at the configured initial level

Examples:
  volley play
  volley play volley --difficulty hard
  volley play beach --mode hotseat
  volley play volley --seed 42 --record match.vrep`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagMode, "mode", "cpu", "Mode: cpu, hotseat, demo")
	playCmd.Flags().StringVar(&flagRecord, "record", "", "Save a replay of the last match to this file")
}

func runPlay(_ *cobra.Command, args []string) {
	mode, err := host.ParseMode(flagMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(args) == 1 && !registry.Exists(args[0]) {
		fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", args[0])
		fmt.Fprintln(os.Stderr, "Run 'volley list' to see available variants.")
		os.Exit(1)
	}
	host.SetRecording(flagRecord != "")

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}
	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
		Humans:   mode.Humans(),
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open history database: %v\n", err)
		store = nil
	}

	if len(args) == 0 {
		err = runMenuLoop(store, cfg)
	} else {
		err = playOne(args[0], store, cfg)
	}

	if store != nil {
		store.Close()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// playOne runs a single match and returns once the user leaves it.
func playOne(gameID string, store *storage.Store, cfg core.RuntimeConfig) error {
	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}
	if _, err := tui.Run(game, store, cfg, logger); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return saveRecording(game)
}

// runMenuLoop alternates between the menu, matches and the history screen
// until the user quits.
func runMenuLoop(store *storage.Store, cfg core.RuntimeConfig) error {
	for {
		res, err := tui.RunMenu(cfg)
		if err != nil {
			return err
		}
		cfg = res.Config

		switch {
		case res.Quit:
			return nil

		case res.WantsHistory:
			goBack, err := tui.RunHistory(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}
			continue
		}

		game, err := registry.Create(res.GameID)
		if err != nil {
			return err
		}
		match := cfg
		match.Humans = res.Mode.Humans()

		backToMenu, err := tui.Run(game, store, match, logger)
		if err != nil {
			return fmt.Errorf("running game: %w", err)
		}
		if err := saveRecording(game); err != nil {
			return err
		}
		if !backToMenu {
			return nil
		}
	}
}

// saveRecording writes the replay of a finished session when --record is set.
func saveRecording(game registry.Game) error {
	if flagRecord == "" {
		return nil
	}
	g, ok := game.(*host.Game)
	if !ok {
		return nil
	}
	rec, err := g.Recording()
	if err != nil || rec == nil {
		return err
	}
	if err := replay.Save(flagRecord, rec); err != nil {
		return err
	}
	logger.Info("replay saved", "path", flagRecord, "ticks", rec.Final.Ticks)
	return nil
}
