package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-volley/internal/config"
	"github.com/vovakirdan/tui-volley/internal/games/volley"
	"github.com/vovakirdan/tui-volley/internal/host"
	"github.com/vovakirdan/tui-volley/internal/registry"
	"github.com/vovakirdan/tui-volley/internal/replay"
	"github.com/vovakirdan/tui-volley/internal/storage"
)

var (
	flagMatches   int
	flagMaxTicks  int
	flagRealtime  bool
	flagSimRecord string
	flagSave      bool
)

var simCmd = &cobra.Command{
	Use:   "sim [variant]",
	Short: "Run CPU vs CPU matches without a screen",
	Long: `Run one or more CPU vs CPU matches as fast as possible and print the
results. Match i uses seed+i, so a batch is reproducible with --seed.

With --realtime the match runs at --fps and can be stopped with Ctrl+C.

Examples:
  volley sim
  volley sim beach --matches 50 --seed 1
  volley sim --record runs/match.vrep
  volley sim --realtime --log-level debug`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagMatches, "matches", 1, "Number of matches to run")
	simCmd.Flags().IntVar(&flagMaxTicks, "max-ticks", 0, "Abandon a match after this many ticks (0 = no limit)")
	simCmd.Flags().BoolVar(&flagRealtime, "realtime", false, "Run at --fps instead of as fast as possible")
	simCmd.Flags().StringVar(&flagSimRecord, "record", "", "Save replays; match i > 1 gets a -i suffix")
	simCmd.Flags().BoolVar(&flagSave, "save", false, "Store results in the match history")
}

// loadConfig applies --config and --difficulty to a variant's configuration.
func loadConfig(gameID string) (config.VolleyConfig, error) {
	cfg, err := config.Load(flagConfig, gameID)
	if err != nil {
		return cfg, err
	}
	preset, _ := config.ParsePreset(flagDifficulty)
	config.ApplyPreset(&cfg, preset)
	return cfg, nil
}

func runSim(_ *cobra.Command, args []string) {
	gameID := "volley"
	if len(args) == 1 {
		gameID = args[0]
	}
	if err := simulate(gameID); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func simulate(gameID string) error {
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown variant %q", gameID)
	}
	if flagMatches < 1 {
		return fmt.Errorf("--matches must be at least 1")
	}
	cfg, err := loadConfig(gameID)
	if err != nil {
		return err
	}

	var store *storage.Store
	if flagSave {
		if store, err = storage.Open(flagDBPath); err != nil {
			return err
		}
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	base := seed()
	winsA, winsB, points := 0, 0, 0
	for i := range flagMatches {
		d, err := host.NewDriver(cfg, host.Options{
			GameID:   gameID,
			Seed:     base + int64(i),
			Mode:     host.ModeDemo,
			TickRate: flagFPS,
			Record:   flagSimRecord != "",
			Logger:   logger,
		})
		if err != nil {
			return err
		}

		if err := runMatch(ctx, d); err != nil {
			logger.Warn("match interrupted", "match", i+1, "error", err)
		}

		rec := d.MatchRecord(string(host.ModeDemo))
		printMatch(i+1, rec)
		switch rec.Winner {
		case "A":
			winsA++
		case "B":
			winsB++
		}
		points += rec.Points

		if store != nil {
			if _, err := store.SaveMatch(rec); err != nil {
				return err
			}
		}
		if flagSimRecord != "" {
			if err := saveSimRecording(d, i); err != nil {
				return err
			}
		}
		if ctx.Err() != nil {
			break
		}
	}

	if flagMatches > 1 {
		fmt.Printf("\n%d matches: A won %d, B won %d, %.1f points per match\n",
			flagMatches, winsA, winsB, float64(points)/float64(flagMatches))
	}
	return nil
}

// runMatch plays one match to the end, the tick limit or cancellation.
func runMatch(ctx context.Context, d *host.Driver) error {
	if flagRealtime {
		loop := host.NewLoop(d, flagFPS)
		if flagMaxTicks > 0 {
			return loop.Run(ctx, func(d *host.Driver, _ []volley.Outcome) {
				if d.Sim().Ticks() >= flagMaxTicks {
					loop.Stop()
				}
			})
		}
		return loop.Run(ctx, nil)
	}

	for !d.Done() {
		if flagMaxTicks > 0 && d.Sim().Ticks() >= flagMaxTicks {
			return nil
		}
		// Check for Ctrl+C between ticks only
		if d.Sim().Ticks()%1024 == 0 && ctx.Err() != nil {
			return ctx.Err()
		}
		d.Step(nil, false)
	}
	return nil
}

func printMatch(n int, rec storage.MatchRecord) {
	winner := rec.Winner
	if winner == "" {
		winner = "-"
	}
	fmt.Printf("match %-3d seed=%-20d winner=%s sets %d-%d [%s] points=%d ticks=%d %s\n",
		n, rec.Seed, winner, rec.SetsA, rec.SetsB, rec.SetScores, rec.Points, rec.Ticks, rec.EndReason)
}

func saveSimRecording(d *host.Driver, i int) error {
	rec, err := d.Recording()
	if err != nil || rec == nil {
		return err
	}
	path := flagSimRecord
	if i > 0 {
		ext := filepath.Ext(path)
		path = fmt.Sprintf("%s-%d%s", strings.TrimSuffix(path, ext), i+1, ext)
	}
	if err := replay.Save(path, rec); err != nil {
		return err
	}
	logger.Info("replay saved", "path", path, "digest", rec.Final.Digest[:12])
	return nil
}
