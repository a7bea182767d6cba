package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-volley/internal/core"
	"github.com/vovakirdan/tui-volley/internal/host"
	"github.com/vovakirdan/tui-volley/internal/platform/tui"
	"github.com/vovakirdan/tui-volley/internal/replay"
)

var flagWatch bool

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Verify or watch a recorded match",
	Long: `Re-run a recorded match from its seed and inputs. By default the run is
checked against the recorded final state; a mismatch exits with status 1.

Examples:
  volley replay match.vrep
  volley replay match.vrep --watch`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagWatch, "watch", false, "Play the recording back in the terminal")
}

func runReplay(_ *cobra.Command, args []string) {
	rec, err := replay.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if flagWatch {
		if err := watch(rec); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("Replay %s\n", rec.ID)
	fmt.Printf("  variant  %s\n", rec.GameID)
	fmt.Printf("  seed     %d\n", rec.Seed)
	fmt.Printf("  mode     %s\n", host.ModeForHumans(rec.Humans))
	fmt.Printf("  recorded %s\n", rec.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Printf("  frames   %d of %d ticks\n", len(rec.Frames), rec.Final.Ticks)

	got, err := host.Verify(rec)
	switch {
	case errors.Is(err, replay.ErrMismatch):
		fmt.Printf("  result   MISMATCH\n")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("  sets     %d-%d %s\n", got.SetsA, got.SetsB, host.FormatSetScores(got.SetScores))
	fmt.Printf("  winner   %s\n", got.Winner)
	fmt.Printf("  digest   %s\n", got.Digest)
	fmt.Printf("  result   OK\n")
}

func watch(rec *replay.Recording) error {
	p, err := host.NewPlayer(rec)
	if err != nil {
		return err
	}
	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}
	return tui.RunReplay(p, core.RuntimeConfig{ScreenW: width, ScreenH: height, TickRate: rec.TickRate})
}
