package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-volley/internal/platform/tui"
	"github.com/vovakirdan/tui-volley/internal/registry"
	"github.com/vovakirdan/tui-volley/internal/storage"
)

var (
	flagLimit int
	flagTUI   bool
	flagClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history [variant]",
	Short: "Show finished matches",
	Long: `Display recent matches with their set scores. Without a variant all
variants are listed.

Examples:
  volley history
  volley history beach --limit 20
  volley history --tui
  volley history volley --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of matches to show")
	historyCmd.Flags().BoolVar(&flagTUI, "tui", false, "Browse the history interactively")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the history of the given variant")
}

func runHistory(_ *cobra.Command, args []string) {
	gameID := ""
	if len(args) == 1 {
		gameID = args[0]
		if !registry.Exists(gameID) {
			fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", gameID)
			fmt.Fprintln(os.Stderr, "Run 'volley list' to see available variants.")
			os.Exit(1)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening history database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagClear:
		if gameID == "" {
			fmt.Fprintln(os.Stderr, "Error: --clear needs a variant")
			os.Exit(1)
		}
		if err := store.ClearMatches(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger.Info("history cleared", "game", gameID)
		return

	case flagTUI:
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if _, err := tui.RunHistory(store, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	matches, err := store.RecentMatches(gameID, flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving history: %v\n", err)
		os.Exit(1)
	}
	if len(matches) == 0 {
		fmt.Println("No matches recorded yet.")
		fmt.Println()
		fmt.Println("Play 'volley play' or run 'volley sim --save' to add some.")
		return
	}

	fmt.Printf("  %-16s  %-7s  %-8s  %-6s  %-5s  %-28s  %s\n", "Date", "Variant", "Mode", "Winner", "Sets", "Set scores", "Points")
	fmt.Printf("  %-16s  %-7s  %-8s  %-6s  %-5s  %-28s  %s\n", "----", "-------", "----", "------", "----", "----------", "------")
	for _, m := range matches {
		winner := m.Winner
		if m.EndReason != "completed" {
			winner = "-"
		}
		fmt.Printf("  %-16s  %-7s  %-8s  %-6s  %d-%d    %-28s  %d\n",
			m.CreatedAt.Local().Format("2006-01-02 15:04"), m.GameID, m.Mode, winner,
			m.SetsA, m.SetsB, m.SetScores, m.Points)
	}

	if gameID != "" {
		stats, err := store.GetGameStats(gameID)
		if err == nil {
			fmt.Println()
			fmt.Printf("Played %d, A won %d, B won %d, abandoned %d, %.1f points per match\n",
				stats.Played, stats.WinsA, stats.WinsB, stats.Abandoned, stats.AvgPoints)
		}
	}
}
