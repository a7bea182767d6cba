package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-volley/internal/config"
	"github.com/vovakirdan/tui-volley/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List game variants",
	Long:  `Shows the registered volleyball variants with their team size and match format.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()
	if len(games) == 0 {
		fmt.Println("No games available.")
		return
	}

	maxIDLen := 2 // "ID" header
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
	}

	fmt.Println("Available variants:")
	fmt.Println()
	fmt.Printf("  %-*s  %-24s  %s\n", maxIDLen, "ID", "Title", "Format")
	fmt.Printf("  %-*s  %-24s  %s\n", maxIDLen, "--", "-----", "------")
	for _, g := range games {
		r := config.DefaultFor(g.ID).Rules
		format := fmt.Sprintf("%dv%d, best of %d, sets to %d (deciding %d)",
			len(r.Roster), len(r.Roster), r.BestOf, r.SetTarget, r.DecidingSetTarget)
		fmt.Printf("  %-*s  %-24s  %s\n", maxIDLen, g.ID, g.Title, format)
	}

	fmt.Println()
	fmt.Println("Run 'volley play <id>' to play.")
}
