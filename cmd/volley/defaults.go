package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-volley/internal/config"
	"github.com/vovakirdan/tui-volley/internal/registry"
)

var defaultsCmd = &cobra.Command{
	Use:   "defaults <variant>",
	Short: "Print a variant's default configuration",
	Long: `Print the built-in YAML configuration of a variant. Save it as
~/.volley/configs/<variant>.yaml or ./configs/<variant>.yaml and edit it to
change rules, physics or CPU behavior.

Examples:
  volley defaults volley > ~/.volley/configs/volley.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runDefaults,
}

func runDefaults(_ *cobra.Command, args []string) {
	data := config.GetDefaultYAML(args[0])
	if data == nil || !registry.Exists(args[0]) {
		fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", args[0])
		os.Exit(1)
	}
	os.Stdout.Write(data)
}
