// volley is a terminal volleyball game built on a deterministic fixed-step
// simulation.
//
// Usage:
//
//	volley list                 - List game variants
//	volley play [variant]       - Play a match (menu when no variant is given)
//	volley sim [variant]        - Run CPU vs CPU matches headless
//	volley replay <file>        - Verify or watch a recorded match
//	volley history [variant]    - Show finished matches
//	volley serve                - Start SSH server for remote play
//	volley defaults <variant>   - Print the default YAML configuration
//
// Global flags:
//
//	--fps <rate>          - Simulation tick rate (default: 60)
//	--seed <value>        - RNG seed for reproducible matches
//	--db <path>           - Match history database (default: ~/.volley/history.db)
//	--config <path>       - Custom variant config YAML
//	--difficulty <preset> - CPU difficulty: easy, normal, hard, fixed
//	--log-level <level>   - debug, info, warn, error
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-volley/internal/config"
	"github.com/vovakirdan/tui-volley/internal/host"
)

var (
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
	flagLogFile    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "volley",
	Short: "Volley - volleyball in your terminal",
	Long: `Volley is a terminal volleyball game. Play against the CPU, with a
friend on the same keyboard, or watch two CPU teams play.

Available commands:
  list      - Show the game variants
  play      - Play a match
  sim       - Run headless CPU matches
  replay    - Verify or watch a recorded match
  history   - Show finished matches
  serve     - Start SSH server for remote play
  defaults  - Print a variant's default configuration

Examples:
  volley play
  volley play beach --mode hotseat
  volley sim --matches 20 --seed 7
  volley replay match.vrep --watch
  volley serve --ssh :2222`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 60, "Tick rate (simulation steps per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.volley/history.db", "Path to match history database")
	pf.StringVar(&flagConfig, "config", "", "Path to custom variant config YAML")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFile, "log-file", "", "Write logs to this file instead of stderr")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(defaultsCmd)
}

// logger is configured by setup before any command runs.
var logger = log.New(io.Discard)

// setup validates global flags and configures logging and the game variants.
func setup(cmd *cobra.Command, _ []string) error {
	if flagFPS <= 0 || flagFPS > 1000 {
		return fmt.Errorf("--fps must be between 1 and 1000, got %d", flagFPS)
	}
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	if _, err := config.ParsePreset(flagDifficulty); err != nil {
		return err
	}
	if flagConfig != "" {
		if _, err := config.Load(flagConfig, "volley"); err != nil {
			return err
		}
	}

	out, err := logOutput(cmd)
	if err != nil {
		return err
	}
	logger = log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "volley",
		Level:           level,
	})

	host.SetLogger(logger)
	host.SetConfigPath(flagConfig)
	host.SetDifficultyPreset(flagDifficulty)
	return nil
}

// logOutput picks where logs go. The interactive screens own the terminal,
// so they only log to a file.
func logOutput(cmd *cobra.Command) (io.Writer, error) {
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("cannot open log file: %w", err)
		}
		return f, nil
	}
	if cmd == playCmd || (cmd == replayCmd && flagWatch) {
		return io.Discard, nil
	}
	return os.Stderr, nil
}

// seed returns the --seed value or a time-based one.
func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}
