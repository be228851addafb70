// ABOUTME: Root Cobra command for the weightplan CLI.
// ABOUTME: Opens the configured storage backend and tracker via PersistentPre/PostRunE.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/weightplan/internal/config"
	"github.com/harperreed/weightplan/internal/storage"
	"github.com/harperreed/weightplan/internal/tracker"
	"github.com/spf13/cobra"
)

// skipStorage marks commands that manage their own storage (or need none).
const skipStorage = "skip-storage"

var (
	cfg  *config.Config
	repo storage.Repository
	tr   *tracker.Tracker

	flagDBPath  string
	flagBackend string
	flagVerbose bool

	// clock is swapped out by tests.
	clock = time.Now
)

var rootCmd = &cobra.Command{
	Use:   "weightplan",
	Short: "Weight goal planner and progress tracker",
	Long: `Weightplan turns your biometrics and a weight goal into a daily calorie target,
then tracks your weigh-ins against it.

QUICK START:

  $ weightplan init --height 178 --weight 86 --age 34 --gender male --activity moderate
  $ weightplan plan add --name "Summer Cut" --target-weight 80 --target-date 2025-09-01
  $ weightplan log add 85.6              # Log today's weight
  $ weightplan status                    # BMR, TDEE, and daily calorie target
  $ weightplan history --group weekly    # Weekly averages

PLANS:

  A profile holds any number of plans; exactly one is active. Calorie
  targets and history labels ("Week 3", "Pre-Plan") follow the active plan.

EXPORT:

  $ weightplan export csv                # Progress report with week labels
  $ weightplan export json -o backup.json
  $ weightplan import backup.json

SYNC:

  Set "backend": "charm" in ~/.config/weightplan/config.json to store data in
  Charm KV. Data is E2E encrypted with your SSH key and syncs on every write.

  $ weightplan sync link
  $ weightplan sync status

MCP INTEGRATION:

  Run 'weightplan mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants:

  {
    "mcpServers": {
      "weightplan": { "command": "weightplan", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  SQLite at ~/.local/share/weightplan/weightplan.db by default.
  Override with --db or "db_path" in the config file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Annotations[skipStorage] == "true" {
			return nil
		}
		return openTracker()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStorage()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "SQLite database path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend: sqlite or charm (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging to stderr")
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (*config.Config, error) {
	c, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagDBPath != "" {
		c.DBPath = flagDBPath
	}
	if flagBackend != "" {
		c.Backend = flagBackend
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

func newLogger() *log.Logger {
	logger := log.New(os.Stderr)
	logger.SetPrefix("weightplan")
	level := log.WarnLevel
	if flagVerbose {
		level = log.DebugLevel
	}
	logger.SetLevel(level)
	log.SetLevel(level)
	return logger
}

func openTracker() error {
	var err error
	cfg, err = loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	repo, err = cfg.OpenStorage()
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
	}
	if db, ok := repo.(*storage.DB); ok {
		logger.Debug("opened storage", "backend", cfg.GetBackend(), "path", db.Path())
	} else {
		logger.Debug("opened storage", "backend", cfg.GetBackend())
	}
	tr = tracker.New(repo, tracker.WithLogger(logger), tracker.WithClock(clock))
	return nil
}

func closeStorage() error {
	if repo == nil {
		return nil
	}
	err := repo.Close()
	repo = nil
	tr = nil
	return err
}
