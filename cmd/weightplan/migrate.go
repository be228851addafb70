// ABOUTME: CLI command for moving data between storage backends.
// ABOUTME: Copies the profile and weigh-ins from one backend into an empty other one.
package main

import (
	"fmt"

	"github.com/harperreed/weightplan/internal/config"
	"github.com/harperreed/weightplan/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateFrom   string
	migrateTo     string
	migrateDryRun bool
	migrateForce  bool
)

var migrateCmd = &cobra.Command{
	Use:         "migrate",
	Short:       "Move data between SQLite and Charm KV",
	Annotations: map[string]string{skipStorage: "true"},
	Long: `Copy your profile, plans, and weigh-ins from one storage backend to another.

Profiles saved before plans existed (a single target weight and date) are
converted on the way: the old goal becomes an active plan named "My Goal".

IMPORTANT:

  - The destination must be empty unless you pass --force, which clears it
  - The source is left untouched
  - Run with --dry-run first to see what would be migrated

USAGE:

  weightplan migrate --from charm --to sqlite --dry-run
  weightplan migrate --from charm --to sqlite

AFTER MIGRATION:

  Point the config at the new backend:
    ~/.config/weightplan/config.json  →  { "backend": "sqlite" }`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateFrom == migrateTo {
			return fmt.Errorf("--from and --to must differ")
		}
		c, err := loadConfig()
		if err != nil {
			return err
		}

		src, err := c.OpenBackend(migrateFrom)
		if err != nil {
			return fmt.Errorf("open source %s: %w", migrateFrom, err)
		}
		defer src.Close()

		dst, err := c.OpenBackend(migrateTo)
		if err != nil {
			return fmt.Errorf("open destination %s: %w", migrateTo, err)
		}
		defer dst.Close()

		out := cmd.OutOrStdout()
		if migrateDryRun {
			yellow.Fprintln(out, "Dry run mode - no changes will be made")
			fmt.Fprintln(out)
			return previewMigration(cmd, src)
		}

		empty, err := storage.IsEmpty(dst)
		if err != nil {
			return fmt.Errorf("check destination: %w", err)
		}
		if !empty {
			if !migrateForce {
				return fmt.Errorf("destination %s already has data (use --force to replace it)", migrateTo)
			}
			if err := dst.Reset(); err != nil {
				return fmt.Errorf("clear destination: %w", err)
			}
		}

		summary, err := storage.MigrateData(src, dst, clock())
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		green.Fprintf(out, "✓ Migrated %s → %s\n", migrateFrom, migrateTo)
		printMigrateSummary(cmd, summary)
		return nil
	},
}

func previewMigration(cmd *cobra.Command, src storage.Repository) error {
	summary, err := storage.MigrateData(src, storage.NewMemoryStore(), clock())
	if err != nil {
		return err
	}
	printMigrateSummary(cmd, summary)
	return nil
}

func printMigrateSummary(cmd *cobra.Command, s *storage.MigrateSummary) {
	out := cmd.OutOrStdout()
	profile := "none"
	if s.Profile {
		profile = "yes"
		if s.Upgraded {
			profile += faint.Sprint(" (upgraded from single-goal format)")
		}
	}
	fmt.Fprintf(out, "  Profile:   %s\n", profile)
	fmt.Fprintf(out, "  Plans:     %d\n", s.Plans)
	fmt.Fprintf(out, "  Weigh-ins: %d\n", s.Logs)
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", config.BackendCharm, "source backend (sqlite or charm)")
	migrateCmd.Flags().StringVar(&migrateTo, "to", config.BackendSQLite, "destination backend (sqlite or charm)")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "replace existing data in the destination")
	rootCmd.AddCommand(migrateCmd)
}
