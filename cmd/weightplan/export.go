// ABOUTME: CLI commands for exporting, importing, and resetting weightplan data.
// ABOUTME: CSV and Markdown render the progress report; JSON and YAML carry everything.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harperreed/weightplan/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	importYes    bool
	resetYes     bool
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export weightplan data",
	Long: `Export weightplan data in various formats.

FORMATS:

  csv        Progress report: week, date, timeline, weight, change, trend bar
  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable)
  markdown   Progress report as a Markdown table

OPTIONS:

  --output, -o   Write to a file instead of stdout. When the path is a
                 directory the suggested filename is used, e.g.
                 Summer_Cut-weight-history.csv

EXAMPLES:

  weightplan export csv -o .                # Save the report in this directory
  weightplan export json -o backup.json     # Full backup
  weightplan export yaml                    # Print YAML
  weightplan export markdown > progress.md`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"csv", "json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		var (
			data     []byte
			filename string
			err      error
		)
		switch format {
		case "csv":
			var buf bytes.Buffer
			filename, err = tr.ExportCSV(&buf)
			data = buf.Bytes()
		case "json":
			data, filename, err = backupAs("json")
		case "yaml":
			data, filename, err = backupAs("yaml")
		case "markdown", "md":
			data, err = markdownReport()
			filename = "weightplan_progress.md"
		default:
			return fmt.Errorf("unknown format: %s (use csv, json, yaml, or markdown)", format)
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if exportOutput == "" {
			_, err := out.Write(data)
			return err
		}

		path := exportOutput
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			path = filepath.Join(path, filename)
		}
		if err := os.WriteFile(path, data, 0600); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		green.Fprintf(out, "✓ Exported to %s\n", path)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore data from a JSON backup",
	Long: `Restore data from a JSON file written by 'weightplan export json'.

This REPLACES your profile, plans, and weigh-ins with the backup's contents.

EXAMPLES:

  weightplan import backup.json
  weightplan import backup.json --yes   # Skip the confirmation prompt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		b, err := export.ParseJSON(data)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if !importYes && !confirm(cmd, "This replaces all current data. Continue? [y/N]: ", "y") {
			fmt.Fprintln(out, "Canceled.")
			return nil
		}
		if err := tr.Import(b); err != nil {
			return err
		}

		green.Fprintf(out, "✓ Imported from %s\n", filename)
		fmt.Fprintf(out, "  Plans: %d\n", len(b.Profile.Plans))
		fmt.Fprintf(out, "  Weigh-ins: %d\n", len(b.Logs))
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete your profile, plans, and weigh-ins",
	Long: `Delete your profile, every plan, and every weigh-in.

This is a DESTRUCTIVE operation. Export a backup first:

  weightplan export json -o backup.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if !resetYes {
			fmt.Fprintln(out, "This will PERMANENTLY DELETE your profile, plans, and weigh-ins.")
			if !confirm(cmd, "Type 'reset' to confirm: ", "reset") {
				fmt.Fprintln(out, "Canceled.")
				return nil
			}
		}
		if err := tr.Reset(); err != nil {
			return err
		}
		green.Fprintln(out, "✓ All data deleted")
		fmt.Fprintln(out, "Start again with 'weightplan init'.")
		return nil
	},
}

func backupAs(format string) ([]byte, string, error) {
	b, err := tr.Backup()
	if err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("weightplan_backup_%s.%s", b.ExportedAt.Format("2006-01-02"), format)
	var data []byte
	if format == "yaml" {
		data, err = b.YAML()
	} else {
		data, err = b.JSON()
		data = append(data, '\n')
	}
	return data, name, err
}

func markdownReport() ([]byte, error) {
	state, err := tr.Load()
	if err != nil {
		return nil, err
	}
	title := "Weight Progress"
	if plan := state.ActivePlan(); plan != nil {
		title = plan.Name
	}
	rows, err := tr.Report()
	if err != nil {
		return nil, err
	}
	return []byte(export.Markdown(title, rows, tr.Now())), nil
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file or directory (default: stdout)")
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "skip the confirmation prompt")
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "skip the confirmation prompt")

	rootCmd.AddCommand(exportCmd, importCmd, resetCmd)
}
