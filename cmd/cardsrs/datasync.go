package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/cardsrs/internal/datasync"
)

type FormatFlag string

// Set implements pflag.Value.
func (f *FormatFlag) Set(v string) error {
	switch strings.ToLower(v) {
	case string(FormatCSV):
		*f = FormatCSV
	case string(FormatYAML), "yml":
		*f = FormatYAML
	default:
		return fmt.Errorf("invalid value %q, valid values are %q or %q", v, FormatCSV, FormatYAML)
	}
	return nil
}

// String implements pflag.Value.
func (f *FormatFlag) String() string {
	if f == nil {
		return ""
	}
	return string(*f)
}

// Type implements pflag.Value.
func (f *FormatFlag) Type() string {
	return "FormatFlag"
}

var (
	_ pflag.Value = (*FormatFlag)(nil)
)

const (
	FormatCSV  FormatFlag = "csv"
	FormatYAML FormatFlag = "yaml"
)

// formatOf returns format, or the format matching the extension of path when format is unset.
func formatOf(format FormatFlag, path string) FormatFlag {
	if format != "" {
		return format
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML
	default:
		return FormatCSV
	}
}

func newImportCommand() *cobra.Command {
	var format FormatFlag
	var dryRun bool
	var createReverse bool

	command := &cobra.Command{
		Use:   "import <file>",
		Short: "Import cards from a CSV file or a YAML export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			user, err := currentUser()
			if err != nil {
				return err
			}
			env, err := setupEnvironment(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = env.Close()
			}()

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("os.Open(%s) > %w", args[0], err)
			}
			defer func() {
				_ = file.Close()
			}()

			out := cmd.OutOrStdout()
			importer := datasync.NewImporter(env.repo, out)
			opts := datasync.ImportOptions{
				DryRun:        dryRun,
				CreateReverse: createReverse,
			}

			var result *datasync.ImportResult
			switch formatOf(format, args[0]) {
			case FormatYAML:
				result, err = importer.ImportYAML(ctx, user, file, opts)
				if err != nil {
					return fmt.Errorf("importer.ImportYAML() > %w", err)
				}
			default:
				result, err = importer.ImportCSV(ctx, user, file, opts)
				if err != nil {
					return fmt.Errorf("importer.ImportCSV() > %w", err)
				}
			}

			_, _ = fmt.Fprintln(out, "\nImport Summary:")
			if opts.DryRun {
				_, _ = fmt.Fprintln(out, "  (dry-run mode, no changes made)")
			}
			_, _ = fmt.Fprintf(out, "  Cards:   %d new, %d skipped, %d failed\n", result.Imported, result.Skipped, result.Failed)
			_, _ = fmt.Fprintf(out, "  Reviews: %d restored\n", result.Reviews)
			return nil
		},
	}
	flags := command.Flags()
	flags.Var(&format, "format", "Input format. Options: csv, yaml (default: from the file extension)")
	flags.BoolVar(&dryRun, "dry-run", false, "Preview changes without modifying the database")
	flags.BoolVar(&createReverse, "reverse", false, "Also create the reverse card of each imported card")
	return command
}

func newExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export cards with their review history as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := currentUser()
			if err != nil {
				return err
			}
			env, err := setupEnvironment(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				_ = env.Close()
			}()

			var w io.Writer = cmd.OutOrStdout()
			if len(args) == 1 {
				file, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("os.Create(%s) > %w", args[0], err)
				}
				defer func() {
					_ = file.Close()
				}()
				w = file
			}

			count, err := datasync.NewExporter(env.repo).ExportYAML(cmd.Context(), user, w)
			if err != nil {
				return fmt.Errorf("exporter.ExportYAML() > %w", err)
			}
			if len(args) == 1 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d card(s) to %s\n", count, args[0])
			}
			return nil
		},
	}
}
