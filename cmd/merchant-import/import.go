package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/MerchantImport/internal/core"
	"github.com/JonMunkholm/MerchantImport/internal/dataimport"
)

type importOptions struct {
	importType  string
	file        string
	dryRun      bool
	stopOnError bool
	jsonOutput  bool
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Run one import type from a file",
		Long: `Import a single file. Without --file the type's default file in
IMPORT_DATA_DIR is used. Rows that fail are reported and skipped unless
--stop-on-error is set, in which case nothing is committed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.service.ImportFile(cmd.Context(), opts.importType, opts.file, core.ImportOptions{
				DryRun:      opts.dryRun,
				StopOnError: opts.stopOnError,
			})
			if report != nil {
				if perr := printReport(cmd.OutOrStdout(), report, opts.jsonOutput); perr != nil {
					return perr
				}
			}
			if err != nil {
				return userError(err)
			}
			return failedRowsError(report)
		},
	}

	cmd.Flags().StringVarP(&opts.importType, "type", "t", "", "Import type (see the types command) (required)")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "File to import (default: the type's file in IMPORT_DATA_DIR)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Run every row, then roll back and publish nothing")
	cmd.Flags().BoolVar(&opts.stopOnError, "stop-on-error", false, "Abort the run at the first failed row")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the report as JSON")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

// userError logs the technical error and returns the mapped message, or err
// itself when no specific message exists for it.
func userError(err error) error {
	slog.Error("import failed", "error", err)
	if !core.IsUserFacing(err) {
		return err
	}
	return errors.New(core.FormatUserError(err))
}

// failedRowsError makes the command exit non-zero when rows were skipped.
func failedRowsError(report *dataimport.Report) error {
	if report != nil && len(report.Failed) > 0 {
		return fmt.Errorf("%d of %d rows failed", len(report.Failed), report.Total)
	}
	return nil
}

func printReport(w io.Writer, report *dataimport.Report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	mode := ""
	if report.DryRun {
		mode = " (dry run)"
	}
	fmt.Fprintf(w, "%s%s: %d rows, %d imported, %d failed in %s [run %s]\n",
		report.ImportType, mode, report.Total, report.Imported, len(report.Failed), report.Duration, report.RunID)

	if len(report.Failed) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE\tCODE\tREASON")
	for _, f := range report.Failed {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", f.Line, f.Code, f.Reason)
	}
	return tw.Flush()
}
