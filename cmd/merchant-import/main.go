// Command merchant-import loads merchant CSV and XLSX files into the
// database and publishes change events for every written record.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	_ "github.com/JonMunkholm/MerchantImport/internal/core/imports" // Register all import types
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merchant-import",
		Short: "Import merchants, merchant stores and merchant addresses",
		Long: `merchant-import maps rows of flat CSV (or XLSX) files onto the merchant
tables, resolving merchant keys and references to ids, and publishes a
change event for every merchant and URL it writes.

Configuration comes from the environment (and a .env file when present).

Example Usage:
  merchant-import types
  merchant-import import --type merchant --file data/import/merchant.csv
  merchant-import import --type merchant-store --dry-run
  merchant-import import-all
  merchant-import serve`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newImportCmd(),
		newImportAllCmd(),
		newServeCmd(),
		newTypesCmd(),
	)
	return cmd
}
