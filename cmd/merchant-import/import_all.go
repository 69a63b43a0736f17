package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/MerchantImport/internal/config"
	"github.com/JonMunkholm/MerchantImport/internal/core"
)

func newImportAllCmd() *cobra.Command {
	var (
		actionsFile string
		dryRun      bool
		jsonOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "import-all",
		Short: "Run every import listed in the actions file, in order",
		Long: `Run the import actions of a YAML file one after another:

  actions:
    - data_entity: merchant
      source: merchant.csv
    - data_entity: merchant-store
      source: merchant_store.csv

Each action is its own transaction. A run that aborts stops the sequence;
later types usually depend on the rows of earlier ones.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if actionsFile == "" {
				actionsFile = a.cfg.Import.ActionsFile
			}
			actions, err := config.LoadImportActions(actionsFile)
			if err != nil {
				return err
			}

			failed := 0
			for _, action := range actions.Actions {
				report, err := a.service.ImportFile(cmd.Context(), action.DataEntity, action.Source, core.ImportOptions{
					DryRun: dryRun,
				})
				if report != nil {
					if perr := printReport(cmd.OutOrStdout(), report, jsonOutput); perr != nil {
						return perr
					}
					failed += len(report.Failed)
				}
				if err != nil {
					slog.Error("import action failed", "data_entity", action.DataEntity, "source", action.Source)
					return userError(err)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d rows failed across %d actions", failed, len(actions.Actions))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&actionsFile, "actions", "", "Actions file (default: IMPORT_ACTIONS_FILE)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Roll back every run and publish nothing")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print reports as JSON")

	return cmd
}
