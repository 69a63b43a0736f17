package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/MerchantImport/internal/core"
)

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the registered import types",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TYPE\tFILE\tREQUIRED COLUMNS")
			for _, def := range core.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n",
					def.Info.Type, def.Info.FileName, strings.Join(def.Info.RequiredColumns, ", "))
			}
			return tw.Flush()
		},
	}
}
