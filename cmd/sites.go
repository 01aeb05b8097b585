package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/visitor-export/internal/types"
)

// sitesCmd lists the selectable sites in serialization order.
var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List the sites accepted by --site",
	Run: func(cmd *cobra.Command, args []string) {
		for _, s := range types.AllSites {
			fmt.Fprintln(cmd.OutOrStdout(), s)
		}
	},
}

func init() {
	rootCmd.AddCommand(sitesCmd)
}
