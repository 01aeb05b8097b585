// =============================================================================
// Visitor Export - Preview Command
// =============================================================================
//
// COMMAND USAGE:
//   visitor-export preview --input visitors.xlsx [--visitor ...]
//
// Prints the normalized visitor list exactly as it would be exported.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/visitor-export/internal/records"
	"github.com/ginjaninja78/visitor-export/internal/types"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the normalized visitor list without exporting",
	RunE: func(cmd *cobra.Command, args []string) error {
		g := newGenerator()
		if err := loadVisitors(g, inputFile, visitorEntries); err != nil {
			return err
		}
		return printVisitors(cmd.OutOrStdout(), g.Preview())
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	addVisitorFlags(previewCmd)
}

// printVisitors writes one aligned row per visitor.
func printVisitors(w io.Writer, visitors []types.VisitorRecord) error {
	if len(visitors) == 0 {
		_, err := fmt.Fprintln(w, "访客列表为空。")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "#\t%s\t%s\t%s\t%s\n", records.ColumnName, records.ColumnPhone, records.ColumnID, records.ColumnPlate)
	for i, v := range visitors {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, v.Name, v.Phone, v.IDNumber, v.Plate)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "共 %d 位访客\n", len(visitors))
	return err
}
