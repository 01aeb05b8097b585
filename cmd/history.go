// =============================================================================
// Visitor Export - History Command
// =============================================================================
//
// COMMAND USAGE:
//   visitor-export history                 list recent approvers
//   visitor-export history --id E001       look up a pair by id
//   visitor-export history --name 李四     look up a pair by name
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	historyID   string
	historyName string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List or look up recently used approvers",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		g := newGenerator()

		if historyID != "" || historyName != "" {
			id, name := g.CompleteApprover(historyID, historyName)
			if id == "" || name == "" {
				return fmt.Errorf("no approver in history matches id %q name %q", historyID, historyName)
			}
			fmt.Fprintf(out, "%s\t%s\n", id, name)
			return nil
		}

		entries := g.Approvers()
		if len(entries) == 0 {
			fmt.Fprintln(out, "审批人历史记录为空。")
			return nil
		}
		for _, e := range entries {
			fmt.Fprintf(out, "%s\t%s\n", e.ID, e.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&historyID, "id", "", "Select the approver with this id")
	historyCmd.Flags().StringVar(&historyName, "name", "", "Select the approver with this name")
	historyCmd.MarkFlagsMutuallyExclusive("id", "name")
}
