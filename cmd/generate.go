// =============================================================================
// Visitor Export - Generate Command
// =============================================================================
//
// This file defines the 'generate' command, the main command of the tool. It
// builds the visitor list, merges it with the shared visit details and writes
// the import file.
//
// COMMAND USAGE:
//   visitor-export generate [flags]
//
// PROCESSING PIPELINE:
//   1. Import the --input spreadsheet, if given
//   2. Append every --visitor entry
//   3. Complete the approver pair from the history
//   4. Validate and export
//   5. Record the approver in the history
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/visitor-export/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	// inputFile is a .xlsx, .xlsm or .csv visitor list.
	inputFile string

	// visitorEntries are manual "name,phone,id[,plate]" entries.
	visitorEntries []string

	// outputFile overrides the generated output path.
	outputFile string

	meta metadataFlags
)

// =============================================================================
// GENERATE COMMAND DEFINITION
// =============================================================================

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the visitor registration import file",
	Long: `The generate command builds the visitor list from --input and/or --visitor,
applies the shared visit details to every visitor and writes the GBK-encoded
import file.

Nothing is written unless every check passes:
  - at least one visitor
  - approver id and name, reason and at least one site
  - the start time is not in the past and the end time is after it
  - every visitor has a name, phone number and id number

When only the approver id (or only the name) is given, the other half is
taken from the approver history.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd)
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(generateCmd)
	addVisitorFlags(generateCmd)

	flags := generateCmd.Flags()
	flags.StringVar(&meta.approverID, "approver-id", "", "Approver employee id")
	flags.StringVar(&meta.approverName, "approver-name", "", "Approver name")
	flags.StringVar(&meta.reason, "reason", "", "Reason for the visit")
	flags.StringVar(&meta.visitType, "visit-type", "", "Visit type: 公务拜访 (business) or 入校参观 (campus)")
	flags.StringVar(&meta.idType, "id-type", "", "Id type: 身份证 (national) or 护照 (passport)")
	flags.StringArrayVar(&meta.sites, "site", nil, "Site to visit, repeatable: 东区, 西区, 北区, 梅山校区")
	flags.StringVar(&meta.start, "start", "", "Visit start, YYYY-MM-DD HH:MM")
	flags.StringVar(&meta.end, "end", "", "Visit end, YYYY-MM-DD HH:MM")
	flags.StringVarP(&outputFile, "output", "o", "", "Output file (default: output_dir/output_file_format)")
}

// addVisitorFlags registers the visitor source flags shared with preview.
func addVisitorFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Visitor spreadsheet (.xlsx, .xlsm or .csv)")
	cmd.Flags().StringArrayVar(&visitorEntries, "visitor", nil, `Visitor "name,phone,id[,plate]", repeatable`)
}

// =============================================================================
// MAIN FUNCTION
// =============================================================================

func runGenerate(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	g := newGenerator()

	if err := loadVisitors(g, inputFile, visitorEntries); err != nil {
		return err
	}

	m, err := buildMetadata(meta, appConfig.Defaults, time.Local)
	if err != nil {
		return err
	}
	m.ApproverID, m.ApproverName = g.CompleteApprover(m.ApproverID, m.ApproverName)

	dest := outputFile
	if dest == "" {
		if err := utils.EnsureDir(appConfig.OutputDir); err != nil {
			return err
		}
		dest = filepath.Join(appConfig.OutputDir, utils.GenerateOutputFileName(appConfig.OutputFileFormat, time.Now()))
	}

	result, err := g.Generate(m, dest)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "文件已成功导出到: %s\n", result.OutputFile)
	fmt.Fprintf(out, "Visitors:     %d\n", result.Records)
	fmt.Fprintf(out, "Time elapsed: %s\n", result.Duration)
	if result.HistoryWarning != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "警告: 无法保存审批人历史记录: %v\n", result.HistoryWarning)
	}
	return nil
}
