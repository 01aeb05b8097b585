// =============================================================================
// Visitor Export - XLSX Visitor Sheet Parser
// =============================================================================
//
// This module reads a visitor spreadsheet into a records.Batch. The sheet is
// expected to look like:
//
//   | 访客姓名 | 手机号      | 证件号码           | 车辆号码 |
//   |----------|-------------|--------------------|----------|
//   | 张三     | 13800000000 | 110101199001011234 | 粤A1234  |
//
// PARSING RULES:
//   - The first non-empty row is the header; labels are trimmed.
//   - Cells are read as raw text (no number formatting), so long phone and
//     id numbers are not turned into scientific notation.
//   - Cells missing at the end of a row read as "".
//   - Fully blank rows are skipped.
//   - Column presence is checked by the record store, not here.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/visitor-export/internal/records"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads the visitor sheet of the workbook at path.
//
// PARAMETERS:
//   - path: The path to the .xlsx file.
//   - sheetName: The worksheet to read. Empty means the first sheet.
//
// RETURNS:
//   - The header labels and data rows.
//   - An error if the file cannot be opened or the sheet does not exist.
func Parse(path, sheetName string) (records.Batch, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return records.Batch{}, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	return parseFile(f, sheetName)
}

// ParseReader reads the visitor sheet of a workbook from r.
func ParseReader(r io.Reader, sheetName string) (records.Batch, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return records.Batch{}, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	return parseFile(f, sheetName)
}

func parseFile(f *excelize.File, sheetName string) (records.Batch, error) {
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
		if sheetName == "" {
			return records.Batch{}, fmt.Errorf("spreadsheet has no sheets")
		}
	} else if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return records.Batch{}, fmt.Errorf("sheet %q not found", sheetName)
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return records.Batch{}, fmt.Errorf("failed to read rows: %w", err)
	}

	return BuildBatch(rows), nil
}

// BuildBatch turns raw sheet rows into a batch. The first non-empty row is
// the header. A repeated header label keeps its first column.
func BuildBatch(rows [][]string) records.Batch {
	var batch records.Batch

	headerIndex := -1
	for i, row := range rows {
		if !isRowEmpty(row) {
			headerIndex = i
			break
		}
	}
	if headerIndex < 0 {
		return batch
	}

	columnOf := make(map[string]int)
	for i, cell := range rows[headerIndex] {
		label := strings.TrimSpace(cell)
		batch.Columns = append(batch.Columns, label)
		if _, seen := columnOf[label]; label != "" && !seen {
			columnOf[label] = i
		}
	}

	for _, row := range rows[headerIndex+1:] {
		if isRowEmpty(row) {
			continue
		}

		raw := make(records.RawRow, len(columnOf))
		for label, col := range columnOf {
			if col < len(row) {
				raw[label] = row[col]
			} else {
				raw[label] = ""
			}
		}
		batch.Rows = append(batch.Rows, raw)
	}

	return batch
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
