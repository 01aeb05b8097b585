// =============================================================================
// Visitor Export - CSV Visitor Sheet Parser
// =============================================================================
//
// This module reads a visitor list saved as CSV into a records.Batch, for
// operators who export their sheet as text instead of .xlsx.
//
// FEATURES:
//   - UTF-8 (with or without BOM) or GBK input, the two encodings spreadsheet
//     tools produce for Chinese text
//   - Configurable delimiter
//   - Ragged rows: missing trailing cells read as ""
//   - The header and row rules are shared with the XLSX parser
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/visitor-export/internal/config"
	"github.com/ginjaninja78/visitor-export/internal/records"
	"github.com/ginjaninja78/visitor-export/internal/xlsxparser"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns the parsed batch.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The import settings (encoding, delimiter).
//
// RETURNS:
//   - The header labels and data rows.
//   - An error if the file cannot be read or parsed.
func Parse(filePath string, settings config.ImportSettings) (records.Batch, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return records.Batch{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseReader(file, settings)
}

// ParseReader reads CSV text from r.
func ParseReader(r io.Reader, settings config.ImportSettings) (records.Batch, error) {
	decoded, err := decodingReader(bufio.NewReader(r), settings.Encoding)
	if err != nil {
		return records.Batch{}, err
	}

	csvReader := csv.NewReader(decoded)
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return records.Batch{}, fmt.Errorf("failed to read CSV: %w", err)
	}

	return xlsxparser.BuildBatch(allRows), nil
}

// decodingReader wraps r so that it yields UTF-8.
func decodingReader(r io.Reader, encodingName string) (io.Reader, error) {
	switch strings.ToUpper(encodingName) {
	case "", "UTF-8", "UTF8":
		// Strips a leading BOM if present.
		return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())), nil
	case "GBK":
		return transform.NewReader(r, simplifiedchinese.GBK.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("unsupported input encoding %q", encodingName)
	}
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.ImportSettings) {
	if settings.Delimiter != "" {
		reader.Comma = settings.DelimiterRune()
	}

	// Allow variable number of fields per row.
	reader.FieldsPerRecord = -1

	// Allow lazy quotes (quotes that don't follow strict CSV rules).
	reader.LazyQuotes = true
}
