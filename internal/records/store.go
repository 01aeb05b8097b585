// =============================================================================
// Visitor Export - Record Store
// =============================================================================
//
// The record store holds the ordered list of canonical visitor records that
// will be previewed and exported.
//
// PRODUCT RULE:
//   - ImportBatch REPLACES the whole list (a new spreadsheet is the new list).
//   - AddOne APPENDS a single record (manual additions extend the list).
//   There is no edit or delete.
//
// FAILURE MODEL:
//   A failed operation never mutates the store.
//
// =============================================================================

package records

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ginjaninja78/visitor-export/internal/normalizer"
	"github.com/ginjaninja78/visitor-export/internal/types"
)

// =============================================================================
// INPUT SHAPES
// =============================================================================

// Column labels a spreadsheet must carry.
const (
	ColumnName  = "访客姓名"
	ColumnPhone = "手机号"
	ColumnID    = "证件号码"
	ColumnPlate = "车辆号码"
)

// RequiredColumns lists the import columns in reporting order.
var RequiredColumns = []string{ColumnName, ColumnPhone, ColumnID, ColumnPlate}

// RawRow maps a column label to its cell text.
// A missing key reads as the empty string.
type RawRow map[string]string

// Batch is a parsed sheet: its header labels and data rows.
type Batch struct {
	Columns []string
	Rows    []RawRow
}

// ManualEntry is a single visitor typed in by the operator.
type ManualEntry struct {
	Name  string
	Phone string
	ID    string
	Plate string
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrEmptyBatch is returned when a sheet has the right columns but no rows.
var ErrEmptyBatch = errors.New("spreadsheet contains no visitor rows")

// MissingColumnsError names the required columns absent from a batch.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("spreadsheet is missing required columns: %s", strings.Join(e.Columns, ", "))
}

// MissingFieldsError names the required fields left empty on a manual entry.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("required fields are empty: %s", strings.Join(e.Fields, ", "))
}

// =============================================================================
// STORE
// =============================================================================

// Store is the ordered collection of canonical visitor records.
// It is safe for use by multiple goroutines.
type Store struct {
	mu      sync.Mutex
	records []types.VisitorRecord
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// ImportBatch normalizes every row of batch and replaces the store contents
// with the result. It returns the number of records inserted.
func (s *Store) ImportBatch(batch Batch) (int, error) {
	if missing := missingColumns(batch.Columns); len(missing) > 0 {
		return 0, &MissingColumnsError{Columns: missing}
	}
	if len(batch.Rows) == 0 {
		return 0, ErrEmptyBatch
	}

	imported := make([]types.VisitorRecord, 0, len(batch.Rows))
	for _, row := range batch.Rows {
		imported = append(imported, fromRow(row))
	}

	s.mu.Lock()
	s.records = imported
	s.mu.Unlock()

	return len(imported), nil
}

// AddOne validates and normalizes a manual entry and appends it.
func (s *Store) AddOne(entry ManualEntry) (types.VisitorRecord, error) {
	name := strings.TrimSpace(entry.Name)
	phone := strings.TrimSpace(entry.Phone)
	id := strings.TrimSpace(entry.ID)

	var missing []string
	if name == "" {
		missing = append(missing, ColumnName)
	}
	if phone == "" {
		missing = append(missing, ColumnPhone)
	}
	if id == "" {
		missing = append(missing, ColumnID)
	}
	if len(missing) > 0 {
		return types.VisitorRecord{}, &MissingFieldsError{Fields: missing}
	}

	record := types.VisitorRecord{
		Name:     name,
		Phone:    normalizer.Phone(phone),
		IDNumber: normalizer.ID(id),
		Plate:    normalizer.Plate(entry.Plate),
	}

	s.mu.Lock()
	s.records = append(s.records, record)
	s.mu.Unlock()

	return record, nil
}

// Snapshot returns a copy of the records in insertion order.
func (s *Store) Snapshot() []types.VisitorRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.VisitorRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// =============================================================================
// HELPERS
// =============================================================================

func missingColumns(columns []string) []string {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[strings.TrimSpace(c)] = true
	}

	var missing []string
	for _, required := range RequiredColumns {
		if !present[required] {
			missing = append(missing, required)
		}
	}
	return missing
}

// fromRow builds a record from a spreadsheet row. Names are kept verbatim.
func fromRow(row RawRow) types.VisitorRecord {
	return types.VisitorRecord{
		Name:     row[ColumnName],
		Phone:    normalizer.Phone(row[ColumnPhone]),
		IDNumber: normalizer.ID(row[ColumnID]),
		Plate:    normalizer.Plate(row[ColumnPlate]),
	}
}
