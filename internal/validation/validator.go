// =============================================================================
// Visitor Export - Export Validator
// =============================================================================
//
// This module checks the shared metadata and the record set against the
// business rules before anything is written. Validation stops at the first
// violated rule; an export never proceeds while any rule is violated.
//
// RULES (checked in this order):
//   1. The record set is not empty.
//   2. Approver id, approver name, reason, visit type and id type are filled
//      in and at least one site is selected.
//   3. The visit starts now or later.
//   4. The visit ends after it starts.
//   5. Every record carries a name, phone and id number.
//
// Rule 5 repeats what the record store guarantees for manual entries; it
// catches spreadsheet rows with blank required cells.
//
// Start and end are truncated to the minute, the precision written to the
// file. The current time is not: a start in the current minute is already in
// the past once that minute has begun.
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ginjaninja78/visitor-export/internal/types"
)

// =============================================================================
// VALIDATION ERRORS
// =============================================================================

// Sentinel errors, one per rule. Use errors.Is on the returned error.
var (
	ErrNoRecords        = errors.New("visitor list is empty: import or add visitors first")
	ErrMissingMetadata  = errors.New("fill in all required fields and select at least one site")
	ErrStartInPast      = errors.New("visit start time cannot be earlier than the current time")
	ErrEndNotAfterStart = errors.New("visit end time must be after the start time")
	ErrIncompleteRecord = errors.New("visitor record is missing a required value")
)

// Field names reported in ValidationError.Fields.
const (
	FieldApproverID   = "approver_id"
	FieldApproverName = "approver_name"
	FieldReason       = "reason"
	FieldVisitType    = "visit_type"
	FieldIDType       = "id_type"
	FieldSites        = "sites"
	FieldStart        = "start"
	FieldEnd          = "end"
	FieldName         = "name"
	FieldPhone        = "phone"
	FieldIDNumber     = "id_number"
)

// ValidationError describes the first rule an export attempt violated.
type ValidationError struct {
	// Rule is the sentinel error for the violated rule.
	Rule error

	// Fields lists the offending fields, if the rule concerns fields.
	Fields []string

	// RecordIndex is the 1-based record position for record-level rules.
	RecordIndex int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Rule.Error())
	if e.RecordIndex > 0 {
		fmt.Fprintf(&b, " (record %d)", e.RecordIndex)
	}
	if len(e.Fields) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(e.Fields, ", "))
	}
	return b.String()
}

// Unwrap exposes the sentinel for errors.Is.
func (e *ValidationError) Unwrap() error {
	return e.Rule
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator checks export attempts against a clock.
type Validator struct {
	now func() time.Time
}

// NewValidator creates a Validator using the wall clock.
func NewValidator() *Validator {
	return &Validator{now: time.Now}
}

// NewValidatorWithClock creates a Validator with a custom clock.
func NewValidatorWithClock(now func() time.Time) *Validator {
	return &Validator{now: now}
}

// Validate runs ValidateExport at the validator's current time.
func (v *Validator) Validate(meta types.SharedMetadata, records []types.VisitorRecord) error {
	return ValidateExport(meta, records, v.now())
}

// ValidateExport returns nil if an export of records with meta may proceed at
// time now, or a *ValidationError for the first violated rule.
func ValidateExport(meta types.SharedMetadata, records []types.VisitorRecord, now time.Time) error {
	if len(records) == 0 {
		return &ValidationError{Rule: ErrNoRecords}
	}

	if missing := missingMetadata(meta); len(missing) > 0 {
		return &ValidationError{Rule: ErrMissingMetadata, Fields: missing}
	}

	start := TruncateToMinute(meta.Start)
	end := TruncateToMinute(meta.End)

	if start.Before(now) {
		return &ValidationError{Rule: ErrStartInPast, Fields: []string{FieldStart}}
	}
	if !end.After(start) {
		return &ValidationError{Rule: ErrEndNotAfterStart, Fields: []string{FieldEnd}}
	}

	for i, r := range records {
		if missing := missingRecordFields(r); len(missing) > 0 {
			return &ValidationError{Rule: ErrIncompleteRecord, Fields: missing, RecordIndex: i + 1}
		}
	}

	return nil
}

// TruncateToMinute drops seconds and sub-second parts in t's own location.
func TruncateToMinute(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
}

// =============================================================================
// FIELD CHECKS
// =============================================================================

func missingMetadata(meta types.SharedMetadata) []string {
	var missing []string

	check := func(value, field string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}

	check(meta.ApproverID, FieldApproverID)
	check(meta.ApproverName, FieldApproverName)
	check(meta.Reason, FieldReason)
	check(string(meta.VisitType), FieldVisitType)
	check(string(meta.IDType), FieldIDType)

	if len(meta.Sites.Ordered()) == 0 {
		missing = append(missing, FieldSites)
	}
	if meta.Start.IsZero() {
		missing = append(missing, FieldStart)
	}
	if meta.End.IsZero() {
		missing = append(missing, FieldEnd)
	}

	return missing
}

func missingRecordFields(r types.VisitorRecord) []string {
	var missing []string
	if strings.TrimSpace(r.Name) == "" {
		missing = append(missing, FieldName)
	}
	if r.Phone == "" {
		missing = append(missing, FieldPhone)
	}
	if r.IDNumber == "" {
		missing = append(missing, FieldIDNumber)
	}
	return missing
}
