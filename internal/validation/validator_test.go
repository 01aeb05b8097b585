package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/ginjaninja78/visitor-export/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 1, 9, 30, 15, 0, time.Local)

func validMeta() types.SharedMetadata {
	start := time.Date(2024, 6, 2, 8, 0, 0, 0, time.Local)
	return types.SharedMetadata{
		VisitType:    types.VisitBusiness,
		IDType:       types.IDNational,
		ApproverID:   "E001",
		ApproverName: "李四",
		Reason:       "会议",
		Sites:        types.NewSiteSet(types.SiteEast),
		Start:        start,
		End:          start.Add(time.Hour),
	}
}

func validRecords() []types.VisitorRecord {
	return []types.VisitorRecord{
		{Name: "张三", Phone: "13800000000#", IDNumber: "110101199001011234#", Plate: "粤A1234"},
	}
}

func TestValidateExport_OK(t *testing.T) {
	assert.NoError(t, ValidateExport(validMeta(), validRecords(), now))
}

func TestValidateExport_Rules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*types.SharedMetadata, *[]types.VisitorRecord)
		rule    error
		fields  []string
		recordN int
	}{
		{
			name:   "no records",
			mutate: func(_ *types.SharedMetadata, r *[]types.VisitorRecord) { *r = nil },
			rule:   ErrNoRecords,
		},
		{
			name:   "missing approver name",
			mutate: func(m *types.SharedMetadata, _ *[]types.VisitorRecord) { m.ApproverName = " " },
			rule:   ErrMissingMetadata,
			fields: []string{FieldApproverName},
		},
		{
			name: "missing several metadata fields",
			mutate: func(m *types.SharedMetadata, _ *[]types.VisitorRecord) {
				m.ApproverID = ""
				m.Reason = ""
				m.VisitType = ""
				m.IDType = ""
			},
			rule:   ErrMissingMetadata,
			fields: []string{FieldApproverID, FieldReason, FieldVisitType, FieldIDType},
		},
		{
			name:   "no site",
			mutate: func(m *types.SharedMetadata, _ *[]types.VisitorRecord) { m.Sites = types.NewSiteSet() },
			rule:   ErrMissingMetadata,
			fields: []string{FieldSites},
		},
		{
			name:   "nil site set",
			mutate: func(m *types.SharedMetadata, _ *[]types.VisitorRecord) { m.Sites = nil },
			rule:   ErrMissingMetadata,
			fields: []string{FieldSites},
		},
		{
			name: "start and end not given",
			mutate: func(m *types.SharedMetadata, _ *[]types.VisitorRecord) {
				m.Start = time.Time{}
				m.End = time.Time{}
			},
			rule:   ErrMissingMetadata,
			fields: []string{FieldStart, FieldEnd},
		},
		{
			name:   "end not given",
			mutate: func(m *types.SharedMetadata, _ *[]types.VisitorRecord) { m.End = time.Time{} },
			rule:   ErrMissingMetadata,
			fields: []string{FieldEnd},
		},
		{
			name: "start in the past",
			mutate: func(m *types.SharedMetadata, _ *[]types.VisitorRecord) {
				m.Start = now.Add(-2 * time.Minute)
			},
			rule:   ErrStartInPast,
			fields: []string{FieldStart},
		},
		{
			name: "end equals start",
			mutate: func(m *types.SharedMetadata, _ *[]types.VisitorRecord) {
				m.End = m.Start
			},
			rule:   ErrEndNotAfterStart,
			fields: []string{FieldEnd},
		},
		{
			name: "end before start",
			mutate: func(m *types.SharedMetadata, _ *[]types.VisitorRecord) {
				m.End = m.Start.Add(-time.Hour)
			},
			rule:   ErrEndNotAfterStart,
			fields: []string{FieldEnd},
		},
		{
			name: "end within the same minute as start",
			mutate: func(m *types.SharedMetadata, _ *[]types.VisitorRecord) {
				m.End = m.Start.Add(30 * time.Second)
			},
			rule:   ErrEndNotAfterStart,
			fields: []string{FieldEnd},
		},
		{
			name: "imported record without phone",
			mutate: func(_ *types.SharedMetadata, r *[]types.VisitorRecord) {
				*r = append(*r, types.VisitorRecord{Name: "王五", IDNumber: "1#"})
			},
			rule:    ErrIncompleteRecord,
			fields:  []string{FieldPhone},
			recordN: 2,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			meta := validMeta()
			recs := validRecords()
			tc.mutate(&meta, &recs)

			err := ValidateExport(meta, recs, now)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.rule), "got %v", err)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tc.fields, vErr.Fields)
			assert.Equal(t, tc.recordN, vErr.RecordIndex)
		})
	}
}

func TestValidateExport_FirstRuleWins(t *testing.T) {
	meta := validMeta()
	meta.Reason = ""
	meta.Start = now.Add(-time.Hour)
	meta.End = meta.Start

	err := ValidateExport(meta, nil, now)
	assert.ErrorIs(t, err, ErrNoRecords)

	err = ValidateExport(meta, validRecords(), now)
	assert.ErrorIs(t, err, ErrMissingMetadata)

	meta.Reason = "会议"
	err = ValidateExport(meta, validRecords(), now)
	assert.ErrorIs(t, err, ErrStartInPast)
}

func TestValidateExport_StartInCurrentMinute(t *testing.T) {
	meta := validMeta()
	meta.Start = TruncateToMinute(now)
	meta.End = meta.Start.Add(time.Minute)

	assert.ErrorIs(t, ValidateExport(meta, validRecords(), now), ErrStartInPast)
	assert.NoError(t, ValidateExport(meta, validRecords(), TruncateToMinute(now)))
}

func TestValidateExport_SecondsAreIgnored(t *testing.T) {
	meta := validMeta()
	meta.Start = TruncateToMinute(now).Add(time.Minute + 59*time.Second)

	assert.NoError(t, ValidateExport(meta, validRecords(), now))
}

func TestValidatorUsesClock(t *testing.T) {
	v := NewValidatorWithClock(func() time.Time { return now.Add(48 * time.Hour) })
	assert.ErrorIs(t, v.Validate(validMeta(), validRecords()), ErrStartInPast)
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Rule: ErrIncompleteRecord, Fields: []string{FieldName}, RecordIndex: 3}
	assert.Equal(t, "visitor record is missing a required value (record 3) [name]", err.Error())
}
