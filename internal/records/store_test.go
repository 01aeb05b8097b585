package records

import (
	"errors"
	"testing"

	"github.com/ginjaninja78/visitor-export/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeRowBatch() Batch {
	return Batch{
		Columns: []string{ColumnName, ColumnPhone, ColumnID, ColumnPlate},
		Rows: []RawRow{
			{ColumnName: "张三", ColumnPhone: "13800000000", ColumnID: "110101199001011234", ColumnPlate: "粤a 1234"},
			{ColumnName: "李四", ColumnPhone: "13900000000", ColumnID: "E12345678"},
			{ColumnName: "王五", ColumnPhone: "", ColumnID: "310101198001011111", ColumnPlate: "沪B-0001"},
		},
	}
}

func TestImportBatch(t *testing.T) {
	t.Run("replaces prior contents and keeps order", func(t *testing.T) {
		s := NewStore()
		_, err := s.AddOne(ManualEntry{Name: "旧", Phone: "1", ID: "2"})
		require.NoError(t, err)

		n, err := s.ImportBatch(threeRowBatch())
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		snap := s.Snapshot()
		require.Len(t, snap, 3)
		assert.Equal(t, types.VisitorRecord{
			Name: "张三", Phone: "13800000000#", IDNumber: "110101199001011234#", Plate: "粤A1234",
		}, snap[0])
		assert.Equal(t, "李四", snap[1].Name)
		assert.Equal(t, "", snap[1].Plate)
		assert.Equal(t, "王五", snap[2].Name)
		assert.Equal(t, "", snap[2].Phone)
		assert.Equal(t, "沪B0001", snap[2].Plate)
	})

	t.Run("column order does not matter", func(t *testing.T) {
		s := NewStore()
		batch := threeRowBatch()
		batch.Columns = []string{ColumnPlate, "备注", ColumnID, ColumnName, ColumnPhone}

		n, err := s.ImportBatch(batch)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("missing column names exactly that column", func(t *testing.T) {
		s := NewStore()
		_, err := s.AddOne(ManualEntry{Name: "保留", Phone: "1", ID: "2"})
		require.NoError(t, err)

		batch := threeRowBatch()
		batch.Columns = []string{ColumnName, ColumnID, ColumnPlate}

		_, err = s.ImportBatch(batch)
		var missing *MissingColumnsError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, []string{ColumnPhone}, missing.Columns)

		snap := s.Snapshot()
		require.Len(t, snap, 1)
		assert.Equal(t, "保留", snap[0].Name)
	})

	t.Run("several missing columns in required order", func(t *testing.T) {
		_, err := NewStore().ImportBatch(Batch{Columns: []string{ColumnID}})
		var missing *MissingColumnsError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, []string{ColumnName, ColumnPhone, ColumnPlate}, missing.Columns)
	})

	t.Run("empty batch keeps prior contents", func(t *testing.T) {
		s := NewStore()
		_, err := s.ImportBatch(threeRowBatch())
		require.NoError(t, err)

		_, err = s.ImportBatch(Batch{Columns: RequiredColumns})
		assert.ErrorIs(t, err, ErrEmptyBatch)
		assert.Equal(t, 3, s.Len())
	})
}

func TestAddOne(t *testing.T) {
	t.Run("empty name fails and does not append", func(t *testing.T) {
		s := NewStore()
		_, err := s.AddOne(ManualEntry{Name: "  ", Phone: "138", ID: "110"})

		var missing *MissingFieldsError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, []string{ColumnName}, missing.Fields)
		assert.Equal(t, 0, s.Len())
	})

	t.Run("names every missing field", func(t *testing.T) {
		_, err := NewStore().AddOne(ManualEntry{Plate: "粤A1"})

		var missing *MissingFieldsError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, []string{ColumnName, ColumnPhone, ColumnID}, missing.Fields)
	})

	t.Run("appends after an import", func(t *testing.T) {
		s := NewStore()
		_, err := s.ImportBatch(threeRowBatch())
		require.NoError(t, err)

		rec, err := s.AddOne(ManualEntry{Name: " 赵六 ", Phone: " 13700000000 ", ID: "P1234567", Plate: "京a·88888"})
		require.NoError(t, err)
		assert.Equal(t, types.VisitorRecord{
			Name: "赵六", Phone: "13700000000#", IDNumber: "P1234567#", Plate: "京A88888",
		}, rec)

		snap := s.Snapshot()
		require.Len(t, snap, 4)
		assert.Equal(t, "张三", snap[0].Name)
		assert.Equal(t, rec, snap[3])
	})

	t.Run("plate is optional", func(t *testing.T) {
		rec, err := NewStore().AddOne(ManualEntry{Name: "a", Phone: "1", ID: "2"})
		require.NoError(t, err)
		assert.Empty(t, rec.Plate)
	})
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore()
	_, err := s.AddOne(ManualEntry{Name: "a", Phone: "1", ID: "2"})
	require.NoError(t, err)

	snap := s.Snapshot()
	snap[0].Name = "changed"

	assert.Equal(t, "a", s.Snapshot()[0].Name)
}
