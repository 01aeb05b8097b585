package xlsxparser

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/visitor-export/internal/records"
)

func mkXLSX(t *testing.T, sheet string, rows [][]any) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	if sheet != "" {
		require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))
	}
	name := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(name, cell, v))
		}
	}
	return f
}

func visitorRows() [][]any {
	return [][]any{
		{"访客姓名", " 手机号 ", "证件号码", "车辆号码"},
		{"张三", 13800000000, "110101199001011234", "粤a 1234"},
		{},
		{"李四", "13900000000", "E12345678"},
	}
}

func TestParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visitors.xlsx")
	f := mkXLSX(t, "", visitorRows())
	require.NoError(t, f.SaveAs(path))

	batch, err := Parse(path, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"访客姓名", "手机号", "证件号码", "车辆号码"}, batch.Columns)
	require.Len(t, batch.Rows, 2)
	assert.Equal(t, records.RawRow{
		"访客姓名": "张三", "手机号": "13800000000", "证件号码": "110101199001011234", "车辆号码": "粤a 1234",
	}, batch.Rows[0])
	assert.Equal(t, "", batch.Rows[1]["车辆号码"])
}

func TestParseReader(t *testing.T) {
	f := mkXLSX(t, "访客", visitorRows())
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	t.Run("named sheet", func(t *testing.T) {
		batch, err := ParseReader(bytes.NewReader(buf.Bytes()), "访客")
		require.NoError(t, err)
		assert.Len(t, batch.Rows, 2)
	})

	t.Run("unknown sheet", func(t *testing.T) {
		_, err := ParseReader(bytes.NewReader(buf.Bytes()), "Sheet9")
		assert.Error(t, err)
	})
}

func TestParseNotASpreadsheet(t *testing.T) {
	_, err := ParseReader(bytes.NewReader([]byte("not a zip")), "")
	assert.Error(t, err)
}

func TestBuildBatch(t *testing.T) {
	t.Run("leading blank rows and duplicate labels", func(t *testing.T) {
		batch := BuildBatch([][]string{
			{"", ""},
			{"访客姓名", "访客姓名", "手机号"},
			{"a", "b", "1"},
		})
		assert.Equal(t, []string{"访客姓名", "访客姓名", "手机号"}, batch.Columns)
		require.Len(t, batch.Rows, 1)
		assert.Equal(t, "a", batch.Rows[0]["访客姓名"])
	})

	t.Run("empty sheet", func(t *testing.T) {
		batch := BuildBatch(nil)
		assert.Empty(t, batch.Columns)
		assert.Empty(t, batch.Rows)
	})

	t.Run("feeds the record store", func(t *testing.T) {
		batch := BuildBatch([][]string{
			{"访客姓名", "手机号", "证件号码", "车辆号码"},
			{"张三", "13800000000", "110101199001011234", "粤a 1234"},
		})
		n, err := records.NewStore().ImportBatch(batch)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}
