package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWorkbook_RoundTrip(t *testing.T) {
	wb, err := NewWorkbook()
	require.NoError(t, err)
	defer wb.Close()

	require.NoError(t, wb.AddSheet("Summary", []string{"Employee", "Present", "Net"}, [][]interface{}{
		{"Jane Doe", 18, "3272.73"},
		{"John Roe", 20, ""},
	}))
	require.NoError(t, wb.AddSheet("Holidays", []string{"Date", "Label"}, [][]interface{}{
		{"2024-10-15", "Founders Day"},
	}))

	data, err := wb.Bytes()
	require.NoError(t, err)

	rows, err := ReadFirstSheet(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Employee", "Present", "Net"}, rows[0])
	assert.Equal(t, []string{"Jane Doe", "18", "3272.73"}, rows[1])
	assert.Equal(t, "John Roe", rows[2][0])

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Summary", "Holidays"}, f.GetSheetList())
	label, err := f.GetCellValue("Holidays", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Founders Day", label)
}

func TestReadFirstSheet_DateCells(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "date"))
	require.NoError(t, f.SetCellValue(sheet, "A2", time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, f.SetCellValue(sheet, "A3", "2024-10-02"))
	style, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "A2", "A2", style))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := ReadFirstSheet(buf)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "2024-10-01", DateValue(rows[1][0]))
	assert.Equal(t, "2024-10-02", DateValue(rows[2][0]))
}

func TestDateValue(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "45566", want: "2024-10-01"},
		{raw: "45566.75", want: "2024-10-01"},
		{raw: "2024-10-01", want: "2024-10-01"},
		{raw: "10-01-24", want: "10-01-24"},
		{raw: "0", want: "0"},
		{raw: "99999999", want: "99999999"},
		{raw: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, DateValue(tt.raw))
		})
	}
}

func TestReadFirstSheet_Invalid(t *testing.T) {
	_, err := ReadFirstSheet(bytes.NewReader([]byte("not a workbook")))
	assert.Error(t, err)
}
