package roster

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	cells := map[string]string{
		"A1": "UID", "B1": "Student Name", "C1": "Roll  Number",
		"A2": "S-1", "B2": "Doe, Jane", "C2": " 12 ",
		"A4": "S-1", "B4": "Ann",
	}
	for cell, v := range cells {
		require.NoError(t, f.SetCellValue(sheet, cell, v))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, err := ReadXLSX(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 3, "blank row 3 must be dropped")

	records := FromRows(rows)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"uid", "student_name", "roll_number"}, records[0].Keys())
	assert.Equal(t, "Doe, Jane", records[0].Value("student_name"))
	assert.Equal(t, "12", records[0].Value("roll_number"))

	_, ok := records[1].Get("roll_number")
	assert.False(t, ok)
}

func TestReadXLSX_NotAWorkbook(t *testing.T) {
	_, err := ReadXLSX(bytes.NewReader([]byte("uid,name\n1,Ann\n")))
	assert.Error(t, err)
}

func TestIsXLSX(t *testing.T) {
	assert.True(t, IsXLSX("students.XLSX"))
	assert.True(t, IsXLSX("book.xlsm"))
	assert.False(t, IsXLSX("students.csv"))
	assert.False(t, IsXLSX("xlsx"))
}
