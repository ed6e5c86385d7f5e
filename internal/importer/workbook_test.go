package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gitlab.com/dirk.krummacker/giftlist-service/internal/apperr"
	"gitlab.com/dirk.krummacker/giftlist-service/internal/model"
)

// buildWorkbook writes a workbook with one sheet per entry of sheets, in the given order, and
// returns its bytes.
func buildWorkbook(t *testing.T, names []string, rows map[string][][]any) []byte {
	f := excelize.NewFile()
	defer f.Close()
	for i, name := range names {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range rows[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			values := row
			require.NoError(t, f.SetSheetRow(name, cell, &values))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// TestWorkbookTable reads back a generated workbook and checks that cell types survive.
func TestWorkbookTable(t *testing.T) {
	data := buildWorkbook(t, []string{"Partner", "Clienti"}, map[string][][]any{
		"Clienti": {
			{"Nome", "Azienda", "CAP", "Grappa", "GLS"},
			{"Mario Rossi", "Rossi Srl", 33100, true, "x"},
			{"Anna Bianchi", "", "34100", false},
		},
	})
	wb, err := OpenWorkbook("clienti.xlsx", data)
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{"Partner", "Clienti"}, wb.SheetNames())
	choice, ok := SelectSheet(wb.SheetNames(), model.Customer)
	assert.True(t, ok)
	assert.Equal(t, "Clienti", choice.Name)

	table, err := wb.Table(choice.Name)
	require.NoError(t, err)
	assert.Equal(t, []string{"Nome", "Azienda", "CAP", "Grappa", "GLS"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Mario Rossi", table.Rows[0][0])
	assert.Equal(t, 33100.0, table.Rows[0][2])
	assert.Equal(t, true, table.Rows[0][3])
	assert.Equal(t, "x", table.Rows[0][4])
	assert.Nil(t, table.Rows[1][1])
	assert.Equal(t, "34100", table.Rows[1][2])
	assert.Equal(t, false, table.Rows[1][3])

	n := Normalize(table)
	require.Len(t, n.Records, 2)
	assert.Equal(t, "33100", n.Records[0].Text(model.PostalCode))
	assert.Equal(t, true, n.Records[0].Fields[model.GiftFlag])
}

// TestWorkbookDates checks that numbers with a date format are read as timestamps and end up in
// the fixed textual layout, while other formatted numbers keep their text.
func TestWorkbookDates(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Clienti"
	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Nome", "Azienda", "Note", "Extra", "Telefono"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Mario Rossi", "Rossi Srl",
		time.Date(2025, 12, 24, 10, 0, 0, 0, time.UTC), 45000.0, 1234.5}))

	dateFormat := "dd/mm/yyyy"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFormat})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "D2", "D2", dateStyle))
	currencyFormat := `#,##0.00 "EUR"`
	currencyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &currencyFormat})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "E2", "E2", currencyStyle))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	wb, err := OpenWorkbook("clienti.xlsx", buf.Bytes())
	require.NoError(t, err)
	defer wb.Close()
	table, err := wb.Table(sheet)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, time.Date(2025, 12, 24, 10, 0, 0, 0, time.UTC), table.Rows[0][2])
	assert.Equal(t, time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC), table.Rows[0][3])
	assert.IsType(t, "", table.Rows[0][4])
	assert.Contains(t, table.Rows[0][4], "EUR")

	n := Normalize(table)
	require.Len(t, n.Records, 1)
	assert.Equal(t, "2025-12-24T10:00:00.000000", n.Records[0].Text(model.Notes))
	assert.Equal(t, "2023-03-15T00:00:00.000000", n.Records[0].Text(model.ExtraGiftNote))
}

func TestIsDateFormat(t *testing.T) {
	tests := map[string]bool{
		"dd/mm/yyyy":              true,
		"[$-410]d mmmm yyyy":      true,
		"hh:mm":                   true,
		"[h]:mm:ss":               true,
		"0.00":                    false,
		"#,##0":                   false,
		`#,##0.00 "EUR"`:          false,
		"[Red]0.00":               false,
		`0" days"`:                false,
		"0.00E+00":                false,
		`[$€-410] #,##0.00;[Red]`: false,
	}
	for code, expected := range tests {
		assert.Equal(t, expected, isDateFormat(code), code)
	}
}

func TestWorkbookEmptySheet(t *testing.T) {
	data := buildWorkbook(t, []string{"Customer"}, nil)
	wb, err := OpenWorkbook("empty.xlsx", data)
	require.NoError(t, err)
	defer wb.Close()
	table, err := wb.Table("Customer")
	assert.NoError(t, err)
	assert.Empty(t, table.Headers)
	assert.Empty(t, table.Rows)
}

// TestOpenWorkbookRejects checks that unusable uploads are import format errors.
func TestOpenWorkbookRejects(t *testing.T) {
	valid := buildWorkbook(t, []string{"Customer"}, nil)
	tests := []struct {
		filename string
		data     []byte
	}{
		{"contacts.csv", []byte("name,company\n")},
		{"contacts.xls", valid},
		{"contacts", valid},
		{"contacts.xlsx", nil},
		{"contacts.xlsx", []byte("this is plain text, not a workbook")},
		{"contacts.xlsx", []byte("PK\x03\x04 truncated")},
	}
	for _, test := range tests {
		_, err := OpenWorkbook(test.filename, test.data)
		assert.Error(t, err, test.filename)
		assert.Equal(t, apperr.ImportFormat, apperr.KindOf(err), test.filename)
	}
}

func TestOpenWorkbookLegacyFormat(t *testing.T) {
	_, err := OpenWorkbook("clienti.xls", buildWorkbook(t, []string{"Customer"}, nil))
	assert.Equal(t, apperr.ImportFormat, apperr.KindOf(err))
	assert.Contains(t, apperr.Message(err), "save the workbook as .xlsx")
}

func TestOpenWorkbookExtensionCase(t *testing.T) {
	wb, err := OpenWorkbook("CLIENTI.XLSX", buildWorkbook(t, []string{"Customer"}, nil))
	require.NoError(t, err)
	assert.NoError(t, wb.Close())
}
