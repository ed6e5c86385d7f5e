package importer

import (
	"bytes"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"

	"gitlab.com/dirk.krummacker/giftlist-service/internal/apperr"
)

// allowedExtensions are the workbook formats excelize can read.
var allowedExtensions = []string{".xlsx", ".xlsm", ".xltx", ".xltm"}

// Workbook is an uploaded spreadsheet opened for reading.
type Workbook struct {
	file     *excelize.File
	date1904 bool
}

// OpenWorkbook checks the file name and content of an upload and opens it. Every failure is an
// ImportFormat error.
func OpenWorkbook(filename string, data []byte) (*Workbook, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".xls" {
		return nil, apperr.ImportFormatf("the legacy .xls format cannot be read, save the workbook as .xlsx and upload it again")
	}
	if !slices.Contains(allowedExtensions, ext) {
		return nil, apperr.ImportFormatf("unsupported file format %q, use one of %s",
			ext, strings.Join(allowedExtensions, ", "))
	}
	if len(data) == 0 {
		return nil, apperr.ImportFormatf("the uploaded file is empty")
	}
	if !isZip(mimetype.Detect(data)) {
		return nil, apperr.ImportFormatf("the uploaded file is not a spreadsheet")
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperr.WrapImportFormat(err, "the spreadsheet cannot be read")
	}
	wb := &Workbook{file: f}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}
	return wb, nil
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// SheetNames returns the sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// Table reads a sheet. The first row holds the headers; every following row is data.
func (w *Workbook) Table(sheet string) (Table, error) {
	rows, err := w.file.GetRows(sheet)
	if err != nil {
		return Table{}, apperr.WrapImportFormat(err, "the sheet "+strconv.Quote(sheet)+" cannot be read")
	}
	if len(rows) == 0 {
		return Table{}, nil
	}
	t := Table{Headers: rows[0]}
	for r, row := range rows[1:] {
		values := make([]any, len(row))
		for c, formatted := range row {
			values[c] = w.cellValue(sheet, c+1, r+2, formatted)
		}
		t.Rows = append(t.Rows, values)
	}
	return t, nil
}

// cellValue recovers the type of a cell: booleans become bool, plain numbers float64 and numbers
// with a date format time.Time. Numbers shown through any other format (currencies,
// percentages) keep their formatted text.
func (w *Workbook) cellValue(sheet string, col, row int, formatted string) any {
	if formatted == "" {
		return nil
	}
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return formatted
	}
	typ, err := w.file.GetCellType(sheet, name)
	if err != nil {
		return formatted
	}
	switch typ {
	case excelize.CellTypeBool:
		raw, err := w.file.GetCellValue(sheet, name, excelize.Options{RawCellValue: true})
		if err != nil {
			return formatted
		}
		return raw == "1"
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		raw, err := w.file.GetCellValue(sheet, name, excelize.Options{RawCellValue: true})
		if err != nil {
			return formatted
		}
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return formatted
		}
		if raw == formatted {
			return n
		}
		if w.isDateCell(sheet, name) {
			if t, err := excelize.ExcelDateToTime(n, w.date1904); err == nil {
				return t
			}
		}
	}
	return formatted
}

// builtInDateFormats are the ids of the built-in number formats that show a date or a time.
var builtInDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	45: true, 46: true, 47: true,
}

// isDateCell reports whether the style of a cell formats its number as a date or a time.
func (w *Workbook) isDateCell(sheet, cell string) bool {
	idx, err := w.file.GetCellStyle(sheet, cell)
	if err != nil {
		return false
	}
	style, err := w.file.GetStyle(idx)
	if err != nil || style == nil {
		return false
	}
	if builtInDateFormats[style.NumFmt] {
		return true
	}
	return style.CustomNumFmt != nil && isDateFormat(*style.CustomNumFmt)
}

// isDateFormat reports whether a custom number format code contains date or time tokens outside
// of quoted literals and bracketed sections such as colors or locales.
func isDateFormat(code string) bool {
	quoted, bracketed := false, false
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case ch == '"':
			quoted = !quoted
		case quoted:
		case ch == '\\':
			i++
		case ch == '[':
			bracketed = true
		case ch == ']':
			bracketed = false
		case bracketed:
		default:
			switch ch | 0x20 {
			case 'd', 'm', 'y', 'h', 's':
				return true
			}
		}
	}
	return false
}

func isZip(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is("application/zip") {
			return true
		}
	}
	return false
}
