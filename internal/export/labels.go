// Package export renders the courier's shipping list as a spreadsheet.
package export

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"gitlab.com/dirk.krummacker/giftlist-service/internal/model"
)

// SheetName is the name of the only sheet of the shipping workbook.
const SheetName = "Spedizioni GLS"

// FileName is the suggested download name of the shipping workbook.
const FileName = "Spedizioni_GLS.xlsx"

// column is one column of the courier's import format.
type column struct {
	header string
	width  float64
	value  func(c *model.Contact) string
}

var columns = []column{
	{"NOME DESTINATARIO", 30, recipient},
	{"INDIRIZZO", 40, func(c *model.Contact) string {
		return strings.TrimSpace(c.Street + " " + c.HouseNumber)
	}},
	{"LOCALITA'", 20, func(c *model.Contact) string { return c.Locality }},
	{"PROV", 5, func(c *model.Contact) string { return c.Province }},
	{"CAP", 10, func(c *model.Contact) string { return c.PostalCode }},
	{"TIPO MERCE", 20, func(*model.Contact) string { return "OMAGGIO NATALIZIO" }},
	{"COLLI", 5, func(*model.Contact) string { return "1" }},
	{"NOTE SPEDIZIONE", 30, func(c *model.Contact) string { return c.Notes }},
	{"RIFERIMENTO MITTENTE", 25, func(c *model.Contact) string { return c.Name }},
	{"TELEFONO", 15, func(c *model.Contact) string { return c.Phone }},
}

// recipient prefers the company over the person.
func recipient(c *model.Contact) string {
	if c.Company != "" {
		return c.Company
	}
	return c.Name
}

// Filter selects the contacts that are shipped. The zero value selects every contact.
type Filter struct {
	Category model.Category
	Assignee string
}

// Match reports whether a contact passes the filter.
func (f Filter) Match(c *model.Contact) bool {
	if f.Category != "" && c.Category != f.Category {
		return false
	}
	if f.Assignee != "" && !strings.EqualFold(strings.TrimSpace(c.DeliveryAssignee), strings.TrimSpace(f.Assignee)) {
		return false
	}
	return true
}

// ShippingLabels writes one row per contact into a new workbook and returns its bytes.
func ShippingLabels(contacts []model.Contact) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, errors.Wrap(err, "rename sheet")
	}
	headers := make([]any, len(columns))
	for i, col := range columns {
		headers[i] = col.header
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, errors.Wrap(err, "column name")
		}
		if err := f.SetColWidth(SheetName, name, name, col.width); err != nil {
			return nil, errors.Wrap(err, "set column width")
		}
	}
	if err := f.SetSheetRow(SheetName, "A1", &headers); err != nil {
		return nil, errors.Wrap(err, "write header")
	}
	for r := range contacts {
		row := make([]any, len(columns))
		for i, col := range columns {
			row[i] = col.value(&contacts[r])
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, errors.Wrap(err, "cell name")
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, errors.Wrap(err, "write row")
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "write workbook")
	}
	return buf.Bytes(), nil
}
