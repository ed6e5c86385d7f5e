package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gitlab.com/dirk.krummacker/giftlist-service/internal/model"
)

// TestNormalizeLabeled maps a sheet with Italian headers and checks the typed values of the
// accepted rows.
func TestNormalizeLabeled(t *testing.T) {
	table := Table{
		Headers: []string{"Nome", "Azienda", "Via", "CAP", "Città", "Grappa", "GLS", "Data di nascita"},
		Rows: [][]any{
			{"Mario Rossi", "Rossi Srl", "Via Roma 1", 33100.0, "Udine", "Sì", "x", "1970-01-01"},
			{"Anna Bianchi", nil, "Via Verdi", "34100", "Trieste", "0", nil},
		},
	}
	n := Normalize(table)
	assert.False(t, n.Positional)
	assert.Equal(t, 0, n.Dropped)
	assert.Equal(t, []string{"data_di_nascita"}, n.Unmapped)
	assert.Len(t, n.Records, 2)

	first := n.Records[0]
	assert.Equal(t, 2, first.Line)
	assert.Equal(t, "Mario Rossi", first.Text(model.Name))
	assert.Equal(t, "Rossi Srl", first.Text(model.Company))
	assert.Equal(t, "33100", first.Text(model.PostalCode))
	assert.Equal(t, true, first.Fields[model.GiftFlag])
	assert.Equal(t, true, first.Fields[model.CourierFlag])
	assert.Equal(t, "1970-01-01", first.Extra["data_di_nascita"])

	second := n.Records[1]
	assert.Equal(t, 3, second.Line)
	assert.Equal(t, "", second.Text(model.Company))
	assert.Equal(t, false, second.Fields[model.GiftFlag])
	_, present := second.Fields[model.CourierFlag]
	assert.False(t, present, "blank cells are not copied")
}

// TestNormalizePositional checks that generic lettered headers are mapped in column order.
func TestNormalizePositional(t *testing.T) {
	table := Table{
		Headers: []string{"A", "B", "C", "D", "E", "F"},
		Rows: [][]any{
			{"Mario Rossi", "Rossi Srl", "Via Roma", "1", "33100", "Udine"},
		},
	}
	n := Normalize(table)
	assert.True(t, n.Positional)
	assert.Len(t, n.Records, 1)
	rec := n.Records[0]
	assert.Equal(t, "Mario Rossi", rec.Text(model.Name))
	assert.Equal(t, "Rossi Srl", rec.Text(model.Company))
	assert.Equal(t, "Via Roma", rec.Text(model.Street))
	assert.Equal(t, "1", rec.Text(model.HouseNumber))
	assert.Equal(t, "33100", rec.Text(model.PostalCode))
	assert.Equal(t, "Udine", rec.Text(model.Locality))
	assert.Empty(t, n.Unmapped)
}

// TestNormalizeGate checks that rows without a name or company, and rows with fewer than three
// populated fields counting the category, are dropped and counted.
func TestNormalizeGate(t *testing.T) {
	table := Table{
		Headers: []string{"Nome", "Azienda", "Città", "Telefono", "Grappa"},
		Rows: [][]any{
			{nil, nil, "Udine", "0432 123456", "Sì"},       // no identity
			{"Mario Rossi", nil, "Udine"},                  // name and one more field
			{"Mario Rossi", nil, nil, nil, "no"},           // a false flag is not a value
			{"  ", "   ", "Udine", "0432 1", "x"},          // blank identity
			{nil, "Rossi Srl", "Udine", "0432 123456"},     // company only
			{"Anna Bianchi", "Bianchi Spa", "Trieste"},     // name, company and city
			{},                                             // empty row
			{"Luca Verdi", "Verdi Snc", "Gorizia", "", ""}, // trailing blanks
			{"Paolo Neri", "Neri Srl"},                     // name and company
			{"Totale"},                                     // a single value
		},
	}
	n := Normalize(table)
	assert.Equal(t, 5, n.Dropped)
	lines := make([]int, len(n.Records))
	for i, rec := range n.Records {
		lines[i] = rec.Line
	}
	assert.Equal(t, []int{3, 6, 7, 9, 10}, lines)
	assert.Equal(t, "Udine", n.Records[0].Text(model.Locality))
	assert.Equal(t, "", n.Records[1].Text(model.Name))
	assert.Equal(t, "Rossi Srl", n.Records[1].Text(model.Company))
	assert.Equal(t, "Neri Srl", n.Records[4].Text(model.Company))
}

// TestNormalizeTwoColumnSheet checks that a plain list of names and companies is imported.
func TestNormalizeTwoColumnSheet(t *testing.T) {
	tests := []Table{
		{Headers: []string{"Nome", "Azienda"}, Rows: [][]any{{"Mario Rossi", "Rossi Srl"}}},
		{Headers: []string{"Nome", "Telefono"}, Rows: [][]any{{"Mario Rossi", "0432 123456"}}},
	}
	for _, table := range tests {
		n := Normalize(table)
		assert.Equal(t, 0, n.Dropped, "headers: %v", table.Headers)
		assert.Len(t, n.Records, 1, "headers: %v", table.Headers)
	}
}

// TestNormalizeExtraColumnsCount checks that unmapped cells count towards the gate.
func TestNormalizeExtraColumnsCount(t *testing.T) {
	table := Table{
		Headers: []string{"Nome", "Codice fiscale", "Data di nascita"},
		Rows:    [][]any{{"Mario Rossi", "RSSMRA70A01L483X", "1970-01-01"}},
	}
	n := Normalize(table)
	assert.Len(t, n.Records, 1)
	assert.Equal(t, []string{"codice_fiscale", "data_di_nascita"}, n.Unmapped)
}

func TestNormalizeEmptyTable(t *testing.T) {
	n := Normalize(Table{})
	assert.Empty(t, n.Records)
	assert.Equal(t, 0, n.Dropped)
	assert.False(t, n.Positional)
}
