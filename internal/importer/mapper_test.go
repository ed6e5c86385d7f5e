package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gitlab.com/dirk.krummacker/giftlist-service/internal/model"
)

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, "via piazza", NormalizeLabel(" Via/Piazza "))
	assert.Equal(t, "n civico", NormalizeLabel("N. Civico"))
	assert.Equal(t, "nome persona", NormalizeLabel("NOME_PERSONA"))
	assert.Equal(t, "e mail", NormalizeLabel("E-Mail"))
	assert.Equal(t, "", NormalizeLabel("   "))
}

func TestMapLabel(t *testing.T) {
	tests := []struct {
		label    string
		expected model.Field
	}{
		{"Nome", model.Name},
		{"NOMINATIVO", model.Name},
		{"Ragione Sociale", model.Company},
		{"Società cliente", model.Company},
		{"Via/Piazza", model.Street},
		{"N. Civico", model.HouseNumber},
		{"C.A.P.", model.PostalCode},
		{"Città", model.Locality},
		{"Prov.", model.Province},
		{"Cellulare", model.Phone},
		{"E-Mail", model.Email},
		{"Note", model.Notes},
		{"Tipologia", model.PartnerSubtype},
		{"Grappa", model.GiftFlag},
		{"Extra/Altro", model.ExtraGiftNote},
		{"Consegna/Spedizione", model.DeliveryAssignee},
		{"GLS", model.CourierFlag},
		{"Spedizione GLS", model.CourierFlag},
		// substring matches in both directions
		{"Telefono ufficio", model.Phone},
		{"Cell. ufficio", model.Phone},
		{"Ragione", model.Company},
	}
	for _, test := range tests {
		m := MapLabel(test.label)
		assert.True(t, m.Known(), "label: "+test.label)
		assert.Equal(t, test.expected, m.Field, "label: "+test.label)
	}
}

// TestMapLabelUnknown checks that unknown labels keep an ad-hoc name and blank labels map to
// nothing at all.
func TestMapLabelUnknown(t *testing.T) {
	m := MapLabel("Data di Nascita")
	assert.False(t, m.Known())
	assert.Equal(t, "data_di_nascita", m.Extra)

	m = MapLabel("  ")
	assert.False(t, m.Known())
	assert.Equal(t, "", m.Extra)
}

func TestIsPositional(t *testing.T) {
	assert.True(t, IsPositional([]string{"A", "B", "C", "AA"}))
	assert.True(t, IsPositional([]string{"A", "", "C"}))
	assert.False(t, IsPositional([]string{"A", "Nome"}))
	assert.False(t, IsPositional([]string{"a", "b"}))
	assert.False(t, IsPositional([]string{"ABC"}))
	assert.False(t, IsPositional([]string{"", " "}))
	assert.False(t, IsPositional(nil))
}

func TestPositionalField(t *testing.T) {
	f, ok := PositionalField(0)
	assert.True(t, ok)
	assert.Equal(t, model.Name, f)
	f, ok = PositionalField(13)
	assert.True(t, ok)
	assert.Equal(t, model.CourierFlag, f)
	_, ok = PositionalField(14)
	assert.False(t, ok)
	_, ok = PositionalField(-1)
	assert.False(t, ok)
}
