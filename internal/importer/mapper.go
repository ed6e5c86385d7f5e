package importer

import (
	"strings"
	"unicode"

	"gitlab.com/dirk.krummacker/giftlist-service/internal/model"
)

// synonym lists the column labels that are accepted for one canonical field.
type synonym struct {
	field  model.Field
	labels []string
}

// synonyms is searched in order, so a label listed for two fields belongs to the first one.
var synonyms = normalizeSynonyms([]synonym{
	{model.Name, []string{"nome", "nome persona", "nominativo", "nome_persona", "nome cliente",
		"nome e cognome", "persona", "referente", "nome referente", "cliente", "name", "contact"}},
	{model.Company, []string{"azienda", "nome azienda", "società", "ragione sociale", "company",
		"ditta", "società cliente", "societa", "nome societa"}},
	{model.Street, []string{"indirizzo", "via", "strada", "address", "via/piazza",
		"indirizzo stradale", "via piazza", "indirizzo spedizione", "street"}},
	{model.HouseNumber, []string{"civico", "numero civico", "n. civico", "n.civico", "n°", "numero",
		"numero indirizzo", "num", "num.", "house number"}},
	{model.PostalCode, []string{"cap", "codice postale", "postal code", "zip",
		"codice avviamento postale", "c.a.p.", "c.a.p"}},
	{model.Locality, []string{"localita", "località", "comune", "città", "city", "paese", "town",
		"citta", "loc", "loc."}},
	{model.Province, []string{"provincia", "prov", "province", "pr", "pr.", "sigla provincia",
		"prov.", "provincia sigla"}},
	{model.Phone, []string{"telefono", "tel", "phone", "cellulare", "tel.", "numero telefono",
		"cell", "numero cellulare", "tel/cell", "cell."}},
	{model.Email, []string{"email", "e-mail", "mail", "posta elettronica", "indirizzo email",
		"e mail", "posta"}},
	{model.Notes, []string{"note", "annotazioni", "commenti", "notes", "note aggiuntive",
		"note cliente", "commento"}},
	{model.PartnerSubtype, []string{"tipologia", "tipo partner", "categoria", "tipo cliente", "tipo",
		"category", "gruppo"}},
	{model.GiftFlag, []string{"grappa", "regalo grappa", "omaggio grappa", "regalo", "gift",
		"presente", "omaggio", "dono"}},
	{model.ExtraGiftNote, []string{"extra/altro", "extra", "altro regalo", "altro omaggio",
		"extra regalo", "regalo extra", "altro", "altri regali", "extra/altri"}},
	{model.DeliveryAssignee, []string{"consegna/spedizione", "consegna", "consegna a mano",
		"incaricato consegna", "consegnatario", "deliverer", "spedizione", "incaricato",
		"consegna spedizione"}},
	{model.CourierFlag, []string{"gls", "spedizione gls", "corriere", "spedizione", "shipping",
		"courier", "corriere gls"}},
})

// positionalOrder assigns fields to generic lettered columns, left to right.
var positionalOrder = []model.Field{
	model.Name, model.Company, model.Street, model.HouseNumber, model.PostalCode, model.Locality,
	model.Province, model.Phone, model.Email, model.Notes, model.GiftFlag, model.ExtraGiftNote,
	model.DeliveryAssignee, model.CourierFlag,
}

// Mapping is the result of looking up a column label. Field is set for canonical fields; Extra
// holds the ad-hoc name of a column that matched nothing.
type Mapping struct {
	Field model.Field
	Extra string
}

// Known reports whether the label was mapped to a canonical field.
func (m Mapping) Known() bool { return m.Field != "" }

// NormalizeLabel lower-cases a column label, turns separators into spaces and collapses runs of
// whitespace.
func NormalizeLabel(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	label = strings.NewReplacer("/", " ", "-", " ", "_", " ", ".", " ").Replace(label)
	return strings.Join(strings.Fields(label), " ")
}

// MapLabel maps a raw column label to a canonical field: an exact synonym match first, then a
// substring match in either direction, and finally the normalized label itself joined with
// underscores. An empty label maps to nothing.
func MapLabel(label string) Mapping {
	normalized := NormalizeLabel(label)
	if normalized == "" {
		return Mapping{}
	}
	for _, s := range synonyms {
		for _, l := range s.labels {
			if l == normalized {
				return Mapping{Field: s.field}
			}
		}
	}
	for _, s := range synonyms {
		for _, l := range s.labels {
			if strings.Contains(normalized, l) || strings.Contains(l, normalized) {
				return Mapping{Field: s.field}
			}
		}
	}
	return Mapping{Extra: strings.ReplaceAll(normalized, " ", "_")}
}

// IsGenericLabel reports whether a header cell looks like a spreadsheet default column name
// such as "A" or "AB".
func IsGenericLabel(label string) bool {
	if label == "" || len(label) > 2 {
		return false
	}
	for _, r := range label {
		if r > unicode.MaxASCII || !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// IsPositional reports whether a header row consists only of generic column names. Blank
// header cells are ignored; a row without any label is not positional.
func IsPositional(headers []string) bool {
	seen := false
	for _, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if !IsGenericLabel(h) {
			return false
		}
		seen = true
	}
	return seen
}

// PositionalField returns the field of the n-th generic column (zero-based).
func PositionalField(n int) (model.Field, bool) {
	if n < 0 || n >= len(positionalOrder) {
		return "", false
	}
	return positionalOrder[n], true
}

func normalizeSynonyms(table []synonym) []synonym {
	for i := range table {
		labels := make([]string, 0, len(table[i].labels))
		seen := make(map[string]bool, len(table[i].labels))
		for _, l := range table[i].labels {
			n := NormalizeLabel(l)
			if n == "" || seen[n] {
				continue
			}
			seen[n] = true
			labels = append(labels, n)
		}
		table[i].labels = labels
	}
	return table
}
