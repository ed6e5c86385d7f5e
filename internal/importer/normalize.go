package importer

import (
	"sort"

	"gitlab.com/dirk.krummacker/giftlist-service/internal/model"
)

// minPopulatedFields is the number of non-empty fields a row needs to be taken for data rather
// than for a separator, a total or a stray header. The category of the import counts as one of
// them, so a name with one more value is enough.
const minPopulatedFields = 3

// categoryField is the category every imported record is tagged with.
const categoryField = 1

// Table is one sheet as delivered by a parser: the header labels and the raw data rows in
// column order. Raw values may be nil, string, bool, a number or a time.Time.
type Table struct {
	Headers []string
	Rows    [][]any
}

// Record is one accepted spreadsheet row reduced to canonical fields. Line is the 1-based line
// in the sheet (the header is line 1). Extra keeps the cells whose label matched no canonical
// field, keyed by their ad-hoc name.
type Record struct {
	Line   int
	Fields map[model.Field]any
	Extra  map[string]string
}

// Text returns the string value of a field, or "" when it is missing.
func (r Record) Text(f model.Field) string {
	s, _ := r.Fields[f].(string)
	return s
}

// Populated counts the non-empty values of the record.
func (r Record) Populated() int {
	n := 0
	for _, v := range r.Fields {
		switch v := v.(type) {
		case bool:
			if v {
				n++
			}
		case string:
			if v != "" {
				n++
			}
		}
	}
	for _, v := range r.Extra {
		if v != "" {
			n++
		}
	}
	return n
}

// Normalized is the outcome of normalizing one table.
type Normalized struct {
	Records    []Record
	Positional bool
	Dropped    int
	Unmapped   []string
}

// Normalize maps every row of the table onto canonical fields and keeps the rows that pass the
// acceptance gate: a name or a company, and at least three populated fields including the
// category.
func Normalize(t Table) Normalized {
	out := Normalized{Positional: IsPositional(t.Headers)}
	mappings := make([]Mapping, len(t.Headers))
	unmapped := map[string]bool{}
	if out.Positional {
		n := 0
		for i, h := range t.Headers {
			if !IsGenericLabel(h) {
				continue
			}
			if f, ok := PositionalField(n); ok {
				mappings[i] = Mapping{Field: f}
			}
			n++
		}
	} else {
		for i, h := range t.Headers {
			mappings[i] = MapLabel(h)
			if m := mappings[i]; !m.Known() && m.Extra != "" {
				unmapped[m.Extra] = true
			}
		}
	}
	for i := range unmapped {
		out.Unmapped = append(out.Unmapped, i)
	}
	sort.Strings(out.Unmapped)

	for i, row := range t.Rows {
		rec := Record{Line: i + 2, Fields: map[model.Field]any{}}
		for col, raw := range row {
			if col >= len(mappings) || isBlank(raw) {
				continue
			}
			m := mappings[col]
			switch {
			case m.Known():
				v := NormalizeValue(m.Field, raw)
				if s, ok := v.(string); ok && s == "" {
					continue
				}
				rec.Fields[m.Field] = v
			case m.Extra != "":
				if rec.Extra == nil {
					rec.Extra = map[string]string{}
				}
				rec.Extra[m.Extra] = Stringify(raw)
			}
		}
		if !accept(rec) {
			out.Dropped++
			continue
		}
		out.Records = append(out.Records, rec)
	}
	return out
}

func accept(r Record) bool {
	if r.Text(model.Name) == "" && r.Text(model.Company) == "" {
		return false
	}
	return r.Populated()+categoryField >= minPopulatedFields
}

func isBlank(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return v == ""
	}
	return false
}
