package importer

import (
	"strings"

	"gitlab.com/dirk.krummacker/giftlist-service/internal/model"
)

// sheetTokens are the words a sheet name is matched against for each category. The category
// name comes first; the Italian stem follows because that is what existing workbooks use
// ("Clienti", "Partner").
var sheetTokens = map[model.Category][]string{
	model.Customer: {"customer", "client"},
	model.Partner:  {"partner"},
}

// SheetChoice records which sheet was picked and whether it was a fallback.
type SheetChoice struct {
	Name     string
	Fallback bool
}

// SelectSheet picks the sheet that holds the contacts of a category. For every token of the
// category it tries, in order, the capitalized token, the lower-case token, the token with an
// "i" suffix and its capitalized form; then any sheet whose name contains a token. When nothing
// matches the first sheet is used and the choice is marked as a fallback. It returns false only
// when there are no sheets at all.
func SelectSheet(names []string, category model.Category) (SheetChoice, bool) {
	if len(names) == 0 {
		return SheetChoice{}, false
	}
	tokens := sheetTokens[category]
	if len(tokens) == 0 {
		tokens = []string{string(category)}
	}
	exists := make(map[string]bool, len(names))
	for _, n := range names {
		exists[n] = true
	}
	for _, token := range tokens {
		candidates := []string{
			capitalize(token),
			token,
			token + "i",
			capitalize(token) + "i",
		}
		for _, c := range candidates {
			if exists[c] {
				return SheetChoice{Name: c}, true
			}
		}
	}
	for _, token := range tokens {
		for _, n := range names {
			if strings.Contains(strings.ToLower(n), token) {
				return SheetChoice{Name: n}, true
			}
		}
	}
	return SheetChoice{Name: names[0], Fallback: true}, true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
