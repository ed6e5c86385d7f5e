package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gitlab.com/dirk.krummacker/giftlist-service/internal/model"
)

// affirmative are the lower-cased tokens that count as "yes" in a spreadsheet or client payload.
var affirmative = map[string]bool{
	"1":    true,
	"true": true,
	"yes":  true,
	"si":   true,
	"sì":   true,
	"vero": true,
	"x":    true,
	"✓":    true,
	"✔":    true,
	"√":    true,
}

// CoerceBool turns a raw value of unknown shape into a strict boolean. Anything that is not
// recognized as affirmative is false; it never fails.
func CoerceBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v == 1
	case int32:
		return v == 1
	case int64:
		return v == 1
	case float32:
		return v == 1
	case float64:
		return v == 1
	case string:
		return affirmative[strings.ToLower(strings.TrimSpace(v))]
	}
	return false
}

// NormalizeValue converts a raw value into the representation stored for the field: a bool for
// the boolean fields and a trimmed string for every other field.
func NormalizeValue(f model.Field, value any) any {
	if f.IsBool() {
		return CoerceBool(value)
	}
	return Stringify(value)
}

// Stringify renders a raw cell or JSON value as a trimmed string. Timestamps use the service's
// fixed layout and whole floats lose their fractional part.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case time.Time:
		return model.FormatTime(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	}
	return strings.TrimSpace(fmt.Sprint(value))
}
