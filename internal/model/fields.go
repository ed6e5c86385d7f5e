package model

// Field is the name of a canonical contact attribute that external input can write to.
type Field string

const (
	Name             Field = "name"
	Company          Field = "company"
	Street           Field = "street"
	HouseNumber      Field = "houseNumber"
	PostalCode       Field = "postalCode"
	Locality         Field = "locality"
	Province         Field = "province"
	Phone            Field = "phone"
	Email            Field = "email"
	Notes            Field = "notes"
	PartnerSubtype   Field = "partnerSubtype"
	GiftFlag         Field = "giftFlag"
	CourierFlag      Field = "courierFlag"
	ExtraGiftNote    Field = "extraGiftNote"
	DeliveryAssignee Field = "deliveryAssignee"
)

// Fields lists every canonical field in serialization order.
var Fields = []Field{
	Name, Company, Street, HouseNumber, PostalCode, Locality, Province, Phone, Email, Notes,
	PartnerSubtype, GiftFlag, CourierFlag, ExtraGiftNote, DeliveryAssignee,
}

// ProtectedKeys are serialized attributes that callers may send back but never write: the
// identity and lifecycle of a record are owned by the service.
var ProtectedKeys = []string{"id", "category", "deleted", "deletedAt", "createdAt", "lastUpdate"}

// ParseField returns the canonical field with exactly the given name.
func ParseField(s string) (Field, bool) {
	for _, f := range Fields {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// IsProtectedKey reports whether the key names an identity or lifecycle attribute.
func IsProtectedKey(s string) bool {
	for _, k := range ProtectedKeys {
		if k == s {
			return true
		}
	}
	return false
}

// MaxLength is the longest text, in characters, a field can hold.
func (f Field) MaxLength() int {
	if f == Notes || f == ExtraGiftNote {
		return 4000
	}
	return 255
}

// IsBool reports whether the field holds a boolean.
func (f Field) IsBool() bool {
	return f == GiftFlag || f == CourierFlag
}
