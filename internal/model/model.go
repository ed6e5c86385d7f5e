package model

import (
	"encoding/json"
	"strings"
	"time"
)

// TimeLayout is the textual format of every timestamp that leaves the service. It is always
// rendered in UTC with microsecond precision, so it round-trips through time.Parse without loss.
const TimeLayout = "2006-01-02T15:04:05.000000"

// Category partitions the contacts. A contact never changes its category.
type Category string

const (
	Customer Category = "customer"
	Partner  Category = "partner"
)

// Categories lists every valid category.
var Categories = []Category{Customer, Partner}

// ParseCategory returns the category with the given (case-insensitive) name.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// Contact is the data structure for a person or company that receives a gift. All string fields
// are optional and stored as empty strings when unknown.
type Contact struct {
	Id               int64      `db:"id"`
	Category         Category   `db:"category"`
	Name             string     `db:"name"`
	Company          string     `db:"company"`
	Street           string     `db:"street"`
	HouseNumber      string     `db:"house_number"`
	PostalCode       string     `db:"postal_code"`
	Locality         string     `db:"locality"`
	Province         string     `db:"province"`
	Phone            string     `db:"phone"`
	Email            string     `db:"email"`
	Notes            string     `db:"notes"`
	PartnerSubtype   string     `db:"partner_subtype"`
	GiftFlag         bool       `db:"gift_flag"`
	CourierFlag      bool       `db:"courier_flag"`
	ExtraGiftNote    string     `db:"extra_gift_note"`
	DeliveryAssignee string     `db:"delivery_assignee"`
	Deleted          bool       `db:"deleted"`
	DeletedAt        *time.Time `db:"deleted_at"`
	CreatedAt        time.Time  `db:"created_at"`
	LastUpdate       time.Time  `db:"last_update"`
}

// Get returns the current value of a canonical field: a bool for the boolean fields and a string
// for all others.
func (c *Contact) Get(f Field) any {
	switch f {
	case Name:
		return c.Name
	case Company:
		return c.Company
	case Street:
		return c.Street
	case HouseNumber:
		return c.HouseNumber
	case PostalCode:
		return c.PostalCode
	case Locality:
		return c.Locality
	case Province:
		return c.Province
	case Phone:
		return c.Phone
	case Email:
		return c.Email
	case Notes:
		return c.Notes
	case PartnerSubtype:
		return c.PartnerSubtype
	case GiftFlag:
		return c.GiftFlag
	case CourierFlag:
		return c.CourierFlag
	case ExtraGiftNote:
		return c.ExtraGiftNote
	case DeliveryAssignee:
		return c.DeliveryAssignee
	}
	return nil
}

// Set assigns an already normalized value to a canonical field and reports whether the stored
// value changed. Boolean fields expect a bool, all others a string; a value of the wrong type
// leaves the contact untouched.
func (c *Contact) Set(f Field, value any) bool {
	if f.IsBool() {
		b, ok := value.(bool)
		if !ok {
			return false
		}
		var target *bool
		if f == GiftFlag {
			target = &c.GiftFlag
		} else {
			target = &c.CourierFlag
		}
		if *target == b {
			return false
		}
		*target = b
		return true
	}
	s, ok := value.(string)
	if !ok {
		return false
	}
	target := c.stringField(f)
	if target == nil || *target == s {
		return false
	}
	*target = s
	return true
}

func (c *Contact) stringField(f Field) *string {
	switch f {
	case Name:
		return &c.Name
	case Company:
		return &c.Company
	case Street:
		return &c.Street
	case HouseNumber:
		return &c.HouseNumber
	case PostalCode:
		return &c.PostalCode
	case Locality:
		return &c.Locality
	case Province:
		return &c.Province
	case Phone:
		return &c.Phone
	case Email:
		return &c.Email
	case Notes:
		return &c.Notes
	case PartnerSubtype:
		return &c.PartnerSubtype
	case ExtraGiftNote:
		return &c.ExtraGiftNote
	case DeliveryAssignee:
		return &c.DeliveryAssignee
	}
	return nil
}

// SoftDelete moves the contact to the trash. The deletion timestamp is only set on the first
// call, so trashing twice keeps the original date.
func (c *Contact) SoftDelete(now time.Time) {
	if c.Deleted && c.DeletedAt != nil {
		return
	}
	at := now
	c.Deleted = true
	c.DeletedAt = &at
}

// Restore takes the contact out of the trash.
func (c *Contact) Restore() {
	c.Deleted = false
	c.DeletedAt = nil
}

// Touch bumps the last update timestamp. It never moves backwards, even if the clock does.
func (c *Contact) Touch(now time.Time) {
	if now.After(c.LastUpdate) {
		c.LastUpdate = now
	}
}

// IdentityKey is the (name, company) pair used to recognize a contact when no id is available.
type IdentityKey struct {
	Name    string
	Company string
}

// NewIdentityKey builds the case-insensitive identity key of a name and a company.
func NewIdentityKey(name, company string) IdentityKey {
	return IdentityKey{
		Name:    strings.ToLower(strings.TrimSpace(name)),
		Company: strings.ToLower(strings.TrimSpace(company)),
	}
}

// Key returns the identity key of the contact.
func (c *Contact) Key() IdentityKey {
	return NewIdentityKey(c.Name, c.Company)
}

// Flatten renders the contact as a flat field-name to value mapping. It is the only
// serialization of a contact: the JSON API and the tests both go through it.
func (c *Contact) Flatten() map[string]any {
	m := make(map[string]any, len(Fields)+6)
	m["id"] = c.Id
	m["category"] = string(c.Category)
	for _, f := range Fields {
		m[string(f)] = c.Get(f)
	}
	m["deleted"] = c.Deleted
	m["deletedAt"] = nil
	if c.DeletedAt != nil {
		m["deletedAt"] = FormatTime(*c.DeletedAt)
	}
	m["createdAt"] = FormatTime(c.CreatedAt)
	m["lastUpdate"] = FormatTime(c.LastUpdate)
	return m
}

// MarshalJSON encodes the flattened contact.
func (c Contact) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Flatten())
}

// FormatTime renders a timestamp in TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime reads a timestamp written by FormatTime.
func ParseTime(s string) (time.Time, error) {
	return time.ParseInLocation(TimeLayout, s, time.UTC)
}

// Timestamp truncates a point in time to the precision that is persisted.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
