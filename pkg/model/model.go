// Package model holds the wire types of the giftlist service API, for use by clients.
package model

// Response is the envelope of every JSON answer. Data carries the payload of a successful call,
// Meta a summary of what a mutating call did, and Error the reason of a failed one.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
	Meta    any    `json:"meta,omitempty"`
}

// Contact is a contact as sent to and received from the service. Id is nil for contacts the
// client has created locally and that the service has not stored yet.
type Contact struct {
	Id               *int64 `json:"id"`
	Category         string `json:"category,omitempty"`
	Name             string `json:"name"`
	Company          string `json:"company"`
	Street           string `json:"street"`
	HouseNumber      string `json:"houseNumber"`
	PostalCode       string `json:"postalCode"`
	Locality         string `json:"locality"`
	Province         string `json:"province"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	Notes            string `json:"notes"`
	PartnerSubtype   string `json:"partnerSubtype"`
	GiftFlag         bool   `json:"giftFlag"`
	CourierFlag      bool   `json:"courierFlag"`
	ExtraGiftNote    string `json:"extraGiftNote"`
	DeliveryAssignee string `json:"deliveryAssignee"`
	Deleted          bool   `json:"deleted,omitempty"`
	DeletedAt        string `json:"deletedAt,omitempty"`
	CreatedAt        string `json:"createdAt,omitempty"`
	LastUpdate       string `json:"lastUpdate,omitempty"`
}

// BulkUpdate is the request body of a bulk property edit.
type BulkUpdate struct {
	Ids           []int64 `json:"ids"`
	PropertyName  string  `json:"propertyName"`
	PropertyValue any     `json:"propertyValue"`
}

// SyncSummary is the Meta of a snapshot reconciliation.
type SyncSummary struct {
	Created     int      `json:"created"`
	Updated     int      `json:"updated"`
	Deleted     int      `json:"deleted"`
	Duplicates  int      `json:"duplicates"`
	ForeignIds  int      `json:"foreignIds"`
	UnknownKeys []string `json:"unknownKeys,omitempty"`
}

// BulkSummary is the Meta of a bulk update.
type BulkSummary struct {
	Updated         int  `json:"updated"`
	PropertyIgnored bool `json:"propertyIgnored"`
}

// ImportConflict is a spreadsheet line that was merged into a contact an earlier line of the
// same import had already written.
type ImportConflict struct {
	Line    int    `json:"line"`
	Id      int64  `json:"id"`
	Name    string `json:"name"`
	Company string `json:"company"`
}

// ImportSummary is the Meta of a spreadsheet import.
type ImportSummary struct {
	Created         int              `json:"createdCount"`
	Updated         int              `json:"updatedCount"`
	Sheet           string           `json:"sheet"`
	SheetFallback   bool             `json:"sheetFallback"`
	Positional      bool             `json:"positional"`
	Dropped         int              `json:"droppedRows"`
	UnmappedColumns []string         `json:"unmappedColumns,omitempty"`
	Conflicts       []ImportConflict `json:"conflicts,omitempty"`
}

// Status is the payload of the status endpoint.
type Status struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	ExcelSupport bool   `json:"excelSupport"`
}
