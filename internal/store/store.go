// Package store persists contacts and settings. Every change goes through a transaction handle
// obtained from Store.WithinTx; nothing is written outside of one.
package store

import (
	"context"

	"github.com/pkg/errors"

	"gitlab.com/dirk.krummacker/giftlist-service/internal/model"
)

// errNoRows is returned when an update targets a contact that does not exist.
var errNoRows = errors.New("contact does not exist")

// Store opens transactions.
type Store interface {
	// WithinTx runs fn inside a transaction. The transaction is committed when fn returns nil and
	// rolled back otherwise; a failed commit is reported as a Storage error.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the unit of work handed to the engine.
type Tx interface {
	// ListActive returns the non-deleted contacts of a category ordered by id. Stores that
	// support it lock the returned rows until the transaction ends.
	ListActive(ctx context.Context, category model.Category) ([]model.Contact, error)
	// ListCategory returns every contact of a category, trashed ones included, ordered by id.
	ListCategory(ctx context.Context, category model.Category) ([]model.Contact, error)
	// ListDeleted returns the trashed contacts of all categories ordered by id.
	ListDeleted(ctx context.Context) ([]model.Contact, error)
	// ListCourier returns the non-deleted contacts flagged for the courier, all categories.
	ListCourier(ctx context.Context) ([]model.Contact, error)
	// Get returns the contact with the given id, or false when there is none.
	Get(ctx context.Context, id int64) (model.Contact, bool, error)
	// Insert stores a new contact and assigns its id.
	Insert(ctx context.Context, c *model.Contact) error
	// Update writes every attribute of an existing contact.
	Update(ctx context.Context, c *model.Contact) error
	// Delete physically removes a contact and reports whether it existed.
	Delete(ctx context.Context, id int64) (bool, error)
	// DeleteTrashed physically removes every trashed contact and returns how many were removed.
	DeleteTrashed(ctx context.Context) (int64, error)
	// Settings returns every stored setting.
	Settings(ctx context.Context) ([]model.Setting, error)
	// PutSetting inserts or replaces one setting.
	PutSetting(ctx context.Context, s model.Setting) error
}
