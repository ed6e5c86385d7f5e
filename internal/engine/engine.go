// Package engine keeps the contact list consistent. It reconciles client snapshots, applies bulk
// edits, merges spreadsheet imports and manages the trash. Every operation runs in a single store
// transaction, and operations on the same category are serialized.
package engine

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"gitlab.com/dirk.krummacker/giftlist-service/internal/apperr"
	"gitlab.com/dirk.krummacker/giftlist-service/internal/importer"
	"gitlab.com/dirk.krummacker/giftlist-service/internal/model"
	"gitlab.com/dirk.krummacker/giftlist-service/internal/store"
)

// Engine is the entry point of every contact operation.
type Engine struct {
	store store.Store
	log   logrus.FieldLogger
	now   func() time.Time
	locks map[model.Category]*sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger used for lenient decisions and failures.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = log }
}

// New creates an engine on top of a store.
func New(s store.Store, opts ...Option) *Engine {
	e := &Engine{
		store: s,
		log:   logrus.StandardLogger(),
		now:   time.Now,
		locks: make(map[model.Category]*sync.Mutex, len(model.Categories)),
	}
	for _, c := range model.Categories {
		e.locks[c] = &sync.Mutex{}
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// lock serializes writers of one category and returns the matching unlock function.
func (e *Engine) lock(category model.Category) func() {
	m := e.locks[category]
	m.Lock()
	return m.Unlock
}

// lockAll takes every category lock in a fixed order, for operations that do not know the
// category of the record up front.
func (e *Engine) lockAll() func() {
	for _, c := range model.Categories {
		e.locks[c].Lock()
	}
	return func() {
		for i := len(model.Categories) - 1; i >= 0; i-- {
			e.locks[model.Categories[i]].Unlock()
		}
	}
}

// timestamp returns the current time at persisted precision.
func (e *Engine) timestamp() time.Time {
	return model.Timestamp(e.now())
}

func checkCategory(category model.Category) error {
	if _, ok := model.ParseCategory(string(category)); !ok {
		return apperr.Validationf("unknown category %q", category)
	}
	return nil
}

// ListContacts returns the active contacts of a category, or all of them when includeDeleted is
// set.
func (e *Engine) ListContacts(ctx context.Context, category model.Category, includeDeleted bool) ([]model.Contact, error) {
	if err := checkCategory(category); err != nil {
		return nil, err
	}
	var contacts []model.Contact
	err := e.store.WithinTx(ctx, func(tx store.Tx) error {
		var err error
		if includeDeleted {
			contacts, err = tx.ListCategory(ctx, category)
		} else {
			contacts, err = tx.ListActive(ctx, category)
		}
		return err
	})
	return contacts, err
}

// ListTrash returns every trashed contact of all categories.
func (e *Engine) ListTrash(ctx context.Context) ([]model.Contact, error) {
	var contacts []model.Contact
	err := e.store.WithinTx(ctx, func(tx store.Tx) error {
		var err error
		contacts, err = tx.ListDeleted(ctx)
		return err
	})
	return contacts, err
}

// apply writes raw values onto a contact, normalizing them first, and reports whether anything
// changed. A value longer than its field allows is a Validation error.
func apply(c *model.Contact, fields map[model.Field]any) (bool, error) {
	changed := false
	for _, f := range model.Fields {
		raw, ok := fields[f]
		if !ok {
			continue
		}
		v := importer.NormalizeValue(f, raw)
		if err := checkLength(f, v); err != nil {
			return changed, err
		}
		if c.Set(f, v) {
			changed = true
		}
	}
	return changed, nil
}

func checkLength(f model.Field, v any) error {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	if utf8.RuneCountInString(s) > f.MaxLength() {
		return apperr.Validationf("%s is longer than %d characters", f, f.MaxLength())
	}
	return nil
}
