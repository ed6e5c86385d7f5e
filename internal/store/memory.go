package store

import (
	"context"
	"sort"
	"sync"

	"gitlab.com/dirk.krummacker/giftlist-service/internal/model"
)

// Memory is a Store that keeps everything in process memory. A transaction works on a private
// copy that replaces the shared state on commit, so a failed transaction leaves no trace.
// Transactions are serialized.
type Memory struct {
	mu       sync.Mutex
	contacts map[int64]model.Contact
	settings map[string]string
	nextId   int64
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		contacts: map[int64]model.Contact{},
		settings: map[string]string{},
		nextId:   1,
	}
}

// WithinTx implements Store.
func (m *Memory) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &memoryTx{
		contacts: make(map[int64]model.Contact, len(m.contacts)),
		settings: make(map[string]string, len(m.settings)),
		nextId:   m.nextId,
	}
	for id, c := range m.contacts {
		tx.contacts[id] = clone(c)
	}
	for k, v := range m.settings {
		tx.settings[k] = v
	}
	if err := fn(tx); err != nil {
		return err
	}
	m.contacts = tx.contacts
	m.settings = tx.settings
	m.nextId = tx.nextId
	return nil
}

type memoryTx struct {
	contacts map[int64]model.Contact
	settings map[string]string
	nextId   int64
}

func (tx *memoryTx) filter(keep func(c model.Contact) bool) []model.Contact {
	var out []model.Contact
	for _, c := range tx.contacts {
		if keep(c) {
			out = append(out, clone(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

func (tx *memoryTx) ListActive(_ context.Context, category model.Category) ([]model.Contact, error) {
	return tx.filter(func(c model.Contact) bool {
		return c.Category == category && !c.Deleted
	}), nil
}

func (tx *memoryTx) ListCategory(_ context.Context, category model.Category) ([]model.Contact, error) {
	return tx.filter(func(c model.Contact) bool {
		return c.Category == category
	}), nil
}

func (tx *memoryTx) ListDeleted(_ context.Context) ([]model.Contact, error) {
	return tx.filter(func(c model.Contact) bool {
		return c.Deleted
	}), nil
}

func (tx *memoryTx) ListCourier(_ context.Context) ([]model.Contact, error) {
	return tx.filter(func(c model.Contact) bool {
		return c.CourierFlag && !c.Deleted
	}), nil
}

func (tx *memoryTx) Get(_ context.Context, id int64) (model.Contact, bool, error) {
	c, ok := tx.contacts[id]
	return clone(c), ok, nil
}

func (tx *memoryTx) Insert(_ context.Context, c *model.Contact) error {
	c.Id = tx.nextId
	tx.nextId++
	tx.contacts[c.Id] = clone(*c)
	return nil
}

func (tx *memoryTx) Update(_ context.Context, c *model.Contact) error {
	if _, ok := tx.contacts[c.Id]; !ok {
		return errNoRows
	}
	tx.contacts[c.Id] = clone(*c)
	return nil
}

func (tx *memoryTx) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := tx.contacts[id]; !ok {
		return false, nil
	}
	delete(tx.contacts, id)
	return true, nil
}

func (tx *memoryTx) DeleteTrashed(_ context.Context) (int64, error) {
	var n int64
	for id, c := range tx.contacts {
		if c.Deleted {
			delete(tx.contacts, id)
			n++
		}
	}
	return n, nil
}

func (tx *memoryTx) Settings(_ context.Context) ([]model.Setting, error) {
	out := make([]model.Setting, 0, len(tx.settings))
	for k, v := range tx.settings {
		out = append(out, model.Setting{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (tx *memoryTx) PutSetting(_ context.Context, s model.Setting) error {
	tx.settings[s.Key] = s.Value
	return nil
}

// clone copies a contact including its deletion timestamp.
func clone(c model.Contact) model.Contact {
	if c.DeletedAt != nil {
		at := *c.DeletedAt
		c.DeletedAt = &at
	}
	return c
}
