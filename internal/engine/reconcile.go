package engine

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"gitlab.com/dirk.krummacker/giftlist-service/internal/apperr"
	"gitlab.com/dirk.krummacker/giftlist-service/internal/model"
	"gitlab.com/dirk.krummacker/giftlist-service/internal/store"
)

// Item is one contact of a client snapshot. Id is nil for contacts the client created itself.
// Fields holds the raw values of canonical fields; keys that name neither a canonical field nor
// an identity or lifecycle attribute end up in Unknown.
type Item struct {
	Id      *int64
	Fields  map[model.Field]any
	Unknown []string
}

// ParseItem splits a decoded JSON object into an Item. An id of zero, null, or one that is not
// an integer counts as absent.
func ParseItem(raw map[string]any) Item {
	item := Item{Fields: map[model.Field]any{}}
	for k, v := range raw {
		if k == "id" {
			item.Id = parseId(v)
			continue
		}
		if f, ok := model.ParseField(k); ok {
			item.Fields[f] = v
			continue
		}
		if !model.IsProtectedKey(k) {
			item.Unknown = append(item.Unknown, k)
		}
	}
	sort.Strings(item.Unknown)
	return item
}

func parseId(v any) *int64 {
	var id int64
	switch v := v.(type) {
	case float64:
		if v != float64(int64(v)) {
			return nil
		}
		id = int64(v)
	case int:
		id = int64(v)
	case int64:
		id = v
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return nil
		}
		id = n
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil
		}
		id = n
	default:
		return nil
	}
	if id <= 0 {
		return nil
	}
	return &id
}

// ReconcileResult describes what a reconciliation did.
type ReconcileResult struct {
	Contacts   []model.Contact
	Created    int
	Updated    int
	Deleted    int
	Duplicates int
	Foreign    int
	Unknown    []string
}

// Reconcile makes the snapshot the new set of active contacts of a category. Active contacts whose
// id is missing from the snapshot are moved to the trash. Items whose id belongs to a contact of
// the category are written onto it; a trashed contact that appears in the snapshot is restored.
// All other items are created with a fresh id. When an id occurs more than once, only its last
// occurrence is applied. The last update timestamp only moves for contacts that actually changed,
// so reconciling the same snapshot twice is a no-op.
func (e *Engine) Reconcile(ctx context.Context, category model.Category, items []Item) (ReconcileResult, error) {
	if err := checkCategory(category); err != nil {
		return ReconcileResult{}, err
	}
	unlock := e.lock(category)
	defer unlock()

	var result ReconcileResult
	now := e.timestamp()
	err := e.store.WithinTx(ctx, func(tx store.Tx) error {
		result = ReconcileResult{}
		active, err := tx.ListActive(ctx, category)
		if err != nil {
			return err
		}
		all, err := tx.ListCategory(ctx, category)
		if err != nil {
			return err
		}
		known := make(map[int64]model.Contact, len(all))
		for _, c := range all {
			known[c.Id] = c
		}

		last := map[int64]int{}
		unknown := map[string]bool{}
		for i, item := range items {
			if item.Id != nil {
				last[*item.Id] = i
			}
			for _, k := range item.Unknown {
				unknown[k] = true
			}
		}

		for _, c := range active {
			if _, present := last[c.Id]; present {
				continue
			}
			c.SoftDelete(now)
			c.Touch(now)
			if err := tx.Update(ctx, &c); err != nil {
				return err
			}
			result.Deleted++
		}

		for i, item := range items {
			if item.Id != nil {
				if last[*item.Id] != i {
					result.Duplicates++
					continue
				}
				if c, ok := known[*item.Id]; ok {
					changed, err := apply(&c, item.Fields)
					if err != nil {
						return apperr.Validationf("contact %d: %s", i+1, apperr.Message(err))
					}
					if c.Deleted {
						c.Restore()
						changed = true
					}
					if changed {
						c.Touch(now)
						if err := tx.Update(ctx, &c); err != nil {
							return err
						}
						result.Updated++
					}
					continue
				}
				result.Foreign++
			}
			c := model.Contact{Category: category, CreatedAt: now, LastUpdate: now}
			if _, err := apply(&c, item.Fields); err != nil {
				return apperr.Validationf("contact %d: %s", i+1, apperr.Message(err))
			}
			if err := tx.Insert(ctx, &c); err != nil {
				return err
			}
			result.Created++
		}

		for k := range unknown {
			result.Unknown = append(result.Unknown, k)
		}
		sort.Strings(result.Unknown)
		result.Contacts, err = tx.ListActive(ctx, category)
		return err
	})
	if err != nil {
		e.log.WithError(err).WithField("category", category).Error("reconciliation failed")
		return ReconcileResult{}, apperr.WrapStorage(err, "the contact list could not be saved")
	}
	fields := logrus.Fields{
		"category": category,
		"created":  result.Created,
		"updated":  result.Updated,
		"deleted":  result.Deleted,
	}
	if result.Duplicates > 0 {
		e.log.WithFields(fields).WithField("duplicates", result.Duplicates).
			Warn("snapshot repeats ids, only the last occurrence was applied")
	}
	if result.Foreign > 0 {
		e.log.WithFields(fields).WithField("foreign", result.Foreign).
			Warn("snapshot refers to ids the category does not know, they were created as new contacts")
	}
	if len(result.Unknown) > 0 {
		e.log.WithFields(fields).WithField("keys", result.Unknown).
			Warn("snapshot contains unknown keys, they were ignored")
	}
	e.log.WithFields(fields).Info("snapshot reconciled")
	return result, nil
}
