package engine

import (
	"context"

	"github.com/sirupsen/logrus"

	"gitlab.com/dirk.krummacker/giftlist-service/internal/apperr"
	"gitlab.com/dirk.krummacker/giftlist-service/internal/importer"
	"gitlab.com/dirk.krummacker/giftlist-service/internal/model"
	"gitlab.com/dirk.krummacker/giftlist-service/internal/store"
)

// BulkResult describes what a bulk update did. PropertyIgnored is set when the property is not a
// canonical field; nothing was changed in that case.
type BulkResult struct {
	Contacts        []model.Contact
	Updated         int
	PropertyIgnored bool
}

// BulkUpdate sets one property to the same value on every active contact of the category whose
// id is listed. Ids that are unknown, trashed or belong to the other category are skipped.
func (e *Engine) BulkUpdate(ctx context.Context, category model.Category, ids []int64, property string, value any) (BulkResult, error) {
	if err := checkCategory(category); err != nil {
		return BulkResult{}, err
	}
	if len(ids) == 0 || property == "" {
		return BulkResult{}, apperr.Validationf("missing parameters (ids, propertyName, propertyValue)")
	}
	field, known := model.ParseField(property)
	var normalized any
	if known {
		normalized = importer.NormalizeValue(field, value)
		if err := checkLength(field, normalized); err != nil {
			return BulkResult{}, err
		}
	}
	log := e.log.WithFields(logrus.Fields{"category": category, "property": property})

	unlock := e.lock(category)
	defer unlock()

	var result BulkResult
	now := e.timestamp()
	err := e.store.WithinTx(ctx, func(tx store.Tx) error {
		result = BulkResult{PropertyIgnored: !known}
		active, err := tx.ListActive(ctx, category)
		if err != nil {
			return err
		}
		if known {
			selected := make(map[int64]bool, len(ids))
			for _, id := range ids {
				selected[id] = true
			}
			for _, c := range active {
				if !selected[c.Id] {
					continue
				}
				c.Set(field, normalized)
				c.Touch(now)
				if err := tx.Update(ctx, &c); err != nil {
					return err
				}
				result.Updated++
			}
			result.Contacts, err = tx.ListActive(ctx, category)
			return err
		}
		result.Contacts = active
		return nil
	})
	if err != nil {
		log.WithError(err).Error("bulk update failed")
		return BulkResult{}, apperr.WrapStorage(err, "the bulk update could not be saved")
	}
	if result.PropertyIgnored {
		log.Warn("bulk update names an unknown property, nothing was changed")
	} else {
		log.WithField("updated", result.Updated).Info("bulk update applied")
	}
	return result, nil
}
