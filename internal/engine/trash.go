package engine

import (
	"context"

	"gitlab.com/dirk.krummacker/giftlist-service/internal/apperr"
	"gitlab.com/dirk.krummacker/giftlist-service/internal/model"
	"gitlab.com/dirk.krummacker/giftlist-service/internal/store"
)

// MoveToTrash soft-deletes the contact with the given id. Trashing a contact twice keeps the
// first deletion date.
func (e *Engine) MoveToTrash(ctx context.Context, category model.Category, id int64) error {
	if err := checkCategory(category); err != nil {
		return err
	}
	unlock := e.lock(category)
	defer unlock()

	now := e.timestamp()
	err := e.store.WithinTx(ctx, func(tx store.Tx) error {
		c, ok, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if !ok || c.Category != category {
			return apperr.NotFoundf("contact with id %d not found", id)
		}
		if c.Deleted {
			return nil
		}
		c.SoftDelete(now)
		c.Touch(now)
		return tx.Update(ctx, &c)
	})
	if err != nil {
		return apperr.WrapStorage(err, "the contact could not be moved to the trash")
	}
	e.log.WithField("id", id).Info("contact moved to the trash")
	return nil
}

// Restore takes the contact with the given id out of the trash.
func (e *Engine) Restore(ctx context.Context, id int64) error {
	unlock := e.lockAll()
	defer unlock()

	now := e.timestamp()
	err := e.store.WithinTx(ctx, func(tx store.Tx) error {
		c, ok, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFoundf("contact with id %d not found", id)
		}
		if !c.Deleted {
			return nil
		}
		c.Restore()
		c.Touch(now)
		return tx.Update(ctx, &c)
	})
	if err != nil {
		return apperr.WrapStorage(err, "the contact could not be restored")
	}
	e.log.WithField("id", id).Info("contact restored")
	return nil
}

// DeletePermanently removes a trashed contact for good. Active contacts must be trashed first.
func (e *Engine) DeletePermanently(ctx context.Context, id int64) error {
	unlock := e.lockAll()
	defer unlock()

	err := e.store.WithinTx(ctx, func(tx store.Tx) error {
		c, ok, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFoundf("contact with id %d not found", id)
		}
		if !c.Deleted {
			return apperr.Validationf("contact with id %d is not in the trash", id)
		}
		_, err = tx.Delete(ctx, id)
		return err
	})
	if err != nil {
		return apperr.WrapStorage(err, "the contact could not be deleted")
	}
	e.log.WithField("id", id).Info("contact deleted permanently")
	return nil
}

// EmptyTrash removes every trashed contact and returns how many were removed.
func (e *Engine) EmptyTrash(ctx context.Context) (int64, error) {
	unlock := e.lockAll()
	defer unlock()

	var removed int64
	err := e.store.WithinTx(ctx, func(tx store.Tx) error {
		var err error
		removed, err = tx.DeleteTrashed(ctx)
		return err
	})
	if err != nil {
		return 0, apperr.WrapStorage(err, "the trash could not be emptied")
	}
	e.log.WithField("removed", removed).Info("trash emptied")
	return removed, nil
}
