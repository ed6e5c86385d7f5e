package engine

import (
	"context"

	"gitlab.com/dirk.krummacker/giftlist-service/internal/apperr"
	"gitlab.com/dirk.krummacker/giftlist-service/internal/export"
	"gitlab.com/dirk.krummacker/giftlist-service/internal/model"
	"gitlab.com/dirk.krummacker/giftlist-service/internal/store"
)

// ExportShipping builds the courier workbook from the active contacts flagged for the courier
// that pass the filter. An empty selection is a NotFound error.
func (e *Engine) ExportShipping(ctx context.Context, filter export.Filter) ([]byte, error) {
	if filter.Category != "" {
		if err := checkCategory(filter.Category); err != nil {
			return nil, err
		}
	}
	var selected []model.Contact
	err := e.store.WithinTx(ctx, func(tx store.Tx) error {
		contacts, err := tx.ListCourier(ctx)
		if err != nil {
			return err
		}
		for i := range contacts {
			if filter.Match(&contacts[i]) {
				selected = append(selected, contacts[i])
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperr.WrapStorage(err, "the shipping list could not be loaded")
	}
	if len(selected) == 0 {
		return nil, apperr.NotFoundf("no contacts to ship")
	}
	data, err := export.ShippingLabels(selected)
	if err != nil {
		return nil, apperr.WrapStorage(err, "the shipping list could not be written")
	}
	e.log.WithField("contacts", len(selected)).Info("shipping list exported")
	return data, nil
}
