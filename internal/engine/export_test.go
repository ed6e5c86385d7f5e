package engine

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gitlab.com/dirk.krummacker/giftlist-service/internal/apperr"
	"gitlab.com/dirk.krummacker/giftlist-service/internal/export"
	"gitlab.com/dirk.krummacker/giftlist-service/internal/model"
)

func TestExportShipping(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	_, err := e.Reconcile(ctx, model.Customer, []Item{
		raw(map[string]any{"name": "Mario", "company": "Rossi Srl", "courierFlag": true, "deliveryAssignee": "Marco"}),
		raw(map[string]any{"name": "Anna", "courierFlag": false}),
		raw(map[string]any{"name": "Trashed", "courierFlag": true}),
	})
	require.NoError(t, err)
	_, err = e.Reconcile(ctx, model.Partner, []Item{
		raw(map[string]any{"name": "Luca", "courierFlag": "x", "deliveryAssignee": "Matteo"}),
	})
	require.NoError(t, err)
	require.NoError(t, e.MoveToTrash(ctx, model.Customer, 3))

	data, err := e.ExportShipping(ctx, export.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Rossi Srl", "Luca"}, recipients(t, data))

	data, err = e.ExportShipping(ctx, export.Filter{Category: model.Partner})
	require.NoError(t, err)
	assert.Equal(t, []string{"Luca"}, recipients(t, data))

	data, err = e.ExportShipping(ctx, export.Filter{Assignee: "marco"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Rossi Srl"}, recipients(t, data))

	_, err = e.ExportShipping(ctx, export.Filter{Category: model.Partner, Assignee: "Marco"})
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))

	_, err = e.ExportShipping(ctx, export.Filter{Category: model.Category("supplier")})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestExportShippingEmpty(t *testing.T) {
	e, _, _ := newTestEngine(t)
	_, err := e.ExportShipping(context.Background(), export.Filter{})
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
	assert.Equal(t, "no contacts to ship", apperr.Message(err))
}

// recipients returns the first column of the data rows of a shipping workbook.
func recipients(t *testing.T, data []byte) []string {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	var out []string
	for _, row := range rows[1:] {
		out = append(out, row[0])
	}
	return out
}
