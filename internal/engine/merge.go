package engine

import (
	"context"

	"github.com/sirupsen/logrus"

	"gitlab.com/dirk.krummacker/giftlist-service/internal/apperr"
	"gitlab.com/dirk.krummacker/giftlist-service/internal/importer"
	"gitlab.com/dirk.krummacker/giftlist-service/internal/model"
	"gitlab.com/dirk.krummacker/giftlist-service/internal/store"
)

// Conflict reports a spreadsheet row that matched a contact an earlier row of the same import had
// already written. The later row wins; the conflict tells the operator that two lines were folded
// into one contact.
type Conflict struct {
	Line    int    `json:"line"`
	Id      int64  `json:"id"`
	Name    string `json:"name"`
	Company string `json:"company"`
}

// MergeResult describes what merging imported records did.
type MergeResult struct {
	Contacts  []model.Contact
	Created   int
	Updated   int
	Conflicts []Conflict
}

// Merge matches imported records against the active contacts of a category by their identity key
// (name and company, case-insensitive). A match updates the contact and bumps its last update
// timestamp; anything else is created. Two different people who share name and company are
// folded into one contact; such folds within one import are listed as conflicts.
func (e *Engine) Merge(ctx context.Context, category model.Category, records []importer.Record) (MergeResult, error) {
	if err := checkCategory(category); err != nil {
		return MergeResult{}, err
	}
	unlock := e.lock(category)
	defer unlock()

	var result MergeResult
	now := e.timestamp()
	err := e.store.WithinTx(ctx, func(tx store.Tx) error {
		result = MergeResult{}
		active, err := tx.ListActive(ctx, category)
		if err != nil {
			return err
		}
		index := make(map[model.IdentityKey]*model.Contact, len(active))
		for i := range active {
			key := active[i].Key()
			if _, dup := index[key]; !dup {
				index[key] = &active[i]
			}
		}

		touched := map[model.IdentityKey]int{}
		var updated []*model.Contact
		var created []*model.Contact
		type fold struct {
			key  model.IdentityKey
			line int
		}
		var folds []fold
		for _, rec := range records {
			key := model.NewIdentityKey(rec.Text(model.Name), rec.Text(model.Company))
			c, ok := index[key]
			if !ok {
				c = &model.Contact{Category: category, CreatedAt: now, LastUpdate: now}
				index[key] = c
				created = append(created, c)
			} else if touched[key] == 0 && c.Id != 0 {
				updated = append(updated, c)
			}
			if touched[key] > 0 {
				folds = append(folds, fold{key: key, line: rec.Line})
			}
			touched[key]++
			if _, err := apply(c, rec.Fields); err != nil {
				return apperr.Validationf("line %d: %s", rec.Line, apperr.Message(err))
			}
			c.Touch(now)
		}

		for _, c := range updated {
			if err := tx.Update(ctx, c); err != nil {
				return err
			}
		}
		for _, c := range created {
			if err := tx.Insert(ctx, c); err != nil {
				return err
			}
		}
		result.Created = len(created)
		result.Updated = len(updated)
		for _, f := range folds {
			c := index[f.key]
			result.Conflicts = append(result.Conflicts, Conflict{
				Line: f.line, Id: c.Id, Name: c.Name, Company: c.Company,
			})
		}
		result.Contacts, err = tx.ListActive(ctx, category)
		return err
	})
	if err != nil {
		e.log.WithError(err).WithField("category", category).Error("import merge failed")
		return MergeResult{}, apperr.WrapStorage(err, "the imported contacts could not be saved")
	}
	if len(result.Conflicts) > 0 {
		e.log.WithFields(logrus.Fields{
			"category":  category,
			"conflicts": len(result.Conflicts),
		}).Warn("several rows share a name and company and were merged into one contact")
	}
	return result, nil
}

// ImportResult describes a spreadsheet import.
type ImportResult struct {
	MergeResult
	Sheet         string
	SheetFallback bool
	Positional    bool
	Dropped       int
	Unmapped      []string
}

// Import reads an uploaded workbook, picks the sheet of the category, normalizes its rows and
// merges them into the contacts of the category. A workbook without any usable row is rejected.
func (e *Engine) Import(ctx context.Context, category model.Category, filename string, data []byte) (ImportResult, error) {
	if err := checkCategory(category); err != nil {
		return ImportResult{}, err
	}
	wb, err := importer.OpenWorkbook(filename, data)
	if err != nil {
		return ImportResult{}, err
	}
	defer wb.Close()

	choice, ok := importer.SelectSheet(wb.SheetNames(), category)
	if !ok {
		return ImportResult{}, apperr.ImportFormatf("the workbook has no sheets")
	}
	log := e.log.WithFields(logrus.Fields{"category": category, "file": filename, "sheet": choice.Name})
	if choice.Fallback {
		log.Warn("no sheet matches the category, using the first sheet")
	}
	table, err := wb.Table(choice.Name)
	if err != nil {
		return ImportResult{}, err
	}
	normalized := importer.Normalize(table)
	if len(normalized.Records) == 0 {
		return ImportResult{}, apperr.ImportFormatf("the sheet %q contains no usable rows", choice.Name)
	}
	merged, err := e.Merge(ctx, category, normalized.Records)
	if err != nil {
		return ImportResult{}, err
	}
	log.WithFields(logrus.Fields{
		"created":    merged.Created,
		"updated":    merged.Updated,
		"dropped":    normalized.Dropped,
		"positional": normalized.Positional,
	}).Info("spreadsheet imported")
	return ImportResult{
		MergeResult:   merged,
		Sheet:         choice.Name,
		SheetFallback: choice.Fallback,
		Positional:    normalized.Positional,
		Dropped:       normalized.Dropped,
		Unmapped:      normalized.Unmapped,
	}, nil
}
