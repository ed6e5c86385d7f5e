package engine

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"

	"gitlab.com/dirk.krummacker/giftlist-service/internal/apperr"
	"gitlab.com/dirk.krummacker/giftlist-service/internal/importer"
	"gitlab.com/dirk.krummacker/giftlist-service/internal/model"
	"gitlab.com/dirk.krummacker/giftlist-service/internal/store"
)

const maxSettingKey = 50

// defaultSettings returns the stored form of the settings every installation starts with.
func (e *Engine) defaultSettings() []model.Setting {
	return []model.Setting{
		{Key: model.SettingCurrentGift, Value: "Grappa"},
		{Key: model.SettingCurrentYear, Value: strconv.Itoa(e.now().Year())},
		{Key: model.SettingAssignees, Value: "[]"},
	}
}

// Settings returns every setting in its typed form. Missing defaults are stored first.
func (e *Engine) Settings(ctx context.Context) (map[string]any, error) {
	out := map[string]any{}
	err := e.store.WithinTx(ctx, func(tx store.Tx) error {
		stored, err := tx.Settings(ctx)
		if err != nil {
			return err
		}
		present := make(map[string]bool, len(stored))
		for _, s := range stored {
			present[s.Key] = true
		}
		for _, d := range e.defaultSettings() {
			if present[d.Key] {
				continue
			}
			if err := tx.PutSetting(ctx, d); err != nil {
				return err
			}
			stored = append(stored, d)
		}
		for _, s := range stored {
			out[s.Key] = decodeSetting(s)
		}
		return nil
	})
	if err != nil {
		return nil, apperr.WrapStorage(err, "the settings could not be loaded")
	}
	return out, nil
}

// SaveSettings stores every given setting. The year must be an integer and the assignees a list
// of names; all other values are stored as text.
func (e *Engine) SaveSettings(ctx context.Context, values map[string]any) error {
	if len(values) == 0 {
		return apperr.Validationf("no settings to save")
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	encoded := make([]model.Setting, 0, len(keys))
	for _, k := range keys {
		if k == "" || len(k) > maxSettingKey {
			return apperr.Validationf("invalid setting key %q", k)
		}
		v, err := encodeSetting(k, values[k])
		if err != nil {
			return err
		}
		encoded = append(encoded, model.Setting{Key: k, Value: v})
	}
	err := e.store.WithinTx(ctx, func(tx store.Tx) error {
		for _, s := range encoded {
			if err := tx.PutSetting(ctx, s); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return apperr.WrapStorage(err, "the settings could not be saved")
	}
	e.log.WithField("keys", keys).Info("settings saved")
	return nil
}

func decodeSetting(s model.Setting) any {
	switch s.Key {
	case model.SettingCurrentYear:
		if year, err := strconv.Atoi(s.Value); err == nil {
			return year
		}
	case model.SettingAssignees:
		var names []string
		if err := json.Unmarshal([]byte(s.Value), &names); err == nil {
			if names == nil {
				names = []string{}
			}
			return names
		}
	}
	return s.Value
}

func encodeSetting(key string, value any) (string, error) {
	switch key {
	case model.SettingCurrentYear:
		year, err := strconv.Atoi(importer.Stringify(value))
		if err != nil {
			return "", apperr.Validationf("%s must be a year, got %v", key, value)
		}
		return strconv.Itoa(year), nil
	case model.SettingAssignees:
		list, ok := value.([]any)
		if !ok {
			return "", apperr.Validationf("%s must be a list of names", key)
		}
		names := make([]string, 0, len(list))
		for _, v := range list {
			if name := importer.Stringify(v); name != "" {
				names = append(names, name)
			}
		}
		b, err := json.Marshal(names)
		if err != nil {
			return "", apperr.Validationf("%s must be a list of names", key)
		}
		return string(b), nil
	}
	return importer.Stringify(value), nil
}
