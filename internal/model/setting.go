package model

// Setting is a single persisted key/value pair. Values are always stored as text; the typed view
// is produced by the settings code.
type Setting struct {
	Key   string `db:"setting_key"`
	Value string `db:"setting_value"`
}

// Setting keys known to the service.
const (
	SettingCurrentGift = "currentGift"
	SettingCurrentYear = "currentYear"
	SettingAssignees   = "assignees"
)
