package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"gitlab.com/dirk.krummacker/giftlist-service/internal/apperr"
	"gitlab.com/dirk.krummacker/giftlist-service/internal/model"
)

// contactColumns is the column list of every contact query.
const contactColumns = `id, category, name, company, street, house_number, postal_code, locality,
	province, phone, email, notes, partner_subtype, gift_flag, courier_flag, extra_gift_note,
	delivery_assignee, deleted, deleted_at, created_at, last_update`

const insertContact = `
	INSERT INTO contacts (category, name, company, street, house_number, postal_code, locality,
		province, phone, email, notes, partner_subtype, gift_flag, courier_flag, extra_gift_note,
		delivery_assignee, deleted, deleted_at, created_at, last_update)
	VALUES (:category, :name, :company, :street, :house_number, :postal_code, :locality,
		:province, :phone, :email, :notes, :partner_subtype, :gift_flag, :courier_flag,
		:extra_gift_note, :delivery_assignee, :deleted, :deleted_at, :created_at, :last_update)
`

const updateContact = `
	UPDATE contacts SET name=:name, company=:company, street=:street, house_number=:house_number,
		postal_code=:postal_code, locality=:locality, province=:province, phone=:phone,
		email=:email, notes=:notes, partner_subtype=:partner_subtype, gift_flag=:gift_flag,
		courier_flag=:courier_flag, extra_gift_note=:extra_gift_note,
		delivery_assignee=:delivery_assignee, deleted=:deleted, deleted_at=:deleted_at,
		last_update=:last_update
	WHERE id=:id
`

// DSN builds the data source name of the MySQL database.
func DSN(user, password, host, name string) string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC", user, password, host, name)
}

// CreateDatabase opens a connection pool to MySQL.
func CreateDatabase(dsn string) (*sql.DB, error) {
	sqlDB, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open mysql")
	}
	return sqlDB, nil
}

// MySQL is a Store backed by a MySQL database through sqlx. The database argument can be a real
// database for production use or a mock database within unit tests.
type MySQL struct {
	db *sqlx.DB
}

// NewMySQL wraps an open database handle.
func NewMySQL(sqlDB *sql.DB) *MySQL {
	return &MySQL{db: sqlx.NewDb(sqlDB, "mysql")}
}

// WithinTx implements Store.
func (s *MySQL) WithinTx(ctx context.Context, fn func(tx Tx) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.WrapStorage(err, "the database is not available")
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = apperr.WrapStorage(errors.Wrap(err, rbErr.Error()), "the changes could not be rolled back")
			}
		}
	}()
	if err = fn(&mysqlTx{tx: tx}); err != nil {
		return apperr.WrapStorage(err, "the changes could not be saved")
	}
	if err = tx.Commit(); err != nil {
		return apperr.WrapStorage(err, "the changes could not be saved")
	}
	return nil
}

type mysqlTx struct {
	tx *sqlx.Tx
}

func (t *mysqlTx) ListActive(ctx context.Context, category model.Category) ([]model.Contact, error) {
	var contacts []model.Contact
	err := t.tx.SelectContext(ctx, &contacts, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE category = ? AND deleted = FALSE
		ORDER BY id
		FOR UPDATE`, category)
	return contacts, errors.Wrap(err, "select active contacts")
}

func (t *mysqlTx) ListCategory(ctx context.Context, category model.Category) ([]model.Contact, error) {
	var contacts []model.Contact
	err := t.tx.SelectContext(ctx, &contacts, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE category = ?
		ORDER BY id`, category)
	return contacts, errors.Wrap(err, "select contacts")
}

func (t *mysqlTx) ListDeleted(ctx context.Context) ([]model.Contact, error) {
	var contacts []model.Contact
	err := t.tx.SelectContext(ctx, &contacts, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE deleted = TRUE
		ORDER BY id`)
	return contacts, errors.Wrap(err, "select trashed contacts")
}

func (t *mysqlTx) ListCourier(ctx context.Context) ([]model.Contact, error) {
	var contacts []model.Contact
	err := t.tx.SelectContext(ctx, &contacts, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE courier_flag = TRUE AND deleted = FALSE
		ORDER BY id`)
	return contacts, errors.Wrap(err, "select courier contacts")
}

func (t *mysqlTx) Get(ctx context.Context, id int64) (model.Contact, bool, error) {
	var contacts []model.Contact
	err := t.tx.SelectContext(ctx, &contacts, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE id = ?`, id)
	if err != nil {
		return model.Contact{}, false, errors.Wrap(err, "select contact")
	}
	if len(contacts) == 0 {
		return model.Contact{}, false, nil
	}
	return contacts[0], true, nil
}

func (t *mysqlTx) Insert(ctx context.Context, c *model.Contact) error {
	result, err := t.tx.NamedExecContext(ctx, insertContact, c)
	if err != nil {
		return errors.Wrap(err, "insert contact")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "insert contact")
	}
	c.Id = id
	return nil
}

// Update does not look at the affected row count: MySQL reports zero for an update that leaves
// the row unchanged.
func (t *mysqlTx) Update(ctx context.Context, c *model.Contact) error {
	_, err := t.tx.NamedExecContext(ctx, updateContact, c)
	return errors.Wrap(err, "update contact")
}

func (t *mysqlTx) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := t.tx.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return false, errors.Wrap(err, "delete contact")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "delete contact")
	}
	return rowsAffected == 1, nil
}

func (t *mysqlTx) DeleteTrashed(ctx context.Context) (int64, error) {
	result, err := t.tx.ExecContext(ctx, `DELETE FROM contacts WHERE deleted = TRUE`)
	if err != nil {
		return 0, errors.Wrap(err, "empty trash")
	}
	rowsAffected, err := result.RowsAffected()
	return rowsAffected, errors.Wrap(err, "empty trash")
}

func (t *mysqlTx) Settings(ctx context.Context) ([]model.Setting, error) {
	var settings []model.Setting
	err := t.tx.SelectContext(ctx, &settings, `
		SELECT setting_key, setting_value
		FROM settings
		ORDER BY setting_key`)
	return settings, errors.Wrap(err, "select settings")
}

func (t *mysqlTx) PutSetting(ctx context.Context, s model.Setting) error {
	_, err := t.tx.NamedExecContext(ctx, `
		INSERT INTO settings (setting_key, setting_value)
		VALUES (:setting_key, :setting_value)
		ON DUPLICATE KEY UPDATE setting_value = VALUES(setting_value)`, s)
	return errors.Wrap(err, "save setting")
}
