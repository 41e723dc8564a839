package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Crypto-Scavenger/Ing-Fast/internal/model"
)

type SettingRepository interface {
	Find(ctx context.Context, key string) (*model.Setting, error)
	All(ctx context.Context) ([]model.Setting, error)
	Upsert(ctx context.Context, key, value string) error
	// UpsertIfAbsent seeds a default without overwriting an existing value.
	UpsertIfAbsent(ctx context.Context, key, value string) error
	DeleteAll(ctx context.Context) (int64, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) SettingRepository
}

type settingRepo struct {
	db db
}

func NewSettingRepository(db *sqlx.DB) SettingRepository {
	return &settingRepo{db: db}
}

func (r *settingRepo) WithTx(tx *sqlx.Tx) SettingRepository {
	return &settingRepo{db: tx}
}

func (r *settingRepo) Find(ctx context.Context, key string) (*model.Setting, error) {
	var setting model.Setting
	err := r.db.GetContext(ctx, &setting, `
		SELECT * FROM fasting_settings WHERE setting_key = $1
	`, key)
	return handleNotFound(&setting, err)
}

func (r *settingRepo) All(ctx context.Context) ([]model.Setting, error) {
	var settings []model.Setting
	err := r.db.SelectContext(ctx, &settings, `
		SELECT * FROM fasting_settings ORDER BY setting_key
	`)
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *settingRepo) Upsert(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO fasting_settings (setting_key, setting_value)
		VALUES ($1, $2)
		ON CONFLICT (setting_key) DO UPDATE SET setting_value = EXCLUDED.setting_value
	`, key, value)
	return err
}

func (r *settingRepo) UpsertIfAbsent(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO fasting_settings (setting_key, setting_value)
		VALUES ($1, $2)
		ON CONFLICT (setting_key) DO NOTHING
	`, key, value)
	return err
}

func (r *settingRepo) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM fasting_settings`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
