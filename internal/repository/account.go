package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Crypto-Scavenger/Ing-Fast/internal/model"
)

type AccountRepository interface {
	FindByID(ctx context.Context, id string) (*model.Account, error)
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.Account, error)
	Create(ctx context.Context, params model.CreateAccountParams) (*model.Account, error)
	UpdateTokenHash(ctx context.Context, id, tokenHash string) error
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) AccountRepository
}

type accountRepo struct {
	db db
}

func NewAccountRepository(db *sqlx.DB) AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) WithTx(tx *sqlx.Tx) AccountRepository {
	return &accountRepo{db: tx}
}

func (r *accountRepo) FindByID(ctx context.Context, id string) (*model.Account, error) {
	var account model.Account
	err := r.db.GetContext(ctx, &account, `
		SELECT * FROM accounts WHERE id = $1
	`, id)
	return handleNotFound(&account, err)
}

func (r *accountRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.Account, error) {
	var account model.Account
	err := r.db.GetContext(ctx, &account, `
		SELECT * FROM accounts
		WHERE api_token_hash = $1 AND disabled_at IS NULL
	`, tokenHash)
	return handleNotFound(&account, err)
}

func (r *accountRepo) Create(ctx context.Context, params model.CreateAccountParams) (*model.Account, error) {
	var account model.Account
	err := r.db.GetContext(ctx, &account, `
		INSERT INTO accounts (display_name, api_token_hash, rate_limit_per_minute)
		VALUES ($1, $2, $3)
		RETURNING *
	`, params.DisplayName, params.APITokenHash, params.RateLimitPerMin)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepo) UpdateTokenHash(ctx context.Context, id, tokenHash string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE accounts SET
			api_token_hash = $2,
			updated_at = $3
		WHERE id = $1
	`, id, tokenHash, time.Now())
	return err
}
