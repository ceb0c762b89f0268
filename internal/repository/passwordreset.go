package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/lcdsoft/storefront/internal/model"
)

type PasswordResetRepository interface {
	// FindActiveByTokenHash only returns resets that are unexpired and unused.
	FindActiveByTokenHash(ctx context.Context, tokenHash string) (*model.PasswordReset, error)
	Create(ctx context.Context, params model.CreatePasswordResetParams) (*model.PasswordReset, error)
	MarkUsed(ctx context.Context, id string) error
	DeleteByAccountID(ctx context.Context, accountID string) error
	DeleteExpired(ctx context.Context) (int64, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) PasswordResetRepository
}

type passwordResetRepo struct {
	db sqlxDB
}

func NewPasswordResetRepository(db *sqlx.DB) PasswordResetRepository {
	return &passwordResetRepo{db: db}
}

func (r *passwordResetRepo) WithTx(tx *sqlx.Tx) PasswordResetRepository {
	return &passwordResetRepo{db: tx}
}

func (r *passwordResetRepo) FindActiveByTokenHash(ctx context.Context, tokenHash string) (*model.PasswordReset, error) {
	var reset model.PasswordReset
	err := r.db.GetContext(ctx, &reset, `
		SELECT * FROM password_resets
		WHERE token_hash = $1 AND expires_at > NOW() AND used_at IS NULL
	`, tokenHash)
	return HandleNotFound(&reset, err)
}

func (r *passwordResetRepo) Create(ctx context.Context, params model.CreatePasswordResetParams) (*model.PasswordReset, error) {
	var reset model.PasswordReset
	err := r.db.GetContext(ctx, &reset, `
		INSERT INTO password_resets (id, token_hash, account_id, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING *
	`, params.ID, params.TokenHash, params.AccountID, params.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &reset, nil
}

func (r *passwordResetRepo) MarkUsed(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE password_resets SET used_at = NOW() WHERE id = $1
	`, id)
	return err
}

func (r *passwordResetRepo) DeleteByAccountID(ctx context.Context, accountID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM password_resets WHERE account_id = $1`, accountID)
	return err
}

// DeleteExpired also drops used rows so the table does not accumulate
// completed resets.
func (r *passwordResetRepo) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM password_resets WHERE expires_at < NOW() OR used_at IS NOT NULL
	`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
