package model

import (
	"time"
)

// PasswordReset rows are single use: UsedAt is set on the first successful
// completion and the row then behaves as absent.
type PasswordReset struct {
	ID        string     `db:"id" json:"id"`
	TokenHash string     `db:"token_hash" json:"-"`
	AccountID string     `db:"account_id" json:"accountId"`
	ExpiresAt time.Time  `db:"expires_at" json:"expiresAt"`
	UsedAt    *time.Time `db:"used_at" json:"usedAt,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
}

type CreatePasswordResetParams struct {
	ID        string
	TokenHash string
	AccountID string
	ExpiresAt time.Time
}
