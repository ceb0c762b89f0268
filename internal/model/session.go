package model

import (
	"time"
)

type Session struct {
	ID        string    `db:"id" json:"id"`
	TokenHash string    `db:"token_hash" json:"-"`
	AccountID string    `db:"account_id" json:"accountId"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type CreateSessionParams struct {
	TokenHash string
	AccountID string
	ExpiresAt time.Time
}
