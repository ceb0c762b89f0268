package model

import (
	"time"
)

type Account struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	DisplayName  string    `db:"display_name" json:"displayName"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

type CreateAccountParams struct {
	Email        string
	PasswordHash string
	DisplayName  string
}

// AccountProjection is the public view of an account: what handlers render
// and what a session carries. Never includes the password hash.
type AccountProjection struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

func (a *Account) Projection() AccountProjection {
	return AccountProjection{
		ID:          a.ID,
		Email:       a.Email,
		DisplayName: a.DisplayName,
	}
}
