package model

import (
	"fmt"
	"time"
)

// Product prices are stored as integer cents so arithmetic and comparison
// never go through floating point.
type Product struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	PriceCents  int64     `db:"price_cents" json:"priceCents"`
	OwnerID     *string   `db:"owner_id" json:"ownerId,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Price renders the amount for templates, e.g. "12.50".
func (p *Product) Price() string {
	return fmt.Sprintf("%d.%02d", p.PriceCents/100, p.PriceCents%100)
}

type CreateProductParams struct {
	ID          string
	Name        string
	Description string
	PriceCents  int64
	OwnerID     *string
}

type UpdateProductParams struct {
	Name        string
	Description string
	PriceCents  int64
}
