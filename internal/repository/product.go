package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/lcdsoft/storefront/internal/model"
)

type ProductRepository interface {
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindAll(ctx context.Context, limit, offset int) ([]model.Product, error)
	Create(ctx context.Context, params model.CreateProductParams) (*model.Product, error)
	Update(ctx context.Context, id string, params model.UpdateProductParams) (*model.Product, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) ProductRepository
}

type productRepo struct {
	db sqlxDB
}

func NewProductRepository(db *sqlx.DB) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) WithTx(tx *sqlx.Tx) ProductRepository {
	return &productRepo{db: tx}
}

func (r *productRepo) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	err := r.db.GetContext(ctx, &product, `
		SELECT * FROM products WHERE id = $1
	`, id)
	return HandleNotFound(&product, err)
}

func (r *productRepo) FindAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.SelectContext(ctx, &products, `
		SELECT * FROM products
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepo) Create(ctx context.Context, params model.CreateProductParams) (*model.Product, error) {
	var product model.Product
	err := r.db.GetContext(ctx, &product, `
		INSERT INTO products (id, name, description, price_cents, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, params.ID, params.Name, params.Description, params.PriceCents, params.OwnerID)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Update(ctx context.Context, id string, params model.UpdateProductParams) (*model.Product, error) {
	var product model.Product
	err := r.db.GetContext(ctx, &product, `
		UPDATE products
		SET name = $2, description = $3, price_cents = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`, id, params.Name, params.Description, params.PriceCents)
	return HandleNotFound(&product, err)
}

func (r *productRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	return err
}

func (r *productRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM products`)
	return count, err
}
