package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/lcdsoft/storefront/internal/errors"
	"github.com/lcdsoft/storefront/internal/model"
	"github.com/lcdsoft/storefront/internal/repository"
)

const (
	productNameMaxLength = 120
	productListLimit     = 50
)

type ProductService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

func (s *ProductService) List(ctx context.Context, page int) ([]model.Product, error) {
	if page < 1 {
		page = 1
	}
	return s.productRepo.FindAll(ctx, productListLimit, (page-1)*productListLimit)
}

func (s *ProductService) Get(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperrors.NotFound("product")
	}
	return product, nil
}

func (s *ProductService) Create(ctx context.Context, name, description, price string, ownerID string) (*model.Product, error) {
	cents, err := validateProduct(name, description, price)
	if err != nil {
		return nil, err
	}

	params := model.CreateProductParams{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		PriceCents:  cents,
	}
	if ownerID != "" {
		params.OwnerID = &ownerID
	}

	return s.productRepo.Create(ctx, params)
}

func (s *ProductService) Update(ctx context.Context, id, name, description, price string) (*model.Product, error) {
	cents, err := validateProduct(name, description, price)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.Update(ctx, id, model.UpdateProductParams{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		PriceCents:  cents,
	})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperrors.NotFound("product")
	}
	return product, nil
}

func (s *ProductService) Count(ctx context.Context) (int, error) {
	return s.productRepo.Count(ctx)
}

// Delete is idempotent; removing an absent product succeeds.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	return s.productRepo.Delete(ctx, id)
}

func validateProduct(name, description, price string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, apperrors.MissingRequired("name")
	}
	if len(name) > productNameMaxLength {
		return 0, apperrors.ValidationError("Product name is too long")
	}
	if strings.TrimSpace(description) == "" {
		return 0, apperrors.MissingRequired("description")
	}
	return ParsePrice(price)
}

// ParsePrice converts a decimal form value like "12.50" into cents. At most
// two fraction digits are accepted and negative amounts are rejected.
func ParsePrice(input string) (int64, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, apperrors.MissingRequired("price")
	}
	if strings.HasPrefix(s, "-") {
		return 0, apperrors.ValidationError("Price must not be negative")
	}

	whole, frac, hasFrac := strings.Cut(s, ".")

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units < 0 {
		return 0, apperrors.ValidationError("Price must be a number like 12.50")
	}

	var cents int64
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, apperrors.ValidationError("Price must be a number like 12.50")
		}
		f, err := strconv.ParseInt(frac, 10, 64)
		if err != nil || f < 0 {
			return 0, apperrors.ValidationError("Price must be a number like 12.50")
		}
		if len(frac) == 1 {
			f *= 10
		}
		cents = f
	}

	return units*100 + cents, nil
}
