package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const productNotFoundMessage = "Product not found"

// Service exposes catalog browsing and admin product management.
type Service interface {
	List(ctx context.Context, q ListQuery) (*ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Create(ctx context.Context, req CreateProductRequest) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Categories(ctx context.Context) ([]string, error)
	Brands(ctx context.Context) ([]string, error)
}

type productStore interface {
	List(ctx context.Context, q ListQuery) ([]models.Product, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Save(ctx context.Context, product *models.Product) error
	Deactivate(ctx context.Context, id uuid.UUID) (bool, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	DistinctBrands(ctx context.Context) ([]string, error)
}

type service struct {
	repo productStore
}

// NewService constructs a product service instance.
func NewService(repo productStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	q.Pagination = q.Pagination.Normalize(DefaultPageLimit)
	if q.Category != nil && !q.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid category")
	}

	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return &ListResult{
		Products:   fromModels(rows),
		Pagination: pagination.NewMeta(q.Pagination, total),
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "load product")
	}
	dto := FromModel(*product)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, req CreateProductRequest) (*ProductDTO, error) {
	if err := validatePrice(req.Price); err != nil {
		return nil, err
	}
	if !req.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid category")
	}

	threshold := models.DefaultLowStockThreshold
	if req.LowStockThreshold != nil {
		threshold = *req.LowStockThreshold
	}

	product := &models.Product{
		Name:              strings.TrimSpace(req.Name),
		Description:       strings.TrimSpace(req.Description),
		Price:             req.Price,
		Category:          req.Category,
		Brand:             strings.TrimSpace(req.Brand),
		Images:            req.Images,
		InventoryQuantity: req.InventoryQuantity,
		LowStockThreshold: threshold,
		Specifications:    req.Specifications,
		Weight:            req.Weight,
		Dimensions:        req.Dimensions,
		Tags:              normalizeTags(req.Tags),
		IsActive:          true,
		IsFeatured:        req.IsFeatured,
		SEO:               req.SEO,
	}
	ensureSlug(product)

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	dto := FromModel(*product)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "load product")
	}
	if err := applyUpdate(product, req); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	dto := FromModel(*product)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	found, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, productNotFoundMessage)
	}
	return nil
}

func (s *service) Categories(ctx context.Context) ([]string, error) {
	values, err := s.repo.DistinctCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	return nonNil(values), nil
}

func (s *service) Brands(ctx context.Context) ([]string, error) {
	values, err := s.repo.DistinctBrands(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list brands")
	}
	return nonNil(values), nil
}

func applyUpdate(product *models.Product, req UpdateProductRequest) error {
	nameChanged := false
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		nameChanged = name != product.Name
		product.Name = name
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		if err := validatePrice(*req.Price); err != nil {
			return err
		}
		product.Price = *req.Price
	}
	if req.Category != nil {
		if !req.Category.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "Invalid category")
		}
		product.Category = *req.Category
	}
	if req.Brand != nil {
		product.Brand = strings.TrimSpace(*req.Brand)
	}
	if req.Images != nil {
		product.Images = *req.Images
	}
	if req.InventoryQuantity != nil {
		product.InventoryQuantity = *req.InventoryQuantity
	}
	if req.LowStockThreshold != nil {
		product.LowStockThreshold = *req.LowStockThreshold
	}
	if req.Specifications != nil {
		product.Specifications = *req.Specifications
	}
	if req.Weight != nil {
		product.Weight = req.Weight
	}
	if req.Dimensions != nil {
		product.Dimensions = req.Dimensions
	}
	if req.Tags != nil {
		product.Tags = normalizeTags(*req.Tags)
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}
	if req.SEO != nil {
		product.SEO = *req.SEO
	}
	if nameChanged || req.SEO != nil {
		ensureSlug(product)
	}
	return nil
}

// ensureSlug derives the slug from the name when none was supplied.
func ensureSlug(product *models.Product) {
	if strings.TrimSpace(product.SEO.Slug) == "" {
		product.SEO.Slug = Slugify(product.Name)
	}
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "Price cannot be negative")
	}
	return nil
}

func normalizeTags(tags []string) pq.StringArray {
	out := make(pq.StringArray, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.ToLower(strings.TrimSpace(tag)); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

func notFoundOr(err error, msg string) error {
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, productNotFoundMessage)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, msg)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
