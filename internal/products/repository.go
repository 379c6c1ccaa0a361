package product

import (
	"context"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/repo"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists catalog products.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// List returns one page of active products matching q plus the total match
// count. q.Pagination must already be normalized.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]models.Product, int64, error) {
	base := r.DB(ctx).Model(&models.Product{}).Scopes(activeProducts, filterScope(q))

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base.Session(&gorm.Session{}).Scopes(repo.Paginate(q.Pagination))
	for _, clause := range orderClauses(q.Sort) {
		query = query.Order(clause)
	}

	var rows []models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// FindByID loads a product regardless of its active flag.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindActiveByID loads a product that is still sellable.
func (r *Repository) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).Scopes(activeProducts).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).Create(product).Error
}

// Save writes every column of an existing product.
func (r *Repository) Save(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).Save(product).Error
}

// Deactivate soft-deletes a product. It reports false when no row matched.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.DB(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_active": false, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DistinctCategories lists the categories in use by active products.
func (r *Repository) DistinctCategories(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "category")
}

// DistinctBrands lists the brands in use by active products.
func (r *Repository) DistinctBrands(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "brand")
}

func (r *Repository) distinct(ctx context.Context, column string) ([]string, error) {
	var values []string
	err := r.DB(ctx).Model(&models.Product{}).
		Scopes(activeProducts).
		Distinct(column).
		Order(column).
		Pluck(column, &values).
		Error
	if err != nil {
		return nil, err
	}
	return values, nil
}

// AdjustInventory adds delta to the stored quantity in a single statement.
// There is no floor guard: concurrent checkouts can drive the value negative.
func (r *Repository) AdjustInventory(ctx context.Context, productID uuid.UUID, delta int) error {
	res := r.DB(ctx).Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"inventory_quantity": gorm.Expr("inventory_quantity + ?", delta),
			"updated_at":         time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func activeProducts(tx *gorm.DB) *gorm.DB {
	return tx.Where("is_active = ?", true)
}

func filterScope(q ListQuery) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if term := strings.ToLower(strings.TrimSpace(q.Search)); term != "" {
			like := "%" + escapeLike(term) + "%"
			tx = tx.Where(
				"(LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\' OR LOWER(brand) LIKE ? ESCAPE '\\' OR LOWER(CAST(tags AS TEXT)) LIKE ? ESCAPE '\\')",
				like, like, like, like,
			)
		}
		if q.Category != nil {
			tx = tx.Where("category = ?", string(*q.Category))
		}
		if brand := strings.TrimSpace(q.Brand); brand != "" {
			tx = tx.Where("brand = ?", brand)
		}
		if q.MinPrice != nil {
			tx = tx.Where("price >= ?", *q.MinPrice)
		}
		if q.MaxPrice != nil {
			tx = tx.Where("price <= ?", *q.MaxPrice)
		}
		if q.Featured {
			tx = tx.Where("is_featured = ?", true)
		}
		return tx
	}
}

func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}
