package cart

import (
	"context"

	"github.com/angelmondragon/storefront-backend/internal/repo"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists one cart per user.
type Repository struct {
	repo.Base
}

// NewRepository binds the repository to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindByUser returns the user's cart or gorm.ErrRecordNotFound.
func (r *Repository) FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []models.LineItem{}
	}
	return &cart, nil
}

// GetOrCreate loads the user's cart, creating an empty one on first use. A
// concurrent creator losing the unique race re-reads the winner's row.
func (r *Repository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := r.FindByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !db.IsNotFound(err) {
		return nil, err
	}

	cart = &models.Cart{UserID: userID}
	Recompute(cart)
	if err := r.DB(ctx).Create(cart).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return r.FindByUser(ctx, userID)
		}
		return nil, err
	}
	return cart, nil
}

// Save writes the cart lines and totals.
func (r *Repository) Save(ctx context.Context, cart *models.Cart) error {
	return r.DB(ctx).Save(cart).Error
}
