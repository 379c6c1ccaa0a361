package orders

import (
	"context"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
)

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, int64, error)
	ListAll(ctx context.Context, filters AdminFilters, params pagination.Params) ([]models.Order, int64, error)
	Save(ctx context.Context, order *models.Order) error
}

// AdminFilters narrows the admin order listing.
type AdminFilters struct {
	Status    *enums.OrderStatus
	StartDate *time.Time
	EndDate   *time.Time
}
