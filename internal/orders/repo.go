package orders

import (
	"context"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/repo"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	orderNumberConstraint = "orders_order_number_key"
	orderNumberAttempts   = 3
)

type repository struct {
	repo.Base
	now func() time.Time
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db), now: time.Now}
}

// Create inserts the order, assigning an order number when none is set. A
// colliding number is regenerated a bounded number of times.
func (r *repository) Create(ctx context.Context, order *models.Order) error {
	assigned := order.OrderNumber == ""
	var err error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		if assigned {
			if order.OrderNumber, err = NewOrderNumber(r.now()); err != nil {
				return err
			}
		}
		err = r.DB(ctx).Create(order).Error
		if err == nil || !assigned || !isOrderNumberCollision(err) {
			return err
		}
		order.ID = uuid.Nil
	}
	return err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, int64, error) {
	return r.page(r.DB(ctx).Model(&models.Order{}).Where("user_id = ?", userID), params)
}

func (r *repository) ListAll(ctx context.Context, filters AdminFilters, params pagination.Params) ([]models.Order, int64, error) {
	query := r.DB(ctx).Model(&models.Order{})
	if filters.Status != nil {
		query = query.Where("status = ?", string(*filters.Status))
	}
	if filters.StartDate != nil {
		query = query.Where("created_at >= ?", filters.StartDate.UTC())
	}
	if filters.EndDate != nil {
		query = query.Where("created_at <= ?", filters.EndDate.UTC())
	}
	return r.page(query, params)
}

// Save writes every column of an existing order.
func (r *repository) Save(ctx context.Context, order *models.Order) error {
	return r.DB(ctx).Save(order).Error
}

func (r *repository) page(query *gorm.DB, params pagination.Params) ([]models.Order, int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Order
	err := query.Session(&gorm.Session{}).
		Scopes(repo.Paginate(params)).
		Order("created_at DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func isOrderNumberCollision(err error) bool {
	return db.IsUniqueViolation(err, orderNumberConstraint) || db.IsUniqueViolation(err, "orders.order_number")
}
