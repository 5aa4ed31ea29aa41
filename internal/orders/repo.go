package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rasilexpress/backoffice/pkg/db/models"
	"github.com/rasilexpress/backoffice/pkg/enums"
	"github.com/rasilexpress/backoffice/pkg/pagination"
)

// Repository manages persistence for orders, their items, and history.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, order *models.Order) error
	CreateItems(ctx context.Context, items []models.OrderItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filter ListOrdersFilter, page pagination.Params) ([]models.Order, error)
	ListHistory(ctx context.Context, orderID uuid.UUID) ([]models.OrderHistory, error)

	UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpdateStatusCAS(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus) (int64, error)
	UpdateItemReturnedQuantity(ctx context.Context, orderID, itemID uuid.UUID, quantity int) (int64, error)
	CreateHistory(ctx context.Context, history *models.OrderHistory) error

	NextOrderNumber(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an orders repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context, filter ListOrdersFilter, page pagination.Params) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.MerchantID != nil {
		query = query.Where("merchant_id = ?", *filter.MerchantID)
	}
	if filter.CourierID != nil {
		query = query.Where("delivery_courier_id = ?", *filter.CourierID)
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}

	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Order
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(page.Limit)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListHistory(ctx context.Context, orderID uuid.UUID) ([]models.OrderHistory, error) {
	var history []models.OrderHistory
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}

func (r *repository) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// UpdateStatusCAS writes the status only when the row still carries the
// expected previous status. Zero affected rows signals a concurrent
// transition.
func (r *repository) UpdateStatusCAS(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

func (r *repository) UpdateItemReturnedQuantity(ctx context.Context, orderID, itemID uuid.UUID, quantity int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("id = ? AND order_id = ?", itemID, orderID).
		Update("returned_quantity", quantity)
	return result.RowsAffected, result.Error
}

func (r *repository) CreateHistory(ctx context.Context, history *models.OrderHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

// NextOrderNumber bumps and returns the shared order-number sequence.
func (r *repository) NextOrderNumber(ctx context.Context) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).
		Raw("UPDATE sequences SET value = value + 1 WHERE name = ? RETURNING value", models.SequenceOrderNumber).
		Scan(&value).Error
	if err != nil {
		return 0, err
	}
	if value == 0 {
		return 0, fmt.Errorf("sequence %q not seeded", models.SequenceOrderNumber)
	}
	return value, nil
}
