package expenses

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rasilexpress/backoffice/pkg/db/models"
	"github.com/rasilexpress/backoffice/pkg/enums"
)

// Repository manages expense vouchers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, expense *models.Expense) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Expense, error)
	List(ctx context.Context, filter ListFilter) ([]models.Expense, error)
	ListApprovedUnsettled(ctx context.Context, userID uuid.UUID) ([]models.Expense, error)

	UpdateStatusCAS(ctx context.Context, id uuid.UUID, from, to enums.ExpenseStatus, reviewedBy *uuid.UUID) (int64, error)
	MarkApprovedSettled(ctx context.Context, userID, settlementID uuid.UUID) (int64, error)
}

// ListFilter narrows the expense list read surface.
type ListFilter struct {
	UserID *uuid.UUID
	Status *enums.ExpenseStatus
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an expenses repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, expense *models.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Expense, error) {
	var expense models.Expense
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&expense).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.Expense, error) {
	query := r.db.WithContext(ctx).Model(&models.Expense{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var expenses []models.Expense
	if err := query.Order("created_at DESC").Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *repository) ListApprovedUnsettled(ctx context.Context, userID uuid.UUID) ([]models.Expense, error) {
	var expenses []models.Expense
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND settlement_id IS NULL", userID, enums.ExpenseStatusApproved).
		Order("created_at ASC").
		Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

// UpdateStatusCAS writes the status and the deciding reviewer only when the
// row still carries the expected previous status.
func (r *repository) UpdateStatusCAS(ctx context.Context, id uuid.UUID, from, to enums.ExpenseStatus, reviewedBy *uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Expense{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{
			"status":      to,
			"reviewed_by": reviewedBy,
		})
	return result.RowsAffected, result.Error
}

func (r *repository) MarkApprovedSettled(ctx context.Context, userID, settlementID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Expense{}).
		Where("user_id = ? AND status = ? AND settlement_id IS NULL", userID, enums.ExpenseStatusApproved).
		Updates(map[string]any{
			"status":        enums.ExpenseStatusSettled,
			"settlement_id": settlementID,
		})
	return result.RowsAffected, result.Error
}
