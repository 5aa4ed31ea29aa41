package finance

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rasilexpress/backoffice/pkg/db/models"
)

// Repository reads balances and appends journal rows. Journal rows are never
// updated or deleted.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateTransaction(ctx context.Context, txn *models.FinancialTransaction) error
	ListTransactionsByUser(ctx context.Context, userID uuid.UUID) ([]models.FinancialTransaction, error)

	FindCourierProfile(ctx context.Context, userID uuid.UUID) (*models.CourierProfile, error)
	FindMerchantProfile(ctx context.Context, userID uuid.UUID) (*models.MerchantProfile, error)
	FindCompanyFinancials(ctx context.Context) (*models.CompanyFinancials, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a finance repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateTransaction(ctx context.Context, txn *models.FinancialTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *repository) ListTransactionsByUser(ctx context.Context, userID uuid.UUID) ([]models.FinancialTransaction, error) {
	var txns []models.FinancialTransaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *repository) FindCourierProfile(ctx context.Context, userID uuid.UUID) (*models.CourierProfile, error) {
	var profile models.CourierProfile
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repository) FindMerchantProfile(ctx context.Context, userID uuid.UUID) (*models.MerchantProfile, error) {
	var profile models.MerchantProfile
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repository) FindCompanyFinancials(ctx context.Context) (*models.CompanyFinancials, error) {
	var financials models.CompanyFinancials
	if err := r.db.WithContext(ctx).
		Where("id = ?", models.CompanyFinancialsID).
		First(&financials).Error; err != nil {
		return nil, err
	}
	return &financials, nil
}
