package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rasilexpress/backoffice/pkg/db/models"
	"github.com/rasilexpress/backoffice/pkg/enums"
)

// Repository manages courier ledger entries and running balances.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateEntry(ctx context.Context, entry *models.CourierLedgerEntry) error
	FindEntryByOrderID(ctx context.Context, orderID uuid.UUID) (*models.CourierLedgerEntry, error)
	ListPendingByCourier(ctx context.Context, courierID uuid.UUID) ([]models.CourierLedgerEntry, error)
	MarkEntriesSettled(ctx context.Context, courierID, settlementID uuid.UUID) (int64, error)

	AddCourierBalance(ctx context.Context, courierID uuid.UUID, delta decimal.Decimal) error
	AddMerchantBalance(ctx context.Context, merchantID uuid.UUID, delta decimal.Decimal) error
	AddCompanyFunds(ctx context.Context, revenueDelta, balanceDelta decimal.Decimal) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateEntry(ctx context.Context, entry *models.CourierLedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) FindEntryByOrderID(ctx context.Context, orderID uuid.UUID) (*models.CourierLedgerEntry, error) {
	var entry models.CourierLedgerEntry
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) ListPendingByCourier(ctx context.Context, courierID uuid.UUID) ([]models.CourierLedgerEntry, error) {
	var entries []models.CourierLedgerEntry
	if err := r.db.WithContext(ctx).
		Where("courier_id = ? AND status = ?", courierID, enums.LedgerEntryStatusPending).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// MarkEntriesSettled sweeps the courier's pending collections into a
// settlement. Only COLLECTION entries participate; other entry types are
// never consumed by a courier closeout.
func (r *repository) MarkEntriesSettled(ctx context.Context, courierID, settlementID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CourierLedgerEntry{}).
		Where("courier_id = ? AND status = ? AND type = ?", courierID, enums.LedgerEntryStatusPending, enums.LedgerEntryTypeCollection).
		Updates(map[string]any{
			"status":        enums.LedgerEntryStatusSettled,
			"settlement_id": settlementID,
		})
	return result.RowsAffected, result.Error
}

func (r *repository) AddCourierBalance(ctx context.Context, courierID uuid.UUID, delta decimal.Decimal) error {
	profile := models.CourierProfile{UserID: courierID, CurrentBalance: delta}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"current_balance": gorm.Expr("courier_profiles.current_balance + ?", delta),
		}),
	}).Create(&profile).Error
}

func (r *repository) AddMerchantBalance(ctx context.Context, merchantID uuid.UUID, delta decimal.Decimal) error {
	profile := models.MerchantProfile{UserID: merchantID, CurrentBalance: delta}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"current_balance": gorm.Expr("merchant_profiles.current_balance + ?", delta),
		}),
	}).Create(&profile).Error
}

func (r *repository) AddCompanyFunds(ctx context.Context, revenueDelta, balanceDelta decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.CompanyFinancials{}).
		Where("id = ?", models.CompanyFinancialsID).
		Updates(map[string]any{
			"total_revenue":   gorm.Expr("total_revenue + ?", revenueDelta),
			"current_balance": gorm.Expr("current_balance + ?", balanceDelta),
		}).Error
}
