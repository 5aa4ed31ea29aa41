package settlements

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rasilexpress/backoffice/pkg/db/models"
	"github.com/rasilexpress/backoffice/pkg/enums"
)

// Repository manages settlements, journal rows, and the settlement marks on
// orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	FindSettlement(ctx context.Context, id uuid.UUID) (*models.Settlement, error)
	ListSettlements(ctx context.Context, settlementType *enums.SettlementType) ([]models.Settlement, error)

	CreateTransaction(ctx context.Context, txn *models.FinancialTransaction) error

	ListCourierPending(ctx context.Context, courierID uuid.UUID) ([]CourierPreviewLine, error)
	ListMerchantUnsettled(ctx context.Context, merchantID uuid.UUID) ([]models.Order, error)

	MarkCourierOrdersSettled(ctx context.Context, courierID, settlementID uuid.UUID) (int64, error)
	MarkMerchantOrdersSettled(ctx context.Context, merchantID, settlementID uuid.UUID) (int64, error)
}

// merchantSettleStatuses are the order states a merchant closeout consumes.
var merchantSettleStatuses = []enums.OrderStatus{
	enums.OrderStatusDelivered,
	enums.OrderStatusPartialDelivery,
	enums.OrderStatusReturned,
	enums.OrderStatusReturnedToMerchant,
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a settlements repository bound to the provided
// database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	return r.db.WithContext(ctx).Create(settlement).Error
}

func (r *repository) FindSettlement(ctx context.Context, id uuid.UUID) (*models.Settlement, error) {
	var settlement models.Settlement
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&settlement).Error; err != nil {
		return nil, err
	}
	return &settlement, nil
}

func (r *repository) ListSettlements(ctx context.Context, settlementType *enums.SettlementType) ([]models.Settlement, error) {
	query := r.db.WithContext(ctx).Model(&models.Settlement{})
	if settlementType != nil {
		query = query.Where("type = ?", *settlementType)
	}

	var settlements []models.Settlement
	if err := query.Order("created_at DESC").Find(&settlements).Error; err != nil {
		return nil, err
	}
	return settlements, nil
}

func (r *repository) CreateTransaction(ctx context.Context, txn *models.FinancialTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

// ListCourierPending joins pending collection entries to their orders so the
// preview can show what each line refers to.
func (r *repository) ListCourierPending(ctx context.Context, courierID uuid.UUID) ([]CourierPreviewLine, error) {
	var lines []CourierPreviewLine
	err := r.db.WithContext(ctx).
		Table("courier_ledger_entries").
		Select(`orders.id AS order_id,
			orders.order_number,
			orders.customer_name,
			courier_ledger_entries.order_amount,
			courier_ledger_entries.collected_amount,
			courier_ledger_entries.commission_amount AS commission`).
		Joins("JOIN orders ON orders.id = courier_ledger_entries.order_id").
		Where("courier_ledger_entries.courier_id = ?", courierID).
		Where("courier_ledger_entries.status = ?", enums.LedgerEntryStatusPending).
		Where("courier_ledger_entries.type = ?", enums.LedgerEntryTypeCollection).
		Order("courier_ledger_entries.created_at ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repository) ListMerchantUnsettled(ctx context.Context, merchantID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Where("status IN ?", merchantSettleStatuses).
		Where("merchant_settlement_id IS NULL").
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// MarkCourierOrdersSettled stamps delivered, unsettled orders that still have
// a pending entry for the courier. Delivery clears the courier from the order
// row, so the ledger entry is the only durable link back to the courier.
func (r *repository) MarkCourierOrdersSettled(ctx context.Context, courierID, settlementID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status = ?", enums.OrderStatusDelivered).
		Where("courier_settlement_id IS NULL").
		Where("id IN (?)", r.db.
			Table("courier_ledger_entries").
			Select("order_id").
			Where("courier_id = ? AND status = ?", courierID, enums.LedgerEntryStatusPending)).
		Update("courier_settlement_id", settlementID)
	return result.RowsAffected, result.Error
}

func (r *repository) MarkMerchantOrdersSettled(ctx context.Context, merchantID, settlementID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("merchant_id = ?", merchantID).
		Where("status IN ?", merchantSettleStatuses).
		Where("merchant_settlement_id IS NULL").
		Update("merchant_settlement_id", settlementID)
	return result.RowsAffected, result.Error
}
