package settlements

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rasilexpress/backoffice/pkg/db/models"
)

// CourierPreviewLine is one pending collection shown in a courier preview.
type CourierPreviewLine struct {
	OrderID         uuid.UUID       `json:"order_id"`
	OrderNumber     string          `json:"order_number"`
	CustomerName    string          `json:"customer_name"`
	OrderAmount     decimal.Decimal `json:"order_amount"`
	CollectedAmount decimal.Decimal `json:"collected_amount"`
	Commission      decimal.Decimal `json:"commission"`
}

// MerchantPreviewLine is one unsettled order shown in a merchant preview.
type MerchantPreviewLine struct {
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	Status      string          `json:"status"`
	Collected   decimal.Decimal `json:"collected"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Net         decimal.Decimal `json:"net"`
}

// PreviewSummary totals a settlement preview.
type PreviewSummary struct {
	TotalCOD        decimal.Decimal `json:"total_cod"`
	TotalCommission decimal.Decimal `json:"total_commission"`
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	NetAmount       decimal.Decimal `json:"net_amount"`
}

// CourierPreviewResult is the read-only courier closeout projection.
type CourierPreviewResult struct {
	Orders   []CourierPreviewLine `json:"orders"`
	Expenses []models.Expense     `json:"expenses"`
	Summary  PreviewSummary       `json:"summary"`
}

// MerchantPreviewResult is the read-only merchant closeout projection.
type MerchantPreviewResult struct {
	Orders  []MerchantPreviewLine `json:"orders"`
	Summary PreviewSummary        `json:"summary"`
}

// CommitCourierInput closes out a courier at the amount the caller accepted
// from the preview. Amount is signed: positive means the courier owes the
// company.
type CommitCourierInput struct {
	CourierID   uuid.UUID
	Amount      decimal.Decimal
	ProcessedBy uuid.UUID
}

// CommitMerchantInput closes out a merchant. Amount is the net payable to the
// merchant.
type CommitMerchantInput struct {
	MerchantID  uuid.UUID
	Amount      decimal.Decimal
	ProcessedBy uuid.UUID
}

// CommitResult reports the created settlement.
type CommitResult struct {
	SettlementID uuid.UUID `json:"settlement_id"`
}
