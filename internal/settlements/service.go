package settlements

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rasilexpress/backoffice/internal/expenses"
	"github.com/rasilexpress/backoffice/internal/ledger"
	"github.com/rasilexpress/backoffice/internal/pricing"
	"github.com/rasilexpress/backoffice/pkg/db/models"
	"github.com/rasilexpress/backoffice/pkg/enums"
	pkgerrors "github.com/rasilexpress/backoffice/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service batches pending ledger entries and approved expenses into
// settlements.
type Service interface {
	PreviewCourier(ctx context.Context, courierID uuid.UUID) (*CourierPreviewResult, error)
	CommitCourier(ctx context.Context, input CommitCourierInput) (*CommitResult, error)
	PreviewMerchant(ctx context.Context, merchantID uuid.UUID) (*MerchantPreviewResult, error)
	CommitMerchant(ctx context.Context, input CommitMerchantInput) (*CommitResult, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Settlement, error)
	List(ctx context.Context, settlementType *enums.SettlementType) ([]models.Settlement, error)
}

type service struct {
	repo     Repository
	ledger   ledger.Repository
	expenses expenses.Repository
	pricing  pricing.Resolver
	tx       txRunner
}

// NewService wires the settlement engine with its collaborators.
func NewService(repo Repository, ledgerRepo ledger.Repository, expensesRepo expenses.Repository, resolver pricing.Resolver, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settlements repository required")
	}
	if ledgerRepo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if expensesRepo == nil {
		return nil, fmt.Errorf("expenses repository required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("pricing resolver required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:     repo,
		ledger:   ledgerRepo,
		expenses: expensesRepo,
		pricing:  resolver,
		tx:       tx,
	}, nil
}

// PreviewCourier projects the courier's pending collections and approved
// expenses. Commission is shown at the current global default rather than the
// per-entry stored value so every line displays the same rate. Read-only;
// repeated calls return identical totals until state changes.
func (s *service) PreviewCourier(ctx context.Context, courierID uuid.UUID) (*CourierPreviewResult, error) {
	if courierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "courier id required")
	}

	lines, err := s.repo.ListCourierPending(ctx, courierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending collections")
	}

	commission, err := s.pricing.DefaultCommission(ctx, nil)
	if err != nil {
		return nil, err
	}

	totalCOD := decimal.Zero
	totalCommission := decimal.Zero
	for i := range lines {
		lines[i].Commission = commission
		totalCOD = totalCOD.Add(lines[i].CollectedAmount)
		totalCommission = totalCommission.Add(commission)
	}

	vouchers, err := s.expenses.ListApprovedUnsettled(ctx, courierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list approved expenses")
	}
	totalExpenses := decimal.Zero
	for _, voucher := range vouchers {
		totalExpenses = totalExpenses.Add(voucher.Amount)
	}

	return &CourierPreviewResult{
		Orders:   lines,
		Expenses: vouchers,
		Summary: PreviewSummary{
			TotalCOD:        totalCOD,
			TotalCommission: totalCommission,
			TotalExpenses:   totalExpenses,
			NetAmount:       totalCOD,
		},
	}, nil
}

// CommitCourier closes out a courier at the accepted amount. It consumes the
// pending ledger entries and approved expenses and journals one transaction.
// Running balances are not touched here; they track commission accrual and
// explicit payouts, not settlement of cash already collected.
func (s *service) CommitCourier(ctx context.Context, input CommitCourierInput) (*CommitResult, error) {
	if input.CourierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "courier id required")
	}

	var result *CommitResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ledgerRepo := s.ledger.WithTx(tx)
		expensesRepo := s.expenses.WithTx(tx)

		settlement := &models.Settlement{
			Type:        enums.SettlementTypeCourier,
			TargetID:    input.CourierID,
			Amount:      input.Amount,
			ProcessedBy: processorPtr(input.ProcessedBy),
		}
		if err := repo.CreateSettlement(ctx, settlement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create settlement")
		}

		// Orders must be stamped before the entries flip to SETTLED; the
		// pending entries are the only remaining link from courier to order.
		if _, err := repo.MarkCourierOrdersSettled(ctx, input.CourierID, settlement.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark orders settled")
		}
		if _, err := ledgerRepo.MarkEntriesSettled(ctx, input.CourierID, settlement.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark ledger entries settled")
		}
		if _, err := expensesRepo.MarkApprovedSettled(ctx, input.CourierID, settlement.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark expenses settled")
		}

		txnType := enums.TransactionTypeCollection
		if input.Amount.IsNegative() {
			txnType = enums.TransactionTypePayout
		}
		txn := &models.FinancialTransaction{
			UserID:    input.CourierID,
			Amount:    input.Amount,
			Type:      txnType,
			CreatedBy: processorPtr(input.ProcessedBy),
		}
		if err := repo.CreateTransaction(ctx, txn); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "journal settlement")
		}

		result = &CommitResult{SettlementID: settlement.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PreviewMerchant projects the merchant's unsettled orders. Returned and
// returned-to-merchant orders are full write-offs contributing nothing to
// either side of the net.
func (s *service) PreviewMerchant(ctx context.Context, merchantID uuid.UUID) (*MerchantPreviewResult, error) {
	if merchantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "merchant id required")
	}

	orders, err := s.repo.ListMerchantUnsettled(ctx, merchantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list unsettled orders")
	}

	lines := make([]MerchantPreviewLine, 0, len(orders))
	totalCollected := decimal.Zero
	totalFees := decimal.Zero
	for _, order := range orders {
		collected, fee := merchantContribution(&order)
		lines = append(lines, MerchantPreviewLine{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			Status:      string(order.Status),
			Collected:   collected,
			DeliveryFee: fee,
			Net:         collected.Sub(fee),
		})
		totalCollected = totalCollected.Add(collected)
		totalFees = totalFees.Add(fee)
	}

	return &MerchantPreviewResult{
		Orders: lines,
		Summary: PreviewSummary{
			TotalCOD:  totalCollected,
			NetAmount: totalCollected.Sub(totalFees),
		},
	}, nil
}

// CommitMerchant closes out a merchant. Unlike the courier side it journals a
// negative payout and decrements the merchant balance directly.
func (s *service) CommitMerchant(ctx context.Context, input CommitMerchantInput) (*CommitResult, error) {
	if input.MerchantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "merchant id required")
	}

	var result *CommitResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ledgerRepo := s.ledger.WithTx(tx)

		settlement := &models.Settlement{
			Type:        enums.SettlementTypeMerchant,
			TargetID:    input.MerchantID,
			Amount:      input.Amount,
			ProcessedBy: processorPtr(input.ProcessedBy),
		}
		if err := repo.CreateSettlement(ctx, settlement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create settlement")
		}

		if _, err := repo.MarkMerchantOrdersSettled(ctx, input.MerchantID, settlement.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark orders settled")
		}

		txn := &models.FinancialTransaction{
			UserID:    input.MerchantID,
			Amount:    input.Amount.Neg(),
			Type:      enums.TransactionTypeSettlement,
			CreatedBy: processorPtr(input.ProcessedBy),
		}
		if err := repo.CreateTransaction(ctx, txn); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "journal settlement")
		}

		if err := ledgerRepo.AddMerchantBalance(ctx, input.MerchantID, input.Amount.Neg()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement merchant balance")
		}

		result = &CommitResult{SettlementID: settlement.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Settlement, error) {
	settlement, err := s.repo.FindSettlement(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "settlement not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settlement")
	}
	return settlement, nil
}

func (s *service) List(ctx context.Context, settlementType *enums.SettlementType) ([]models.Settlement, error) {
	settlements, err := s.repo.ListSettlements(ctx, settlementType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list settlements")
	}
	return settlements, nil
}

// merchantContribution returns what one order adds to the merchant net.
func merchantContribution(order *models.Order) (collected, fee decimal.Decimal) {
	switch order.Status {
	case enums.OrderStatusDelivered:
		if order.PaidAmount != nil {
			return *order.PaidAmount, order.DeliveryFee
		}
		return order.Amount, order.DeliveryFee
	case enums.OrderStatusPartialDelivery:
		if order.PaidAmount != nil {
			return *order.PaidAmount, order.DeliveryFee
		}
		return decimal.Zero, order.DeliveryFee
	default:
		// Returned and returned-to-merchant orders are written off entirely.
		return decimal.Zero, decimal.Zero
	}
}

func processorPtr(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
