package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	pkgdb "github.com/rasilexpress/backoffice/pkg/db"
	"github.com/rasilexpress/backoffice/pkg/db/models"
	"github.com/rasilexpress/backoffice/pkg/enums"
	pkgerrors "github.com/rasilexpress/backoffice/pkg/errors"
)

// Poster books the financial effects of a completed delivery. It must run
// inside the same transaction as the status change that triggered it.
type Poster interface {
	PostCompletion(ctx context.Context, tx *gorm.DB, input CompletionInput) error
}

// CompletionInput carries the resolved money split for one first completion.
// CourierID is the courier assigned at collection time, captured before any
// status-driven courier clearing.
type CompletionInput struct {
	OrderID     uuid.UUID
	OrderAmount decimal.Decimal
	Collected   decimal.Decimal
	Fee         decimal.Decimal
	Commission  decimal.Decimal
	CourierID   *uuid.UUID
	MerchantID  *uuid.UUID
}

type poster struct {
	repo Repository
}

// NewPoster wires a ledger poster with the provided repository.
func NewPoster(repo Repository) (Poster, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &poster{repo: repo}, nil
}

// PostCompletion splits the collected cash three ways: the courier holds the
// commission, the company books fee minus commission, and the merchant is
// owed collected minus fee. The three shares always sum to collected.
func (p *poster) PostCompletion(ctx context.Context, tx *gorm.DB, input CompletionInput) error {
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.Collected.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "collected amount cannot be negative")
	}

	repo := p.repo.WithTx(tx)
	companyShare := input.Fee.Sub(input.Commission)

	if input.CourierID != nil && *input.CourierID != uuid.Nil {
		entry := &models.CourierLedgerEntry{
			CourierID:        *input.CourierID,
			OrderID:          input.OrderID,
			OrderAmount:      input.OrderAmount,
			CollectedAmount:  input.Collected,
			CommissionAmount: input.Commission,
			Type:             enums.LedgerEntryTypeCollection,
			Status:           enums.LedgerEntryStatusPending,
		}
		if err := repo.CreateEntry(ctx, entry); err != nil {
			if pkgdb.IsUniqueViolation(err, "uq_courier_ledger_entries_order_id") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "ledger already posted for order")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create ledger entry")
		}

		if err := repo.AddCourierBalance(ctx, *input.CourierID, input.Commission); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit courier balance")
		}
	}

	if err := repo.AddCompanyFunds(ctx, companyShare, companyShare); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit company funds")
	}

	if input.MerchantID != nil && *input.MerchantID != uuid.Nil {
		merchantNet := input.Collected.Sub(input.Fee)
		if err := repo.AddMerchantBalance(ctx, *input.MerchantID, merchantNet); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit merchant balance")
		}
	}

	return nil
}
