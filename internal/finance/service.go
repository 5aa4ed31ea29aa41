package finance

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rasilexpress/backoffice/internal/ledger"
	"github.com/rasilexpress/backoffice/pkg/db/models"
	"github.com/rasilexpress/backoffice/pkg/enums"
	pkgerrors "github.com/rasilexpress/backoffice/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// PayoutInput pays cash out to a courier or merchant. Amount is the positive
// sum being handed over.
type PayoutInput struct {
	UserID      uuid.UUID
	Amount      decimal.Decimal
	Notes       *string
	ProcessedBy uuid.UUID
}

// ResetBalanceInput zeroes a counterparty balance with a compensating
// adjustment row.
type ResetBalanceInput struct {
	UserID      uuid.UUID
	Notes       *string
	ProcessedBy uuid.UUID
}

// BalancesResult is the per-user balance read surface. Only the profile kinds
// that exist for the user are populated.
type BalancesResult struct {
	CourierBalance  *decimal.Decimal `json:"courier_balance,omitempty"`
	MerchantBalance *decimal.Decimal `json:"merchant_balance,omitempty"`
}

// Service covers manual money movements outside the settlement flow.
type Service interface {
	Payout(ctx context.Context, input PayoutInput) error
	ResetBalance(ctx context.Context, input ResetBalanceInput) error
	ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.FinancialTransaction, error)
	GetBalances(ctx context.Context, userID uuid.UUID) (*BalancesResult, error)
	GetCompanyFinancials(ctx context.Context) (*models.CompanyFinancials, error)
}

type service struct {
	repo   Repository
	ledger ledger.Repository
	tx     txRunner
}

// NewService wires the finance service.
func NewService(repo Repository, ledgerRepo ledger.Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("finance repository required")
	}
	if ledgerRepo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, ledger: ledgerRepo, tx: tx}, nil
}

// Payout hands cash to a counterparty: it journals a negative payout row and
// decrements the matching balance. A user with both profiles is paid out of
// the courier balance.
func (s *service) Payout(ctx context.Context, input PayoutInput) error {
	if input.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if !input.Amount.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ledgerRepo := s.ledger.WithTx(tx)

		kind, err := profileKind(ctx, repo, input.UserID)
		if err != nil {
			return err
		}

		delta := input.Amount.Neg()
		switch kind {
		case courierProfile:
			if err := ledgerRepo.AddCourierBalance(ctx, input.UserID, delta); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement courier balance")
			}
		case merchantProfile:
			if err := ledgerRepo.AddMerchantBalance(ctx, input.UserID, delta); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement merchant balance")
			}
		}

		txn := &models.FinancialTransaction{
			UserID:    input.UserID,
			Amount:    delta,
			Type:      enums.TransactionTypePayout,
			Notes:     input.Notes,
			CreatedBy: processorPtr(input.ProcessedBy),
		}
		if err := repo.CreateTransaction(ctx, txn); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "journal payout")
		}
		return nil
	})
}

// ResetBalance neutralizes a balance to zero. The compensating row keeps the
// journal summable to the new balance.
func (s *service) ResetBalance(ctx context.Context, input ResetBalanceInput) error {
	if input.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ledgerRepo := s.ledger.WithTx(tx)

		var current decimal.Decimal
		kind, err := profileKind(ctx, repo, input.UserID)
		if err != nil {
			return err
		}
		switch kind {
		case courierProfile:
			profile, err := repo.FindCourierProfile(ctx, input.UserID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load courier profile")
			}
			current = profile.CurrentBalance
		case merchantProfile:
			profile, err := repo.FindMerchantProfile(ctx, input.UserID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load merchant profile")
			}
			current = profile.CurrentBalance
		}

		if current.IsZero() {
			return nil
		}

		delta := current.Neg()
		switch kind {
		case courierProfile:
			if err := ledgerRepo.AddCourierBalance(ctx, input.UserID, delta); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "zero courier balance")
			}
		case merchantProfile:
			if err := ledgerRepo.AddMerchantBalance(ctx, input.UserID, delta); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "zero merchant balance")
			}
		}

		txn := &models.FinancialTransaction{
			UserID:    input.UserID,
			Amount:    delta,
			Type:      enums.TransactionTypeAdjustment,
			Notes:     input.Notes,
			CreatedBy: processorPtr(input.ProcessedBy),
		}
		if err := repo.CreateTransaction(ctx, txn); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "journal adjustment")
		}
		return nil
	})
}

func (s *service) ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.FinancialTransaction, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	txns, err := s.repo.ListTransactionsByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transactions")
	}
	return txns, nil
}

func (s *service) GetBalances(ctx context.Context, userID uuid.UUID) (*BalancesResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	result := &BalancesResult{}

	courier, err := s.repo.FindCourierProfile(ctx, userID)
	if err == nil {
		result.CourierBalance = &courier.CurrentBalance
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load courier profile")
	}

	merchant, err := s.repo.FindMerchantProfile(ctx, userID)
	if err == nil {
		result.MerchantBalance = &merchant.CurrentBalance
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load merchant profile")
	}

	if result.CourierBalance == nil && result.MerchantBalance == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no balance profile for user")
	}
	return result, nil
}

func (s *service) GetCompanyFinancials(ctx context.Context) (*models.CompanyFinancials, error) {
	financials, err := s.repo.FindCompanyFinancials(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company financials")
	}
	return financials, nil
}

type balanceProfile int

const (
	courierProfile balanceProfile = iota
	merchantProfile
)

// profileKind finds which balance a user carries, preferring the courier
// profile when both exist.
func profileKind(ctx context.Context, repo Repository, userID uuid.UUID) (balanceProfile, error) {
	if _, err := repo.FindCourierProfile(ctx, userID); err == nil {
		return courierProfile, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load courier profile")
	}

	if _, err := repo.FindMerchantProfile(ctx, userID); err == nil {
		return merchantProfile, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load merchant profile")
	}

	return 0, pkgerrors.New(pkgerrors.CodeNotFound, "no balance profile for user")
}

func processorPtr(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
