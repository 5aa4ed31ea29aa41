package expenses

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rasilexpress/backoffice/pkg/db/models"
	"github.com/rasilexpress/backoffice/pkg/enums"
	pkgerrors "github.com/rasilexpress/backoffice/pkg/errors"
)

// CreateExpenseInput registers a new spending voucher.
type CreateExpenseInput struct {
	UserID      uuid.UUID
	Amount      decimal.Decimal
	Description string
	CreatedBy   uuid.UUID
}

// Service manages the expense approval lifecycle.
type Service interface {
	Create(ctx context.Context, input CreateExpenseInput) (*models.Expense, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Expense, error)
	List(ctx context.Context, filter ListFilter) ([]models.Expense, error)
	Approve(ctx context.Context, id, actorID uuid.UUID) error
	Reject(ctx context.Context, id, actorID uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds an expenses service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("expenses repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateExpenseInput) (*models.Expense, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description required")
	}

	expense := &models.Expense{
		UserID:      input.UserID,
		Amount:      input.Amount,
		Description: input.Description,
		Status:      enums.ExpenseStatusPending,
		CreatedBy:   creatorPtr(input.CreatedBy),
	}
	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create expense")
	}
	return expense, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Expense, error) {
	expense, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "expense not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load expense")
	}
	return expense, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.Expense, error) {
	expenses, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list expenses")
	}
	return expenses, nil
}

func (s *service) Approve(ctx context.Context, id, actorID uuid.UUID) error {
	return s.review(ctx, id, enums.ExpenseStatusApproved, actorID)
}

func (s *service) Reject(ctx context.Context, id, actorID uuid.UUID) error {
	return s.review(ctx, id, enums.ExpenseStatusRejected, actorID)
}

// review moves a voucher out of Pending and records who decided it. Only
// pending vouchers can be decided; the CAS write keeps a double review from
// flipping a settled row.
func (s *service) review(ctx context.Context, id uuid.UUID, target enums.ExpenseStatus, actorID uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "expense id required")
	}

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	rows, err := s.repo.UpdateStatusCAS(ctx, id, enums.ExpenseStatusPending, target, creatorPtr(actorID))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update expense status")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "expense is no longer pending")
	}
	return nil
}

func creatorPtr(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
