package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rasilexpress/backoffice/pkg/db/models"
	pkgerrors "github.com/rasilexpress/backoffice/pkg/errors"
)

type stubLedgerRepo struct {
	Repository

	entries         []*models.CourierLedgerEntry
	courierDeltas   map[uuid.UUID]decimal.Decimal
	merchantDeltas  map[uuid.UUID]decimal.Decimal
	companyRevenue  decimal.Decimal
	companyBalance  decimal.Decimal
	createEntryErr  error
}

func newStubLedgerRepo() *stubLedgerRepo {
	return &stubLedgerRepo{
		courierDeltas:  map[uuid.UUID]decimal.Decimal{},
		merchantDeltas: map[uuid.UUID]decimal.Decimal{},
	}
}

func (s *stubLedgerRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubLedgerRepo) CreateEntry(ctx context.Context, entry *models.CourierLedgerEntry) error {
	if s.createEntryErr != nil {
		return s.createEntryErr
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *stubLedgerRepo) AddCourierBalance(ctx context.Context, courierID uuid.UUID, delta decimal.Decimal) error {
	s.courierDeltas[courierID] = s.courierDeltas[courierID].Add(delta)
	return nil
}

func (s *stubLedgerRepo) AddMerchantBalance(ctx context.Context, merchantID uuid.UUID, delta decimal.Decimal) error {
	s.merchantDeltas[merchantID] = s.merchantDeltas[merchantID].Add(delta)
	return nil
}

func (s *stubLedgerRepo) AddCompanyFunds(ctx context.Context, revenueDelta, balanceDelta decimal.Decimal) error {
	s.companyRevenue = s.companyRevenue.Add(revenueDelta)
	s.companyBalance = s.companyBalance.Add(balanceDelta)
	return nil
}

func TestPostCompletionSplitsCollectedCash(t *testing.T) {
	repo := newStubLedgerRepo()
	poster, err := NewPoster(repo)
	if err != nil {
		t.Fatalf("new poster: %v", err)
	}

	courierID := uuid.New()
	merchantID := uuid.New()
	input := CompletionInput{
		OrderID:     uuid.New(),
		OrderAmount: decimal.NewFromInt(10000),
		Collected:   decimal.NewFromInt(15000),
		Fee:         decimal.NewFromInt(5000),
		Commission:  decimal.NewFromInt(2000),
		CourierID:   &courierID,
		MerchantID:  &merchantID,
	}

	if err := poster.PostCompletion(context.Background(), nil, input); err != nil {
		t.Fatalf("post completion: %v", err)
	}

	if len(repo.entries) != 1 {
		t.Fatalf("expected one ledger entry, got %d", len(repo.entries))
	}
	entry := repo.entries[0]
	if !entry.CollectedAmount.Equal(decimal.NewFromInt(15000)) {
		t.Fatalf("unexpected collected amount %s", entry.CollectedAmount)
	}

	courierShare := repo.courierDeltas[courierID]
	merchantShare := repo.merchantDeltas[merchantID]
	if !courierShare.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("expected courier +2000, got %s", courierShare)
	}
	if !repo.companyBalance.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("expected company +3000, got %s", repo.companyBalance)
	}
	if !repo.companyRevenue.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("expected revenue +3000, got %s", repo.companyRevenue)
	}
	if !merchantShare.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("expected merchant +10000, got %s", merchantShare)
	}

	// The three shares reassemble exactly into the collected cash.
	total := courierShare.Add(repo.companyBalance).Add(merchantShare)
	if !total.Equal(input.Collected) {
		t.Fatalf("shares %s do not sum to collected %s", total, input.Collected)
	}
}

func TestPostCompletionWithoutCourierSkipsEntryAndCommission(t *testing.T) {
	repo := newStubLedgerRepo()
	poster, _ := NewPoster(repo)

	merchantID := uuid.New()
	input := CompletionInput{
		OrderID:    uuid.New(),
		Collected:  decimal.NewFromInt(8000),
		Fee:        decimal.NewFromInt(5000),
		Commission: decimal.NewFromInt(2000),
		MerchantID: &merchantID,
	}

	if err := poster.PostCompletion(context.Background(), nil, input); err != nil {
		t.Fatalf("post completion: %v", err)
	}

	if len(repo.entries) != 0 {
		t.Fatalf("expected no ledger entry without a courier, got %d", len(repo.entries))
	}
	if len(repo.courierDeltas) != 0 {
		t.Fatal("no courier balance should move without a courier")
	}
	if !repo.companyBalance.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("expected company +3000, got %s", repo.companyBalance)
	}
	if !repo.merchantDeltas[merchantID].Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("expected merchant +3000, got %s", repo.merchantDeltas[merchantID])
	}
}

func TestPostCompletionMapsDuplicateEntryToConflict(t *testing.T) {
	repo := newStubLedgerRepo()
	repo.createEntryErr = errors.New(`duplicate key value violates unique constraint "uq_courier_ledger_entries_order_id"`)
	poster, _ := NewPoster(repo)

	courierID := uuid.New()
	err := poster.PostCompletion(context.Background(), nil, CompletionInput{
		OrderID:    uuid.New(),
		Collected:  decimal.NewFromInt(1000),
		Fee:        decimal.NewFromInt(500),
		Commission: decimal.NewFromInt(200),
		CourierID:  &courierID,
	})
	if err == nil {
		t.Fatal("expected conflict error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict code, got %v", err)
	}
}

func TestPostCompletionRejectsNegativeCollected(t *testing.T) {
	poster, _ := NewPoster(newStubLedgerRepo())
	err := poster.PostCompletion(context.Background(), nil, CompletionInput{
		OrderID:   uuid.New(),
		Collected: decimal.NewFromInt(-1),
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
}
