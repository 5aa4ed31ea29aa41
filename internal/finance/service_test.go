package finance

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rasilexpress/backoffice/internal/ledger"
	"github.com/rasilexpress/backoffice/pkg/db/models"
	"github.com/rasilexpress/backoffice/pkg/enums"
	pkgerrors "github.com/rasilexpress/backoffice/pkg/errors"
)

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubFinanceRepo struct {
	courier  *models.CourierProfile
	merchant *models.MerchantProfile
	txns     []*models.FinancialTransaction
}

func (s *stubFinanceRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubFinanceRepo) CreateTransaction(ctx context.Context, txn *models.FinancialTransaction) error {
	s.txns = append(s.txns, txn)
	return nil
}

func (s *stubFinanceRepo) ListTransactionsByUser(ctx context.Context, userID uuid.UUID) ([]models.FinancialTransaction, error) {
	var out []models.FinancialTransaction
	for _, txn := range s.txns {
		if txn.UserID == userID {
			out = append(out, *txn)
		}
	}
	return out, nil
}

func (s *stubFinanceRepo) FindCourierProfile(ctx context.Context, userID uuid.UUID) (*models.CourierProfile, error) {
	if s.courier == nil || s.courier.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.courier
	return &copied, nil
}

func (s *stubFinanceRepo) FindMerchantProfile(ctx context.Context, userID uuid.UUID) (*models.MerchantProfile, error) {
	if s.merchant == nil || s.merchant.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.merchant
	return &copied, nil
}

func (s *stubFinanceRepo) FindCompanyFinancials(ctx context.Context) (*models.CompanyFinancials, error) {
	return &models.CompanyFinancials{ID: models.CompanyFinancialsID}, nil
}

type stubBalances struct {
	courierDeltas  map[uuid.UUID]decimal.Decimal
	merchantDeltas map[uuid.UUID]decimal.Decimal
}

func newStubBalances() *stubBalances {
	return &stubBalances{
		courierDeltas:  map[uuid.UUID]decimal.Decimal{},
		merchantDeltas: map[uuid.UUID]decimal.Decimal{},
	}
}

func (s *stubBalances) WithTx(tx *gorm.DB) ledger.Repository { return s }

func (s *stubBalances) CreateEntry(ctx context.Context, entry *models.CourierLedgerEntry) error {
	return nil
}

func (s *stubBalances) FindEntryByOrderID(ctx context.Context, orderID uuid.UUID) (*models.CourierLedgerEntry, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubBalances) ListPendingByCourier(ctx context.Context, courierID uuid.UUID) ([]models.CourierLedgerEntry, error) {
	return nil, nil
}

func (s *stubBalances) MarkEntriesSettled(ctx context.Context, courierID, settlementID uuid.UUID) (int64, error) {
	return 0, nil
}

func (s *stubBalances) AddCourierBalance(ctx context.Context, courierID uuid.UUID, delta decimal.Decimal) error {
	s.courierDeltas[courierID] = s.courierDeltas[courierID].Add(delta)
	return nil
}

func (s *stubBalances) AddMerchantBalance(ctx context.Context, merchantID uuid.UUID, delta decimal.Decimal) error {
	s.merchantDeltas[merchantID] = s.merchantDeltas[merchantID].Add(delta)
	return nil
}

func (s *stubBalances) AddCompanyFunds(ctx context.Context, revenueDelta, balanceDelta decimal.Decimal) error {
	return nil
}

func buildService(t *testing.T, repo *stubFinanceRepo, balances *stubBalances) Service {
	t.Helper()
	svc, err := NewService(repo, balances, stubTx{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestPayoutPrefersCourierBalance(t *testing.T) {
	userID := uuid.New()
	repo := &stubFinanceRepo{
		courier:  &models.CourierProfile{UserID: userID, CurrentBalance: decimal.NewFromInt(8000)},
		merchant: &models.MerchantProfile{UserID: userID, CurrentBalance: decimal.NewFromInt(5000)},
	}
	balances := newStubBalances()
	svc := buildService(t, repo, balances)

	if err := svc.Payout(context.Background(), PayoutInput{
		UserID:      userID,
		Amount:      decimal.NewFromInt(3000),
		ProcessedBy: uuid.New(),
	}); err != nil {
		t.Fatalf("payout: %v", err)
	}

	if !balances.courierDeltas[userID].Equal(decimal.NewFromInt(-3000)) {
		t.Fatalf("expected courier balance -3000, got %s", balances.courierDeltas[userID])
	}
	if len(balances.merchantDeltas) != 0 {
		t.Fatal("merchant balance must stay untouched when a courier profile exists")
	}

	if len(repo.txns) != 1 {
		t.Fatalf("expected one journal row, got %d", len(repo.txns))
	}
	txn := repo.txns[0]
	if txn.Type != enums.TransactionTypePayout || !txn.Amount.Equal(decimal.NewFromInt(-3000)) {
		t.Fatalf("expected negative payout row, got %+v", txn)
	}
}

func TestPayoutFallsBackToMerchant(t *testing.T) {
	userID := uuid.New()
	repo := &stubFinanceRepo{
		merchant: &models.MerchantProfile{UserID: userID, CurrentBalance: decimal.NewFromInt(5000)},
	}
	balances := newStubBalances()
	svc := buildService(t, repo, balances)

	if err := svc.Payout(context.Background(), PayoutInput{
		UserID: userID,
		Amount: decimal.NewFromInt(2000),
	}); err != nil {
		t.Fatalf("payout: %v", err)
	}

	if !balances.merchantDeltas[userID].Equal(decimal.NewFromInt(-2000)) {
		t.Fatalf("expected merchant balance -2000, got %s", balances.merchantDeltas[userID])
	}
}

func TestPayoutValidation(t *testing.T) {
	svc := buildService(t, &stubFinanceRepo{}, newStubBalances())

	err := svc.Payout(context.Background(), PayoutInput{
		UserID: uuid.New(),
		Amount: decimal.NewFromInt(-100),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	err = svc.Payout(context.Background(), PayoutInput{
		UserID: uuid.New(),
		Amount: decimal.NewFromInt(100),
	})
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown user, got %v", err)
	}
}

func TestResetBalanceNeutralizesToZero(t *testing.T) {
	userID := uuid.New()
	repo := &stubFinanceRepo{
		courier: &models.CourierProfile{UserID: userID, CurrentBalance: decimal.NewFromInt(12500)},
	}
	balances := newStubBalances()
	svc := buildService(t, repo, balances)

	if err := svc.ResetBalance(context.Background(), ResetBalanceInput{
		UserID:      userID,
		ProcessedBy: uuid.New(),
	}); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if !balances.courierDeltas[userID].Equal(decimal.NewFromInt(-12500)) {
		t.Fatalf("expected compensating delta -12500, got %s", balances.courierDeltas[userID])
	}
	if len(repo.txns) != 1 {
		t.Fatalf("expected one adjustment row, got %d", len(repo.txns))
	}
	txn := repo.txns[0]
	if txn.Type != enums.TransactionTypeAdjustment || !txn.Amount.Equal(decimal.NewFromInt(-12500)) {
		t.Fatalf("expected adjustment of -12500, got %+v", txn)
	}
}

func TestResetBalanceZeroIsNoop(t *testing.T) {
	userID := uuid.New()
	repo := &stubFinanceRepo{
		courier: &models.CourierProfile{UserID: userID},
	}
	balances := newStubBalances()
	svc := buildService(t, repo, balances)

	if err := svc.ResetBalance(context.Background(), ResetBalanceInput{UserID: userID}); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if len(repo.txns) != 0 || len(balances.courierDeltas) != 0 {
		t.Fatal("a zero balance needs no adjustment")
	}
}

func TestGetBalancesReportsExistingProfiles(t *testing.T) {
	userID := uuid.New()
	repo := &stubFinanceRepo{
		merchant: &models.MerchantProfile{UserID: userID, CurrentBalance: decimal.NewFromInt(7000)},
	}
	svc := buildService(t, repo, newStubBalances())

	result, err := svc.GetBalances(context.Background(), userID)
	if err != nil {
		t.Fatalf("get balances: %v", err)
	}
	if result.CourierBalance != nil {
		t.Fatal("no courier profile expected")
	}
	if result.MerchantBalance == nil || !result.MerchantBalance.Equal(decimal.NewFromInt(7000)) {
		t.Fatalf("expected merchant balance 7000, got %v", result.MerchantBalance)
	}

	_, err = svc.GetBalances(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
