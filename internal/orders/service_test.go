package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rasilexpress/backoffice/internal/ledger"
	"github.com/rasilexpress/backoffice/internal/pricing"
	"github.com/rasilexpress/backoffice/pkg/db/models"
	"github.com/rasilexpress/backoffice/pkg/enums"
	pkgerrors "github.com/rasilexpress/backoffice/pkg/errors"
	"github.com/rasilexpress/backoffice/pkg/pagination"
)

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubOrdersRepo struct {
	order      *models.Order
	created    []*models.Order
	items      []models.OrderItem
	history    []*models.OrderHistory
	updates    map[string]any
	casFrom    enums.OrderStatus
	casTo      enums.OrderStatus
	casRows    int64
	itemRows   int64
	nextNumber int64
}

func newStubOrdersRepo(order *models.Order) *stubOrdersRepo {
	return &stubOrdersRepo{
		order:      order,
		updates:    map[string]any{},
		casRows:    1,
		itemRows:   1,
		nextNumber: 1001,
	}
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.created = append(s.created, order)
	return nil
}

func (s *stubOrdersRepo) CreateItems(ctx context.Context, items []models.OrderItem) error {
	s.items = append(s.items, items...)
	return nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.order == nil || s.order.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.order
	return &copied, nil
}

func (s *stubOrdersRepo) List(ctx context.Context, filter ListOrdersFilter, page pagination.Params) ([]models.Order, error) {
	if s.order == nil {
		return nil, nil
	}
	return []models.Order{*s.order}, nil
}

func (s *stubOrdersRepo) ListHistory(ctx context.Context, orderID uuid.UUID) ([]models.OrderHistory, error) {
	var out []models.OrderHistory
	for _, h := range s.history {
		if h.OrderID == orderID {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (s *stubOrdersRepo) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	for k, v := range updates {
		s.updates[k] = v
	}
	return nil
}

func (s *stubOrdersRepo) UpdateStatusCAS(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus) (int64, error) {
	s.casFrom = from
	s.casTo = to
	return s.casRows, nil
}

func (s *stubOrdersRepo) UpdateItemReturnedQuantity(ctx context.Context, orderID, itemID uuid.UUID, quantity int) (int64, error) {
	return s.itemRows, nil
}

func (s *stubOrdersRepo) CreateHistory(ctx context.Context, history *models.OrderHistory) error {
	s.history = append(s.history, history)
	return nil
}

func (s *stubOrdersRepo) NextOrderNumber(ctx context.Context) (int64, error) {
	return s.nextNumber, nil
}

type stubResolver struct {
	quote  pricing.Quote
	inputs []pricing.ResolveInput
}

func (s *stubResolver) Resolve(ctx context.Context, tx *gorm.DB, input pricing.ResolveInput) (*pricing.Quote, error) {
	s.inputs = append(s.inputs, input)
	copied := s.quote
	return &copied, nil
}

func (s *stubResolver) DefaultCommission(ctx context.Context, tx *gorm.DB) (decimal.Decimal, error) {
	return s.quote.Commission, nil
}

type stubPoster struct {
	inputs []ledger.CompletionInput
}

func (s *stubPoster) PostCompletion(ctx context.Context, tx *gorm.DB, input ledger.CompletionInput) error {
	s.inputs = append(s.inputs, input)
	return nil
}

func standardQuote() pricing.Quote {
	return pricing.Quote{
		BasePrice:  decimal.NewFromInt(5000),
		Fee:        decimal.NewFromInt(5000),
		Commission: decimal.NewFromInt(2000),
	}
}

func buildService(t *testing.T, repo *stubOrdersRepo, resolver *stubResolver, poster *stubPoster) Service {
	t.Helper()
	svc, err := NewService(repo, stubTx{}, resolver, poster)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func pendingOrder() *models.Order {
	merchantID := uuid.New()
	courierID := uuid.New()
	return &models.Order{
		ID:                uuid.New(),
		OrderNumber:       "1001",
		CustomerName:      "Dara",
		CustomerPhone:     "0770",
		DeliveryAddress:   "Street 5",
		Province:          "Baghdad",
		PackageSize:       "Standard",
		MerchantID:        &merchantID,
		DeliveryCourierID: &courierID,
		Amount:            decimal.NewFromInt(10000),
		Status:            enums.OrderStatusOutForDelivery,
		Kind:              enums.OrderKindNormal,
		WarehouseKind:     enums.WarehouseKindNone,
		Items: []models.OrderItem{
			{ID: uuid.New(), ItemName: "Box", Quantity: 2, UnitPrice: decimal.NewFromInt(5000), TotalPrice: decimal.NewFromInt(10000)},
		},
	}
}

func TestCreateResolvesPricingAndAllocatesNumber(t *testing.T) {
	repo := newStubOrdersRepo(nil)
	resolver := &stubResolver{quote: standardQuote()}
	svc := buildService(t, repo, resolver, &stubPoster{})

	result, err := svc.Create(context.Background(), CreateOrderInput{
		CustomerName:    "Dara",
		CustomerPhone:   "0770",
		DeliveryAddress: "Street 5",
		Province:        "Baghdad",
		Amount:          decimal.NewFromInt(10000),
		Items: []OrderItemInput{
			{ItemName: "Box", Quantity: 2, UnitPrice: decimal.NewFromInt(5000)},
		},
		ActorID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if result.OrderNumber != "1001" {
		t.Fatalf("expected order number 1001, got %s", result.OrderNumber)
	}
	if !result.DeliveryFee.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("expected fee 5000, got %s", result.DeliveryFee)
	}
	if !result.CourierCommission.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("expected commission 2000, got %s", result.CourierCommission)
	}
	if result.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending status, got %s", result.Status)
	}
	if len(repo.created) != 1 || len(repo.items) != 1 || len(repo.history) != 1 {
		t.Fatalf("expected order, items, history rows; got %d/%d/%d", len(repo.created), len(repo.items), len(repo.history))
	}
	if !repo.items[0].TotalPrice.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("expected item total 10000, got %s", repo.items[0].TotalPrice)
	}
}

func TestDeliveredFirstCompletionPostsLedgerWithSnapshotCourier(t *testing.T) {
	order := pendingOrder()
	courierID := *order.DeliveryCourierID
	repo := newStubOrdersRepo(order)
	resolver := &stubResolver{quote: standardQuote()}
	poster := &stubPoster{}
	svc := buildService(t, repo, resolver, poster)

	paid := decimal.NewFromInt(15000)
	result, err := svc.ChangeStatus(context.Background(), ChangeStatusInput{
		OrderID:    order.ID,
		Target:     enums.OrderStatusDelivered,
		ChangedBy:  uuid.New(),
		PaidAmount: &paid,
	})
	if err != nil {
		t.Fatalf("change status: %v", err)
	}

	if result.OldStatus != enums.OrderStatusOutForDelivery || result.NewStatus != enums.OrderStatusDelivered {
		t.Fatalf("unexpected transition %s -> %s", result.OldStatus, result.NewStatus)
	}

	// Pricing was re-resolved from the stored order, not request input.
	if len(resolver.inputs) != 1 || resolver.inputs[0].Province != "Baghdad" {
		t.Fatalf("pricing not resolved from stored order: %+v", resolver.inputs)
	}

	if len(poster.inputs) != 1 {
		t.Fatalf("expected one ledger post, got %d", len(poster.inputs))
	}
	post := poster.inputs[0]
	if post.CourierID == nil || *post.CourierID != courierID {
		t.Fatal("ledger must receive the courier assigned at collection time")
	}
	if !post.Collected.Equal(paid) || !post.Fee.Equal(decimal.NewFromInt(5000)) || !post.Commission.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("unexpected money split: %+v", post)
	}

	// Delivered clears the courier on the order row itself.
	if v, ok := repo.updates["delivery_courier_id"]; !ok || v != nil {
		t.Fatalf("expected courier cleared, got %v", repo.updates["delivery_courier_id"])
	}
	if fee, ok := repo.updates["delivery_fee"]; !ok || !fee.(decimal.Decimal).Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("expected delivery fee persisted, got %v", repo.updates["delivery_fee"])
	}
}

func TestDeliveredDefaultsPaidAmountToOrderAmount(t *testing.T) {
	order := pendingOrder()
	repo := newStubOrdersRepo(order)
	poster := &stubPoster{}
	svc := buildService(t, repo, &stubResolver{quote: standardQuote()}, poster)

	if _, err := svc.ChangeStatus(context.Background(), ChangeStatusInput{
		OrderID:   order.ID,
		Target:    enums.OrderStatusDelivered,
		ChangedBy: uuid.New(),
	}); err != nil {
		t.Fatalf("change status: %v", err)
	}

	if len(poster.inputs) != 1 || !poster.inputs[0].Collected.Equal(order.Amount) {
		t.Fatalf("expected collected to default to order amount %s", order.Amount)
	}
}

func TestPartialDeliverySpawnsRemainderOrder(t *testing.T) {
	order := pendingOrder()
	repo := newStubOrdersRepo(order)
	poster := &stubPoster{}
	svc := buildService(t, repo, &stubResolver{quote: standardQuote()}, poster)

	paid := decimal.NewFromInt(6000)
	if _, err := svc.ChangeStatus(context.Background(), ChangeStatusInput{
		OrderID:    order.ID,
		Target:     enums.OrderStatusPartialDelivery,
		ChangedBy:  uuid.New(),
		PaidAmount: &paid,
	}); err != nil {
		t.Fatalf("change status: %v", err)
	}

	// Parent keeps only the delivered goods portion.
	if amount, ok := repo.updates["amount"]; !ok || !amount.(decimal.Decimal).Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected parent amount 1000, got %v", repo.updates["amount"])
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected one remainder order, got %d", len(repo.created))
	}
	remainder := repo.created[0]
	if remainder.OrderNumber != "1001p" {
		t.Fatalf("expected remainder number 1001p, got %s", remainder.OrderNumber)
	}
	// max(0, 10000 + 5000 - 6000) = 9000
	if !remainder.Amount.Equal(decimal.NewFromInt(9000)) {
		t.Fatalf("expected remainder amount 9000, got %s", remainder.Amount)
	}
	if !remainder.DeliveryFee.IsZero() || !remainder.CourierCommission.IsZero() {
		t.Fatal("remainder must carry zero fee and commission")
	}
	if remainder.Status != enums.OrderStatusReturned {
		t.Fatalf("expected remainder status Returned, got %s", remainder.Status)
	}
	if remainder.Kind != enums.OrderKindRemainder {
		t.Fatalf("expected remainder kind, got %s", remainder.Kind)
	}
	if remainder.ParentOrderID == nil || *remainder.ParentOrderID != order.ID {
		t.Fatal("remainder must point at its parent")
	}
	if len(repo.items) != len(order.Items) {
		t.Fatalf("expected %d cloned items, got %d", len(order.Items), len(repo.items))
	}
	if repo.items[0].ReturnedQuantity != 0 {
		t.Fatal("cloned items start with zero returned quantity")
	}
}

func TestRemainderAmountNeverNegative(t *testing.T) {
	order := pendingOrder()
	order.Amount = decimal.NewFromInt(1000)
	repo := newStubOrdersRepo(order)
	svc := buildService(t, repo, &stubResolver{quote: standardQuote()}, &stubPoster{})

	paid := decimal.NewFromInt(9000)
	if _, err := svc.ChangeStatus(context.Background(), ChangeStatusInput{
		OrderID:    order.ID,
		Target:     enums.OrderStatusPartialDelivery,
		ChangedBy:  uuid.New(),
		PaidAmount: &paid,
	}); err != nil {
		t.Fatalf("change status: %v", err)
	}

	if len(repo.created) != 1 || !repo.created[0].Amount.IsZero() {
		t.Fatalf("expected clamped remainder amount 0, got %v", repo.created)
	}
}

func TestRecompletionDoesNotRepostLedger(t *testing.T) {
	order := pendingOrder()
	order.Status = enums.OrderStatusDelivered
	repo := newStubOrdersRepo(order)
	resolver := &stubResolver{quote: standardQuote()}
	poster := &stubPoster{}
	svc := buildService(t, repo, resolver, poster)

	if _, err := svc.ChangeStatus(context.Background(), ChangeStatusInput{
		OrderID:   order.ID,
		Target:    enums.OrderStatusDelivered,
		ChangedBy: uuid.New(),
	}); err != nil {
		t.Fatalf("change status: %v", err)
	}

	if len(poster.inputs) != 0 {
		t.Fatal("repeat completion must not re-post the ledger")
	}
	if len(resolver.inputs) != 0 {
		t.Fatal("repeat completion must not re-resolve pricing")
	}
	if len(repo.created) != 0 {
		t.Fatal("repeat completion must not spawn orders")
	}
}

func TestTerminalStatesRejectAllTransitions(t *testing.T) {
	for _, terminal := range []enums.OrderStatus{enums.OrderStatusCancelled, enums.OrderStatusDeleted} {
		order := pendingOrder()
		order.Status = terminal
		repo := newStubOrdersRepo(order)
		svc := buildService(t, repo, &stubResolver{quote: standardQuote()}, &stubPoster{})

		_, err := svc.ChangeStatus(context.Background(), ChangeStatusInput{
			OrderID:   order.ID,
			Target:    enums.OrderStatusDelivered,
			ChangedBy: uuid.New(),
		})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
			t.Fatalf("expected state conflict from %s, got %v", terminal, err)
		}
		if repo.casTo != "" {
			t.Fatalf("no status write may happen from %s", terminal)
		}
	}
}

func TestCASFailureSurfacesConflict(t *testing.T) {
	order := pendingOrder()
	repo := newStubOrdersRepo(order)
	repo.casRows = 0
	poster := &stubPoster{}
	svc := buildService(t, repo, &stubResolver{quote: standardQuote()}, poster)

	_, err := svc.ChangeStatus(context.Background(), ChangeStatusInput{
		OrderID:   order.ID,
		Target:    enums.OrderStatusDelivered,
		ChangedBy: uuid.New(),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(poster.inputs) != 0 {
		t.Fatal("lost CAS must not post the ledger")
	}
}

func TestCourierClearingIntoWarehouseUnlessSupplied(t *testing.T) {
	order := pendingOrder()
	order.Status = enums.OrderStatusPending
	repo := newStubOrdersRepo(order)
	svc := buildService(t, repo, &stubResolver{quote: standardQuote()}, &stubPoster{})

	if _, err := svc.ChangeStatus(context.Background(), ChangeStatusInput{
		OrderID:   order.ID,
		Target:    enums.OrderStatusInWarehouse,
		ChangedBy: uuid.New(),
	}); err != nil {
		t.Fatalf("change status: %v", err)
	}
	if v, ok := repo.updates["delivery_courier_id"]; !ok || v != nil {
		t.Fatalf("expected courier cleared, got %v", v)
	}

	replacement := uuid.New()
	repo2 := newStubOrdersRepo(pendingOrder())
	repo2.order.Status = enums.OrderStatusPending
	svc2 := buildService(t, repo2, &stubResolver{quote: standardQuote()}, &stubPoster{})
	if _, err := svc2.ChangeStatus(context.Background(), ChangeStatusInput{
		OrderID:           repo2.order.ID,
		Target:            enums.OrderStatusInBranch,
		ChangedBy:         uuid.New(),
		DeliveryCourierID: &replacement,
	}); err != nil {
		t.Fatalf("change status: %v", err)
	}
	if v, ok := repo2.updates["delivery_courier_id"]; !ok || v != replacement {
		t.Fatalf("expected replacement courier, got %v", v)
	}
}

func TestUpdateOnlyAllowedWhilePending(t *testing.T) {
	order := pendingOrder()
	order.Status = enums.OrderStatusInWarehouse
	repo := newStubOrdersRepo(order)
	svc := buildService(t, repo, &stubResolver{quote: standardQuote()}, &stubPoster{})

	name := "New Name"
	err := svc.Update(context.Background(), UpdateOrderInput{
		OrderID:      order.ID,
		CustomerName: &name,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}

	order.Status = enums.OrderStatusPending
	if err := svc.Update(context.Background(), UpdateOrderInput{
		OrderID:      order.ID,
		CustomerName: &name,
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if repo.updates["customer_name"] != name {
		t.Fatalf("expected customer name update, got %v", repo.updates)
	}
}

func TestTransferSetsBranchOwnership(t *testing.T) {
	order := pendingOrder()
	order.Status = enums.OrderStatusInWarehouse
	repo := newStubOrdersRepo(order)
	svc := buildService(t, repo, &stubResolver{quote: standardQuote()}, &stubPoster{})

	branchID := uuid.New()
	if err := svc.Transfer(context.Background(), TransferInput{
		OrderID:           order.ID,
		BranchWarehouseID: branchID,
		ChangedBy:         uuid.New(),
	}); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	if repo.casTo != enums.OrderStatusTransferred {
		t.Fatalf("expected transition to Transferred, got %s", repo.casTo)
	}
	if repo.updates["warehouse_kind"] != enums.WarehouseKindBranch {
		t.Fatalf("expected branch ownership, got %v", repo.updates["warehouse_kind"])
	}
	if repo.updates["branch_warehouse_id"] != branchID {
		t.Fatalf("expected branch id %s, got %v", branchID, repo.updates["branch_warehouse_id"])
	}
}
