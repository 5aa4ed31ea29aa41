package orders

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rasilexpress/backoffice/internal/ledger"
	"github.com/rasilexpress/backoffice/internal/pricing"
	pkgdb "github.com/rasilexpress/backoffice/pkg/db"
	"github.com/rasilexpress/backoffice/pkg/db/models"
	"github.com/rasilexpress/backoffice/pkg/enums"
	pkgerrors "github.com/rasilexpress/backoffice/pkg/errors"
	"github.com/rasilexpress/backoffice/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the order lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDetail, error)
	List(ctx context.Context, input ListOrdersInput) (*ListOrdersResult, error)
	Update(ctx context.Context, input UpdateOrderInput) error
	ChangeStatus(ctx context.Context, input ChangeStatusInput) (*ChangeStatusResult, error)
	Transfer(ctx context.Context, input TransferInput) error
}

type service struct {
	repo    Repository
	tx      txRunner
	pricing pricing.Resolver
	poster  ledger.Poster
}

// NewService builds an order lifecycle service with the required dependencies.
func NewService(repo Repository, tx txRunner, resolver pricing.Resolver, poster ledger.Poster) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("pricing resolver required")
	}
	if poster == nil {
		return nil, fmt.Errorf("ledger poster required")
	}
	return &service{repo: repo, tx: tx, pricing: resolver, poster: poster}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error) {
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
	}
	if strings.TrimSpace(input.Province) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "province required")
	}
	if input.Amount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount cannot be negative")
	}
	for _, item := range input.Items {
		if strings.TrimSpace(item.ItemName) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
		}
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
	}

	var result *CreateOrderResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		quote, err := s.pricing.Resolve(ctx, tx, pricing.ResolveInput{
			MerchantID:  input.MerchantID,
			Province:    input.Province,
			PackageSize: input.PackageSize,
		})
		if err != nil {
			return err
		}

		sequence, err := repo.NextOrderNumber(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate order number")
		}

		packageSize := strings.TrimSpace(input.PackageSize)
		if packageSize == "" {
			packageSize = pricing.DefaultPackageSize
		}

		order := &models.Order{
			OrderNumber:       strconv.FormatInt(sequence, 10),
			ShipmentNumber:    input.ShipmentNumber,
			CustomerName:      input.CustomerName,
			CustomerPhone:     input.CustomerPhone,
			DeliveryAddress:   input.DeliveryAddress,
			Province:          input.Province,
			Area:              input.Area,
			PickupAddress:     input.PickupAddress,
			MerchantID:        input.MerchantID,
			DeliveryCourierID: input.DeliveryCourierID,
			PackageType:       input.PackageType,
			PackageSize:       packageSize,
			Notes:             input.Notes,
			Amount:            input.Amount,
			DeliveryFee:       quote.Fee,
			CourierCommission: quote.Commission,
			Status:            enums.OrderStatusPending,
			Kind:              enums.OrderKindNormal,
			WarehouseKind:     enums.WarehouseKindNone,
		}
		if err := repo.Create(ctx, order); err != nil {
			if pkgdb.IsUniqueViolation(err, "uq_orders_order_number") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order number already taken")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		items := make([]models.OrderItem, 0, len(input.Items))
		for _, item := range input.Items {
			items = append(items, models.OrderItem{
				OrderID:    order.ID,
				ItemName:   item.ItemName,
				Quantity:   item.Quantity,
				UnitPrice:  item.UnitPrice,
				TotalPrice: item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
			})
		}
		if err := repo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}

		history := &models.OrderHistory{
			OrderID:   order.ID,
			Status:    enums.OrderStatusPending,
			ChangedBy: actorPtr(input.ActorID),
		}
		if err := repo.CreateHistory(ctx, history); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order history")
		}

		result = &CreateOrderResult{
			ID:                order.ID,
			OrderNumber:       order.OrderNumber,
			DeliveryFee:       order.DeliveryFee,
			CourierCommission: order.CourierCommission,
			Status:            order.Status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDetail, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	history, err := s.repo.ListHistory(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order history")
	}

	return &OrderDetail{Order: *order, History: history}, nil
}

func (s *service) List(ctx context.Context, input ListOrdersInput) (*ListOrdersResult, error) {
	rows, err := s.repo.List(ctx, input.Filter, input.Page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	limit := pagination.NormalizeLimit(input.Page.Limit)
	result := &ListOrdersResult{Orders: rows}
	if len(rows) > limit {
		result.Orders = rows[:limit]
		last := result.Orders[limit-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return result, nil
}

func (s *service) Update(ctx context.Context, input UpdateOrderInput) error {
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.Status != enums.OrderStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order can only be edited while pending").
				WithDetails(map[string]any{"status": string(order.Status)})
		}

		updates := map[string]any{}
		setString := func(column string, value *string) {
			if value != nil {
				updates[column] = *value
			}
		}
		setString("customer_name", input.CustomerName)
		setString("customer_phone", input.CustomerPhone)
		setString("delivery_address", input.DeliveryAddress)
		setString("province", input.Province)
		setString("area", input.Area)
		setString("pickup_address", input.PickupAddress)
		setString("package_type", input.PackageType)
		setString("package_size", input.PackageSize)
		setString("notes", input.Notes)
		if input.Amount != nil {
			if input.Amount.IsNegative() {
				return pkgerrors.New(pkgerrors.CodeValidation, "amount cannot be negative")
			}
			updates["amount"] = *input.Amount
		}
		if len(updates) == 0 {
			return nil
		}

		if err := repo.UpdateFields(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}
		return nil
	})
}

func (s *service) ChangeStatus(ctx context.Context, input ChangeStatusInput) (*ChangeStatusResult, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid target status").
			WithDetails(map[string]any{"status": string(input.Target)})
	}
	if input.PaidAmount != nil && input.PaidAmount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "paid amount cannot be negative")
	}

	var result *ChangeStatusResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		oldStatus := order.Status

		if err := validateTransition(order, input.Target); err != nil {
			return err
		}

		snapshot := *order

		paid := input.PaidAmount
		if input.Target == enums.OrderStatusDelivered && paid == nil {
			amount := order.Amount
			paid = &amount
		}

		firstCompletion := input.Target.IsCompletion() && !oldStatus.IsCompletion()
		updates := map[string]any{}

		var quote *pricing.Quote
		collected := decimal.Zero
		if paid != nil {
			collected = *paid
		}

		if firstCompletion {
			// Pricing is re-resolved from the stored province and package
			// size so the money split cannot be steered by request input.
			quote, err = s.pricing.Resolve(ctx, tx, pricing.ResolveInput{
				MerchantID:  order.MerchantID,
				Province:    order.Province,
				PackageSize: order.PackageSize,
			})
			if err != nil {
				return err
			}

			updates["delivery_fee"] = quote.Fee
			updates["courier_commission"] = quote.Commission
			if paid != nil {
				updates["paid_amount"] = *paid
			}
			if input.Target == enums.OrderStatusPartialDelivery {
				// The parent keeps only the delivered goods portion; the
				// remainder order carries the rest.
				updates["amount"] = collected.Sub(quote.Fee)
			}
		}

		if input.Target.ClearsCourier() {
			if input.DeliveryCourierID != nil {
				updates["delivery_courier_id"] = *input.DeliveryCourierID
			} else {
				updates["delivery_courier_id"] = nil
			}
		} else if input.DeliveryCourierID != nil {
			updates["delivery_courier_id"] = *input.DeliveryCourierID
		}

		warehouse, err := warehouseUpdates(order, input.Target, input.MainWarehouse, input.BranchWarehouse)
		if err != nil {
			return err
		}
		for column, value := range warehouse {
			updates[column] = value
		}

		rows, err := repo.UpdateStatusCAS(ctx, order.ID, oldStatus, input.Target)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "order status changed concurrently")
		}

		if err := repo.UpdateFields(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order fields")
		}

		if firstCompletion && input.Target == enums.OrderStatusPartialDelivery {
			if err := s.spawnRemainder(ctx, repo, &snapshot, quote.Fee, collected, input.ChangedBy); err != nil {
				return err
			}
		}

		for _, item := range input.Items {
			affected, err := repo.UpdateItemReturnedQuantity(ctx, order.ID, item.ItemID, item.ReturnedQuantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update returned quantity")
			}
			if affected == 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "item does not belong to order").
					WithDetails(map[string]any{"item_id": item.ItemID.String()})
			}
		}

		if firstCompletion {
			err = s.poster.PostCompletion(ctx, tx, ledger.CompletionInput{
				OrderID:     snapshot.ID,
				OrderAmount: snapshot.Amount,
				Collected:   collected,
				Fee:         quote.Fee,
				Commission:  quote.Commission,
				CourierID:   snapshot.DeliveryCourierID,
				MerchantID:  snapshot.MerchantID,
			})
			if err != nil {
				return err
			}
		}

		oldStatusStr := string(oldStatus)
		history := &models.OrderHistory{
			OrderID:   order.ID,
			Status:    input.Target,
			OldStatus: &oldStatusStr,
			ChangedBy: actorPtr(input.ChangedBy),
			Notes:     input.Notes,
		}
		if err := repo.CreateHistory(ctx, history); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order history")
		}

		result = &ChangeStatusResult{
			OrderID:   order.ID,
			OldStatus: oldStatus,
			NewStatus: input.Target,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// spawnRemainder creates the follow-up order for the goods a partial
// delivery left undelivered. It is built from the pre-transition snapshot so
// the parent's mutations do not leak into it.
func (s *service) spawnRemainder(ctx context.Context, repo Repository, snapshot *models.Order, fee, collected decimal.Decimal, changedBy uuid.UUID) error {
	amount := snapshot.Amount.Add(fee).Sub(collected)
	if amount.IsNegative() {
		amount = decimal.Zero
	}

	note := fmt.Sprintf("Remainder of order %s", snapshot.OrderNumber)
	remainder := &models.Order{
		OrderNumber:       snapshot.OrderNumber + "p",
		ShipmentNumber:    snapshot.ShipmentNumber,
		CustomerName:      snapshot.CustomerName,
		CustomerPhone:     snapshot.CustomerPhone,
		DeliveryAddress:   snapshot.DeliveryAddress,
		Province:          snapshot.Province,
		Area:              snapshot.Area,
		PickupAddress:     snapshot.PickupAddress,
		MerchantID:        snapshot.MerchantID,
		DeliveryCourierID: snapshot.DeliveryCourierID,
		PackageType:       snapshot.PackageType,
		PackageSize:       snapshot.PackageSize,
		Notes:             &note,
		Amount:            amount,
		DeliveryFee:       decimal.Zero,
		CourierCommission: decimal.Zero,
		Status:            enums.OrderStatusReturned,
		Kind:              enums.OrderKindRemainder,
		ParentOrderID:     &snapshot.ID,
		WarehouseKind:     snapshot.WarehouseKind,
		BranchWarehouseID: snapshot.BranchWarehouseID,
	}
	if err := repo.Create(ctx, remainder); err != nil {
		if pkgdb.IsUniqueViolation(err, "uq_orders_order_number") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "remainder order already exists")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create remainder order")
	}

	items := make([]models.OrderItem, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		items = append(items, models.OrderItem{
			OrderID:    remainder.ID,
			ItemName:   item.ItemName,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		})
	}
	if err := repo.CreateItems(ctx, items); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clone remainder items")
	}

	history := &models.OrderHistory{
		OrderID:   remainder.ID,
		Status:    enums.OrderStatusReturned,
		ChangedBy: actorPtr(changedBy),
		Notes:     &note,
	}
	if err := repo.CreateHistory(ctx, history); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create remainder history")
	}
	return nil
}

func (s *service) Transfer(ctx context.Context, input TransferInput) error {
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.BranchWarehouseID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "branch warehouse id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		oldStatus := order.Status

		if err := validateTransition(order, enums.OrderStatusTransferred); err != nil {
			return err
		}

		rows, err := repo.UpdateStatusCAS(ctx, order.ID, oldStatus, enums.OrderStatusTransferred)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "order status changed concurrently")
		}

		updates := map[string]any{
			"warehouse_kind":      enums.WarehouseKindBranch,
			"branch_warehouse_id": input.BranchWarehouseID,
		}
		if err := repo.UpdateFields(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update warehouse ownership")
		}

		oldStatusStr := string(oldStatus)
		history := &models.OrderHistory{
			OrderID:   order.ID,
			Status:    enums.OrderStatusTransferred,
			OldStatus: &oldStatusStr,
			ChangedBy: actorPtr(input.ChangedBy),
			Notes:     input.Notes,
		}
		if err := repo.CreateHistory(ctx, history); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order history")
		}
		return nil
	})
}

func actorPtr(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
