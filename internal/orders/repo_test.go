package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rasilexpress/backoffice/pkg/db/models"
	"github.com/rasilexpress/backoffice/pkg/enums"
	"github.com/rasilexpress/backoffice/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  shipment_number TEXT,
  customer_name TEXT NOT NULL,
  customer_phone TEXT NOT NULL,
  delivery_address TEXT NOT NULL,
  province TEXT NOT NULL,
  area TEXT,
  pickup_address TEXT,
  merchant_id TEXT,
  delivery_courier_id TEXT,
  package_type TEXT,
  package_size TEXT NOT NULL DEFAULT 'Standard',
  notes TEXT,
  amount NUMERIC NOT NULL,
  delivery_fee NUMERIC NOT NULL,
  courier_commission NUMERIC NOT NULL,
  paid_amount NUMERIC,
  status TEXT NOT NULL DEFAULT 'Pending',
  kind TEXT NOT NULL DEFAULT 'normal',
  parent_order_id TEXT,
  warehouse_kind TEXT NOT NULL DEFAULT 'none',
  branch_warehouse_id TEXT,
  courier_settlement_id TEXT,
  merchant_settlement_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  item_name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  returned_quantity INTEGER NOT NULL DEFAULT 0,
  unit_price NUMERIC NOT NULL,
  total_price NUMERIC NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderHistory := `
CREATE TABLE IF NOT EXISTS order_history (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  status TEXT NOT NULL,
  old_status TEXT,
  changed_by TEXT,
  notes TEXT,
  created_at DATETIME
);`
	sequences := `
CREATE TABLE IF NOT EXISTS sequences (
  name TEXT PRIMARY KEY,
  value INTEGER NOT NULL
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	require.NoError(t, db.Exec(orderHistory).Error)
	require.NoError(t, db.Exec(sequences).Error)
	require.NoError(t, db.Exec(`DELETE FROM orders`).Error)
	require.NoError(t, db.Exec(`DELETE FROM order_items`).Error)
	require.NoError(t, db.Exec(`DELETE FROM order_history`).Error)
	require.NoError(t, db.Exec(`DELETE FROM sequences`).Error)
	require.NoError(t, db.Exec(`INSERT INTO sequences (name, value) VALUES ('order_number', 1000)`).Error)
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, number string, status enums.OrderStatus, created time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:                uuid.New(),
		OrderNumber:       number,
		CustomerName:      "Dara",
		CustomerPhone:     "0770",
		DeliveryAddress:   "Street 5",
		Province:          "Baghdad",
		PackageSize:       "Standard",
		Amount:            decimal.NewFromInt(10000),
		DeliveryFee:       decimal.NewFromInt(5000),
		CourierCommission: decimal.NewFromInt(2000),
		Status:            status,
		Kind:              enums.OrderKindNormal,
		WarehouseKind:     enums.WarehouseKindNone,
		CreatedAt:         created,
		UpdatedAt:         created,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestUpdateStatusCASRequiresExpectedStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedOrder(t, db, "2001", enums.OrderStatusPending, time.Now().UTC())

	rows, err := repo.UpdateStatusCAS(ctx, order.ID, enums.OrderStatusPending, enums.OrderStatusInWarehouse)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	// Second writer still expecting Pending loses the race.
	rows, err = repo.UpdateStatusCAS(ctx, order.ID, enums.OrderStatusPending, enums.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)

	reloaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusInWarehouse, reloaded.Status)
}

func TestNextOrderNumberIncrements(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	first, err := repo.NextOrderNumber(ctx)
	require.NoError(t, err)
	second, err := repo.NextOrderNumber(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(1001), first)
	assert.Equal(t, int64(1002), second)
}

func TestUpdateItemReturnedQuantityScopedToOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedOrder(t, db, "2002", enums.OrderStatusPartialDelivery, time.Now().UTC())
	other := seedOrder(t, db, "2003", enums.OrderStatusPending, time.Now().UTC())

	item := models.OrderItem{
		ID:         uuid.New(),
		OrderID:    order.ID,
		ItemName:   "Box",
		Quantity:   3,
		UnitPrice:  decimal.NewFromInt(1000),
		TotalPrice: decimal.NewFromInt(3000),
	}
	require.NoError(t, repo.CreateItems(ctx, []models.OrderItem{item}))

	rows, err := repo.UpdateItemReturnedQuantity(ctx, order.ID, item.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	// The same item id under a different order must not match.
	rows, err = repo.UpdateItemReturnedQuantity(ctx, other.ID, item.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)

	reloaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.Equal(t, 2, reloaded.Items[0].ReturnedQuantity)
}

func TestListFiltersAndPaginates(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedOrder(t, db, "3"+string(rune('0'+i))+"00", enums.OrderStatusPending, base.Add(time.Duration(i)*time.Minute))
	}
	delivered := seedOrder(t, db, "3900", enums.OrderStatusDelivered, base.Add(time.Hour))

	status := enums.OrderStatusPending
	rows, err := repo.List(ctx, ListOrdersFilter{Status: &status}, pagination.Params{Limit: 2})
	require.NoError(t, err)
	// Limit plus look-ahead buffer row.
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, enums.OrderStatusPending, row.Status)
	}
	// Newest first.
	assert.True(t, rows[0].CreatedAt.After(rows[1].CreatedAt))

	cursor := pagination.EncodeCursor(pagination.Cursor{CreatedAt: rows[1].CreatedAt, ID: rows[1].ID})
	next, err := repo.List(ctx, ListOrdersFilter{Status: &status}, pagination.Params{Limit: 2, Cursor: cursor})
	require.NoError(t, err)
	require.NotEmpty(t, next)
	for _, row := range next {
		assert.True(t, row.CreatedAt.Before(rows[1].CreatedAt) ||
			(row.CreatedAt.Equal(rows[1].CreatedAt) && row.ID.String() < rows[1].ID.String()))
	}

	deliveredStatus := enums.OrderStatusDelivered
	onlyDelivered, err := repo.List(ctx, ListOrdersFilter{Status: &deliveredStatus}, pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, onlyDelivered, 1)
	assert.Equal(t, delivered.ID, onlyDelivered[0].ID)
}
