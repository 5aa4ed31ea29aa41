package orders

import (
	"testing"

	"github.com/google/uuid"

	"github.com/rasilexpress/backoffice/pkg/db/models"
	"github.com/rasilexpress/backoffice/pkg/enums"
	pkgerrors "github.com/rasilexpress/backoffice/pkg/errors"
	"github.com/rasilexpress/backoffice/pkg/types"
)

func TestValidateTransitionGuards(t *testing.T) {
	parent := uuid.New()

	cases := []struct {
		name    string
		from    enums.OrderStatus
		kind    enums.OrderKind
		target  enums.OrderStatus
		allowed bool
	}{
		{"pending to warehouse", enums.OrderStatusPending, enums.OrderKindNormal, enums.OrderStatusInWarehouse, true},
		{"warehouse to delivered", enums.OrderStatusInWarehouse, enums.OrderKindNormal, enums.OrderStatusDelivered, true},
		{"cancelled is terminal", enums.OrderStatusCancelled, enums.OrderKindNormal, enums.OrderStatusPending, false},
		{"deleted is terminal", enums.OrderStatusDeleted, enums.OrderKindNormal, enums.OrderStatusInWarehouse, false},
		{"returned cannot be delivered", enums.OrderStatusReturned, enums.OrderKindNormal, enums.OrderStatusDelivered, false},
		{"returned can go back to warehouse", enums.OrderStatusReturned, enums.OrderKindNormal, enums.OrderStatusInWarehouse, true},
		{"delivered cannot go to merchant", enums.OrderStatusDelivered, enums.OrderKindNormal, enums.OrderStatusReturnedToMerchant, false},
		{"partial normal cannot go to merchant", enums.OrderStatusPartialDelivery, enums.OrderKindNormal, enums.OrderStatusReturnedToMerchant, false},
		{"partial remainder can go to merchant", enums.OrderStatusPartialDelivery, enums.OrderKindRemainder, enums.OrderStatusReturnedToMerchant, true},
		{"returned can go to merchant", enums.OrderStatusReturned, enums.OrderKindNormal, enums.OrderStatusReturnedToMerchant, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := &models.Order{Status: tc.from, Kind: tc.kind}
			if tc.kind == enums.OrderKindRemainder {
				order.ParentOrderID = &parent
			}

			err := validateTransition(order, tc.target)
			if tc.allowed && err != nil {
				t.Fatalf("expected transition allowed, got %v", err)
			}
			if !tc.allowed {
				typed := pkgerrors.As(err)
				if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
					t.Fatalf("expected state conflict, got %v", err)
				}
			}
		})
	}
}

func TestValidateTransitionRejectsUnknownStatus(t *testing.T) {
	order := &models.Order{Status: enums.OrderStatusPending}
	err := validateTransition(order, enums.OrderStatus("Teleported"))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWarehouseUpdatesDirectives(t *testing.T) {
	branchID := uuid.New()

	t.Run("absent directives leave ownership alone", func(t *testing.T) {
		order := &models.Order{WarehouseKind: enums.WarehouseKindMain}
		updates, err := warehouseUpdates(order, enums.OrderStatusInWarehouse, types.Optional[bool]{}, types.Optional[uuid.UUID]{})
		if err != nil || updates != nil {
			t.Fatalf("expected no updates, got %v / %v", updates, err)
		}
	})

	t.Run("main claim clears branch", func(t *testing.T) {
		order := &models.Order{WarehouseKind: enums.WarehouseKindBranch, BranchWarehouseID: &branchID}
		updates, err := warehouseUpdates(order, enums.OrderStatusInWarehouse, types.NewOptional(true), types.Optional[uuid.UUID]{})
		if err != nil {
			t.Fatalf("warehouse updates: %v", err)
		}
		if updates["warehouse_kind"] != enums.WarehouseKindMain {
			t.Fatalf("expected main ownership, got %v", updates["warehouse_kind"])
		}
		if v, ok := updates["branch_warehouse_id"]; !ok || v != nil {
			t.Fatalf("expected branch cleared, got %v", v)
		}
	})

	t.Run("branch claim wins ownership", func(t *testing.T) {
		order := &models.Order{WarehouseKind: enums.WarehouseKindNone}
		updates, err := warehouseUpdates(order, enums.OrderStatusInBranch, types.Optional[bool]{}, types.NewOptional(branchID))
		if err != nil {
			t.Fatalf("warehouse updates: %v", err)
		}
		if updates["warehouse_kind"] != enums.WarehouseKindBranch || updates["branch_warehouse_id"] != branchID {
			t.Fatalf("expected branch ownership, got %v", updates)
		}
	})

	t.Run("explicit null releases current owner", func(t *testing.T) {
		order := &models.Order{WarehouseKind: enums.WarehouseKindMain}
		updates, err := warehouseUpdates(order, enums.OrderStatusInWarehouse, types.NullOptional[bool](), types.Optional[uuid.UUID]{})
		if err != nil {
			t.Fatalf("warehouse updates: %v", err)
		}
		if updates["warehouse_kind"] != enums.WarehouseKindNone {
			t.Fatalf("expected ownership released, got %v", updates)
		}
	})

	t.Run("null branch only releases branch owner", func(t *testing.T) {
		order := &models.Order{WarehouseKind: enums.WarehouseKindMain}
		updates, err := warehouseUpdates(order, enums.OrderStatusInWarehouse, types.Optional[bool]{}, types.NullOptional[uuid.UUID]())
		if err != nil {
			t.Fatalf("warehouse updates: %v", err)
		}
		if _, ok := updates["warehouse_kind"]; ok {
			t.Fatal("main ownership must survive a branch release")
		}
		if v, ok := updates["branch_warehouse_id"]; !ok || v != nil {
			t.Fatalf("expected branch id cleared, got %v", v)
		}
	})

	t.Run("main claim with explicit null branch keeps main", func(t *testing.T) {
		order := &models.Order{WarehouseKind: enums.WarehouseKindBranch, BranchWarehouseID: &branchID}
		updates, err := warehouseUpdates(order, enums.OrderStatusInWarehouse, types.NewOptional(true), types.NullOptional[uuid.UUID]())
		if err != nil {
			t.Fatalf("warehouse updates: %v", err)
		}
		if updates["warehouse_kind"] != enums.WarehouseKindMain {
			t.Fatalf("expected main ownership, got %v", updates["warehouse_kind"])
		}
		if v, ok := updates["branch_warehouse_id"]; !ok || v != nil {
			t.Fatalf("expected branch id cleared, got %v", v)
		}
	})

	t.Run("both claims rejected", func(t *testing.T) {
		order := &models.Order{}
		_, err := warehouseUpdates(order, enums.OrderStatusInWarehouse, types.NewOptional(true), types.NewOptional(branchID))
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("delivered never touches ownership", func(t *testing.T) {
		order := &models.Order{WarehouseKind: enums.WarehouseKindBranch, BranchWarehouseID: &branchID}
		updates, err := warehouseUpdates(order, enums.OrderStatusDelivered, types.NewOptional(true), types.Optional[uuid.UUID]{})
		if err != nil || updates != nil {
			t.Fatalf("expected no updates on delivery, got %v / %v", updates, err)
		}
	})
}
