package orders

import (
	"github.com/google/uuid"

	"github.com/rasilexpress/backoffice/pkg/db/models"
	"github.com/rasilexpress/backoffice/pkg/enums"
	pkgerrors "github.com/rasilexpress/backoffice/pkg/errors"
	"github.com/rasilexpress/backoffice/pkg/types"
)

// validateTransition enforces the lifecycle guards against the order as it
// stands before the transition.
func validateTransition(order *models.Order, target enums.OrderStatus) error {
	if !target.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid target status").
			WithDetails(map[string]any{"status": string(target)})
	}

	if order.Status.IsTerminal() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order is in a terminal state").
			WithDetails(map[string]any{"status": string(order.Status)})
	}

	if order.Status == enums.OrderStatusReturned && target == enums.OrderStatusDelivered {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "returned orders cannot be delivered")
	}

	if target == enums.OrderStatusReturnedToMerchant {
		if order.Status == enums.OrderStatusDelivered {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "delivered orders cannot be returned to merchant")
		}
		if order.Status == enums.OrderStatusPartialDelivery && !order.IsRemainder() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "partially delivered orders cannot be returned to merchant")
		}
	}

	return nil
}

// warehouseUpdates translates the tri-state warehouse directive into column
// updates. Transitions into Delivered or Returned preserve ownership so
// reporting keeps the final location; everything else follows the main/branch
// exclusivity rules.
func warehouseUpdates(order *models.Order, target enums.OrderStatus, main types.Optional[bool], branch types.Optional[uuid.UUID]) (map[string]any, error) {
	if target == enums.OrderStatusDelivered || target == enums.OrderStatusReturned {
		return nil, nil
	}
	if !main.Present() && !branch.Present() {
		return nil, nil
	}

	mainValue, mainSet := main.Value()
	branchValue, branchSet := branch.Value()
	if mainSet && mainValue && branchSet {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "main and branch warehouse are mutually exclusive")
	}

	updates := map[string]any{}

	switch {
	case mainSet && mainValue:
		updates["warehouse_kind"] = enums.WarehouseKindMain
		updates["branch_warehouse_id"] = nil
	case main.Null() || (mainSet && !mainValue):
		if order.WarehouseKind == enums.WarehouseKindMain {
			updates["warehouse_kind"] = enums.WarehouseKindNone
		}
	}

	switch {
	case branchSet:
		updates["warehouse_kind"] = enums.WarehouseKindBranch
		updates["branch_warehouse_id"] = branchValue
	case branch.Null():
		// Releasing the branch only downgrades ownership when nothing in
		// this request claimed it already.
		if _, claimed := updates["warehouse_kind"]; !claimed && order.WarehouseKind == enums.WarehouseKindBranch {
			updates["warehouse_kind"] = enums.WarehouseKindNone
		}
		updates["branch_warehouse_id"] = nil
	}

	if len(updates) == 0 {
		return nil, nil
	}
	return updates, nil
}
