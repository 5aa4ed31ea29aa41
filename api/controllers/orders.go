package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rasilexpress/backoffice/api/middleware"
	"github.com/rasilexpress/backoffice/api/responses"
	"github.com/rasilexpress/backoffice/api/validators"
	"github.com/rasilexpress/backoffice/internal/orders"
	"github.com/rasilexpress/backoffice/pkg/enums"
	pkgerrors "github.com/rasilexpress/backoffice/pkg/errors"
	"github.com/rasilexpress/backoffice/pkg/logger"
	"github.com/rasilexpress/backoffice/pkg/pagination"
	"github.com/rasilexpress/backoffice/pkg/types"
)

type orderItemRequest struct {
	ItemName  string          `json:"item_name" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type createOrderRequest struct {
	CustomerName    string             `json:"customer_name" validate:"required"`
	CustomerPhone   string             `json:"customer_phone" validate:"required"`
	DeliveryAddress string             `json:"delivery_address" validate:"required"`
	Province        string             `json:"province" validate:"required"`
	Area            *string            `json:"area"`
	PickupAddress   *string            `json:"pickup_address"`
	ShipmentNumber  *string            `json:"shipment_number"`
	MerchantID      *uuid.UUID         `json:"merchant_id"`
	CourierID       *uuid.UUID         `json:"delivery_courier_id"`
	PackageType     *string            `json:"package_type"`
	PackageSize     string             `json:"package_size"`
	Notes           *string            `json:"notes"`
	Amount          decimal.Decimal    `json:"amount"`
	Items           []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CreateOrder registers a new shipment and returns its resolved pricing.
func CreateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.CreateOrderInput{
			CustomerName:      req.CustomerName,
			CustomerPhone:     req.CustomerPhone,
			DeliveryAddress:   req.DeliveryAddress,
			Province:          req.Province,
			Area:              req.Area,
			PickupAddress:     req.PickupAddress,
			ShipmentNumber:    req.ShipmentNumber,
			MerchantID:        req.MerchantID,
			DeliveryCourierID: req.CourierID,
			PackageType:       req.PackageType,
			PackageSize:       req.PackageSize,
			Notes:             req.Notes,
			Amount:            req.Amount,
			ActorID:           actorID(r),
		}
		for _, item := range req.Items {
			input.Items = append(input.Items, orders.OrderItemInput{
				ItemName:  item.ItemName,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}

		result, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// GetOrder returns one order with its items and history.
func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// ListOrders returns a filtered, cursor-paginated order page.
func ListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := orders.ListOrdersFilter{}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filter.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("kind")); raw != "" {
			kind, err := enums.ParseOrderKind(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid kind filter"))
				return
			}
			filter.Kind = &kind
		}
		if id, err := queryUUID(r, "merchant_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		} else if id != nil {
			filter.MerchantID = id
		}
		if id, err := queryUUID(r, "courier_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		} else if id != nil {
			filter.CourierID = id
		}

		result, err := svc.List(r.Context(), orders.ListOrdersInput{
			Filter: filter,
			Page: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type updateOrderRequest struct {
	CustomerName    *string          `json:"customer_name"`
	CustomerPhone   *string          `json:"customer_phone"`
	DeliveryAddress *string          `json:"delivery_address"`
	Province        *string          `json:"province"`
	Area            *string          `json:"area"`
	PickupAddress   *string          `json:"pickup_address"`
	PackageType     *string          `json:"package_type"`
	PackageSize     *string          `json:"package_size"`
	Notes           *string          `json:"notes"`
	Amount          *decimal.Decimal `json:"amount"`
}

// UpdateOrder edits a pending order.
func UpdateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err = svc.Update(r.Context(), orders.UpdateOrderInput{
			OrderID:         orderID,
			ActorID:         actorID(r),
			CustomerName:    req.CustomerName,
			CustomerPhone:   req.CustomerPhone,
			DeliveryAddress: req.DeliveryAddress,
			Province:        req.Province,
			Area:            req.Area,
			PickupAddress:   req.PickupAddress,
			PackageType:     req.PackageType,
			PackageSize:     req.PackageSize,
			Notes:           req.Notes,
			Amount:          req.Amount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"success": true})
	}
}

type itemReturnRequest struct {
	ItemID           uuid.UUID `json:"item_id" validate:"required"`
	ReturnedQuantity int       `json:"returned_quantity" validate:"min=0"`
}

type changeStatusRequest struct {
	Status          string                    `json:"status" validate:"required"`
	PaidAmount      *decimal.Decimal          `json:"paid_amount"`
	CourierID       *uuid.UUID                `json:"delivery_courier_id"`
	Notes           *string                   `json:"notes"`
	Items           []itemReturnRequest       `json:"items" validate:"dive"`
	MainWarehouse   types.Optional[bool]      `json:"main_warehouse"`
	BranchWarehouse types.Optional[uuid.UUID] `json:"branch_warehouse"`
}

// ChangeOrderStatus applies one lifecycle transition.
func ChangeOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req changeStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		target, err := enums.ParseOrderStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		input := orders.ChangeStatusInput{
			OrderID:           orderID,
			Target:            target,
			ChangedBy:         actorID(r),
			PaidAmount:        req.PaidAmount,
			DeliveryCourierID: req.CourierID,
			Notes:             req.Notes,
			MainWarehouse:     req.MainWarehouse,
			BranchWarehouse:   req.BranchWarehouse,
		}
		for _, item := range req.Items {
			input.Items = append(input.Items, orders.ItemReturnInput{
				ItemID:           item.ItemID,
				ReturnedQuantity: item.ReturnedQuantity,
			})
		}

		result, err := svc.ChangeStatus(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"success":   true,
			"oldStatus": result.OldStatus,
			"newStatus": result.NewStatus,
		})
	}
}

type transferRequest struct {
	BranchWarehouseID uuid.UUID `json:"branch_warehouse_id" validate:"required"`
	Notes             *string   `json:"notes"`
}

// TransferOrder moves an order into a branch warehouse.
func TransferOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req transferRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err = svc.Transfer(r.Context(), orders.TransferInput{
			OrderID:           orderID,
			BranchWarehouseID: req.BranchWarehouseID,
			ChangedBy:         actorID(r),
			Notes:             req.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"success": true})
	}
}

// pathUUID parses a UUID URL parameter.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "missing path parameter").
			WithDetails(map[string]any{"field": name})
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id").
			WithDetails(map[string]any{"field": name})
	}
	return id, nil
}

// queryUUID parses an optional UUID query parameter.
func queryUUID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id").
			WithDetails(map[string]any{"field": name})
	}
	return &id, nil
}

// actorID resolves the authenticated user, if any.
func actorID(r *http.Request) uuid.UUID {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}
