package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rasilexpress/backoffice/api/responses"
	"github.com/rasilexpress/backoffice/api/validators"
	"github.com/rasilexpress/backoffice/internal/settlements"
	"github.com/rasilexpress/backoffice/pkg/enums"
	pkgerrors "github.com/rasilexpress/backoffice/pkg/errors"
	"github.com/rasilexpress/backoffice/pkg/logger"
)

// PreviewCourierSettlement projects a courier's pending closeout.
func PreviewCourierSettlement(svc settlements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courierID, err := pathUUID(r, "courierId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		preview, err := svc.PreviewCourier(r.Context(), courierID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, preview)
	}
}

type commitCourierRequest struct {
	CourierID uuid.UUID       `json:"courierId" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
}

// CommitCourierSettlement closes out a courier at the accepted amount.
func CommitCourierSettlement(svc settlements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req commitCourierRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CommitCourier(r.Context(), settlements.CommitCourierInput{
			CourierID:   req.CourierID,
			Amount:      req.Amount,
			ProcessedBy: actorID(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"success":      true,
			"settlementId": result.SettlementID,
		})
	}
}

// PreviewMerchantSettlement projects a merchant's unsettled orders.
func PreviewMerchantSettlement(svc settlements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, err := pathUUID(r, "merchantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		preview, err := svc.PreviewMerchant(r.Context(), merchantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, preview)
	}
}

type commitMerchantRequest struct {
	MerchantID uuid.UUID       `json:"merchantId" validate:"required"`
	Amount     decimal.Decimal `json:"amount"`
}

// CommitMerchantSettlement closes out a merchant.
func CommitMerchantSettlement(svc settlements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req commitMerchantRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CommitMerchant(r.Context(), settlements.CommitMerchantInput{
			MerchantID:  req.MerchantID,
			Amount:      req.Amount,
			ProcessedBy: actorID(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"success":      true,
			"settlementId": result.SettlementID,
		})
	}
}

// GetSettlement returns one settlement record.
func GetSettlement(svc settlements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settlementID, err := pathUUID(r, "settlementId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		settlement, err := svc.Get(r.Context(), settlementID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, settlement)
	}
}

// ListSettlements returns settlements, optionally filtered by type.
func ListSettlements(svc settlements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filter *enums.SettlementType
		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			settlementType, err := enums.ParseSettlementType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid settlement type"))
				return
			}
			filter = &settlementType
		}

		list, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
