package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rasilexpress/backoffice/api/responses"
	"github.com/rasilexpress/backoffice/api/validators"
	"github.com/rasilexpress/backoffice/internal/finance"
	"github.com/rasilexpress/backoffice/pkg/logger"
)

type payoutRequest struct {
	UserID uuid.UUID       `json:"user_id" validate:"required"`
	Amount decimal.Decimal `json:"amount"`
	Notes  *string         `json:"notes"`
}

// Payout hands cash out to a courier or merchant.
func Payout(svc finance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req payoutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err := svc.Payout(r.Context(), finance.PayoutInput{
			UserID:      req.UserID,
			Amount:      req.Amount,
			Notes:       req.Notes,
			ProcessedBy: actorID(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"success": true})
	}
}

type resetBalanceRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Notes  *string   `json:"notes"`
}

// ResetBalance zeroes a counterparty balance with a compensating adjustment.
func ResetBalance(svc finance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resetBalanceRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err := svc.ResetBalance(r.Context(), finance.ResetBalanceInput{
			UserID:      req.UserID,
			Notes:       req.Notes,
			ProcessedBy: actorID(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"success": true})
	}
}

// ListTransactions returns a user's journal history, newest first.
func ListTransactions(svc finance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		txns, err := svc.ListTransactions(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, txns)
	}
}

// GetBalances returns the balance profiles a user carries.
func GetBalances(svc finance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		balances, err := svc.GetBalances(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, balances)
	}
}

// GetCompanyFinancials returns the company account row.
func GetCompanyFinancials(svc finance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		financials, err := svc.GetCompanyFinancials(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, financials)
	}
}
