package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rasilexpress/backoffice/api/responses"
	"github.com/rasilexpress/backoffice/api/validators"
	"github.com/rasilexpress/backoffice/internal/pricing"
	"github.com/rasilexpress/backoffice/pkg/db/models"
	pkgerrors "github.com/rasilexpress/backoffice/pkg/errors"
	"github.com/rasilexpress/backoffice/pkg/logger"
)

type quoteRequest struct {
	MerchantID  *uuid.UUID `json:"merchant_id"`
	Province    string     `json:"province" validate:"required"`
	PackageSize string     `json:"package_size"`
}

// QuoteDelivery resolves the fee and commission an order would carry.
func QuoteDelivery(resolver pricing.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req quoteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := resolver.Resolve(r.Context(), nil, pricing.ResolveInput{
			MerchantID:  req.MerchantID,
			Province:    req.Province,
			PackageSize: req.PackageSize,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// ListLocations returns the province price list.
func ListLocations(repo pricing.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locations, err := repo.ListLocations(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list locations"))
			return
		}
		responses.WriteSuccess(w, locations)
	}
}

type locationRequest struct {
	Name      string          `json:"name" validate:"required"`
	BasePrice decimal.Decimal `json:"base_price"`
}

// CreateLocation adds a deliverable province.
func CreateLocation(repo pricing.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req locationRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		location := &models.Location{Name: req.Name, BasePrice: req.BasePrice}
		if err := repo.CreateLocation(r.Context(), location); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create location"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, location)
	}
}

// UpdateLocation rewrites a province's base price.
func UpdateLocation(repo pricing.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locationID, err := pathUUID(r, "locationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req locationRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		location := &models.Location{ID: locationID, Name: req.Name, BasePrice: req.BasePrice}
		if err := repo.UpdateLocation(r.Context(), location); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update location"))
			return
		}
		responses.WriteSuccess(w, location)
	}
}

// DeleteLocation removes a province from the price list.
func DeleteLocation(repo pricing.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locationID, err := pathUUID(r, "locationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := repo.DeleteLocation(r.Context(), locationID); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete location"))
			return
		}
		responses.WriteSuccess(w, map[string]bool{"success": true})
	}
}

// ListPackageModifiers returns the package size surcharges.
func ListPackageModifiers(repo pricing.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		modifiers, err := repo.ListPackageModifiers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list package modifiers"))
			return
		}
		responses.WriteSuccess(w, modifiers)
	}
}

type packageModifierRequest struct {
	SizeName      string          `json:"size_name" validate:"required"`
	AdditionalFee decimal.Decimal `json:"additional_fee"`
}

// CreatePackageModifier adds a package size surcharge.
func CreatePackageModifier(repo pricing.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req packageModifierRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		modifier := &models.PackageModifier{SizeName: req.SizeName, AdditionalFee: req.AdditionalFee}
		if err := repo.CreatePackageModifier(r.Context(), modifier); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create package modifier"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, modifier)
	}
}

// DeletePackageModifier removes a package size surcharge.
func DeletePackageModifier(repo pricing.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		modifierID, err := pathUUID(r, "modifierId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := repo.DeletePackageModifier(r.Context(), modifierID); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete package modifier"))
			return
		}
		responses.WriteSuccess(w, map[string]bool{"success": true})
	}
}

// ListMerchantOverrides returns negotiated prices, optionally for one merchant.
func ListMerchantOverrides(repo pricing.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID := uuid.Nil
		if id, err := queryUUID(r, "merchant_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		} else if id != nil {
			merchantID = *id
		}

		overrides, err := repo.ListOverrides(r.Context(), merchantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list overrides"))
			return
		}
		responses.WriteSuccess(w, overrides)
	}
}

type overrideRequest struct {
	MerchantID uuid.UUID       `json:"merchant_id" validate:"required"`
	Province   string          `json:"province" validate:"required"`
	Price      decimal.Decimal `json:"price"`
}

// UpsertMerchantOverride pins a negotiated price for a merchant and province.
func UpsertMerchantOverride(repo pricing.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req overrideRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		override := &models.MerchantPricingOverride{
			MerchantID: req.MerchantID,
			Province:   req.Province,
			Price:      req.Price,
		}
		if err := repo.UpsertOverride(r.Context(), override); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save override"))
			return
		}
		responses.WriteSuccess(w, override)
	}
}

// DeleteMerchantOverride removes a negotiated price.
func DeleteMerchantOverride(repo pricing.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		overrideID, err := pathUUID(r, "overrideId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := repo.DeleteOverride(r.Context(), overrideID); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete override"))
			return
		}
		responses.WriteSuccess(w, map[string]bool{"success": true})
	}
}

type settingRequest struct {
	Value string `json:"value" validate:"required"`
}

// UpdateDefaultCommission rewrites the global commission setting.
func UpdateDefaultCommission(repo pricing.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req settingRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, err := decimal.NewFromString(strings.TrimSpace(req.Value)); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "commission must be numeric"))
			return
		}

		setting := &models.SystemSetting{Key: models.SettingDefaultCommission, Value: strings.TrimSpace(req.Value)}
		if err := repo.UpsertSetting(r.Context(), setting); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save setting"))
			return
		}
		responses.WriteSuccess(w, setting)
	}
}
