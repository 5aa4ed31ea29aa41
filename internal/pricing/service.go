package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rasilexpress/backoffice/pkg/config"
	"github.com/rasilexpress/backoffice/pkg/db/models"
	pkgerrors "github.com/rasilexpress/backoffice/pkg/errors"
)

// DefaultPackageSize is assumed when an order does not name one.
const DefaultPackageSize = "Standard"

// Quote is the resolved price for delivering one order.
type Quote struct {
	BasePrice  decimal.Decimal `json:"base_price"`
	PackageFee decimal.Decimal `json:"package_fee"`
	Fee        decimal.Decimal `json:"fee"`
	Commission decimal.Decimal `json:"commission"`
}

// Resolver computes delivery fees and courier commissions. Lookups run
// against the bound database handle; pass tx to resolve inside a transaction.
type Resolver interface {
	Resolve(ctx context.Context, tx *gorm.DB, input ResolveInput) (*Quote, error)
	DefaultCommission(ctx context.Context, tx *gorm.DB) (decimal.Decimal, error)
}

// ResolveInput identifies the pricing dimensions of one order.
type ResolveInput struct {
	MerchantID  *uuid.UUID
	Province    string
	PackageSize string
}

type resolver struct {
	repo     Repository
	defaults config.PricingConfig
}

// NewResolver wires a pricing resolver with the provided repository and
// fallback defaults.
func NewResolver(repo Repository, defaults config.PricingConfig) (Resolver, error) {
	if repo == nil {
		return nil, fmt.Errorf("pricing repository required")
	}
	return &resolver{repo: repo, defaults: defaults}, nil
}

// Resolve applies the precedence chain: merchant override, then province base
// price, then the configured default. The package surcharge is matched by
// exact size name and contributes zero when no row exists.
func (r *resolver) Resolve(ctx context.Context, tx *gorm.DB, input ResolveInput) (*Quote, error) {
	province := strings.TrimSpace(input.Province)
	if province == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "province required")
	}

	repo := r.repo.WithTx(tx)

	base, err := r.resolveBase(ctx, repo, input.MerchantID, province)
	if err != nil {
		return nil, err
	}

	sizeName := strings.TrimSpace(input.PackageSize)
	if sizeName == "" {
		sizeName = DefaultPackageSize
	}
	packageFee, err := r.resolvePackageFee(ctx, repo, sizeName)
	if err != nil {
		return nil, err
	}

	commission, err := r.resolveCommission(ctx, repo)
	if err != nil {
		return nil, err
	}

	return &Quote{
		BasePrice:  base,
		PackageFee: packageFee,
		Fee:        base.Add(packageFee),
		Commission: commission,
	}, nil
}

// DefaultCommission returns the commission the global setting currently
// prescribes, falling back to the configured default.
func (r *resolver) DefaultCommission(ctx context.Context, tx *gorm.DB) (decimal.Decimal, error) {
	return r.resolveCommission(ctx, r.repo.WithTx(tx))
}

func (r *resolver) resolveBase(ctx context.Context, repo Repository, merchantID *uuid.UUID, province string) (decimal.Decimal, error) {
	if merchantID != nil && *merchantID != uuid.Nil {
		override, err := repo.FindOverride(ctx, *merchantID, province)
		if err == nil {
			return override.Price, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load merchant pricing override")
		}
	}

	location, err := repo.FindLocation(ctx, province)
	if err == nil {
		return location.BasePrice, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location price")
	}

	return decimal.NewFromInt(r.defaults.DefaultBasePrice), nil
}

func (r *resolver) resolvePackageFee(ctx context.Context, repo Repository, sizeName string) (decimal.Decimal, error) {
	modifier, err := repo.FindPackageModifier(ctx, sizeName)
	if err == nil {
		return modifier.AdditionalFee, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load package modifier")
	}
	return decimal.Zero, nil
}

func (r *resolver) resolveCommission(ctx context.Context, repo Repository) (decimal.Decimal, error) {
	setting, err := repo.FindSetting(ctx, models.SettingDefaultCommission)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.NewFromInt(r.defaults.DefaultCommission), nil
		}
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load commission setting")
	}

	commission, parseErr := decimal.NewFromString(strings.TrimSpace(setting.Value))
	if parseErr != nil {
		return decimal.NewFromInt(r.defaults.DefaultCommission), nil
	}
	return commission, nil
}
