package pricing

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rasilexpress/backoffice/pkg/db/models"
)

// Repository manages persistence for pricing configuration.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindOverride(ctx context.Context, merchantID uuid.UUID, province string) (*models.MerchantPricingOverride, error)
	FindLocation(ctx context.Context, province string) (*models.Location, error)
	FindPackageModifier(ctx context.Context, sizeName string) (*models.PackageModifier, error)
	FindSetting(ctx context.Context, key string) (*models.SystemSetting, error)

	ListLocations(ctx context.Context) ([]models.Location, error)
	ListPackageModifiers(ctx context.Context) ([]models.PackageModifier, error)
	ListOverrides(ctx context.Context, merchantID uuid.UUID) ([]models.MerchantPricingOverride, error)

	CreateLocation(ctx context.Context, location *models.Location) error
	UpdateLocation(ctx context.Context, location *models.Location) error
	DeleteLocation(ctx context.Context, id uuid.UUID) error
	CreatePackageModifier(ctx context.Context, modifier *models.PackageModifier) error
	UpdatePackageModifier(ctx context.Context, modifier *models.PackageModifier) error
	DeletePackageModifier(ctx context.Context, id uuid.UUID) error
	UpsertOverride(ctx context.Context, override *models.MerchantPricingOverride) error
	DeleteOverride(ctx context.Context, id uuid.UUID) error
	UpsertSetting(ctx context.Context, setting *models.SystemSetting) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a pricing repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindOverride(ctx context.Context, merchantID uuid.UUID, province string) (*models.MerchantPricingOverride, error) {
	var override models.MerchantPricingOverride
	if err := r.db.WithContext(ctx).
		Where("merchant_id = ? AND province = ?", merchantID, province).
		First(&override).Error; err != nil {
		return nil, err
	}
	return &override, nil
}

func (r *repository) FindLocation(ctx context.Context, province string) (*models.Location, error) {
	var location models.Location
	if err := r.db.WithContext(ctx).
		Where("name = ?", province).
		First(&location).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *repository) FindPackageModifier(ctx context.Context, sizeName string) (*models.PackageModifier, error) {
	var modifier models.PackageModifier
	if err := r.db.WithContext(ctx).
		Where("size_name = ?", sizeName).
		First(&modifier).Error; err != nil {
		return nil, err
	}
	return &modifier, nil
}

func (r *repository) FindSetting(ctx context.Context, key string) (*models.SystemSetting, error) {
	var setting models.SystemSetting
	if err := r.db.WithContext(ctx).
		Where("key = ?", key).
		First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *repository) ListLocations(ctx context.Context) ([]models.Location, error) {
	var locations []models.Location
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

func (r *repository) ListPackageModifiers(ctx context.Context) ([]models.PackageModifier, error) {
	var modifiers []models.PackageModifier
	if err := r.db.WithContext(ctx).Order("size_name ASC").Find(&modifiers).Error; err != nil {
		return nil, err
	}
	return modifiers, nil
}

func (r *repository) ListOverrides(ctx context.Context, merchantID uuid.UUID) ([]models.MerchantPricingOverride, error) {
	var overrides []models.MerchantPricingOverride
	query := r.db.WithContext(ctx).Order("province ASC")
	if merchantID != uuid.Nil {
		query = query.Where("merchant_id = ?", merchantID)
	}
	if err := query.Find(&overrides).Error; err != nil {
		return nil, err
	}
	return overrides, nil
}

func (r *repository) CreateLocation(ctx context.Context, location *models.Location) error {
	return r.db.WithContext(ctx).Create(location).Error
}

func (r *repository) UpdateLocation(ctx context.Context, location *models.Location) error {
	return r.db.WithContext(ctx).Save(location).Error
}

func (r *repository) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Location{}, "id = ?", id).Error
}

func (r *repository) CreatePackageModifier(ctx context.Context, modifier *models.PackageModifier) error {
	return r.db.WithContext(ctx).Create(modifier).Error
}

func (r *repository) UpdatePackageModifier(ctx context.Context, modifier *models.PackageModifier) error {
	return r.db.WithContext(ctx).Save(modifier).Error
}

func (r *repository) DeletePackageModifier(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.PackageModifier{}, "id = ?", id).Error
}

func (r *repository) UpsertOverride(ctx context.Context, override *models.MerchantPricingOverride) error {
	return r.db.WithContext(ctx).Save(override).Error
}

func (r *repository) DeleteOverride(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.MerchantPricingOverride{}, "id = ?", id).Error
}

func (r *repository) UpsertSetting(ctx context.Context, setting *models.SystemSetting) error {
	return r.db.WithContext(ctx).Save(setting).Error
}
