package database

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// UpsertLicense updates the license of a provider, inserting it when none exists.
func (d *DB) UpsertLicense(ctx context.Context, l License) (*License, error) {
	var existing License

	err := d.gorm.WithContext(ctx).Where("provider_id = ?", l.ProviderID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := d.gorm.WithContext(ctx).Create(&l).Error; err != nil {
			return nil, errors.Wrapf(err, "failed inserting license for provider %d", l.ProviderID)
		}
		return &l, nil
	case err != nil:
		return nil, errors.Wrapf(err, "failed retrieving license for provider %d", l.ProviderID)
	}

	existing.Type = l.Type
	existing.URL = l.URL

	if err := d.gorm.WithContext(ctx).Save(&existing).Error; err != nil {
		return nil, errors.Wrapf(err, "failed updating license for provider %d", l.ProviderID)
	}

	return &existing, nil
}

func (d *DB) ListLicenses(ctx context.Context) ([]License, error) {
	licenses := make([]License, 0)

	if err := d.gorm.WithContext(ctx).Order("provider_id ASC").Find(&licenses).Error; err != nil {
		return nil, errors.WithMessage(err, "failed listing licenses")
	}

	return licenses, nil
}
