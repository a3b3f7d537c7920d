package database

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// GetOrCreateProvider returns the provider row for p.GitURL, creating it when missing.
func (d *DB) GetOrCreateProvider(ctx context.Context, p Provider) (*Provider, error) {
	var existing Provider

	// does provider already exist?
	err := d.gorm.WithContext(ctx).
		Where(Provider{GitURL: p.GitURL}).
		Attrs(Provider{Name: p.Name, GitBranch: p.GitBranch, GitIconsDir: p.GitIconsDir}).
		FirstOrCreate(&existing).Error
	if err != nil {
		return nil, errors.Wrapf(err, "failed resolving provider for %q", p.GitURL)
	}

	// more than one row for a url means something raced or was inserted by hand
	var count int64
	if err := d.gorm.WithContext(ctx).Model(&Provider{}).Where("git_url = ?", p.GitURL).
		Count(&count).Error; err != nil {
		return nil, errors.Wrapf(err, "failed counting providers for %q", p.GitURL)
	}

	if count > 1 {
		log.WithFields(logrus.Fields{
			"git_url": p.GitURL,
			"rows":    count,
		}).Warn("Multiple provider rows exist for the same git url, this is likely a mistake")
	}

	return &existing, nil
}

func (d *DB) ListProviders(ctx context.Context) ([]Provider, error) {
	providers := make([]Provider, 0)

	if err := d.gorm.WithContext(ctx).Order("name ASC").Find(&providers).Error; err != nil {
		return nil, errors.WithMessage(err, "failed listing providers")
	}

	return providers, nil
}
