package database

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

const likeEscape = `\`

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (d *DB) CountIcons(ctx context.Context, providerID uint, version string) (int64, error) {
	var count int64

	if err := d.gorm.WithContext(ctx).Model(&Icon{}).
		Where("provider_id = ? AND version = ?", providerID, version).
		Count(&count).Error; err != nil {
		return 0, errors.Wrapf(err, "failed counting icons for provider %d version %q", providerID, version)
	}

	return count, nil
}

func (d *DB) TotalIcons(ctx context.Context) (int64, error) {
	var count int64

	if err := d.gorm.WithContext(ctx).Model(&Icon{}).Count(&count).Error; err != nil {
		return 0, errors.WithMessage(err, "failed counting icons")
	}

	return count, nil
}

func (d *DB) DeleteIcons(ctx context.Context, providerID uint, version string) (int64, error) {
	res := d.gorm.WithContext(ctx).
		Where("provider_id = ? AND version = ?", providerID, version).
		Delete(&Icon{})
	if res.Error != nil {
		return 0, errors.Wrapf(res.Error, "failed deleting icons for provider %d version %q", providerID, version)
	}

	return res.RowsAffected, nil
}

func (d *DB) InsertIcons(ctx context.Context, icons []Icon) error {
	if len(icons) == 0 {
		return nil
	}

	if err := d.gorm.WithContext(ctx).Create(&icons).Error; err != nil {
		return errors.Wrapf(err, "failed inserting %d icons", len(icons))
	}

	return nil
}

// ListIcons returns a name-ordered page of all icons.
func (d *DB) ListIcons(ctx context.Context, skip int, limit int) ([]Icon, error) {
	icons := make([]Icon, 0, limit)

	if err := d.gorm.WithContext(ctx).
		Order("name ASC").Order("id ASC").
		Offset(skip).Limit(limit).
		Find(&icons).Error; err != nil {
		return nil, errors.WithMessage(err, "failed listing icons")
	}

	return icons, nil
}

// SearchIcons returns a name-ordered page of icons where, for any term, the name contains
// the term case-insensitively or the tags hold the term as an element.
func (d *DB) SearchIcons(ctx context.Context, terms []string, skip int, limit int) ([]Icon, error) {
	if len(terms) == 0 {
		return d.ListIcons(ctx, skip, limit)
	}

	clauses := make([]string, 0, len(terms))
	args := make([]interface{}, 0, len(terms)*2)

	for _, term := range terms {
		clauses = append(clauses, "(LOWER(name) LIKE ? ESCAPE '"+likeEscape+"' OR tags LIKE ? ESCAPE '"+likeEscape+"')")
		args = append(args,
			"%"+likeReplacer.Replace(strings.ToLower(term))+"%",
			"%"+likeReplacer.Replace(TagElement(term))+"%",
		)
	}

	icons := make([]Icon, 0, limit)
	if err := d.gorm.WithContext(ctx).
		Where(strings.Join(clauses, " OR "), args...).
		Order("name ASC").Order("id ASC").
		Offset(skip).Limit(limit).
		Find(&icons).Error; err != nil {
		return nil, errors.WithMessage(err, "failed searching icons")
	}

	return icons, nil
}
