package database

import (
	"database/sql/driver"
	"time"

	"github.com/pkg/errors"
)

type Provider struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	GitURL      string `gorm:"column:git_url;not null;index" json:"git_url"`
	GitBranch   string `gorm:"column:git_branch" json:"git_branch"`
	GitIconsDir string `gorm:"column:git_icons_dir" json:"git_icons_dir"`
}

func (Provider) TableName() string {
	return "provider"
}

type Icon struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"not null;uniqueIndex:idx_icon_provider_name_version,priority:2" json:"name"`
	SVG        string    `gorm:"column:svg;type:text;not null" json:"svg"`
	JSX        string    `gorm:"column:jsx;type:text;not null" json:"jsx"`
	SourceURL  string    `gorm:"column:source_url" json:"source_url"`
	Version    string    `gorm:"not null;uniqueIndex:idx_icon_provider_name_version,priority:3" json:"version"`
	ProviderID uint      `gorm:"not null;uniqueIndex:idx_icon_provider_name_version,priority:1" json:"provider_id"`
	Tags       Tags      `gorm:"type:text" json:"tags"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Icon) TableName() string {
	return "icon"
}

type License struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ProviderID uint   `gorm:"not null;uniqueIndex" json:"provider_id"`
	Type       string `json:"type"`
	URL        string `gorm:"column:url" json:"url"`
}

func (License) TableName() string {
	return "license"
}

// Tags is stored as a JSON array in a text column.
type Tags []string

func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}

	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, errors.WithMessage(err, "failed marshalling tags")
	}

	return string(b), nil
}

func (t *Tags) Scan(value interface{}) error {
	var data []byte

	switch v := value.(type) {
	case nil:
		*t = Tags{}
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return errors.Errorf("unsupported tags column type: %T", value)
	}

	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return errors.WithMessage(err, "failed unmarshalling tags")
	}

	if tags == nil {
		tags = []string{}
	}

	*t = tags
	return nil
}

// TagElement returns how a single tag appears inside the stored column.
func TagElement(tag string) string {
	b, err := json.Marshal(tag)
	if err != nil {
		return `"` + tag + `"`
	}

	return string(b)
}
