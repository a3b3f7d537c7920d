package provider

import (
	"time"

	"github.com/l3uddz/iconkit/git"
	"github.com/l3uddz/iconkit/harvest"
)

type Key string

const (
	HeroIcons     Key = "hero_icons"
	FontAwesome   Key = "font_awesome"
	PhosphorIcons Key = "phosphor_icons"
	Lucide        Key = "lucide"
	SimpleIcons   Key = "simple_icons"
	TablerIcons   Key = "tabler_icons"
	MingCuteIcons Key = "mingcute_icons"
	Octicons      Key = "octicons"
	RemixIcon     Key = "remix_icon"
	FeatherIcons  Key = "feather_icons"
	Ionicons      Key = "ionicons"
)

/* Struct */

// Descriptor identifies an upstream icon library.
type Descriptor struct {
	Key      Key
	Name     string
	GitURL   string
	Branch   string
	IconsDir string
	License  string
	// repository-relative metadata files that must be part of the sparse checkout
	Metadata []string
}

// TaggedIcon is a harvested icon with its search tags.
type TaggedIcon struct {
	harvest.ScrapedIcon
	Tags []string `json:"tags"`
}

type Options struct {
	FileTimeout time.Duration
}

/* Public */

func (d Descriptor) Repo() git.Repo {
	sparse := make([]string, 0, len(d.Metadata))
	for _, m := range d.Metadata {
		sparse = append(sparse, "/"+m)
	}

	return git.Repo{
		Key:         string(d.Key),
		URL:         d.GitURL,
		Branch:      d.Branch,
		IconsDir:    d.IconsDir,
		SparsePaths: sparse,
	}
}

func (d Descriptor) Source(version string) harvest.Source {
	return harvest.Source{
		URL:      d.GitURL,
		Branch:   d.Branch,
		IconsDir: d.IconsDir,
		Version:  version,
	}
}

func withTags(icons []harvest.ScrapedIcon, fn func(harvest.ScrapedIcon) []string) []TaggedIcon {
	tagged := make([]TaggedIcon, 0, len(icons))
	for _, icon := range icons {
		tags := fn(icon)
		if tags == nil {
			tags = []string{}
		}
		tagged = append(tagged, TaggedIcon{ScrapedIcon: icon, Tags: tags})
	}
	return tagged
}
