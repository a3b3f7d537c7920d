package provider

import (
	"fmt"
	"strings"
)

var descriptors = map[Key]Descriptor{
	HeroIcons: {
		Key:      HeroIcons,
		Name:     "Hero Icons",
		GitURL:   "https://github.com/tailwindlabs/heroicons.git",
		Branch:   "master",
		IconsDir: "optimized",
		License:  "MIT",
	},
	FontAwesome: {
		Key:      FontAwesome,
		Name:     "Font Awesome",
		GitURL:   "https://github.com/FortAwesome/Font-Awesome.git",
		Branch:   "6.x",
		IconsDir: "svgs",
		License:  "CC-BY-4.0",
	},
	PhosphorIcons: {
		Key:      PhosphorIcons,
		Name:     "Phosphor Icons",
		GitURL:   "https://github.com/phosphor-icons/core.git",
		Branch:   "main",
		IconsDir: "assets",
		License:  "MIT",
	},
	Lucide: {
		Key:      Lucide,
		Name:     "Lucide",
		GitURL:   "https://github.com/lucide-icons/lucide.git",
		Branch:   "main",
		IconsDir: "icons",
		License:  "ISC",
	},
	SimpleIcons: {
		Key:      SimpleIcons,
		Name:     "Simple Icons",
		GitURL:   "https://github.com/simple-icons/simple-icons.git",
		Branch:   "develop",
		IconsDir: "icons",
		License:  "CC0-1.0",
		Metadata: []string{"_data/simple-icons.json"},
	},
	TablerIcons: {
		Key:      TablerIcons,
		Name:     "Tabler Icons",
		GitURL:   "https://github.com/tabler/tabler-icons.git",
		Branch:   "main",
		IconsDir: "icons",
		License:  "MIT",
		Metadata: []string{"tags.json"},
	},
	MingCuteIcons: {
		Key:      MingCuteIcons,
		Name:     "MingCute Icons",
		GitURL:   "https://github.com/Richard9394/MingCute.git",
		Branch:   "main",
		IconsDir: "svg",
		License:  "Apache-2.0",
		Metadata: []string{"tags.json"},
	},
	Octicons: {
		Key:      Octicons,
		Name:     "Octicons",
		GitURL:   "https://github.com/primer/octicons.git",
		Branch:   "main",
		IconsDir: "icons",
		License:  "MIT",
		Metadata: []string{"keywords.json"},
	},
	RemixIcon: {
		Key:      RemixIcon,
		Name:     "Remix Icon",
		GitURL:   "https://github.com/Remix-Design/RemixIcon.git",
		Branch:   "master",
		IconsDir: "icons",
		License:  "Apache-2.0",
		Metadata: []string{"tags.json"},
	},
	FeatherIcons: {
		Key:      FeatherIcons,
		Name:     "Feather Icons",
		GitURL:   "https://github.com/feathericons/feather.git",
		Branch:   "main",
		IconsDir: "icons",
		License:  "MIT",
		Metadata: []string{"src/tags.json"},
	},
	Ionicons: {
		Key:      Ionicons,
		Name:     "Ionicons",
		GitURL:   "https://github.com/ionic-team/ionicons.git",
		Branch:   "main",
		IconsDir: "src/svg",
		License:  "MIT",
		Metadata: []string{"src/data.json"},
	},
}

/* Public */

// Keys lists every supported provider in a stable order.
func Keys() []Key {
	return []Key{
		HeroIcons,
		FontAwesome,
		PhosphorIcons,
		Lucide,
		SimpleIcons,
		TablerIcons,
		MingCuteIcons,
		Octicons,
		RemixIcon,
		FeatherIcons,
		Ionicons,
	}
}

func ParseKey(s string) (Key, error) {
	k := Key(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := descriptors[k]; !ok {
		return "", fmt.Errorf("unsupported icon provider: %q", s)
	}
	return k, nil
}

// Get returns the tag strategy of a provider, optionally overriding its descriptor.
func Get(key Key, opts Options, override func(*Descriptor)) (Interface, error) {
	d, ok := descriptors[key]
	if !ok {
		return nil, fmt.Errorf("unsupported icon provider: %q", key)
	}

	if override != nil {
		override(&d)
	}

	switch key {
	case HeroIcons, FontAwesome, PhosphorIcons:
		return NewFilepathKeywords(d), nil
	case Lucide:
		return NewAdjacentFile(d, opts), nil
	case SimpleIcons:
		return NewCentralIndex(d, opts, "_data/simple-icons.json"), nil
	case TablerIcons:
		return NewFlatMap(d, opts, FlatMapConfig{
			File:     "tags.json",
			Suffixes: []string{"-filled"},
		}), nil
	case MingCuteIcons:
		return NewFlatMap(d, opts, FlatMapConfig{
			File:      "tags.json",
			Suffixes:  []string{"_line", "_fill"},
			FilterHan: true,
		}), nil
	case Octicons:
		return NewFlatMap(d, opts, FlatMapConfig{
			File:           "keywords.json",
			StripSizeDigit: true,
		}), nil
	case RemixIcon:
		return NewNestedCategory(d, opts, NestedCategoryConfig{
			File:      "tags.json",
			Suffixes:  []string{"-fill", "-line"},
			FilterHan: true,
		}), nil
	case FeatherIcons:
		return NewNameList(d, opts, "src/tags.json"), nil
	case Ionicons:
		return NewNameList(d, opts, "src/data.json"), nil
	default:
		break
	}

	return nil, fmt.Errorf("no tag strategy for icon provider: %q", key)
}
