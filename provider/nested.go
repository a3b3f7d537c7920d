package provider

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/l3uddz/iconkit/harvest"
	"github.com/l3uddz/iconkit/logger"
	"github.com/l3uddz/iconkit/utils/lists"
	"github.com/sirupsen/logrus"
)

/* Struct */

type NestedCategoryConfig struct {
	File      string
	Suffixes  []string
	FilterHan bool
}

// NestedCategory reads a file of category -> icon base name -> comma separated tags.
type NestedCategory struct {
	log         *logrus.Entry
	desc        Descriptor
	cfg         NestedCategoryConfig
	fileTimeout time.Duration
}

/* Initializer */

func NewNestedCategory(d Descriptor, opts Options, cfg NestedCategoryConfig) *NestedCategory {
	return &NestedCategory{
		log:         logger.GetLogger(string(d.Key)),
		desc:        d,
		cfg:         cfg,
		fileTimeout: opts.FileTimeout,
	}
}

/* Interface Implements */

func (p *NestedCategory) Descriptor() Descriptor {
	return p.desc
}

func (p *NestedCategory) AddTags(ctx context.Context, repoDir string, icons []harvest.ScrapedIcon) ([]TaggedIcon, error) {
	index, err := p.load(ctx, repoDir)
	if err != nil {
		p.log.WithError(err).Warn("Failed loading tags file, no tags added")
	}

	return withTags(icons, func(icon harvest.ScrapedIcon) []string {
		for _, name := range lookupNames(icon.Name, icon.Path, p.cfg.Suffixes, false) {
			if tags, ok := index[name]; ok {
				return tags
			}
		}
		return nil
	}), nil
}

/* Private */

// load flattens the categories into base name -> tags, with the category as first tag.
// A name listed under several categories collects the tags of all of them, in category order.
func (p *NestedCategory) load(ctx context.Context, repoDir string) (map[string][]string, error) {
	var raw map[string]interface{}
	if err := readJSON(ctx, p.fileTimeout, filepath.Join(repoDir, filepath.FromSlash(p.cfg.File)), &raw); err != nil {
		return nil, err
	}

	categories := make([]string, 0, len(raw))
	for category := range raw {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	index := make(map[string][]string)
	for _, category := range categories {
		icons, ok := raw[category].(map[string]interface{})
		if !ok {
			// e.g. a top level "_comment" string
			continue
		}

		for name, value := range icons {
			tags := append([]string{category}, tagsFromValue(value)...)
			if p.cfg.FilterHan {
				tags = dropHan(tags)
			}
			index[name] = lists.StringListUnique(append(index[name], tags...))
		}
	}

	return index, nil
}
