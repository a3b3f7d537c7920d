package provider

import (
	"context"
	"path/filepath"
	"time"

	"github.com/l3uddz/iconkit/harvest"
	"github.com/l3uddz/iconkit/logger"
	"github.com/l3uddz/iconkit/utils/lists"
	"github.com/sirupsen/logrus"
)

/* Struct */

type FlatMapConfig struct {
	File           string
	Suffixes       []string
	StripSizeDigit bool
	FilterHan      bool
}

// FlatMap reads one file mapping icon names directly to their tags.
type FlatMap struct {
	log         *logrus.Entry
	desc        Descriptor
	cfg         FlatMapConfig
	fileTimeout time.Duration
}

/* Initializer */

func NewFlatMap(d Descriptor, opts Options, cfg FlatMapConfig) *FlatMap {
	return &FlatMap{
		log:         logger.GetLogger(string(d.Key)),
		desc:        d,
		cfg:         cfg,
		fileTimeout: opts.FileTimeout,
	}
}

/* Interface Implements */

func (p *FlatMap) Descriptor() Descriptor {
	return p.desc
}

func (p *FlatMap) AddTags(ctx context.Context, repoDir string, icons []harvest.ScrapedIcon) ([]TaggedIcon, error) {
	var index map[string]interface{}
	if err := readJSON(ctx, p.fileTimeout, filepath.Join(repoDir, filepath.FromSlash(p.cfg.File)), &index); err != nil {
		p.log.WithError(err).Warn("Failed loading tags file, no tags added")
		index = nil
	}

	return withTags(icons, func(icon harvest.ScrapedIcon) []string {
		for _, name := range lookupNames(icon.Name, icon.Path, p.cfg.Suffixes, p.cfg.StripSizeDigit) {
			v, ok := index[name]
			if !ok {
				continue
			}

			tags := tagsFromValue(v)
			if p.cfg.FilterHan {
				tags = dropHan(tags)
			}
			return lists.StringListUnique(tags)
		}
		return nil
	}), nil
}
