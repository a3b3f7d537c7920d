package provider

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/l3uddz/iconkit/harvest"
	"github.com/l3uddz/iconkit/logger"
	"github.com/l3uddz/iconkit/utils/lists"
	"github.com/sirupsen/logrus"
)

/* Struct */

// AdjacentFile reads tags from a {name}.json file stored next to each icon.
type AdjacentFile struct {
	log         *logrus.Entry
	desc        Descriptor
	fileTimeout time.Duration
}

type adjacentMetadata struct {
	Tags         []string `json:"tags"`
	Categories   []string `json:"categories"`
	Contributors []string `json:"contributors"`
}

/* Initializer */

func NewAdjacentFile(d Descriptor, opts Options) *AdjacentFile {
	return &AdjacentFile{
		log:         logger.GetLogger(string(d.Key)),
		desc:        d,
		fileTimeout: opts.FileTimeout,
	}
}

/* Interface Implements */

func (p *AdjacentFile) Descriptor() Descriptor {
	return p.desc
}

func (p *AdjacentFile) AddTags(ctx context.Context, repoDir string, icons []harvest.ScrapedIcon) ([]TaggedIcon, error) {
	return withTags(icons, func(icon harvest.ScrapedIcon) []string {
		return p.tags(ctx, repoDir, icon)
	}), nil
}

/* Private */

func (p *AdjacentFile) tags(ctx context.Context, repoDir string, icon harvest.ScrapedIcon) []string {
	metaPath := filepath.Join(repoDir, filepath.Dir(filepath.FromSlash(icon.Path)), fileBase(icon.Path)+".json")
	if _, err := os.Stat(metaPath); err != nil {
		return nil
	}

	var meta adjacentMetadata
	if err := readJSON(ctx, p.fileTimeout, metaPath, &meta); err != nil {
		p.log.WithError(err).WithField("icon", icon.Name).Warn("Failed reading icon metadata, no tags added")
		return nil
	}

	merged := make([]string, 0, len(meta.Tags)+len(meta.Categories)+len(meta.Contributors))
	merged = append(merged, meta.Tags...)
	merged = append(merged, meta.Categories...)
	merged = append(merged, meta.Contributors...)
	return lists.StringListUnique(merged)
}
