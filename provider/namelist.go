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

// NameList reads name -> tags from one file and always tags an icon with its own name.
type NameList struct {
	log         *logrus.Entry
	desc        Descriptor
	file        string
	fileTimeout time.Duration
}

/* Initializer */

func NewNameList(d Descriptor, opts Options, file string) *NameList {
	return &NameList{
		log:         logger.GetLogger(string(d.Key)),
		desc:        d,
		file:        file,
		fileTimeout: opts.FileTimeout,
	}
}

/* Interface Implements */

func (p *NameList) Descriptor() Descriptor {
	return p.desc
}

func (p *NameList) AddTags(ctx context.Context, repoDir string, icons []harvest.ScrapedIcon) ([]TaggedIcon, error) {
	index, err := p.load(ctx, repoDir)
	if err != nil {
		p.log.WithError(err).Warn("Failed loading tags file, icons tagged by name only")
	}

	return withTags(icons, func(icon harvest.ScrapedIcon) []string {
		var tags []string
		for _, name := range lookupNames(icon.Name, icon.Path, nil, false) {
			if t, ok := index[name]; ok {
				tags = append(tags, t...)
				break
			}
		}
		return lists.StringListUnique(append(tags, icon.Name))
	}), nil
}

/* Private */

// load accepts {name: [tags]}, {icons: [{name, tags}]} or [{name, tags}].
func (p *NameList) load(ctx context.Context, repoDir string) (map[string][]string, error) {
	var raw interface{}
	if err := readJSON(ctx, p.fileTimeout, filepath.Join(repoDir, filepath.FromSlash(p.file)), &raw); err != nil {
		return nil, err
	}

	index := make(map[string][]string)
	addEntries := func(entries []interface{}) {
		for _, e := range entries {
			obj, ok := e.(map[string]interface{})
			if !ok {
				continue
			}
			name, _ := obj["name"].(string)
			if name == "" {
				continue
			}
			index[name] = tagsFromValue(obj["tags"])
		}
	}

	switch v := raw.(type) {
	case []interface{}:
		addEntries(v)
	case map[string]interface{}:
		if entries, ok := v["icons"].([]interface{}); ok {
			addEntries(entries)
			break
		}
		for name, tags := range v {
			index[name] = tagsFromValue(tags)
		}
	}

	return index, nil
}
