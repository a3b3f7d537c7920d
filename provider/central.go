package provider

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	jsoniter "github.com/json-iterator/go"
	"github.com/l3uddz/iconkit/harvest"
	"github.com/l3uddz/iconkit/logger"
	"github.com/l3uddz/iconkit/utils/lists"
	"github.com/l3uddz/iconkit/utils/timeout"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const centralIndexSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["title"],
    "properties": {
      "title": {"type": "string", "minLength": 1},
      "slug": {"type": "string"},
      "aliases": {
        "type": "object",
        "properties": {
          "aka": {"type": "array", "items": {"type": "string"}},
          "old": {"type": "array", "items": {"type": "string"}},
          "dup": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["title"],
              "properties": {"title": {"type": "string"}}
            }
          },
          "loc": {"type": "object", "additionalProperties": {"type": "string"}}
        }
      }
    }
  }
}`

var (
	centralSchemaLoader = gojsonschema.NewStringLoader(centralIndexSchema)

	// slug candidates tried in order for records without an explicit slug
	slugTransforms = []func(string) string{
		func(s string) string { return alnum(s) },
		func(s string) string { return alnum(strings.ReplaceAll(s, "&", "and")) },
		func(s string) string { return alnum(strings.ReplaceAll(s, ".", "dot")) },
		func(s string) string { return alnum(strings.ReplaceAll(s, "+", "plus")) },
		func(s string) string {
			return alnum(strings.NewReplacer("+", "plus", ".", "dot", "&", "and").Replace(s))
		},
		func(s string) string {
			return strings.Map(func(r rune) rune {
				if unicode.IsSpace(r) {
					return -1
				}
				return r
			}, s)
		},
	}
)

/* Struct */

// CentralIndex resolves tags from one shared metadata file keyed by title or slug.
type CentralIndex struct {
	log         *logrus.Entry
	desc        Descriptor
	file        string
	fileTimeout time.Duration
}

type CentralRecord struct {
	Title   string          `json:"title"`
	Slug    string          `json:"slug"`
	Aliases *CentralAliases `json:"aliases"`
}

type CentralAliases struct {
	Aka []string           `json:"aka"`
	Old []string           `json:"old"`
	Dup []CentralDuplicate `json:"dup"`
	Loc map[string]string  `json:"loc"`
}

type CentralDuplicate struct {
	Title string `json:"title"`
}

/* Initializer */

func NewCentralIndex(d Descriptor, opts Options, file string) *CentralIndex {
	return &CentralIndex{
		log:         logger.GetLogger(string(d.Key)),
		desc:        d,
		file:        file,
		fileTimeout: opts.FileTimeout,
	}
}

/* Interface Implements */

func (p *CentralIndex) Descriptor() Descriptor {
	return p.desc
}

// AddTags fails when the index cannot be loaded, every icon depends on it.
func (p *CentralIndex) AddTags(ctx context.Context, repoDir string, icons []harvest.ScrapedIcon) ([]TaggedIcon, error) {
	records, err := p.load(ctx, filepath.Join(repoDir, filepath.FromSlash(p.file)))
	if err != nil {
		return nil, errors.WithMessagef(err, "failed loading %s index", p.desc.Name)
	}

	index := BuildSlugIndex(records)
	p.log.WithFields(logrus.Fields{
		"records": len(records),
		"mapped":  len(index),
	}).Debug("Built slug index")

	return withTags(icons, func(icon harvest.ScrapedIcon) []string {
		for _, name := range lookupNames(icon.Name, icon.Path, nil, false) {
			if rec, ok := index[name]; ok {
				return rec.tags()
			}
		}
		return nil
	}), nil
}

/* Public */

// BuildSlugIndex maps slugs to records: explicit slugs first, then derived slugs claiming
// the first unused candidate.
func BuildSlugIndex(records []CentralRecord) map[string]CentralRecord {
	index := make(map[string]CentralRecord, len(records))

	for _, rec := range records {
		if rec.Slug != "" {
			index[rec.Slug] = rec
		}
	}

	for _, rec := range records {
		if rec.Slug != "" {
			continue
		}

		title := foldTitle(rec.Title)
		for _, transform := range slugTransforms {
			candidate := transform(title)
			if candidate == "" {
				continue
			}
			if _, taken := index[candidate]; taken {
				continue
			}
			index[candidate] = rec
			break
		}
	}

	return index
}

/* Private */

func (p *CentralIndex) load(ctx context.Context, path string) ([]CentralRecord, error) {
	data, err := timeout.Run(ctx, p.fileTimeout, "read "+filepath.Base(path), func(ctx context.Context) ([]byte, error) {
		return os.ReadFile(path)
	})
	if err != nil {
		return nil, err
	}

	// the index is either a bare array or wrapped in {"icons": [...]}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapped struct {
			Icons jsoniter.RawMessage `json:"icons"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, errors.Wrap(err, "failed decoding index")
		}
		data = wrapped.Icons
	}

	result, err := gojsonschema.Validate(centralSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, errors.Wrap(err, "failed validating index")
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		p.log.WithField("errors", problems).Error("Index failed schema validation")
		return nil, errors.Errorf("index failed schema validation: %s", strings.Join(problems, "; "))
	}

	var records []CentralRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(err, "failed decoding index")
	}

	return records, nil
}

func (r CentralRecord) tags() []string {
	tags := []string{r.Title}
	if r.Aliases == nil {
		return tags
	}

	tags = append(tags, r.Aliases.Aka...)
	tags = append(tags, r.Aliases.Old...)
	for _, d := range r.Aliases.Dup {
		tags = append(tags, d.Title)
	}

	locales := make([]string, 0, len(r.Aliases.Loc))
	for locale := range r.Aliases.Loc {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	for _, locale := range locales {
		tags = append(tags, r.Aliases.Loc[locale])
	}

	return lists.StringListUnique(tags)
}

// foldTitle lowercases and strips diacritics.
func foldTitle(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}
	return strings.ToLower(folded)
}

func alnum(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, s)
}
