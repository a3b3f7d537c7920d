package provider

import (
	"context"
	"path"
	"strings"

	"github.com/l3uddz/iconkit/harvest"
)

// StyleKeywords is the vocabulary of style and weight tags found in icon paths.
var StyleKeywords = []string{
	"solid",
	"outline",
	"regular",
	"bold",
	"thin",
	"light",
	"fill",
	"duotone",
	"brand",
	"brands",
	"mini",
	"micro",
	"sharp",
}

/* Struct */

// FilepathKeywords tags icons with the style keywords that appear in their path.
type FilepathKeywords struct {
	desc       Descriptor
	vocabulary map[string]struct{}
}

/* Initializer */

func NewFilepathKeywords(d Descriptor) *FilepathKeywords {
	vocab := make(map[string]struct{}, len(StyleKeywords))
	for _, k := range StyleKeywords {
		vocab[k] = struct{}{}
	}

	return &FilepathKeywords{
		desc:       d,
		vocabulary: vocab,
	}
}

/* Interface Implements */

func (p *FilepathKeywords) Descriptor() Descriptor {
	return p.desc
}

func (p *FilepathKeywords) AddTags(_ context.Context, _ string, icons []harvest.ScrapedIcon) ([]TaggedIcon, error) {
	return withTags(icons, func(icon harvest.ScrapedIcon) []string {
		return p.keywords(icon.Path)
	}), nil
}

/* Private */

func (p *FilepathKeywords) keywords(relPath string) []string {
	relPath = strings.TrimSuffix(relPath, path.Ext(relPath))
	tokens := strings.FieldsFunc(strings.ToLower(relPath), func(r rune) bool {
		return r == '/' || r == '\\' || r == '-'
	})

	tags := make([]string, 0)
	seen := make(map[string]struct{})
	for _, token := range tokens {
		if _, ok := p.vocabulary[token]; !ok {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		tags = append(tags, token)
	}

	return tags
}
