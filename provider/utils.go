package provider

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"

	jsoniter "github.com/json-iterator/go"
	"github.com/l3uddz/iconkit/utils/timeout"
	"github.com/pkg/errors"
)

var (
	json = jsoniter.ConfigCompatibleWithStandardLibrary

	sizeSuffix = regexp.MustCompile(`[-_]?\d+$`)
)

// readJSON decodes a metadata file, giving up after fileTimeout.
func readJSON(ctx context.Context, fileTimeout time.Duration, path string, v interface{}) error {
	data, err := timeout.Run(ctx, fileTimeout, "read "+filepath.Base(path), func(ctx context.Context) ([]byte, error) {
		return os.ReadFile(path)
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "failed decoding %q", filepath.Base(path))
	}

	return nil
}

// fileBase is the icon file name without extension, unaffected by name disambiguation.
func fileBase(icon string) string {
	base := filepath.Base(filepath.FromSlash(icon))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// lookupNames lists the names an icon may be keyed by in a metadata file, most specific first.
func lookupNames(name string, path string, suffixes []string, stripSize bool) []string {
	var names []string
	add := func(n string) {
		if n == "" {
			return
		}
		for _, existing := range names {
			if existing == n {
				return
			}
		}
		names = append(names, n)
	}

	for _, n := range []string{name, fileBase(path)} {
		add(n)
		for _, suffix := range suffixes {
			if strings.HasSuffix(n, suffix) {
				add(strings.TrimSuffix(n, suffix))
			}
		}
		if stripSize {
			add(sizeSuffix.ReplaceAllString(n, ""))
		}
	}

	return names
}

// tagsFromValue accepts an array of strings, a comma separated string, or an object
// holding either under "tags".
func tagsFromValue(v interface{}) []string {
	switch t := v.(type) {
	case string:
		return splitTags(t)
	case []interface{}:
		tags := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				tags = append(tags, strings.TrimSpace(s))
			}
		}
		return tags
	case map[string]interface{}:
		if inner, ok := t["tags"]; ok {
			return tagsFromValue(inner)
		}
	}

	return nil
}

func splitTags(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '，'
	})

	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

func containsHan(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

func dropHan(tags []string) []string {
	kept := tags[:0]
	for _, t := range tags {
		if !containsHan(t) {
			kept = append(kept, t)
		}
	}
	return kept
}
