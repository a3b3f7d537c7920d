package scrape

import (
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/l3uddz/iconkit/provider"
	"github.com/pkg/errors"
)

const debugIconLimit = 100

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func debugRunDir(root string, now time.Time) string {
	return filepath.Join(root, now.Format("20060102-150405"))
}

// dumpIcons writes the first debugIconLimit icons of a provider to {dir}/{provider}.json.
func dumpIcons(dir string, key provider.Key, icons []provider.TaggedIcon) (string, error) {
	if len(icons) > debugIconLimit {
		icons = icons[:debugIconLimit]
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "failed creating debug directory: %q", dir)
	}

	b, err := json.MarshalIndent(icons, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed encoding debug icons")
	}

	path := filepath.Join(dir, string(key)+".json")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", errors.Wrapf(err, "failed writing debug icons: %q", path)
	}

	return path, nil
}
