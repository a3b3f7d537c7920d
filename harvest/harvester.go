package harvest

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/l3uddz/iconkit/logger"
	"github.com/l3uddz/iconkit/utils/timeout"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

/* Struct */

// Source describes where harvested icons come from.
type Source struct {
	URL      string
	Branch   string
	IconsDir string
	Version  string
}

// ScrapedIcon is a single harvested icon. Path is relative to the repository root.
type ScrapedIcon struct {
	Name      string `json:"name"`
	SVG       string `json:"svg"`
	JSX       string `json:"jsx"`
	SourceURL string `json:"source_url"`
	Version   string `json:"version"`
	Path      string `json:"-"`
}

type Harvester struct {
	log         *logrus.Entry
	fileTimeout time.Duration
}

/* Initializer */

func New(fileTimeout time.Duration) *Harvester {
	return &Harvester{
		log:         logger.GetLogger("harvest"),
		fileTimeout: fileTimeout,
	}
}

/* Public */

// Harvest reads every svg below src.IconsDir. One malformed icon fails the whole harvest.
func (h *Harvester) Harvest(ctx context.Context, repoDir string, src Source) ([]ScrapedIcon, error) {
	files, err := listSVGs(filepath.Join(repoDir, src.IconsDir))
	if err != nil {
		return nil, err
	}

	icons := make([]ScrapedIcon, len(files))
	g, gctx := errgroup.WithContext(ctx)

	for i, file := range files {
		i, file := i, file

		g.Go(func() error {
			rel, err := filepath.Rel(repoDir, file)
			if err != nil {
				return errors.Wrapf(err, "failed resolving relative path: %q", file)
			}
			rel = filepath.ToSlash(rel)

			raw, err := timeout.Run(gctx, h.fileTimeout, "read "+rel, func(ctx context.Context) ([]byte, error) {
				return os.ReadFile(file)
			})
			if err != nil {
				return errors.WithMessagef(err, "failed reading icon: %q", rel)
			}

			icon, err := h.convert(string(raw), rel, src)
			if err != nil {
				return err
			}

			icons[i] = icon
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	assignNames(icons, src.IconsDir)

	h.log.WithFields(logrus.Fields{
		"icons_dir": src.IconsDir,
		"icons":     len(icons),
	}).Debug("Harvested icons")
	return icons, nil
}

// SourceURL builds the browsable url of a file in the upstream repository.
func SourceURL(repoURL string, branch string, relPath string) string {
	base := strings.TrimSuffix(strings.TrimRight(repoURL, "/"), ".git")
	return base + "/blob/" + branch + "/" + strings.TrimLeft(filepath.ToSlash(relPath), "/")
}

/* Private */

func (h *Harvester) convert(raw string, rel string, src Source) (ScrapedIcon, error) {
	svg := NormalizeSVG(raw)

	jsx, err := ToJSX(svg)
	if err == nil {
		err = ValidateJSX(jsx)
	}
	if err != nil {
		h.log.WithError(err).WithFields(logrus.Fields{
			"path": rel,
			"svg":  svg,
			"jsx":  jsx,
		}).Error("Icon failed jsx validation")
		return ScrapedIcon{}, errors.WithMessagef(err, "invalid icon markup: %q", rel)
	}

	return ScrapedIcon{
		SVG:       svg,
		JSX:       jsx,
		SourceURL: SourceURL(src.URL, src.Branch, rel),
		Version:   src.Version,
		Path:      rel,
	}, nil
}

func listSVGs(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".svg") {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed listing icons in: %q", root)
	}

	sort.Strings(files)
	return files, nil
}

// assignNames names icons after their file, falling back to the path below the icons
// directory when two files share a base name.
func assignNames(icons []ScrapedIcon, iconsDir string) {
	counts := make(map[string]int, len(icons))
	for i := range icons {
		icons[i].Name = baseName(icons[i].Path)
		counts[icons[i].Name]++
	}

	prefix := strings.Trim(filepath.ToSlash(filepath.Clean(iconsDir)), "/")
	if prefix == "." {
		prefix = ""
	}

	for i := range icons {
		if counts[icons[i].Name] < 2 {
			continue
		}

		p := strings.TrimPrefix(icons[i].Path, prefix)
		p = strings.Trim(strings.TrimSuffix(p, filepath.Ext(p)), "/")
		icons[i].Name = strings.ReplaceAll(p, "/", "-")
	}
}

func baseName(p string) string {
	base := filepath.Base(filepath.FromSlash(p))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
