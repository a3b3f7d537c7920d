package git

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/l3uddz/iconkit/logger"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const cacheNamespace = "iconkit-repos"

// default sparse patterns so license files are always present next to the icons
var licensePatterns = []string{
	"/LICENSE*",
	"/LICENCE*",
	"/COPYING*",
	"/license*",
}

/* Struct */

type Repo struct {
	Key         string
	URL         string
	Branch      string
	IconsDir    string
	SparsePaths []string
}

type Fetcher struct {
	log      *logrus.Entry
	runner   *Runner
	cacheDir string
}

/* Initializer */

func NewFetcher(runner *Runner, cacheDir string) *Fetcher {
	return &Fetcher{
		log:      logger.GetLogger("git"),
		runner:   runner,
		cacheDir: filepath.Join(cacheDir, cacheNamespace),
	}
}

/* Public */

// Path returns the local working copy location for a repository key.
func (f *Fetcher) Path(key string) string {
	return filepath.Join(f.cacheDir, key)
}

// Fetch returns a local working copy of repo, reusing the cached clone when it is healthy.
func (f *Fetcher) Fetch(ctx context.Context, repo Repo) (string, error) {
	if repo.Key == "" || repo.URL == "" || repo.Branch == "" {
		return "", errors.Errorf("incomplete repository descriptor: %+v", repo)
	}

	dir := f.Path(repo.Key)
	log := f.log.WithFields(logrus.Fields{
		"repo":   repo.Key,
		"branch": repo.Branch,
	})

	if _, err := os.Stat(dir); err == nil {
		// update cached clone
		err := f.update(ctx, dir, repo)
		if err == nil {
			log.Debug("Updated cached repository")
			return dir, nil
		}

		log.WithError(err).Warn("Cached repository unusable, re-cloning")

		if err := os.RemoveAll(dir); err != nil {
			return "", errors.Wrapf(err, "failed removing cached repository: %q", dir)
		}
	}

	// fresh clone
	if err := f.clone(ctx, dir, repo); err != nil {
		_ = os.RemoveAll(dir)
		return "", err
	}

	log.Info("Cloned repository")
	return dir, nil
}

// Revision describes the checked out commit, the nearest tag when there is one.
func (f *Fetcher) Revision(ctx context.Context, dir string) (string, error) {
	rev, err := f.runner.Run(ctx, dir, "describe", "--tags", "--always")
	if err != nil {
		return "", errors.WithMessage(err, "failed describing revision")
	}
	return rev, nil
}

/* Private */

func (f *Fetcher) update(ctx context.Context, dir string, repo Repo) error {
	// validate remote
	remote, err := f.runner.Run(ctx, dir, "remote", "get-url", "origin")
	if err != nil {
		return err
	}

	if normalizeURL(remote) != normalizeURL(repo.URL) {
		return errors.Errorf("cached remote %q does not match %q", remote, repo.URL)
	}

	if err := f.sparseCheckout(ctx, dir, repo); err != nil {
		return err
	}

	// shallow pull; the working copy is read-only so resetting onto the fetched head is safe
	if _, err := f.runner.Run(ctx, dir, "fetch", "--depth=1", "origin", repo.Branch); err != nil {
		return err
	}

	if _, err := f.runner.Run(ctx, dir, "reset", "--hard", "FETCH_HEAD"); err != nil {
		return err
	}

	return nil
}

func (f *Fetcher) clone(ctx context.Context, dir string, repo Repo) error {
	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return errors.Wrapf(err, "failed creating cache directory: %q", filepath.Dir(dir))
	}

	if _, err := f.runner.Run(ctx, filepath.Dir(dir), "clone",
		"--depth=1",
		"--single-branch",
		"--branch", repo.Branch,
		"--filter=blob:none",
		"--no-checkout",
		"--sparse",
		repo.URL, dir); err != nil {
		return errors.WithMessagef(err, "failed cloning %s", repo.URL)
	}

	if err := f.sparseCheckout(ctx, dir, repo); err != nil {
		return errors.WithMessagef(err, "failed configuring sparse checkout for %s", repo.URL)
	}

	if _, err := f.runner.Run(ctx, dir, "checkout", repo.Branch); err != nil {
		return errors.WithMessagef(err, "failed checking out %s", repo.Branch)
	}

	return nil
}

func (f *Fetcher) sparseCheckout(ctx context.Context, dir string, repo Repo) error {
	args := append([]string{"sparse-checkout", "set", "--no-cone"}, SparsePatterns(repo)...)
	_, err := f.runner.Run(ctx, dir, args...)
	return err
}

// SparsePatterns returns the sparse-checkout patterns for a repository.
func SparsePatterns(repo Repo) []string {
	patterns := make([]string, 0, len(licensePatterns)+len(repo.SparsePaths)+1)

	iconsDir := strings.Trim(path.Clean(filepath.ToSlash(repo.IconsDir)), "/")
	if iconsDir == "" || iconsDir == "." {
		patterns = append(patterns, "/**/*.svg")
	} else {
		patterns = append(patterns, "/"+iconsDir+"/**")
	}

	patterns = append(patterns, licensePatterns...)
	patterns = append(patterns, repo.SparsePaths...)
	return patterns
}

func normalizeURL(u string) string {
	return strings.TrimSuffix(strings.TrimRight(strings.TrimSpace(u), "/"), ".git")
}
