package scrape

import (
	"context"
	"sync"
	"time"

	"github.com/l3uddz/iconkit/database"
	"github.com/l3uddz/iconkit/git"
	"github.com/l3uddz/iconkit/harvest"
	"github.com/l3uddz/iconkit/license"
	"github.com/l3uddz/iconkit/logger"
	"github.com/l3uddz/iconkit/provider"
	"github.com/l3uddz/iconkit/secrets"
	"github.com/l3uddz/iconkit/upload"
	"github.com/l3uddz/iconkit/utils/timeout"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

/* Struct */

type Options struct {
	// 0 runs every provider at once
	Concurrency   int
	ScrapeTimeout time.Duration
	FileTimeout   time.Duration
	// empty disables debug dumps
	DebugDir   string
	SecretName string
}

// Target is a provider to scrape with its configured overrides.
type Target struct {
	Key provider.Key
	// mirror of the upstream repository
	GitURL  string
	Branch  string
	Ignores []string
}

// Result is the outcome of scraping a single provider.
type Result struct {
	Provider provider.Key
	Version  string
	Icons    int
	Duration time.Duration
	Err      error
}

// Summary collects every provider result; one failure never hides another's result.
type Summary struct {
	Results []Result
	Total   int64
	// set when counting or publishing the total failed
	Err error
}

type Scraper struct {
	log       *logrus.Entry
	db        *database.DB
	fetcher   *git.Fetcher
	harvester *harvest.Harvester
	uploader  *upload.Uploader
	secrets   secrets.Interface
	opts      Options
}

/* Initializer */

func New(db *database.DB, fetcher *git.Fetcher, harvester *harvest.Harvester, uploader *upload.Uploader,
	store secrets.Interface, opts Options) *Scraper {
	if store == nil {
		store = secrets.Noop{}
	}

	return &Scraper{
		log:       logger.GetLogger("scrape"),
		db:        db,
		fetcher:   fetcher,
		harvester: harvester,
		uploader:  uploader,
		secrets:   store,
		opts:      opts,
	}
}

/* Public */

// Failed returns the results of providers that failed.
func (s Summary) Failed() []Result {
	failed := make([]Result, 0)
	for _, r := range s.Results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// ScrapeAll scrapes every target concurrently, then publishes the total icon count.
func (s *Scraper) ScrapeAll(ctx context.Context, targets []Target) Summary {
	summary := Summary{Results: make([]Result, len(targets))}

	debugDir := ""
	if s.opts.DebugDir != "" {
		debugDir = debugRunDir(s.opts.DebugDir, time.Now())
	}

	g := new(errgroup.Group)
	if s.opts.Concurrency > 0 {
		g.SetLimit(s.opts.Concurrency)
	}

	var mtx sync.Mutex
	for i, target := range targets {
		i, target := i, target

		g.Go(func() error {
			res := s.Scrape(ctx, target, debugDir)

			mtx.Lock()
			summary.Results[i] = res
			mtx.Unlock()

			// failures are reported in the summary, never abort the group
			return nil
		})
	}
	_ = g.Wait()

	// publish total
	total, err := s.db.TotalIcons(ctx)
	if err != nil {
		summary.Err = err
		return summary
	}
	summary.Total = total

	if s.opts.SecretName != "" {
		if err := secrets.SetInt(ctx, s.secrets, s.opts.SecretName, total); err != nil {
			summary.Err = err
			return summary
		}
	}

	s.log.WithFields(logrus.Fields{
		"providers": len(targets),
		"failed":    len(summary.Failed()),
		"total":     total,
	}).Info("Finished scraping")
	return summary
}

// Scrape runs one provider end to end under the scrape timeout.
func (s *Scraper) Scrape(ctx context.Context, target Target, debugDir string) Result {
	start := time.Now()
	log := s.log.WithField("provider", target.Key)

	res, err := timeout.Run(ctx, s.opts.ScrapeTimeout, "scrape "+string(target.Key),
		func(ctx context.Context) (Result, error) {
			return s.scrape(ctx, log, target, debugDir)
		})
	res.Provider = target.Key
	res.Duration = time.Since(start)
	res.Err = err

	if err != nil {
		log.WithError(err).Error("Failed scraping provider")
		return res
	}

	log.WithFields(logrus.Fields{
		"version":  res.Version,
		"icons":    res.Icons,
		"duration": res.Duration.Round(time.Millisecond),
	}).Info("Scraped provider")
	return res
}

/* Private */

func (s *Scraper) scrape(ctx context.Context, log *logrus.Entry, target Target, debugDir string) (Result, error) {
	res := Result{Provider: target.Key}

	p, err := provider.Get(target.Key, provider.Options{FileTimeout: s.opts.FileTimeout}, func(d *provider.Descriptor) {
		if target.GitURL != "" {
			d.GitURL = target.GitURL
		}
		if target.Branch != "" {
			d.Branch = target.Branch
		}
	})
	if err != nil {
		return res, err
	}
	d := p.Descriptor()

	filter, err := provider.NewFilter(target.Ignores)
	if err != nil {
		return res, err
	}

	// fetch
	dir, err := s.fetcher.Fetch(ctx, d.Repo())
	if err != nil {
		return res, err
	}

	revision, err := s.fetcher.Revision(ctx, dir)
	if err != nil {
		return res, err
	}
	res.Version = provider.NormalizeVersion(revision)
	src := d.Source(res.Version)

	// harvest
	icons, err := s.harvester.Harvest(ctx, dir, src)
	if err != nil {
		return res, err
	}

	kept, err := filter.Apply(icons)
	if err != nil {
		return res, err
	}
	if dropped := len(icons) - len(kept); dropped > 0 {
		log.WithField("ignored", dropped).Debug("Ignored icons")
	}

	// tag
	tagged, err := p.AddTags(ctx, dir, kept)
	if err != nil {
		return res, err
	}

	// upload
	row, err := s.uploader.Upload(ctx, d, tagged)
	if err != nil {
		return res, err
	}
	res.Icons = len(tagged)

	info := license.Detect(ctx, s.opts.FileTimeout, dir, src, d.License)
	if err := s.uploader.UploadLicense(ctx, row, info); err != nil {
		return res, err
	}

	if debugDir != "" {
		path, err := dumpIcons(debugDir, d.Key, tagged)
		if err != nil {
			// debug output never fails a scrape
			log.WithError(err).Warn("Failed writing debug dump")
		} else {
			log.WithField("path", path).Debug("Wrote debug dump")
		}
	}

	return res, nil
}
