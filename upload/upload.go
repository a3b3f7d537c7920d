package upload

import (
	"context"
	"sync"
	"time"

	"github.com/l3uddz/iconkit/database"
	"github.com/l3uddz/iconkit/license"
	"github.com/l3uddz/iconkit/logger"
	"github.com/l3uddz/iconkit/provider"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
)

// ErrVersionExists is returned in production when a provider version was already uploaded.
var ErrVersionExists = errors.New("version already uploaded")

/* Struct */

type Options struct {
	BatchSize  int
	Interval   time.Duration
	Production bool
}

// Uploader writes tagged icons to the database one rate limited batch at a time.
type Uploader struct {
	log        *logrus.Entry
	db         *database.DB
	limiter    ratelimit.Limiter
	batchSize  int
	production bool

	// at most one batch in flight across every provider
	mtx sync.Mutex
}

/* Initializer */

func New(db *database.DB, opts Options) (*Uploader, error) {
	if opts.BatchSize < 1 {
		return nil, errors.Errorf("invalid upload batch size: %d", opts.BatchSize)
	}

	limiter := ratelimit.NewUnlimited()
	if opts.Interval > 0 {
		limiter = ratelimit.New(1, ratelimit.Per(opts.Interval), ratelimit.WithoutSlack)
	}

	return &Uploader{
		log:        logger.GetLogger("upload"),
		db:         db,
		limiter:    limiter,
		batchSize:  opts.BatchSize,
		production: opts.Production,
	}, nil
}

/* Public */

// Upload resolves the provider row and replaces its icons for every version present in icons.
// In production an already uploaded version fails with ErrVersionExists before anything is written.
func (u *Uploader) Upload(ctx context.Context, d provider.Descriptor, icons []provider.TaggedIcon) (*database.Provider, error) {
	log := u.log.WithField("provider", d.Key)

	p, err := u.db.GetOrCreateProvider(ctx, database.Provider{
		Name:        d.Name,
		GitURL:      d.GitURL,
		GitBranch:   d.Branch,
		GitIconsDir: d.IconsDir,
	})
	if err != nil {
		return nil, err
	}

	if len(icons) == 0 {
		log.Warn("No icons to upload")
		return p, nil
	}

	versions := distinctVersions(icons)

	// check all versions before mutating any
	if u.production {
		for _, version := range versions {
			count, err := u.db.CountIcons(ctx, p.ID, version)
			if err != nil {
				return nil, err
			}

			if count > 0 {
				return nil, errors.Wrapf(ErrVersionExists, "%s %s has %d icons, refusing to overwrite in production",
					d.Name, version, count)
			}
		}
	} else {
		for _, version := range versions {
			deleted, err := u.db.DeleteIcons(ctx, p.ID, version)
			if err != nil {
				return nil, err
			}

			if deleted > 0 {
				log.WithFields(logrus.Fields{
					"version": version,
					"deleted": deleted,
				}).Info("Removed previously uploaded icons")
			}
		}
	}

	// insert batches
	rows := toRows(p.ID, icons)
	batches := 0
	for start := 0; start < len(rows); start += u.batchSize {
		end := start + u.batchSize
		if end > len(rows) {
			end = len(rows)
		}

		if err := u.insertBatch(ctx, rows[start:end]); err != nil {
			return nil, errors.WithMessagef(err, "failed uploading batch %d of %s", batches+1, d.Name)
		}
		batches++

		log.WithFields(logrus.Fields{
			"batch": batches,
			"icons": end - start,
		}).Trace("Uploaded batch")
	}

	log.WithFields(logrus.Fields{
		"icons":    len(rows),
		"batches":  batches,
		"versions": versions,
	}).Info("Uploaded icons")
	return p, nil
}

// UploadLicense upserts the license of an uploaded provider.
func (u *Uploader) UploadLicense(ctx context.Context, p *database.Provider, info license.Info) error {
	if _, err := u.db.UpsertLicense(ctx, database.License{
		ProviderID: p.ID,
		Type:       info.Type,
		URL:        info.URL,
	}); err != nil {
		return err
	}

	u.log.WithFields(logrus.Fields{
		"provider": p.Name,
		"license":  info.Type,
	}).Debug("Uploaded license")
	return nil
}

/* Private */

func (u *Uploader) insertBatch(ctx context.Context, rows []database.Icon) error {
	u.mtx.Lock()
	defer u.mtx.Unlock()

	u.limiter.Take()
	if err := ctx.Err(); err != nil {
		return err
	}

	return u.db.InsertIcons(ctx, rows)
}

func distinctVersions(icons []provider.TaggedIcon) []string {
	seen := make(map[string]struct{})
	versions := make([]string, 0, 1)

	for _, icon := range icons {
		if _, ok := seen[icon.Version]; ok {
			continue
		}
		seen[icon.Version] = struct{}{}
		versions = append(versions, icon.Version)
	}

	return versions
}

func toRows(providerID uint, icons []provider.TaggedIcon) []database.Icon {
	rows := make([]database.Icon, 0, len(icons))
	for _, icon := range icons {
		rows = append(rows, database.Icon{
			Name:       icon.Name,
			SVG:        icon.SVG,
			JSX:        icon.JSX,
			SourceURL:  icon.SourceURL,
			Version:    icon.Version,
			ProviderID: providerID,
			Tags:       database.Tags(icon.Tags),
		})
	}
	return rows
}
