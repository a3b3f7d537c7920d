package search

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/l3uddz/iconkit/database"
	"github.com/l3uddz/iconkit/logger"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const defaultCacheSize = 64

/* Struct */

// Query is a page of the icon search.
type Query struct {
	Skip       int `validate:"gte=0"`
	Limit      int `validate:"gte=1,lte=100"`
	SearchText string
	Preset     string `validate:"omitempty,preset"`
}

type Options struct {
	Preset    string
	CacheTTL  time.Duration
	CacheSize int
}

// Service answers icon searches from the database.
type Service struct {
	log      *logrus.Entry
	db       *database.DB
	preset   string
	cacheTTL time.Duration

	cache   *lru.Cache[int, *cacheEntry]
	cacheMu sync.Mutex
}

type cacheEntry struct {
	icons     []database.Icon
	expiresAt time.Time
}

/* Initializer */

func NewService(db *database.DB, opts Options) (*Service, error) {
	preset := opts.Preset
	if preset == "" {
		preset = PresetDefault
	}
	if _, err := GetWeights(preset); err != nil {
		return nil, err
	}

	size := opts.CacheSize
	if size < 1 {
		size = defaultCacheSize
	}

	cache, err := lru.New[int, *cacheEntry](size)
	if err != nil {
		return nil, errors.Wrap(err, "failed creating default page cache")
	}

	return &Service{
		log:      logger.GetLogger("search"),
		db:       db,
		preset:   preset,
		cacheTTL: opts.CacheTTL,
		cache:    cache,
	}, nil
}

/* Public */

// GetIcons returns one page of icons. An empty search is ordered by name; otherwise the page
// of name or tag matches is re-ranked by relevance.
func (s *Service) GetIcons(ctx context.Context, q Query) ([]database.Icon, error) {
	preset := q.Preset
	if preset == "" {
		preset = s.preset
	}

	weights, err := GetWeights(preset)
	if err != nil {
		return nil, err
	}

	terms := ParseSearchTerms(q.SearchText)
	if len(terms) == 0 {
		return s.defaultPage(ctx, q.Skip, q.Limit)
	}

	icons, err := s.db.SearchIcons(ctx, terms, q.Skip, q.Limit)
	if err != nil {
		return nil, err
	}

	ranked := Rank(icons, terms, weights)
	out := make([]database.Icon, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.Icon)
	}

	s.log.WithFields(logrus.Fields{
		"terms":  terms,
		"preset": preset,
		"skip":   q.Skip,
		"limit":  q.Limit,
		"icons":  len(out),
	}).Trace("Searched icons")
	return out, nil
}

// Purge drops cached pages, serve calls it on SIGHUP after a scrape.
func (s *Service) Purge() {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	s.cache.Purge()
}

/* Private */

func (s *Service) defaultPage(ctx context.Context, skip int, limit int) ([]database.Icon, error) {
	// only the first page is cached
	if skip != 0 || s.cacheTTL <= 0 {
		return s.db.ListIcons(ctx, skip, limit)
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	if entry, ok := s.cache.Get(limit); ok {
		if time.Now().Before(entry.expiresAt) {
			return append([]database.Icon(nil), entry.icons...), nil
		}
		s.cache.Remove(limit)
	}

	icons, err := s.db.ListIcons(ctx, 0, limit)
	if err != nil {
		return nil, err
	}

	s.cache.Add(limit, &cacheEntry{
		icons:     icons,
		expiresAt: time.Now().Add(s.cacheTTL),
	})
	return append([]database.Icon(nil), icons...), nil
}
