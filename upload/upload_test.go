package upload

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/l3uddz/iconkit/database"
	"github.com/l3uddz/iconkit/harvest"
	"github.com/l3uddz/iconkit/license"
	"github.com/l3uddz/iconkit/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var heroIcons = provider.Descriptor{
	Key:      provider.HeroIcons,
	Name:     "Hero Icons",
	GitURL:   "https://github.com/tailwindlabs/heroicons.git",
	Branch:   "master",
	IconsDir: "optimized",
}

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.OpenInMemory(t.Name())
	require.NoError(t, err)
	t.Cleanup(db.Close)

	return db
}

func makeIcons(version string, n int) []provider.TaggedIcon {
	icons := make([]provider.TaggedIcon, 0, n)
	for i := 0; i < n; i++ {
		icons = append(icons, provider.TaggedIcon{
			ScrapedIcon: harvest.ScrapedIcon{
				Name:    fmt.Sprintf("icon-%03d", i),
				SVG:     "<svg></svg>",
				JSX:     "<svg></svg>",
				Version: version,
			},
			Tags: []string{"solid"},
		})
	}
	return icons
}

func TestNewRejectsInvalidBatchSize(t *testing.T) {
	_, err := New(newTestDB(t), Options{BatchSize: 0})
	assert.Error(t, err)
}

func TestUploadInsertsInBatches(t *testing.T) {
	db := newTestDB(t)
	u, err := New(db, Options{BatchSize: 3, Interval: time.Millisecond})
	require.NoError(t, err)

	p, err := u.Upload(context.Background(), heroIcons, makeIcons("v1", 10))
	require.NoError(t, err)
	assert.Equal(t, "Hero Icons", p.Name)

	count, err := db.CountIcons(context.Background(), p.ID, "v1")
	require.NoError(t, err)
	assert.EqualValues(t, 10, count)
}

func TestUploadSpacesBatches(t *testing.T) {
	db := newTestDB(t)
	u, err := New(db, Options{BatchSize: 2, Interval: 50 * time.Millisecond})
	require.NoError(t, err)

	// three batches, two intervals between them
	start := time.Now()
	_, err = u.Upload(context.Background(), heroIcons, makeIcons("v1", 6))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 95*time.Millisecond)
}

func TestUploadSpacesBatchesAcrossUploads(t *testing.T) {
	db := newTestDB(t)
	u, err := New(db, Options{BatchSize: 2, Interval: 50 * time.Millisecond})
	require.NoError(t, err)

	feather := heroIcons
	feather.Key = provider.FeatherIcons
	feather.Name = "Feather Icons"
	feather.GitURL = "https://github.com/feathericons/feather.git"

	// four batches share one limiter, three intervals between them
	start := time.Now()
	errs := make(chan error, 2)
	for _, d := range []provider.Descriptor{heroIcons, feather} {
		go func(d provider.Descriptor) {
			_, err := u.Upload(context.Background(), d, makeIcons("v1", 4))
			errs <- err
		}(d)
	}
	require.NoError(t, <-errs)
	require.NoError(t, <-errs)
	assert.GreaterOrEqual(t, time.Since(start), 145*time.Millisecond)
}

func TestUploadProductionRefusesExistingVersion(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	dev, err := New(db, Options{BatchSize: 1000})
	require.NoError(t, err)
	p, err := dev.Upload(ctx, heroIcons, makeIcons("v1", 4))
	require.NoError(t, err)

	prod, err := New(db, Options{BatchSize: 1000, Production: true})
	require.NoError(t, err)

	_, err = prod.Upload(ctx, heroIcons, makeIcons("v1", 7))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrVersionExists))

	// nothing was inserted or removed
	count, err := db.CountIcons(ctx, p.ID, "v1")
	require.NoError(t, err)
	assert.EqualValues(t, 4, count)

	// a new version is still accepted
	_, err = prod.Upload(ctx, heroIcons, makeIcons("v2", 2))
	require.NoError(t, err)
}

func TestUploadReplacesExistingVersionOutsideProduction(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	u, err := New(db, Options{BatchSize: 2})
	require.NoError(t, err)

	_, err = u.Upload(ctx, heroIcons, makeIcons("v1", 9))
	require.NoError(t, err)
	_, err = u.Upload(ctx, heroIcons, makeIcons("v0", 2))
	require.NoError(t, err)

	p, err := u.Upload(ctx, heroIcons, makeIcons("v1", 5))
	require.NoError(t, err)

	count, err := db.CountIcons(ctx, p.ID, "v1")
	require.NoError(t, err)
	assert.EqualValues(t, 5, count)

	// other versions are left alone
	count, err = db.CountIcons(ctx, p.ID, "v0")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestUploadEmptyResolvesProvider(t *testing.T) {
	db := newTestDB(t)
	u, err := New(db, Options{BatchSize: 10})
	require.NoError(t, err)

	p, err := u.Upload(context.Background(), heroIcons, nil)
	require.NoError(t, err)
	assert.NotZero(t, p.ID)

	total, err := db.TotalIcons(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestUploadStopsOnCancelledContext(t *testing.T) {
	db := newTestDB(t)
	u, err := New(db, Options{BatchSize: 1})
	require.NoError(t, err)

	p, err := db.GetOrCreateProvider(context.Background(), database.Provider{Name: heroIcons.Name, GitURL: heroIcons.GitURL})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = u.Upload(ctx, heroIcons, makeIcons("v1", 3))
	require.Error(t, err)

	count, err := db.CountIcons(context.Background(), p.ID, "v1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUploadLicense(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	u, err := New(db, Options{BatchSize: 10})
	require.NoError(t, err)

	p, err := u.Upload(ctx, heroIcons, makeIcons("v1", 1))
	require.NoError(t, err)

	require.NoError(t, u.UploadLicense(ctx, p, license.Info{Type: "ISC", URL: "https://example.com/a"}))
	require.NoError(t, u.UploadLicense(ctx, p, license.Info{Type: "MIT", URL: "https://example.com/LICENSE"}))

	licenses, err := db.ListLicenses(ctx)
	require.NoError(t, err)
	require.Len(t, licenses, 1)
	assert.Equal(t, "MIT", licenses[0].Type)
	assert.Equal(t, p.ID, licenses[0].ProviderID)
}
