package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := OpenInMemory(t.Name())
	require.NoError(t, err)
	t.Cleanup(db.Close)

	return db
}

func seedIcons(t *testing.T, db *DB, providerID uint, version string, icons ...Icon) {
	t.Helper()

	for i := range icons {
		icons[i].ProviderID = providerID
		icons[i].Version = version
		if icons[i].SVG == "" {
			icons[i].SVG = "<svg></svg>"
			icons[i].JSX = "<svg></svg>"
		}
	}

	require.NoError(t, db.InsertIcons(context.Background(), icons))
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open("mongodb", "whatever")
	assert.Error(t, err)
}

func TestGetOrCreateProviderIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	p := Provider{Name: "Hero Icons", GitURL: "https://github.com/tailwindlabs/heroicons.git", GitBranch: "master"}

	first, err := db.GetOrCreateProvider(ctx, p)
	require.NoError(t, err)
	assert.NotZero(t, first.ID)

	second, err := db.GetOrCreateProvider(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	providers, err := db.ListProviders(ctx)
	require.NoError(t, err)
	assert.Len(t, providers, 1)
}

func TestListProvidersOrderedByName(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"Lucide", "Feather Icons", "Remix Icon"} {
		_, err := db.GetOrCreateProvider(ctx, Provider{Name: name, GitURL: "https://example.com/" + name})
		require.NoError(t, err)
	}

	providers, err := db.ListProviders(ctx)
	require.NoError(t, err)
	require.Len(t, providers, 3)
	assert.Equal(t, "Feather Icons", providers[0].Name)
	assert.Equal(t, "Lucide", providers[1].Name)
	assert.Equal(t, "Remix Icon", providers[2].Name)
}

func TestTagsRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedIcons(t, db, 1, "v1",
		Icon{Name: "home", Tags: Tags{"house", "building"}},
		Icon{Name: "nothing"},
	)

	icons, err := db.ListIcons(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, icons, 2)

	assert.Equal(t, "home", icons[0].Name)
	assert.Equal(t, Tags{"house", "building"}, icons[0].Tags)
	assert.Equal(t, Tags{}, icons[1].Tags)
}

func TestCountAndDeleteIcons(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedIcons(t, db, 1, "v1", Icon{Name: "a"}, Icon{Name: "b"})
	seedIcons(t, db, 1, "v2", Icon{Name: "a"})
	seedIcons(t, db, 2, "v1", Icon{Name: "a"})

	count, err := db.CountIcons(ctx, 1, "v1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	deleted, err := db.DeleteIcons(ctx, 1, "v1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	total, err := db.TotalIcons(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestInsertIconsRejectsDuplicateVersionName(t *testing.T) {
	db := newTestDB(t)

	seedIcons(t, db, 1, "v1", Icon{Name: "a"})
	err := db.InsertIcons(context.Background(), []Icon{{Name: "a", ProviderID: 1, Version: "v1", SVG: "<svg/>", JSX: "<svg/>"}})
	assert.Error(t, err)
}

func TestListIconsPagesAreDisjoint(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	var icons []Icon
	for i := 0; i < 8; i++ {
		icons = append(icons, Icon{Name: fmt.Sprintf("icon-%02d", 7-i)})
	}
	seedIcons(t, db, 1, "v1", icons...)

	first, err := db.ListIcons(ctx, 0, 3)
	require.NoError(t, err)
	second, err := db.ListIcons(ctx, 3, 3)
	require.NoError(t, err)

	require.Len(t, first, 3)
	require.Len(t, second, 3)
	assert.Equal(t, "icon-00", first[0].Name)
	assert.Equal(t, "icon-03", second[0].Name)

	seen := map[string]bool{}
	for _, icon := range first {
		seen[icon.Name] = true
	}
	for _, icon := range second {
		assert.False(t, seen[icon.Name], "name %q on both pages", icon.Name)
	}
}

func TestSearchIconsMatchesNameOrTag(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedIcons(t, db, 1, "v1",
		Icon{Name: "HomeIcon", Tags: Tags{"house"}},
		Icon{Name: "building", Tags: Tags{"home", "office"}},
		Icon{Name: "garage", Tags: Tags{"homestead"}},
		Icon{Name: "car", Tags: Tags{"vehicle"}},
	)

	icons, err := db.SearchIcons(ctx, []string{"home"}, 0, 10)
	require.NoError(t, err)

	var names []string
	for _, icon := range icons {
		names = append(names, icon.Name)
	}
	assert.Equal(t, []string{"HomeIcon", "building"}, names)

	icons, err = db.SearchIcons(ctx, []string{"car", "office"}, 0, 10)
	require.NoError(t, err)
	require.Len(t, icons, 2)
	assert.Equal(t, "building", icons[0].Name)
	assert.Equal(t, "car", icons[1].Name)
}

func TestSearchIconsEscapesWildcards(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedIcons(t, db, 1, "v1", Icon{Name: "percent"}, Icon{Name: "100%"})

	icons, err := db.SearchIcons(ctx, []string{"%"}, 0, 10)
	require.NoError(t, err)
	require.Len(t, icons, 1)
	assert.Equal(t, "100%", icons[0].Name)
}

func TestUpsertLicense(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first, err := db.UpsertLicense(ctx, License{ProviderID: 3, Type: "MIT", URL: "https://a"})
	require.NoError(t, err)

	second, err := db.UpsertLicense(ctx, License{ProviderID: 3, Type: "ISC", URL: "https://b"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	licenses, err := db.ListLicenses(ctx)
	require.NoError(t, err)
	require.Len(t, licenses, 1)
	assert.Equal(t, "ISC", licenses[0].Type)
	assert.Equal(t, "https://b", licenses[0].URL)
}
