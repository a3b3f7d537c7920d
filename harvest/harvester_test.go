package harvest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeIcon(t *testing.T, root string, rel string, content string) {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestSourceURL(t *testing.T) {
	assert.Equal(t,
		"https://github.com/lucide-icons/lucide/blob/main/icons/home.svg",
		SourceURL("https://github.com/lucide-icons/lucide.git", "main", "icons/home.svg"))
	assert.Equal(t,
		"https://github.com/a/b/blob/v1/x.svg",
		SourceURL("https://github.com/a/b/", "v1", "/x.svg"))
}

func TestHarvest(t *testing.T) {
	repo := t.TempDir()
	writeIcon(t, repo, "icons/home.svg", `<svg viewBox="0 0 24 24" stroke-width="2"><path d="M1 1"/></svg>`)
	writeIcon(t, repo, "icons/nested/star.svg", `<svg><!-- star --><path d="M2 2"/></svg>`)
	writeIcon(t, repo, "icons/readme.md", `not an icon`)
	writeIcon(t, repo, "other/ignored.svg", `<svg/>`)

	h := New(time.Second)
	icons, err := h.Harvest(context.Background(), repo, Source{
		URL:      "https://github.com/acme/icons.git",
		Branch:   "main",
		IconsDir: "icons",
		Version:  "v1",
	})
	require.NoError(t, err)
	require.Len(t, icons, 2)

	assert.Equal(t, "home", icons[0].Name)
	assert.Equal(t, "icons/home.svg", icons[0].Path)
	assert.Equal(t, `<svg viewBox='0 0 24 24' stroke-width='2'><path d='M1 1'/></svg>`, icons[0].SVG)
	assert.Equal(t, `<svg viewBox='0 0 24 24' strokeWidth='2'><path d='M1 1' /></svg>`, icons[0].JSX)
	assert.Equal(t, "https://github.com/acme/icons/blob/main/icons/home.svg", icons[0].SourceURL)
	assert.Equal(t, "v1", icons[0].Version)

	assert.Equal(t, "star", icons[1].Name)
	assert.NotContains(t, icons[1].SVG, "<!--")
}

func TestHarvestDisambiguatesDuplicateNames(t *testing.T) {
	repo := t.TempDir()
	writeIcon(t, repo, "optimized/24/solid/home.svg", `<svg></svg>`)
	writeIcon(t, repo, "optimized/24/outline/home.svg", `<svg></svg>`)
	writeIcon(t, repo, "optimized/24/outline/star.svg", `<svg></svg>`)

	icons, err := New(time.Second).Harvest(context.Background(), repo, Source{
		URL: "https://github.com/tailwindlabs/heroicons.git", Branch: "master", IconsDir: "optimized",
	})
	require.NoError(t, err)
	require.Len(t, icons, 3)

	var names []string
	for _, icon := range icons {
		names = append(names, icon.Name)
	}
	assert.ElementsMatch(t, []string{"24-outline-home", "24-solid-home", "star"}, names)
}

func TestHarvestFailsOnMalformedIcon(t *testing.T) {
	repo := t.TempDir()
	writeIcon(t, repo, "icons/good.svg", `<svg></svg>`)
	writeIcon(t, repo, "icons/bad.svg", `<svg><g></svg>`)

	_, err := New(time.Second).Harvest(context.Background(), repo, Source{IconsDir: "icons"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "icons/bad.svg")
}

func TestHarvestMissingDirectory(t *testing.T) {
	_, err := New(time.Second).Harvest(context.Background(), t.TempDir(), Source{IconsDir: "nope"})
	assert.Error(t, err)
}
