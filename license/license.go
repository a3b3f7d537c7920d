package license

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/l3uddz/iconkit/harvest"
	"github.com/l3uddz/iconkit/logger"
	"github.com/l3uddz/iconkit/utils/timeout"
	"github.com/sirupsen/logrus"
)

const Unknown = "UNKNOWN"

var (
	log = logger.GetLogger("license")

	filePrefixes = []string{"license", "licence", "copying"}

	// checked in order, the first rule with a matching marker wins
	rules = []rule{
		{Type: "CC0-1.0", Markers: []string{"cc0 1.0 universal", "creative commons zero"}},
		{Type: "CC-BY-4.0", Markers: []string{"attribution 4.0 international", "cc by 4.0"}},
		{Type: "Apache-2.0", Markers: []string{"apache license, version 2.0", "version 2.0, january 2004"}},
		{Type: "GPL-3.0", Markers: []string{"version 3, 29 june 2007"}},
		{Type: "OFL-1.1", Markers: []string{"sil open font license", "ofl-1.1"}},
		{Type: "ISC", Markers: []string{"isc license", "permission to use, copy, modify, and/or distribute"}},
		{Type: "MIT", Markers: []string{"mit license", "permission is hereby granted, free of charge"}},
		{Type: "BSD", Markers: []string{"redistribution and use in source and binary forms"}},
	}
)

/* Struct */

// Info describes the license of an icon library.
type Info struct {
	Type string
	URL  string
	// repository-relative license file, empty when none was found
	File string
}

type rule struct {
	Type    string
	Markers []string
}

/* Public */

// Detect classifies the license file at the root of repoDir. When no file exists or its
// text is not recognised, the declared license is used and the URL points at the repository.
func Detect(ctx context.Context, fileTimeout time.Duration, repoDir string, src harvest.Source, declared string) Info {
	info := Info{
		Type: declared,
		URL:  strings.TrimSuffix(strings.TrimRight(src.URL, "/"), ".git"),
	}
	if info.Type == "" {
		info.Type = Unknown
	}

	file, err := findFile(repoDir)
	if err != nil {
		log.WithError(err).WithField("repo", repoDir).Warn("Failed listing repository root for a license file")
		return info
	}
	if file == "" {
		log.WithField("repo", repoDir).Debug("No license file found, using declared license")
		return info
	}

	info.File = file
	info.URL = harvest.SourceURL(src.URL, src.Branch, file)

	data, err := timeout.Run(ctx, fileTimeout, "read "+file, func(ctx context.Context) ([]byte, error) {
		return os.ReadFile(filepath.Join(repoDir, file))
	})
	if err != nil {
		log.WithError(err).WithField("file", file).Warn("Failed reading license file, using declared license")
		return info
	}

	if detected := Classify(string(data)); detected != "" {
		if declared != "" && detected != declared {
			log.WithFields(logrus.Fields{
				"declared": declared,
				"detected": detected,
			}).Debug("License file differs from declared license")
		}
		info.Type = detected
	}

	return info
}

// Classify returns the SPDX-style identifier of a license text, or an empty string.
func Classify(text string) string {
	lower := strings.ToLower(strings.ReplaceAll(text, "\r\n", "\n"))

	for _, r := range rules {
		for _, marker := range r.Markers {
			if strings.Contains(lower, marker) {
				return r.Type
			}
		}
	}

	return ""
}

/* Private */

// findFile returns the shortest license-like file name in dir, so LICENSE wins over LICENSE-FONTS.
func findFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var candidates []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		name := strings.ToLower(e.Name())
		for _, prefix := range filePrefixes {
			if strings.HasPrefix(name, prefix) {
				candidates = append(candidates, e.Name())
				break
			}
		}
	}

	if len(candidates) == 0 {
		return "", nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		if len(candidates[i]) != len(candidates[j]) {
			return len(candidates[i]) < len(candidates[j])
		}
		return candidates[i] < candidates[j]
	})

	return candidates[0], nil
}
