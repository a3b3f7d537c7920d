package provider

import (
	"context"

	"github.com/l3uddz/iconkit/harvest"
)

type Interface interface {
	Descriptor() Descriptor
	AddTags(ctx context.Context, repoDir string, icons []harvest.ScrapedIcon) ([]TaggedIcon, error)
}
