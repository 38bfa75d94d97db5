package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/alfredjeanlab/archscore/internal/model"
)

// Source fetches a catalog document.
type Source interface {
	Fetch(ctx context.Context) (*model.Catalog, error)
	String() string
}

// Publisher writes a catalog document to a destination.
type Publisher interface {
	Publish(ctx context.Context, cat *model.Catalog) error
	String() string
}

// StaticSource serves a catalog held in memory.
type StaticSource struct {
	Catalog *model.Catalog
}

// Fetch returns the held catalog.
func (s StaticSource) Fetch(context.Context) (*model.Catalog, error) {
	if s.Catalog == nil {
		return nil, fmt.Errorf("static source: no catalog")
	}
	return s.Catalog, nil
}

func (StaticSource) String() string { return "static" }

// S3Options configures sources and publishers resolved to S3 URLs.
type S3Options struct {
	Region   string
	Endpoint string
}

// ParseLocation splits an s3://bucket/key URL.
func ParseLocation(raw string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(raw, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 url: %q", raw)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 url %q needs a bucket and key", raw)
	}
	return bucket, key, nil
}

func isPostgresURL(s string) bool {
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://")
}
