package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/alfredjeanlab/archscore/internal/library/postgres"
)

// ParseSource resolves a library location to a Source:
// "builtin", an s3://bucket/key URL, a postgres:// URL, or a file or
// directory path.
//
// Postgres sources hold an open connection; callers should Close them via
// CloseSource when done.
func ParseSource(ctx context.Context, location string, s3opts S3Options) (Source, error) {
	switch {
	case location == "" || location == BuiltinName:
		return BuiltinSource{}, nil
	case strings.HasPrefix(location, "s3://"):
		bucket, key, err := ParseLocation(location)
		if err != nil {
			return nil, err
		}
		return NewS3Source(ctx, bucket, key, s3opts.Region, s3opts.Endpoint)
	case isPostgresURL(location):
		src, err := postgres.New(location)
		if err != nil {
			return nil, fmt.Errorf("postgres library: %w", err)
		}
		return src, nil
	default:
		return FileSource{Path: location}, nil
	}
}

// ParsePublisher resolves a destination the same way ParseSource does.
// The builtin catalog cannot be written.
func ParsePublisher(ctx context.Context, location string, s3opts S3Options) (Publisher, error) {
	if location == "" || location == BuiltinName {
		return nil, fmt.Errorf("cannot publish to the builtin catalog")
	}
	src, err := ParseSource(ctx, location, s3opts)
	if err != nil {
		return nil, err
	}
	pub, ok := src.(Publisher)
	if !ok {
		return nil, fmt.Errorf("%s does not accept catalogs", src)
	}
	return pub, nil
}

// CloseSource releases resources held by src, if any.
func CloseSource(src any) error {
	if c, ok := src.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
