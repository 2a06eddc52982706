// Package uploads lists resume and interview artifacts from a local directory
// or an S3-compatible bucket.
package uploads

import (
	"context"
	"errors"
	"strings"

	"github.com/spigell/screener/internal/extract"
	"github.com/spigell/screener/internal/identity"
)

// Source lists artifacts in a stable order.
type Source interface {
	List(ctx context.Context) ([]identity.Artifact, error)
}

// Filter decides whether a file name belongs to a source.
type Filter func(name string) bool

// Resumes accepts supported resume documents.
func Resumes(name string) bool { return extract.IsResume(name) }

// Audio accepts supported interview recordings.
func Audio(name string) bool { return extract.IsAudio(name) }

const s3Scheme = "s3://"

// Open resolves a location into a Source. Locations starting with s3:// are
// read from the bucket described by cfg; anything else is a local directory.
// An empty location yields an empty source.
func Open(ctx context.Context, location string, filter Filter, cfg S3Config) (Source, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return empty{}, nil
	}

	if !strings.HasPrefix(location, s3Scheme) {
		return NewDir(location, filter), nil
	}

	bucket, prefix, _ := strings.Cut(strings.TrimPrefix(location, s3Scheme), "/")
	if bucket == "" {
		return nil, errors.New("s3 location must name a bucket")
	}

	client, err := NewS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return NewS3(client, bucket, prefix, filter), nil
}

type empty struct{}

func (empty) List(context.Context) ([]identity.Artifact, error) { return nil, nil }
