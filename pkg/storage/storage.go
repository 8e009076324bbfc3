// Package storage writes rendered charts to their destination: a local
// directory or an S3 bucket.
//
// [Open] picks the backend from an output location:
//
//	store, err := storage.Open(ctx, "s3://charts/2021/", storage.S3Config{Region: "eu-central-1"})
//	loc, err := store.Put(ctx, "virginia-beach.svg", data, "image/svg+xml")
package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/starchart/pkg/errors"
)

// Store persists named artifacts.
type Store interface {
	// Put writes data under name and returns where it ended up.
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)
	// Location describes the destination for log output.
	Location() string
}

// Open returns the store for target. An "s3://bucket/prefix" target selects
// S3; anything else is a local directory (empty means the working directory).
func Open(ctx context.Context, target string, cfg S3Config) (Store, error) {
	if rest, ok := strings.CutPrefix(target, "s3://"); ok {
		bucket, prefix, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return nil, errors.New(errors.ErrCodeInvalidPath, "s3 target %q has no bucket", target)
		}
		cfg.Bucket = bucket
		cfg.Prefix = prefix
		return NewS3Store(ctx, cfg)
	}
	if target == "" {
		target = "."
	}
	return NewLocalStore(target)
}

// LocalStore writes artifacts into a directory.
type LocalStore struct {
	dir string
}

// NewLocalStore creates dir if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create output directory %s", dir)
	}
	return &LocalStore{dir: dir}, nil
}

// Location returns the directory.
func (s *LocalStore) Location() string { return s.dir }

// Put writes data to dir/name atomically.
func (s *LocalStore) Put(_ context.Context, name string, data []byte, _ string) (string, error) {
	if err := errors.ValidatePath(name); err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "create %s", filepath.Dir(path))
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".starchart-*")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "write %s", path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", errors.Wrap(errors.ErrCodeStorage, err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "write %s", path)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "write %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "write %s", path)
	}
	return path, nil
}
