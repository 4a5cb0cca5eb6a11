// Package source reads artifact bytes from local files or S3.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Sentinel kinds for source errors.
var (
	ErrUnsupportedScheme = errors.New("unsupported artifact scheme")
	ErrRead              = errors.New("artifact read failed")
)

const s3Scheme = "s3://"

// Reader fetches the bytes at uri.
type Reader interface {
	Read(ctx context.Context, uri string) ([]byte, error)
}

// File reads local paths.
type File struct{}

// Read implements Reader.
func (File) Read(_ context.Context, uri string) ([]byte, error) {
	b, err := os.ReadFile(strings.TrimPrefix(uri, "file://"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	return b, nil
}

// Router dispatches by scheme: s3:// goes to S3, everything else to Local.
type Router struct {
	Local Reader
	S3    Reader
}

// Read implements Reader.
func (r Router) Read(ctx context.Context, uri string) ([]byte, error) {
	if IsS3(uri) {
		if r.S3 == nil {
			return nil, fmt.Errorf("%w: %s (no s3 client configured)", ErrUnsupportedScheme, uri)
		}
		return r.S3.Read(ctx, uri)
	}
	if i := strings.Index(uri, "://"); i >= 0 && !strings.HasPrefix(uri, "file://") {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, uri[:i])
	}
	local := r.Local
	if local == nil {
		local = File{}
	}
	return local.Read(ctx, uri)
}

// IsS3 reports whether uri uses the s3 scheme.
func IsS3(uri string) bool {
	return strings.HasPrefix(uri, s3Scheme)
}

// Resolve interprets ref relative to the location of base. Absolute paths and
// URIs are returned unchanged.
func Resolve(base, ref string) string {
	switch {
	case ref == "":
		return base
	case strings.Contains(ref, "://"), filepath.IsAbs(ref):
		return ref
	case IsS3(base):
		bucket, key, _ := SplitS3(base)
		return s3Scheme + bucket + "/" + path.Join(path.Dir(key), ref)
	default:
		return filepath.Join(filepath.Dir(strings.TrimPrefix(base, "file://")), ref)
	}
}

// SplitS3 parses s3://bucket/key.
func SplitS3(uri string) (bucket, key string, err error) {
	if !IsS3(uri) {
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedScheme, uri)
	}
	rest := strings.TrimPrefix(uri, s3Scheme)
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: malformed s3 uri %q", ErrRead, uri)
	}
	return bucket, key, nil
}
