package storage

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/yourorg/s3-image-nodes/internal/config"
)

// ObjectInfo describes one listed object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
	ETag         string
}

// ObjectStore defines the storage-protocol operations the nodes need.
type ObjectStore interface {
	// BucketExists reports whether the bucket exists.
	BucketExists(ctx context.Context, bucket string) (bool, error)
	// MakeBucket creates the bucket in the given region.
	MakeBucket(ctx context.Context, bucket, region string) error
	// PutObject uploads size bytes from r under bucket/key.
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error
	// GetObject returns a reader for bucket/key.
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	// ListObjects lists up to max objects under prefix, recursively.
	ListObjects(ctx context.Context, bucket, prefix string, max int) ([]ObjectInfo, error)
}

// NormalizeEndpoint strips an http/https scheme from endpoint. A scheme, if
// present, decides transport security; otherwise the profile's secure flag
// stands.
func NormalizeEndpoint(endpoint string, secure bool) (string, bool) {
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		return strings.TrimPrefix(endpoint, "https://"), true
	case strings.HasPrefix(endpoint, "http://"):
		return strings.TrimPrefix(endpoint, "http://"), false
	default:
		return endpoint, secure
	}
}

// ObjectURL builds the public-style URL for an uploaded object, matching
// the endpoint's scheme when it carries one.
func ObjectURL(p config.Profile, bucket, key string) string {
	if strings.HasPrefix(p.Endpoint, "http://") || strings.HasPrefix(p.Endpoint, "https://") {
		return p.Endpoint + "/" + bucket + "/" + key
	}
	proto := "https"
	if !p.Secure {
		proto = "http"
	}
	return proto + "://" + p.Endpoint + "/" + bucket + "/" + key
}
