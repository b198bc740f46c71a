package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yourorg/s3-image-nodes/internal/config"
)

// Client wraps a minio client built from one validated profile.
type Client struct {
	mc *minio.Client
}

// New builds an ObjectStore from a validated profile. The endpoint is
// normalized first so "https://host" and "host"+secure behave the same.
func New(p config.Profile) (*Client, error) {
	endpoint, secure := NormalizeEndpoint(p.Endpoint, p.Secure)
	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(p.AccessKey, p.SecretKey, ""),
		Secure: secure,
		Region: p.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("storage client for %s: %w", endpoint, err)
	}
	return &Client{mc: mc}, nil
}

func (c *Client) BucketExists(ctx context.Context, bucket string) (bool, error) {
	return c.mc.BucketExists(ctx, bucket)
}

func (c *Client) MakeBucket(ctx context.Context, bucket, region string) error {
	return c.mc.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region})
}

func (c *Client) PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error {
	_, err := c.mc.PutObject(ctx, bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	return err
}

func (c *Client) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := c.mc.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	// GetObject is lazy; a missing key only surfaces on first read. Stat
	// here so callers get the error from the call that opened the object.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, err
	}
	return obj, nil
}

func (c *Client) ListObjects(ctx context.Context, bucket, prefix string, max int) ([]ObjectInfo, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var out []ObjectInfo
	for obj := range c.mc.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if len(out) >= max {
			break
		}
		out = append(out, ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
			ETag:         obj.ETag,
		})
	}
	return out, nil
}
