package nodes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yourorg/s3-image-nodes/internal/imaging"
	"github.com/yourorg/s3-image-nodes/internal/metrics"
	"github.com/yourorg/s3-image-nodes/internal/storage"
	"github.com/yourorg/s3-image-nodes/internal/types"
)

const (
	defaultFilenamePrefix = "image"
	saveTimestampLayout   = "20060102_150405"
)

// timeNow is swapped out in tests for deterministic object keys.
var timeNow = time.Now

// SaveInput parameterizes one save run.
type SaveInput struct {
	Images         []imaging.Image
	Profile        string
	Bucket         string
	Prefix         string // object key prefix; empty keeps objects at the bucket root
	FilenamePrefix string // default "image"
	CustomRegion   string // overrides the profile region when set
	// Metadata values are JSON-encoded into PNG tEXt chunks, one chunk
	// per key (prompt, workflow info).
	Metadata map[string]any
}

// Save uploads PNG-encoded images to a bucket, creating the bucket on
// first use.
type Save struct {
	env Env
}

func NewSave(env Env) Save { return Save{env: env} }

func (Save) ID() string          { return "SaveImageToS3" }
func (Save) DisplayName() string { return "Save Image to S3" }

// Run encodes and uploads every image, returning one record per image.
// Any failure aborts the rest of the batch.
func (n Save) Run(ctx context.Context, in SaveInput) (results []types.SaveResult, err error) {
	defer func() {
		if err != nil {
			metrics.OperationErrors.Inc()
		}
	}()

	if in.Bucket == "" {
		return nil, inputErrorf("bucket name is required")
	}
	if len(in.Images) == 0 {
		return nil, inputErrorf("at least one image is required")
	}
	profile, err := n.env.Config.Profile(in.Profile)
	if err != nil {
		return nil, opError(err)
	}
	store, err := n.env.Open(profile)
	if err != nil {
		return nil, opError(err)
	}

	region := in.CustomRegion
	if region == "" {
		region = profile.Region
	}
	if region == "" {
		region = "us-east-1"
	}

	exists, err := store.BucketExists(ctx, in.Bucket)
	if err != nil {
		return nil, opErrorf("check bucket %q: %v", in.Bucket, err)
	}
	if !exists {
		if err := store.MakeBucket(ctx, in.Bucket, region); err != nil {
			return nil, opErrorf("create bucket %q in %s: %v", in.Bucket, region, err)
		}
		n.env.Log.Info("bucket created", zap.String("bucket", in.Bucket), zap.String("region", region))
	}

	meta, err := encodeMetadata(in.Metadata)
	if err != nil {
		return nil, opError(err)
	}

	filenamePrefix := in.FilenamePrefix
	if filenamePrefix == "" {
		filenamePrefix = defaultFilenamePrefix
	}
	timestamp := timeNow().Format(saveTimestampLayout)

	for i, img := range in.Images {
		data, encErr := imaging.EncodePNG(img, meta)
		if encErr != nil {
			return nil, opErrorf("image %d: %v", i, encErr)
		}
		filename := fmt.Sprintf("%s_%s_%04d.png", filenamePrefix, timestamp, i)
		key := objectKey(in.Prefix, filename)
		if putErr := store.PutObject(ctx, in.Bucket, key, bytes.NewReader(data), int64(len(data)), "image/png"); putErr != nil {
			return nil, opErrorf("upload %s: %v", key, putErr)
		}
		metrics.ImagesSaved.Inc()
		results = append(results, types.SaveResult{
			Filename:    filename,
			ObjectKey:   key,
			URL:         storage.ObjectURL(profile, in.Bucket, key),
			Bucket:      in.Bucket,
			Profile:     in.Profile,
			Timestamp:   timestamp,
			BatchNumber: i,
		})
		n.env.Log.Debug("image uploaded",
			zap.String("bucket", in.Bucket),
			zap.String("key", key),
			zap.Int("bytes", len(data)))
	}
	return results, nil
}

// encodeMetadata JSON-encodes each metadata value into text-chunk form.
func encodeMetadata(meta map[string]any) (map[string]string, error) {
	if len(meta) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("metadata %q: %w", k, err)
		}
		out[k] = string(b)
	}
	return out, nil
}

// objectKey joins prefix and filename; an empty prefix yields a bare
// filename rather than a key with a leading slash.
func objectKey(prefix, filename string) string {
	trimmed := strings.TrimRight(prefix, "/")
	if trimmed == "" {
		return filename
	}
	return trimmed + "/" + filename
}
