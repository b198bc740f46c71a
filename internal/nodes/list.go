package nodes

import (
	"context"
	"time"

	"github.com/yourorg/s3-image-nodes/internal/metrics"
	"github.com/yourorg/s3-image-nodes/internal/types"
)

const (
	defaultMaxObjects = 100
	maxMaxObjects     = 1000
)

// ListInput parameterizes one list run. MaxObjects outside 1-1000 is
// clamped; zero means the default of 100.
type ListInput struct {
	Profile    string
	Bucket     string
	Prefix     string
	MaxObjects int
}

// List enumerates objects under a prefix, recursively, up to a cap.
type List struct {
	env Env
}

func NewList(env Env) List { return List{env: env} }

func (List) ID() string          { return "ListS3Objects" }
func (List) DisplayName() string { return "List S3 Objects" }

func (n List) Run(ctx context.Context, in ListInput) (records []types.ObjectRecord, err error) {
	defer func() {
		if err != nil {
			metrics.OperationErrors.Inc()
		}
	}()

	if in.Bucket == "" {
		return nil, inputErrorf("bucket name is required")
	}
	max := in.MaxObjects
	if max <= 0 {
		max = defaultMaxObjects
	}
	if max > maxMaxObjects {
		max = maxMaxObjects
	}

	profile, err := n.env.Config.Profile(in.Profile)
	if err != nil {
		return nil, opError(err)
	}
	store, err := n.env.Open(profile)
	if err != nil {
		return nil, opError(err)
	}

	objects, err := store.ListObjects(ctx, in.Bucket, in.Prefix, max)
	if err != nil {
		return nil, opErrorf("list %s: %v", in.Bucket, err)
	}

	records = make([]types.ObjectRecord, 0, len(objects))
	for _, obj := range objects {
		rec := types.ObjectRecord{
			ObjectName: obj.Key,
			Size:       obj.Size,
			ETag:       obj.ETag,
		}
		if !obj.LastModified.IsZero() {
			s := obj.LastModified.Format(time.RFC3339)
			rec.LastModified = &s
		}
		records = append(records, rec)
	}
	metrics.ObjectsListed.Add(float64(len(records)))
	return records, nil
}
