package nodes

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/yourorg/s3-image-nodes/internal/imaging"
	"github.com/yourorg/s3-image-nodes/internal/metrics"
)

// LoadInput parameterizes one load run.
type LoadInput struct {
	Profile   string
	Bucket    string
	ObjectKey string
}

// LoadOutput is a decoded image, its inverted-alpha mask, and any PNG
// text metadata the object carried.
type LoadOutput struct {
	Image imaging.Image
	Mask  imaging.Mask
	Text  map[string]string
}

// Load downloads one object and decodes it into the host representation.
type Load struct {
	env Env
}

func NewLoad(env Env) Load { return Load{env: env} }

func (Load) ID() string          { return "LoadImageFromS3" }
func (Load) DisplayName() string { return "Load Image from S3" }

func (n Load) Run(ctx context.Context, in LoadInput) (out LoadOutput, err error) {
	defer func() {
		if err != nil {
			metrics.OperationErrors.Inc()
		}
	}()

	if in.Bucket == "" || in.ObjectKey == "" {
		return LoadOutput{}, inputErrorf("bucket and object key are required")
	}
	profile, err := n.env.Config.Profile(in.Profile)
	if err != nil {
		return LoadOutput{}, opError(err)
	}
	store, err := n.env.Open(profile)
	if err != nil {
		return LoadOutput{}, opError(err)
	}

	rc, err := store.GetObject(ctx, in.Bucket, in.ObjectKey)
	if err != nil {
		return LoadOutput{}, opErrorf("download %s/%s: %v", in.Bucket, in.ObjectKey, err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return LoadOutput{}, opErrorf("download %s/%s: %v", in.Bucket, in.ObjectKey, err)
	}

	img, mask, text, err := imaging.Decode(data)
	if err != nil {
		return LoadOutput{}, opErrorf("%s/%s: %v", in.Bucket, in.ObjectKey, err)
	}
	metrics.ImagesLoaded.Inc()
	n.env.Log.Debug("image loaded",
		zap.String("bucket", in.Bucket),
		zap.String("key", in.ObjectKey),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height))
	return LoadOutput{Image: img, Mask: mask, Text: text}, nil
}
