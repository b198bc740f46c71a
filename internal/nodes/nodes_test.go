package nodes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/yourorg/s3-image-nodes/internal/config"
	"github.com/yourorg/s3-image-nodes/internal/storage"
)

// fakeStore is an in-memory ObjectStore for node tests.
type fakeStore struct {
	buckets    map[string]string // bucket -> region it was created in
	objects    map[string][]byte // "bucket/key" -> body
	listing    []storage.ObjectInfo
	existsErr  error
	makeErr    error
	putErr     error
	getErr     error
	listErr    error
	lastPrefix string
	lastMax    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{buckets: map[string]string{}, objects: map[string][]byte{}}
}

func (f *fakeStore) BucketExists(_ context.Context, bucket string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.buckets[bucket]
	return ok, nil
}

func (f *fakeStore) MakeBucket(_ context.Context, bucket, region string) error {
	if f.makeErr != nil {
		return f.makeErr
	}
	f.buckets[bucket] = region
	return nil
}

func (f *fakeStore) PutObject(_ context.Context, bucket, key string, r io.Reader, size int64, contentType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[bucket+"/"+key] = b
	return nil
}

func (f *fakeStore) GetObject(_ context.Context, bucket, key string) (io.ReadCloser, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	b, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, errors.New("key does not exist")
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (f *fakeStore) ListObjects(_ context.Context, bucket, prefix string, max int) ([]storage.ObjectInfo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.lastPrefix, f.lastMax = prefix, max
	if len(f.listing) > max {
		return f.listing[:max], nil
	}
	return f.listing, nil
}

// testEnv writes a config file with one usable profile and wires the fake
// store in place of the minio client.
func testEnv(t *testing.T, store *fakeStore) Env {
	t.Helper()
	path := filepath.Join(t.TempDir(), "s3_config.json")
	f := config.File{
		Profiles: map[string]config.Profile{
			"test": {
				Name:      "Test",
				Endpoint:  "localhost:9000",
				AccessKey: "minioadmin",
				SecretKey: "minioadmin",
				Secure:    false,
				Region:    "us-east-1",
			},
		},
		DefaultProfile: "test",
	}
	b, err := json.Marshal(f)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatal(err)
	}
	env := NewEnv(&config.Store{Path: path}, nil)
	env.Open = func(config.Profile) (storage.ObjectStore, error) { return store, nil }
	return env
}

func TestRegistry(t *testing.T) {
	env := testEnv(t, newFakeStore())
	reg := Registry(env)
	want := map[string]string{
		"SaveImageToS3":   "Save Image to S3",
		"LoadImageFromS3": "Load Image from S3",
		"ListS3Objects":   "List S3 Objects",
		"S3ConfigInfo":    "S3 Config Info",
	}
	if len(reg) != len(want) {
		t.Fatalf("registry has %d nodes; want %d", len(reg), len(want))
	}
	labels := DisplayNames(env)
	for id, label := range want {
		n, ok := reg[id]
		if !ok {
			t.Fatalf("missing node %q", id)
		}
		if n.DisplayName() != label {
			t.Fatalf("node %q label=%q; want %q", id, n.DisplayName(), label)
		}
		if labels[id] != label {
			t.Fatalf("labels[%q]=%q; want %q", id, labels[id], label)
		}
	}
}
