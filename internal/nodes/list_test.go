package nodes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/yourorg/s3-image-nodes/internal/storage"
)

func listingOf(n int) []storage.ObjectInfo {
	base := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	out := make([]storage.ObjectInfo, n)
	for i := range out {
		out[i] = storage.ObjectInfo{
			Key:          fmt.Sprintf("comfyui/image_%04d.png", i),
			Size:         int64(1000 + i),
			LastModified: base.Add(time.Duration(i) * time.Minute),
			ETag:         fmt.Sprintf("etag-%d", i),
		}
	}
	return out
}

func TestListCapped(t *testing.T) {
	store := newFakeStore()
	store.listing = listingOf(250)
	env := testEnv(t, store)
	n := NewList(env)

	records, err := n.Run(context.Background(), ListInput{Profile: "test", Bucket: "b", MaxObjects: 10})
	if err != nil {
		t.Fatalf("Run err: %v", err)
	}
	if len(records) != 10 {
		t.Fatalf("got %d records; want 10", len(records))
	}

	// Zero means the default cap of 100.
	records, err = n.Run(context.Background(), ListInput{Profile: "test", Bucket: "b"})
	if err != nil {
		t.Fatalf("Run err: %v", err)
	}
	if len(records) != 100 {
		t.Fatalf("got %d records; want 100", len(records))
	}

	// Out-of-range caps are clamped.
	if _, err := n.Run(context.Background(), ListInput{Profile: "test", Bucket: "b", MaxObjects: 5000}); err != nil {
		t.Fatalf("Run err: %v", err)
	}
	if store.lastMax != 1000 {
		t.Fatalf("max passed to store=%d; want 1000", store.lastMax)
	}
}

func TestListRecords(t *testing.T) {
	store := newFakeStore()
	store.listing = listingOf(2)
	store.listing[1].LastModified = time.Time{}
	env := testEnv(t, store)

	records, err := NewList(env).Run(context.Background(), ListInput{Profile: "test", Bucket: "b", Prefix: "comfyui/"})
	if err != nil {
		t.Fatalf("Run err: %v", err)
	}
	if store.lastPrefix != "comfyui/" {
		t.Fatalf("prefix passed=%q", store.lastPrefix)
	}
	r := records[0]
	if r.ObjectName != "comfyui/image_0000.png" || r.Size != 1000 || r.ETag != "etag-0" {
		t.Fatalf("record: %+v", r)
	}
	if r.LastModified == nil || *r.LastModified != "2026-08-24T12:00:00Z" {
		t.Fatalf("last_modified=%v", r.LastModified)
	}
	// Unknown mtime serializes as null.
	b, err := json.Marshal(records[1])
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["last_modified"] != nil {
		t.Fatalf("last_modified=%v; want null", raw["last_modified"])
	}
}

func TestListValidation(t *testing.T) {
	env := testEnv(t, newFakeStore())
	if _, err := NewList(env).Run(context.Background(), ListInput{Profile: "test"}); !errors.Is(err, ErrOperation) {
		t.Fatalf("err=%v; want ErrOperation", err)
	}
}

func TestListStoreError(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("access denied")
	env := testEnv(t, store)
	_, err := NewList(env).Run(context.Background(), ListInput{Profile: "test", Bucket: "b"})
	if !errors.Is(err, ErrOperation) {
		t.Fatalf("err=%v; want ErrOperation", err)
	}
}
