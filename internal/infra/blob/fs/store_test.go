package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"campuscore/internal/blob/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	body := []byte(`{"semester":"4"}`)
	info, err := store.Put(ctx, "state/studentFeeDetails.json", bytes.NewReader(body), core.PutOptions{ContentType: "application/json"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != int64(len(body)) || info.ContentType != "application/json" {
		t.Fatalf("unexpected info: %+v", info)
	}
	if info.ETag == "" {
		t.Fatalf("put should compute an etag")
	}

	got, rc, err := store.Get(ctx, "state/studentFeeDetails.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(data, body) {
		t.Fatalf("content mismatch: %s", data)
	}
	if got.ETag != info.ETag {
		t.Fatalf("etag mismatch: %s vs %s", got.ETag, info.ETag)
	}
}

func TestPutOverwrites(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.Put(ctx, "doc.json", bytes.NewReader([]byte("v1")), core.PutOptions{}); err != nil {
		t.Fatalf("put v1: %v", err)
	}
	if _, err := store.Put(ctx, "doc.json", bytes.NewReader([]byte("v2")), core.PutOptions{}); err != nil {
		t.Fatalf("put v2: %v", err)
	}

	_, rc, err := store.Get(ctx, "doc.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = rc.Close() }()
	data, _ := io.ReadAll(rc)
	if string(data) != "v2" {
		t.Fatalf("second put should overwrite, got %s", data)
	}
}

func TestGetMissingKey(t *testing.T) {
	store := newTestStore(t)
	_, _, err := store.Get(context.Background(), "absent.json")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.Put(ctx, "doc.json", bytes.NewReader([]byte("x")), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	existed, err := store.Delete(ctx, "doc.json")
	if err != nil || !existed {
		t.Fatalf("delete: existed=%v err=%v", existed, err)
	}
	if _, _, err := store.Get(ctx, "doc.json"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("deleted key should not resolve, got %v", err)
	}
	existed, err = store.Delete(ctx, "doc.json")
	if err != nil || existed {
		t.Fatalf("double delete should report absent: existed=%v err=%v", existed, err)
	}
}

func TestListFiltersByPrefix(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, key := range []string{"outbox/a.json", "outbox/b.json", "state/students.json"} {
		if _, err := store.Put(ctx, key, bytes.NewReader([]byte("{}")), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}

	infos, err := store.List(ctx, "outbox/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 outbox documents, got %d", len(infos))
	}
	if infos[0].Key != "outbox/a.json" || infos[1].Key != "outbox/b.json" {
		t.Fatalf("list should come back sorted by key: %+v", infos)
	}
}

func TestKeySanitization(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, key := range []string{"", "../escape", "/absolute", "a/../../b"} {
		if _, err := store.Put(ctx, key, bytes.NewReader([]byte("x")), core.PutOptions{}); err == nil {
			t.Fatalf("key %q should be rejected", key)
		}
	}
}
