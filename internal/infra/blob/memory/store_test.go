package memory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"campuscore/internal/blob/core"
)

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	store := New()

	body := []byte("hello")
	info, err := store.Put(ctx, "k1", bytes.NewReader(body), core.PutOptions{ContentType: "text/plain"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != int64(len(body)) {
		t.Fatalf("unexpected size %d", info.Size)
	}

	_, rc, err := store.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	if !bytes.Equal(data, body) {
		t.Fatalf("content mismatch: %s", data)
	}

	existed, err := store.Delete(ctx, "k1")
	if err != nil || !existed {
		t.Fatalf("delete: existed=%v err=%v", existed, err)
	}
	if _, _, err := store.Get(ctx, "k1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("deleted key should not resolve, got %v", err)
	}
}

func TestPutOverwritesExistingKey(t *testing.T) {
	ctx := context.Background()
	store := New()

	if _, err := store.Put(ctx, "k1", bytes.NewReader([]byte("v1")), core.PutOptions{}); err != nil {
		t.Fatalf("put v1: %v", err)
	}
	if _, err := store.Put(ctx, "k1", bytes.NewReader([]byte("v2")), core.PutOptions{}); err != nil {
		t.Fatalf("put v2: %v", err)
	}
	_, rc, err := store.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(data) != "v2" {
		t.Fatalf("second put should overwrite, got %s", data)
	}
}

func TestListSortedByPrefix(t *testing.T) {
	ctx := context.Background()
	store := New()

	for _, key := range []string{"outbox/b", "outbox/a", "state/x"} {
		if _, err := store.Put(ctx, key, bytes.NewReader([]byte("{}")), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	infos, err := store.List(ctx, "outbox/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "outbox/a" || infos[1].Key != "outbox/b" {
		t.Fatalf("expected sorted outbox keys, got %+v", infos)
	}
}
