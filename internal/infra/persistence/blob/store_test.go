package blob

import (
	"bytes"
	"context"
	"testing"

	blobcore "campuscore/internal/blob/core"
	blobmem "campuscore/internal/infra/blob/memory"
	"campuscore/pkg/domain"
)

func TestSnapshotSurvivesRehydration(t *testing.T) {
	ctx := context.Background()
	backend := blobmem.New()

	store, err := NewStore(ctx, backend, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if _, err := tx.AddStudent(domain.Student{ID: "URK23CS1001", Name: "Arun Kumar", Department: "CSE", Year: "II"}, "T001"); err != nil {
			return err
		}
		_, err := tx.AddAnnouncement(domain.Announcement{Title: "Holiday", Content: "Campus closed Friday"}, "T001")
		return err
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// A second store over the same backend hydrates the persisted documents.
	rehydrated, err := NewStore(ctx, backend, nil)
	if err != nil {
		t.Fatalf("rehydrate: %v", err)
	}
	if _, ok := rehydrated.FindStudent("URK23CS1001"); !ok {
		t.Fatalf("student should hydrate from the blob backend")
	}
	if got := len(rehydrated.AuditLog()); got != 2 {
		t.Fatalf("audit trail should hydrate, got %d entries", got)
	}
	if err := rehydrated.View(ctx, func(view domain.TransactionView) error {
		if got := view.ListAnnouncements(); len(got) != 1 || got[0].Title != "Holiday" {
			t.Fatalf("announcements should hydrate: %+v", got)
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestCorruptDocumentDiscardedOnRehydration(t *testing.T) {
	ctx := context.Background()
	backend := blobmem.New()

	store, err := NewStore(ctx, backend, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if _, err := tx.AddStudent(domain.Student{ID: "URK23CS1001", Name: "Arun Kumar"}, "T001"); err != nil {
			return err
		}
		_, err := tx.AddAnnouncement(domain.Announcement{Title: "Holiday", Content: "Campus closed Friday"}, "T001")
		return err
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := backend.Put(ctx, "state/students.json", bytes.NewReader([]byte("{not json")), blobcore.PutOptions{ContentType: "application/json"}); err != nil {
		t.Fatalf("corrupt document: %v", err)
	}

	// The corrupt document is dropped; the store still opens with the
	// surviving buckets.
	rehydrated, err := NewStore(ctx, backend, nil)
	if err != nil {
		t.Fatalf("rehydrate should tolerate the corrupt document: %v", err)
	}
	if _, ok := rehydrated.FindStudent("URK23CS1001"); ok {
		t.Fatalf("corrupt students document should be discarded")
	}
	if err := rehydrated.View(ctx, func(view domain.TransactionView) error {
		if got := view.ListAnnouncements(); len(got) != 1 {
			t.Fatalf("intact documents should still hydrate: %+v", got)
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestEmptyBackendStartsEmpty(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(ctx, blobmem.New(), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if got := len(store.ListStudents()); got != 0 {
		t.Fatalf("empty backend should hydrate no students, got %d", got)
	}
}

func TestSessionPointerStoredAsTwoDocuments(t *testing.T) {
	ctx := context.Background()
	backend := blobmem.New()
	store, err := NewStore(ctx, backend, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	pointer := domain.SessionPointer{UserID: "T001", Role: domain.RoleTeacher}
	if err := store.SaveSession(ctx, pointer); err != nil {
		t.Fatalf("save session: %v", err)
	}

	// The pointer lives as two scalar documents, not one JSON blob.
	for _, key := range []string{"session/current_user_id", "session/current_user_type"} {
		if _, _, err := backend.Get(ctx, key); err != nil {
			t.Fatalf("expected document %s: %v", key, err)
		}
	}

	loaded, ok, err := store.LoadSession(ctx)
	if err != nil || !ok {
		t.Fatalf("load session: ok=%v err=%v", ok, err)
	}
	if loaded != pointer {
		t.Fatalf("session pointer mismatch: %+v", loaded)
	}

	if err := store.ClearSession(ctx); err != nil {
		t.Fatalf("clear session: %v", err)
	}
	if _, ok, _ := store.LoadSession(ctx); ok {
		t.Fatalf("cleared session should not load")
	}
}

func TestOutboxKeysEscapedAndListed(t *testing.T) {
	ctx := context.Background()
	backend := blobmem.New()
	store, err := NewStore(ctx, backend, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	payload := domain.AttendancePayload{
		ClassDetails: domain.ClassDetails{Department: "CSE", Year: "II", Subject: "Maths III", Hour: "4", Date: "2026-09-01"},
		Attendance:   []domain.AttendanceMark{{StudentID: "URK23CS1001", Status: domain.AttendancePresent}},
		ActorID:      "T001",
	}
	if err := store.Enqueue(ctx, payload); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	keys, err := store.PendingKeys(ctx)
	if err != nil {
		t.Fatalf("pending keys: %v", err)
	}
	// Pipes and spaces in the class key must round-trip through the escaped
	// document name.
	if len(keys) != 1 || keys[0] != "CSE|II|Maths III|2026-09-01" {
		t.Fatalf("class key should round-trip unescaped: %v", keys)
	}

	buffered, ok, err := store.Get(ctx, keys[0])
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if len(buffered.Attendance) != 1 || buffered.ActorID != "T001" {
		t.Fatalf("buffered payload mismatch: %+v", buffered)
	}

	// Overwrite for the same class key keeps one document.
	payload.Attendance = append(payload.Attendance, domain.AttendanceMark{StudentID: "URK23CS1002", Status: domain.AttendanceExcused})
	if err := store.Enqueue(ctx, payload); err != nil {
		t.Fatalf("re-enqueue: %v", err)
	}
	infos, err := backend.List(ctx, "outbox/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("same class key should hold one document, got %d", len(infos))
	}

	if err := store.Remove(ctx, keys[0]); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := store.Get(ctx, keys[0]); ok {
		t.Fatalf("removed key should not resolve")
	}
}
