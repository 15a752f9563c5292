package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"campuscore/pkg/domain"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.DB().Close() })
	return store
}

func TestSnapshotSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "campus.db")

	store := openTestStore(t, path)
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if _, err := tx.AddStudent(domain.Student{ID: "URK23CS1001", Name: "Arun Kumar", Department: "CSE", Year: "II"}, "T001"); err != nil {
			return err
		}
		return tx.AddDepartment("CSE", "T001")
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := store.DB().Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened := openTestStore(t, path)
	if _, ok := reopened.FindStudent("URK23CS1001"); !ok {
		t.Fatalf("student should survive a reopen")
	}
	log := reopened.AuditLog()
	if len(log) != 2 {
		t.Fatalf("audit trail should survive a reopen, got %d entries", len(log))
	}
	if err := reopened.View(ctx, func(view domain.TransactionView) error {
		if got := view.Departments(); len(got) != 1 || got[0] != "CSE" {
			t.Fatalf("departments should survive a reopen: %v", got)
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestCorruptBucketDiscardedOnReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "campus.db")

	store := openTestStore(t, path)
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if _, err := tx.AddStudent(domain.Student{ID: "URK23CS1001", Name: "Arun Kumar"}, "T001"); err != nil {
			return err
		}
		return tx.AddDepartment("CSE", "T001")
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := store.DB().Exec(`UPDATE state SET payload = ? WHERE bucket = 'students'`, []byte("{not json")); err != nil {
		t.Fatalf("corrupt bucket: %v", err)
	}
	if err := store.DB().Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// A corrupt bucket must not keep the store from opening; the bucket is
	// dropped and the rest of the snapshot survives.
	reopened := openTestStore(t, path)
	if _, ok := reopened.FindStudent("URK23CS1001"); ok {
		t.Fatalf("corrupt students bucket should be discarded")
	}
	if err := reopened.View(ctx, func(view domain.TransactionView) error {
		if got := view.Departments(); len(got) != 1 || got[0] != "CSE" {
			t.Fatalf("intact buckets should still hydrate: %v", got)
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestFreshDatabaseStartsEmpty(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "campus.db"))
	if got := len(store.ListStudents()); got != 0 {
		t.Fatalf("fresh database should hydrate no students, got %d", got)
	}
	if _, ok, err := store.LoadSession(context.Background()); err != nil || ok {
		t.Fatalf("fresh database should hold no session pointer: ok=%v err=%v", ok, err)
	}
}

func TestSessionPointerRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "campus.db")

	store := openTestStore(t, path)
	pointer := domain.SessionPointer{UserID: "URK23CS1001", Role: domain.RoleStudent}
	if err := store.SaveSession(ctx, pointer); err != nil {
		t.Fatalf("save session: %v", err)
	}
	if err := store.DB().Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened := openTestStore(t, path)
	loaded, ok, err := reopened.LoadSession(ctx)
	if err != nil || !ok {
		t.Fatalf("load session: ok=%v err=%v", ok, err)
	}
	if loaded != pointer {
		t.Fatalf("session pointer mismatch: %+v", loaded)
	}

	if err := reopened.ClearSession(ctx); err != nil {
		t.Fatalf("clear session: %v", err)
	}
	if _, ok, _ := reopened.LoadSession(ctx); ok {
		t.Fatalf("cleared session should not load")
	}
}

func TestOutboxOverwriteAndDrainOrder(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, filepath.Join(t.TempDir(), "campus.db"))

	payload := domain.AttendancePayload{
		ClassDetails: domain.ClassDetails{Department: "CSE", Year: "II", Subject: "DBMS", Hour: "3", Date: "2026-09-01"},
		Attendance:   []domain.AttendanceMark{{StudentID: "URK23CS1001", Status: domain.AttendanceAbsent}},
		ActorID:      "T001",
	}
	if err := store.Enqueue(ctx, payload); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	payload.Attendance = append(payload.Attendance, domain.AttendanceMark{StudentID: "URK23CS1002", Status: domain.AttendancePresent})
	if err := store.Enqueue(ctx, payload); err != nil {
		t.Fatalf("re-enqueue: %v", err)
	}

	other := payload
	other.ClassDetails.Subject = "OS"
	if err := store.Enqueue(ctx, other); err != nil {
		t.Fatalf("enqueue other: %v", err)
	}

	keys, err := store.PendingKeys(ctx)
	if err != nil {
		t.Fatalf("pending keys: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 distinct class keys, got %v", keys)
	}
	if keys[0] != "CSE|II|DBMS|2026-09-01" || keys[1] != "CSE|II|OS|2026-09-01" {
		t.Fatalf("keys should come back sorted: %v", keys)
	}

	buffered, ok, err := store.Get(ctx, keys[0])
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if len(buffered.Attendance) != 2 {
		t.Fatalf("later save should overwrite the slot, got %d marks", len(buffered.Attendance))
	}

	if err := store.Remove(ctx, keys[0]); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := store.Get(ctx, keys[0]); ok {
		t.Fatalf("removed key should not resolve")
	}
	if err := store.Remove(ctx, keys[0]); err != nil {
		t.Fatalf("removing an absent key should be a no-op: %v", err)
	}
}
