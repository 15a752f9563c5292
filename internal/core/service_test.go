package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"campuscore/internal/infra/persistence/memory"
	"campuscore/pkg/domain"
)

var serviceNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

type testGateway struct {
	service *Service
	store   *memory.Store
	outbox  *memory.OutboxStore
	online  bool
}

func newTestGateway(t *testing.T) *testGateway {
	t.Helper()
	store := memory.NewStore(NewDefaultRulesEngine())
	store.SetNowFunc(func() time.Time { return serviceNow })
	outbox := memory.NewOutboxStore()
	g := &testGateway{store: store, outbox: outbox, online: true}
	g.service = NewService(store, memory.NewSessionStore(), outbox,
		WithConnectivityProbe(func(context.Context) bool { return g.online }))
	if err := g.service.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return g
}

func classPayload(subject string, marks int) AttendancePayload {
	payload := AttendancePayload{
		ClassDetails: domain.ClassDetails{Department: "CSE", Year: "II", Subject: subject, Hour: "2", Date: "2026-09-01"},
		ActorID:      "T001",
	}
	for i := 0; i < marks; i++ {
		payload.Attendance = append(payload.Attendance, domain.AttendanceMark{
			StudentID: "URK23CS1001",
			Status:    domain.AttendancePresent,
		})
	}
	return payload
}

func TestBootstrapSeedsDefaults(t *testing.T) {
	g := newTestGateway(t)

	if _, ok := g.store.FindStudent("URK23CS1001"); !ok {
		t.Fatalf("bootstrap should seed the compiled-in students")
	}
	if _, ok := g.store.FindTeacher("T001"); !ok {
		t.Fatalf("bootstrap should seed the compiled-in teachers")
	}
}

func TestBootstrapOverlaysPersistedState(t *testing.T) {
	store := memory.NewStore(NewDefaultRulesEngine())
	store.SetNowFunc(func() time.Time { return serviceNow })
	store.ImportState(Snapshot{
		Students: map[string]Student{
			"URK23CS1001": {ID: "URK23CS1001", RollNo: "23CS001", Name: "Arun Kumar", Department: "CSE", Year: "III", Active: true},
		},
	})

	service := NewService(store, memory.NewSessionStore(), memory.NewOutboxStore())
	if err := service.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	if st, _ := store.FindStudent("URK23CS1001"); st.Year != "III" {
		t.Fatalf("persisted record should survive reconciliation, year = %s", st.Year)
	}
	if _, ok := store.FindStudent("URK23CS1002"); !ok {
		t.Fatalf("default-only records should be added back by reconciliation")
	}
}

func TestGatewayMutationAudits(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	before := len(g.service.AuditLog())
	created, _, err := g.service.AddStudent(ctx, Student{ID: "URK25CS5001", Name: "New Admit", Department: "CSE", Year: "I"}, "T001")
	if err != nil {
		t.Fatalf("add student: %v", err)
	}
	if !created.Active {
		t.Fatalf("gateway-created students should be active")
	}
	log := g.service.AuditLog()
	if len(log) != before+1 {
		t.Fatalf("expected one new audit entry, got %d -> %d", before, len(log))
	}
	if log[0].Category != domain.AuditStudent || log[0].ActorID != "T001" {
		t.Fatalf("audit entry should carry category and actor: %+v", log[0])
	}
}

func TestMarkAttendanceOnline(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	before := len(g.service.AuditLog())
	queued, _, err := g.service.MarkAttendance(ctx, classPayload("DBMS", 2))
	if err != nil {
		t.Fatalf("mark attendance: %v", err)
	}
	if queued {
		t.Fatalf("online write should not queue")
	}
	if len(g.service.AuditLog()) != before+1 {
		t.Fatalf("online write should append its audit entry")
	}
	pending, err := g.service.ListPendingAttendance(ctx)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("online write should leave the outbox empty, got %d", len(pending))
	}
}

func TestMarkAttendanceOfflineQueues(t *testing.T) {
	g := newTestGateway(t)
	g.online = false
	ctx := context.Background()

	before := len(g.service.AuditLog())
	queued, _, err := g.service.MarkAttendance(ctx, classPayload("DBMS", 2))
	if err != nil {
		t.Fatalf("mark attendance: %v", err)
	}
	if !queued {
		t.Fatalf("offline write should queue")
	}
	if len(g.service.AuditLog()) != before {
		t.Fatalf("a queued payload must not produce an audit entry")
	}

	// A second offline save for the same class overwrites the buffered slot.
	if _, _, err := g.service.MarkAttendance(ctx, classPayload("DBMS", 5)); err != nil {
		t.Fatalf("re-mark: %v", err)
	}
	pending, err := g.service.ListPendingAttendance(ctx)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("same class key should hold one slot, got %d", len(pending))
	}
	if len(pending[0].Attendance) != 5 {
		t.Fatalf("later save should win, got %d marks", len(pending[0].Attendance))
	}
}

func TestMarkAttendanceRejectsIncompleteClass(t *testing.T) {
	g := newTestGateway(t)
	g.online = false
	ctx := context.Background()

	bad := classPayload("", 2)
	queued, _, err := g.service.MarkAttendance(ctx, bad)
	if err == nil {
		t.Fatalf("incomplete class details should be rejected before queuing")
	}
	if queued {
		t.Fatalf("rejected payload must not report as queued")
	}
	pending, err := g.service.ListPendingAttendance(ctx)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("rejected payload must not enter the outbox, got %d", len(pending))
	}
}

func TestFlushSkipsEntryThatFailsToDrain(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	// A malformed entry written by an older build sits ahead of a valid one
	// in key order.
	bad := domain.AttendancePayload{
		ClassDetails: domain.ClassDetails{Department: "AAA", Year: "II", Date: "2026-09-01"},
		ActorID:      "T001",
	}
	if err := g.outbox.Enqueue(ctx, bad); err != nil {
		t.Fatalf("enqueue bad: %v", err)
	}
	good := classPayload("OS", 2)
	if err := g.outbox.Enqueue(ctx, good); err != nil {
		t.Fatalf("enqueue good: %v", err)
	}

	flushed, err := g.service.FlushAttendanceOutbox(ctx)
	if err != nil {
		t.Fatalf("flush should not abort on a failing entry: %v", err)
	}
	if len(flushed) != 1 || flushed[0] != good.ClassDetails.ClassKey() {
		t.Fatalf("valid entry behind the failing one should drain, flushed %v", flushed)
	}
	if _, ok, _ := g.outbox.Get(ctx, good.ClassDetails.ClassKey()); ok {
		t.Fatalf("drained entry should be removed")
	}
	// The failing entry stays queued; it never blocks the rest again.
	if _, ok, _ := g.outbox.Get(ctx, bad.ClassDetails.ClassKey()); !ok {
		t.Fatalf("failing entry should remain buffered")
	}
}

func TestFlushAttendanceOutbox(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	g.online = false
	if _, _, err := g.service.MarkAttendance(ctx, classPayload("DBMS", 2)); err != nil {
		t.Fatalf("queue DBMS: %v", err)
	}
	if _, _, err := g.service.MarkAttendance(ctx, classPayload("OS", 3)); err != nil {
		t.Fatalf("queue OS: %v", err)
	}

	g.online = true
	before := len(g.service.AuditLog())
	flushed, err := g.service.FlushAttendanceOutbox(ctx)
	if err != nil {
		t.Fatalf("flush: %v", err)
	}
	if len(flushed) != 2 {
		t.Fatalf("expected 2 flushed keys, got %v", flushed)
	}
	if len(g.service.AuditLog()) != before+2 {
		t.Fatalf("each drained payload should write its audit entry")
	}
	pending, err := g.service.ListPendingAttendance(ctx)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("drained outbox should be empty, got %d", len(pending))
	}
}

// persistFailingStore commits in memory, then reports the durable write failed.
type persistFailingStore struct {
	*memory.Store
	fail bool
}

func (s *persistFailingStore) RunInTransaction(ctx context.Context, fn func(domain.Transaction) error) (domain.Result, error) {
	res, err := s.Store.RunInTransaction(ctx, fn)
	if err != nil {
		return res, err
	}
	if s.fail {
		return res, domain.PersistError{Err: errors.New("disk full")}
	}
	return res, nil
}

func TestRunSwallowsPersistFailure(t *testing.T) {
	ctx := context.Background()
	failing := &persistFailingStore{Store: memory.NewStore(NewDefaultRulesEngine()), fail: true}
	failing.SetNowFunc(func() time.Time { return serviceNow })
	service := NewService(failing, memory.NewSessionStore(), memory.NewOutboxStore())

	_, _, err := service.AddStudent(ctx, Student{ID: "URK25CS5001", Name: "New Admit"}, "T001")
	if err != nil {
		t.Fatalf("persist failure should be swallowed, got %v", err)
	}
	if _, ok := failing.FindStudent("URK25CS5001"); !ok {
		t.Fatalf("in-memory commit should stand despite the persist failure")
	}
}

func TestFlushKeepsEntryOnPersistFailure(t *testing.T) {
	ctx := context.Background()
	failing := &persistFailingStore{Store: memory.NewStore(NewDefaultRulesEngine())}
	failing.SetNowFunc(func() time.Time { return serviceNow })
	outbox := memory.NewOutboxStore()
	service := NewService(failing, memory.NewSessionStore(), outbox)

	payload := classPayload("DBMS", 2)
	if err := outbox.Enqueue(ctx, payload); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	failing.fail = true
	flushed, err := service.FlushAttendanceOutbox(ctx)
	if err != nil {
		t.Fatalf("flush: %v", err)
	}
	if len(flushed) != 0 {
		t.Fatalf("a persist failure must keep the entry queued, flushed %v", flushed)
	}
	if _, ok, _ := outbox.Get(ctx, payload.ClassDetails.ClassKey()); !ok {
		t.Fatalf("entry should still be buffered after the failed drain")
	}

	failing.fail = false
	flushed, err = service.FlushAttendanceOutbox(ctx)
	if err != nil || len(flushed) != 1 {
		t.Fatalf("retry should drain the entry: flushed=%v err=%v", flushed, err)
	}
}

func TestResolveSession(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	if _, ok, err := g.service.ResolveSession(ctx); err != nil || ok {
		t.Fatalf("no saved pointer should resolve: ok=%v err=%v", ok, err)
	}

	pointer := SessionPointer{UserID: "URK23CS1001", Role: domain.RoleStudent}
	if err := g.service.SaveSession(ctx, pointer); err != nil {
		t.Fatalf("save session: %v", err)
	}
	resolved, ok, err := g.service.ResolveSession(ctx)
	if err != nil || !ok {
		t.Fatalf("resolve: ok=%v err=%v", ok, err)
	}
	if resolved != pointer {
		t.Fatalf("resolved pointer mismatch: %+v", resolved)
	}

	// A pointer referencing a removed actor does not resolve.
	if _, err := g.service.DeleteStudent(ctx, "URK23CS1001", "T001"); err != nil {
		t.Fatalf("delete student: %v", err)
	}
	if _, ok, _ := g.service.ResolveSession(ctx); ok {
		t.Fatalf("pointer to a deleted student should not resolve")
	}

	if err := g.service.SaveSession(ctx, SessionPointer{UserID: "T001", Role: domain.RoleTeacher}); err != nil {
		t.Fatalf("save teacher session: %v", err)
	}
	if _, ok, _ := g.service.ResolveSession(ctx); !ok {
		t.Fatalf("pointer to a live teacher should resolve")
	}

	if err := g.service.ClearSession(ctx); err != nil {
		t.Fatalf("clear session: %v", err)
	}
	if _, ok, _ := g.service.ResolveSession(ctx); ok {
		t.Fatalf("cleared pointer should not resolve")
	}
}
