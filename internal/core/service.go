package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"campuscore/pkg/domain"
)

// Service is the mutation gateway: the single entry point for domain writes.
// Every operation runs in one store transaction that applies the change,
// recomputes derived fields, and appends its audit entry, so callers never
// observe a half-applied state.
type Service struct {
	store    PersistentStore
	sessions SessionStore
	outbox   OutboxStore
	logger   zerolog.Logger
	metrics  MetricsRecorder
	online   func(context.Context) bool
}

// Option configures a Service.
type Option func(*Service)

// WithLogger installs the structured logger used for persist failures and
// rule warnings.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics installs a metrics recorder.
func WithMetrics(metrics MetricsRecorder) Option {
	return func(s *Service) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// WithConnectivityProbe installs the probe consulted once per attendance
// write. Without a probe the service considers itself online.
func WithConnectivityProbe(probe func(context.Context) bool) Option {
	return func(s *Service) {
		if probe != nil {
			s.online = probe
		}
	}
}

// NewService constructs the gateway over the given stores.
func NewService(store PersistentStore, sessions SessionStore, outbox OutboxStore, opts ...Option) *Service {
	s := &Service{
		store:    store,
		sessions: sessions,
		outbox:   outbox,
		logger:   zerolog.Nop(),
		metrics:  NoopMetrics{},
		online:   func(context.Context) bool { return true },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying persistent store.
func (s *Service) Store() PersistentStore { return s.store }

// Bootstrap reconciles the hydrated snapshot against the compiled-in defaults
// and reimports the merged state. Call once after opening the store.
func (s *Service) Bootstrap(ctx context.Context) error {
	persisted := s.store.ExportState()
	merged := Merge(DefaultSnapshot(), &persisted)
	s.store.ImportState(merged)
	s.logger.Info().
		Int("students", len(merged.Students)).
		Int("teachers", len(merged.Teachers)).
		Int("audit_entries", len(merged.AuditLogs)).
		Msg("state reconciled against defaults")
	return s.refreshOutboxDepth(ctx)
}

// run executes one gateway mutation. Rule warnings are logged; a persist
// failure is logged and swallowed because the in-memory commit already stands.
func (s *Service) run(ctx context.Context, op string, fn func(Transaction) error) (Result, error) {
	res, _, err := s.runReporting(ctx, op, fn)
	return res, err
}

// runReporting is run plus an explicit persist-failure signal for callers
// that must not treat a divergent commit as fully durable (the outbox drain).
func (s *Service) runReporting(ctx context.Context, op string, fn func(Transaction) error) (Result, bool, error) {
	start := time.Now()
	res, err := s.store.RunInTransaction(ctx, fn)

	outcome := OutcomeOK
	persistFailed := false
	var pErr domain.PersistError
	var rvErr domain.RuleViolationError
	switch {
	case err == nil:
	case errors.As(err, &pErr):
		s.logger.Error().Err(pErr.Err).Str("op", op).
			Msg("snapshot persist failed; in-memory state keeps the change")
		outcome = OutcomePersistFailed
		persistFailed = true
		err = nil
	case errors.As(err, &rvErr):
		outcome = OutcomeBlocked
	default:
		outcome = OutcomeError
	}

	for _, v := range res.Violations {
		if v.Severity != domain.SeverityBlock {
			s.logger.Warn().Str("rule", v.Rule).Str("entity_id", v.EntityID).Msg(v.Message)
		}
	}
	s.metrics.ObserveMutation(op, outcome, time.Since(start))
	return res, persistFailed, err
}

// View executes fn against a read-only snapshot of the store state.
func (s *Service) View(ctx context.Context, fn func(TransactionView) error) error {
	return s.store.View(ctx, fn)
}

// AuditLog returns the audit trail newest-first.
func (s *Service) AuditLog() []AuditLogEntry { return s.store.AuditLog() }

// AddStudent enrolls a new student.
func (s *Service) AddStudent(ctx context.Context, student Student, actorID string) (Student, Result, error) {
	var created Student
	res, err := s.run(ctx, "add_student", func(tx Transaction) error {
		var err error
		created, err = tx.AddStudent(student, actorID)
		return err
	})
	return created, res, err
}

// UpdateStudent mutates a student using the provided mutator.
func (s *Service) UpdateStudent(ctx context.Context, id string, mutator func(*Student) error, actorID string) (Student, Result, error) {
	var updated Student
	res, err := s.run(ctx, "update_student", func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateStudent(id, mutator, actorID)
		return err
	})
	return updated, res, err
}

// DeleteStudent removes a student record.
func (s *Service) DeleteStudent(ctx context.Context, id, actorID string) (Result, error) {
	return s.run(ctx, "delete_student", func(tx Transaction) error {
		return tx.DeleteStudent(id, actorID)
	})
}

// SetStudentActive flips a student's active flag.
func (s *Service) SetStudentActive(ctx context.Context, id string, active bool, actorID string) (Student, Result, error) {
	var updated Student
	res, err := s.run(ctx, "set_student_active", func(tx Transaction) error {
		var err error
		updated, err = tx.SetStudentActive(id, active, actorID)
		return err
	})
	return updated, res, err
}

// AddTeacher adds a staff record.
func (s *Service) AddTeacher(ctx context.Context, teacher Teacher, actorID string) (Teacher, Result, error) {
	var created Teacher
	res, err := s.run(ctx, "add_teacher", func(tx Transaction) error {
		var err error
		created, err = tx.AddTeacher(teacher, actorID)
		return err
	})
	return created, res, err
}

// UpdateTeacher mutates a staff record using the provided mutator.
func (s *Service) UpdateTeacher(ctx context.Context, id string, mutator func(*Teacher) error, actorID string) (Teacher, Result, error) {
	var updated Teacher
	res, err := s.run(ctx, "update_teacher", func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateTeacher(id, mutator, actorID)
		return err
	})
	return updated, res, err
}

// DeleteTeacher removes a staff record.
func (s *Service) DeleteTeacher(ctx context.Context, id, actorID string) (Result, error) {
	return s.run(ctx, "delete_teacher", func(tx Transaction) error {
		return tx.DeleteTeacher(id, actorID)
	})
}

// SetTeacherActive flips a staff record's active flag.
func (s *Service) SetTeacherActive(ctx context.Context, id string, active bool, actorID string) (Teacher, Result, error) {
	var updated Teacher
	res, err := s.run(ctx, "set_teacher_active", func(tx Transaction) error {
		var err error
		updated, err = tx.SetTeacherActive(id, active, actorID)
		return err
	})
	return updated, res, err
}

// SubmitApplication records a registration application.
func (s *Service) SubmitApplication(ctx context.Context, applicant Student, actorID string) (Student, Result, error) {
	var created Student
	res, err := s.run(ctx, "submit_application", func(tx Transaction) error {
		var err error
		created, err = tx.SubmitApplication(applicant, actorID)
		return err
	})
	return created, res, err
}

// ApproveApplication enrolls an applicant, removing the pending record in the
// same transaction.
func (s *Service) ApproveApplication(ctx context.Context, id, actorID string) (Student, Result, error) {
	var enrolled Student
	res, err := s.run(ctx, "approve_application", func(tx Transaction) error {
		var err error
		enrolled, err = tx.ApproveApplication(id, actorID)
		return err
	})
	return enrolled, res, err
}

// RejectApplication drops a registration application.
func (s *Service) RejectApplication(ctx context.Context, id, actorID string) (Result, error) {
	return s.run(ctx, "reject_application", func(tx Transaction) error {
		return tx.RejectApplication(id, actorID)
	})
}

// AddDepartment appends a department label.
func (s *Service) AddDepartment(ctx context.Context, name, actorID string) (Result, error) {
	return s.run(ctx, "add_department", func(tx Transaction) error {
		return tx.AddDepartment(name, actorID)
	})
}

// RemoveDepartment drops a department label.
func (s *Service) RemoveDepartment(ctx context.Context, name, actorID string) (Result, error) {
	return s.run(ctx, "remove_department", func(tx Transaction) error {
		return tx.RemoveDepartment(name, actorID)
	})
}

// AddYear appends a year label.
func (s *Service) AddYear(ctx context.Context, name, actorID string) (Result, error) {
	return s.run(ctx, "add_year", func(tx Transaction) error {
		return tx.AddYear(name, actorID)
	})
}

// RemoveYear drops a year label.
func (s *Service) RemoveYear(ctx context.Context, name, actorID string) (Result, error) {
	return s.run(ctx, "remove_year", func(tx Transaction) error {
		return tx.RemoveYear(name, actorID)
	})
}

// AddHour appends a class-hour label.
func (s *Service) AddHour(ctx context.Context, label, actorID string) (Result, error) {
	return s.run(ctx, "add_hour", func(tx Transaction) error {
		return tx.AddHour(label, actorID)
	})
}

// RemoveHour drops a class-hour label.
func (s *Service) RemoveHour(ctx context.Context, label, actorID string) (Result, error) {
	return s.run(ctx, "remove_hour", func(tx Transaction) error {
		return tx.RemoveHour(label, actorID)
	})
}

// SetClassTimetable replaces one day's subject sequence.
func (s *Service) SetClassTimetable(ctx context.Context, department, year, day string, subjects []string, actorID string) (Result, error) {
	return s.run(ctx, "set_class_timetable", func(tx Transaction) error {
		return tx.SetClassTimetable(department, year, day, subjects, actorID)
	})
}

// SetExamSchedule replaces the exam entries for a department/year.
func (s *Service) SetExamSchedule(ctx context.Context, department, year string, entries []ExamEntry, actorID string) (Result, error) {
	return s.run(ctx, "set_exam_schedule", func(tx Transaction) error {
		return tx.SetExamSchedule(department, year, entries, actorID)
	})
}

// AddEvent appends a calendar event.
func (s *Service) AddEvent(ctx context.Context, event CalendarEvent, actorID string) (CalendarEvent, Result, error) {
	var created CalendarEvent
	res, err := s.run(ctx, "add_event", func(tx Transaction) error {
		var err error
		created, err = tx.AddEvent(event, actorID)
		return err
	})
	return created, res, err
}

// DeleteEvent removes a calendar event.
func (s *Service) DeleteEvent(ctx context.Context, id, actorID string) (Result, error) {
	return s.run(ctx, "delete_event", func(tx Transaction) error {
		return tx.DeleteEvent(id, actorID)
	})
}

// SubmitLeaveRequest records a new pending leave request.
func (s *Service) SubmitLeaveRequest(ctx context.Context, request LeaveRequest, actorID string) (LeaveRequest, Result, error) {
	var created LeaveRequest
	res, err := s.run(ctx, "submit_leave_request", func(tx Transaction) error {
		var err error
		created, err = tx.SubmitLeaveRequest(request, actorID)
		return err
	})
	return created, res, err
}

// ApproveLeaveRequest approves a pending leave request.
func (s *Service) ApproveLeaveRequest(ctx context.Context, id, actorID string) (LeaveRequest, Result, error) {
	var updated LeaveRequest
	res, err := s.run(ctx, "approve_leave_request", func(tx Transaction) error {
		var err error
		updated, err = tx.ApproveLeaveRequest(id, actorID)
		return err
	})
	return updated, res, err
}

// RejectLeaveRequest rejects a pending leave request with a reason.
func (s *Service) RejectLeaveRequest(ctx context.Context, id, reason, actorID string) (LeaveRequest, Result, error) {
	var updated LeaveRequest
	res, err := s.run(ctx, "reject_leave_request", func(tx Transaction) error {
		var err error
		updated, err = tx.RejectLeaveRequest(id, reason, actorID)
		return err
	})
	return updated, res, err
}

// AddAnnouncement publishes an announcement.
func (s *Service) AddAnnouncement(ctx context.Context, announcement Announcement, actorID string) (Announcement, Result, error) {
	var created Announcement
	res, err := s.run(ctx, "add_announcement", func(tx Transaction) error {
		var err error
		created, err = tx.AddAnnouncement(announcement, actorID)
		return err
	})
	return created, res, err
}

// DeleteAnnouncement removes an announcement.
func (s *Service) DeleteAnnouncement(ctx context.Context, id, actorID string) (Result, error) {
	return s.run(ctx, "delete_announcement", func(tx Transaction) error {
		return tx.DeleteAnnouncement(id, actorID)
	})
}

// OpenFeedbackSession opens a feedback collection window.
func (s *Service) OpenFeedbackSession(ctx context.Context, session FeedbackSession, actorID string) (FeedbackSession, Result, error) {
	var created FeedbackSession
	res, err := s.run(ctx, "open_feedback_session", func(tx Transaction) error {
		var err error
		created, err = tx.OpenFeedbackSession(session, actorID)
		return err
	})
	return created, res, err
}

// CloseFeedbackSession closes an open feedback window.
func (s *Service) CloseFeedbackSession(ctx context.Context, id, actorID string) (FeedbackSession, Result, error) {
	var updated FeedbackSession
	res, err := s.run(ctx, "close_feedback_session", func(tx Transaction) error {
		var err error
		updated, err = tx.CloseFeedbackSession(id, actorID)
		return err
	})
	return updated, res, err
}

// SubmitFeedback appends a feedback entry to an open session.
func (s *Service) SubmitFeedback(ctx context.Context, entry FeedbackEntry, actorID string) (Result, error) {
	return s.run(ctx, "submit_feedback", func(tx Transaction) error {
		return tx.SubmitFeedback(entry, actorID)
	})
}

// SetSemesterFee creates or replaces one semester's fee record.
func (s *Service) SetSemesterFee(ctx context.Context, studentID string, fee SemesterFee, actorID string) (SemesterFee, Result, error) {
	var updated SemesterFee
	res, err := s.run(ctx, "set_semester_fee", func(tx Transaction) error {
		var err error
		updated, err = tx.SetSemesterFee(studentID, fee, actorID)
		return err
	})
	return updated, res, err
}

// RecordFeePayment adds a payment to an existing semester fee record.
func (s *Service) RecordFeePayment(ctx context.Context, studentID, semester string, amount float64, actorID string) (SemesterFee, Result, error) {
	var updated SemesterFee
	res, err := s.run(ctx, "record_fee_payment", func(tx Transaction) error {
		var err error
		updated, err = tx.RecordFeePayment(studentID, semester, amount, actorID)
		return err
	})
	return updated, res, err
}

// SetSemesterResult creates or replaces one semester's results.
func (s *Service) SetSemesterResult(ctx context.Context, studentID string, result SemesterResult, actorID string) (SemesterResult, Result, error) {
	var updated SemesterResult
	res, err := s.run(ctx, "set_semester_result", func(tx Transaction) error {
		var err error
		updated, err = tx.SetSemesterResult(studentID, result, actorID)
		return err
	})
	return updated, res, err
}

// MarkAttendance writes a batch of attendance marks. When the connectivity
// probe reports online the write goes through the gateway with its audit
// entry; when offline the payload is buffered in the outbox under its class
// key with no audit entry. The returned flag reports whether the payload was
// queued rather than written. Class details are validated up front on both
// paths, so the outbox only ever holds payloads a later drain can commit.
func (s *Service) MarkAttendance(ctx context.Context, payload AttendancePayload) (bool, Result, error) {
	if err := payload.ClassDetails.Validate(); err != nil {
		return false, Result{}, err
	}
	if s.online(ctx) {
		res, err := s.run(ctx, "mark_attendance", func(tx Transaction) error {
			return tx.MarkAttendance(payload)
		})
		return false, res, err
	}
	if err := s.outbox.Enqueue(ctx, payload); err != nil {
		return false, Result{}, fmt.Errorf("queue attendance: %w", err)
	}
	s.logger.Info().Str("class_key", payload.ClassDetails.ClassKey()).
		Msg("offline: attendance buffered in outbox")
	if err := s.refreshOutboxDepth(ctx); err != nil {
		return true, Result{}, err
	}
	return true, Result{}, nil
}

// ListPendingAttendance returns the buffered payloads in class-key order.
func (s *Service) ListPendingAttendance(ctx context.Context) ([]AttendancePayload, error) {
	keys, err := s.outbox.PendingKeys(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AttendancePayload, 0, len(keys))
	for _, key := range keys {
		payload, ok, err := s.outbox.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, payload)
		}
	}
	return out, nil
}

// FlushAttendanceOutbox drains buffered attendance payloads through the
// normal gateway path. An entry is removed only after its transaction commits
// and persists; a persist failure keeps the entry queued for the next drain.
// An entry whose transaction fails outright is logged and skipped, so one bad
// payload never blocks the class keys behind it.
func (s *Service) FlushAttendanceOutbox(ctx context.Context) ([]string, error) {
	keys, err := s.outbox.PendingKeys(ctx)
	if err != nil {
		return nil, err
	}
	var flushed []string
	for _, key := range keys {
		payload, ok, err := s.outbox.Get(ctx, key)
		if err != nil {
			return flushed, err
		}
		if !ok {
			continue
		}
		_, persistFailed, err := s.runReporting(ctx, "flush_attendance", func(tx Transaction) error {
			return tx.MarkAttendance(payload)
		})
		if err != nil {
			s.logger.Warn().Err(err).Str("class_key", key).
				Msg("skipping outbox entry that failed to drain")
			continue
		}
		if persistFailed {
			continue
		}
		if err := s.outbox.Remove(ctx, key); err != nil {
			return flushed, fmt.Errorf("remove %s: %w", key, err)
		}
		flushed = append(flushed, key)
	}
	if err := s.refreshOutboxDepth(ctx); err != nil {
		return flushed, err
	}
	return flushed, nil
}

func (s *Service) refreshOutboxDepth(ctx context.Context) error {
	keys, err := s.outbox.PendingKeys(ctx)
	if err != nil {
		return err
	}
	s.metrics.SetOutboxDepth(len(keys))
	return nil
}

// SaveSession stores the session pointer.
func (s *Service) SaveSession(ctx context.Context, pointer SessionPointer) error {
	return s.sessions.SaveSession(ctx, pointer)
}

// ClearSession removes the session pointer.
func (s *Service) ClearSession(ctx context.Context) error {
	return s.sessions.ClearSession(ctx)
}

// ResolveSession returns the stored pointer only when it still references a
// live actor in the reconciled state.
func (s *Service) ResolveSession(ctx context.Context) (SessionPointer, bool, error) {
	pointer, ok, err := s.sessions.LoadSession(ctx)
	if err != nil || !ok {
		return SessionPointer{}, false, err
	}
	switch pointer.Role {
	case domain.RoleStudent:
		if _, ok := s.store.FindStudent(pointer.UserID); ok {
			return pointer, true, nil
		}
	case domain.RoleTeacher:
		if _, ok := s.store.FindTeacher(pointer.UserID); ok {
			return pointer, true, nil
		}
	}
	return SessionPointer{}, false, nil
}
