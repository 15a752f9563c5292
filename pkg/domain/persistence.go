package domain

import "context"

// Transaction exposes the domain mutations a persistence implementation must
// support within an atomic scope. Every mutation takes the acting user's id
// and appends exactly one audit entry in the same scope, so no observer can
// see the repository updated without the matching audit row or vice versa.
type Transaction interface {
	Snapshot() TransactionView

	AddStudent(student Student, actorID string) (Student, error)
	UpdateStudent(id string, mutator func(*Student) error, actorID string) (Student, error)
	DeleteStudent(id, actorID string) error
	SetStudentActive(id string, active bool, actorID string) (Student, error)

	AddTeacher(teacher Teacher, actorID string) (Teacher, error)
	UpdateTeacher(id string, mutator func(*Teacher) error, actorID string) (Teacher, error)
	DeleteTeacher(id, actorID string) error
	SetTeacherActive(id string, active bool, actorID string) (Teacher, error)

	SubmitApplication(applicant Student, actorID string) (Student, error)
	ApproveApplication(id, actorID string) (Student, error)
	RejectApplication(id, actorID string) error

	AddDepartment(name, actorID string) error
	RemoveDepartment(name, actorID string) error
	AddYear(name, actorID string) error
	RemoveYear(name, actorID string) error
	AddHour(label, actorID string) error
	RemoveHour(label, actorID string) error

	SetClassTimetable(department, year, day string, subjects []string, actorID string) error
	SetExamSchedule(department, year string, entries []ExamEntry, actorID string) error

	AddEvent(event CalendarEvent, actorID string) (CalendarEvent, error)
	DeleteEvent(id, actorID string) error

	SubmitLeaveRequest(request LeaveRequest, actorID string) (LeaveRequest, error)
	ApproveLeaveRequest(id, actorID string) (LeaveRequest, error)
	RejectLeaveRequest(id, reason, actorID string) (LeaveRequest, error)

	AddAnnouncement(announcement Announcement, actorID string) (Announcement, error)
	DeleteAnnouncement(id, actorID string) error

	OpenFeedbackSession(session FeedbackSession, actorID string) (FeedbackSession, error)
	CloseFeedbackSession(id, actorID string) (FeedbackSession, error)
	SubmitFeedback(entry FeedbackEntry, actorID string) error

	SetSemesterFee(studentID string, fee SemesterFee, actorID string) (SemesterFee, error)
	RecordFeePayment(studentID, semester string, amount float64, actorID string) (SemesterFee, error)
	SetSemesterResult(studentID string, result SemesterResult, actorID string) (SemesterResult, error)

	MarkAttendance(payload AttendancePayload) error
}

// TransactionView provides read-only access to snapshot data for rules and
// read paths. Audit entries come back newest-first.
type TransactionView interface {
	ListStudents() []Student
	FindStudent(id string) (Student, bool)
	ListPendingStudents() []Student
	FindPendingStudent(id string) (Student, bool)
	ListTeachers() []Teacher
	FindTeacher(id string) (Teacher, bool)
	Departments() []string
	Years() []string
	Hours() []string
	TimetableFor(department, year string) (Timetable, bool)
	ExamScheduleFor(department, year string) ([]ExamEntry, bool)
	ListEvents() []CalendarEvent
	ListLeaveRequests() []LeaveRequest
	FindLeaveRequest(id string) (LeaveRequest, bool)
	ListAnnouncements() []Announcement
	ListFeedbackSessions() []FeedbackSession
	FeedbackEntries(sessionID string) []FeedbackResponse
	FeesFor(studentID string) []SemesterFee
	ResultsFor(studentID string) []SemesterResult
	AuditLog() []AuditLogEntry
}

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	ExportState() Snapshot
	ImportState(Snapshot)
	FindStudent(id string) (Student, bool)
	FindTeacher(id string) (Teacher, bool)
	ListStudents() []Student
	ListTeachers() []Teacher
	AuditLog() []AuditLogEntry
}

// SessionStore persists the session pointer apart from the entity snapshot.
type SessionStore interface {
	SaveSession(ctx context.Context, pointer SessionPointer) error
	LoadSession(ctx context.Context) (SessionPointer, bool, error)
	ClearSession(ctx context.Context) error
}

// OutboxStore buffers attendance payloads written while connectivity is
// unavailable. Enqueue overwrites any existing entry for the same class key.
type OutboxStore interface {
	Enqueue(ctx context.Context, payload AttendancePayload) error
	PendingKeys(ctx context.Context) ([]string, error)
	Get(ctx context.Context, classKey string) (AttendancePayload, bool, error)
	Remove(ctx context.Context, classKey string) error
}
