// Package memory provides the in-memory implementation of the core
// persistence store. It is the source of truth while the process is alive;
// durable backends wrap it and persist whole-state snapshots.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"campuscore/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// Student aliases domain.Student for in-memory persistence operations.
	Student = domain.Student
	// Teacher aliases domain.Teacher.
	Teacher = domain.Teacher
	// CalendarEvent aliases domain.CalendarEvent.
	CalendarEvent = domain.CalendarEvent
	// LeaveRequest aliases domain.LeaveRequest.
	LeaveRequest = domain.LeaveRequest
	// Announcement aliases domain.Announcement.
	Announcement = domain.Announcement
	// FeedbackSession aliases domain.FeedbackSession.
	FeedbackSession = domain.FeedbackSession
	// FeedbackEntry aliases domain.FeedbackEntry.
	FeedbackEntry = domain.FeedbackEntry
	// FeedbackResponse aliases domain.FeedbackResponse returned by aggregate reads.
	FeedbackResponse = domain.FeedbackResponse
	// SemesterFee aliases domain.SemesterFee.
	SemesterFee = domain.SemesterFee
	// SemesterResult aliases domain.SemesterResult.
	SemesterResult = domain.SemesterResult
	// ExamEntry aliases domain.ExamEntry.
	ExamEntry = domain.ExamEntry
	// Timetable aliases domain.Timetable.
	Timetable = domain.Timetable
	// AuditLogEntry aliases domain.AuditLogEntry.
	AuditLogEntry = domain.AuditLogEntry
	// Snapshot aliases domain.Snapshot, the whole-state persisted form.
	Snapshot = domain.Snapshot
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
)

type memoryState struct {
	events           []CalendarEvent
	timeTable        map[string]map[string]Timetable
	examTimeTable    map[string]map[string][]ExamEntry
	departments      []string
	years            []string
	hours            []string
	teachers         map[string]Teacher
	students         map[string]Student
	pendingStudents  map[string]Student
	leaveRequests    []LeaveRequest
	announcements    []Announcement
	auditLogs        []AuditLogEntry
	feedbackSessions []FeedbackSession
	feedbackData     []FeedbackEntry
	fees             map[string][]SemesterFee
	results          map[string][]SemesterResult
}

func newMemoryState() memoryState {
	return memoryState{
		timeTable:       make(map[string]map[string]Timetable),
		examTimeTable:   make(map[string]map[string][]ExamEntry),
		teachers:        make(map[string]Teacher),
		students:        make(map[string]Student),
		pendingStudents: make(map[string]Student),
		fees:            make(map[string][]SemesterFee),
		results:         make(map[string][]SemesterResult),
	}
}

func (s memoryState) clone() memoryState {
	cloned := newMemoryState()
	cloned.events = append([]CalendarEvent(nil), s.events...)
	for dept, years := range s.timeTable {
		cloned.timeTable[dept] = make(map[string]Timetable, len(years))
		for year, table := range years {
			cloned.timeTable[dept][year] = cloneTimetable(table)
		}
	}
	for dept, years := range s.examTimeTable {
		cloned.examTimeTable[dept] = make(map[string][]ExamEntry, len(years))
		for year, entries := range years {
			cloned.examTimeTable[dept][year] = append([]ExamEntry(nil), entries...)
		}
	}
	cloned.departments = append([]string(nil), s.departments...)
	cloned.years = append([]string(nil), s.years...)
	cloned.hours = append([]string(nil), s.hours...)
	for k, v := range s.teachers {
		cloned.teachers[k] = v
	}
	for k, v := range s.students {
		cloned.students[k] = v
	}
	for k, v := range s.pendingStudents {
		cloned.pendingStudents[k] = v
	}
	cloned.leaveRequests = append([]LeaveRequest(nil), s.leaveRequests...)
	cloned.announcements = append([]Announcement(nil), s.announcements...)
	cloned.auditLogs = append([]AuditLogEntry(nil), s.auditLogs...)
	cloned.feedbackSessions = append([]FeedbackSession(nil), s.feedbackSessions...)
	cloned.feedbackData = append([]FeedbackEntry(nil), s.feedbackData...)
	for k, v := range s.fees {
		cloned.fees[k] = append([]SemesterFee(nil), v...)
	}
	for k, v := range s.results {
		cloned.results[k] = cloneResults(v)
	}
	return cloned
}

func cloneTimetable(t Timetable) Timetable {
	cp := make(Timetable, len(t))
	for day, subjects := range t {
		cp[day] = append([]string(nil), subjects...)
	}
	return cp
}

func cloneResults(results []SemesterResult) []SemesterResult {
	out := make([]SemesterResult, len(results))
	for i, r := range results {
		cp := r
		cp.Subjects = append([]domain.SubjectResult(nil), r.Subjects...)
		out[i] = cp
	}
	return out
}

func snapshotFromMemoryState(state memoryState) Snapshot {
	cloned := state.clone()
	records := make([]domain.AuditRecord, len(cloned.auditLogs))
	for i, entry := range cloned.auditLogs {
		records[i] = entry.Record()
	}
	return Snapshot{
		Events:            cloned.events,
		TimeTable:         cloned.timeTable,
		ExamTimeTable:     cloned.examTimeTable,
		Departments:       cloned.departments,
		Years:             cloned.years,
		Hours:             cloned.hours,
		Teachers:          cloned.teachers,
		Students:          cloned.students,
		PendingStudents:   cloned.pendingStudents,
		LeaveRequests:     cloned.leaveRequests,
		Announcements:     cloned.announcements,
		AuditLogs:         records,
		FeedbackSessions:  cloned.feedbackSessions,
		FeedbackData:      cloned.feedbackData,
		StudentFeeDetails: cloned.fees,
		StudentResults:    cloned.results,
	}
}

func memoryStateFromSnapshot(snapshot Snapshot, now time.Time) memoryState {
	snapshot = migrateSnapshot(snapshot, now)
	state := newMemoryState()
	state.events = append(state.events, snapshot.Events...)
	for dept, years := range snapshot.TimeTable {
		state.timeTable[dept] = make(map[string]Timetable, len(years))
		for year, table := range years {
			state.timeTable[dept][year] = cloneTimetable(table)
		}
	}
	for dept, years := range snapshot.ExamTimeTable {
		state.examTimeTable[dept] = make(map[string][]ExamEntry, len(years))
		for year, entries := range years {
			state.examTimeTable[dept][year] = append([]ExamEntry(nil), entries...)
		}
	}
	state.departments = append(state.departments, snapshot.Departments...)
	state.years = append(state.years, snapshot.Years...)
	state.hours = append(state.hours, snapshot.Hours...)
	for k, v := range snapshot.Teachers {
		state.teachers[k] = v
	}
	for k, v := range snapshot.Students {
		state.students[k] = v
	}
	for k, v := range snapshot.PendingStudents {
		state.pendingStudents[k] = v
	}
	state.leaveRequests = append(state.leaveRequests, snapshot.LeaveRequests...)
	state.announcements = append(state.announcements, snapshot.Announcements...)
	for _, record := range snapshot.AuditLogs {
		state.auditLogs = append(state.auditLogs, record.Rehydrate())
	}
	state.feedbackSessions = append(state.feedbackSessions, snapshot.FeedbackSessions...)
	state.feedbackData = append(state.feedbackData, snapshot.FeedbackData...)
	for k, v := range snapshot.StudentFeeDetails {
		state.fees[k] = append([]SemesterFee(nil), v...)
	}
	for k, v := range snapshot.StudentResults {
		state.results[k] = cloneResults(v)
	}
	return state
}

// migrateSnapshot normalizes a snapshot loaded from durable storage: nil
// collections become empty ones, record ids win over stale map keys, and
// derived fee/result fields are recomputed so no inconsistent state survives
// a load.
func migrateSnapshot(snapshot Snapshot, now time.Time) Snapshot {
	if snapshot.Teachers == nil {
		snapshot.Teachers = map[string]Teacher{}
	}
	if snapshot.Students == nil {
		snapshot.Students = map[string]Student{}
	}
	if snapshot.PendingStudents == nil {
		snapshot.PendingStudents = map[string]Student{}
	}
	if snapshot.TimeTable == nil {
		snapshot.TimeTable = map[string]map[string]Timetable{}
	}
	if snapshot.ExamTimeTable == nil {
		snapshot.ExamTimeTable = map[string]map[string][]ExamEntry{}
	}
	if snapshot.StudentFeeDetails == nil {
		snapshot.StudentFeeDetails = map[string][]SemesterFee{}
	}
	if snapshot.StudentResults == nil {
		snapshot.StudentResults = map[string][]SemesterResult{}
	}

	for key, student := range snapshot.Students {
		if student.ID != "" && student.ID != key {
			delete(snapshot.Students, key)
			snapshot.Students[student.ID] = student
		}
	}
	for key, teacher := range snapshot.Teachers {
		if teacher.ID != "" && teacher.ID != key {
			delete(snapshot.Teachers, key)
			snapshot.Teachers[teacher.ID] = teacher
		}
	}

	for studentID, fees := range snapshot.StudentFeeDetails {
		for i, fee := range fees {
			fees[i] = domain.RecomputeFee(fee, now)
		}
		snapshot.StudentFeeDetails[studentID] = fees
	}
	for studentID, results := range snapshot.StudentResults {
		for i, result := range results {
			results[i] = domain.RecomputeResult(result)
		}
		snapshot.StudentResults[studentID] = results
	}

	for i, request := range snapshot.LeaveRequests {
		if request.Status == "" {
			request.Status = domain.LeavePending
			snapshot.LeaveRequests[i] = request
		}
	}
	return snapshot
}

// Store provides the in-memory transactional store for the core domain.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	engine *RulesEngine
	nowFn  func() time.Time
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		state:  newMemoryState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

func newID() string {
	return uuid.NewString()
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromMemoryState(s.state)
}

// ImportState replaces the store state with the provided snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = memoryStateFromSnapshot(snapshot, s.nowFn())
}

// RulesEngine exposes the configured engine for integration points.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// SetNowFunc overrides the time provider; tests use this to pin the clock.
func (s *Store) SetNowFunc(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now != nil {
		s.nowFn = now
	}
}

// NowFunc returns the time provider used by the in-memory store.
func (s *Store) NowFunc() func() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowFn
}

// RunInTransaction executes fn within a transactional copy of the store state.
// Commit replaces the live state in one assignment, so the repository update
// and its audit entries become visible together or not at all.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		view := newTransactionView(&tx.state)
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state.clone()
	view := newTransactionView(&snapshot)
	return fn(view)
}

// FindStudent retrieves a student by university number.
func (s *Store) FindStudent(id string) (Student, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	student, ok := s.state.students[id]
	return student, ok
}

// FindTeacher retrieves a teacher by id.
func (s *Store) FindTeacher(id string) (Teacher, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	teacher, ok := s.state.teachers[id]
	return teacher, ok
}

// ListStudents returns all students sorted by id.
func (s *Store) ListStudents() []Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedStudents(s.state.students)
}

// ListTeachers returns all teachers sorted by id.
func (s *Store) ListTeachers() []Teacher {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedTeachers(s.state.teachers)
}

// AuditLog returns the audit trail newest-first.
func (s *Store) AuditLog() []AuditLogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return reversedAudit(s.state.auditLogs)
}

func sortedStudents(students map[string]Student) []Student {
	out := make([]Student, 0, len(students))
	for _, st := range students {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedTeachers(teachers map[string]Teacher) []Teacher {
	out := make([]Teacher, 0, len(teachers))
	for _, t := range teachers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func reversedAudit(entries []AuditLogEntry) []AuditLogEntry {
	out := make([]AuditLogEntry, len(entries))
	for i, entry := range entries {
		out[len(entries)-1-i] = entry
	}
	return out
}

// transaction is a mutation set applied to a cloned store state.
type transaction struct {
	state   memoryState
	changes []Change
	now     time.Time
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// audit appends the single audit entry coupled to a mutation. It lives inside
// the transactional state, so the entry commits with the repository change.
func (tx *transaction) audit(actorID string, category domain.AuditCategory, format string, args ...any) {
	tx.state.auditLogs = append(tx.state.auditLogs, AuditLogEntry{
		ID:        newID(),
		Timestamp: tx.now,
		ActorID:   actorID,
		Action:    fmt.Sprintf(format, args...),
		Category:  category,
	})
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() TransactionView {
	return newTransactionView(&tx.state)
}
