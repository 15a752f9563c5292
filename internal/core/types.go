// Package core wires the domain store together: the mutation gateway service,
// snapshot reconciliation, compiled-in defaults, storage driver selection,
// commit-time rules, and service metrics.
package core

import "campuscore/pkg/domain"

type (
	// Student aliases domain.Student for service-level operations.
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
	// AttendancePayload aliases domain.AttendancePayload.
	AttendancePayload = domain.AttendancePayload
	// SessionPointer aliases domain.SessionPointer.
	SessionPointer = domain.SessionPointer
	// Snapshot aliases domain.Snapshot, the whole-state persisted form.
	Snapshot = domain.Snapshot
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView.
	TransactionView = domain.TransactionView
	// PersistentStore aliases domain.PersistentStore.
	PersistentStore = domain.PersistentStore
	// SessionStore aliases domain.SessionStore.
	SessionStore = domain.SessionStore
	// OutboxStore aliases domain.OutboxStore.
	OutboxStore = domain.OutboxStore
)
