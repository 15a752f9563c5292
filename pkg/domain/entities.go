// Package domain defines the persistent entities, value types, derived-field
// computation, and rule evaluation primitives used by campuscore.
package domain

import (
	"fmt"
	"time"
)

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityStudent identifies an enrolled student record.
	EntityStudent EntityType = "student"
	// EntityTeacher identifies a teaching staff record.
	EntityTeacher EntityType = "teacher"
	// EntityPendingStudent identifies a registration application awaiting approval.
	EntityPendingStudent EntityType = "pending_student"
	// EntityEvent identifies a calendar event record.
	EntityEvent EntityType = "event"
	// EntityLeaveRequest identifies a leave request record.
	EntityLeaveRequest EntityType = "leave_request"
	// EntityAnnouncement identifies an announcement record.
	EntityAnnouncement EntityType = "announcement"
	// EntityFeedbackSession identifies a feedback collection window.
	EntityFeedbackSession EntityType = "feedback_session"
	// EntityFeedbackEntry identifies a submitted feedback entry.
	EntityFeedbackEntry EntityType = "feedback_entry"
	// EntityFee identifies a per-student semester fee record.
	EntityFee EntityType = "fee"
	// EntityResult identifies a per-student semester result record.
	EntityResult EntityType = "result"
	// EntityTimetable identifies a class timetable slice.
	EntityTimetable EntityType = "timetable"
	// EntityExamSchedule identifies an exam schedule slice.
	EntityExamSchedule EntityType = "exam_schedule"
	// EntityAcademicLabel identifies a department/year/hour label.
	EntityAcademicLabel EntityType = "academic_label"
	// EntityAttendance identifies an attendance marking payload.
	EntityAttendance EntityType = "attendance"
)

// Role identifies the kind of actor a session pointer refers to.
type Role string

// Session roles recognised by the session pointer.
const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Student is an enrolled student. ID is the university number: unique, stable,
// and the join key for fees, results, and attendance.
type Student struct {
	ID         string `json:"id"`
	RollNo     string `json:"rollNo"`
	Name       string `json:"name"`
	DOB        string `json:"dob"`
	Department string `json:"department"`
	Year       string `json:"year"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Guardian   string `json:"guardian,omitempty"`
	Address    string `json:"address,omitempty"`
	Active     bool   `json:"active"`
}

// Teacher is a staff record. The credential is plaintext: the portal's login is
// a string-equality check with no real authentication behind it.
type Teacher struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Active   bool   `json:"active"`
}

// ExamEntry is one row of an exam schedule for a department/year.
type ExamEntry struct {
	Subject string `json:"subject"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Room    string `json:"room"`
}

// Timetable maps day name to the ordered subject labels, one per hour slot.
type Timetable map[string][]string

// EventCategory classifies calendar events.
type EventCategory string

// Calendar event categories.
const (
	EventHoliday    EventCategory = "holiday"
	EventExam       EventCategory = "exam"
	EventAssignment EventCategory = "assignment"
	EventGeneral    EventCategory = "event"
)

// CalendarEvent is a dated entry on the academic calendar. The ID is generated
// at creation time.
type CalendarEvent struct {
	ID          string        `json:"id"`
	Date        string        `json:"date"`
	Title       string        `json:"title"`
	Category    EventCategory `json:"category"`
	Description string        `json:"description,omitempty"`
}

// LeaveStatus enumerates the one-directional leave request states.
type LeaveStatus string

// Leave request states. Transitions run pending -> approved|rejected only.
const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

// LeaveRequest references a student and denormalizes the student's name,
// department, and year at creation time.
type LeaveRequest struct {
	ID              string      `json:"id"`
	StudentID       string      `json:"studentId"`
	StudentName     string      `json:"studentName"`
	Department      string      `json:"department"`
	Year            string      `json:"year"`
	FromDate        string      `json:"fromDate"`
	ToDate          string      `json:"toDate"`
	Reason          string      `json:"reason"`
	Status          LeaveStatus `json:"status"`
	RejectionReason string      `json:"rejectionReason,omitempty"`
}

// Announcement is append/delete only; there is no edit operation.
type Announcement struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// FeedbackStatus enumerates feedback session states.
type FeedbackStatus string

// Feedback session states.
const (
	FeedbackOpen   FeedbackStatus = "open"
	FeedbackClosed FeedbackStatus = "closed"
)

// FeedbackSession is a named collection window for student feedback.
type FeedbackSession struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	FromDate string         `json:"fromDate"`
	ToDate   string         `json:"toDate"`
	Status   FeedbackStatus `json:"status"`
}

// FeedbackEntry is immutable once submitted. The student id exists only to
// prevent duplicate submission and is never surfaced in aggregate views.
type FeedbackEntry struct {
	SessionID string `json:"sessionId"`
	StudentID string `json:"studentId"`
	Subject   string `json:"subject"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
}

// FeedbackResponse is the aggregate-view form of a feedback entry with the
// submitting student omitted.
type FeedbackResponse struct {
	SessionID string `json:"sessionId"`
	Subject   string `json:"subject"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
}

// Response strips the submitting student for aggregate views.
func (e FeedbackEntry) Response() FeedbackResponse {
	return FeedbackResponse{SessionID: e.SessionID, Subject: e.Subject, Rating: e.Rating, Comment: e.Comment}
}

// FeeStatus enumerates derived fee states.
type FeeStatus string

// Derived fee states. Paid wins whenever the balance is cleared, regardless of
// the due date.
const (
	FeePaid    FeeStatus = "Paid"
	FeePending FeeStatus = "Pending"
	FeeOverdue FeeStatus = "Overdue"
)

// SemesterFee holds one student's fee position for a semester. Balance and
// Status are derived from TotalFee/Paid/DueDate and recomputed on every edit;
// they are never stored independently of that invariant.
type SemesterFee struct {
	Semester string    `json:"semester"`
	TotalFee float64   `json:"totalFee"`
	Paid     float64   `json:"paid"`
	Balance  float64   `json:"balance"`
	Status   FeeStatus `json:"status"`
	DueDate  string    `json:"dueDate"`
}

// SubjectResult is one subject row of a semester result. Total, Grade, and
// Passed are derived from the CIA and semester marks.
type SubjectResult struct {
	Subject  string `json:"subject"`
	CIA      int    `json:"cia"`
	Semester int    `json:"semester"`
	Total    int    `json:"total"`
	Grade    string `json:"grade"`
	Passed   bool   `json:"passed"`
}

// SemesterResult holds one student's ordered subject results for a semester
// plus the derived GPA and overall outcome.
type SemesterResult struct {
	Semester string          `json:"semester"`
	Subjects []SubjectResult `json:"subjects"`
	GPA      float64         `json:"gpa"`
	Overall  string          `json:"overall"`
}

// SessionPointer identifies the current actor by id and role. It persists
// apart from the entity snapshot so logging in and out never rewrites it.
type SessionPointer struct {
	UserID string `json:"currentUserId"`
	Role   Role   `json:"currentUserType"`
}

// AttendanceStatus enumerates per-student attendance marks.
type AttendanceStatus string

// Attendance marks recorded per student per class hour.
const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceExcused AttendanceStatus = "excused"
)

// AttendanceMark is one student's mark within an attendance payload.
type AttendanceMark struct {
	StudentID string           `json:"studentId"`
	Status    AttendanceStatus `json:"status"`
}

// ClassDetails identifies the class a batch of attendance marks belongs to.
type ClassDetails struct {
	Department string `json:"department"`
	Year       string `json:"year"`
	Subject    string `json:"subject"`
	Hour       string `json:"hour"`
	Date       string `json:"date"`
}

// Validate reports whether the class identification is complete enough to
// record attendance against. Both the online write path and the offline
// queue check it, so an unroutable payload never enters the outbox.
func (c ClassDetails) Validate() error {
	if c.Department == "" || c.Year == "" || c.Subject == "" || c.Date == "" {
		return fmt.Errorf("attendance class details incomplete")
	}
	return nil
}

// AttendancePayload is the unit written through the gateway when online, or
// buffered in the outbox when offline.
type AttendancePayload struct {
	ClassDetails ClassDetails     `json:"classDetails"`
	Attendance   []AttendanceMark `json:"attendance"`
	ActorID      string           `json:"actorId"`
}

// ClassKey derives the deterministic outbox key for a class/date so repeated
// offline saves for the same class overwrite one slot instead of accumulating.
func (c ClassDetails) ClassKey() string {
	return c.Department + "|" + c.Year + "|" + c.Subject + "|" + c.Date
}
