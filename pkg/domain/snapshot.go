package domain

// Snapshot captures the complete serialized domain state at one point in time.
// Field names match the persisted JSON object keyed by collection name. The
// session pointer is deliberately absent: it persists under separate keys.
//
// Students, teachers, and pending applications are arenas keyed by identifier;
// the remaining collections have no per-record identity in the persisted form
// and reconcile wholesale.
type Snapshot struct {
	Events            []CalendarEvent                   `json:"events"`
	TimeTable         map[string]map[string]Timetable   `json:"timeTable"`
	ExamTimeTable     map[string]map[string][]ExamEntry `json:"examTimeTable"`
	Departments       []string                          `json:"departments"`
	Years             []string                          `json:"years"`
	Hours             []string                          `json:"hours"`
	Teachers          map[string]Teacher                `json:"teachers"`
	Students          map[string]Student                `json:"students"`
	PendingStudents   map[string]Student                `json:"pendingStudents"`
	LeaveRequests     []LeaveRequest                    `json:"leaveRequests"`
	Announcements     []Announcement                    `json:"announcements"`
	AuditLogs         []AuditRecord                     `json:"auditLogs"`
	FeedbackSessions  []FeedbackSession                 `json:"feedbackSessions"`
	FeedbackData      []FeedbackEntry                   `json:"feedbackData"`
	StudentFeeDetails map[string][]SemesterFee          `json:"studentFeeDetails"`
	StudentResults    map[string][]SemesterResult       `json:"studentResults"`
}
