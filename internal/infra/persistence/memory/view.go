package memory

// transactionView provides read-only access over a memoryState. All slice and
// map results are defensive copies; callers never observe later mutations.
type transactionView struct {
	state *memoryState
}

func newTransactionView(state *memoryState) *transactionView {
	return &transactionView{state: state}
}

// ListStudents returns all students sorted by university number.
func (v *transactionView) ListStudents() []Student {
	return sortedStudents(v.state.students)
}

// FindStudent looks up a student by university number.
func (v *transactionView) FindStudent(id string) (Student, bool) {
	student, ok := v.state.students[id]
	return student, ok
}

// ListPendingStudents returns all registration applications sorted by id.
func (v *transactionView) ListPendingStudents() []Student {
	return sortedStudents(v.state.pendingStudents)
}

// FindPendingStudent looks up a registration application by id.
func (v *transactionView) FindPendingStudent(id string) (Student, bool) {
	applicant, ok := v.state.pendingStudents[id]
	return applicant, ok
}

// ListTeachers returns all staff records sorted by id.
func (v *transactionView) ListTeachers() []Teacher {
	return sortedTeachers(v.state.teachers)
}

// FindTeacher looks up a staff record by id.
func (v *transactionView) FindTeacher(id string) (Teacher, bool) {
	teacher, ok := v.state.teachers[id]
	return teacher, ok
}

// Departments returns the department labels in insertion order.
func (v *transactionView) Departments() []string {
	return append([]string(nil), v.state.departments...)
}

// Years returns the year labels in insertion order.
func (v *transactionView) Years() []string {
	return append([]string(nil), v.state.years...)
}

// Hours returns the class-hour labels in insertion order.
func (v *transactionView) Hours() []string {
	return append([]string(nil), v.state.hours...)
}

// TimetableFor returns the weekly timetable for a department/year.
func (v *transactionView) TimetableFor(department, year string) (Timetable, bool) {
	years, ok := v.state.timeTable[department]
	if !ok {
		return nil, false
	}
	table, ok := years[year]
	if !ok {
		return nil, false
	}
	return cloneTimetable(table), true
}

// ExamScheduleFor returns the exam entries for a department/year.
func (v *transactionView) ExamScheduleFor(department, year string) ([]ExamEntry, bool) {
	years, ok := v.state.examTimeTable[department]
	if !ok {
		return nil, false
	}
	entries, ok := years[year]
	if !ok {
		return nil, false
	}
	return append([]ExamEntry(nil), entries...), true
}

// ListEvents returns the calendar events in insertion order.
func (v *transactionView) ListEvents() []CalendarEvent {
	return append([]CalendarEvent(nil), v.state.events...)
}

// ListLeaveRequests returns the leave requests in submission order.
func (v *transactionView) ListLeaveRequests() []LeaveRequest {
	return append([]LeaveRequest(nil), v.state.leaveRequests...)
}

// FindLeaveRequest looks up a leave request by id.
func (v *transactionView) FindLeaveRequest(id string) (LeaveRequest, bool) {
	for _, request := range v.state.leaveRequests {
		if request.ID == id {
			return request, true
		}
	}
	return LeaveRequest{}, false
}

// ListAnnouncements returns the announcements in publication order.
func (v *transactionView) ListAnnouncements() []Announcement {
	return append([]Announcement(nil), v.state.announcements...)
}

// ListFeedbackSessions returns the feedback sessions in creation order.
func (v *transactionView) ListFeedbackSessions() []FeedbackSession {
	return append([]FeedbackSession(nil), v.state.feedbackSessions...)
}

// FeedbackEntries returns the responses submitted to one session. The
// submitting student is stripped; aggregate reads never see who answered.
func (v *transactionView) FeedbackEntries(sessionID string) []FeedbackResponse {
	var out []FeedbackResponse
	for _, entry := range v.state.feedbackData {
		if entry.SessionID == sessionID {
			out = append(out, entry.Response())
		}
	}
	return out
}

// FeesFor returns the semester fee records for one student.
func (v *transactionView) FeesFor(studentID string) []SemesterFee {
	return append([]SemesterFee(nil), v.state.fees[studentID]...)
}

// ResultsFor returns the semester result records for one student.
func (v *transactionView) ResultsFor(studentID string) []SemesterResult {
	return cloneResults(v.state.results[studentID])
}

// AuditLog returns the audit trail newest-first.
func (v *transactionView) AuditLog() []AuditLogEntry {
	return reversedAudit(v.state.auditLogs)
}
