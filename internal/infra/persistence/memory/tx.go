package memory

import (
	"fmt"

	"campuscore/pkg/domain"
)

// Compile-time assertion that the transaction covers the full gateway surface.
var _ domain.Transaction = (*transaction)(nil)

// AddStudent stores a new student record, active by default.
func (tx *transaction) AddStudent(st Student, actorID string) (Student, error) {
	if st.ID == "" {
		return Student{}, fmt.Errorf("student id required")
	}
	if _, exists := tx.state.students[st.ID]; exists {
		return Student{}, domain.ErrDuplicate{Entity: domain.EntityStudent, ID: st.ID}
	}
	st.Active = true
	tx.state.students[st.ID] = st
	tx.recordChange(Change{Entity: domain.EntityStudent, Action: domain.ActionCreate, After: st})
	tx.audit(actorID, domain.AuditStudent, "added student %s (%s)", st.Name, st.ID)
	return st, nil
}

// UpdateStudent mutates a student using the provided mutator.
func (tx *transaction) UpdateStudent(id string, mutator func(*Student) error, actorID string) (Student, error) {
	current, ok := tx.state.students[id]
	if !ok {
		return Student{}, domain.ErrNotFound{Entity: domain.EntityStudent, ID: id}
	}
	before := current
	if err := mutator(&current); err != nil {
		return Student{}, err
	}
	current.ID = id
	tx.state.students[id] = current
	tx.recordChange(Change{Entity: domain.EntityStudent, Action: domain.ActionUpdate, Before: before, After: current})
	tx.audit(actorID, domain.AuditStudent, "updated student %s (%s)", current.Name, id)
	return current, nil
}

// DeleteStudent removes a student record. Fees and results keyed by the id
// stay behind; reads simply stop resolving them.
func (tx *transaction) DeleteStudent(id, actorID string) error {
	current, ok := tx.state.students[id]
	if !ok {
		return domain.ErrNotFound{Entity: domain.EntityStudent, ID: id}
	}
	delete(tx.state.students, id)
	tx.recordChange(Change{Entity: domain.EntityStudent, Action: domain.ActionDelete, Before: current})
	tx.audit(actorID, domain.AuditStudent, "deleted student %s (%s)", current.Name, id)
	return nil
}

// SetStudentActive flips the soft-delete flag.
func (tx *transaction) SetStudentActive(id string, active bool, actorID string) (Student, error) {
	current, ok := tx.state.students[id]
	if !ok {
		return Student{}, domain.ErrNotFound{Entity: domain.EntityStudent, ID: id}
	}
	before := current
	current.Active = active
	tx.state.students[id] = current
	tx.recordChange(Change{Entity: domain.EntityStudent, Action: domain.ActionUpdate, Before: before, After: current})
	state := "deactivated"
	if active {
		state = "activated"
	}
	tx.audit(actorID, domain.AuditStudent, "%s student %s (%s)", state, current.Name, id)
	return current, nil
}

// AddTeacher stores a new staff record, active by default.
func (tx *transaction) AddTeacher(t Teacher, actorID string) (Teacher, error) {
	if t.ID == "" {
		return Teacher{}, fmt.Errorf("teacher id required")
	}
	if _, exists := tx.state.teachers[t.ID]; exists {
		return Teacher{}, domain.ErrDuplicate{Entity: domain.EntityTeacher, ID: t.ID}
	}
	t.Active = true
	tx.state.teachers[t.ID] = t
	tx.recordChange(Change{Entity: domain.EntityTeacher, Action: domain.ActionCreate, After: t})
	tx.audit(actorID, domain.AuditTeacher, "added teacher %s (%s)", t.Name, t.ID)
	return t, nil
}

// UpdateTeacher mutates a staff record using the provided mutator.
func (tx *transaction) UpdateTeacher(id string, mutator func(*Teacher) error, actorID string) (Teacher, error) {
	current, ok := tx.state.teachers[id]
	if !ok {
		return Teacher{}, domain.ErrNotFound{Entity: domain.EntityTeacher, ID: id}
	}
	before := current
	if err := mutator(&current); err != nil {
		return Teacher{}, err
	}
	current.ID = id
	tx.state.teachers[id] = current
	tx.recordChange(Change{Entity: domain.EntityTeacher, Action: domain.ActionUpdate, Before: before, After: current})
	tx.audit(actorID, domain.AuditTeacher, "updated teacher %s (%s)", current.Name, id)
	return current, nil
}

// DeleteTeacher removes a staff record.
func (tx *transaction) DeleteTeacher(id, actorID string) error {
	current, ok := tx.state.teachers[id]
	if !ok {
		return domain.ErrNotFound{Entity: domain.EntityTeacher, ID: id}
	}
	delete(tx.state.teachers, id)
	tx.recordChange(Change{Entity: domain.EntityTeacher, Action: domain.ActionDelete, Before: current})
	tx.audit(actorID, domain.AuditTeacher, "deleted teacher %s (%s)", current.Name, id)
	return nil
}

// SetTeacherActive flips the soft-delete flag on a staff record.
func (tx *transaction) SetTeacherActive(id string, active bool, actorID string) (Teacher, error) {
	current, ok := tx.state.teachers[id]
	if !ok {
		return Teacher{}, domain.ErrNotFound{Entity: domain.EntityTeacher, ID: id}
	}
	before := current
	current.Active = active
	tx.state.teachers[id] = current
	tx.recordChange(Change{Entity: domain.EntityTeacher, Action: domain.ActionUpdate, Before: before, After: current})
	state := "deactivated"
	if active {
		state = "activated"
	}
	tx.audit(actorID, domain.AuditTeacher, "%s teacher %s (%s)", state, current.Name, id)
	return current, nil
}

// SubmitApplication records a registration application in the pending
// collection. The id must be free in both pending and enrolled collections.
func (tx *transaction) SubmitApplication(applicant Student, actorID string) (Student, error) {
	if applicant.ID == "" {
		return Student{}, fmt.Errorf("application id required")
	}
	if _, exists := tx.state.pendingStudents[applicant.ID]; exists {
		return Student{}, domain.ErrDuplicate{Entity: domain.EntityPendingStudent, ID: applicant.ID}
	}
	if _, exists := tx.state.students[applicant.ID]; exists {
		return Student{}, domain.ErrDuplicate{Entity: domain.EntityStudent, ID: applicant.ID}
	}
	applicant.Active = false
	tx.state.pendingStudents[applicant.ID] = applicant
	tx.recordChange(Change{Entity: domain.EntityPendingStudent, Action: domain.ActionCreate, After: applicant})
	tx.audit(actorID, domain.AuditStudent, "received registration application from %s (%s)", applicant.Name, applicant.ID)
	return applicant, nil
}

// ApproveApplication moves an application into the student collection and
// removes it from pending in one transition.
func (tx *transaction) ApproveApplication(id, actorID string) (Student, error) {
	applicant, ok := tx.state.pendingStudents[id]
	if !ok {
		return Student{}, domain.ErrNotFound{Entity: domain.EntityPendingStudent, ID: id}
	}
	applicant.Active = true
	delete(tx.state.pendingStudents, id)
	tx.state.students[id] = applicant
	tx.recordChange(Change{Entity: domain.EntityStudent, Action: domain.ActionCreate, After: applicant})
	tx.audit(actorID, domain.AuditStudent, "approved registration of %s (%s)", applicant.Name, id)
	return applicant, nil
}

// RejectApplication drops an application without enrolling it.
func (tx *transaction) RejectApplication(id, actorID string) error {
	applicant, ok := tx.state.pendingStudents[id]
	if !ok {
		return domain.ErrNotFound{Entity: domain.EntityPendingStudent, ID: id}
	}
	delete(tx.state.pendingStudents, id)
	tx.recordChange(Change{Entity: domain.EntityPendingStudent, Action: domain.ActionDelete, Before: applicant})
	tx.audit(actorID, domain.AuditStudent, "rejected registration of %s (%s)", applicant.Name, id)
	return nil
}

func (tx *transaction) addLabel(labels *[]string, name string, entity domain.EntityType) error {
	for _, existing := range *labels {
		if existing == name {
			return domain.ErrDuplicate{Entity: entity, ID: name}
		}
	}
	*labels = append(*labels, name)
	return nil
}

func (tx *transaction) removeLabel(labels *[]string, name string, entity domain.EntityType) error {
	for i, existing := range *labels {
		if existing == name {
			*labels = append((*labels)[:i], (*labels)[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound{Entity: entity, ID: name}
}

// AddDepartment appends a department label.
func (tx *transaction) AddDepartment(name, actorID string) error {
	if err := tx.addLabel(&tx.state.departments, name, domain.EntityAcademicLabel); err != nil {
		return err
	}
	tx.recordChange(Change{Entity: domain.EntityAcademicLabel, Action: domain.ActionCreate, After: name})
	tx.audit(actorID, domain.AuditAcademic, "added department %s", name)
	return nil
}

// RemoveDepartment drops a department label. Timetables and exam schedules
// referencing it stay behind; they key by name and simply stop resolving.
func (tx *transaction) RemoveDepartment(name, actorID string) error {
	if err := tx.removeLabel(&tx.state.departments, name, domain.EntityAcademicLabel); err != nil {
		return err
	}
	tx.recordChange(Change{Entity: domain.EntityAcademicLabel, Action: domain.ActionDelete, Before: name})
	tx.audit(actorID, domain.AuditAcademic, "removed department %s", name)
	return nil
}

// AddYear appends a year label.
func (tx *transaction) AddYear(name, actorID string) error {
	if err := tx.addLabel(&tx.state.years, name, domain.EntityAcademicLabel); err != nil {
		return err
	}
	tx.recordChange(Change{Entity: domain.EntityAcademicLabel, Action: domain.ActionCreate, After: name})
	tx.audit(actorID, domain.AuditAcademic, "added year %s", name)
	return nil
}

// RemoveYear drops a year label.
func (tx *transaction) RemoveYear(name, actorID string) error {
	if err := tx.removeLabel(&tx.state.years, name, domain.EntityAcademicLabel); err != nil {
		return err
	}
	tx.recordChange(Change{Entity: domain.EntityAcademicLabel, Action: domain.ActionDelete, Before: name})
	tx.audit(actorID, domain.AuditAcademic, "removed year %s", name)
	return nil
}

// AddHour appends a class-hour label.
func (tx *transaction) AddHour(label, actorID string) error {
	if err := tx.addLabel(&tx.state.hours, label, domain.EntityAcademicLabel); err != nil {
		return err
	}
	tx.recordChange(Change{Entity: domain.EntityAcademicLabel, Action: domain.ActionCreate, After: label})
	tx.audit(actorID, domain.AuditAcademic, "added class hour %s", label)
	return nil
}

// RemoveHour drops a class-hour label.
func (tx *transaction) RemoveHour(label, actorID string) error {
	if err := tx.removeLabel(&tx.state.hours, label, domain.EntityAcademicLabel); err != nil {
		return err
	}
	tx.recordChange(Change{Entity: domain.EntityAcademicLabel, Action: domain.ActionDelete, Before: label})
	tx.audit(actorID, domain.AuditAcademic, "removed class hour %s", label)
	return nil
}

// SetClassTimetable replaces one day's subject sequence for a department/year.
func (tx *transaction) SetClassTimetable(department, year, day string, subjects []string, actorID string) error {
	if department == "" || year == "" || day == "" {
		return fmt.Errorf("timetable key incomplete")
	}
	if tx.state.timeTable[department] == nil {
		tx.state.timeTable[department] = make(map[string]Timetable)
	}
	if tx.state.timeTable[department][year] == nil {
		tx.state.timeTable[department][year] = make(Timetable)
	}
	before := append([]string(nil), tx.state.timeTable[department][year][day]...)
	tx.state.timeTable[department][year][day] = append([]string(nil), subjects...)
	tx.recordChange(Change{Entity: domain.EntityTimetable, Action: domain.ActionUpdate, Before: before, After: subjects})
	tx.audit(actorID, domain.AuditAcademic, "updated %s timetable for %s %s", day, department, year)
	return nil
}

// SetExamSchedule replaces the exam entry list for a department/year.
func (tx *transaction) SetExamSchedule(department, year string, entries []ExamEntry, actorID string) error {
	if department == "" || year == "" {
		return fmt.Errorf("exam schedule key incomplete")
	}
	if tx.state.examTimeTable[department] == nil {
		tx.state.examTimeTable[department] = make(map[string][]ExamEntry)
	}
	before := append([]ExamEntry(nil), tx.state.examTimeTable[department][year]...)
	tx.state.examTimeTable[department][year] = append([]ExamEntry(nil), entries...)
	tx.recordChange(Change{Entity: domain.EntityExamSchedule, Action: domain.ActionUpdate, Before: before, After: entries})
	tx.audit(actorID, domain.AuditAcademic, "updated exam schedule for %s %s", department, year)
	return nil
}

// AddEvent appends a calendar event, generating its identifier.
func (tx *transaction) AddEvent(event CalendarEvent, actorID string) (CalendarEvent, error) {
	if event.Title == "" {
		return CalendarEvent{}, fmt.Errorf("event title required")
	}
	event.ID = newID()
	tx.state.events = append(tx.state.events, event)
	tx.recordChange(Change{Entity: domain.EntityEvent, Action: domain.ActionCreate, After: event})
	tx.audit(actorID, domain.AuditAcademic, "added %s event %q on %s", event.Category, event.Title, event.Date)
	return event, nil
}

// DeleteEvent removes a calendar event by id.
func (tx *transaction) DeleteEvent(id, actorID string) error {
	for i, event := range tx.state.events {
		if event.ID == id {
			tx.state.events = append(tx.state.events[:i], tx.state.events[i+1:]...)
			tx.recordChange(Change{Entity: domain.EntityEvent, Action: domain.ActionDelete, Before: event})
			tx.audit(actorID, domain.AuditAcademic, "removed event %q", event.Title)
			return nil
		}
	}
	return domain.ErrNotFound{Entity: domain.EntityEvent, ID: id}
}

// SubmitLeaveRequest records a new pending leave request, denormalizing the
// student's name, department, and year at creation time.
func (tx *transaction) SubmitLeaveRequest(request LeaveRequest, actorID string) (LeaveRequest, error) {
	student, ok := tx.state.students[request.StudentID]
	if !ok {
		return LeaveRequest{}, domain.ErrNotFound{Entity: domain.EntityStudent, ID: request.StudentID}
	}
	request.ID = newID()
	request.StudentName = student.Name
	request.Department = student.Department
	request.Year = student.Year
	request.Status = domain.LeavePending
	request.RejectionReason = ""
	tx.state.leaveRequests = append(tx.state.leaveRequests, request)
	tx.recordChange(Change{Entity: domain.EntityLeaveRequest, Action: domain.ActionCreate, After: request})
	tx.audit(actorID, domain.AuditLeave, "leave requested by %s (%s) from %s to %s", student.Name, student.ID, request.FromDate, request.ToDate)
	return request, nil
}

func (tx *transaction) transitionLeave(id string, to domain.LeaveStatus, reason string) (LeaveRequest, error) {
	for i, request := range tx.state.leaveRequests {
		if request.ID != id {
			continue
		}
		if request.Status != domain.LeavePending {
			return LeaveRequest{}, domain.ErrInvalidTransition{
				Entity: domain.EntityLeaveRequest,
				ID:     id,
				From:   string(request.Status),
			}
		}
		before := request
		request.Status = to
		request.RejectionReason = reason
		tx.state.leaveRequests[i] = request
		tx.recordChange(Change{Entity: domain.EntityLeaveRequest, Action: domain.ActionUpdate, Before: before, After: request})
		return request, nil
	}
	return LeaveRequest{}, domain.ErrNotFound{Entity: domain.EntityLeaveRequest, ID: id}
}

// ApproveLeaveRequest transitions a pending request to approved. Requests in a
// terminal state are rejected without logging.
func (tx *transaction) ApproveLeaveRequest(id, actorID string) (LeaveRequest, error) {
	request, err := tx.transitionLeave(id, domain.LeaveApproved, "")
	if err != nil {
		return LeaveRequest{}, err
	}
	tx.audit(actorID, domain.AuditLeave, "approved leave for %s (%s)", request.StudentName, request.StudentID)
	return request, nil
}

// RejectLeaveRequest transitions a pending request to rejected with a reason.
func (tx *transaction) RejectLeaveRequest(id, reason, actorID string) (LeaveRequest, error) {
	request, err := tx.transitionLeave(id, domain.LeaveRejected, reason)
	if err != nil {
		return LeaveRequest{}, err
	}
	tx.audit(actorID, domain.AuditLeave, "rejected leave for %s (%s): %s", request.StudentName, request.StudentID, reason)
	return request, nil
}

// AddAnnouncement appends an announcement, stamping its creation time.
func (tx *transaction) AddAnnouncement(announcement Announcement, actorID string) (Announcement, error) {
	if announcement.Title == "" {
		return Announcement{}, fmt.Errorf("announcement title required")
	}
	announcement.ID = newID()
	announcement.CreatedAt = tx.now
	tx.state.announcements = append(tx.state.announcements, announcement)
	tx.recordChange(Change{Entity: domain.EntityAnnouncement, Action: domain.ActionCreate, After: announcement})
	tx.audit(actorID, domain.AuditAnnouncement, "published announcement %q", announcement.Title)
	return announcement, nil
}

// DeleteAnnouncement removes an announcement by id.
func (tx *transaction) DeleteAnnouncement(id, actorID string) error {
	for i, announcement := range tx.state.announcements {
		if announcement.ID == id {
			tx.state.announcements = append(tx.state.announcements[:i], tx.state.announcements[i+1:]...)
			tx.recordChange(Change{Entity: domain.EntityAnnouncement, Action: domain.ActionDelete, Before: announcement})
			tx.audit(actorID, domain.AuditAnnouncement, "removed announcement %q", announcement.Title)
			return nil
		}
	}
	return domain.ErrNotFound{Entity: domain.EntityAnnouncement, ID: id}
}

// OpenFeedbackSession creates a new open feedback window.
func (tx *transaction) OpenFeedbackSession(session FeedbackSession, actorID string) (FeedbackSession, error) {
	if session.Name == "" {
		return FeedbackSession{}, fmt.Errorf("feedback session name required")
	}
	session.ID = newID()
	session.Status = domain.FeedbackOpen
	tx.state.feedbackSessions = append(tx.state.feedbackSessions, session)
	tx.recordChange(Change{Entity: domain.EntityFeedbackSession, Action: domain.ActionCreate, After: session})
	tx.audit(actorID, domain.AuditAcademic, "opened feedback session %q", session.Name)
	return session, nil
}

// CloseFeedbackSession transitions an open session to closed.
func (tx *transaction) CloseFeedbackSession(id, actorID string) (FeedbackSession, error) {
	for i, session := range tx.state.feedbackSessions {
		if session.ID != id {
			continue
		}
		if session.Status != domain.FeedbackOpen {
			return FeedbackSession{}, domain.ErrInvalidTransition{
				Entity: domain.EntityFeedbackSession,
				ID:     id,
				From:   string(session.Status),
			}
		}
		before := session
		session.Status = domain.FeedbackClosed
		tx.state.feedbackSessions[i] = session
		tx.recordChange(Change{Entity: domain.EntityFeedbackSession, Action: domain.ActionUpdate, Before: before, After: session})
		tx.audit(actorID, domain.AuditAcademic, "closed feedback session %q", session.Name)
		return session, nil
	}
	return FeedbackSession{}, domain.ErrNotFound{Entity: domain.EntityFeedbackSession, ID: id}
}

// SubmitFeedback appends an immutable feedback entry. A student submits at
// most once per session and subject.
func (tx *transaction) SubmitFeedback(entry FeedbackEntry, actorID string) error {
	var session *FeedbackSession
	for i := range tx.state.feedbackSessions {
		if tx.state.feedbackSessions[i].ID == entry.SessionID {
			session = &tx.state.feedbackSessions[i]
			break
		}
	}
	if session == nil {
		return domain.ErrNotFound{Entity: domain.EntityFeedbackSession, ID: entry.SessionID}
	}
	if session.Status != domain.FeedbackOpen {
		return domain.ErrInvalidTransition{
			Entity: domain.EntityFeedbackSession,
			ID:     entry.SessionID,
			From:   string(session.Status),
		}
	}
	if entry.Rating < 1 || entry.Rating > 5 {
		return fmt.Errorf("feedback rating %d out of range 1-5", entry.Rating)
	}
	for _, existing := range tx.state.feedbackData {
		if existing.SessionID == entry.SessionID && existing.StudentID == entry.StudentID && existing.Subject == entry.Subject {
			return domain.ErrDuplicate{Entity: domain.EntityFeedbackEntry, ID: entry.StudentID}
		}
	}
	tx.state.feedbackData = append(tx.state.feedbackData, entry)
	tx.recordChange(Change{Entity: domain.EntityFeedbackEntry, Action: domain.ActionCreate, After: entry})
	tx.audit(actorID, domain.AuditAcademic, "feedback submitted for %s in session %q", entry.Subject, session.Name)
	return nil
}

// SetSemesterFee creates or replaces one semester's fee record for a student,
// recomputing balance and status before the write lands.
func (tx *transaction) SetSemesterFee(studentID string, fee SemesterFee, actorID string) (SemesterFee, error) {
	student, ok := tx.state.students[studentID]
	if !ok {
		return SemesterFee{}, domain.ErrNotFound{Entity: domain.EntityStudent, ID: studentID}
	}
	fee = domain.RecomputeFee(fee, tx.now)
	fees := tx.state.fees[studentID]
	replaced := false
	for i, existing := range fees {
		if existing.Semester == fee.Semester {
			tx.recordChange(Change{Entity: domain.EntityFee, Action: domain.ActionUpdate, Before: existing, After: fee})
			fees[i] = fee
			replaced = true
			break
		}
	}
	if !replaced {
		tx.recordChange(Change{Entity: domain.EntityFee, Action: domain.ActionCreate, After: fee})
		fees = append(fees, fee)
	}
	tx.state.fees[studentID] = fees
	tx.audit(actorID, domain.AuditStudent, "updated semester %s fees for %s (%s)", fee.Semester, student.Name, studentID)
	return fee, nil
}

// RecordFeePayment adds a payment to an existing semester fee record and
// recomputes the derived fields.
func (tx *transaction) RecordFeePayment(studentID, semester string, amount float64, actorID string) (SemesterFee, error) {
	student, ok := tx.state.students[studentID]
	if !ok {
		return SemesterFee{}, domain.ErrNotFound{Entity: domain.EntityStudent, ID: studentID}
	}
	fees := tx.state.fees[studentID]
	for i, fee := range fees {
		if fee.Semester != semester {
			continue
		}
		before := fee
		fee.Paid += amount
		fee = domain.RecomputeFee(fee, tx.now)
		fees[i] = fee
		tx.state.fees[studentID] = fees
		tx.recordChange(Change{Entity: domain.EntityFee, Action: domain.ActionUpdate, Before: before, After: fee})
		tx.audit(actorID, domain.AuditStudent, "recorded fee payment of %.2f for %s (%s) semester %s", amount, student.Name, studentID, semester)
		return fee, nil
	}
	return SemesterFee{}, domain.ErrNotFound{Entity: domain.EntityFee, ID: studentID + "/" + semester}
}

// SetSemesterResult creates or replaces one semester's results for a student,
// recomputing totals, grades, GPA, and the overall outcome.
func (tx *transaction) SetSemesterResult(studentID string, result SemesterResult, actorID string) (SemesterResult, error) {
	student, ok := tx.state.students[studentID]
	if !ok {
		return SemesterResult{}, domain.ErrNotFound{Entity: domain.EntityStudent, ID: studentID}
	}
	result = domain.RecomputeResult(result)
	results := tx.state.results[studentID]
	replaced := false
	for i, existing := range results {
		if existing.Semester == result.Semester {
			tx.recordChange(Change{Entity: domain.EntityResult, Action: domain.ActionUpdate, Before: existing, After: result})
			results[i] = result
			replaced = true
			break
		}
	}
	if !replaced {
		tx.recordChange(Change{Entity: domain.EntityResult, Action: domain.ActionCreate, After: result})
		results = append(results, result)
	}
	tx.state.results[studentID] = results
	tx.audit(actorID, domain.AuditStudent, "published semester %s results for %s (%s)", result.Semester, student.Name, studentID)
	return result, nil
}

// MarkAttendance records the attendance write in the audit trail. The marks
// themselves flow to the remote attendance backend outside this core; the
// trail is the portal's record that the class was marked.
func (tx *transaction) MarkAttendance(payload domain.AttendancePayload) error {
	if err := payload.ClassDetails.Validate(); err != nil {
		return err
	}
	c := payload.ClassDetails
	tx.recordChange(Change{Entity: domain.EntityAttendance, Action: domain.ActionCreate, After: payload})
	tx.audit(payload.ActorID, domain.AuditAttendance, "marked attendance for %s %s %s on %s (%d students)",
		c.Department, c.Year, c.Subject, c.Date, len(payload.Attendance))
	return nil
}
