package core

import "campuscore/pkg/domain"

// Merge reconciles a persisted snapshot against the compiled-in defaults. It
// is a pure function: neither argument is mutated.
//
// Identifier-keyed arenas (students, teachers, pending applications) are
// overlaid record-by-record: a persisted record replaces the default with the
// same id wholesale, persisted-only records are added, and default-only
// records survive. Every other collection is taken wholesale from the
// persisted snapshot when present, falling back to the defaults otherwise.
// A nil persisted snapshot yields the defaults unchanged.
func Merge(defaults Snapshot, persisted *Snapshot) Snapshot {
	merged := cloneSnapshot(defaults)
	if persisted == nil {
		return merged
	}

	merged.Students = overlay(merged.Students, persisted.Students)
	merged.Teachers = overlay(merged.Teachers, persisted.Teachers)
	merged.PendingStudents = overlay(merged.PendingStudents, persisted.PendingStudents)

	if len(persisted.Events) > 0 {
		merged.Events = append([]CalendarEvent(nil), persisted.Events...)
	}
	if len(persisted.TimeTable) > 0 {
		merged.TimeTable = cloneTimeTable(persisted.TimeTable)
	}
	if len(persisted.ExamTimeTable) > 0 {
		merged.ExamTimeTable = cloneExamTimeTable(persisted.ExamTimeTable)
	}
	if len(persisted.Departments) > 0 {
		merged.Departments = append([]string(nil), persisted.Departments...)
	}
	if len(persisted.Years) > 0 {
		merged.Years = append([]string(nil), persisted.Years...)
	}
	if len(persisted.Hours) > 0 {
		merged.Hours = append([]string(nil), persisted.Hours...)
	}
	if len(persisted.LeaveRequests) > 0 {
		merged.LeaveRequests = append([]LeaveRequest(nil), persisted.LeaveRequests...)
	}
	if len(persisted.Announcements) > 0 {
		merged.Announcements = append([]Announcement(nil), persisted.Announcements...)
	}
	if len(persisted.AuditLogs) > 0 {
		merged.AuditLogs = append([]domain.AuditRecord(nil), persisted.AuditLogs...)
	}
	if len(persisted.FeedbackSessions) > 0 {
		merged.FeedbackSessions = append([]FeedbackSession(nil), persisted.FeedbackSessions...)
	}
	if len(persisted.FeedbackData) > 0 {
		merged.FeedbackData = append([]FeedbackEntry(nil), persisted.FeedbackData...)
	}
	if len(persisted.StudentFeeDetails) > 0 {
		merged.StudentFeeDetails = cloneFees(persisted.StudentFeeDetails)
	}
	if len(persisted.StudentResults) > 0 {
		merged.StudentResults = cloneResults(persisted.StudentResults)
	}
	return merged
}

// overlay replaces base records with persisted records id-by-id. Map keys are
// trusted as-is; stale-key normalization happens when the merged snapshot is
// imported into the store.
func overlay[T any](base, persisted map[string]T) map[string]T {
	if len(persisted) == 0 {
		return base
	}
	out := make(map[string]T, len(base)+len(persisted))
	for id, record := range base {
		out[id] = record
	}
	for id, record := range persisted {
		out[id] = record
	}
	return out
}

func cloneSnapshot(s Snapshot) Snapshot {
	out := s
	out.Events = append([]CalendarEvent(nil), s.Events...)
	out.TimeTable = cloneTimeTable(s.TimeTable)
	out.ExamTimeTable = cloneExamTimeTable(s.ExamTimeTable)
	out.Departments = append([]string(nil), s.Departments...)
	out.Years = append([]string(nil), s.Years...)
	out.Hours = append([]string(nil), s.Hours...)
	out.Teachers = cloneArena(s.Teachers)
	out.Students = cloneArena(s.Students)
	out.PendingStudents = cloneArena(s.PendingStudents)
	out.LeaveRequests = append([]LeaveRequest(nil), s.LeaveRequests...)
	out.Announcements = append([]Announcement(nil), s.Announcements...)
	out.AuditLogs = append([]domain.AuditRecord(nil), s.AuditLogs...)
	out.FeedbackSessions = append([]FeedbackSession(nil), s.FeedbackSessions...)
	out.FeedbackData = append([]FeedbackEntry(nil), s.FeedbackData...)
	out.StudentFeeDetails = cloneFees(s.StudentFeeDetails)
	out.StudentResults = cloneResults(s.StudentResults)
	return out
}

func cloneArena[T any](in map[string]T) map[string]T {
	if in == nil {
		return nil
	}
	out := make(map[string]T, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneTimeTable(in map[string]map[string]Timetable) map[string]map[string]Timetable {
	if in == nil {
		return nil
	}
	out := make(map[string]map[string]Timetable, len(in))
	for dept, years := range in {
		out[dept] = make(map[string]Timetable, len(years))
		for year, table := range years {
			cp := make(Timetable, len(table))
			for day, subjects := range table {
				cp[day] = append([]string(nil), subjects...)
			}
			out[dept][year] = cp
		}
	}
	return out
}

func cloneExamTimeTable(in map[string]map[string][]ExamEntry) map[string]map[string][]ExamEntry {
	if in == nil {
		return nil
	}
	out := make(map[string]map[string][]ExamEntry, len(in))
	for dept, years := range in {
		out[dept] = make(map[string][]ExamEntry, len(years))
		for year, entries := range years {
			out[dept][year] = append([]ExamEntry(nil), entries...)
		}
	}
	return out
}

func cloneFees(in map[string][]SemesterFee) map[string][]SemesterFee {
	if in == nil {
		return nil
	}
	out := make(map[string][]SemesterFee, len(in))
	for k, v := range in {
		out[k] = append([]SemesterFee(nil), v...)
	}
	return out
}

func cloneResults(in map[string][]SemesterResult) map[string][]SemesterResult {
	if in == nil {
		return nil
	}
	out := make(map[string][]SemesterResult, len(in))
	for k, v := range in {
		cp := make([]SemesterResult, len(v))
		for i, r := range v {
			r.Subjects = append([]domain.SubjectResult(nil), r.Subjects...)
			cp[i] = r
		}
		out[k] = cp
	}
	return out
}
