package core

import "campuscore/pkg/domain"

// DefaultSnapshot returns the compiled-in dataset the portal boots from when
// no persisted snapshot exists. Reconciliation overlays persisted records on
// top of it, so ids here are stable across releases.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Departments: []string{"CSE", "ECE", "MECH"},
		Years:       []string{"I", "II", "III"},
		Hours:       []string{"1", "2", "3", "4", "5", "6", "7"},
		Teachers: map[string]Teacher{
			"T001": {ID: "T001", Name: "S. Ramesh", Password: "ramesh@123", Active: true},
			"T002": {ID: "T002", Name: "K. Priya", Password: "priya@123", Active: true},
		},
		Students: map[string]Student{
			"URK23CS1001": {
				ID: "URK23CS1001", RollNo: "23CS001", Name: "Arun Kumar",
				DOB: "2005-04-12", Department: "CSE", Year: "II", Active: true,
			},
			"URK23CS1002": {
				ID: "URK23CS1002", RollNo: "23CS002", Name: "Divya Shree",
				DOB: "2005-08-30", Department: "CSE", Year: "II", Active: true,
			},
			"URK24EC2001": {
				ID: "URK24EC2001", RollNo: "24EC001", Name: "Mohammed Irfan",
				DOB: "2006-01-22", Department: "ECE", Year: "I", Active: true,
			},
		},
		PendingStudents: map[string]Student{},
		TimeTable: map[string]map[string]Timetable{
			"CSE": {
				"II": Timetable{
					"Monday":  {"Data Structures", "DBMS", "Maths III", "OS", "DBMS Lab", "DBMS Lab", "Library"},
					"Tuesday": {"OS", "Data Structures", "DBMS", "Maths III", "English", "Sports", "Seminar"},
				},
			},
		},
		ExamTimeTable: map[string]map[string][]ExamEntry{
			"CSE": {
				"II": {
					{Subject: "Data Structures", Date: "2026-11-12", Time: "09:30", Room: "A101"},
					{Subject: "DBMS", Date: "2026-11-14", Time: "09:30", Room: "A101"},
				},
			},
		},
		Events: []CalendarEvent{
			{ID: "evt-founders-day", Date: "2026-09-15", Title: "Founders Day", Category: domain.EventHoliday},
			{ID: "evt-model-exam", Date: "2026-10-20", Title: "Model Exams Begin", Category: domain.EventExam},
		},
		StudentFeeDetails: map[string][]SemesterFee{
			"URK23CS1001": {
				{Semester: "3", TotalFee: 45000, Paid: 45000, Balance: 0, Status: domain.FeePaid, DueDate: "2026-07-15"},
				{Semester: "4", TotalFee: 45000, Paid: 20000, Balance: 25000, Status: domain.FeePending, DueDate: "2026-12-15"},
			},
		},
	}
}
