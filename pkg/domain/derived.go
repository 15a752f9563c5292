package domain

import "time"

// DateLayout is the portable textual form for calendar dates across the
// persisted snapshot (due dates, leave ranges, exam dates).
const DateLayout = "2006-01-02"

// passMark is the minimum total (CIA + semester) for a subject pass.
const passMark = 40

// RecomputeFee derives balance and status from the stored total, paid amount,
// and due date. A cleared balance reads Paid even when the due date has passed.
func RecomputeFee(fee SemesterFee, now time.Time) SemesterFee {
	fee.Balance = fee.TotalFee - fee.Paid
	switch {
	case fee.Balance <= 0:
		fee.Status = FeePaid
	case feeOverdue(fee.DueDate, now):
		fee.Status = FeeOverdue
	default:
		fee.Status = FeePending
	}
	return fee
}

func feeOverdue(dueDate string, now time.Time) bool {
	due, err := time.Parse(DateLayout, dueDate)
	if err != nil {
		// Unparseable due dates never escalate to overdue.
		return false
	}
	return due.Before(now)
}

// FeeConsistent reports whether a fee record satisfies the derived-field
// invariant at the given instant.
func FeeConsistent(fee SemesterFee, now time.Time) bool {
	return fee == RecomputeFee(fee, now)
}

// RecomputeResult derives per-subject totals, grades, and pass flags plus the
// semester GPA and overall outcome.
func RecomputeResult(result SemesterResult) SemesterResult {
	subjects := make([]SubjectResult, len(result.Subjects))
	points := 0.0
	allPassed := len(result.Subjects) > 0
	for i, sub := range result.Subjects {
		sub.Total = sub.CIA + sub.Semester
		sub.Grade = gradeFor(sub.Total)
		sub.Passed = sub.Total >= passMark
		if !sub.Passed {
			allPassed = false
		}
		points += gradePoints(sub.Grade)
		subjects[i] = sub
	}
	result.Subjects = subjects
	if len(subjects) > 0 {
		result.GPA = points / float64(len(subjects))
	} else {
		result.GPA = 0
	}
	if allPassed {
		result.Overall = "Pass"
	} else {
		result.Overall = "Fail"
	}
	return result
}

func gradeFor(total int) string {
	switch {
	case total >= 90:
		return "O"
	case total >= 80:
		return "A+"
	case total >= 70:
		return "A"
	case total >= 60:
		return "B+"
	case total >= 50:
		return "B"
	case total >= passMark:
		return "C"
	default:
		return "U"
	}
}

func gradePoints(grade string) float64 {
	switch grade {
	case "O":
		return 10
	case "A+":
		return 9
	case "A":
		return 8
	case "B+":
		return 7
	case "B":
		return 6
	case "C":
		return 5
	default:
		return 0
	}
}
