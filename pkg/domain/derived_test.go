package domain

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func TestRecomputeFeeBalanceAndStatus(t *testing.T) {
	fee := RecomputeFee(SemesterFee{TotalFee: 45000, Paid: 20000, DueDate: "2026-12-15"}, testNow)
	if fee.Balance != 25000 {
		t.Fatalf("expected balance 25000, got %.2f", fee.Balance)
	}
	if fee.Status != FeePending {
		t.Fatalf("expected pending status, got %s", fee.Status)
	}

	fee = RecomputeFee(SemesterFee{TotalFee: 45000, Paid: 10000, DueDate: "2026-07-15"}, testNow)
	if fee.Status != FeeOverdue {
		t.Fatalf("expected overdue status, got %s", fee.Status)
	}
}

func TestRecomputeFeePaidBeatsOverdue(t *testing.T) {
	// Balance cleared after the due date passed: Paid must win.
	fee := RecomputeFee(SemesterFee{TotalFee: 45000, Paid: 45000, DueDate: "2026-07-15"}, testNow)
	if fee.Status != FeePaid {
		t.Fatalf("cleared balance past due date should read Paid, got %s", fee.Status)
	}
	if fee.Balance != 0 {
		t.Fatalf("expected zero balance, got %.2f", fee.Balance)
	}

	// Overpayment is still Paid.
	fee = RecomputeFee(SemesterFee{TotalFee: 45000, Paid: 50000, DueDate: "2026-07-15"}, testNow)
	if fee.Status != FeePaid {
		t.Fatalf("negative balance should read Paid, got %s", fee.Status)
	}
}

func TestRecomputeFeeUnparseableDueDate(t *testing.T) {
	fee := RecomputeFee(SemesterFee{TotalFee: 100, Paid: 10, DueDate: "not-a-date"}, testNow)
	if fee.Status != FeePending {
		t.Fatalf("unparseable due date should never go overdue, got %s", fee.Status)
	}
}

func TestFeeConsistent(t *testing.T) {
	fee := RecomputeFee(SemesterFee{Semester: "4", TotalFee: 45000, Paid: 20000, DueDate: "2026-12-15"}, testNow)
	if !FeeConsistent(fee, testNow) {
		t.Fatalf("recomputed fee should be consistent")
	}
	fee.Balance = 1
	if FeeConsistent(fee, testNow) {
		t.Fatalf("tampered balance should be inconsistent")
	}
}

func TestRecomputeResultGradesAndGPA(t *testing.T) {
	result := RecomputeResult(SemesterResult{
		Semester: "3",
		Subjects: []SubjectResult{
			{Subject: "Data Structures", CIA: 45, Semester: 47}, // 92 -> O
			{Subject: "DBMS", CIA: 40, Semester: 42},            // 82 -> A+
			{Subject: "Maths III", CIA: 20, Semester: 25},       // 45 -> C
		},
	})
	wantGrades := []string{"O", "A+", "C"}
	for i, sub := range result.Subjects {
		if sub.Grade != wantGrades[i] {
			t.Fatalf("subject %s: expected grade %s, got %s", sub.Subject, wantGrades[i], sub.Grade)
		}
		if !sub.Passed {
			t.Fatalf("subject %s should pass with total %d", sub.Subject, sub.Total)
		}
	}
	wantGPA := (10.0 + 9.0 + 5.0) / 3.0
	if result.GPA != wantGPA {
		t.Fatalf("expected GPA %.4f, got %.4f", wantGPA, result.GPA)
	}
	if result.Overall != "Pass" {
		t.Fatalf("expected overall Pass, got %s", result.Overall)
	}
}

func TestRecomputeResultFailure(t *testing.T) {
	result := RecomputeResult(SemesterResult{
		Semester: "3",
		Subjects: []SubjectResult{
			{Subject: "OS", CIA: 30, Semester: 35},  // 65 -> B+
			{Subject: "DBMS", CIA: 10, Semester: 5}, // 15 -> U
		},
	})
	if result.Subjects[1].Grade != "U" || result.Subjects[1].Passed {
		t.Fatalf("failing subject should grade U and not pass: %+v", result.Subjects[1])
	}
	if result.Overall != "Fail" {
		t.Fatalf("one failed subject should fail the semester, got %s", result.Overall)
	}
}

func TestRecomputeResultEmpty(t *testing.T) {
	result := RecomputeResult(SemesterResult{Semester: "1"})
	if result.GPA != 0 {
		t.Fatalf("empty result should have zero GPA, got %.2f", result.GPA)
	}
	if result.Overall != "Fail" {
		t.Fatalf("empty result should not read Pass, got %s", result.Overall)
	}
}
