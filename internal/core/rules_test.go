package core

import (
	"context"
	"testing"
	"time"

	"campuscore/internal/infra/persistence/memory"
	"campuscore/pkg/domain"
)

func TestFeeConsistencyRuleBlocksBadBalance(t *testing.T) {
	rule := NewFeeConsistencyRule()

	res, err := rule.Evaluate(context.Background(), nil, []domain.Change{{
		Entity: domain.EntityFee,
		Action: domain.ActionUpdate,
		After:  domain.SemesterFee{Semester: "4", TotalFee: 45000, Paid: 20000, Balance: 5000, Status: domain.FeePending},
	}})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !res.HasBlocking() {
		t.Fatalf("mismatched balance should block")
	}
}

func TestFeeConsistencyRuleBlocksClearedButUnpaid(t *testing.T) {
	rule := NewFeeConsistencyRule()

	res, err := rule.Evaluate(context.Background(), nil, []domain.Change{{
		Entity: domain.EntityFee,
		Action: domain.ActionUpdate,
		After:  domain.SemesterFee{Semester: "4", TotalFee: 45000, Paid: 45000, Balance: 0, Status: domain.FeePending},
	}})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !res.HasBlocking() {
		t.Fatalf("cleared balance with non-Paid status should block")
	}
}

func TestFeeConsistencyRuleIgnoresOtherEntities(t *testing.T) {
	rule := NewFeeConsistencyRule()

	res, err := rule.Evaluate(context.Background(), nil, []domain.Change{{
		Entity: domain.EntityStudent,
		Action: domain.ActionCreate,
		After:  domain.Student{ID: "URK23CS1001"},
	}})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(res.Violations) != 0 {
		t.Fatalf("non-fee changes should pass, got %v", res.Violations)
	}
}

func TestDanglingReferenceRuleWarnsWithoutBlocking(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(NewDefaultRulesEngine())
	store.SetNowFunc(func() time.Time { return serviceNow })

	if _, err := store.RunInTransaction(ctx, func(tx Transaction) error {
		_, err := tx.AddStudent(Student{ID: "URK23CS1001", Name: "Arun Kumar"}, "T001")
		return err
	}); err != nil {
		t.Fatalf("add student: %v", err)
	}
	if _, err := store.RunInTransaction(ctx, func(tx Transaction) error {
		_, err := tx.SubmitLeaveRequest(LeaveRequest{StudentID: "URK23CS1001", FromDate: "2026-09-10", ToDate: "2026-09-11"}, "URK23CS1001")
		return err
	}); err != nil {
		t.Fatalf("submit leave: %v", err)
	}

	// Deleting the student leaves the request dangling: the commit goes
	// through with a warning attached.
	res, err := store.RunInTransaction(ctx, func(tx Transaction) error {
		return tx.DeleteStudent("URK23CS1001", "T001")
	})
	if err != nil {
		t.Fatalf("delete should commit despite the warning, got %v", err)
	}
	if len(res.Violations) != 1 {
		t.Fatalf("expected one warning, got %v", res.Violations)
	}
	if v := res.Violations[0]; v.Rule != "dangling_reference" || v.Severity != domain.SeverityWarn {
		t.Fatalf("unexpected violation: %+v", v)
	}
	if _, ok := store.FindStudent("URK23CS1001"); ok {
		t.Fatalf("warning must not block the delete")
	}
}
