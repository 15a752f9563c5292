package core

import (
	"context"
	"fmt"

	"campuscore/pkg/domain"
)

// NewDanglingReferenceRule returns the in-transaction rule that warns when a
// leave request references a student id no longer present in the arena.
// Dangling references are tolerated (deleting a student keeps history) but
// worth surfacing in logs.
func NewDanglingReferenceRule() domain.Rule {
	return danglingReferenceRule{}
}

type danglingReferenceRule struct{}

func (danglingReferenceRule) Name() string { return "dangling_reference" }

func (danglingReferenceRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, request := range view.ListLeaveRequests() {
		if _, ok := view.FindStudent(request.StudentID); ok {
			continue
		}
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "dangling_reference",
			Severity: domain.SeverityWarn,
			Message:  fmt.Sprintf("leave request %s references missing student %s", request.ID, request.StudentID),
			Entity:   domain.EntityLeaveRequest,
			EntityID: request.ID,
		})
	}
	return res, nil
}
