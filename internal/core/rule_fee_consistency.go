package core

import (
	"context"
	"fmt"

	"campuscore/pkg/domain"
)

// NewFeeConsistencyRule returns the in-transaction rule that blocks commits
// containing a fee record whose derived balance or status disagrees with its
// total, payments, and due date.
func NewFeeConsistencyRule() domain.Rule {
	return feeConsistencyRule{}
}

type feeConsistencyRule struct{}

func (feeConsistencyRule) Name() string { return "fee_consistency" }

func (feeConsistencyRule) Evaluate(_ context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		if change.Entity != domain.EntityFee {
			continue
		}
		fee, ok := change.After.(domain.SemesterFee)
		if !ok {
			continue
		}
		if fee.Balance != fee.TotalFee-fee.Paid {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "fee_consistency",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("semester %s fee balance %.2f does not match total %.2f minus paid %.2f", fee.Semester, fee.Balance, fee.TotalFee, fee.Paid),
				Entity:   domain.EntityFee,
			})
			continue
		}
		if fee.Balance <= 0 && fee.Status != domain.FeePaid {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "fee_consistency",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("semester %s fee cleared but status is %s", fee.Semester, fee.Status),
				Entity:   domain.EntityFee,
			})
		}
	}
	return res, nil
}
