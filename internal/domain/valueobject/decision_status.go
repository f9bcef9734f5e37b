package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// DecisionStatus – immutable value object
// ---------------------------------------------------------------------------

// DecisionStatus identifies where an eligibility evaluation ended up.
// RateCorrected is the only non-terminal status: it marks that the requested
// rate was raised to the slab floor before the affordability check ran.
type DecisionStatus struct {
	value string
}

const (
	statusScoreZeroReject        = "SCORE_ZERO_REJECT"
	statusScoreTooLowReject      = "SCORE_TOO_LOW_REJECT"
	statusRateCorrected          = "RATE_CORRECTED"
	statusEMIExceedsSalaryReject = "EMI_EXCEEDS_SALARY_REJECT"
	statusApproved               = "APPROVED"
)

var (
	DecisionScoreZeroReject        = DecisionStatus{value: statusScoreZeroReject}
	DecisionScoreTooLowReject      = DecisionStatus{value: statusScoreTooLowReject}
	DecisionRateCorrected          = DecisionStatus{value: statusRateCorrected}
	DecisionEMIExceedsSalaryReject = DecisionStatus{value: statusEMIExceedsSalaryReject}
	DecisionApproved               = DecisionStatus{value: statusApproved}
)

var validDecisionStatuses = map[string]DecisionStatus{
	statusScoreZeroReject:        DecisionScoreZeroReject,
	statusScoreTooLowReject:      DecisionScoreTooLowReject,
	statusRateCorrected:          DecisionRateCorrected,
	statusEMIExceedsSalaryReject: DecisionEMIExceedsSalaryReject,
	statusApproved:               DecisionApproved,
}

// NewDecisionStatus creates a DecisionStatus from a raw string.
func NewDecisionStatus(s string) (DecisionStatus, error) {
	v, ok := validDecisionStatuses[s]
	if !ok {
		return DecisionStatus{}, fmt.Errorf("invalid decision status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s DecisionStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s DecisionStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s DecisionStatus) Equal(other DecisionStatus) bool { return s.value == other.value }

// IsTerminal reports whether the status ends the evaluation.
func (s DecisionStatus) IsTerminal() bool { return s.value != statusRateCorrected }
