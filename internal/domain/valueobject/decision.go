package valueobject

import (
	"fmt"
	"strings"
)

// Decision is an immutable value object representing the lending decision.
type Decision struct {
	value string
}

var (
	DecisionApprove = Decision{value: "APPROVE"}
	DecisionReview  = Decision{value: "REVIEW"}
	DecisionReject  = Decision{value: "REJECT"}
)

// Decisions lists every decision from most to least favourable.
func Decisions() []Decision {
	return []Decision{DecisionApprove, DecisionReview, DecisionReject}
}

// DecisionFromString reconstructs a decision, ignoring case.
func DecisionFromString(s string) (Decision, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "APPROVE":
		return DecisionApprove, nil
	case "REVIEW":
		return DecisionReview, nil
	case "REJECT":
		return DecisionReject, nil
	default:
		return Decision{}, fmt.Errorf("invalid decision: %q", s)
	}
}

// String returns the string representation.
func (d Decision) String() string {
	return d.value
}

// IsZero returns true if the decision has not been set.
func (d Decision) IsZero() bool {
	return d.value == ""
}

// Equal checks equality with another Decision.
func (d Decision) Equal(other Decision) bool {
	return d.value == other.value
}

// IsApproved returns true if the decision is APPROVE.
func (d Decision) IsApproved() bool {
	return d.value == "APPROVE"
}

// IsRejected returns true if the decision is REJECT.
func (d Decision) IsRejected() bool {
	return d.value == "REJECT"
}
