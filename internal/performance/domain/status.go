package domain

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusNew        Status = "NEW"
	StatusInProgress Status = "IN_PROGRESS"
	StatusSubmitted  Status = "SUBMITTED"
	StatusApproved   Status = "APPROVED"
	StatusRework     Status = "REWORK"
	StatusCancelled  Status = "CANCELLED"

	// Values written by the original dashboard. They are still accepted
	// and scored the same as their workflow counterparts.
	StatusCompleted Status = "Completed"
	StatusInReview  Status = "In Review"
)

// Statuses lists every accepted status in workflow order.
var Statuses = []Status{
	StatusNew,
	StatusInProgress,
	StatusSubmitted,
	StatusApproved,
	StatusRework,
	StatusCancelled,
	StatusCompleted,
	StatusInReview,
}

// ParseStatus matches s against the known statuses, ignoring case and
// treating spaces, dashes and underscores alike.
func ParseStatus(s string) (Status, error) {
	key := normalizeStatus(s)
	for _, status := range Statuses {
		if normalizeStatus(string(status)) == key {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

func normalizeStatus(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

func (s Status) String() string { return string(s) }

// IsSuccess reports whether the task finished successfully.
func (s Status) IsSuccess() bool {
	return s == StatusCompleted || s == StatusApproved
}

// IsInReview reports whether the task is waiting for approval.
func (s Status) IsInReview() bool {
	return s == StatusInReview || s == StatusSubmitted
}

// IsPending reports whether the task still counts as open work.
func (s Status) IsPending() bool {
	return !s.IsSuccess() && s != StatusCancelled
}
