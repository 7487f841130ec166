package entity

import (
	"strings"
	"time"
)

type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusAccepted ApplicationStatus = "accepted"
	StatusRejected ApplicationStatus = "rejected"
)

// ParseApplicationStatus accepts the status case-insensitively.
func ParseApplicationStatus(s string) (ApplicationStatus, bool) {
	switch st := ApplicationStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusAccepted, StatusRejected:
		return st, true
	default:
		return "", false
	}
}

// JobApplication links a student to a job.
type JobApplication struct {
	ID        string            `json:"_id"`
	JobID     string            `json:"job"`
	Applicant string            `json:"applicant"`
	Status    ApplicationStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}
