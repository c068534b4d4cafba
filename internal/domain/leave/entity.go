package leave

import "time"

type RequestStatus string

const (
	StatusWaitingApproval RequestStatus = "waiting_approval"
	StatusApproved        RequestStatus = "approved"
	StatusRejected        RequestStatus = "rejected"
	StatusCancelled       RequestStatus = "cancelled"
)

var Statuses = []RequestStatus{StatusWaitingApproval, StatusApproved, StatusRejected, StatusCancelled}

func (s RequestStatus) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Request is an employee's leave over whole business days. StartDate and
// EndDate are the UTC starts of the first and last day, both inclusive.
type Request struct {
	ID          string
	EmployeeID  string
	StartDate   time.Time
	EndDate     time.Time
	WorkingDays int
	Reason      string

	Status          RequestStatus
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string
	CancelledAt     *time.Time

	SubmittedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined fields
	EmployeeName *string
}

// ListQuery filters requests. Nil fields match everything.
type ListQuery struct {
	EmployeeID *string
	Status     *RequestStatus
	Offset     int
	Limit      int
}
