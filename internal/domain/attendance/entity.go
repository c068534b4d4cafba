package attendance

import (
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
)

type Status string

const (
	StatusPresent     Status = "present"
	StatusAbsent      Status = "absent"
	StatusLate        Status = "late"
	StatusHalfDay     Status = "half-day"
	StatusLeave       Status = "leave"
	StatusReCheckedIn Status = "re-checked-in"
)

// AssignableStatuses are the values an admin may set directly.
var AssignableStatuses = []Status{StatusPresent, StatusAbsent, StatusLate, StatusHalfDay, StatusLeave}

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusHalfDay, StatusLeave, StatusReCheckedIn:
		return true
	}
	return false
}

// CountsAsPresent reports whether the day is paid as a worked day.
func (s Status) CountsAsPresent() bool {
	return s == StatusPresent || s == StatusLate || s == StatusReCheckedIn
}

const DefaultLocation = "Office"

// SessionEvent is one timestamped check-in or check-out.
type SessionEvent struct {
	Time       time.Time
	Location   string
	IPAddress  *string
	DeviceInfo *string
}

// Record is the attendance of one user on one business day.
type Record struct {
	ID   string
	User user.Ref
	Date time.Time

	CheckIn    *SessionEvent
	CheckOut   *SessionEvent
	ReCheckIn  *SessionEvent
	ReCheckOut *SessionEvent

	FirstSessionHours  *float64
	SecondSessionHours *float64
	TotalHours         float64
	Status             Status
	CheckInCount       int
	IsLate             bool
	LateMinutes        int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Metadata is the caller-supplied context attached to a session event.
type Metadata struct {
	Location   string
	IPAddress  *string
	DeviceInfo *string
}

func (m Metadata) eventAt(t time.Time) *SessionEvent {
	location := m.Location
	if location == "" {
		location = DefaultLocation
	}
	return &SessionEvent{
		Time:       t,
		Location:   location,
		IPAddress:  m.IPAddress,
		DeviceInfo: m.DeviceInfo,
	}
}
