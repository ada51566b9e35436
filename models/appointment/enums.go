package appointment

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDING"
	StatusApproved  AppointmentStatus = "APPROVED"
	StatusRejected  AppointmentStatus = "REJECTED"
	StatusInService AppointmentStatus = "InService"
	StatusCompleted AppointmentStatus = "COMPLETED"
)

// Helper methods for AppointmentStatus
func (s AppointmentStatus) String() string {
	return string(s)
}

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusInService, StatusCompleted:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if no further transitions are allowed from this status
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusCompleted
}

// HasDeadline returns true if an appointment in this status carries an SLA deadline
func (s AppointmentStatus) HasDeadline() bool {
	return s == StatusApproved || s == StatusInService || s == StatusCompleted
}

// AllowsTriage returns true while the priority may still be (re)assigned
func (s AppointmentStatus) AllowsTriage() bool {
	return s == StatusPending || s == StatusApproved
}

// CanTransitionTo reports whether moving to the given status is a legal transition
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusApproved || next == StatusRejected
	case StatusApproved:
		return next == StatusInService
	case StatusInService:
		return next == StatusCompleted
	default:
		return false
	}
}

// GetAllAppointmentStatuses returns all valid appointment statuses
func GetAllAppointmentStatuses() []AppointmentStatus {
	return []AppointmentStatus{
		StatusPending,
		StatusApproved,
		StatusRejected,
		StatusInService,
		StatusCompleted,
	}
}

// Priority represents the triage priority of an appointment
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

func (p Priority) String() string {
	return string(p)
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}
