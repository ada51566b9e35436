package appointment

import (
	"time"
)

// AppointmentStatusEvent represents a status change event for an appointment
type AppointmentStatusEvent struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Foreign key for appointment relationship
	AppointmentID uint        `gorm:"not null;index" json:"appointment_id"`
	Appointment   Appointment `gorm:"foreignKey:AppointmentID" json:"appointment"`

	FromStatus AppointmentStatus `gorm:"type:varchar(50);not null" json:"from_status"`
	ToStatus   AppointmentStatus `gorm:"type:varchar(50);not null" json:"to_status"`

	// Snapshot of the SLA fields at transition time
	Priority    *Priority  `gorm:"type:varchar(20)" json:"priority,omitempty"`
	SlaDeadline *time.Time `json:"sla_deadline,omitempty"`
	SlaBreached bool       `gorm:"type:bool;default:false" json:"sla_breached"`

	CreatedBy string    `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the AppointmentStatusEvent model
func (AppointmentStatusEvent) TableName() string {
	return "appointment_status_events"
}
