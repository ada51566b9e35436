package appointment

import (
	"autocare/models/servicecenter"
	"autocare/models/user"
	"autocare/models/vehicle"
	"time"
)

// Appointment represents a service request with its SLA tracking fields
type Appointment struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Public tracking code handed to the customer at creation
	TrackingCode string `gorm:"type:varchar(64);not null;unique" json:"tracking_code"`

	// Foreign key for owner (customer) relationship
	OwnerID uint      `gorm:"not null;index" json:"owner_id"`
	Owner   user.User `gorm:"foreignKey:OwnerID" json:"owner"`

	// Foreign key for vehicle relationship
	VehicleID uint            `gorm:"not null;index" json:"vehicle_id"`
	Vehicle   vehicle.Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle"`

	ServiceType string  `gorm:"type:varchar(255);not null" json:"service_type"`
	Description *string `gorm:"type:text" json:"description,omitempty"`

	Status   AppointmentStatus `gorm:"type:varchar(50);not null;index" json:"status"`
	Priority *Priority         `gorm:"type:varchar(20);index" json:"priority,omitempty"`

	// RequestedDate is set at creation and never changes afterwards.
	RequestedDate        time.Time  `gorm:"not null;index" json:"requested_date"`
	SlaDeadline          *time.Time `gorm:"index" json:"sla_deadline,omitempty"`
	ActualCompletionDate *time.Time `json:"actual_completion_date,omitempty"`
	SlaBreached          bool       `gorm:"type:bool;default:false" json:"sla_breached"`
	IsAccidental         bool       `gorm:"type:bool;default:false" json:"is_accidental"`

	// At most one active assignment; nil until assigned
	AssignedServiceCenterID *uint                        `gorm:"index" json:"assigned_service_center_id,omitempty"`
	AssignedServiceCenter   *servicecenter.ServiceCenter `gorm:"foreignKey:AssignedServiceCenterID" json:"assigned_service_center,omitempty"`
	AssignedMechanicID      *uint                        `gorm:"index" json:"assigned_mechanic_id,omitempty"`

	Photos []AppointmentPhoto `gorm:"foreignKey:AppointmentID" json:"photos,omitempty"`

	CreatedBy string     `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedBy string     `gorm:"type:varchar(255)" json:"updated_by,omitempty"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName sets the table name for the Appointment model
func (Appointment) TableName() string {
	return "appointments"
}

// EffectivePriority returns the operator-assigned priority if present.
// Callers needing the keyword fallback go through the SLA engine instead.
func (a *Appointment) EffectivePriority() (Priority, bool) {
	if a.Priority == nil {
		return "", false
	}
	return *a.Priority, true
}
