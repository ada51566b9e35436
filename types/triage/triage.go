package triage

import (
	"time"

	apptModel "autocare/models/appointment"
)

// TriageAppointment is the read-only projection served to operators.
// It is recomputed on every queue read and never persisted.
type TriageAppointment struct {
	AppointmentID uint                        `json:"appointment_id"`
	TrackingCode  string                      `json:"tracking_code"`
	Status        apptModel.AppointmentStatus `json:"status"`
	ServiceType   string                      `json:"service_type"`
	IsAccidental  bool                        `json:"is_accidental"`
	RequestedDate time.Time                   `json:"requested_date"`
	SlaDeadline   *time.Time                  `json:"sla_deadline,omitempty"`

	// Engine-computed fields
	Priority  apptModel.Priority `json:"priority"`
	Escalated bool               `json:"escalated"`

	// Display fields joined from owner / vehicle / assigned center
	OwnerName         string  `json:"owner_name"`
	OwnerPhone        string  `json:"owner_phone"`
	VehiclePlate      string  `json:"vehicle_plate"`
	VehicleModel      string  `json:"vehicle_model"`
	ServiceCenterName *string `json:"service_center_name,omitempty"`
}
