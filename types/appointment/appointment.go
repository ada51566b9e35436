package appointment

import (
	"fmt"
	"time"

	apptModel "autocare/models/appointment"
)

// AppointmentCreateRequest represents the request payload for filing a service request
type AppointmentCreateRequest struct {
	VehicleID    uint   `json:"vehicle_id" validate:"required,gt=0"`
	ServiceType  string `json:"service_type" validate:"required,min=1,max=255"`
	Description  string `json:"description" validate:"omitempty"`
	IsAccidental bool   `json:"is_accidental"`
	// Requested service date; defaults to now when omitted
	RequestedDate *time.Time `json:"requested_date,omitempty"`
}

func (r AppointmentCreateRequest) Validate() error {
	if r.VehicleID == 0 {
		return fmt.Errorf("vehicle_id is required")
	}
	if r.ServiceType == "" {
		return fmt.Errorf("service_type is required")
	}
	return nil
}

// DecideRequest represents the operator decision on a pending appointment
type DecideRequest struct {
	Decision    string     `json:"decision" validate:"required,oneof=APPROVED REJECTED"`
	Priority    *string    `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	SlaDeadline *time.Time `json:"sla_deadline,omitempty"`
}

func (r DecideRequest) Validate() error {
	decision := apptModel.AppointmentStatus(r.Decision)
	if decision != apptModel.StatusApproved && decision != apptModel.StatusRejected {
		return fmt.Errorf("decision must be APPROVED or REJECTED")
	}
	if r.Priority != nil && !apptModel.Priority(*r.Priority).IsValid() {
		return fmt.Errorf("priority must be LOW, MEDIUM or HIGH")
	}
	return nil
}

// UpdateStatusRequest moves an approved appointment through service and completion
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=InService COMPLETED"`
}

func (r UpdateStatusRequest) Validate() error {
	status := apptModel.AppointmentStatus(r.Status)
	if status != apptModel.StatusInService && status != apptModel.StatusCompleted {
		return fmt.Errorf("status must be InService or COMPLETED")
	}
	return nil
}

// AssignRequest binds an appointment to a service center, optionally a mechanic
type AssignRequest struct {
	ServiceCenterID uint  `json:"service_center_id" validate:"required,gt=0"`
	MechanicID      *uint `json:"mechanic_id,omitempty" validate:"omitempty,gt=0"`
}

func (r AssignRequest) Validate() error {
	if r.ServiceCenterID == 0 {
		return fmt.Errorf("service_center_id is required")
	}
	return nil
}
