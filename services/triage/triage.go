// Package triage builds the operator-facing triage queue.
package triage

import (
	"context"
	"time"

	apptModel "autocare/models/appointment"
	"autocare/repositories"
	"autocare/services/sla"
	triageTypes "autocare/types/triage"
)

// Service derives the triage queue from current appointment data on every
// read. Nothing is cached between calls; escalation is a view-time judgment.
type Service struct {
	repo repositories.AppointmentRepository
	now  func() time.Time
}

// NewService creates the triage queue builder.
func NewService(repo repositories.AppointmentRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// ListQueue returns the pending and approved appointments annotated with
// their effective priority and live escalation flag. No ordering beyond the
// storage order is imposed; callers filter and sort client-side.
func (s *Service) ListQueue(ctx context.Context) ([]triageTypes.TriageAppointment, error) {
	appts, err := s.repo.ListByStatuses(ctx, []apptModel.AppointmentStatus{
		apptModel.StatusPending,
		apptModel.StatusApproved,
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	queue := make([]triageTypes.TriageAppointment, 0, len(appts))
	for i := range appts {
		queue = append(queue, project(&appts[i], now))
	}
	return queue, nil
}

func project(appt *apptModel.Appointment, now time.Time) triageTypes.TriageAppointment {
	entry := triageTypes.TriageAppointment{
		AppointmentID: appt.ID,
		TrackingCode:  appt.TrackingCode,
		Status:        appt.Status,
		ServiceType:   appt.ServiceType,
		IsAccidental:  appt.IsAccidental,
		RequestedDate: appt.RequestedDate,
		SlaDeadline:   appt.SlaDeadline,
		Priority:      sla.EffectivePriority(appt),
		Escalated:     sla.IsEscalated(appt, now),
		OwnerName:     appt.Owner.LegalName,
		OwnerPhone:    appt.Owner.Phone,
		VehiclePlate:  appt.Vehicle.PlateNumber,
		VehicleModel:  appt.Vehicle.Make + " " + appt.Vehicle.Model,
	}
	if appt.AssignedServiceCenter != nil {
		entry.ServiceCenterName = &appt.AssignedServiceCenter.Name
	}
	return entry
}
