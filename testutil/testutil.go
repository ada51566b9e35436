// Package testutil provides in-memory fakes for the storage and notification
// collaborators so the core services can be tested without a database.
package testutil

import (
	"context"
	"sync"
	"time"

	"autocare/apperrors"
	apptModel "autocare/models/appointment"
	"autocare/models/escalation"
	"autocare/models/jobcard"
	"autocare/models/servicecenter"
	"autocare/services/notification"
)

// FakeAppointmentRepo is a mutex-guarded in-memory AppointmentRepository.
// TransitionStatus performs the same compare-and-set the GORM implementation
// does, so racing transitions behave as they would against the database.
type FakeAppointmentRepo struct {
	mu     sync.Mutex
	nextID uint

	Appointments map[uint]*apptModel.Appointment
	Events       []apptModel.AppointmentStatusEvent
}

// NewFakeAppointmentRepo creates an empty fake repository.
func NewFakeAppointmentRepo() *FakeAppointmentRepo {
	return &FakeAppointmentRepo{
		nextID:       1,
		Appointments: make(map[uint]*apptModel.Appointment),
	}
}

// Seed stores an appointment, assigning an id when missing, and returns it.
func (f *FakeAppointmentRepo) Seed(appt *apptModel.Appointment) *apptModel.Appointment {
	f.mu.Lock()
	defer f.mu.Unlock()
	if appt.ID == 0 {
		appt.ID = f.nextID
		f.nextID++
	} else if appt.ID >= f.nextID {
		f.nextID = appt.ID + 1
	}
	cp := *appt
	f.Appointments[appt.ID] = &cp
	return appt
}

func (f *FakeAppointmentRepo) Create(ctx context.Context, appt *apptModel.Appointment) error {
	f.Seed(appt)
	return nil
}

func (f *FakeAppointmentRepo) FindByID(ctx context.Context, id uint) (*apptModel.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	appt, ok := f.Appointments[id]
	if !ok {
		return nil, apperrors.NotFoundf("appointment %d", id)
	}
	cp := *appt
	return &cp, nil
}

func (f *FakeAppointmentRepo) ListByStatuses(ctx context.Context, statuses []apptModel.AppointmentStatus) ([]apptModel.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := make(map[apptModel.AppointmentStatus]bool, len(statuses))
	for _, s := range statuses {
		wanted[s] = true
	}
	var out []apptModel.Appointment
	for id := uint(1); id < f.nextID; id++ {
		if appt, ok := f.Appointments[id]; ok && wanted[appt.Status] {
			out = append(out, *appt)
		}
	}
	return out, nil
}

func (f *FakeAppointmentRepo) ListForServiceCenter(ctx context.Context, serviceCenterID uint, from, to time.Time) ([]apptModel.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []apptModel.Appointment
	for id := uint(1); id < f.nextID; id++ {
		appt, ok := f.Appointments[id]
		if !ok || appt.AssignedServiceCenterID == nil || *appt.AssignedServiceCenterID != serviceCenterID {
			continue
		}
		if appt.RequestedDate.Before(from) || appt.RequestedDate.After(to) {
			continue
		}
		out = append(out, *appt)
	}
	return out, nil
}

func (f *FakeAppointmentRepo) TransitionStatus(ctx context.Context, id uint, expectedStatus apptModel.AppointmentStatus, patch map[string]interface{}, event *apptModel.AppointmentStatusEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	appt, ok := f.Appointments[id]
	if !ok {
		return apperrors.NotFoundf("appointment %d", id)
	}
	if appt.Status != expectedStatus {
		return apperrors.InvalidTransitionf("appointment %d is no longer %s", id, expectedStatus)
	}
	applyPatch(appt, patch)
	if event != nil {
		f.Events = append(f.Events, *event)
	}
	return nil
}

func (f *FakeAppointmentRepo) UpdateIfStatusIn(ctx context.Context, id uint, allowedStatuses []apptModel.AppointmentStatus, patch map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	appt, ok := f.Appointments[id]
	if !ok {
		return apperrors.NotFoundf("appointment %d", id)
	}
	allowed := false
	for _, s := range allowedStatuses {
		if appt.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return apperrors.InvalidTransitionf("appointment %d is not in an editable status", id)
	}
	applyPatch(appt, patch)
	return nil
}

func applyPatch(appt *apptModel.Appointment, patch map[string]interface{}) {
	for column, value := range patch {
		switch column {
		case "status":
			appt.Status = value.(apptModel.AppointmentStatus)
		case "priority":
			p := value.(apptModel.Priority)
			appt.Priority = &p
		case "sla_deadline":
			d := value.(time.Time)
			appt.SlaDeadline = &d
		case "actual_completion_date":
			d := value.(time.Time)
			appt.ActualCompletionDate = &d
		case "sla_breached":
			appt.SlaBreached = value.(bool)
		case "assigned_service_center_id":
			c := value.(uint)
			appt.AssignedServiceCenterID = &c
		case "assigned_mechanic_id":
			m := value.(uint)
			appt.AssignedMechanicID = &m
		case "updated_by":
			appt.UpdatedBy = value.(string)
		}
	}
}

// FakeRuleRepo is an in-memory EscalationRuleRepository.
type FakeRuleRepo struct {
	Rules []escalation.EscalationRule
}

func (f *FakeRuleRepo) ListEnabled(ctx context.Context) ([]escalation.EscalationRule, error) {
	var out []escalation.EscalationRule
	for _, r := range f.Rules {
		if r.IsEnabled {
			out = append(out, r)
		}
	}
	return out, nil
}

// FakeServiceCenterRepo is an in-memory ServiceCenterRepository.
type FakeServiceCenterRepo struct {
	Centers   map[uint]*servicecenter.ServiceCenter
	Mechanics map[uint]*servicecenter.Mechanic
}

func NewFakeServiceCenterRepo() *FakeServiceCenterRepo {
	return &FakeServiceCenterRepo{
		Centers:   make(map[uint]*servicecenter.ServiceCenter),
		Mechanics: make(map[uint]*servicecenter.Mechanic),
	}
}

func (f *FakeServiceCenterRepo) FindByID(ctx context.Context, id uint) (*servicecenter.ServiceCenter, error) {
	center, ok := f.Centers[id]
	if !ok {
		return nil, apperrors.NotFoundf("service center %d", id)
	}
	cp := *center
	return &cp, nil
}

func (f *FakeServiceCenterRepo) FindMechanic(ctx context.Context, mechanicID uint) (*servicecenter.Mechanic, error) {
	mech, ok := f.Mechanics[mechanicID]
	if !ok {
		return nil, apperrors.NotFoundf("mechanic %d", mechanicID)
	}
	cp := *mech
	return &cp, nil
}

// FakeJobCardRepo is an in-memory JobCardRepository.
type FakeJobCardRepo struct {
	mu     sync.Mutex
	nextID uint
	Cards  []jobcard.JobCard
}

func NewFakeJobCardRepo() *FakeJobCardRepo {
	return &FakeJobCardRepo{nextID: 1}
}

func (f *FakeJobCardRepo) Create(ctx context.Context, card *jobcard.JobCard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	card.ID = f.nextID
	f.nextID++
	f.Cards = append(f.Cards, *card)
	return nil
}

func (f *FakeJobCardRepo) FindByID(ctx context.Context, id uint) (*jobcard.JobCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.Cards {
		if c.ID == id {
			cp := c
			return &cp, nil
		}
	}
	return nil, apperrors.NotFoundf("job card %d", id)
}

func (f *FakeJobCardRepo) ListByAppointment(ctx context.Context, appointmentID uint) ([]jobcard.JobCard, error) {
	return f.ListByAppointmentIDs(ctx, []uint{appointmentID})
}

func (f *FakeJobCardRepo) ListByAppointmentIDs(ctx context.Context, appointmentIDs []uint) ([]jobcard.JobCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := make(map[uint]bool, len(appointmentIDs))
	for _, id := range appointmentIDs {
		wanted[id] = true
	}
	var out []jobcard.JobCard
	for _, c := range f.Cards {
		if wanted[c.AppointmentID] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *FakeJobCardRepo) Delete(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.Cards {
		if c.ID == id {
			f.Cards = append(f.Cards[:i], f.Cards[i+1:]...)
			return nil
		}
	}
	return apperrors.NotFoundf("job card %d", id)
}

// SentMessage records one dispatched notification.
type SentMessage struct {
	Recipient string
	Channel   notification.Channel
	Message   string
	Urgent    bool
}

// RecordingNotifier captures notifications instead of sending them.
type RecordingNotifier struct {
	mu   sync.Mutex
	Sent []SentMessage
}

func (r *RecordingNotifier) Notify(recipient string, channel notification.Channel, message string) {
	r.record(recipient, channel, message, false)
}

func (r *RecordingNotifier) NotifyUrgent(recipient string, channel notification.Channel, message string) {
	r.record(recipient, channel, message, true)
}

func (r *RecordingNotifier) record(recipient string, channel notification.Channel, message string, urgent bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sent = append(r.Sent, SentMessage{Recipient: recipient, Channel: channel, Message: message, Urgent: urgent})
}

// Messages returns a copy of the captured notifications.
func (r *RecordingNotifier) Messages() []SentMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]SentMessage, len(r.Sent))
	copy(out, r.Sent)
	return out
}
