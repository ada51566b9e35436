package assignment

import (
	"context"
	"os"
	"testing"
	"time"

	"autocare/apperrors"
	apptModel "autocare/models/appointment"
	"autocare/models/escalation"
	"autocare/models/servicecenter"
	"autocare/models/user"
	"autocare/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func setup() (*testutil.FakeAppointmentRepo, *testutil.FakeServiceCenterRepo, *testutil.FakeRuleRepo, *testutil.RecordingNotifier, *Service) {
	appts := testutil.NewFakeAppointmentRepo()
	centers := testutil.NewFakeServiceCenterRepo()
	rules := &testutil.FakeRuleRepo{}
	notifier := &testutil.RecordingNotifier{}
	svc := NewService(appts, centers, rules, notifier)
	return appts, centers, rules, notifier, svc
}

func TestAssign(t *testing.T) {
	ctx := context.Background()
	appts, centers, _, notifier, svc := setup()

	centers.Centers[1] = &servicecenter.ServiceCenter{ID: 1, Name: "Downtown", Phone: "+8801800000001"}
	centers.Centers[2] = &servicecenter.ServiceCenter{ID: 2, Name: "Uptown", Phone: "+8801800000002"}
	centers.Mechanics[5] = &servicecenter.Mechanic{ID: 5, ServiceCenterID: 1}

	appt := appts.Seed(&apptModel.Appointment{
		TrackingCode: "TRK-A", Status: apptModel.StatusPending,
		Owner:         user.User{Phone: "+8801700000001"},
		ServiceType:   "Engine repair",
		RequestedDate: time.Now(),
	})

	t.Run("assigns center and mechanic", func(t *testing.T) {
		mechID := uint(5)
		updated, err := svc.Assign(ctx, appt.ID, 1, &mechID, "op")
		require.NoError(t, err)
		require.NotNil(t, updated.AssignedServiceCenterID)
		assert.Equal(t, uint(1), *updated.AssignedServiceCenterID)
		require.NotNil(t, updated.AssignedMechanicID)
		assert.Equal(t, uint(5), *updated.AssignedMechanicID)

		msgs := notifier.Messages()
		require.Len(t, msgs, 1)
		assert.Equal(t, "+8801800000001", msgs[0].Recipient)
	})

	t.Run("reassignment overwrites", func(t *testing.T) {
		updated, err := svc.Assign(ctx, appt.ID, 2, nil, "op")
		require.NoError(t, err)
		assert.Equal(t, uint(2), *updated.AssignedServiceCenterID)
	})

	t.Run("unknown center", func(t *testing.T) {
		_, err := svc.Assign(ctx, appt.ID, 99, nil, "op")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("mechanic from another center", func(t *testing.T) {
		mechID := uint(5)
		_, err := svc.Assign(ctx, appt.ID, 2, &mechID, "op")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("blocked once in service", func(t *testing.T) {
		appts.Appointments[appt.ID].Status = apptModel.StatusInService
		_, err := svc.Assign(ctx, appt.ID, 1, nil, "op")
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	})
}

func TestEscalate_PreconditionFailed(t *testing.T) {
	ctx := context.Background()
	appts, _, _, notifier, svc := setup()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	// Approved, high priority, deadline still in the future: not escalated
	high := apptModel.PriorityHigh
	appt := appts.Seed(&apptModel.Appointment{
		TrackingCode: "TRK-E", Status: apptModel.StatusApproved,
		ServiceType:   "Emergency towing",
		Priority:      &high,
		SlaDeadline:   timePtr(now.Add(time.Hour)),
		RequestedDate: now.Add(-time.Hour),
	})

	_, err := svc.Escalate(ctx, appt.ID, "op")
	assert.ErrorIs(t, err, apperrors.ErrPreconditionFailed)

	// Nothing mutated, nothing sent
	stored, _ := appts.FindByID(ctx, appt.ID)
	assert.False(t, stored.SlaBreached)
	assert.Empty(t, notifier.Messages())
}

func TestEscalate_PersistsBreachAndNotifies(t *testing.T) {
	ctx := context.Background()
	appts, _, rules, notifier, svc := setup()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	os.Setenv("ADMIN_ALERT_PHONE", "+8801900000000")
	defer os.Unsetenv("ADMIN_ALERT_PHONE")

	rules.Rules = []escalation.EscalationRule{{
		ID: 1, Name: "severity high",
		ConditionKind: escalation.ConditionSeverityBased,
		AppliesTo:     apptModel.PriorityHigh,
		NotifyAdmin:   true,
		IsEnabled:     true,
	}}

	center := &servicecenter.ServiceCenter{ID: 3, Name: "Downtown", Phone: "+8801800000003"}
	centerID := center.ID
	high := apptModel.PriorityHigh
	appt := appts.Seed(&apptModel.Appointment{
		TrackingCode: "TRK-B", Status: apptModel.StatusApproved,
		ServiceType:             "Emergency towing",
		Priority:                &high,
		SlaDeadline:             timePtr(now.Add(-2 * time.Hour)),
		AssignedServiceCenterID: &centerID,
		AssignedServiceCenter:   center,
		RequestedDate:           now.Add(-24 * time.Hour),
	})

	updated, err := svc.Escalate(ctx, appt.ID, "op")
	require.NoError(t, err)
	assert.True(t, updated.SlaBreached)

	msgs := notifier.Messages()
	require.Len(t, msgs, 2)
	for _, m := range msgs {
		assert.True(t, m.Urgent)
		assert.Contains(t, m.Message, "ESCALATION")
	}
	assert.Equal(t, center.Phone, msgs[0].Recipient)
	assert.Equal(t, "+8801900000000", msgs[1].Recipient)

	// Escalating again still succeeds: the flag is already set, predicate holds
	_, err = svc.Escalate(ctx, appt.ID, "op")
	require.NoError(t, err)
}
