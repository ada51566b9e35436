package lifecycle

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"autocare/apperrors"
	apptModel "autocare/models/appointment"
	"autocare/models/servicecenter"
	"autocare/models/user"
	"autocare/services/sla"
	"autocare/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(repo *testutil.FakeAppointmentRepo, notifier *testutil.RecordingNotifier, now time.Time) *Service {
	svc := NewService(repo, notifier)
	svc.now = func() time.Time { return now }
	return svc
}

func seedPending(repo *testutil.FakeAppointmentRepo, serviceType string) *apptModel.Appointment {
	return repo.Seed(&apptModel.Appointment{
		TrackingCode:  "TRK-0001",
		OwnerID:       1,
		Owner:         user.User{ID: 1, Phone: "+8801700000001", LegalName: "Test Customer"},
		VehicleID:     1,
		ServiceType:   serviceType,
		Status:        apptModel.StatusPending,
		RequestedDate: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		CreatedBy:     "customer",
	})
}

func TestDecide_ApproveClassifiesPriorityAndSetsDeadline(t *testing.T) {
	repo := testutil.NewFakeAppointmentRepo()
	notifier := &testutil.RecordingNotifier{}
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	svc := newTestService(repo, notifier, now)

	appt := seedPending(repo, "Emergency brake failure")
	deadline := now.Add(48 * time.Hour)

	updated, err := svc.Decide(context.Background(), appt.ID, apptModel.StatusApproved, nil, &deadline, "operator-1")
	require.NoError(t, err)

	assert.Equal(t, apptModel.StatusApproved, updated.Status)
	require.NotNil(t, updated.Priority)
	assert.Equal(t, apptModel.PriorityHigh, *updated.Priority)
	require.NotNil(t, updated.SlaDeadline)
	assert.True(t, updated.SlaDeadline.Equal(deadline))

	require.Len(t, repo.Events, 1)
	assert.Equal(t, apptModel.StatusPending, repo.Events[0].FromStatus)
	assert.Equal(t, apptModel.StatusApproved, repo.Events[0].ToStatus)

	msgs := notifier.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "+8801700000001", msgs[0].Recipient)
	assert.Contains(t, msgs[0].Message, "approved")
}

func TestDecide_OperatorPriorityOverridesClassification(t *testing.T) {
	repo := testutil.NewFakeAppointmentRepo()
	notifier := &testutil.RecordingNotifier{}
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	svc := newTestService(repo, notifier, now)

	appt := seedPending(repo, "Emergency brake failure")
	deadline := now.Add(24 * time.Hour)
	low := apptModel.PriorityLow

	updated, err := svc.Decide(context.Background(), appt.ID, apptModel.StatusApproved, &low, &deadline, "operator-1")
	require.NoError(t, err)
	require.NotNil(t, updated.Priority)
	assert.Equal(t, apptModel.PriorityLow, *updated.Priority)
}

func TestDecide_ApprovalValidation(t *testing.T) {
	repo := testutil.NewFakeAppointmentRepo()
	notifier := &testutil.RecordingNotifier{}
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	svc := newTestService(repo, notifier, now)

	appt := seedPending(repo, "Engine repair")

	t.Run("missing deadline", func(t *testing.T) {
		_, err := svc.Decide(context.Background(), appt.ID, apptModel.StatusApproved, nil, nil, "op")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("past deadline", func(t *testing.T) {
		past := now.Add(-time.Hour)
		_, err := svc.Decide(context.Background(), appt.ID, apptModel.StatusApproved, nil, &past, "op")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("deadline equal to now is rejected", func(t *testing.T) {
		at := now
		_, err := svc.Decide(context.Background(), appt.ID, apptModel.StatusApproved, nil, &at, "op")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	// Failed validations leave the record untouched
	stored, err := repo.FindByID(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, apptModel.StatusPending, stored.Status)
	assert.Nil(t, stored.SlaDeadline)
	assert.Empty(t, notifier.Messages())
}

func TestDecide_RejectIsTerminalAndNotifies(t *testing.T) {
	repo := testutil.NewFakeAppointmentRepo()
	notifier := &testutil.RecordingNotifier{}
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	svc := newTestService(repo, notifier, now)

	appt := seedPending(repo, "Car wash")

	updated, err := svc.Decide(context.Background(), appt.ID, apptModel.StatusRejected, nil, nil, "operator-1")
	require.NoError(t, err)
	assert.Equal(t, apptModel.StatusRejected, updated.Status)
	assert.Nil(t, updated.SlaDeadline)

	msgs := notifier.Messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Message, "rejected")

	// Terminal: any further decision fails
	deadline := now.Add(time.Hour)
	_, err = svc.Decide(context.Background(), appt.ID, apptModel.StatusApproved, nil, &deadline, "operator-2")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestDecide_ConcurrentRaceHasExactlyOneWinner(t *testing.T) {
	repo := testutil.NewFakeAppointmentRepo()
	notifier := &testutil.RecordingNotifier{}
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	svc := newTestService(repo, notifier, now)

	appt := seedPending(repo, "Engine repair")
	deadline := now.Add(24 * time.Hour)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	decisions := []apptModel.AppointmentStatus{apptModel.StatusApproved, apptModel.StatusRejected}

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if decisions[i] == apptModel.StatusApproved {
				_, errs[i] = svc.Decide(context.Background(), appt.ID, decisions[i], nil, &deadline, "racer")
			} else {
				_, errs[i] = svc.Decide(context.Background(), appt.ID, decisions[i], nil, nil, "racer")
			}
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
		}
	}
	assert.Equal(t, 1, winners)

	stored, err := repo.FindByID(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Contains(t, []apptModel.AppointmentStatus{apptModel.StatusApproved, apptModel.StatusRejected}, stored.Status)
	assert.Len(t, repo.Events, 1)
}

func TestUpdateStatus_IllegalTransitionsAreRejected(t *testing.T) {
	repo := testutil.NewFakeAppointmentRepo()
	notifier := &testutil.RecordingNotifier{}
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	svc := newTestService(repo, notifier, now)

	appt := seedPending(repo, "Engine repair")

	// PENDING -> InService skips the decision step
	_, err := svc.UpdateStatus(context.Background(), appt.ID, apptModel.StatusInService, "op")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	// PENDING -> COMPLETED skips everything
	_, err = svc.UpdateStatus(context.Background(), appt.ID, apptModel.StatusCompleted, "op")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	stored, err := repo.FindByID(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, apptModel.StatusPending, stored.Status)
	assert.Nil(t, stored.ActualCompletionDate)
}

func TestUpdateStatus_CompletionComputesBreach(t *testing.T) {
	ctx := context.Background()

	run := func(t *testing.T, completionOffset time.Duration) *apptModel.Appointment {
		repo := testutil.NewFakeAppointmentRepo()
		notifier := &testutil.RecordingNotifier{}
		now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
		svc := newTestService(repo, notifier, now)

		appt := seedPending(repo, "Engine repair")
		deadline := now.Add(48 * time.Hour)

		_, err := svc.Decide(ctx, appt.ID, apptModel.StatusApproved, nil, &deadline, "op")
		require.NoError(t, err)
		_, err = svc.UpdateStatus(ctx, appt.ID, apptModel.StatusInService, "center")
		require.NoError(t, err)

		svc.now = func() time.Time { return deadline.Add(completionOffset) }
		completed, err := svc.UpdateStatus(ctx, appt.ID, apptModel.StatusCompleted, "center")
		require.NoError(t, err)
		return completed
	}

	t.Run("on time", func(t *testing.T) {
		completed := run(t, -time.Hour)
		assert.False(t, completed.SlaBreached)
		require.NotNil(t, completed.ActualCompletionDate)
	})

	t.Run("exactly at deadline", func(t *testing.T) {
		completed := run(t, 0)
		assert.False(t, completed.SlaBreached)
	})

	t.Run("late", func(t *testing.T) {
		completed := run(t, time.Hour)
		assert.True(t, completed.SlaBreached)
	})
}

func TestUpdateStatus_BreachNotifiesAdmin(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewFakeAppointmentRepo()
	notifier := &testutil.RecordingNotifier{}
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	svc := newTestService(repo, notifier, now)

	os.Setenv("ADMIN_ALERT_PHONE", "+8801900000000")
	defer os.Unsetenv("ADMIN_ALERT_PHONE")

	center := &servicecenter.ServiceCenter{ID: 7, Name: "Downtown", Phone: "+8801800000007"}
	centerID := center.ID
	appt := repo.Seed(&apptModel.Appointment{
		TrackingCode:            "TRK-0002",
		OwnerID:                 1,
		Owner:                   user.User{ID: 1, Phone: "+8801700000001"},
		ServiceType:             "Emergency towing",
		Status:                  apptModel.StatusPending,
		RequestedDate:           now.Add(-time.Hour),
		AssignedServiceCenterID: &centerID,
		AssignedServiceCenter:   center,
		CreatedBy:               "customer",
	})

	deadline := now.Add(2 * time.Hour)
	_, err := svc.Decide(ctx, appt.ID, apptModel.StatusApproved, nil, &deadline, "op")
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, appt.ID, apptModel.StatusInService, "center")
	require.NoError(t, err)

	svc.now = func() time.Time { return deadline.Add(3 * time.Hour) }
	_, err = svc.UpdateStatus(ctx, appt.ID, apptModel.StatusCompleted, "center")
	require.NoError(t, err)

	var urgent []testutil.SentMessage
	for _, m := range notifier.Messages() {
		if m.Urgent {
			urgent = append(urgent, m)
		}
	}
	require.Len(t, urgent, 2)
	assert.Equal(t, center.Phone, urgent[0].Recipient)
	assert.Equal(t, "+8801900000000", urgent[1].Recipient)
	for _, m := range urgent {
		assert.Contains(t, m.Message, "SLA breached")
	}
}

// A breach on an appointment that was never assigned to a center must still
// reach the admin hotline.
func TestUpdateStatus_UnassignedBreachStillAlertsAdmin(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewFakeAppointmentRepo()
	notifier := &testutil.RecordingNotifier{}
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	svc := newTestService(repo, notifier, now)

	os.Setenv("ADMIN_ALERT_PHONE", "+8801900000000")
	defer os.Unsetenv("ADMIN_ALERT_PHONE")

	appt := seedPending(repo, "Emergency towing")

	deadline := now.Add(2 * time.Hour)
	_, err := svc.Decide(ctx, appt.ID, apptModel.StatusApproved, nil, &deadline, "op")
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, appt.ID, apptModel.StatusInService, "op")
	require.NoError(t, err)

	svc.now = func() time.Time { return deadline.Add(3 * time.Hour) }
	completed, err := svc.UpdateStatus(ctx, appt.ID, apptModel.StatusCompleted, "op")
	require.NoError(t, err)
	require.True(t, completed.SlaBreached)

	var urgent []testutil.SentMessage
	for _, m := range notifier.Messages() {
		if m.Urgent {
			urgent = append(urgent, m)
		}
	}
	require.Len(t, urgent, 1)
	assert.Equal(t, "+8801900000000", urgent[0].Recipient)
	assert.Contains(t, urgent[0].Message, "SLA breached")
}

// End-to-end scenario: emergency request approved with a 2-day SLA, completed
// a day late. The persisted breach makes the live escalation predicate true
// retroactively.
func TestLifecycle_EmergencyBreachScenario(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewFakeAppointmentRepo()
	notifier := &testutil.RecordingNotifier{}
	created := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestService(repo, notifier, created)

	appt := seedPending(repo, "Emergency brake failure")

	deadline := created.Add(2 * 24 * time.Hour)
	approved, err := svc.Decide(ctx, appt.ID, apptModel.StatusApproved, nil, &deadline, "op")
	require.NoError(t, err)
	assert.Equal(t, apptModel.PriorityHigh, *approved.Priority)

	_, err = svc.UpdateStatus(ctx, appt.ID, apptModel.StatusInService, "center")
	require.NoError(t, err)

	svc.now = func() time.Time { return created.Add(3 * 24 * time.Hour) }
	completed, err := svc.UpdateStatus(ctx, appt.ID, apptModel.StatusCompleted, "center")
	require.NoError(t, err)

	assert.True(t, completed.SlaBreached)
	assert.True(t, sla.IsEscalated(completed, created.Add(3*24*time.Hour)))

	// COMPLETED is terminal
	_, err = svc.UpdateStatus(ctx, appt.ID, apptModel.StatusInService, "center")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestRevisePriority_FrozenAfterInService(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewFakeAppointmentRepo()
	notifier := &testutil.RecordingNotifier{}
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	svc := newTestService(repo, notifier, now)

	appt := seedPending(repo, "Engine repair")

	require.NoError(t, svc.RevisePriority(ctx, appt.ID, apptModel.PriorityHigh, "op"))

	deadline := now.Add(24 * time.Hour)
	_, err := svc.Decide(ctx, appt.ID, apptModel.StatusApproved, nil, &deadline, "op")
	require.NoError(t, err)

	// Still allowed while APPROVED
	require.NoError(t, svc.RevisePriority(ctx, appt.ID, apptModel.PriorityMedium, "op"))

	_, err = svc.UpdateStatus(ctx, appt.ID, apptModel.StatusInService, "center")
	require.NoError(t, err)

	err = svc.RevisePriority(ctx, appt.ID, apptModel.PriorityLow, "op")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}
