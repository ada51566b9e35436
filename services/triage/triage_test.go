package triage

import (
	"context"
	"testing"
	"time"

	apptModel "autocare/models/appointment"
	"autocare/models/user"
	"autocare/models/vehicle"
	"autocare/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestListQueue(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewFakeAppointmentRepo()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	owner := user.User{ID: 1, LegalName: "Test Customer", Phone: "+8801700000001"}
	veh := vehicle.Vehicle{ID: 1, Make: "Toyota", Model: "Corolla", PlateNumber: "DHA-1234"}

	// Pending emergency: no deadline yet, classified HIGH, never escalated
	pending := repo.Seed(&apptModel.Appointment{
		TrackingCode: "TRK-P", Owner: owner, Vehicle: veh,
		ServiceType:   "Emergency brake failure",
		Status:        apptModel.StatusPending,
		RequestedDate: now.Add(-2 * time.Hour),
	})

	// Approved high priority past its deadline: escalated
	high := apptModel.PriorityHigh
	overdue := repo.Seed(&apptModel.Appointment{
		TrackingCode: "TRK-O", Owner: owner, Vehicle: veh,
		ServiceType:   "Breakdown assistance",
		Status:        apptModel.StatusApproved,
		Priority:      &high,
		SlaDeadline:   timePtr(now.Add(-time.Hour)),
		RequestedDate: now.Add(-24 * time.Hour),
	})

	// Completed: not part of the triage queue
	repo.Seed(&apptModel.Appointment{
		TrackingCode: "TRK-C", Owner: owner, Vehicle: veh,
		ServiceType:   "Car wash",
		Status:        apptModel.StatusCompleted,
		RequestedDate: now.Add(-48 * time.Hour),
	})

	// Rejected: excluded as well
	repo.Seed(&apptModel.Appointment{
		TrackingCode: "TRK-R", Owner: owner, Vehicle: veh,
		ServiceType:   "Detailing",
		Status:        apptModel.StatusRejected,
		RequestedDate: now.Add(-48 * time.Hour),
	})

	svc := NewService(repo)
	svc.now = func() time.Time { return now }

	queue, err := svc.ListQueue(ctx)
	require.NoError(t, err)
	require.Len(t, queue, 2)

	byCode := make(map[string]int)
	for i, entry := range queue {
		byCode[entry.TrackingCode] = i
	}

	p := queue[byCode["TRK-P"]]
	assert.Equal(t, pending.ID, p.AppointmentID)
	assert.Equal(t, apptModel.PriorityHigh, p.Priority)
	assert.False(t, p.Escalated, "no deadline means no escalation")
	assert.Equal(t, "Test Customer", p.OwnerName)
	assert.Equal(t, "DHA-1234", p.VehiclePlate)
	assert.Equal(t, "Toyota Corolla", p.VehicleModel)

	o := queue[byCode["TRK-O"]]
	assert.Equal(t, overdue.ID, o.AppointmentID)
	assert.True(t, o.Escalated)
	require.NotNil(t, o.SlaDeadline)
}

func TestListQueue_RecomputedPerCall(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewFakeAppointmentRepo()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	high := apptModel.PriorityHigh
	repo.Seed(&apptModel.Appointment{
		TrackingCode:  "TRK-1",
		ServiceType:   "Emergency towing",
		Status:        apptModel.StatusApproved,
		Priority:      &high,
		SlaDeadline:   timePtr(now.Add(time.Hour)),
		RequestedDate: now.Add(-time.Hour),
	})

	svc := NewService(repo)

	svc.now = func() time.Time { return now }
	queue, err := svc.ListQueue(ctx)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.False(t, queue[0].Escalated)

	// Same data, later clock: the deadline has now passed
	svc.now = func() time.Time { return now.Add(2 * time.Hour) }
	queue, err = svc.ListQueue(ctx)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.True(t, queue[0].Escalated)
}

func TestListQueue_EmptyQueue(t *testing.T) {
	repo := testutil.NewFakeAppointmentRepo()
	svc := NewService(repo)

	queue, err := svc.ListQueue(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, queue)
	assert.Empty(t, queue)
}
