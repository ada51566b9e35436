package report

import (
	"context"
	"testing"
	"time"

	"autocare/apperrors"
	apptModel "autocare/models/appointment"
	"autocare/models/jobcard"
	"autocare/models/servicecenter"
	"autocare/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func setup() (*testutil.FakeAppointmentRepo, *testutil.FakeServiceCenterRepo, *testutil.FakeJobCardRepo, *Service) {
	appts := testutil.NewFakeAppointmentRepo()
	centers := testutil.NewFakeServiceCenterRepo()
	cards := testutil.NewFakeJobCardRepo()
	svc := NewService(appts, centers, cards)
	return appts, centers, cards, svc
}

func seedCenter(centers *testutil.FakeServiceCenterRepo) *servicecenter.ServiceCenter {
	center := &servicecenter.ServiceCenter{
		ID: 1, Name: "Downtown", City: "Dhaka",
		Latitude: 23.8103, Longitude: 90.4125,
	}
	centers.Centers[1] = center
	return center
}

func TestBuildServiceCenterReport_UnknownCenter(t *testing.T) {
	_, _, _, svc := setup()
	_, err := svc.BuildServiceCenterReport(context.Background(), 42, time.Now().AddDate(0, -1, 0), time.Now())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBuildServiceCenterReport_EmptyRange(t *testing.T) {
	_, centers, _, svc := setup()
	center := seedCenter(centers)

	from := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 5, 31, 23, 59, 59, 0, time.UTC)

	rep, err := svc.BuildServiceCenterReport(context.Background(), center.ID, from, to)
	require.NoError(t, err)

	assert.Equal(t, 0.0, rep.AvgResolutionTime)
	assert.Equal(t, 0, rep.SlaBreaches)
	assert.Equal(t, 0.0, rep.AgentKPIs.CompletionRate)
	assert.Equal(t, 0, rep.AgentKPIs.TotalAppointments)
	assert.NotNil(t, rep.ComplaintVolume)
	assert.Empty(t, rep.ComplaintVolume)
	assert.NotNil(t, rep.RecurringIssues)
	assert.Empty(t, rep.RecurringIssues)

	// Hotspot is a passthrough of the center itself, defined even when empty
	assert.Equal(t, "Dhaka", rep.Hotspot.City)
	assert.Equal(t, 0, rep.Hotspot.AppointmentVolume)
	assert.Equal(t, 23.8103, rep.Hotspot.Latitude)
}

func TestBuildServiceCenterReport_Aggregates(t *testing.T) {
	appts, centers, cards, svc := setup()
	center := seedCenter(centers)
	centerID := center.ID

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)

	seed := func(serviceType string, requested time.Time, status apptModel.AppointmentStatus, completedAfterDays float64, breached bool) *apptModel.Appointment {
		appt := &apptModel.Appointment{
			ServiceType:             serviceType,
			Status:                  status,
			RequestedDate:           requested,
			AssignedServiceCenterID: &centerID,
			SlaBreached:             breached,
		}
		if status == apptModel.StatusCompleted {
			appt.ActualCompletionDate = timePtr(requested.Add(time.Duration(completedAfterDays * 24 * float64(time.Hour))))
		}
		return appts.Seed(appt)
	}

	day := func(d int) time.Time { return time.Date(2025, 6, d, 10, 0, 0, 0, time.UTC) }

	a1 := seed("Engine repair", day(2), apptModel.StatusCompleted, 2, false)
	a2 := seed("Engine repair", day(5), apptModel.StatusCompleted, 3, true)
	seed("Oil change", day(8), apptModel.StatusApproved, 0, false)
	a4 := seed("Brake service", day(12), apptModel.StatusCompleted, 1, false)
	// Outside the range: ignored entirely
	seed("Engine repair", time.Date(2025, 7, 2, 10, 0, 0, 0, time.UTC), apptModel.StatusCompleted, 9, true)
	// Other center: ignored
	appts.Seed(&apptModel.Appointment{ServiceType: "Engine repair", Status: apptModel.StatusCompleted, RequestedDate: day(3)})

	// Job cards: brake pads appears 3x, oil filter 2x, wiper 1x
	for _, c := range []jobcard.JobCard{
		{AppointmentID: a1.ID, JobName: "Brake pad replacement"},
		{AppointmentID: a1.ID, JobName: "Oil filter change"},
		{AppointmentID: a2.ID, JobName: "Brake pad replacement"},
		{AppointmentID: a2.ID, JobName: "Wiper replacement"},
		{AppointmentID: a4.ID, JobName: "Brake pad replacement"},
		{AppointmentID: a4.ID, JobName: "Oil filter change"},
	} {
		card := c
		require.NoError(t, cards.Create(context.Background(), &card))
	}

	rep, err := svc.BuildServiceCenterReport(context.Background(), center.ID, from, to)
	require.NoError(t, err)

	// Volume grouped by serviceType, insertion-ordered by first occurrence
	require.Len(t, rep.ComplaintVolume, 3)
	assert.Equal(t, "Engine repair", rep.ComplaintVolume[0].ServiceType)
	assert.Equal(t, 2, rep.ComplaintVolume[0].Count)
	assert.Equal(t, "Oil change", rep.ComplaintVolume[1].ServiceType)
	assert.Equal(t, "Brake service", rep.ComplaintVolume[2].ServiceType)

	// (2 + 3 + 1) / 3 completed
	assert.Equal(t, 2.0, rep.AvgResolutionTime)
	assert.Equal(t, 1, rep.SlaBreaches)

	assert.Equal(t, 4, rep.AgentKPIs.TotalAppointments)
	assert.Equal(t, 3, rep.AgentKPIs.CompletedCount)
	assert.Equal(t, 75.0, rep.AgentKPIs.CompletionRate)

	require.Len(t, rep.RecurringIssues, 3)
	assert.Equal(t, "Brake pad replacement", rep.RecurringIssues[0].JobName)
	assert.Equal(t, 3, rep.RecurringIssues[0].Count)
	assert.Equal(t, "Oil filter change", rep.RecurringIssues[1].JobName)
	assert.Equal(t, 2, rep.RecurringIssues[1].Count)
	assert.Equal(t, "Wiper replacement", rep.RecurringIssues[2].JobName)

	assert.Equal(t, 4, rep.Hotspot.AppointmentVolume)
	assert.Equal(t, "Dhaka", rep.Hotspot.City)
}

func TestBuildServiceCenterReport_Rounding(t *testing.T) {
	appts, centers, _, svc := setup()
	center := seedCenter(centers)
	centerID := center.ID

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)

	requested := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	appts.Seed(&apptModel.Appointment{
		ServiceType:             "Engine repair",
		Status:                  apptModel.StatusCompleted,
		RequestedDate:           requested,
		ActualCompletionDate:    timePtr(requested.Add(40 * time.Hour)), // 1.666... days
		AssignedServiceCenterID: &centerID,
	})
	appts.Seed(&apptModel.Appointment{
		ServiceType:             "Oil change",
		Status:                  apptModel.StatusApproved,
		RequestedDate:           requested,
		AssignedServiceCenterID: &centerID,
	})
	appts.Seed(&apptModel.Appointment{
		ServiceType:             "Detailing",
		Status:                  apptModel.StatusPending,
		RequestedDate:           requested,
		AssignedServiceCenterID: &centerID,
	})

	rep, err := svc.BuildServiceCenterReport(context.Background(), center.ID, from, to)
	require.NoError(t, err)

	assert.Equal(t, 1.67, rep.AvgResolutionTime)
	assert.Equal(t, 33.33, rep.AgentKPIs.CompletionRate)
}
