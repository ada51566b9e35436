// Package report derives per-service-center KPIs from appointment history.
package report

import (
	"context"
	"math"
	"sort"
	"time"

	apptModel "autocare/models/appointment"
	"autocare/repositories"
	reportTypes "autocare/types/report"
)

const hoursPerDay = 24

// Service builds service center reports. Aggregation is read-only and never
// errors on an empty range: no appointments is a valid business state, so it
// degrades to zero-valued aggregates instead.
type Service struct {
	appts    repositories.AppointmentRepository
	centers  repositories.ServiceCenterRepository
	jobCards repositories.JobCardRepository
}

// NewService creates the reporting aggregator.
func NewService(appts repositories.AppointmentRepository, centers repositories.ServiceCenterRepository, jobCards repositories.JobCardRepository) *Service {
	return &Service{appts: appts, centers: centers, jobCards: jobCards}
}

// BuildServiceCenterReport aggregates the center's appointments whose
// requested date falls inside [from, to]. Breach counting uses the persisted
// SlaBreached flag, not the live predicate, for historical stability.
func (s *Service) BuildServiceCenterReport(ctx context.Context, serviceCenterID uint, from, to time.Time) (*reportTypes.ServiceCenterReport, error) {
	center, err := s.centers.FindByID(ctx, serviceCenterID)
	if err != nil {
		return nil, err
	}

	appts, err := s.appts.ListForServiceCenter(ctx, serviceCenterID, from, to)
	if err != nil {
		return nil, err
	}

	rep := &reportTypes.ServiceCenterReport{
		ServiceCenterID:   center.ID,
		ServiceCenterName: center.Name,
		ComplaintVolume:   []reportTypes.ComplaintVolumeEntry{},
		RecurringIssues:   []reportTypes.RecurringIssue{},
		Hotspot: reportTypes.Hotspot{
			City:              center.City,
			AppointmentVolume: len(appts),
			Latitude:          center.Latitude,
			Longitude:         center.Longitude,
		},
	}
	rep.AgentKPIs.TotalAppointments = len(appts)

	volumeIndex := make(map[string]int)
	var totalResolutionDays float64
	appointmentIDs := make([]uint, 0, len(appts))

	for i := range appts {
		appt := &appts[i]
		appointmentIDs = append(appointmentIDs, appt.ID)

		if idx, seen := volumeIndex[appt.ServiceType]; seen {
			rep.ComplaintVolume[idx].Count++
		} else {
			volumeIndex[appt.ServiceType] = len(rep.ComplaintVolume)
			rep.ComplaintVolume = append(rep.ComplaintVolume, reportTypes.ComplaintVolumeEntry{
				ServiceType: appt.ServiceType,
				Count:       1,
			})
		}

		if appt.SlaBreached {
			rep.SlaBreaches++
		}

		if appt.Status == apptModel.StatusCompleted && appt.ActualCompletionDate != nil {
			rep.AgentKPIs.CompletedCount++
			totalResolutionDays += appt.ActualCompletionDate.Sub(appt.RequestedDate).Hours() / hoursPerDay
		}
	}

	if rep.AgentKPIs.CompletedCount > 0 {
		rep.AvgResolutionTime = round2(totalResolutionDays / float64(rep.AgentKPIs.CompletedCount))
	}
	if rep.AgentKPIs.TotalAppointments > 0 {
		rep.AgentKPIs.CompletionRate = round2(float64(rep.AgentKPIs.CompletedCount) / float64(rep.AgentKPIs.TotalAppointments) * 100)
	}

	recurring, err := s.topRecurringIssues(ctx, appointmentIDs)
	if err != nil {
		return nil, err
	}
	rep.RecurringIssues = recurring

	return rep, nil
}

// topRecurringIssues ranks job names by frequency across the matched
// appointments' job cards: descending count, ties broken by first-seen order,
// top 3 kept.
func (s *Service) topRecurringIssues(ctx context.Context, appointmentIDs []uint) ([]reportTypes.RecurringIssue, error) {
	issues := []reportTypes.RecurringIssue{}
	if len(appointmentIDs) == 0 {
		return issues, nil
	}

	cards, err := s.jobCards.ListByAppointmentIDs(ctx, appointmentIDs)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	for _, card := range cards {
		if idx, seen := index[card.JobName]; seen {
			issues[idx].Count++
		} else {
			index[card.JobName] = len(issues)
			issues = append(issues, reportTypes.RecurringIssue{JobName: card.JobName, Count: 1})
		}
	}

	// Stable sort keeps the first-seen order among equal counts
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Count > issues[j].Count
	})
	if len(issues) > 3 {
		issues = issues[:3]
	}
	return issues, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
