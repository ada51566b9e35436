package sla

import (
	"testing"
	"time"

	apptModel "autocare/models/appointment"
	"autocare/models/escalation"

	"github.com/stretchr/testify/assert"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func priorityPtr(p apptModel.Priority) *apptModel.Priority {
	return &p
}

func TestClassifyPriority(t *testing.T) {
	tests := []struct {
		serviceType string
		want        apptModel.Priority
	}{
		{"Emergency brake failure", apptModel.PriorityHigh},
		{"EMERGENCY towing", apptModel.PriorityHigh},
		{"roadside breakdown", apptModel.PriorityHigh},
		{"Engine repair", apptModel.PriorityMedium},
		{"Scheduled maintenance", apptModel.PriorityMedium},
		{"Periodic MAINTENANCE check", apptModel.PriorityMedium},
		{"Car wash", apptModel.PriorityLow},
		{"", apptModel.PriorityLow},
		// "emergency" wins over "repair" because it is checked first
		{"emergency repair", apptModel.PriorityHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyPriority(tt.serviceType), "serviceType=%q", tt.serviceType)
	}
}

func TestEffectivePriority_OperatorPriorityWins(t *testing.T) {
	appt := &apptModel.Appointment{
		ServiceType: "Emergency brake failure",
		Priority:    priorityPtr(apptModel.PriorityLow),
	}
	assert.Equal(t, apptModel.PriorityLow, EffectivePriority(appt))

	appt.Priority = nil
	assert.Equal(t, apptModel.PriorityHigh, EffectivePriority(appt))
}

func TestIsEscalated(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	t.Run("no deadline and no breach flag is never escalated", func(t *testing.T) {
		appt := &apptModel.Appointment{
			ServiceType: "Emergency brake failure",
			Status:      apptModel.StatusPending,
		}
		assert.False(t, IsEscalated(appt, now))
	})

	t.Run("high priority past deadline", func(t *testing.T) {
		appt := &apptModel.Appointment{
			ServiceType: "Emergency brake failure",
			Status:      apptModel.StatusApproved,
			SlaDeadline: timePtr(now.Add(-time.Hour)),
		}
		assert.True(t, IsEscalated(appt, now))
	})

	t.Run("high priority before deadline", func(t *testing.T) {
		appt := &apptModel.Appointment{
			ServiceType: "Emergency brake failure",
			Status:      apptModel.StatusApproved,
			SlaDeadline: timePtr(now.Add(time.Hour)),
		}
		assert.False(t, IsEscalated(appt, now))
	})

	t.Run("medium priority past deadline is not escalated", func(t *testing.T) {
		appt := &apptModel.Appointment{
			ServiceType: "Engine repair",
			Status:      apptModel.StatusApproved,
			SlaDeadline: timePtr(now.Add(-time.Hour)),
		}
		assert.False(t, IsEscalated(appt, now))
	})

	t.Run("persisted breach flag escalates regardless of priority", func(t *testing.T) {
		appt := &apptModel.Appointment{
			ServiceType: "Car wash",
			Status:      apptModel.StatusCompleted,
			SlaBreached: true,
		}
		assert.True(t, IsEscalated(appt, now))
	})

	t.Run("operator-set low priority suppresses keyword escalation", func(t *testing.T) {
		appt := &apptModel.Appointment{
			ServiceType: "Emergency brake failure",
			Priority:    priorityPtr(apptModel.PriorityLow),
			SlaDeadline: timePtr(now.Add(-time.Hour)),
		}
		assert.False(t, IsEscalated(appt, now))
	})
}

func TestComputeBreach(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(-time.Hour)

	t.Run("nil deadline never breaches", func(t *testing.T) {
		appt := &apptModel.Appointment{ActualCompletionDate: timePtr(now)}
		assert.False(t, ComputeBreach(appt, now))
	})

	t.Run("completed after deadline breaches", func(t *testing.T) {
		appt := &apptModel.Appointment{
			SlaDeadline:          timePtr(deadline),
			ActualCompletionDate: timePtr(deadline.Add(time.Minute)),
		}
		assert.True(t, ComputeBreach(appt, now))
	})

	t.Run("completed exactly at deadline is on time", func(t *testing.T) {
		appt := &apptModel.Appointment{
			SlaDeadline:          timePtr(deadline),
			ActualCompletionDate: timePtr(deadline),
		}
		assert.False(t, ComputeBreach(appt, now))
	})

	t.Run("completed before deadline is on time", func(t *testing.T) {
		appt := &apptModel.Appointment{
			SlaDeadline:          timePtr(deadline),
			ActualCompletionDate: timePtr(deadline.Add(-time.Minute)),
		}
		assert.False(t, ComputeBreach(appt, now))
	})

	t.Run("incomplete past deadline is a live breach", func(t *testing.T) {
		appt := &apptModel.Appointment{SlaDeadline: timePtr(deadline)}
		assert.True(t, ComputeBreach(appt, now))
	})

	t.Run("incomplete before deadline is not breached", func(t *testing.T) {
		appt := &apptModel.Appointment{SlaDeadline: timePtr(now.Add(time.Hour))}
		assert.False(t, ComputeBreach(appt, now))
	})
}

func TestEvaluateRules(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	rules := []escalation.EscalationRule{
		{
			ID:             1,
			Name:           "high overdue 4h",
			ConditionKind:  escalation.ConditionTimeBased,
			AppliesTo:      apptModel.PriorityHigh,
			ThresholdHours: 4,
			AutoEscalate:   true,
			NotifyAdmin:    true,
			IsEnabled:      true,
		},
		{
			ID:            2,
			Name:          "severity high",
			ConditionKind: escalation.ConditionSeverityBased,
			AppliesTo:     apptModel.PriorityHigh,
			NotifyAdmin:   true,
			IsEnabled:     true,
		},
		{
			ID:             3,
			Name:           "disabled rule",
			ConditionKind:  escalation.ConditionTimeBased,
			AppliesTo:      apptModel.PriorityHigh,
			ThresholdHours: 1,
			IsEnabled:      false,
		},
	}

	t.Run("time rule matches only past its threshold", func(t *testing.T) {
		appt := &apptModel.Appointment{
			ServiceType: "Emergency brake failure",
			SlaDeadline: timePtr(now.Add(-5 * time.Hour)),
		}
		matched := EvaluateRules(appt, rules, now)
		ids := []uint{}
		for _, r := range matched {
			ids = append(ids, r.ID)
		}
		assert.Equal(t, []uint{1, 2}, ids)
	})

	t.Run("time rule does not match below threshold", func(t *testing.T) {
		appt := &apptModel.Appointment{
			ServiceType: "Emergency brake failure",
			SlaDeadline: timePtr(now.Add(-time.Hour)),
		}
		matched := EvaluateRules(appt, rules, now)
		assert.Len(t, matched, 1)
		assert.Equal(t, uint(2), matched[0].ID)
	})

	t.Run("no rules match a low priority appointment", func(t *testing.T) {
		appt := &apptModel.Appointment{
			ServiceType: "Car wash",
			SlaDeadline: timePtr(now.Add(-24 * time.Hour)),
		}
		assert.Empty(t, EvaluateRules(appt, rules, now))
	})
}
