// Package sla implements the SLA policy engine: pure, deterministic functions
// over appointment data. Nothing in this package performs I/O.
package sla

import (
	"strings"
	"time"

	apptModel "autocare/models/appointment"
	"autocare/models/escalation"
)

// ClassifyPriority derives a fallback priority from the free-text service type.
// It is only consulted when no operator-assigned priority exists and never
// overrides one.
func ClassifyPriority(serviceType string) apptModel.Priority {
	text := strings.ToLower(serviceType)
	if strings.Contains(text, "emergency") || strings.Contains(text, "breakdown") {
		return apptModel.PriorityHigh
	}
	if strings.Contains(text, "repair") || strings.Contains(text, "maintenance") {
		return apptModel.PriorityMedium
	}
	return apptModel.PriorityLow
}

// EffectivePriority returns the operator-assigned priority when present,
// falling back to keyword classification of the service type.
func EffectivePriority(appt *apptModel.Appointment) apptModel.Priority {
	if p, ok := appt.EffectivePriority(); ok {
		return p
	}
	return ClassifyPriority(appt.ServiceType)
}

// IsEscalated is the live, view-time escalation predicate. It is never
// persisted; the persisted SlaBreached flag is a separate, completion-time
// fact that feeds into it.
//
// An appointment is escalated when its effective priority is HIGH and its SLA
// deadline has passed, or when it already carries the persisted breach flag.
// Un-triaged appointments have no deadline and a false breach flag, so they
// can never be escalated.
func IsEscalated(appt *apptModel.Appointment, now time.Time) bool {
	if appt.SlaBreached {
		return true
	}
	if appt.SlaDeadline == nil {
		return false
	}
	return EffectivePriority(appt) == apptModel.PriorityHigh && appt.SlaDeadline.Before(now)
}

// ComputeBreach evaluates the SLA breach predicate.
// Completed appointment: breach when the actual completion is strictly after
// the deadline; completing exactly at the deadline is on time.
// Incomplete appointment with a deadline: a live breach when now is past it.
// A nil deadline never breaches.
func ComputeBreach(appt *apptModel.Appointment, now time.Time) bool {
	if appt.SlaDeadline == nil {
		return false
	}
	if appt.ActualCompletionDate != nil {
		return appt.ActualCompletionDate.After(*appt.SlaDeadline)
	}
	return now.After(*appt.SlaDeadline)
}

// EvaluateRules returns the enabled escalation rules matched by the
// appointment at the given instant. Rules are read-only configuration; the
// caller decides what to do with the AutoEscalate / NotifyAdmin flags.
//
// TIME_BASED rules match when the appointment has the rule's priority, a
// deadline, and now is at least ThresholdHours past that deadline.
// SEVERITY_BASED rules match any appointment whose effective priority equals
// the rule's priority.
func EvaluateRules(appt *apptModel.Appointment, rules []escalation.EscalationRule, now time.Time) []escalation.EscalationRule {
	var matched []escalation.EscalationRule
	priority := EffectivePriority(appt)

	for _, rule := range rules {
		if !rule.IsEnabled || rule.AppliesTo != priority {
			continue
		}
		switch rule.ConditionKind {
		case escalation.ConditionTimeBased:
			if appt.SlaDeadline == nil {
				continue
			}
			overdue := now.Sub(*appt.SlaDeadline)
			if overdue >= time.Duration(rule.ThresholdHours)*time.Hour {
				matched = append(matched, rule)
			}
		case escalation.ConditionSeverityBased:
			if priority == apptModel.PriorityHigh {
				matched = append(matched, rule)
			}
		}
	}
	return matched
}
