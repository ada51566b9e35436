package escalation

import (
	apptModel "autocare/models/appointment"
	"time"
)

// ConditionKind distinguishes the two supported escalation rule conditions
type ConditionKind string

const (
	ConditionTimeBased     ConditionKind = "TIME_BASED"
	ConditionSeverityBased ConditionKind = "SEVERITY_BASED"
)

func (k ConditionKind) IsValid() bool {
	return k == ConditionTimeBased || k == ConditionSeverityBased
}

// EscalationRule is read-only configuration consumed by the SLA engine.
// Rules are seeded or edited through admin tooling, never mutated by the core.
type EscalationRule struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	Name          string             `gorm:"type:varchar(255);not null" json:"name"`
	ConditionKind ConditionKind      `gorm:"type:varchar(50);not null" json:"condition_kind"`
	AppliesTo     apptModel.Priority `gorm:"type:varchar(20);not null" json:"applies_to"`

	// ThresholdHours only applies to TIME_BASED rules
	ThresholdHours int  `gorm:"type:int;not null;default:0" json:"threshold_hours"`
	AutoEscalate   bool `gorm:"type:bool;default:false" json:"auto_escalate"`
	NotifyAdmin    bool `gorm:"type:bool;default:true" json:"notify_admin"`
	IsEnabled      bool `gorm:"type:bool;default:true;index" json:"is_enabled"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the EscalationRule model
func (EscalationRule) TableName() string {
	return "escalation_rules"
}
