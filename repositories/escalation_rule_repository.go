package repositories

import (
	"context"

	"autocare/logger"
	"autocare/models/escalation"

	"gorm.io/gorm"
)

// EscalationRuleRepository reads the escalation rule configuration.
type EscalationRuleRepository interface {
	ListEnabled(ctx context.Context) ([]escalation.EscalationRule, error)
}

// GormEscalationRuleRepository implements EscalationRuleRepository on GORM.
type GormEscalationRuleRepository struct {
	db *gorm.DB
}

// NewEscalationRuleRepository creates a new GORM-backed rule repository.
func NewEscalationRuleRepository(db *gorm.DB) *GormEscalationRuleRepository {
	return &GormEscalationRuleRepository{db: db}
}

// ListEnabled returns all enabled escalation rules in id order.
func (r *GormEscalationRuleRepository) ListEnabled(ctx context.Context) ([]escalation.EscalationRule, error) {
	var rules []escalation.EscalationRule
	err := r.db.WithContext(ctx).
		Where("is_enabled = ?", true).
		Order("id ASC").
		Find(&rules).Error
	if err != nil {
		logger.Error("EscalationRuleRepository.ListEnabled: DB error", err)
		return nil, err
	}
	return rules, nil
}

var _ EscalationRuleRepository = (*GormEscalationRuleRepository)(nil)
