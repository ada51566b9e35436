package seeders

import (
	"log"

	apptModel "autocare/models/appointment"
	"autocare/models/escalation"

	"gorm.io/gorm"
)

func SeedEscalationRules(db *gorm.DB) {
	log.Printf("🔍 Checking escalation rules data integrity...")

	rules := []escalation.EscalationRule{
		{
			Name:          "High priority past deadline",
			ConditionKind: escalation.ConditionSeverityBased,
			AppliesTo:     apptModel.PriorityHigh,
			AutoEscalate:  true,
			NotifyAdmin:   true,
			IsEnabled:     true,
		},
		{
			Name:           "High priority 4h past deadline",
			ConditionKind:  escalation.ConditionTimeBased,
			AppliesTo:      apptModel.PriorityHigh,
			ThresholdHours: 4,
			AutoEscalate:   false,
			NotifyAdmin:    true,
			IsEnabled:      true,
		},
		{
			Name:           "Medium priority 24h past deadline",
			ConditionKind:  escalation.ConditionTimeBased,
			AppliesTo:      apptModel.PriorityMedium,
			ThresholdHours: 24,
			AutoEscalate:   false,
			NotifyAdmin:    true,
			IsEnabled:      true,
		},
	}

	var existingNames []string
	if err := db.Model(&escalation.EscalationRule{}).Pluck("name", &existingNames).Error; err != nil {
		log.Printf("❌ Failed to fetch existing escalation rule names: %v", err)
		return
	}

	existingNamesMap := make(map[string]bool)
	for _, name := range existingNames {
		existingNamesMap[name] = true
	}

	var missingRules []escalation.EscalationRule
	for _, rule := range rules {
		if !existingNamesMap[rule.Name] {
			missingRules = append(missingRules, rule)
		}
	}

	if len(missingRules) == 0 {
		log.Printf("✅ All escalation rules are already present. No seeding needed.")
		return
	}

	log.Printf("🌱 Seeding %d missing escalation rules...", len(missingRules))

	for _, rule := range missingRules {
		if err := db.Create(&rule).Error; err != nil {
			log.Printf("❌ Failed to seed escalation rule %q: %v", rule.Name, err)
			continue
		}
	}

	log.Printf("✅ Escalation rule seeding finished")
}
