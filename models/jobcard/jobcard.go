package jobcard

import (
	"autocare/models/inventory"
	"time"
)

// JobCard represents a unit of work (labour + parts) under an appointment
type JobCard struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	AppointmentID uint `gorm:"not null;index" json:"appointment_id"`

	JobName     string  `gorm:"type:varchar(255);not null" json:"job_name"`
	Description *string `gorm:"type:text" json:"description,omitempty"`

	// Price is inclusive of parts and labour
	Price float64 `gorm:"type:decimal(12,2);not null;default:0" json:"price"`

	Parts []JobCardPart `gorm:"foreignKey:JobCardID" json:"parts,omitempty"`

	CreatedBy string     `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName sets the table name for the JobCard model
func (JobCard) TableName() string {
	return "job_cards"
}

// JobCardPart links an inventory part with a quantity to a job card
type JobCardPart struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	JobCardID uint `gorm:"not null;index" json:"job_card_id"`

	PartID uint           `gorm:"not null;index" json:"part_id"`
	Part   inventory.Part `gorm:"foreignKey:PartID" json:"part"`

	Quantity  int     `gorm:"type:int;not null;default:1" json:"quantity"`
	UnitPrice float64 `gorm:"type:decimal(12,2);not null" json:"unit_price"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the JobCardPart model
func (JobCardPart) TableName() string {
	return "job_card_parts"
}
