package servicecenter

import (
	"autocare/models/user"
	"time"
)

// Mechanic represents a mechanic working at a service center
type Mechanic struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Foreign key for user relationship
	UserID uint      `gorm:"not null;index" json:"user_id"`
	User   user.User `gorm:"foreignKey:UserID" json:"user"`

	// Foreign key for service center relationship
	ServiceCenterID uint `gorm:"not null;index" json:"service_center_id"`

	Specialization *string `gorm:"type:varchar(255)" json:"specialization,omitempty"`
	IsAvailable    bool    `gorm:"type:bool;default:true" json:"is_available"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName sets the table name for the Mechanic model
func (Mechanic) TableName() string {
	return "mechanics"
}
