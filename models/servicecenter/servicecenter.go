package servicecenter

import (
	"time"
)

// ServiceCenter represents a physical service center location
type ServiceCenter struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	Name      string  `gorm:"type:varchar(255);not null" json:"name"`
	Code      string  `gorm:"type:varchar(50);not null;unique" json:"code"`
	City      string  `gorm:"type:varchar(100);not null" json:"city"`
	Address   string  `gorm:"type:text;not null" json:"address"`
	Phone     string  `gorm:"type:varchar(20);not null" json:"phone"`
	Latitude  float64 `gorm:"type:decimal(10,7);not null" json:"latitude"`
	Longitude float64 `gorm:"type:decimal(10,7);not null" json:"longitude"`
	Capacity  int     `gorm:"type:int;default:10" json:"capacity"`
	IsActive  bool    `gorm:"type:bool;default:true" json:"is_active"`

	Mechanics []Mechanic `gorm:"foreignKey:ServiceCenterID" json:"mechanics,omitempty"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName sets the table name for the ServiceCenter model
func (ServiceCenter) TableName() string {
	return "service_centers"
}
