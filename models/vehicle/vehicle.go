package vehicle

import (
	"autocare/models/user"
	"time"
)

// Vehicle represents a customer vehicle registered for service
type Vehicle struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Foreign key for owner relationship
	OwnerID uint      `gorm:"not null;index" json:"owner_id"`
	Owner   user.User `gorm:"foreignKey:OwnerID" json:"owner"`

	Make         string  `gorm:"type:varchar(100);not null" json:"make"`
	Model        string  `gorm:"type:varchar(100);not null" json:"model"`
	Year         int     `gorm:"type:int;not null" json:"year"`
	PlateNumber  string  `gorm:"type:varchar(20);not null;unique" json:"plate_number"`
	Color        *string `gorm:"type:varchar(50)" json:"color,omitempty"`
	Transmission *string `gorm:"type:varchar(50)" json:"transmission,omitempty"`
	FuelType     *string `gorm:"type:varchar(50)" json:"fuel_type,omitempty"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName sets the table name for the Vehicle model
func (Vehicle) TableName() string {
	return "vehicles"
}
