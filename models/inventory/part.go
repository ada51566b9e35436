package inventory

import (
	"time"
)

// Part represents an inventory part stocked by a service center
type Part struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	PartNumber string  `gorm:"type:varchar(100);not null;unique" json:"part_number"`
	Name       string  `gorm:"type:varchar(255);not null" json:"name"`
	UnitPrice  float64 `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	StockQty   int     `gorm:"type:int;not null;default:0" json:"stock_qty"`

	// Optional home center; nil means shared stock
	ServiceCenterID *uint `gorm:"index" json:"service_center_id,omitempty"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName sets the table name for the Part model
func (Part) TableName() string {
	return "parts"
}
