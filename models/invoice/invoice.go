package invoice

import (
	"time"
)

// Invoice represents the single invoice issued for a completed appointment
type Invoice struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// At most one invoice per appointment
	AppointmentID uint `gorm:"not null;uniqueIndex" json:"appointment_id"`

	InvoiceNumber string     `gorm:"type:varchar(64);not null;unique" json:"invoice_number"`
	TotalAmount   float64    `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	IssuedAt      time.Time  `gorm:"not null" json:"issued_at"`
	IsPaid        bool       `gorm:"type:bool;default:false" json:"is_paid"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`

	CreatedBy string    `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}
