package appointment

import (
	"time"
)

// AppointmentPhoto is a reference to an externally stored attachment.
// Upload and storage are handled by the attachment collaborator; only the
// reference lives here.
type AppointmentPhoto struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	AppointmentID uint   `gorm:"not null;index" json:"appointment_id"`
	StorageKey    string `gorm:"type:varchar(1024);not null" json:"storage_key"`
	FileName      string `gorm:"type:varchar(255);not null" json:"file_name"`
	MimeType      string `gorm:"type:varchar(100)" json:"mime_type"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the AppointmentPhoto model
func (AppointmentPhoto) TableName() string {
	return "appointment_photos"
}
