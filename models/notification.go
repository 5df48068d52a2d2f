package models

import "time"

// Audience selects which side of the brokerage a notification targets.
type Audience string

const (
	AudienceAdmin    Audience = "admin"
	AudienceSupplier Audience = "supplier"
	AudienceBuyer    Audience = "buyer"
)

// Notification is an in-app message for one audience.
// RecipientID is 0 for admin rows, which every admin sees.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Audience    Audience  `json:"audience" gorm:"not null;index:idx_audience_recipient"`
	RecipientID uint      `json:"recipient_id" gorm:"index:idx_audience_recipient"`
	OrderID     *uint     `json:"order_id"`
	Type        string    `json:"type" gorm:"not null"`
	Title       string    `json:"title" gorm:"not null"`
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
