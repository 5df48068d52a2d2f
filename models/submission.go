package models

import "time"

// SubmissionStatus is the supplier's own status for an order relayed to them.
type SubmissionStatus string

const (
	SubmissionSent     SubmissionStatus = "sent"
	SubmissionViewed   SubmissionStatus = "viewed"
	SubmissionAccepted SubmissionStatus = "accepted"
	SubmissionRejected SubmissionStatus = "rejected"
)

// OrderSubmission records that an order was relayed to a supplier.
// At most one row may exist per (order, supplier) pair.
type OrderSubmission struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	OrderID    uint `json:"order_id" gorm:"not null;uniqueIndex:idx_order_supplier"`
	SupplierID uint `json:"supplier_id" gorm:"not null;uniqueIndex:idx_order_supplier"`

	Order    Order `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	Supplier User  `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`

	Status       SubmissionStatus `json:"status" gorm:"not null;default:'sent'"`
	WhatsappSent bool             `json:"whatsapp_sent" gorm:"default:false"`
	SentAt       time.Time        `json:"sent_at"`
	RespondedAt  *time.Time       `json:"responded_at"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// AcceptedRequest is a denormalized snapshot of an order at the moment a
// supplier accepted it, so buyer-facing display survives later order edits.
type AcceptedRequest struct {
	ID         uint  `json:"id" gorm:"primaryKey"`
	OrderID    uint  `json:"order_id" gorm:"not null;index"`
	SupplierID uint  `json:"supplier_id" gorm:"not null;index"`
	BuyerID    *uint `json:"buyer_id"`

	FromPlace       string  `json:"from_place"`
	ToPlace         string  `json:"to_place"`
	LoadType        string  `json:"load_type"`
	EstimatedTons   float64 `json:"estimated_tons"`
	RequiredDate    string  `json:"required_date"`
	SupplierCompany string  `json:"supplier_company"`

	// False while the acceptance is pending admin relay to the buyer.
	SentByAdmin bool      `json:"sent_by_admin" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
