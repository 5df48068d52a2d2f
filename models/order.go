package models

import "time"

// OrderStatus represents all possible states of a transport order
type OrderStatus string

const (
	StatusDraft     OrderStatus = "draft"
	StatusPending   OrderStatus = "pending"
	StatusAssigned  OrderStatus = "assigned"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPickedUp  OrderStatus = "picked_up"
	StatusDelivered OrderStatus = "delivered"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
	StatusRejected  OrderStatus = "rejected"
)

// OrderSource records who entered the order into the system.
type OrderSource string

const (
	SourceBuyer OrderSource = "buyer"
	SourceAdmin OrderSource = "admin" // manual order entered by the brokerage
)

type Order struct {
	ID     uint        `json:"id" gorm:"primaryKey"`
	Source OrderSource `json:"source" gorm:"not null;default:'buyer'"`

	// Nil for manual orders entered by the admin on behalf of offline buyers.
	BuyerID *uint `json:"buyer_id"`
	Buyer   *User `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`

	FromState    string `json:"from_state" gorm:"not null"`
	FromDistrict string `json:"from_district" gorm:"not null"`
	FromPlace    string `json:"from_place" gorm:"not null"`
	FromTaluk    string `json:"from_taluk"`
	ToState      string `json:"to_state" gorm:"not null"`
	ToDistrict   string `json:"to_district" gorm:"not null"`
	ToPlace      string `json:"to_place" gorm:"not null"`
	ToTaluk      string `json:"to_taluk"`

	LoadType            string  `json:"load_type" gorm:"not null"`
	EstimatedTons       float64 `json:"estimated_tons"`
	RequiredDate        string  `json:"required_date"` // YYYY-MM-DD, as submitted on the form
	SpecialInstructions string  `json:"special_instructions"`

	Status OrderStatus `json:"status" gorm:"not null;default:'pending'"`

	// Set when the admin confirms exactly one accepted submission.
	AssignedSupplierID *uint `json:"assigned_supplier_id"`
	AssignedSupplier   *User `json:"assigned_supplier,omitempty" gorm:"foreignKey:AssignedSupplierID"`

	Submissions   []OrderSubmission    `json:"submissions,omitempty" gorm:"foreignKey:OrderID"`
	StatusHistory []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// OrderStatusHistory tracks every status change — audit trail
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null;index"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"` // user ID who triggered the transition
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}
