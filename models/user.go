package models

import (
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleSupplier UserRole = "supplier"
	RoleBuyer    UserRole = "buyer"
)

// ValidRole reports whether a role string is one of the three known roles.
func ValidRole(r UserRole) bool {
	return r == RoleAdmin || r == RoleSupplier || r == RoleBuyer
}

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       string    `json:"user_id" gorm:"uniqueIndex;not null"` // human-chosen business identifier
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email"`
	Mobile       string    `json:"mobile"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         UserRole  `json:"role" gorm:"not null;default:'buyer'"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SupplierProfile extends a supplier User one-to-one, keyed by the
// same business identifier.
type SupplierProfile struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	UserID           string    `json:"user_id" gorm:"uniqueIndex;not null"`
	CompanyName      string    `json:"company_name" gorm:"not null"`
	GSTNumber        string    `json:"gst_number"`
	NumberOfVehicles int       `json:"number_of_vehicles" gorm:"default:0"`
	IsVerified       bool      `json:"is_verified" gorm:"default:false"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BuyerProfile extends a buyer User one-to-one.
type BuyerProfile struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"uniqueIndex;not null"`
	CompanyName string    `json:"company_name"`
	GSTNumber   string    `json:"gst_number"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
