package models

import "time"

type Truck struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	SupplierID         uint      `json:"supplier_id" gorm:"not null;index"`
	RegistrationNumber string    `json:"registration_number" gorm:"uniqueIndex;not null"`
	TruckType          string    `json:"truck_type"`
	CapacityTons       float64   `json:"capacity_tons"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type Driver struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	SupplierID    uint      `json:"supplier_id" gorm:"not null;index"`
	Name          string    `json:"name" gorm:"not null"`
	LicenseNumber string    `json:"license_number"`
	Mobile        string    `json:"mobile"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Document is an uploaded file (GST certificate, RC book, license scan...)
// owned by the uploading user.
type Document struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OwnerID   uint      `json:"owner_id" gorm:"not null;index"`
	Category  string    `json:"category" gorm:"not null"`
	FileName  string    `json:"file_name" gorm:"not null"`
	URL       string    `json:"url" gorm:"not null"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}
