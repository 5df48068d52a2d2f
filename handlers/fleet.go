package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transport-broker-api/middleware"
	"transport-broker-api/models"
)

type TruckRequest struct {
	RegistrationNumber string  `json:"registration_number" binding:"required"`
	TruckType          string  `json:"truck_type"`
	CapacityTons       float64 `json:"capacity_tons" binding:"omitempty,gt=0"`
}

// AddTruck registers a truck under the logged-in supplier
func (h *Handler) AddTruck(c *gin.Context) {
	supplierID := middleware.GetUserID(c)

	var req TruckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.Truck
	if err := h.DB.Where("registration_number = ?", req.RegistrationNumber).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Registration number already recorded"})
		return
	}

	truck := models.Truck{
		SupplierID:         supplierID,
		RegistrationNumber: req.RegistrationNumber,
		TruckType:          req.TruckType,
		CapacityTons:       req.CapacityTons,
	}
	if err := h.DB.Create(&truck).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add truck"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Truck added", "truck": truck})
}

// GetMyTrucks lists the supplier's trucks
func (h *Handler) GetMyTrucks(c *gin.Context) {
	supplierID := middleware.GetUserID(c)
	var trucks []models.Truck
	h.DB.Where("supplier_id = ?", supplierID).Order("created_at desc").Find(&trucks)
	c.JSON(http.StatusOK, gin.H{"count": len(trucks), "trucks": trucks})
}

// UpdateTruck edits one of the supplier's trucks
func (h *Handler) UpdateTruck(c *gin.Context) {
	supplierID := middleware.GetUserID(c)

	var truck models.Truck
	if err := h.DB.Where("id = ? AND supplier_id = ?", c.Param("id"), supplierID).First(&truck).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Truck not found"})
		return
	}

	var req TruckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"registration_number": req.RegistrationNumber,
		"truck_type":          req.TruckType,
	}
	if req.CapacityTons > 0 {
		updates["capacity_tons"] = req.CapacityTons
	}
	if err := h.DB.Model(&truck).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update truck"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Truck updated", "truck": truck})
}

// DeleteTruck removes one of the supplier's trucks
func (h *Handler) DeleteTruck(c *gin.Context) {
	supplierID := middleware.GetUserID(c)
	result := h.DB.Where("id = ? AND supplier_id = ?", c.Param("id"), supplierID).Delete(&models.Truck{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete truck"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Truck not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Truck deleted"})
}

type DriverRequest struct {
	Name          string `json:"name" binding:"required"`
	LicenseNumber string `json:"license_number"`
	Mobile        string `json:"mobile"`
}

// AddDriver registers a driver under the logged-in supplier
func (h *Handler) AddDriver(c *gin.Context) {
	supplierID := middleware.GetUserID(c)

	var req DriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	driver := models.Driver{
		SupplierID:    supplierID,
		Name:          req.Name,
		LicenseNumber: req.LicenseNumber,
		Mobile:        req.Mobile,
	}
	if err := h.DB.Create(&driver).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add driver"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Driver added", "driver": driver})
}

// GetMyDrivers lists the supplier's drivers
func (h *Handler) GetMyDrivers(c *gin.Context) {
	supplierID := middleware.GetUserID(c)
	var drivers []models.Driver
	h.DB.Where("supplier_id = ?", supplierID).Order("created_at desc").Find(&drivers)
	c.JSON(http.StatusOK, gin.H{"count": len(drivers), "drivers": drivers})
}

// DeleteDriver removes one of the supplier's drivers
func (h *Handler) DeleteDriver(c *gin.Context) {
	supplierID := middleware.GetUserID(c)
	result := h.DB.Where("id = ? AND supplier_id = ?", c.Param("id"), supplierID).Delete(&models.Driver{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete driver"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Driver not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Driver deleted"})
}

// GetMyDocuments lists files the logged-in user has uploaded
func (h *Handler) GetMyDocuments(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	var docs []models.Document
	query := h.DB.Where("owner_id = ?", ownerID)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	query.Order("created_at desc").Find(&docs)
	c.JSON(http.StatusOK, gin.H{"count": len(docs), "documents": docs})
}
