package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transport-broker-api/middleware"
	"transport-broker-api/models"
	"transport-broker-api/statemachine"
)

type CreateRequestRequest struct {
	FromState    string `json:"from_state" binding:"required"`
	FromDistrict string `json:"from_district" binding:"required"`
	FromPlace    string `json:"from_place" binding:"required"`
	FromTaluk    string `json:"from_taluk"`
	ToState      string `json:"to_state" binding:"required"`
	ToDistrict   string `json:"to_district" binding:"required"`
	ToPlace      string `json:"to_place" binding:"required"`
	ToTaluk      string `json:"to_taluk"`

	LoadType            string  `json:"load_type" binding:"required"`
	EstimatedTons       float64 `json:"estimated_tons" binding:"required,gt=0"`
	RequiredDate        string  `json:"required_date" binding:"required"`
	SpecialInstructions string  `json:"special_instructions"`

	// Optional: "draft" to save without submitting. Defaults to pending.
	Status models.OrderStatus `json:"status"`
}

// CreateRequest creates a new transport request (buyer only)
func (h *Handler) CreateRequest(c *gin.Context) {
	buyerID := middleware.GetUserID(c)

	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := req.Status
	if status == "" {
		status = models.StatusPending
	}
	if status != models.StatusDraft && status != models.StatusPending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "New requests must be draft or pending"})
		return
	}

	order := models.Order{
		Source:              models.SourceBuyer,
		BuyerID:             &buyerID,
		FromState:           req.FromState,
		FromDistrict:        req.FromDistrict,
		FromPlace:           req.FromPlace,
		FromTaluk:           req.FromTaluk,
		ToState:             req.ToState,
		ToDistrict:          req.ToDistrict,
		ToPlace:             req.ToPlace,
		ToTaluk:             req.ToTaluk,
		LoadType:            req.LoadType,
		EstimatedTons:       req.EstimatedTons,
		RequiredDate:        req.RequiredDate,
		SpecialInstructions: req.SpecialInstructions,
		Status:              status,
	}

	if err := h.DB.Create(&order).Error; err != nil {
		h.Log.Error().Err(err).Uint("buyer_id", buyerID).Msg("failed to create request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create request"})
		return
	}

	h.recordStatusChange(order.ID, "", status, buyerID, "Request created by buyer")

	if status == models.StatusPending {
		h.pushNotification(models.AudienceAdmin, 0, &order.ID, "new_request",
			"New transport request",
			order.FromPlace+" to "+order.ToPlace+", "+order.LoadType)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Request created successfully",
		"order":   order,
	})
}

// GetMyRequests returns all requests for the logged-in buyer
func (h *Handler) GetMyRequests(c *gin.Context) {
	buyerID := middleware.GetUserID(c)
	var orders []models.Order
	query := h.DB.Where("buyer_id = ?", buyerID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	query.Order("created_at desc").Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetRequestDetail returns a single request's full detail with history
func (h *Handler) GetRequestDetail(c *gin.Context) {
	buyerID := middleware.GetUserID(c)

	var order models.Order
	if err := h.DB.
		Preload("StatusHistory").
		Preload("AssignedSupplier").
		First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}
	if order.BuyerID == nil || *order.BuyerID != buyerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This request does not belong to you"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// SubmitRequest moves a saved draft to pending
func (h *Handler) SubmitRequest(c *gin.Context) {
	buyerID := middleware.GetUserID(c)

	var order models.Order
	if err := h.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}
	if order.BuyerID == nil || *order.BuyerID != buyerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This request does not belong to you"})
		return
	}

	if err := statemachine.CanTransition(order.Status, models.StatusPending, "buyer"); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "Cannot submit request",
			"reason":         err.Error(),
			"current_status": order.Status,
		})
		return
	}

	prevStatus := order.Status
	h.DB.Model(&order).Update("status", models.StatusPending)
	h.recordStatusChange(order.ID, prevStatus, models.StatusPending, buyerID, "Draft submitted by buyer")
	h.pushNotification(models.AudienceAdmin, 0, &order.ID, "new_request",
		"New transport request",
		order.FromPlace+" to "+order.ToPlace+", "+order.LoadType)

	c.JSON(http.StatusOK, gin.H{"message": "Request submitted", "order_id": order.ID})
}

// CancelRequest cancels a request (buyer can cancel draft or pending)
func (h *Handler) CancelRequest(c *gin.Context) {
	buyerID := middleware.GetUserID(c)

	var order models.Order
	if err := h.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}
	if order.BuyerID == nil || *order.BuyerID != buyerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This request does not belong to you"})
		return
	}

	if err := statemachine.CanTransition(order.Status, models.StatusCancelled, "buyer"); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "Cannot cancel request",
			"reason":         err.Error(),
			"current_status": order.Status,
		})
		return
	}

	prevStatus := order.Status
	h.DB.Model(&order).Update("status", models.StatusCancelled)
	h.recordStatusChange(order.ID, prevStatus, models.StatusCancelled, buyerID, "Request cancelled by buyer")

	c.JSON(http.StatusOK, gin.H{"message": "Request cancelled successfully", "order_id": order.ID})
}

// GetAcceptedRequests returns supplier acceptances the admin has relayed
// to this buyer. The rows are snapshots, immune to later order edits.
func (h *Handler) GetAcceptedRequests(c *gin.Context) {
	buyerID := middleware.GetUserID(c)
	var accepted []models.AcceptedRequest
	h.DB.Where("buyer_id = ? AND sent_by_admin = ?", buyerID, true).
		Order("created_at desc").
		Find(&accepted)
	c.JSON(http.StatusOK, gin.H{"count": len(accepted), "accepted": accepted})
}
