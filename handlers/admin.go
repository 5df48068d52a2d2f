package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"transport-broker-api/middleware"
	"transport-broker-api/models"
	"transport-broker-api/statemachine"
)

// AdminGetAllOrders returns all orders with filters and a status summary
func (h *Handler) AdminGetAllOrders(c *gin.Context) {
	var orders []models.Order
	query := h.DB.Preload("Buyer").Preload("AssignedSupplier").Preload("Submissions")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if buyerID := c.Query("buyer_id"); buyerID != "" {
		query = query.Where("buyer_id = ?", buyerID)
	}
	if source := c.Query("source"); source != "" {
		query = query.Where("source = ?", source)
	}

	query.Order("created_at desc").Find(&orders)

	summary := map[string]int{}
	for _, o := range orders {
		summary[string(o.Status)]++
	}

	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"count":         len(orders),
		"orders":        orders,
	})
}

// AdminGetOrderDetail returns one order with submissions and full history
func (h *Handler) AdminGetOrderDetail(c *gin.Context) {
	var order models.Order
	if err := h.DB.
		Preload("Buyer").
		Preload("AssignedSupplier").
		Preload("Submissions.Supplier").
		Preload("StatusHistory").
		First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

type ManualOrderRequest struct {
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

	// Optional: attach the order to a registered buyer account.
	BuyerID *uint `json:"buyer_id"`
}

// AdminCreateManualOrder enters an order on behalf of an offline buyer
func (h *Handler) AdminCreateManualOrder(c *gin.Context) {
	adminID := middleware.GetUserID(c)

	var req ManualOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.BuyerID != nil {
		var buyer models.User
		if err := h.DB.Where("id = ? AND role = ?", *req.BuyerID, models.RoleBuyer).First(&buyer).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Buyer not found"})
			return
		}
	}

	order := models.Order{
		Source:              models.SourceAdmin,
		BuyerID:             req.BuyerID,
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
		Status:              models.StatusPending,
	}

	if err := h.DB.Create(&order).Error; err != nil {
		h.Log.Error().Err(err).Msg("failed to create manual order")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	h.recordStatusChange(order.ID, "", models.StatusPending, adminID, "Manual order entered by admin")

	c.JSON(http.StatusCreated, gin.H{"message": "Manual order created", "order": order})
}

type AssignOrderRequest struct {
	SupplierIDs []uint `json:"supplier_ids" binding:"required,min=1"`
}

// AdminAssignOrder fans the order out to the chosen suppliers, one
// OrderSubmission per supplier. A supplier already holding a submission for
// this order is reported as skipped, not an error. WhatsApp relay is
// fire-and-forget.
func (h *Handler) AdminAssignOrder(c *gin.Context) {
	adminID := middleware.GetUserID(c)

	var order models.Order
	if err := h.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	var req AssignOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// More suppliers can be added while the order is still assigned;
	// anything past that is a state machine violation.
	if order.Status != models.StatusAssigned {
		if err := statemachine.CanTransition(order.Status, models.StatusAssigned, "admin"); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":             "Invalid state transition",
				"current_status":    order.Status,
				"reason":            err.Error(),
				"valid_next_states": statemachine.ValidTransitionsFrom(order.Status),
			})
			return
		}
	}

	var assigned, skipped []uint
	for _, supplierID := range req.SupplierIDs {
		var supplier models.User
		if err := h.DB.Where("id = ? AND role = ?", supplierID, models.RoleSupplier).First(&supplier).Error; err != nil {
			skipped = append(skipped, supplierID)
			continue
		}

		var existing models.OrderSubmission
		if err := h.DB.Where("order_id = ? AND supplier_id = ?", order.ID, supplierID).First(&existing).Error; err == nil {
			skipped = append(skipped, supplierID)
			continue
		}

		submission := models.OrderSubmission{
			OrderID:    order.ID,
			SupplierID: supplierID,
			Status:     models.SubmissionSent,
			SentAt:     time.Now(),
		}
		// The unique (order, supplier) index backstops the existence check.
		if err := h.DB.Create(&submission).Error; err != nil {
			h.Log.Warn().Err(err).Uint("supplier_id", supplierID).Uint("order_id", order.ID).
				Msg("duplicate submission rejected")
			skipped = append(skipped, supplierID)
			continue
		}
		assigned = append(assigned, supplierID)

		h.pushNotification(models.AudienceSupplier, supplierID, &order.ID, "order_relayed",
			"New load available",
			order.FromPlace+" to "+order.ToPlace+", "+order.LoadType)

		if h.Notifier.Enabled() && supplier.Mobile != "" {
			subID := submission.ID
			h.Notifier.SendOrderAlertAsync(supplier.Mobile, order, func(err error) {
				if err == nil {
					h.DB.Model(&models.OrderSubmission{}).Where("id = ?", subID).
						Update("whatsapp_sent", true)
				}
			})
		}
	}

	if len(assigned) == 0 {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "No submissions created",
			"skipped": skipped,
		})
		return
	}

	if order.Status != models.StatusAssigned {
		prevStatus := order.Status
		h.DB.Model(&order).Update("status", models.StatusAssigned)
		h.recordStatusChange(order.ID, prevStatus, models.StatusAssigned, adminID, "Order relayed to suppliers")
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Order relayed to suppliers",
		"order_id": order.ID,
		"assigned": assigned,
		"skipped":  skipped,
	})
}

type ConfirmOrderRequest struct {
	SubmissionID uint `json:"submission_id" binding:"required"`
}

// AdminConfirmOrder promotes an assigned order to confirmed after reviewing
// exactly one accepted submission. The conditional update means the first
// confirmation wins; a concurrent second attempt gets a conflict, never a
// silent overwrite.
func (h *Handler) AdminConfirmOrder(c *gin.Context) {
	adminID := middleware.GetUserID(c)

	var order models.Order
	if err := h.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	var req ConfirmOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var submission models.OrderSubmission
	if err := h.DB.Where("id = ? AND order_id = ?", req.SubmissionID, order.ID).First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found for this order"})
		return
	}
	if submission.Status != models.SubmissionAccepted {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Submission has not been accepted by the supplier",
			"submission_status": submission.Status,
		})
		return
	}

	result := h.DB.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, models.StatusAssigned).
		Updates(map[string]interface{}{
			"status":               models.StatusConfirmed,
			"assigned_supplier_id": submission.SupplierID,
		})
	if result.Error != nil {
		h.Log.Error().Err(result.Error).Uint("order_id", order.ID).Msg("failed to confirm order")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm order"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{
			"error":          "Order is no longer awaiting confirmation",
			"current_status": order.Status,
		})
		return
	}

	h.recordStatusChange(order.ID, models.StatusAssigned, models.StatusConfirmed, adminID,
		"Admin confirmed supplier assignment")

	if order.BuyerID != nil {
		h.pushNotification(models.AudienceBuyer, *order.BuyerID, &order.ID, "order_confirmed",
			"Your request is confirmed",
			"A supplier has been assigned to your transport request")
	}
	h.pushNotification(models.AudienceSupplier, submission.SupplierID, &order.ID, "assignment_confirmed",
		"Assignment confirmed",
		"The brokerage confirmed your acceptance of "+order.FromPlace+" to "+order.ToPlace)

	c.JSON(http.StatusOK, gin.H{
		"message":     "Order confirmed",
		"order_id":    order.ID,
		"supplier_id": submission.SupplierID,
	})
}

type AdminStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

// AdminUpdateOrderStatus moves an order through the admin-driven legs of
// the lifecycle (picked up, delivered, completed, cancelled, rejected).
func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	adminID := middleware.GetUserID(c)

	var order models.Order
	if err := h.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	var req AdminStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !statemachine.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status value"})
		return
	}

	if err := statemachine.CanTransition(order.Status, req.Status, "admin"); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"current_status":    order.Status,
			"requested":         req.Status,
			"reason":            err.Error(),
			"valid_next_states": statemachine.ValidTransitionsFrom(order.Status),
		})
		return
	}

	prevStatus := order.Status
	h.DB.Model(&order).Update("status", req.Status)
	h.recordStatusChange(order.ID, prevStatus, req.Status, adminID, req.Note)

	if order.BuyerID != nil {
		h.pushNotification(models.AudienceBuyer, *order.BuyerID, &order.ID, "status_update",
			"Order status updated", "Your request is now "+string(req.Status))
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status updated",
		"order_id":        order.ID,
		"previous_status": string(prevStatus),
		"current_status":  string(req.Status),
	})
}

// AdminForceOrderStatus lets admin override any order state (emergency use).
// This is the only path that bypasses the state machine, audit-trailed.
func (h *Handler) AdminForceOrderStatus(c *gin.Context) {
	adminID := middleware.GetUserID(c)

	var req AdminStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !statemachine.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status value"})
		return
	}

	var order models.Order
	if err := h.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	prevStatus := order.Status
	h.DB.Model(&order).Update("status", req.Status)
	h.recordStatusChange(order.ID, prevStatus, req.Status, adminID, "[ADMIN OVERRIDE] "+req.Note)

	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status force-updated by admin",
		"order_id":        order.ID,
		"previous_status": prevStatus,
		"new_status":      req.Status,
	})
}

// AdminGetAcceptedRequests lists acceptance snapshots, filterable by relay state
func (h *Handler) AdminGetAcceptedRequests(c *gin.Context) {
	var accepted []models.AcceptedRequest
	query := h.DB.Order("created_at desc")
	if sent := c.Query("sent"); sent == "true" {
		query = query.Where("sent_by_admin = ?", true)
	} else if sent == "false" {
		query = query.Where("sent_by_admin = ?", false)
	}
	query.Find(&accepted)
	c.JSON(http.StatusOK, gin.H{"count": len(accepted), "accepted": accepted})
}

// AdminRelayAcceptedRequest marks a supplier acceptance as sent to the buyer
func (h *Handler) AdminRelayAcceptedRequest(c *gin.Context) {
	var accepted models.AcceptedRequest
	if err := h.DB.First(&accepted, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Accepted request not found"})
		return
	}
	if accepted.SentByAdmin {
		c.JSON(http.StatusConflict, gin.H{"error": "Already relayed to the buyer"})
		return
	}

	h.DB.Model(&accepted).Update("sent_by_admin", true)

	if accepted.BuyerID != nil {
		h.pushNotification(models.AudienceBuyer, *accepted.BuyerID, &accepted.OrderID, "supplier_accepted",
			"A supplier accepted your request",
			accepted.SupplierCompany+" accepted "+accepted.FromPlace+" to "+accepted.ToPlace)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Acceptance relayed to buyer", "accepted_id": accepted.ID})
}

// AdminResetOrders wipes all order data and resets the numeric sequences.
// The one sanctioned bulk delete; everything else only moves status.
func (h *Handler) AdminResetOrders(c *gin.Context) {
	tables := []string{"order_submissions", "accepted_requests", "order_status_histories", "orders"}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return err
			}
		}
		switch h.DB.Dialector.Name() {
		case "sqlite":
			for _, table := range tables {
				tx.Exec("DELETE FROM sqlite_sequence WHERE name = ?", table)
			}
		case "postgres":
			for _, table := range tables {
				tx.Exec("ALTER SEQUENCE IF EXISTS " + table + "_id_seq RESTART WITH 1")
			}
		}
		return nil
	})
	if err != nil {
		h.Log.Error().Err(err).Msg("order reset failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset order data"})
		return
	}

	h.Log.Warn().Uint("admin_id", middleware.GetUserID(c)).Msg("all order data reset")
	c.JSON(http.StatusOK, gin.H{"message": "All order data reset"})
}
