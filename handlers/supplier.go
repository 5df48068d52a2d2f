package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"transport-broker-api/middleware"
	"transport-broker-api/models"
)

// GetMySubmissions returns orders relayed to the logged-in supplier
func (h *Handler) GetMySubmissions(c *gin.Context) {
	supplierID := middleware.GetUserID(c)
	var submissions []models.OrderSubmission
	query := h.DB.Preload("Order").Where("supplier_id = ?", supplierID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	query.Order("sent_at desc").Find(&submissions)
	c.JSON(http.StatusOK, gin.H{"count": len(submissions), "submissions": submissions})
}

// ViewSubmission marks a relayed order as seen by the supplier
func (h *Handler) ViewSubmission(c *gin.Context) {
	supplierID := middleware.GetUserID(c)

	var submission models.OrderSubmission
	if err := h.DB.Preload("Order").
		Where("id = ? AND supplier_id = ?", c.Param("id"), supplierID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	if submission.Status == models.SubmissionSent {
		h.DB.Model(&submission).Update("status", models.SubmissionViewed)
	}
	c.JSON(http.StatusOK, gin.H{"submission": submission})
}

// AcceptSubmission records the supplier's acceptance of a relayed order.
// The conditional update guards against accepting twice or after a
// rejection; the admin still arbitrates which acceptance wins.
func (h *Handler) AcceptSubmission(c *gin.Context) {
	claims := middleware.GetClaims(c)
	supplierID := claims.UserID

	var submission models.OrderSubmission
	if err := h.DB.Preload("Order").
		Where("id = ? AND supplier_id = ?", c.Param("id"), supplierID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	now := time.Now()
	result := h.DB.Model(&models.OrderSubmission{}).
		Where("id = ? AND status IN ?", submission.ID,
			[]models.SubmissionStatus{models.SubmissionSent, models.SubmissionViewed}).
		Updates(map[string]interface{}{
			"status":       models.SubmissionAccepted,
			"responded_at": now,
		})
	if result.Error != nil {
		h.Log.Error().Err(result.Error).Uint("submission_id", submission.ID).Msg("failed to accept submission")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept submission"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{
			"error":          "Submission has already been responded to",
			"current_status": submission.Status,
		})
		return
	}

	order := submission.Order
	accepted := models.AcceptedRequest{
		OrderID:         order.ID,
		SupplierID:      supplierID,
		BuyerID:         order.BuyerID,
		FromPlace:       order.FromPlace,
		ToPlace:         order.ToPlace,
		LoadType:        order.LoadType,
		EstimatedTons:   order.EstimatedTons,
		RequiredDate:    order.RequiredDate,
		SupplierCompany: claims.CompanyName,
		SentByAdmin:     false,
	}
	if err := h.DB.Create(&accepted).Error; err != nil {
		h.Log.Error().Err(err).Uint("order_id", order.ID).Msg("failed to snapshot acceptance")
	}

	h.pushNotification(models.AudienceAdmin, 0, &order.ID, "submission_accepted",
		"Supplier accepted an order",
		claims.Name+" accepted "+order.FromPlace+" to "+order.ToPlace)

	c.JSON(http.StatusOK, gin.H{
		"message":     "Order accepted. The brokerage will confirm the assignment.",
		"order_id":    order.ID,
		"accepted_id": accepted.ID,
	})
}

// RejectSubmission records the supplier's refusal of a relayed order
func (h *Handler) RejectSubmission(c *gin.Context) {
	claims := middleware.GetClaims(c)
	supplierID := claims.UserID

	var submission models.OrderSubmission
	if err := h.DB.Preload("Order").
		Where("id = ? AND supplier_id = ?", c.Param("id"), supplierID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	now := time.Now()
	result := h.DB.Model(&models.OrderSubmission{}).
		Where("id = ? AND status IN ?", submission.ID,
			[]models.SubmissionStatus{models.SubmissionSent, models.SubmissionViewed}).
		Updates(map[string]interface{}{
			"status":       models.SubmissionRejected,
			"responded_at": now,
		})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject submission"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{
			"error":          "Submission has already been responded to",
			"current_status": submission.Status,
		})
		return
	}

	h.pushNotification(models.AudienceAdmin, 0, &submission.OrderID, "submission_rejected",
		"Supplier declined an order",
		claims.Name+" declined submission for order")

	c.JSON(http.StatusOK, gin.H{"message": "Submission rejected", "order_id": submission.OrderID})
}

// GetMyAcceptances returns the supplier's own acceptance snapshots
func (h *Handler) GetMyAcceptances(c *gin.Context) {
	supplierID := middleware.GetUserID(c)
	var accepted []models.AcceptedRequest
	h.DB.Where("supplier_id = ?", supplierID).Order("created_at desc").Find(&accepted)
	c.JSON(http.StatusOK, gin.H{"count": len(accepted), "accepted": accepted})
}
