package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"transport-broker-api/middleware"
	"transport-broker-api/models"
)

// AdminGetAllUsers returns all users, filterable by role
func (h *Handler) AdminGetAllUsers(c *gin.Context) {
	var users []models.User
	query := h.DB
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	query.Order("created_at desc").Find(&users)
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

// AdminGetSuppliers returns suppliers joined with their company profiles
func (h *Handler) AdminGetSuppliers(c *gin.Context) {
	var suppliers []models.User
	h.DB.Where("role = ?", models.RoleSupplier).Order("created_at desc").Find(&suppliers)

	type supplierView struct {
		models.User
		Profile *models.SupplierProfile `json:"profile,omitempty"`
	}
	out := make([]supplierView, 0, len(suppliers))
	for _, s := range suppliers {
		view := supplierView{User: s}
		var profile models.SupplierProfile
		if err := h.DB.Where("user_id = ?", s.UserID).First(&profile).Error; err == nil {
			view.Profile = &profile
		}
		out = append(out, view)
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "suppliers": out})
}

// AdminVerifySupplier marks a supplier's profile as verified
func (h *Handler) AdminVerifySupplier(c *gin.Context) {
	var user models.User
	if err := h.DB.Where("id = ? AND role = ?", c.Param("id"), models.RoleSupplier).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
		return
	}

	result := h.DB.Model(&models.SupplierProfile{}).
		Where("user_id = ?", user.UserID).
		Update("is_verified", true)
	if result.Error != nil || result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Supplier profile not found"})
		return
	}

	h.pushNotification(models.AudienceSupplier, user.ID, nil, "verified",
		"Profile verified", "Your company profile has been verified by the brokerage")

	c.JSON(http.StatusOK, gin.H{"message": "Supplier verified", "supplier_id": user.ID})
}

// AdminDeleteUser removes a user and everything hanging off it in one
// transaction: profiles, fleet, documents, submissions, acceptance
// snapshots and notifications. Admins cannot delete themselves.
func (h *Handler) AdminDeleteUser(c *gin.Context) {
	adminID := middleware.GetUserID(c)

	var user models.User
	if err := h.DB.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if user.ID == adminID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete your own account"})
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		switch user.Role {
		case models.RoleSupplier:
			if err := tx.Where("supplier_id = ?", user.ID).Delete(&models.Truck{}).Error; err != nil {
				return err
			}
			if err := tx.Where("supplier_id = ?", user.ID).Delete(&models.Driver{}).Error; err != nil {
				return err
			}
			if err := tx.Where("supplier_id = ?", user.ID).Delete(&models.OrderSubmission{}).Error; err != nil {
				return err
			}
			if err := tx.Where("supplier_id = ?", user.ID).Delete(&models.AcceptedRequest{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", user.UserID).Delete(&models.SupplierProfile{}).Error; err != nil {
				return err
			}
		case models.RoleBuyer:
			// Orders outlive the buyer account, detached.
			if err := tx.Model(&models.Order{}).Where("buyer_id = ?", user.ID).
				Update("buyer_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.AcceptedRequest{}).Where("buyer_id = ?", user.ID).
				Update("buyer_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", user.UserID).Delete(&models.BuyerProfile{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("owner_id = ?", user.ID).Delete(&models.Document{}).Error; err != nil {
			return err
		}
		if err := tx.Where("audience = ? AND recipient_id = ?", user.Role, user.ID).
			Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		h.Log.Error().Err(err).Uint("user_id", user.ID).Msg("user deletion failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted", "user_id": user.ID})
}

// AdminGetStats returns dashboard counts
func (h *Handler) AdminGetStats(c *gin.Context) {
	var buyers, suppliers, orders, pendingAcceptances, unread int64
	h.DB.Model(&models.User{}).Where("role = ?", models.RoleBuyer).Count(&buyers)
	h.DB.Model(&models.User{}).Where("role = ?", models.RoleSupplier).Count(&suppliers)
	h.DB.Model(&models.Order{}).Count(&orders)
	h.DB.Model(&models.AcceptedRequest{}).Where("sent_by_admin = ?", false).Count(&pendingAcceptances)
	h.DB.Model(&models.Notification{}).
		Where("audience = ? AND is_read = ?", models.AudienceAdmin, false).Count(&unread)

	statusCounts := map[string]int64{}
	rows, err := h.DB.Model(&models.Order{}).
		Select("status, count(*) as n").
		Group("status").Rows()
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var status string
			var n int64
			if err := rows.Scan(&status, &n); err == nil {
				statusCounts[status] = n
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"buyers":              buyers,
		"suppliers":           suppliers,
		"orders":              orders,
		"orders_by_status":    statusCounts,
		"pending_acceptances": pendingAcceptances,
		"unread_alerts":       unread,
	})
}
