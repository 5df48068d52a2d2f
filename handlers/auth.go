package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"transport-broker-api/middleware"
	"transport-broker-api/models"
)

// invalidCredentials is returned for unknown user, wrong role and bad
// password alike so login attempts cannot enumerate accounts.
const invalidCredentials = "Invalid user ID or password"

type RegisterRequest struct {
	UserID           string          `json:"user_id" binding:"required,min=3"`
	Name             string          `json:"name" binding:"required"`
	Email            string          `json:"email" binding:"omitempty,email"`
	Mobile           string          `json:"mobile"`
	Password         string          `json:"password" binding:"required,min=6"`
	Role             models.UserRole `json:"role" binding:"required"`
	CompanyName      string          `json:"company_name"`
	GSTNumber        string          `json:"gst_number"`
	NumberOfVehicles int             `json:"number_of_vehicles"`
}

type LoginRequest struct {
	UserID   string          `json:"user_id" binding:"required"`
	Password string          `json:"password" binding:"required"`
	Role     models.UserRole `json:"role" binding:"required"`
}

// Register creates a user plus its role profile in one transaction.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role. Must be: admin, supplier, or buyer"})
		return
	}
	if req.Role == models.RoleSupplier && req.CompanyName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Suppliers must register a company name"})
		return
	}

	var existing models.User
	if err := h.DB.Where("user_id = ?", req.UserID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User ID already registered"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		UserID:       req.UserID,
		Name:         req.Name,
		Email:        req.Email,
		Mobile:       req.Mobile,
		PasswordHash: string(hash),
		Role:         req.Role,
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		switch req.Role {
		case models.RoleSupplier:
			return tx.Create(&models.SupplierProfile{
				UserID:           user.UserID,
				CompanyName:      req.CompanyName,
				GSTNumber:        req.GSTNumber,
				NumberOfVehicles: req.NumberOfVehicles,
			}).Error
		case models.RoleBuyer:
			return tx.Create(&models.BuyerProfile{
				UserID:      user.UserID,
				CompanyName: req.CompanyName,
				GSTNumber:   req.GSTNumber,
			}).Error
		}
		return nil
	})
	if err != nil {
		h.Log.Error().Err(err).Str("user_id", req.UserID).Msg("registration failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	token, err := middleware.IssueSession(&user, req.CompanyName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}
	middleware.SetSessionCookie(c, token)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"user": gin.H{
			"id":      user.ID,
			"user_id": user.UserID,
			"name":    user.Name,
			"role":    user.Role,
		},
	})
}

// Login verifies (user ID, role, password) and issues the session cookie.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.DB.Where("user_id = ? AND role = ?", req.UserID, req.Role).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": invalidCredentials})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": invalidCredentials})
		return
	}

	companyName := h.companyNameFor(&user)

	token, err := middleware.IssueSession(&user, companyName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}
	middleware.SetSessionCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user": gin.H{
			"id":           user.ID,
			"user_id":      user.UserID,
			"name":         user.Name,
			"role":         user.Role,
			"company_name": companyName,
		},
	})
}

// Logout clears the session cookie. Issued tokens are not revoked
// server-side; they lapse at expiry.
func (h *Handler) Logout(c *gin.Context) {
	middleware.ClearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GetProfile returns the authenticated user's current row plus role profile.
func (h *Handler) GetProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	var user models.User
	if err := h.DB.First(&user, claims.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	resp := gin.H{"user": user}
	switch user.Role {
	case models.RoleSupplier:
		var profile models.SupplierProfile
		if err := h.DB.Where("user_id = ?", user.UserID).First(&profile).Error; err == nil {
			resp["profile"] = profile
		}
	case models.RoleBuyer:
		var profile models.BuyerProfile
		if err := h.DB.Where("user_id = ?", user.UserID).First(&profile).Error; err == nil {
			resp["profile"] = profile
		}
	}
	c.JSON(http.StatusOK, resp)
}

type UpdateProfileRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email" binding:"omitempty,email"`
	Mobile           string `json:"mobile"`
	CompanyName      string `json:"company_name"`
	GSTNumber        string `json:"gst_number"`
	NumberOfVehicles *int   `json:"number_of_vehicles"`
}

// UpdateProfile lets a user edit display and company fields. Existing
// session cookies keep the old values until they expire.
func (h *Handler) UpdateProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.DB.First(&user, claims.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Mobile != "" {
		updates["mobile"] = req.Mobile
	}
	if len(updates) > 0 {
		if err := h.DB.Model(&user).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
	}

	switch user.Role {
	case models.RoleSupplier:
		profileUpdates := map[string]interface{}{}
		if req.CompanyName != "" {
			profileUpdates["company_name"] = req.CompanyName
		}
		if req.GSTNumber != "" {
			profileUpdates["gst_number"] = req.GSTNumber
		}
		if req.NumberOfVehicles != nil {
			profileUpdates["number_of_vehicles"] = *req.NumberOfVehicles
		}
		if len(profileUpdates) > 0 {
			h.DB.Model(&models.SupplierProfile{}).Where("user_id = ?", user.UserID).Updates(profileUpdates)
		}
	case models.RoleBuyer:
		profileUpdates := map[string]interface{}{}
		if req.CompanyName != "" {
			profileUpdates["company_name"] = req.CompanyName
		}
		if req.GSTNumber != "" {
			profileUpdates["gst_number"] = req.GSTNumber
		}
		if len(profileUpdates) > 0 {
			h.DB.Model(&models.BuyerProfile{}).Where("user_id = ?", user.UserID).Updates(profileUpdates)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}

func (h *Handler) companyNameFor(user *models.User) string {
	switch user.Role {
	case models.RoleSupplier:
		var profile models.SupplierProfile
		if err := h.DB.Where("user_id = ?", user.UserID).First(&profile).Error; err == nil {
			return profile.CompanyName
		}
	case models.RoleBuyer:
		var profile models.BuyerProfile
		if err := h.DB.Where("user_id = ?", user.UserID).First(&profile).Error; err == nil {
			return profile.CompanyName
		}
	}
	return ""
}
