package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"transport-broker-api/handlers"
	"transport-broker-api/middleware"
	"transport-broker-api/models"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler) {
	// Uploaded files are served straight off disk.
	r.Static("/uploads", h.Store.Root())
	r.GET("/health", h.Health)
	r.GET("/", h.Index)

	// Shared bucket for the credential endpoints.
	loginLimiter := rate.NewLimiter(rate.Every(time.Second), 20)

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/register", middleware.RateLimit(loginLimiter), h.Register)
		public.POST("/auth/login", middleware.RateLimit(loginLimiter), h.Login)
		public.POST("/auth/logout", h.Logout)

		public.GET("/order-lifecycle", h.GetOrderLifecycle)
	}

	// ── Authenticated routes (any role) ────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/profile", h.GetProfile)
		auth.PUT("/profile", h.UpdateProfile)
		auth.POST("/upload", h.UploadFile)
		auth.GET("/documents", h.GetMyDocuments)

		auth.GET("/notifications", h.GetNotifications)
		auth.PUT("/notifications/:id/read", h.MarkNotificationRead)
		auth.PUT("/notifications/read-all", h.MarkAllNotificationsRead)
	}

	// ── Buyer routes ───────────────────────────────────────────────
	buyer := r.Group("/api/buyer")
	buyer.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleBuyer))
	{
		buyer.POST("/requests", h.CreateRequest)
		buyer.GET("/requests", h.GetMyRequests)
		buyer.GET("/requests/:id", h.GetRequestDetail)
		buyer.PUT("/requests/:id/submit", h.SubmitRequest)
		buyer.PUT("/requests/:id/cancel", h.CancelRequest)
		buyer.GET("/accepted", h.GetAcceptedRequests)
	}

	// ── Supplier routes ────────────────────────────────────────────
	supplier := r.Group("/api/supplier")
	supplier.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleSupplier))
	{
		supplier.GET("/submissions", h.GetMySubmissions)
		supplier.PUT("/submissions/:id/view", h.ViewSubmission)
		supplier.PUT("/submissions/:id/accept", h.AcceptSubmission)
		supplier.PUT("/submissions/:id/reject", h.RejectSubmission)
		supplier.GET("/accepted", h.GetMyAcceptances)

		supplier.POST("/trucks", h.AddTruck)
		supplier.GET("/trucks", h.GetMyTrucks)
		supplier.PUT("/trucks/:id", h.UpdateTruck)
		supplier.DELETE("/trucks/:id", h.DeleteTruck)

		supplier.POST("/drivers", h.AddDriver)
		supplier.GET("/drivers", h.GetMyDrivers)
		supplier.DELETE("/drivers/:id", h.DeleteDriver)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/orders", h.AdminGetAllOrders)
		admin.GET("/orders/:id", h.AdminGetOrderDetail)
		admin.POST("/orders", h.AdminCreateManualOrder)
		admin.POST("/orders/:id/assign", h.AdminAssignOrder)
		admin.PUT("/orders/:id/confirm", h.AdminConfirmOrder)
		admin.PUT("/orders/:id/status", h.AdminUpdateOrderStatus)

		admin.GET("/accepted", h.AdminGetAcceptedRequests)
		admin.PUT("/accepted/:id/send", h.AdminRelayAcceptedRequest)

		admin.GET("/users", h.AdminGetAllUsers)
		admin.GET("/suppliers", h.AdminGetSuppliers)
		admin.PUT("/suppliers/:id/verify", h.AdminVerifySupplier)

		admin.GET("/stats", h.AdminGetStats)
	}

	// Destructive admin operations re-check the user row; a stale cookie
	// is not enough here.
	adminFresh := r.Group("/api/admin")
	adminFresh.Use(middleware.AuthRequiredFresh(h.DB), middleware.RoleRequired(models.RoleAdmin))
	{
		adminFresh.PUT("/orders/:id/force-status", h.AdminForceOrderStatus)
		adminFresh.DELETE("/users/:id", h.AdminDeleteUser)
		adminFresh.POST("/reset-orders", h.AdminResetOrders)
	}
}
