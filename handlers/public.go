package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transport-broker-api/statemachine"
)

// Health is the liveness endpoint
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "Mahalaxmi Transport Brokerage API",
		"version": "1.0.0",
	})
}

// Index describes the API surface
func (h *Handler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Mahalaxmi Transport Co brokerage API",
		"docs":    "/api/order-lifecycle",
		"health":  "/health",
		"roles":   []string{"admin", "supplier", "buyer"},
	})
}

// GetOrderLifecycle returns the full state machine for informational purposes
func (h *Handler) GetOrderLifecycle(c *gin.Context) {
	transitions := statemachine.GetAllTransitions()
	info := make([]gin.H, 0, len(transitions))
	for _, t := range transitions {
		info = append(info, gin.H{"from": t.From, "to": t.To, "actor": t.Actor})
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   info,
		"terminal_states": []string{"completed", "cancelled", "rejected"},
		"description":     "Transport order lifecycle state machine",
	})
}
