package handlers

import (
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"transport-broker-api/models"
	"transport-broker-api/notify"
	"transport-broker-api/storage"
)

// Handler carries the dependencies every route needs. The connection pool is
// injected here rather than held in a package global.
type Handler struct {
	DB       *gorm.DB
	Store    *storage.LocalStore
	Notifier *notify.WhatsAppNotifier
	Log      zerolog.Logger
}

func New(db *gorm.DB, store *storage.LocalStore, notifier *notify.WhatsAppNotifier, log zerolog.Logger) *Handler {
	return &Handler{DB: db, Store: store, Notifier: notifier, Log: log}
}

// recordStatusChange appends an audit row for an order transition.
func (h *Handler) recordStatusChange(orderID uint, from, to models.OrderStatus, changedBy uint, note string) {
	history := models.OrderStatusHistory{
		OrderID:    orderID,
		FromStatus: from,
		ToStatus:   to,
		ChangedBy:  changedBy,
		Note:       note,
	}
	if err := h.DB.Create(&history).Error; err != nil {
		h.Log.Error().Err(err).Uint("order_id", orderID).Msg("failed to record status history")
	}
}

// pushNotification writes an in-app notification row. Recipient 0 with the
// admin audience is visible to every admin.
func (h *Handler) pushNotification(audience models.Audience, recipientID uint, orderID *uint, typ, title, message string) {
	n := models.Notification{
		Audience:    audience,
		RecipientID: recipientID,
		OrderID:     orderID,
		Type:        typ,
		Title:       title,
		Message:     message,
	}
	if err := h.DB.Create(&n).Error; err != nil {
		h.Log.Error().Err(err).Str("audience", string(audience)).Msg("failed to create notification")
	}
}
