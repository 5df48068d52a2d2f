package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"transport-broker-api/models"
)

func TestMarkAllReadTouchesOnlyOwnAudience(t *testing.T) {
	r, db := newTestEnv(t)

	register(t, r, "buyer-a", "Buyer A", "secret123", "buyer", "")
	register(t, r, "buyer-b", "Buyer B", "secret123", "buyer", "")
	cookieA := loginCookie(t, r, "buyer-a", "secret123", "buyer")

	var buyerA, buyerB models.User
	db.Where("user_id = ?", "buyer-a").First(&buyerA)
	db.Where("user_id = ?", "buyer-b").First(&buyerB)

	rows := []models.Notification{
		{Audience: models.AudienceBuyer, RecipientID: buyerA.ID, Type: "t", Title: "a1"},
		{Audience: models.AudienceBuyer, RecipientID: buyerA.ID, Type: "t", Title: "a2"},
		{Audience: models.AudienceBuyer, RecipientID: buyerB.ID, Type: "t", Title: "b1"},
		{Audience: models.AudienceAdmin, RecipientID: 0, Type: "t", Title: "admin1"},
	}
	for i := range rows {
		if err := db.Create(&rows[i]).Error; err != nil {
			t.Fatalf("seed notification: %v", err)
		}
	}

	w := doJSON(t, r, http.MethodPut, "/api/notifications/read-all", cookieA, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("mark all read: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var unreadA, unreadB, unreadAdmin int64
	db.Model(&models.Notification{}).
		Where("audience = ? AND recipient_id = ? AND is_read = ?", models.AudienceBuyer, buyerA.ID, false).
		Count(&unreadA)
	db.Model(&models.Notification{}).
		Where("audience = ? AND recipient_id = ? AND is_read = ?", models.AudienceBuyer, buyerB.ID, false).
		Count(&unreadB)
	db.Model(&models.Notification{}).
		Where("audience = ? AND is_read = ?", models.AudienceAdmin, false).
		Count(&unreadAdmin)

	if unreadA != 0 {
		t.Errorf("buyer A still has %d unread rows", unreadA)
	}
	if unreadB != 1 {
		t.Errorf("buyer B's rows were touched: %d unread", unreadB)
	}
	if unreadAdmin != 1 {
		t.Errorf("admin rows were touched: %d unread", unreadAdmin)
	}
}

func TestMarkSingleNotificationOwnershipEnforced(t *testing.T) {
	r, db := newTestEnv(t)

	register(t, r, "buyer-x", "Buyer X", "secret123", "buyer", "")
	register(t, r, "buyer-y", "Buyer Y", "secret123", "buyer", "")
	cookieX := loginCookie(t, r, "buyer-x", "secret123", "buyer")

	var buyerY models.User
	db.Where("user_id = ?", "buyer-y").First(&buyerY)

	foreign := models.Notification{Audience: models.AudienceBuyer, RecipientID: buyerY.ID, Type: "t", Title: "not yours"}
	if err := db.Create(&foreign).Error; err != nil {
		t.Fatalf("seed notification: %v", err)
	}

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/notifications/%d/read", foreign.ID), cookieX, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for foreign notification, got %d", w.Code)
	}

	var reloaded models.Notification
	db.First(&reloaded, foreign.ID)
	if reloaded.IsRead {
		t.Error("foreign notification was marked read")
	}
}
