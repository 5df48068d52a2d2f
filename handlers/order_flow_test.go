package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"transport-broker-api/models"
)

func seedOrderFlow(t *testing.T) (r routerEnv) {
	t.Helper()
	engine, db := newTestEnv(t)
	r.engine = engine
	r.db = db

	register(t, engine, "buyer-1", "Meena", "secret123", "buyer", "Meena Traders")
	register(t, engine, "supplier-1", "Ravi", "secret123", "supplier", "Ravi Logistics")
	register(t, engine, "supplier-2", "Suresh", "secret123", "supplier", "Suresh Carriers")
	register(t, engine, "admin-1", "Admin", "secret123", "admin", "")

	r.buyer = loginCookie(t, engine, "buyer-1", "secret123", "buyer")
	r.supplier1 = loginCookie(t, engine, "supplier-1", "secret123", "supplier")
	r.supplier2 = loginCookie(t, engine, "supplier-2", "secret123", "supplier")
	r.admin = loginCookie(t, engine, "admin-1", "secret123", "admin")
	return r
}

type routerEnv struct {
	engine                             *gin.Engine
	db                                 *gorm.DB
	buyer, supplier1, supplier2, admin *http.Cookie
}

func newRequestBody() map[string]interface{} {
	return map[string]interface{}{
		"from_state":     "Karnataka",
		"from_district":  "Bagalkot",
		"from_place":     "Mudhol",
		"to_state":       "Maharashtra",
		"to_district":    "Pune",
		"to_place":       "Pune City",
		"load_type":      "sugarcane",
		"estimated_tons": 24.5,
		"required_date":  time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
	}
}

func (e routerEnv) userID(t *testing.T, businessID string) uint {
	t.Helper()
	var user models.User
	if err := e.db.Where("user_id = ?", businessID).First(&user).Error; err != nil {
		t.Fatalf("user %s not found: %v", businessID, err)
	}
	return user.ID
}

func TestOrderLifecycle(t *testing.T) {
	env := seedOrderFlow(t)

	// Buyer submits a request.
	w := doJSON(t, env.engine, http.MethodPost, "/api/buyer/requests", env.buyer, newRequestBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("create request: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var order models.Order
	if err := env.db.First(&order).Error; err != nil {
		t.Fatalf("order not persisted: %v", err)
	}
	if order.Status != models.StatusPending {
		t.Fatalf("expected pending, got %s", order.Status)
	}

	s1 := env.userID(t, "supplier-1")
	s2 := env.userID(t, "supplier-2")
	orderPath := fmt.Sprintf("/api/admin/orders/%d", order.ID)

	// Admin fans the order out to both suppliers.
	w = doJSON(t, env.engine, http.MethodPost, orderPath+"/assign", env.admin,
		map[string]interface{}{"supplier_ids": []uint{s1, s2}})
	if w.Code != http.StatusOK {
		t.Fatalf("assign: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	env.db.First(&order, order.ID)
	if order.Status != models.StatusAssigned {
		t.Fatalf("expected assigned after fan-out, got %s", order.Status)
	}
	var submissions []models.OrderSubmission
	env.db.Where("order_id = ?", order.ID).Order("supplier_id").Find(&submissions)
	if len(submissions) != 2 {
		t.Fatalf("expected 2 submissions, got %d", len(submissions))
	}

	// Re-relaying to a supplier who already has a submission is reported,
	// not fatal, and creates nothing.
	w = doJSON(t, env.engine, http.MethodPost, orderPath+"/assign", env.admin,
		map[string]interface{}{"supplier_ids": []uint{s1}})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate relay: expected 409, got %d: %s", w.Code, w.Body.String())
	}
	var count int64
	env.db.Model(&models.OrderSubmission{}).Where("order_id = ?", order.ID).Count(&count)
	if count != 2 {
		t.Errorf("duplicate relay created rows: %d", count)
	}

	// Both suppliers accept their submissions.
	var sub1, sub2 models.OrderSubmission
	env.db.Where("order_id = ? AND supplier_id = ?", order.ID, s1).First(&sub1)
	env.db.Where("order_id = ? AND supplier_id = ?", order.ID, s2).First(&sub2)

	w = doJSON(t, env.engine, http.MethodPut,
		fmt.Sprintf("/api/supplier/submissions/%d/accept", sub1.ID), env.supplier1, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("supplier 1 accept: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Accepting the same submission twice is a conflict.
	w = doJSON(t, env.engine, http.MethodPut,
		fmt.Sprintf("/api/supplier/submissions/%d/accept", sub1.ID), env.supplier1, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("second accept of same submission: expected 409, got %d", w.Code)
	}

	w = doJSON(t, env.engine, http.MethodPut,
		fmt.Sprintf("/api/supplier/submissions/%d/accept", sub2.ID), env.supplier2, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("supplier 2 accept: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Admin confirms supplier 1; the first confirmation wins.
	w = doJSON(t, env.engine, http.MethodPut, orderPath+"/confirm", env.admin,
		map[string]interface{}{"submission_id": sub1.ID})
	if w.Code != http.StatusOK {
		t.Fatalf("confirm: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// A second confirmation must be rejected, never silently overwrite.
	w = doJSON(t, env.engine, http.MethodPut, orderPath+"/confirm", env.admin,
		map[string]interface{}{"submission_id": sub2.ID})
	if w.Code != http.StatusConflict {
		t.Errorf("second confirm: expected 409, got %d: %s", w.Code, w.Body.String())
	}

	env.db.First(&order, order.ID)
	if order.Status != models.StatusConfirmed {
		t.Errorf("expected confirmed, got %s", order.Status)
	}
	if order.AssignedSupplierID == nil || *order.AssignedSupplierID != s1 {
		t.Errorf("expected supplier 1 assigned, got %v", order.AssignedSupplierID)
	}

	// Admin walks the order to completion.
	for _, status := range []models.OrderStatus{
		models.StatusPickedUp, models.StatusDelivered, models.StatusCompleted,
	} {
		w = doJSON(t, env.engine, http.MethodPut, orderPath+"/status", env.admin,
			map[string]interface{}{"status": status})
		if w.Code != http.StatusOK {
			t.Fatalf("transition to %s: expected 200, got %d: %s", status, w.Code, w.Body.String())
		}
	}

	// Terminal states admit no further transitions.
	w = doJSON(t, env.engine, http.MethodPut, orderPath+"/status", env.admin,
		map[string]interface{}{"status": models.StatusCancelled})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("transition out of completed: expected 422, got %d", w.Code)
	}
}

func TestDuplicateSubmissionUniqueIndex(t *testing.T) {
	_, db := newTestEnv(t)

	sub := models.OrderSubmission{OrderID: 7, SupplierID: 3, Status: models.SubmissionSent, SentAt: time.Now()}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	dup := models.OrderSubmission{OrderID: 7, SupplierID: 3, Status: models.SubmissionSent, SentAt: time.Now()}
	if err := db.Create(&dup).Error; err == nil {
		t.Fatal("expected uniqueness error for duplicate (order, supplier) pair")
	}
}

func TestBuyerCancelAndDraftSubmit(t *testing.T) {
	env := seedOrderFlow(t)

	body := newRequestBody()
	body["status"] = "draft"
	w := doJSON(t, env.engine, http.MethodPost, "/api/buyer/requests", env.buyer, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create draft: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var order models.Order
	env.db.First(&order)
	if order.Status != models.StatusDraft {
		t.Fatalf("expected draft, got %s", order.Status)
	}

	w = doJSON(t, env.engine, http.MethodPut,
		fmt.Sprintf("/api/buyer/requests/%d/submit", order.ID), env.buyer, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("submit draft: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, env.engine, http.MethodPut,
		fmt.Sprintf("/api/buyer/requests/%d/cancel", order.ID), env.buyer, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("cancel: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	env.db.First(&order, order.ID)
	if order.Status != models.StatusCancelled {
		t.Errorf("expected cancelled, got %s", order.Status)
	}

	// Cancelled is terminal for the buyer too.
	w = doJSON(t, env.engine, http.MethodPut,
		fmt.Sprintf("/api/buyer/requests/%d/submit", order.ID), env.buyer, nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("submit after cancel: expected 422, got %d", w.Code)
	}
}

func TestBuyerCannotTouchOthersRequest(t *testing.T) {
	env := seedOrderFlow(t)

	w := doJSON(t, env.engine, http.MethodPost, "/api/buyer/requests", env.buyer, newRequestBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("create request: expected 201, got %d", w.Code)
	}
	var order models.Order
	env.db.First(&order)

	register(t, env.engine, "buyer-2", "Other", "secret123", "buyer", "")
	other := loginCookie(t, env.engine, "buyer-2", "secret123", "buyer")

	w = doJSON(t, env.engine, http.MethodPut,
		fmt.Sprintf("/api/buyer/requests/%d/cancel", order.ID), other, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for foreign request, got %d", w.Code)
	}
}
