package statemachine

import (
	"testing"

	"transport-broker-api/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name  string
		from  models.OrderStatus
		to    models.OrderStatus
		actor string
		ok    bool
	}{
		{"buyer submits draft", models.StatusDraft, models.StatusPending, "buyer", true},
		{"buyer cancels pending", models.StatusPending, models.StatusCancelled, "buyer", true},
		{"buyer cannot assign", models.StatusPending, models.StatusAssigned, "buyer", false},
		{"admin relays pending", models.StatusPending, models.StatusAssigned, "admin", true},
		{"admin confirms assigned", models.StatusAssigned, models.StatusConfirmed, "admin", true},
		{"admin records pickup", models.StatusConfirmed, models.StatusPickedUp, "admin", true},
		{"admin completes delivered", models.StatusDelivered, models.StatusCompleted, "admin", true},
		{"no skipping to delivered", models.StatusAssigned, models.StatusDelivered, "admin", false},
		{"no backward transition", models.StatusConfirmed, models.StatusPending, "admin", false},
		{"admin rejects assigned", models.StatusAssigned, models.StatusRejected, "admin", true},
		{"completed is terminal", models.StatusCompleted, models.StatusCancelled, "admin", false},
		{"cancelled is terminal", models.StatusCancelled, models.StatusPending, "admin", false},
		{"rejected is terminal", models.StatusRejected, models.StatusAssigned, "admin", false},
		{"unknown actor", models.StatusPending, models.StatusAssigned, "supplier", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CanTransition(tc.from, tc.to, tc.actor)
			if tc.ok && err != nil {
				t.Errorf("expected valid transition, got: %v", err)
			}
			if !tc.ok && err == nil {
				t.Errorf("expected %s -> %s by %s to be invalid", tc.from, tc.to, tc.actor)
			}
		})
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, status := range []models.OrderStatus{
		models.StatusCompleted, models.StatusCancelled, models.StatusRejected,
	} {
		if !IsTerminal(status) {
			t.Errorf("%s should be terminal", status)
		}
		if nexts := ValidTransitionsFrom(status); len(nexts) != 0 {
			t.Errorf("%s has outgoing transitions: %v", status, nexts)
		}
	}
}

func TestNonTerminalStatesCanAlwaysBeStopped(t *testing.T) {
	// Every non-terminal state must be cancellable or rejectable by the admin.
	nonTerminal := []models.OrderStatus{
		models.StatusDraft, models.StatusPending, models.StatusAssigned,
		models.StatusConfirmed, models.StatusPickedUp, models.StatusDelivered,
	}
	for _, status := range nonTerminal {
		if IsTerminal(status) {
			t.Errorf("%s wrongly marked terminal", status)
			continue
		}
		canStop := CanTransition(status, models.StatusCancelled, "admin") == nil ||
			CanTransition(status, models.StatusRejected, "admin") == nil ||
			CanTransition(status, models.StatusCompleted, "admin") == nil
		if !canStop {
			t.Errorf("no admin path out of %s", status)
		}
	}
}

func TestValidStatus(t *testing.T) {
	if !ValidStatus(models.StatusPickedUp) {
		t.Error("picked_up should be a known status")
	}
	if ValidStatus(models.OrderStatus("in_transit")) {
		t.Error("in_transit is not a known status")
	}
}
