package statemachine

import (
	"errors"

	"transport-broker-api/models"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string // "buyer", "admin"
}

// validTransitions is the authoritative state machine definition.
// Supplier responses live on the OrderSubmission, not here; the admin
// moves the parent order after reviewing an accepted submission.
var validTransitions = []Transition{
	// Buyer submits a saved draft
	{From: models.StatusDraft, To: models.StatusPending, Actor: "buyer"},
	// Buyer can cancel before the admin relays the order
	{From: models.StatusDraft, To: models.StatusCancelled, Actor: "buyer"},
	{From: models.StatusPending, To: models.StatusCancelled, Actor: "buyer"},
	// Admin relays the order to suppliers
	{From: models.StatusPending, To: models.StatusAssigned, Actor: "admin"},
	// Admin confirms exactly one accepted submission
	{From: models.StatusAssigned, To: models.StatusConfirmed, Actor: "admin"},
	// Admin records progress reported by the assigned supplier
	{From: models.StatusConfirmed, To: models.StatusPickedUp, Actor: "admin"},
	{From: models.StatusPickedUp, To: models.StatusDelivered, Actor: "admin"},
	{From: models.StatusDelivered, To: models.StatusCompleted, Actor: "admin"},
	// Admin can cancel or reject any non-terminal order
	{From: models.StatusDraft, To: models.StatusCancelled, Actor: "admin"},
	{From: models.StatusPending, To: models.StatusCancelled, Actor: "admin"},
	{From: models.StatusAssigned, To: models.StatusCancelled, Actor: "admin"},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Actor: "admin"},
	{From: models.StatusPickedUp, To: models.StatusCancelled, Actor: "admin"},
	{From: models.StatusDelivered, To: models.StatusCancelled, Actor: "admin"},
	{From: models.StatusPending, To: models.StatusRejected, Actor: "admin"},
	{From: models.StatusAssigned, To: models.StatusRejected, Actor: "admin"},
}

// terminalStates admit no outgoing transitions through normal endpoints.
var terminalStates = map[models.OrderStatus]bool{
	models.StatusCompleted: true,
	models.StatusCancelled: true,
	models.StatusRejected:  true,
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// IsTerminal reports whether a status admits no further transitions.
func IsTerminal(status models.OrderStatus) bool {
	return terminalStates[status]
}

// ValidStatus reports whether s is a known order status value.
func ValidStatus(s models.OrderStatus) bool {
	switch s {
	case models.StatusDraft, models.StatusPending, models.StatusAssigned,
		models.StatusConfirmed, models.StatusPickedUp, models.StatusDelivered,
		models.StatusCompleted, models.StatusCancelled, models.StatusRejected:
		return true
	}
	return false
}

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.OrderStatus, actor string) error {
	key := transitionKey{From: from, To: to, Actor: actor}
	if transitionMap[key] {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " -> " + string(to) +
			" is not allowed for actor '" + actor + "'. " +
			"Valid transitions from " + string(from) + " are: " + describeValidFrom(from),
	)
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
