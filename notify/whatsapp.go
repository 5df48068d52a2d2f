// Package notify relays order alerts to suppliers over a WhatsApp gateway
// webhook. Delivery is fire-and-forget: failures are logged, never surfaced
// to the request that triggered them.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"transport-broker-api/models"
)

type WhatsAppNotifier struct {
	webhookURL string
	client     *http.Client
	log        zerolog.Logger
}

type whatsAppMessage struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

func NewWhatsAppNotifier(webhookURL string, log zerolog.Logger) *WhatsAppNotifier {
	return &WhatsAppNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// Enabled reports whether a gateway webhook is configured.
func (n *WhatsAppNotifier) Enabled() bool {
	return n != nil && n.webhookURL != ""
}

// SendOrderAlert posts a templated load alert for one supplier.
func (n *WhatsAppNotifier) SendOrderAlert(mobile string, order models.Order) error {
	text := fmt.Sprintf(
		"New load: %s (%s, %s) to %s (%s, %s). Load: %s, approx %.1f tons, required %s. Reply on the portal to accept.",
		order.FromPlace, order.FromDistrict, order.FromState,
		order.ToPlace, order.ToDistrict, order.ToState,
		order.LoadType, order.EstimatedTons, order.RequiredDate,
	)

	body, err := json.Marshal(whatsAppMessage{To: mobile, Text: text})
	if err != nil {
		return fmt.Errorf("notify: marshal payload: %w", err)
	}

	resp, err := n.client.Post(n.webhookURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("notify: send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("notify: webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// SendOrderAlertAsync dispatches SendOrderAlert on its own goroutine and
// logs the outcome. The done callback (optional) receives the result.
func (n *WhatsAppNotifier) SendOrderAlertAsync(mobile string, order models.Order, done func(error)) {
	if !n.Enabled() {
		if done != nil {
			done(fmt.Errorf("notify: no webhook configured"))
		}
		return
	}
	go func() {
		err := n.SendOrderAlert(mobile, order)
		if err != nil {
			n.log.Error().Err(err).Uint("order_id", order.ID).Str("mobile", mobile).Msg("WhatsApp alert failed")
		} else {
			n.log.Info().Uint("order_id", order.ID).Str("mobile", mobile).Msg("WhatsApp alert sent")
		}
		if done != nil {
			done(err)
		}
	}()
}
