package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/example/rapid-dispatch/internal/models"
)

// WebhookNotifier tries the driver's live WS session first and falls back to
// POSTing the booking notice to a configured endpoint (a driver-app backend).
type WebhookNotifier struct {
	Endpoint string
	Client   *http.Client
	WS       *WSRegistry
}

func NewWebhookNotifier(endpoint string, ws *WSRegistry) *WebhookNotifier {
	return &WebhookNotifier{Endpoint: endpoint, Client: &http.Client{Timeout: 3 * time.Second}, WS: ws}
}

func (p *WebhookNotifier) Notify(driverID int, b models.Booking) error {
	if p.WS != nil {
		if err := p.WS.Notify(driverID, b); err == nil {
			return nil
		}
	}
	if p.Endpoint == "" {
		return ErrNoSession
	}
	body, _ := json.Marshal(map[string]any{"driver_id": driverID, "booking": b})
	resp, err := p.Client.Post(p.Endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook notify: status %d", resp.StatusCode)
	}
	return nil
}
