package infrastructure

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// bookingHookURL is the clinic's automation workflow; it fans the
// booking out to the front-desk Slack and the follow-up sheet.
const bookingHookURL = "https://novasync.app.n8n.cloud/webhook/appointment-booked"

// AutomationNotifier posts booking notifications to the downstream
// automation hook. The post is fire-and-forget: it runs detached from
// the booking request and its failures are only logged.
type AutomationNotifier struct {
	hookURL    string
	httpClient *http.Client
}

func NewAutomationNotifier() *AutomationNotifier {
	return &AutomationNotifier{
		hookURL:    bookingHookURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func (n *AutomationNotifier) NotifyBooked(patientName string, start, end time.Time, eventID string) {
	payload := map[string]interface{}{
		"event":           "appointment_booked",
		"bookingId":       uuid.NewString(),
		"patient":         patientName,
		"start":           start.Format(time.RFC3339),
		"end":             end.Format(time.RFC3339),
		"calendarEventId": eventID,
	}

	go func() {
		data, err := json.Marshal(payload)
		if err != nil {
			log.Printf("[notifier] marshal failed: %v", err)
			return
		}

		resp, err := n.httpClient.Post(n.hookURL, "application/json", bytes.NewReader(data))
		if err != nil {
			log.Printf("[notifier] booking notification failed: %v", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			log.Printf("[notifier] booking notification returned %d", resp.StatusCode)
		}
	}()
}
