package infrastructure

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/mattwalter2/NourDemoDashboardBackend/internal/config"
)

const defaultGraphBaseURL = "https://graph.facebook.com/v17.0"

// WhatsAppClient sends messages through the WhatsApp Cloud API.
type WhatsAppClient struct {
	accessToken string
	phoneID     string
	baseURL     string
	httpClient  *http.Client
}

func NewWhatsAppClient(cfg *config.Config) *WhatsAppClient {
	return &WhatsAppClient{
		accessToken: cfg.WhatsAppAccessToken,
		phoneID:     cfg.WhatsAppPhoneID,
		baseURL:     defaultGraphBaseURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (w *WhatsAppClient) Configured() bool {
	return w.accessToken != "" && w.phoneID != ""
}

// SendText sends a freeform text message.
func (w *WhatsAppClient) SendText(to, body string) error {
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"text": map[string]string{
			"body": body,
		},
	}
	return postGraph(w.httpClient, w.baseURL+"/"+w.phoneID+"/messages", w.accessToken, payload)
}

// SendTemplate sends a pre-approved template message, e.g. the
// "hello_world" starter template. Template and freeform text are
// mutually exclusive per message.
func (w *WhatsAppClient) SendTemplate(to, name, languageCode string) error {
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "template",
		"template": map[string]interface{}{
			"name": name,
			"language": map[string]string{
				"code": languageCode,
			},
		},
	}
	log.Printf("[whatsapp] outbound template: %s -> %s", name, to)
	return postGraph(w.httpClient, w.baseURL+"/"+w.phoneID+"/messages", w.accessToken, payload)
}

// InstagramClient sends DMs through the Instagram Messaging API. The
// business account id is required because "me" resolves to the
// Facebook user owning the token, not the Instagram account.
type InstagramClient struct {
	accessToken string
	accountID   string
	baseURL     string
	httpClient  *http.Client
}

func NewInstagramClient(cfg *config.Config) *InstagramClient {
	return &InstagramClient{
		accessToken: cfg.InstagramAccessToken,
		accountID:   cfg.InstagramAccountID,
		baseURL:     defaultGraphBaseURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (i *InstagramClient) Configured() bool {
	return i.accessToken != "" && i.accountID != ""
}

// SendText sends a DM to the given conversation-scoped recipient id.
func (i *InstagramClient) SendText(to, body string) error {
	payload := map[string]interface{}{
		"recipient": map[string]string{"id": to},
		"message":   map[string]string{"text": body},
	}
	return postGraph(i.httpClient, i.baseURL+"/"+i.accountID+"/messages", i.accessToken, payload)
}

func postGraph(client *http.Client, url, token string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	log.Printf("[graph] send response: %d - %s", resp.StatusCode, string(body))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("graph api returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
