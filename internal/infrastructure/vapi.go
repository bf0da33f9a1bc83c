package infrastructure

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/mattwalter2/NourDemoDashboardBackend/internal/config"
)

const defaultVapiBaseURL = "https://api.vapi.ai"

// CallRequest carries the caller-supplied fields for an outbound call.
// Variables, when non-empty, fully replaces the default variable set.
type CallRequest struct {
	PhoneNumber       string
	Name              string
	ProcedureInterest string
	Variables         map[string]interface{}
}

// VapiClient wraps the Vapi call-creation and call-listing endpoints.
type VapiClient struct {
	apiKey        string
	assistantID   string
	phoneNumberID string
	baseURL       string
	httpClient    *http.Client
}

func NewVapiClient(cfg *config.Config) *VapiClient {
	return &VapiClient{
		apiKey:        cfg.VapiAPIKey,
		assistantID:   cfg.VapiAssistantID,
		phoneNumberID: cfg.VapiPhoneNumberID,
		baseURL:       defaultVapiBaseURL,
		httpClient:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Configured reports whether all three required Vapi settings are set.
func (v *VapiClient) Configured() bool {
	return v.apiKey != "" && v.assistantID != "" && v.phoneNumberID != ""
}

// InitiateCall creates an outbound phone call. It returns the provider
// status code and raw response body; the caller decides how to map
// non-success statuses.
func (v *VapiClient) InitiateCall(req CallRequest) (int, []byte, error) {
	payload := map[string]interface{}{
		"assistantId":   v.assistantID,
		"phoneNumberId": v.phoneNumberID,
		"customer": map[string]string{
			"number": req.PhoneNumber,
		},
		"assistantOverrides": map[string]interface{}{
			"variableValues": map[string]interface{}{
				"name":               req.Name,
				"number":             req.PhoneNumber,
				"procedure_interest": req.ProcedureInterest,
			},
		},
	}

	// Caller-supplied variables replace the defaults wholesale.
	if len(req.Variables) > 0 {
		payload["assistantOverrides"] = map[string]interface{}{
			"variableValues": req.Variables,
		}
	}

	log.Printf("[vapi] initiating call to %s", req.PhoneNumber)
	return v.do(http.MethodPost, "/call/phone", payload)
}

// ListCalls fetches recent calls with the given limit.
func (v *VapiClient) ListCalls(limit string) (int, []byte, error) {
	log.Printf("[vapi] fetching calls (limit=%s)", limit)
	return v.do(http.MethodGet, "/call?limit="+url.QueryEscape(limit), nil)
}

func (v *VapiClient) do(method, path string, payload interface{}) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal vapi payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, v.baseURL+path, body)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+v.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}

	log.Printf("[vapi] response: %d", resp.StatusCode)
	return resp.StatusCode, respBody, nil
}
