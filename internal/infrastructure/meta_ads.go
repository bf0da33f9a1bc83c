package infrastructure

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mattwalter2/NourDemoDashboardBackend/internal/config"
)

const defaultAdsBaseURL = "https://graph.facebook.com/v18.0"

const (
	campaignFields = "id,name,status,effective_status,objective,spend_cap,daily_budget,lifetime_budget"
	insightFields  = "impressions,clicks,spend,ctr,cpc,cpp,cpm,reach,frequency,actions,cost_per_action_type"
)

// UpstreamError carries a provider's own status code and decoded error
// body so handlers can pass both through to the frontend.
type UpstreamError struct {
	Status  int
	Details interface{}
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned %d", e.Status)
}

// MetaAdsClient reads campaigns and insights from the Meta Ads API.
type MetaAdsClient struct {
	accessToken string
	adAccountID string
	baseURL     string
	httpClient  *http.Client
}

func NewMetaAdsClient(cfg *config.Config) *MetaAdsClient {
	return &MetaAdsClient{
		accessToken: cfg.MetaAccessToken,
		adAccountID: cfg.MetaAdAccountID,
		baseURL:     defaultAdsBaseURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (m *MetaAdsClient) Configured() bool {
	return m.accessToken != "" && m.adAccountID != ""
}

// CampaignsWithInsights fetches the account's campaigns and enriches
// each with its last-30-day insight row. Insight fetch failures are
// tolerated per campaign; a campaign-list failure is returned as an
// *UpstreamError.
func (m *MetaAdsClient) CampaignsWithInsights() ([]map[string]interface{}, error) {
	accountID := m.adAccountID
	if !strings.HasPrefix(accountID, "act_") {
		accountID = "act_" + accountID
	}

	params := url.Values{}
	params.Set("fields", campaignFields)
	params.Set("access_token", m.accessToken)
	params.Set("limit", "50")

	log.Printf("[meta-ads] fetching campaigns for %s", accountID)
	resp, err := m.httpClient.Get(m.baseURL + "/" + accountID + "/campaigns?" + params.Encode())
	if err != nil {
		return nil, fmt.Errorf("fetch campaigns: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read campaigns response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var details interface{}
		if err := json.Unmarshal(body, &details); err != nil {
			details = string(body)
		}
		log.Printf("[meta-ads] api error: %s", string(body))
		return nil, &UpstreamError{Status: resp.StatusCode, Details: details}
	}

	var listing struct {
		Data []map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("parse campaigns response: %w", err)
	}

	log.Printf("[meta-ads] found %d campaigns", len(listing.Data))

	for _, campaign := range listing.Data {
		id, _ := campaign["id"].(string)
		campaign["insights"] = m.campaignInsights(id)
	}

	return listing.Data, nil
}

// campaignInsights returns the first insight row for a campaign, or an
// empty object when none is available.
func (m *MetaAdsClient) campaignInsights(campaignID string) map[string]interface{} {
	empty := map[string]interface{}{}
	if campaignID == "" {
		return empty
	}

	params := url.Values{}
	params.Set("fields", insightFields)
	params.Set("date_preset", "last_30d")
	params.Set("access_token", m.accessToken)

	resp, err := m.httpClient.Get(m.baseURL + "/" + campaignID + "/insights?" + params.Encode())
	if err != nil {
		log.Printf("[meta-ads] insights fetch failed for %s: %v", campaignID, err)
		return empty
	}
	defer resp.Body.Close()

	var listing struct {
		Data []map[string]interface{} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		log.Printf("[meta-ads] insights parse failed for %s: %v", campaignID, err)
		return empty
	}

	if len(listing.Data) == 0 {
		return empty
	}
	return listing.Data[0]
}
