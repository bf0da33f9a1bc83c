package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mattwalter2/NourDemoDashboardBackend/internal/entities"
)

// Meta webhook payload shapes. Messages stays raw because WhatsApp and
// Instagram deliver differently shaped message objects under the same
// key.
type webhookPayload struct {
	Object string         `json:"object"`
	Entry  []webhookEntry `json:"entry"`
}

type webhookEntry struct {
	Messaging []instagramMessaging `json:"messaging"`
	Changes   []webhookChange      `json:"changes"`
}

type webhookChange struct {
	Value webhookValue `json:"value"`
}

type webhookValue struct {
	Contacts []webhookContact  `json:"contacts"`
	Messages []json.RawMessage `json:"messages"`
}

type webhookContact struct {
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
}

type whatsappMessage struct {
	ID        string `json:"id"`
	From      string `json:"from"`
	Timestamp string `json:"timestamp"`
	Text      struct {
		Body string `json:"body"`
	} `json:"text"`
}

type instagramMessaging struct {
	Sender struct {
		ID string `json:"id"`
	} `json:"sender"`
	Recipient struct {
		ID string `json:"id"`
	} `json:"recipient"`
	Message *instagramMessage `json:"message"`
}

type instagramMessage struct {
	MID  string `json:"mid"`
	Text string `json:"text"`
}

// ========================================
// Verification handshake (GET)
// ========================================

func (h *Handler) VerifyWhatsAppWebhook(c *gin.Context) {
	h.verifyWebhook(c, h.cfg.WhatsAppVerifyToken, "whatsapp")
}

func (h *Handler) VerifyInstagramWebhook(c *gin.Context) {
	h.verifyWebhook(c, h.cfg.InstagramVerifyToken, "instagram")
}

// verifyWebhook implements Meta's subscription handshake: echo the
// challenge when mode is "subscribe" and the token matches.
func (h *Handler) verifyWebhook(c *gin.Context, want, platform string) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode != "" && token != "" {
		if mode == "subscribe" && token == want {
			log.Printf("[webhook] %s webhook verified", platform)
			c.String(http.StatusOK, challenge)
			return
		}
		c.String(http.StatusForbidden, "Forbidden")
		return
	}
	c.String(http.StatusBadRequest, "Bad Request")
}

// ========================================
// Event delivery (POST)
// ========================================

func (h *Handler) HandleWhatsAppWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if !h.validSignature(c, body) {
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Printf("[webhook] bad payload: %v", err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	switch payload.Object {
	case "instagram":
		// Meta delivers Instagram events to this endpoint too.
		for _, entry := range payload.Entry {
			for _, ev := range entry.Messaging {
				h.storeInstagramEvent(ev)
			}
		}
		c.String(http.StatusOK, "EVENT_RECEIVED")

	case "whatsapp_business_account":
		for _, entry := range payload.Entry {
			for _, change := range entry.Changes {
				h.storeWhatsAppMessages(change.Value)
			}
		}
		c.String(http.StatusOK, "EVENT_RECEIVED")

	default:
		log.Printf("[webhook] unknown webhook object: %q", payload.Object)
		c.String(http.StatusNotFound, "Not Found")
	}
}

func (h *Handler) HandleInstagramWebhook(c *gin.Context) {
	var payload webhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("[webhook] instagram bad payload: %v", err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	for _, entry := range payload.Entry {
		for _, ev := range entry.Messaging {
			h.storeInstagramEvent(ev)
		}
		// Some Instagram events arrive in the changes form instead.
		for _, change := range entry.Changes {
			for _, raw := range change.Value.Messages {
				var ev instagramMessaging
				if err := json.Unmarshal(raw, &ev); err != nil {
					continue
				}
				h.storeInstagramEvent(ev)
			}
		}
	}

	c.String(http.StatusOK, "EVENT_RECEIVED")
}

// validSignature enforces X-Hub-Signature-256 when an app secret is
// configured. With no secret the check is skipped entirely; that is a
// deliberate policy for keyless demo deployments, not an oversight.
func (h *Handler) validSignature(c *gin.Context, body []byte) bool {
	if h.cfg.MetaAppSecret == "" {
		return true
	}

	signature := c.GetHeader("X-Hub-Signature-256")
	if signature == "" {
		log.Println("[webhook] missing signature")
		c.String(http.StatusForbidden, "Signature Missing")
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.cfg.MetaAppSecret))
	mac.Write(body)
	expected := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(signature), []byte(expected)) {
		log.Println("[webhook] signature mismatch")
		c.String(http.StatusForbidden, "Forbidden")
		return false
	}
	return true
}

func (h *Handler) storeWhatsAppMessages(value webhookValue) {
	senderName := ""
	if len(value.Contacts) > 0 {
		senderName = value.Contacts[0].Profile.Name
	}

	for _, raw := range value.Messages {
		var msg whatsappMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}

		sender := senderName
		if sender == "" {
			sender = msg.From
		}

		h.store.Prepend(entities.Message{
			ID:       msg.ID,
			Platform: entities.PlatformWhatsApp,
			Sender:   sender,
			From:     msg.From,
			Text:     msg.Text.Body,
			Time:     "Just now",
			Unread:   true,
		})
		log.Printf("[webhook] saved WhatsApp message: %s", msg.Text.Body)
	}
}

func (h *Handler) storeInstagramEvent(ev instagramMessaging) {
	if ev.Message == nil || ev.Message.Text == "" {
		// Non-text content is not represented in history.
		return
	}

	h.store.Prepend(entities.Message{
		ID:       ev.Message.MID,
		Platform: entities.PlatformInstagram,
		Sender:   "Instagram User",
		From:     ev.Sender.ID,
		Text:     ev.Message.Text,
		Time:     "Just now",
		Unread:   true,
	})
	log.Printf("[webhook] saved Instagram message: %s", ev.Message.Text)
}
