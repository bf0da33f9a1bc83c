package entities

const (
	PlatformWhatsApp  = "whatsapp"
	PlatformInstagram = "instagram"
)

// Message is the normalized history record served to the dashboard.
// Inbound messages carry From, outbound ones carry To. Avatar is
// always empty but the frontend expects the key.
type Message struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	Sender   string `json:"sender"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	Text     string `json:"text"`
	Time     string `json:"time"`
	Avatar   string `json:"avatar"`
	Unread   bool   `json:"unread"`
}

// Appointment is a calendar event normalized for the frontend.
type Appointment struct {
	ID          string `json:"id"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Location    string `json:"location"`
	Status      string `json:"status"`
	HTMLLink    string `json:"htmlLink"`
}
