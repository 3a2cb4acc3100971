package domain

// WebhookEvent is a verified inbound platform notification.
type WebhookEvent struct {
	Topic    string `json:"topic"`
	Shop     string `json:"shop"`
	Payload  []byte `json:"-"`
	Verified bool   `json:"verified"`
}
