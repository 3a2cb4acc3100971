package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"

	"preorder-shopify-layer/internal/domain"
)

// WebhookVerifier verifies the HMAC-SHA256 signature Shopify attaches to
// webhook requests. The signature is computed over the raw request body.
type WebhookVerifier struct {
	secret string
}

// NewWebhookVerifier creates a verifier for the given shared secret.
func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: secret}
}

// Verify checks the base64-encoded signature header against the raw body.
func (v *WebhookVerifier) Verify(body []byte, hmacHeader string) error {
	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(hmacHeader)) {
		return domain.ErrSignatureMismatch
	}
	return nil
}
