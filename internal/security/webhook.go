package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

const (
	HeaderWebhookSignature = "X-Peoplehub-Signature"
	HeaderWebhookDate      = "X-Peoplehub-Date"
)

// ComputeWebhookSignature signs a trigger payload: HMAC-SHA256 over
// date + "\n" + body, base64url encoded. The database-side trigger
// computes the same value before POSTing the changed record.
func ComputeWebhookSignature(secret string, date string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(date))
	mac.Write([]byte("\n"))
	mac.Write(body)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func ValidateWebhookSignature(secret string, signature string, date string, body []byte) bool {
	expected := ComputeWebhookSignature(secret, date, body)
	return hmac.Equal([]byte(signature), []byte(expected))
}
