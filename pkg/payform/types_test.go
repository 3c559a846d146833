package payform

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhook(t *testing.T) {
	body := []byte(`{"eventId":"evt_1","kind":"payment.succeeded"}`)

	assert.True(t, VerifyWebhook(body, sign(body, "whsec_1"), "whsec_1"))
	assert.False(t, VerifyWebhook(body, sign(body, "whsec_2"), "whsec_1"))
	assert.False(t, VerifyWebhook(body, "deadbeef", "whsec_1"))
	assert.False(t, VerifyWebhook([]byte(`tampered`), sign(body, "whsec_1"), "whsec_1"))
}
