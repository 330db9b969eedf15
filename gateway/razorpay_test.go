package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	g := NewRazorpayGateway("rzp_test_key", "secret123")

	orderID, paymentID := "order_Abc123", "pay_Xyz789"
	good := sign("secret123", orderID, paymentID)

	assert.True(t, g.VerifySignature(orderID, paymentID, good))
	assert.False(t, g.VerifySignature(orderID, paymentID, sign("othersecret", orderID, paymentID)))
	assert.False(t, g.VerifySignature(orderID, "pay_other", good))
	assert.False(t, g.VerifySignature(orderID, paymentID, ""))
	assert.False(t, g.VerifySignature(orderID, paymentID, "not-hex-at-all"))
}
