package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// Order is the subset of the gateway order the booking core needs, plus the
// raw response for the client-side payment widget.
type Order struct {
	ID          string
	AmountPaise int64
	Currency    string
	Raw         map[string]interface{}
}

// PaymentGateway creates payment orders and verifies callback signatures.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string, notes map[string]interface{}) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}

// RazorpayGateway implements PaymentGateway against the Razorpay API.
type RazorpayGateway struct {
	client    *razorpay.Client
	keyID     string
	keySecret string
}

// externalCallTimeoutSec bounds every gateway API call.
const externalCallTimeoutSec = 10

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	client := razorpay.NewClient(keyID, keySecret)
	client.SetTimeout(externalCallTimeoutSec)
	return &RazorpayGateway{
		client:    client,
		keyID:     keyID,
		keySecret: keySecret,
	}
}

func (g *RazorpayGateway) KeyID() string {
	return g.keyID
}

// CreateOrder creates a gateway order for the given amount in minor currency
// units. A timeout or API failure surfaces as a gateway error to the caller.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string, notes map[string]interface{}) (*Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"amount":   amountPaise,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		data["notes"] = notes
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order creation failed: %w", err)
	}

	orderID, ok := body["id"].(string)
	if !ok || orderID == "" {
		return nil, fmt.Errorf("razorpay order response missing id")
	}

	return &Order{
		ID:          orderID,
		AmountPaise: amountPaise,
		Currency:    currency,
		Raw:         body,
	}, nil
}

// VerifySignature checks the callback HMAC-SHA256 signature computed over
// "orderID|paymentID" with the key secret. Any malformed input compares
// unequal, never panics.
func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
