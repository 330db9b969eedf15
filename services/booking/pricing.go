package booking

import (
	"math"

	"clinicbook/models"
)

// fallbackSessionPrice backs a treatment with no configured price when the
// booking configuration carries no default either.
// TODO: reject unpriced treatments instead once pricing data is complete.
const fallbackSessionPrice = 10000

// PriceBreakdown is the deterministic pricing result, computed once at
// booking creation and persisted on the payment record.
type PriceBreakdown struct {
	BasePrice     float64
	Subtotal      float64
	Tax           float64
	CreditCardFee float64
	Total         float64
}

// ComputePrice prices a booking: base price per session times sessions, plus
// tax and, for card payments, the card surcharge. All amounts are rounded to
// currency precision so the total equals the sum of its parts exactly.
func ComputePrice(treatment *models.Treatment, cfg *models.BookingConfig, sessions int, paymentMethod string) PriceBreakdown {
	base := cfg.DefaultSessionPrice
	if base <= 0 {
		base = fallbackSessionPrice
	}
	if treatment != nil {
		if treatment.DiscountPricePerSession != nil && *treatment.DiscountPricePerSession > 0 {
			base = *treatment.DiscountPricePerSession
		} else if treatment.PricePerSession != nil && *treatment.PricePerSession > 0 {
			base = *treatment.PricePerSession
		}
	}

	subtotal := roundCurrency(base * float64(sessions))
	tax := roundCurrency(subtotal * cfg.TaxPercentage / 100)

	var cardFee float64
	if paymentMethod == models.PaymentMethodCard {
		cardFee = roundCurrency(subtotal * cfg.CreditCardFeePercentage / 100)
	}

	return PriceBreakdown{
		BasePrice:     base,
		Subtotal:      subtotal,
		Tax:           tax,
		CreditCardFee: cardFee,
		Total:         roundCurrency(subtotal + tax + cardFee),
	}
}

func roundCurrency(amount float64) float64 {
	return math.Round(amount*100) / 100
}
