package order

import (
	"errors"
	"strings"
)

var ErrInvalidPaymentMethod = errors.New("invalid payment method")

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "cod"
	PaymentOnline PaymentMethod = "online"
)

func ParsePaymentMethod(v string) (PaymentMethod, error) {
	switch m := PaymentMethod(strings.ToLower(strings.TrimSpace(v))); m {
	case PaymentCOD, PaymentOnline:
		return m, nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}

// Label is the text the shop owner sees in the record and the message.
func (m PaymentMethod) Label() string {
	if m == PaymentOnline {
		return "PAID ONLINE (Verify QR)"
	}
	return "Cash on Delivery"
}
