package order

import "time"

type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// Order is an immutable snapshot of a checkout. It carries no identifier.
type Order struct {
	PlacedAt      time.Time     `json:"placedAt"`
	Customer      Details       `json:"customer"`
	Address       string        `json:"address"`
	Items         []Item        `json:"items"`
	TotalAmount   float64       `json:"totalAmount"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Status        Status        `json:"status"`
}

// Payload is the flat record sent to the record-keeping sink.
type Payload struct {
	Date          string  `json:"date"`
	CustomerName  string  `json:"customerName"`
	Phone         string  `json:"phone"`
	Email         string  `json:"email,omitempty"`
	Address       string  `json:"address"`
	Items         string  `json:"items"`
	TotalAmount   float64 `json:"totalAmount"`
	PaymentMethod string  `json:"paymentMethod"`
	Status        string  `json:"status"`
}

// PaymentInstructions tells the customer how to pay. UPI fields are set only
// for online payment.
type PaymentInstructions struct {
	Method    PaymentMethod `json:"method"`
	Label     string        `json:"label"`
	Amount    float64       `json:"amount"`
	UPIID     string        `json:"upiId,omitempty"`
	UPILink   string        `json:"upiLink,omitempty"`
	QRCodeURL string        `json:"qrCodeUrl,omitempty"`
}

// Assembly is everything produced by a successful checkout.
type Assembly struct {
	Order        Order               `json:"order"`
	Payload      Payload             `json:"payload"`
	Message      string              `json:"message"`
	WhatsAppLink string              `json:"whatsappLink"`
	Payment      PaymentInstructions `json:"payment"`
}
