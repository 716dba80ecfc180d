package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/messaging"
)

var ErrEmptyCart = errors.New("cart is empty")

const divider = "--------------------------------"

// Assembler turns a cart, delivery details and a payment choice into an
// Order plus the artifacts handed to the sink and the messaging app.
// It performs no I/O.
type Assembler struct {
	StoreName      string
	WhatsAppNumber string
	OwnerEmail     string
	UPIID          string

	// Now defaults to time.Now.
	Now func() time.Time
}

func (a *Assembler) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// Assemble rejects an empty cart with ErrEmptyCart, an unknown payment
// method with ErrInvalidPaymentMethod and bad details with *ValidationError.
func (a *Assembler) Assemble(lines []cart.Line, details Details, method PaymentMethod) (*Assembly, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	method, err := ParsePaymentMethod(string(method))
	if err != nil {
		return nil, err
	}
	if err := details.Validate(); err != nil {
		return nil, err
	}
	details = details.Trimmed()

	items := make([]Item, 0, len(lines))
	total := 0.0
	for _, l := range lines {
		items = append(items, Item{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.Product.Price,
		})
		total += l.Subtotal()
	}

	o := Order{
		PlacedAt:      a.now().UTC(),
		Customer:      details,
		Address:       details.FullAddress(),
		Items:         items,
		TotalAmount:   total,
		PaymentMethod: method,
		Status:        StatusNew,
	}

	msg := a.message(o)
	return &Assembly{
		Order:        o,
		Payload:      a.payload(o),
		Message:      msg,
		WhatsAppLink: messaging.WhatsAppLink(a.WhatsAppNumber, msg),
		Payment:      a.instructions(o),
	}, nil
}

func (a *Assembler) payload(o Order) Payload {
	summary := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		summary = append(summary, fmt.Sprintf("%s x%d", it.Name, it.Quantity))
	}
	return Payload{
		Date:          o.PlacedAt.Format(time.RFC3339),
		CustomerName:  o.Customer.FullName,
		Phone:         o.Customer.Phone,
		Email:         a.OwnerEmail,
		Address:       o.Address,
		Items:         strings.Join(summary, ", "),
		TotalAmount:   o.TotalAmount,
		PaymentMethod: o.PaymentMethod.Label(),
		Status:        string(o.Status),
	}
}

func (a *Assembler) message(o Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*🐯 NEW ORDER ALERT - %s*\n", a.StoreName)
	b.WriteString(divider + "\n")
	b.WriteString("*👤 Customer Details:*\n")
	fmt.Fprintf(&b, "Name: %s\n", o.Customer.FullName)
	fmt.Fprintf(&b, "Phone: %s\n", o.Customer.Phone)
	fmt.Fprintf(&b, "Address: %s\n", o.Address)
	b.WriteString("\n*🛒 Order Summary:*\n")
	for _, it := range o.Items {
		fmt.Fprintf(&b, "• %s (x%d)\n", it.Name, it.Quantity)
	}
	fmt.Fprintf(&b, "\n*💰 Total Amount:* ₹%s\n", messaging.FormatAmount(o.TotalAmount))
	fmt.Fprintf(&b, "*💳 Payment:* %s\n", o.PaymentMethod.Label())
	b.WriteString(divider + "\n")
	b.WriteString("Please confirm dispatch timeline.")
	return b.String()
}

func (a *Assembler) instructions(o Order) PaymentInstructions {
	p := PaymentInstructions{
		Method: o.PaymentMethod,
		Label:  o.PaymentMethod.Label(),
		Amount: o.TotalAmount,
	}
	if o.PaymentMethod == PaymentOnline {
		p.UPIID = a.UPIID
		p.UPILink = messaging.UPILink(a.UPIID, a.StoreName, o.TotalAmount)
		p.QRCodeURL = messaging.QRCodeURL(p.UPILink)
	}
	return p
}
