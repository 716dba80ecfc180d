package order

import (
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

func validDetails() Details {
	return Details{
		FullName: "T'Challa",
		Phone:    "9876543210",
		HouseNo:  "12B",
		Area:     "Golden City",
		Locality: "Birnin Zana",
		City:     "Kolkata",
		State:    "West Bengal",
		Pincode:  "700001",
	}
}

func sampleCart() *cart.Store {
	s := cart.NewStore()
	s.AddItem(catalog.Product{ID: "1", Name: "Stealth Smartwatch Ultra", Price: 2999})
	s.AddItem(catalog.Product{ID: "2", Name: "Panther Bass Earbuds", Price: 1499})
	s.AddItem(catalog.Product{ID: "2", Name: "Panther Bass Earbuds", Price: 1499})
	return s
}

func fixedAssembler(at time.Time) *Assembler {
	return &Assembler{
		StoreName:      "BLACKPANTHER",
		WhatsAppNumber: "916289204920",
		OwnerEmail:     "owner@example.com",
		UPIID:          "shop@oksbi",
		Now:            func() time.Time { return at },
	}
}

func TestAssembleRejects(t *testing.T) {
	a := fixedAssembler(time.Now())

	tests := map[string]struct {
		lines   []cart.Line
		details func(d *Details)
		method  PaymentMethod
		check   func(t *testing.T, err error)
	}{
		"empty cart": {
			lines:  nil,
			method: PaymentCOD,
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, ErrEmptyCart))
			},
		},
		"short phone": {
			lines:   sampleCart().Lines(),
			details: func(d *Details) { d.Phone = "98765" },
			method:  PaymentCOD,
			check: func(t *testing.T, err error) {
				var ve *ValidationError
				require.True(t, errors.As(err, &ve))
				assert.Equal(t, map[string]string{"phone": "must be exactly 10 digits"}, ve.Fields)
			},
		},
		"letters in pincode": {
			lines:   sampleCart().Lines(),
			details: func(d *Details) { d.Pincode = "70000A" },
			method:  PaymentOnline,
			check: func(t *testing.T, err error) {
				var ve *ValidationError
				require.True(t, errors.As(err, &ve))
				assert.Contains(t, ve.Fields, "pincode")
			},
		},
		"blank name": {
			lines:   sampleCart().Lines(),
			details: func(d *Details) { d.FullName = "   " },
			method:  PaymentCOD,
			check: func(t *testing.T, err error) {
				var ve *ValidationError
				require.True(t, errors.As(err, &ve))
				assert.Equal(t, "is required", ve.Fields["fullName"])
			},
		},
		"unknown payment": {
			lines:  sampleCart().Lines(),
			method: PaymentMethod("crypto"),
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, ErrInvalidPaymentMethod))
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			d := validDetails()
			if tc.details != nil {
				tc.details(&d)
			}
			got, err := a.Assemble(tc.lines, d, tc.method)
			require.Error(t, err)
			assert.Nil(t, got)
			tc.check(t, err)
		})
	}
}

func TestAssembleTotalMatchesCart(t *testing.T) {
	c := sampleCart()
	got, err := fixedAssembler(time.Now()).Assemble(c.Lines(), validDetails(), PaymentCOD)
	require.NoError(t, err)

	assert.Equal(t, c.TotalAmount(), got.Order.TotalAmount)
	assert.Equal(t, c.TotalAmount(), got.Payload.TotalAmount)
	assert.Equal(t, StatusNew, got.Order.Status)
	require.Len(t, got.Order.Items, 2)
	assert.Equal(t, Item{ProductID: "2", Name: "Panther Bass Earbuds", Quantity: 2, UnitPrice: 1499}, got.Order.Items[1])
}

func TestAssemblePayload(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
	got, err := fixedAssembler(at).Assemble(sampleCart().Lines(), validDetails(), PaymentOnline)
	require.NoError(t, err)

	assert.Equal(t, Payload{
		Date:          "2026-03-01T05:00:00Z",
		CustomerName:  "T'Challa",
		Phone:         "9876543210",
		Email:         "owner@example.com",
		Address:       "12B, Golden City, Birnin Zana, Kolkata, West Bengal - 700001",
		Items:         "Stealth Smartwatch Ultra x1, Panther Bass Earbuds x2",
		TotalAmount:   5997,
		PaymentMethod: "PAID ONLINE (Verify QR)",
		Status:        "New",
	}, got.Payload)
}

func TestAssembleMessageAndLink(t *testing.T) {
	got, err := fixedAssembler(time.Now()).Assemble(sampleCart().Lines(), validDetails(), PaymentCOD)
	require.NoError(t, err)

	want := strings.Join([]string{
		"*🐯 NEW ORDER ALERT - BLACKPANTHER*",
		"--------------------------------",
		"*👤 Customer Details:*",
		"Name: T'Challa",
		"Phone: 9876543210",
		"Address: 12B, Golden City, Birnin Zana, Kolkata, West Bengal - 700001",
		"",
		"*🛒 Order Summary:*",
		"• Stealth Smartwatch Ultra (x1)",
		"• Panther Bass Earbuds (x2)",
		"",
		"*💰 Total Amount:* ₹5997",
		"*💳 Payment:* Cash on Delivery",
		"--------------------------------",
		"Please confirm dispatch timeline.",
	}, "\n")
	assert.Equal(t, want, got.Message)

	u, err := url.Parse(got.WhatsAppLink)
	require.NoError(t, err)
	assert.Equal(t, "wa.me", u.Host)
	assert.Equal(t, "/916289204920", u.Path)
	assert.Equal(t, want, u.Query().Get("text"))
}

func TestAssemblePaymentInstructions(t *testing.T) {
	a := fixedAssembler(time.Now())

	cod, err := a.Assemble(sampleCart().Lines(), validDetails(), PaymentCOD)
	require.NoError(t, err)
	assert.Empty(t, cod.Payment.UPILink)
	assert.Empty(t, cod.Payment.QRCodeURL)
	assert.Equal(t, 5997.0, cod.Payment.Amount)

	online, err := a.Assemble(sampleCart().Lines(), validDetails(), PaymentOnline)
	require.NoError(t, err)
	assert.Equal(t, "shop@oksbi", online.Payment.UPIID)
	assert.Equal(t, "upi://pay?pa=shop@oksbi&pn=BLACKPANTHER%20Store&am=5997&cu=INR", online.Payment.UPILink)
	assert.True(t, strings.HasPrefix(online.Payment.QRCodeURL, "https://api.qrserver.com/v1/create-qr-code/?size=200x200&data="))
}

func TestAssembleTrimsDetails(t *testing.T) {
	d := validDetails()
	d.Phone = " 9876543210 "
	d.City = "  Kolkata\t"

	got, err := fixedAssembler(time.Now()).Assemble(sampleCart().Lines(), d, " COD ")
	require.NoError(t, err)
	assert.Equal(t, "9876543210", got.Payload.Phone)
	assert.Contains(t, got.Payload.Address, ", Kolkata, ")
	assert.Equal(t, PaymentCOD, got.Order.PaymentMethod)
}

// Two assemblies of the same input differ only in the timestamp.
func TestAssembleIsDeterministicApartFromDate(t *testing.T) {
	c := sampleCart()
	first, err := fixedAssembler(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)).Assemble(c.Lines(), validDetails(), PaymentOnline)
	require.NoError(t, err)
	second, err := fixedAssembler(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)).Assemble(c.Lines(), validDetails(), PaymentOnline)
	require.NoError(t, err)

	assert.NotEqual(t, first.Payload.Date, second.Payload.Date)
	first.Payload.Date, second.Payload.Date = "", ""
	first.Order.PlacedAt, second.Order.PlacedAt = time.Time{}, time.Time{}
	assert.Equal(t, first.Payload, second.Payload)
	assert.Equal(t, first.Order, second.Order)
	assert.Equal(t, first.Message, second.Message)
}

func TestAssembleDoesNotMutateCart(t *testing.T) {
	c := sampleCart()
	before := c.Snapshot()

	_, err := fixedAssembler(time.Now()).Assemble(c.Lines(), validDetails(), PaymentCOD)
	require.NoError(t, err)
	assert.Equal(t, before, c.Snapshot())
}
