package messaging

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

const (
	whatsAppBase = "https://wa.me/"
	qrServerBase = "https://api.qrserver.com/v1/create-qr-code/"
	qrSize       = "200x200"
)

var spaceFix = strings.NewReplacer("+", "%20")

// EncodeComponent escapes s for use inside a query value. Spaces become %20.
func EncodeComponent(s string) string {
	return spaceFix.Replace(url.QueryEscape(s))
}

// WhatsAppLink builds the wa.me deep link that opens a chat with number and
// text pre-filled. number is digits only, country code first.
func WhatsAppLink(number, text string) string {
	return whatsAppBase + strings.TrimPrefix(strings.TrimSpace(number), "+") + "?text=" + EncodeComponent(text)
}

// FormatAmount renders a rupee amount without a trailing ".0".
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// UPILink is a upi://pay intent for the given payee and amount in INR.
func UPILink(upiID, storeName string, amount float64) string {
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%s&cu=INR",
		upiID, EncodeComponent(storeName+" Store"), FormatAmount(amount))
}

// QRCodeURL returns an image URL whose QR code encodes data.
func QRCodeURL(data string) string {
	return qrServerBase + "?size=" + qrSize + "&data=" + EncodeComponent(data)
}

// Share is what a client hands to the native share sheet, or copies to the
// clipboard (URL only) when there is none.
type Share struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

// ProductShare returns share data pointing at the canonical product page.
func ProductShare(baseURL, storeName string, p catalog.Product) Share {
	return Share{
		Title: p.Name,
		Text:  fmt.Sprintf("Check out %s on %s Store!", p.Name, storeName),
		URL:   strings.TrimRight(baseURL, "/") + "/product/" + url.PathEscape(p.ID),
	}
}
