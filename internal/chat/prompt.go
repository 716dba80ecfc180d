package chat

import (
	"fmt"
	"strings"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/messaging"
)

const (
	BotName  = "PantherBot"
	Greeting = "Hello! I'm PantherBot. Looking for something specific or need a gift idea?"

	// OfflineReply is returned whenever the model cannot be reached.
	OfflineReply = "I am currently offline. Please browse our catalog manually."
	// EmptyReply is returned when the model answers with no text.
	EmptyReply = "I'm having trouble connecting to the Vibranium network. Please try again."

	ReturnsPolicy = "We offer 7-day returns and free shipping on prepaid orders."
)

// SystemInstruction briefs the model on the store and its full catalog.
func SystemInstruction(storeName string, products []catalog.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are '%s', the AI sales assistant for the %s store.\n\n", BotName, storeName)

	b.WriteString("Our Product Catalog:\n")
	for _, p := range products {
		fmt.Fprintf(&b, "- %s (%s): ₹%s. %s\n", p.Name, p.Category, messaging.FormatAmount(p.Price), p.Description)
	}

	b.WriteString("\nGoal: Help customers find products, compare prices, or check details.\n")
	fmt.Fprintf(&b, "Tone: Sleek, professional, helpful, slightly mysterious/cool (like the %s theme).\n", storeName)
	b.WriteString("Currency: INR (₹).\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("1. Only recommend products from our catalog.\n")
	b.WriteString("2. Keep answers concise (under 50 words unless detail is requested).\n")
	fmt.Fprintf(&b, "3. If asked about shipping/returns, say %q\n", ReturnsPolicy)
	return b.String()
}
