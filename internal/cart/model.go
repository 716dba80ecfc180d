package cart

import "github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"

type Line struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

func (l Line) Subtotal() float64 {
	return l.Product.Price * float64(l.Quantity)
}

// Snapshot is a read-only view of a cart for rendering.
type Snapshot struct {
	Items       []Line  `json:"items"`
	TotalAmount float64 `json:"totalAmount"`
	TotalCount  int     `json:"totalCount"`
}
