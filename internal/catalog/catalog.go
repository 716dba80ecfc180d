package catalog

import (
	"fmt"
	"math"
	"strings"
)

// Catalog is the ordered, read-only product list for the lifetime of the process.
// Catalog order is the "featured" order and the tie-breaker for every sort.
type Catalog struct {
	products []Product
	byID     map[string]int
}

// New validates products and returns a catalog holding its own copy of them.
func New(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}

	for i, p := range products {
		if strings.TrimSpace(p.ID) == "" {
			return nil, fmt.Errorf("product %d: id is required", i)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("product %s: duplicate id", p.ID)
		}
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("product %s: name is required", p.ID)
		}
		if p.Price < 0 || math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
			return nil, fmt.Errorf("product %s: invalid price %v", p.ID, p.Price)
		}

		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}

	return c, nil
}

func (c *Catalog) Len() int { return len(c.products) }

// Products returns a copy of the catalog in original order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) Find(id string) (Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return c.products[i], nil
}

// Featured returns the first n products, the home page selection.
func (c *Catalog) Featured(n int) []Product {
	if n < 0 {
		n = 0
	}
	if n > len(c.products) {
		n = len(c.products)
	}
	out := make([]Product, n)
	copy(out, c.products[:n])
	return out
}
