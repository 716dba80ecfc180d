package catalog

import (
	"cmp"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const AllCategories = "All"

type SortOrder string

const (
	SortFeatured  SortOrder = "featured"
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
	SortNameAsc   SortOrder = "name-asc"
	SortNameDesc  SortOrder = "name-desc"
)

// ParseSortOrder maps unknown values to SortFeatured.
func ParseSortOrder(v string) SortOrder {
	switch s := SortOrder(strings.TrimSpace(v)); s {
	case SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc:
		return s
	default:
		return SortFeatured
	}
}

// FilterCriteria drives Query. Nil price bounds mean "no bound".
type FilterCriteria struct {
	Search      string    `json:"search,omitempty"`
	Category    string    `json:"category"`
	MinPrice    *float64  `json:"minPrice,omitempty"`
	MaxPrice    *float64  `json:"maxPrice,omitempty"`
	InStockOnly bool      `json:"inStockOnly"`
	Sort        SortOrder `json:"sort"`
}

// DefaultCriteria shows the whole catalog in featured order.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{Category: AllCategories, Sort: SortFeatured}
}

// RawCriteria is criteria as typed by a user: every field is free text.
type RawCriteria struct {
	Search   string `json:"search"`
	Category string `json:"category"`
	MinPrice string `json:"minPrice"`
	MaxPrice string `json:"maxPrice"`
	InStock  string `json:"inStock"`
	Sort     string `json:"sort"`
}

// ParseCriteria never fails: anything unusable falls back to its default.
func ParseCriteria(raw RawCriteria) FilterCriteria {
	c := DefaultCriteria()
	c.Search = strings.TrimSpace(raw.Search)
	if cat := strings.TrimSpace(raw.Category); cat != "" {
		c.Category = cat
	}
	c.MinPrice = parseBound(raw.MinPrice)
	c.MaxPrice = parseBound(raw.MaxPrice)
	c.InStockOnly, _ = strconv.ParseBool(strings.TrimSpace(raw.InStock))
	c.Sort = ParseSortOrder(raw.Sort)
	return c
}

func parseBound(v string) *float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func (f FilterCriteria) bounds() (float64, float64) {
	lo, hi := 0.0, math.Inf(1)
	if f.MinPrice != nil {
		lo = *f.MinPrice
	}
	if f.MaxPrice != nil {
		hi = *f.MaxPrice
	}
	return lo, hi
}

// Query runs the filter and sort pipeline. Each stage works on the output of
// the previous one; the catalog itself is never modified.
func (c *Catalog) Query(f FilterCriteria) []Product {
	result := c.Products()
	result = searchStage(result, f.Search)
	result = categoryStage(result, f.Category)
	result = priceStage(result, f)
	result = availabilityStage(result, f.InStockOnly)
	sortStage(result, f.Sort)
	return result
}

func searchStage(in []Product, term string) []Product {
	if term == "" {
		return in
	}
	term = strings.ToLower(term)
	return slices.DeleteFunc(in, func(p Product) bool {
		return !strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Category), term)
	})
}

func categoryStage(in []Product, category string) []Product {
	if category == "" || category == AllCategories {
		return in
	}
	return slices.DeleteFunc(in, func(p Product) bool { return p.Category != category })
}

func priceStage(in []Product, f FilterCriteria) []Product {
	lo, hi := f.bounds()
	return slices.DeleteFunc(in, func(p Product) bool { return p.Price < lo || p.Price > hi })
}

// availabilityStage is where stock filtering belongs. Products carry no stock
// data yet, so the in-stock switch passes everything through.
func availabilityStage(in []Product, inStockOnly bool) []Product {
	if !inStockOnly {
		return in
	}
	return slices.DeleteFunc(in, func(p Product) bool { return !inStock(p) })
}

func inStock(Product) bool { return true }

// sortStage leaves SortFeatured input untouched: the earlier stages preserve
// catalog order.
func sortStage(in []Product, order SortOrder) {
	var less func(a, b Product) int
	switch order {
	case SortPriceAsc:
		less = func(a, b Product) int { return cmp.Compare(a.Price, b.Price) }
	case SortPriceDesc:
		less = func(a, b Product) int { return cmp.Compare(b.Price, a.Price) }
	case SortNameAsc, SortNameDesc:
		// A Collator is not safe for concurrent use.
		col := collate.New(language.English)
		if order == SortNameAsc {
			less = func(a, b Product) int { return col.CompareString(a.Name, b.Name) }
		} else {
			less = func(a, b Product) int { return col.CompareString(b.Name, a.Name) }
		}
	default:
		return
	}
	slices.SortStableFunc(in, less)
}

// Facets lists "All" followed by the sorted distinct categories of the full
// catalog, independent of any criteria.
func (c *Catalog) Facets() []string {
	seen := make(map[string]struct{})
	var cats []string
	for _, p := range c.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		cats = append(cats, p.Category)
	}
	sort.Strings(cats)
	return append([]string{AllCategories}, cats...)
}
