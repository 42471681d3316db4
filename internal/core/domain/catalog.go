// internal/core/domain/catalog.go
package domain

// Catalog is the result of one listing operation. The shell validates
// entered item ids against the catalog it displayed, not against global state.
type Catalog struct {
	products []Product
	index    map[int64]int
}

// NewCatalog builds a catalog from listed products
func NewCatalog(products []Product) *Catalog {
	c := &Catalog{
		products: make([]Product, len(products)),
		index:    make(map[int64]int, len(products)),
	}
	copy(c.products, products)
	for i, p := range c.products {
		c.index[p.ItemID] = i
	}
	return c
}

// Products returns the listed products in listing order
func (c *Catalog) Products() []Product {
	if c == nil {
		return nil
	}
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Has reports whether the item id was part of this listing
func (c *Catalog) Has(itemID int64) bool {
	if c == nil {
		return false
	}
	_, ok := c.index[itemID]
	return ok
}

// Get returns the listed product with the given id
func (c *Catalog) Get(itemID int64) (Product, bool) {
	if c == nil {
		return Product{}, false
	}
	i, ok := c.index[itemID]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// Len returns the number of listed products
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.products)
}
