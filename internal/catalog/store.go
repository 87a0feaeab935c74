package catalog

import "github.com/gamedex-io/gamedex/pkg/protocol"

// Store is the persistence interface for the product catalog.
type Store interface {
	// ListAll returns every product, ordered by name.
	ListAll() ([]protocol.ProductRecord, error)
	// FindByNameSubstring returns products whose name contains text.
	FindByNameSubstring(text string) ([]protocol.ProductRecord, error)
	// FindByCategory returns products with the exact category.
	FindByCategory(category string) ([]protocol.ProductRecord, error)
	// FindByPlatform returns products with the exact platform.
	FindByPlatform(platform string) ([]protocol.ProductRecord, error)
	// FindByPriceRange returns products with min <= price <= max, ordered by price.
	FindByPriceRange(min, max float64) ([]protocol.ProductRecord, error)
	// Create inserts a product and returns the stored record.
	Create(name, category string, price float64, platform string, featured bool) (*protocol.ProductRecord, error)
	// ListFeatured returns the featured products.
	ListFeatured() ([]protocol.ProductRecord, error)
	// FindSimilar returns up to 10 products sharing the base product's
	// category or platform, excluding the base itself. The base is the first
	// product whose name contains baseName; if none matches, the result is
	// empty with no error.
	FindSimilar(baseName string) ([]protocol.ProductRecord, error)
}

// ValidationError is a business-rule rejection. Its message is written for
// the caller and passes through the dispatch boundary verbatim.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }
