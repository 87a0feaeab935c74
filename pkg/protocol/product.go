package protocol

// ProductRecord is one row of the product catalog.
type ProductRecord struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Price      float64 `json:"price"`
	Platform   string  `json:"platform"`
	IsFeatured bool    `json:"is_featured"`
}
