package models

// Variant is a single purchasable variation of a product, as published
// in the storefront's products.json feed.
type Variant struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Price     string `json:"price"` // kept as a string to preserve the storefront's exact formatting
	Available bool   `json:"available"`
}

// Image is one product image entry from the catalog feed.
type Image struct {
	Src string `json:"src"`
}

// Product is a structure for storing data for one catalog product as
// fetched from a storefront.
type Product struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Handle    string    `json:"handle"`
	UpdatedAt string    `json:"updated_at"` // opaque timestamp, compared for equality only
	Images    []Image   `json:"images"`
	Variants  []Variant `json:"variants"`
}
