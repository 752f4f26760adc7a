package domain

import (
	"context"
	"time"
)

// Booth is a vendor's stall at one event; one booth per (event, vendor).
// swagger:model Booth
type Booth struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	VendorID  string    `json:"vendor_id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Product is an item sold at a booth. PriceCents avoids float money math.
// swagger:model Product
type Product struct {
	ID         string    `json:"id"`
	BoothID    string    `json:"booth_id"`
	Name       string    `json:"name"`
	PriceCents int       `json:"price_cents"`
	Stock      int       `json:"stock"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Sale records one purchase of a product at a booth.
// swagger:model Sale
type Sale struct {
	ID         string    `json:"id"`
	BoothID    string    `json:"booth_id"`
	ProductID  string    `json:"product_id"`
	Quantity   int       `json:"quantity"`
	TotalCents int       `json:"total_cents"`
	CreatedAt  time.Time `json:"created_at"`
}

// SalesSummary aggregates a booth's sales.
type SalesSummary struct {
	BoothID         string `json:"booth_id"`
	SaleCount       int    `json:"sale_count"`
	UnitsSold       int    `json:"units_sold"`
	GrossTotalCents int    `json:"gross_total_cents"`
}

// VendorRepository defines storage operations for booths, products, and sales.
type VendorRepository interface {
	CreateBooth(ctx context.Context, booth *Booth) error
	GetBoothByID(ctx context.Context, boothID string) (*Booth, error)
	GetBoothByEventAndVendor(ctx context.Context, eventID, vendorID string) (*Booth, error)
	ListBoothsByEventID(ctx context.Context, eventID string) ([]*Booth, error)

	CreateProduct(ctx context.Context, product *Product) error
	GetProductByID(ctx context.Context, productID string) (*Product, error)
	ListProductsByBoothID(ctx context.Context, boothID string) ([]*Product, error)

	// RecordSale atomically decrements the product's stock and inserts the
	// sale row. Fails with ErrInsufficientStock when stock would go negative.
	RecordSale(ctx context.Context, sale *Sale) error
	ListSalesByBoothID(ctx context.Context, boothID string) ([]*Sale, error)
	SalesSummaryByBoothID(ctx context.Context, boothID string) (*SalesSummary, error)
}

// VendorService defines vendor-portal operations. All booth-scoped calls
// verify the booth belongs to the calling vendor.
type VendorService interface {
	ClaimBooth(ctx context.Context, eventID, vendorID, name, location string) (*Booth, error)
	MyBooth(ctx context.Context, eventID, vendorID string) (*Booth, error)
	AddProduct(ctx context.Context, boothID, vendorID, name string, priceCents, stock int) (*Product, error)
	ListProducts(ctx context.Context, boothID, vendorID string) ([]*Product, error)
	RecordSale(ctx context.Context, boothID, vendorID, productID string, quantity int) (*Sale, error)
	ListSales(ctx context.Context, boothID, vendorID string) ([]*Sale, error)
	SalesSummary(ctx context.Context, boothID, vendorID string) (*SalesSummary, error)
}
