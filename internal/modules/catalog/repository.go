package catalog

import "context"

// Repository defines data access for vendor products.
type Repository interface {
	// CreateProduct persists a new vendor product.
	CreateProduct(ctx context.Context, p *VendorProduct) error

	// GetProductByID retrieves a vendor product by UUID.
	GetProductByID(ctx context.Context, id string) (*VendorProduct, error)

	// ListProductsByVendor returns a vendor's products, optionally by status.
	ListProductsByVendor(ctx context.Context, vendorID string, status string) ([]*VendorProduct, error)

	// ListPublishedByCategory returns published products in a category.
	ListPublishedByCategory(ctx context.Context, categoryID string) ([]*VendorProduct, error)

	// UpdateProduct overwrites the stored product with the given value.
	UpdateProduct(ctx context.Context, p *VendorProduct) error
}
