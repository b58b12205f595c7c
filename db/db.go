package db

import (
	"context"

	"github.com/aquaswift/aquaswift-api/types"
)

// Provider represents a database provider implementation
type Provider interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Ping(ctx context.Context) error

	ProductProvider
	TestimonialProvider
	CompanyDetailsProvider
}

// ProductProvider provides list/create/delete operations for types.Product structs
type ProductProvider interface {
	GetAllProducts(ctx context.Context) ([]types.Product, error)
	CreateProduct(ctx context.Context, product types.Product) (string, error)
	DeleteProduct(ctx context.Context, id string) error
}

// TestimonialProvider provides list/create/delete operations for types.Testimonial structs
type TestimonialProvider interface {
	GetAllTestimonials(ctx context.Context) ([]types.Testimonial, error)
	CreateTestimonial(ctx context.Context, testimonial types.Testimonial) (string, error)
	DeleteTestimonial(ctx context.Context, id string) error
}

// CompanyDetailsProvider reads and writes the singleton types.CompanyDetails document.
// GetCompanyDetails returns nil (and no error) before the first save
type CompanyDetailsProvider interface {
	GetCompanyDetails(ctx context.Context) (*types.CompanyDetails, error)
	UpsertCompanyDetails(ctx context.Context, name string, logoURL string) (*types.UpsertResult, error)
}
