package memory

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aquaswift/aquaswift-api/db"
	"github.com/aquaswift/aquaswift-api/types"
)

// Provider is an in-process implementation of db.Provider,
// used for local development without a MongoDB deployment and in tests.
// Identifiers are generated ObjectIDs so they validate the same way
// as the MongoDB provider's
type Provider struct {
	sync.Mutex
	products       []types.Product
	testimonials   []types.Testimonial
	companyDetails *types.CompanyDetails
}

// NewProvider creates an empty store
func NewProvider() *Provider {
	return &Provider{
		products:     []types.Product{},
		testimonials: []types.Testimonial{},
	}
}

// Connect is a no-op
func (p *Provider) Connect(ctx context.Context) error {
	return nil
}

// Disconnect is a no-op
func (p *Provider) Disconnect(ctx context.Context) error {
	return nil
}

// Ping always succeeds
func (p *Provider) Ping(ctx context.Context) error {
	return nil
}

// GetAllProducts lists every product in insertion order
func (p *Provider) GetAllProducts(ctx context.Context) ([]types.Product, error) {
	p.Lock()
	defer p.Unlock()

	products := make([]types.Product, 0, len(p.products))
	for _, product := range p.products {
		product.Features = append([]string{}, product.Features...)
		products = append(products, product)
	}

	return products, nil
}

// CreateProduct stores the product under a new ID
func (p *Provider) CreateProduct(ctx context.Context, product types.Product) (string, error) {
	p.Lock()
	defer p.Unlock()

	product.ID = primitive.NewObjectID().Hex()
	product.Features = append([]string{}, product.Features...)
	p.products = append(p.products, product)
	return product.ID, nil
}

// DeleteProduct removes the product with the given ID
func (p *Provider) DeleteProduct(ctx context.Context, id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return db.NewInvalidIDError(id)
	}

	p.Lock()
	defer p.Unlock()

	for i, product := range p.products {
		if product.ID == id {
			p.products = append(p.products[:i], p.products[i+1:]...)
			return nil
		}
	}

	return db.NewNotFoundError(id)
}

// GetAllTestimonials lists every testimonial in insertion order
func (p *Provider) GetAllTestimonials(ctx context.Context) ([]types.Testimonial, error) {
	p.Lock()
	defer p.Unlock()

	return append([]types.Testimonial{}, p.testimonials...), nil
}

// CreateTestimonial stores the testimonial under a new ID
func (p *Provider) CreateTestimonial(ctx context.Context, testimonial types.Testimonial) (string, error) {
	p.Lock()
	defer p.Unlock()

	testimonial.ID = primitive.NewObjectID().Hex()
	p.testimonials = append(p.testimonials, testimonial)
	return testimonial.ID, nil
}

// DeleteTestimonial removes the testimonial with the given ID
func (p *Provider) DeleteTestimonial(ctx context.Context, id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return db.NewInvalidIDError(id)
	}

	p.Lock()
	defer p.Unlock()

	for i, testimonial := range p.testimonials {
		if testimonial.ID == id {
			p.testimonials = append(p.testimonials[:i], p.testimonials[i+1:]...)
			return nil
		}
	}

	return db.NewNotFoundError(id)
}

// GetCompanyDetails returns a copy of the singleton, or nil before the first save
func (p *Provider) GetCompanyDetails(ctx context.Context) (*types.CompanyDetails, error) {
	p.Lock()
	defer p.Unlock()

	if p.companyDetails == nil {
		return nil, nil
	}

	details := *p.companyDetails
	return &details, nil
}

// UpsertCompanyDetails creates or replaces the singleton's name and logo
func (p *Provider) UpsertCompanyDetails(ctx context.Context, name string, logoURL string) (*types.UpsertResult, error) {
	p.Lock()
	defer p.Unlock()

	if p.companyDetails == nil {
		p.companyDetails = &types.CompanyDetails{
			ID:      types.CompanyDetailsID,
			Name:    name,
			LogoURL: logoURL,
		}
		upsertedID := types.CompanyDetailsID
		return &types.UpsertResult{Acknowledged: true, UpsertedID: &upsertedID}, nil
	}

	var modified int64
	if p.companyDetails.Name != name || p.companyDetails.LogoURL != logoURL {
		modified = 1
	}
	p.companyDetails.Name = name
	p.companyDetails.LogoURL = logoURL

	return &types.UpsertResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: modified}, nil
}

// CountCompanyDetails reports how many company details documents exist (zero or one)
func (p *Provider) CountCompanyDetails() int {
	p.Lock()
	defer p.Unlock()

	if p.companyDetails == nil {
		return 0
	}
	return 1
}
