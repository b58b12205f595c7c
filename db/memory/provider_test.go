package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquaswift/aquaswift-api/db"
	"github.com/aquaswift/aquaswift-api/types"
)

func TestProvider_ProductLifecycle(t *testing.T) {
	ctx := context.Background()
	p := NewProvider()

	id, err := p.CreateProduct(ctx, types.Product{
		Name:     "AquaSwift Compact",
		Price:    149.99,
		Features: []string{"5-Stage RO+UV", "Leak-proof"},
	})
	require.NoError(t, err)

	products, err := p.GetAllProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, id, products[0].ID)
	assert.Equal(t, []string{"5-Stage RO+UV", "Leak-proof"}, products[0].Features)

	require.NoError(t, p.DeleteProduct(ctx, id))

	products, err = p.GetAllProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)

	var notFound *db.NotFoundError
	assert.ErrorAs(t, p.DeleteProduct(ctx, id), &notFound)
}

func TestProvider_DeleteInvalidID(t *testing.T) {
	p := NewProvider()

	var invalid *db.InvalidIDError
	assert.ErrorAs(t, p.DeleteProduct(context.Background(), "not-a-valid-id"), &invalid)
	assert.ErrorAs(t, p.DeleteTestimonial(context.Background(), "not-a-valid-id"), &invalid)
}

func TestProvider_TestimonialLifecycle(t *testing.T) {
	ctx := context.Background()
	p := NewProvider()

	first, err := p.CreateTestimonial(ctx, types.Testimonial{Name: "Priya", Quote: "Great"})
	require.NoError(t, err)
	second, err := p.CreateTestimonial(ctx, types.Testimonial{Name: "Tom", Quote: "Clean"})
	require.NoError(t, err)

	testimonials, err := p.GetAllTestimonials(ctx)
	require.NoError(t, err)
	require.Len(t, testimonials, 2)
	assert.Equal(t, first, testimonials[0].ID)
	assert.Equal(t, second, testimonials[1].ID)

	require.NoError(t, p.DeleteTestimonial(ctx, first))
	testimonials, err = p.GetAllTestimonials(ctx)
	require.NoError(t, err)
	require.Len(t, testimonials, 1)
	assert.Equal(t, second, testimonials[0].ID)
}

func TestProvider_CompanyDetailsSingleton(t *testing.T) {
	ctx := context.Background()
	p := NewProvider()

	details, err := p.GetCompanyDetails(ctx)
	require.NoError(t, err)
	assert.Nil(t, details)

	result, err := p.UpsertCompanyDetails(ctx, "Acme", "")
	require.NoError(t, err)
	require.NotNil(t, result.UpsertedID)
	assert.Equal(t, 1, p.CountCompanyDetails())

	result, err = p.UpsertCompanyDetails(ctx, "Acme2", "https://i.ibb.co/logo.png")
	require.NoError(t, err)
	assert.Nil(t, result.UpsertedID)
	assert.Equal(t, int64(1), result.MatchedCount)
	assert.Equal(t, int64(1), result.ModifiedCount)
	assert.Equal(t, 1, p.CountCompanyDetails())

	details, err = p.GetCompanyDetails(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme2", details.Name)
	assert.Equal(t, types.CompanyDetailsID, details.ID)
}

func TestProvider_ConcurrentUpsertsKeepOneDocument(t *testing.T) {
	ctx := context.Background()
	p := NewProvider()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = p.UpsertCompanyDetails(ctx, "Acme", "")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, p.CountCompanyDetails())
}
