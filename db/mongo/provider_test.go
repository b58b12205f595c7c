package mongo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/aquaswift/aquaswift-api/db"
	"github.com/aquaswift/aquaswift-api/types"
)

const testDatabase = "aquaswift"

func TestResolveDatabaseName(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		explicit string
		want     string
		wantErr  bool
	}{
		{name: "explicit wins", uri: "mongodb://localhost:27017/fromuri", explicit: "override", want: "override"},
		{name: "from connection string", uri: "mongodb://localhost:27017/fromuri", want: "fromuri"},
		{name: "default", uri: "mongodb://localhost:27017", want: defaultDatabaseName},
		{name: "invalid uri", uri: "postgres://nope", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveDatabaseName(tt.uri, tt.explicit)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProvider_Products(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("list", func(mt *mtest.T) {
		p := NewProviderWithClient(mt.Client, testDatabase)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testDatabase+".products", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "AquaSwift Pro"},
			{Key: "description", Value: "10-stage purification"},
			{Key: "price", Value: 299.99},
			{Key: "imageUrl", Value: "https://i.ibb.co/pro.png"},
			{Key: "features", Value: bson.A{"Smart Monitoring", "Mineral Booster"}},
			{Key: "aiHint", Value: "water purifier"},
		}))

		products, err := p.GetAllProducts(context.Background())
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, id.Hex(), products[0].ID)
		assert.Equal(t, "AquaSwift Pro", products[0].Name)
		assert.Equal(t, 299.99, products[0].Price)
		assert.Equal(t, []string{"Smart Monitoring", "Mineral Booster"}, products[0].Features)
	})

	mt.Run("list empty is non-nil", func(mt *mtest.T) {
		p := NewProviderWithClient(mt.Client, testDatabase)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testDatabase+".products", mtest.FirstBatch))

		products, err := p.GetAllProducts(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, products)
		assert.Empty(t, products)
	})

	mt.Run("create", func(mt *mtest.T) {
		p := NewProviderWithClient(mt.Client, testDatabase)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		id, err := p.CreateProduct(context.Background(), types.Product{Name: "AquaSwift Go", Price: 49.99})
		require.NoError(t, err)
		_, err = primitive.ObjectIDFromHex(id)
		assert.NoError(t, err)
	})

	mt.Run("create write error", func(mt *mtest.T) {
		p := NewProviderWithClient(mt.Client, testDatabase)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		_, err := p.CreateProduct(context.Background(), types.Product{Name: "AquaSwift Go"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "insert product")

		var unavailable *db.UnavailableError
		assert.False(t, errors.As(err, &unavailable))
	})

	mt.Run("delete", func(mt *mtest.T) {
		p := NewProviderWithClient(mt.Client, testDatabase)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		err := p.DeleteProduct(context.Background(), primitive.NewObjectID().Hex())
		assert.NoError(t, err)
	})

	mt.Run("delete not found", func(mt *mtest.T) {
		p := NewProviderWithClient(mt.Client, testDatabase)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := p.DeleteProduct(context.Background(), primitive.NewObjectID().Hex())
		var notFound *db.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})

	mt.Run("delete invalid id", func(mt *mtest.T) {
		p := NewProviderWithClient(mt.Client, testDatabase)

		err := p.DeleteProduct(context.Background(), "not-a-valid-id")
		var invalid *db.InvalidIDError
		assert.ErrorAs(t, err, &invalid)
	})
}

func TestProvider_Testimonials(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("list", func(mt *mtest.T) {
		p := NewProviderWithClient(mt.Client, testDatabase)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testDatabase+".testimonials", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Priya"},
			{Key: "company", Value: "Blue Cafe"},
			{Key: "quote", Value: "Clean water every day."},
		}))

		testimonials, err := p.GetAllTestimonials(context.Background())
		require.NoError(t, err)
		require.Len(t, testimonials, 1)
		assert.Equal(t, id.Hex(), testimonials[0].ID)
		assert.Equal(t, "Blue Cafe", testimonials[0].Company)
	})

	mt.Run("create then delete", func(mt *mtest.T) {
		p := NewProviderWithClient(mt.Client, testDatabase)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		id, err := p.CreateTestimonial(context.Background(), types.Testimonial{Name: "Priya", Quote: "Great"})
		require.NoError(t, err)
		assert.NoError(t, p.DeleteTestimonial(context.Background(), id))
	})
}

func TestProvider_CompanyDetails(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("get before first save", func(mt *mtest.T) {
		p := NewProviderWithClient(mt.Client, testDatabase)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testDatabase+".company_details", mtest.FirstBatch))

		details, err := p.GetCompanyDetails(context.Background())
		require.NoError(t, err)
		assert.Nil(t, details)
	})

	mt.Run("get", func(mt *mtest.T) {
		p := NewProviderWithClient(mt.Client, testDatabase)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testDatabase+".company_details", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: types.CompanyDetailsID},
			{Key: "name", Value: "Acme"},
			{Key: "logoUrl", Value: "https://i.ibb.co/logo.png"},
		}))

		details, err := p.GetCompanyDetails(context.Background())
		require.NoError(t, err)
		require.NotNil(t, details)
		assert.Equal(t, "Acme", details.Name)
		assert.Equal(t, "https://i.ibb.co/logo.png", details.LogoURL)
	})

	mt.Run("upsert inserts", func(mt *mtest.T) {
		p := NewProviderWithClient(mt.Client, testDatabase)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
			bson.E{Key: "upserted", Value: bson.A{
				bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: types.CompanyDetailsID}},
			}},
		))

		result, err := p.UpsertCompanyDetails(context.Background(), "Acme", "")
		require.NoError(t, err)
		assert.True(t, result.Acknowledged)
		require.NotNil(t, result.UpsertedID)
		assert.Equal(t, types.CompanyDetailsID, *result.UpsertedID)
	})

	mt.Run("upsert updates", func(mt *mtest.T) {
		p := NewProviderWithClient(mt.Client, testDatabase)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		result, err := p.UpsertCompanyDetails(context.Background(), "Acme2", "https://i.ibb.co/logo.png")
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.MatchedCount)
		assert.Equal(t, int64(1), result.ModifiedCount)
		assert.Nil(t, result.UpsertedID)
	})
}

func TestWrapError(t *testing.T) {
	var unavailable *db.UnavailableError

	err := wrapError(mongo.CommandError{Code: 6, Labels: []string{"NetworkError"}}, "find products")
	assert.ErrorAs(t, err, &unavailable)

	err = wrapError(context.DeadlineExceeded, "find products")
	assert.ErrorAs(t, err, &unavailable)

	err = wrapError(mongo.CommandError{Code: 2, Message: "bad value"}, "find products")
	var other *db.UnavailableError
	assert.False(t, errors.As(err, &other))
	assert.Contains(t, err.Error(), "find products")
}

func TestPingWithoutClient(t *testing.T) {
	p := &Provider{databaseName: testDatabase}

	var unavailable *db.UnavailableError
	assert.ErrorAs(t, p.Ping(context.Background()), &unavailable)
}
