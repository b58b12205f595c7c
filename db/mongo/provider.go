package mongo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/aquaswift/aquaswift-api/db"
	"github.com/aquaswift/aquaswift-api/env"
	"github.com/aquaswift/aquaswift-api/types"
)

const defaultDatabaseName = "aquaswift"

// Provider implements db.Provider against a MongoDB deployment
type Provider struct {
	connectionURI string
	databaseName  string
	client        *mongo.Client
}

// NewProvider creates a new provider and loads values in from the environment
func NewProvider() (*Provider, error) {
	connectionURI, err := env.GetEnv("database connection string", "MONGODB_URI")
	if err != nil {
		return nil, err
	}

	databaseName, err := resolveDatabaseName(connectionURI, env.GetEnvOrDefault("MONGODB_DATABASE", ""))
	if err != nil {
		return nil, err
	}

	return &Provider{
		connectionURI: connectionURI,
		databaseName:  databaseName,
		client:        nil,
	}, nil
}

// NewProviderWithClient wraps an already-connected client
func NewProviderWithClient(client *mongo.Client, databaseName string) *Provider {
	return &Provider{
		databaseName: databaseName,
		client:       client,
	}
}

// Uses the explicit name if given, then the database in the connection string,
// and finally the default
func resolveDatabaseName(connectionURI string, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	parsed, err := connstring.ParseAndValidate(connectionURI)
	if err != nil {
		return "", errors.Wrap(err, "invalid MONGODB_URI")
	}
	if parsed.Database != "" {
		return parsed.Database, nil
	}

	return defaultDatabaseName, nil
}

// Connect connects to the deployment and pings the primary
func (p *Provider) Connect(ctx context.Context) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(p.connectionURI))
	if err != nil {
		return db.NewUnavailableError(err)
	}

	p.client = client

	// Ping the primary
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := p.Ping(pingCtx); err != nil {
		return err
	}

	log.Info().Str("database", p.databaseName).Msg("connected to MongoDB")
	return nil
}

// Disconnect closes all pooled connections
func (p *Provider) Disconnect(ctx context.Context) error {
	if p.client == nil {
		return nil
	}

	return p.client.Disconnect(ctx)
}

// Ping checks that the primary is reachable
func (p *Provider) Ping(ctx context.Context) error {
	if p.client == nil {
		return db.NewUnavailableError(mongo.ErrClientDisconnected)
	}

	if err := p.client.Ping(ctx, readpref.Primary()); err != nil {
		return db.NewUnavailableError(err)
	}

	return nil
}

func (p *Provider) products() *mongo.Collection {
	return p.client.Database(p.databaseName).Collection("products")
}

func (p *Provider) testimonials() *mongo.Collection {
	return p.client.Database(p.databaseName).Collection("testimonials")
}

func (p *Provider) companyDetails() *mongo.Collection {
	return p.client.Database(p.databaseName).Collection("company_details")
}

// productDocument is the stored shape of a product,
// keyed by a generated ObjectID
type productDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	ImageURL    string             `bson:"imageUrl"`
	Features    []string           `bson:"features"`
	AIHint      string             `bson:"aiHint"`
}

func (d productDocument) toProduct() types.Product {
	features := d.Features
	if features == nil {
		features = []string{}
	}

	return types.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		ImageURL:    d.ImageURL,
		Features:    features,
		AIHint:      d.AIHint,
	}
}

// testimonialDocument is the stored shape of a testimonial
type testimonialDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Company  string             `bson:"company"`
	Quote    string             `bson:"quote"`
	ImageURL string             `bson:"imageUrl"`
	AIHint   string             `bson:"aiHint"`
}

func (d testimonialDocument) toTestimonial() types.Testimonial {
	return types.Testimonial{
		ID:       d.ID.Hex(),
		Name:     d.Name,
		Company:  d.Company,
		Quote:    d.Quote,
		ImageURL: d.ImageURL,
		AIHint:   d.AIHint,
	}
}

// GetAllProducts lists every product in natural (store) order
func (p *Provider) GetAllProducts(ctx context.Context) ([]types.Product, error) {
	cursor, err := p.products().Find(ctx, bson.D{})
	if err != nil {
		return nil, wrapError(err, "find products")
	}

	var documents []productDocument
	err = cursor.All(ctx, &documents)
	if err != nil {
		return nil, wrapError(err, "decode products")
	}

	// Return non-nil slice so JSON serialization is nice
	products := make([]types.Product, 0, len(documents))
	for _, document := range documents {
		products = append(products, document.toProduct())
	}

	return products, nil
}

// GetAllTestimonials lists every testimonial in natural (store) order
func (p *Provider) GetAllTestimonials(ctx context.Context) ([]types.Testimonial, error) {
	cursor, err := p.testimonials().Find(ctx, bson.D{})
	if err != nil {
		return nil, wrapError(err, "find testimonials")
	}

	var documents []testimonialDocument
	err = cursor.All(ctx, &documents)
	if err != nil {
		return nil, wrapError(err, "decode testimonials")
	}

	testimonials := make([]types.Testimonial, 0, len(documents))
	for _, document := range documents {
		testimonials = append(testimonials, document.toTestimonial())
	}

	return testimonials, nil
}

// CreateProduct inserts the product and returns the generated ID
func (p *Provider) CreateProduct(ctx context.Context, product types.Product) (string, error) {
	document := productDocument{
		ID:          primitive.NewObjectID(),
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		ImageURL:    product.ImageURL,
		Features:    product.Features,
		AIHint:      product.AIHint,
	}

	_, err := p.products().InsertOne(ctx, document)
	if err != nil {
		return "", wrapError(err, "insert product")
	}

	return document.ID.Hex(), nil
}

// CreateTestimonial inserts the testimonial and returns the generated ID
func (p *Provider) CreateTestimonial(ctx context.Context, testimonial types.Testimonial) (string, error) {
	document := testimonialDocument{
		ID:       primitive.NewObjectID(),
		Name:     testimonial.Name,
		Company:  testimonial.Company,
		Quote:    testimonial.Quote,
		ImageURL: testimonial.ImageURL,
		AIHint:   testimonial.AIHint,
	}

	_, err := p.testimonials().InsertOne(ctx, document)
	if err != nil {
		return "", wrapError(err, "insert testimonial")
	}

	return document.ID.Hex(), nil
}

// DeleteProduct removes exactly one product by its hex ObjectID
func (p *Provider) DeleteProduct(ctx context.Context, id string) error {
	return deleteByObjectID(ctx, p.products(), id)
}

// DeleteTestimonial removes exactly one testimonial by its hex ObjectID
func (p *Provider) DeleteTestimonial(ctx context.Context, id string) error {
	return deleteByObjectID(ctx, p.testimonials(), id)
}

func deleteByObjectID(ctx context.Context, collection *mongo.Collection, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return db.NewInvalidIDError(id)
	}

	result, err := collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: objectID}})
	if err != nil {
		return wrapError(err, "delete from "+collection.Name())
	}

	if result.DeletedCount == 0 {
		return db.NewNotFoundError(id)
	}

	return nil
}

// GetCompanyDetails reads the singleton document,
// returning nil if it has never been saved
func (p *Provider) GetCompanyDetails(ctx context.Context) (*types.CompanyDetails, error) {
	result := p.companyDetails().FindOne(ctx, bson.D{{Key: "_id", Value: types.CompanyDetailsID}})
	if errors.Is(result.Err(), mongo.ErrNoDocuments) {
		return nil, nil
	}
	if result.Err() != nil {
		return nil, wrapError(result.Err(), "find company details")
	}

	var details types.CompanyDetails
	err := result.Decode(&details)
	if err != nil {
		return nil, wrapError(err, "decode company details")
	}

	return &details, nil
}

// UpsertCompanyDetails writes the name and logo onto the singleton document.
// The filter is the well-known primary key, so concurrent first writes
// cannot produce two documents
func (p *Provider) UpsertCompanyDetails(ctx context.Context, name string, logoURL string) (*types.UpsertResult, error) {
	filter := bson.D{{Key: "_id", Value: types.CompanyDetailsID}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: name},
		{Key: "logoUrl", Value: logoURL},
	}}}

	result, err := p.companyDetails().UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return nil, wrapError(err, "upsert company details")
	}

	upsertResult := &types.UpsertResult{
		Acknowledged:  true,
		MatchedCount:  result.MatchedCount,
		ModifiedCount: result.ModifiedCount,
	}
	if result.UpsertedID != nil {
		upsertedID := types.CompanyDetailsID
		if asString, ok := result.UpsertedID.(string); ok {
			upsertedID = asString
		}
		upsertResult.UpsertedID = &upsertedID
	}

	return upsertResult, nil
}

// Classifies driver errors: connectivity problems become db.UnavailableError,
// everything else is wrapped with the attempted action
func wrapError(err error, action string) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, mongo.ErrClientDisconnected) {
		return db.NewUnavailableError(err)
	}

	return errors.Wrap(err, action)
}
