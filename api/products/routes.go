package products

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/hlog"

	"github.com/aquaswift/aquaswift-api/api/form"
	"github.com/aquaswift/aquaswift-api/db"
	"github.com/aquaswift/aquaswift-api/types"
	"github.com/aquaswift/aquaswift-api/upload"
	"github.com/aquaswift/aquaswift-api/util"
)

// Routes creates a new Chi router with all of the routes for the product resource,
// at the root level
func Routes(database db.ProductProvider, uploadProvider upload.Provider, imageRules *form.ImageRules) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/", GetAll(database))
	router.Post("/", Create(database, uploadProvider, imageRules))
	router.Delete("/{id}", Delete(database))
	return router
}

// GetAll gets all products from the database,
// with an optional search querystring param
func GetAll(productProvider db.ProductProvider) http.HandlerFunc {
	// Use a closure to inject the database provider
	return func(w http.ResponseWriter, r *http.Request) {
		// See if we have search parameter,
		// which can be empty
		search := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("search")))

		products, err := productProvider.GetAllProducts(r.Context())
		if err != nil {
			util.Error(w, r, err, "Error fetching products")
			return
		}

		if search != "" {
			filtered := []types.Product{}
			for _, product := range products {
				if fuzzy.MatchNormalized(search, strings.ToLower(product.Name)) {
					filtered = append(filtered, product)
				}
			}
			products = filtered
		}

		util.JSON(w, r, http.StatusOK, products)
	}
}

// Create validates the admin form, uploads the product image
// and inserts the new product
func Create(productProvider db.ProductProvider, uploadProvider upload.Provider,
	imageRules *form.ImageRules) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {
		submission, err := form.Parse(w, r, imageRules)
		if err != nil {
			util.Error(w, r, err, "Error adding product")
			return
		}
		defer submission.Close()

		image, err := submission.RequireImage()
		if err != nil {
			util.Error(w, r, err, "Error adding product")
			return
		}

		create, err := form.ParseProduct(submission)
		if err != nil {
			util.Error(w, r, err, "Error adding product")
			return
		}

		imageURL, err := uploadProvider.Upload(r.Context(), image.Reader(), image.Ext, image.ContentType)
		if err != nil {
			util.Error(w, r, err, "Error adding product")
			return
		}

		id, err := productProvider.CreateProduct(r.Context(), create.Product(imageURL))
		if err != nil {
			// The hosted image is left behind
			hlog.FromRequest(r).Warn().Str("image_url", imageURL).Msg("product image orphaned")
			util.Error(w, r, err, "Error adding product")
			return
		}

		util.JSON(w, r, http.StatusCreated, types.InsertResult{
			Acknowledged: true,
			InsertedID:   id,
		})
	}
}

// Delete removes a single product by its ID
func Delete(productProvider db.ProductProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		err := productProvider.DeleteProduct(r.Context(), id)
		if err != nil {
			util.Error(w, r, err, deleteErrorMessage(err))
			return
		}

		util.JSON(w, r, http.StatusOK, types.MessageResponse{Message: "Product deleted successfully"})
	}
}

func deleteErrorMessage(err error) string {
	var invalidID *db.InvalidIDError
	var notFound *db.NotFoundError

	switch {
	case errors.As(err, &invalidID):
		return "Invalid product ID"
	case errors.As(err, &notFound):
		return "Product not found"
	default:
		return "Error deleting product"
	}
}
