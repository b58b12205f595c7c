package testimonials

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

// Routes creates a new Chi router with all of the routes for the testimonial resource,
// at the root level
func Routes(database db.TestimonialProvider, uploadProvider upload.Provider, imageRules *form.ImageRules) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/", GetAll(database))
	router.Post("/", Create(database, uploadProvider, imageRules))
	router.Delete("/{id}", Delete(database))
	return router
}

// GetAll gets all testimonials from the database,
// optionally filtered by a fuzzy search on the customer name
func GetAll(testimonialProvider db.TestimonialProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		search := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("search")))

		testimonials, err := testimonialProvider.GetAllTestimonials(r.Context())
		if err != nil {
			util.Error(w, r, err, "Error fetching testimonials")
			return
		}

		if search != "" {
			filtered := []types.Testimonial{}
			for _, testimonial := range testimonials {
				if fuzzy.MatchNormalized(search, strings.ToLower(testimonial.Name)) {
					filtered = append(filtered, testimonial)
				}
			}
			testimonials = filtered
		}

		util.JSON(w, r, http.StatusOK, testimonials)
	}
}

// Create validates the admin form, uploads the customer photo
// and inserts the new testimonial
func Create(testimonialProvider db.TestimonialProvider, uploadProvider upload.Provider,
	imageRules *form.ImageRules) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {
		submission, err := form.Parse(w, r, imageRules)
		if err != nil {
			util.Error(w, r, err, "Error adding testimonial")
			return
		}
		defer submission.Close()

		image, err := submission.RequireImage()
		if err != nil {
			util.Error(w, r, err, "Error adding testimonial")
			return
		}

		create, err := form.ParseTestimonial(submission)
		if err != nil {
			util.Error(w, r, err, "Error adding testimonial")
			return
		}

		imageURL, err := uploadProvider.Upload(r.Context(), image.Reader(), image.Ext, image.ContentType)
		if err != nil {
			util.Error(w, r, err, "Error adding testimonial")
			return
		}

		id, err := testimonialProvider.CreateTestimonial(r.Context(), create.Testimonial(imageURL))
		if err != nil {
			hlog.FromRequest(r).Warn().Str("image_url", imageURL).Msg("testimonial image orphaned")
			util.Error(w, r, err, "Error adding testimonial")
			return
		}

		util.JSON(w, r, http.StatusCreated, types.InsertResult{
			Acknowledged: true,
			InsertedID:   id,
		})
	}
}

// Delete removes a single testimonial by its ID
func Delete(testimonialProvider db.TestimonialProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		err := testimonialProvider.DeleteTestimonial(r.Context(), id)
		if err != nil {
			util.Error(w, r, err, deleteErrorMessage(err))
			return
		}

		util.JSON(w, r, http.StatusOK, types.MessageResponse{Message: "Testimonial deleted successfully"})
	}
}

func deleteErrorMessage(err error) string {
	var invalidID *db.InvalidIDError
	var notFound *db.NotFoundError

	switch {
	case errors.As(err, &invalidID):
		return "Invalid testimonial ID"
	case errors.As(err, &notFound):
		return "Testimonial not found"
	default:
		return "Error deleting testimonial"
	}
}
