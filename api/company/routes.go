package company

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/aquaswift/aquaswift-api/api/form"
	"github.com/aquaswift/aquaswift-api/db"
	"github.com/aquaswift/aquaswift-api/upload"
	"github.com/aquaswift/aquaswift-api/util"
)

// Routes creates a new Chi router with all of the routes for the company details,
// at the root level
func Routes(database db.CompanyDetailsProvider, uploadProvider upload.Provider, imageRules *form.ImageRules) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/", Get(database))
	router.Post("/", Upsert(database, uploadProvider, imageRules))
	return router
}

// Get returns the company details, or null before they are first saved
func Get(companyProvider db.CompanyDetailsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		details, err := companyProvider.GetCompanyDetails(r.Context())
		if err != nil {
			util.Error(w, r, err, "Error fetching company details")
			return
		}

		util.JSON(w, r, http.StatusOK, details)
	}
}

// Upsert saves the company name and logo. A newly uploaded logo
// replaces the old one; otherwise the submitted existing logo URL is kept
func Upsert(companyProvider db.CompanyDetailsProvider, uploadProvider upload.Provider,
	imageRules *form.ImageRules) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {
		submission, err := form.Parse(w, r, imageRules)
		if err != nil {
			util.Error(w, r, err, "Error updating company details")
			return
		}
		defer submission.Close()

		image, err := submission.Image()
		if err != nil {
			util.Error(w, r, err, "Error updating company details")
			return
		}

		update := form.ParseCompanyDetails(submission)
		logoURL := update.ExistingLogoURL
		if image != nil {
			logoURL, err = uploadProvider.Upload(r.Context(), image.Reader(), image.Ext, image.ContentType)
			if err != nil {
				util.Error(w, r, err, "Error updating company details")
				return
			}
		}

		result, err := companyProvider.UpsertCompanyDetails(r.Context(), update.Name, logoURL)
		if err != nil {
			util.Error(w, r, err, "Error updating company details")
			return
		}

		util.JSON(w, r, http.StatusOK, result)
	}
}
