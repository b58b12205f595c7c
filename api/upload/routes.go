package upload

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/aquaswift/aquaswift-api/api/form"
	"github.com/aquaswift/aquaswift-api/upload"
	"github.com/aquaswift/aquaswift-api/util"
)

// Response is returned after an image has been hosted
type Response struct {
	URL string `json:"url"`
}

// Routes creates a new Chi router with all of the routes for the upload,
// at the root level
func Routes(uploadProvider upload.Provider, imageRules *form.ImageRules) *chi.Mux {
	router := chi.NewRouter()
	router.Post("/", Upload(uploadProvider, imageRules))
	return router
}

// Upload provides a pass-through route that takes in a multi-part
// HTTP request and hands the image to the upload provider,
// returning a URL that can be used to reference the image
func Upload(uploadProvider upload.Provider, imageRules *form.ImageRules) http.HandlerFunc {
	// Use a closure to inject the upload provider
	return func(w http.ResponseWriter, r *http.Request) {
		submission, err := form.Parse(w, r, imageRules)
		if err != nil {
			util.Error(w, r, err, "Error uploading image")
			return
		}
		defer submission.Close()

		image, err := submission.RequireImage()
		if err != nil {
			util.Error(w, r, err, "Error uploading image")
			return
		}

		fileURL, err := uploadProvider.Upload(r.Context(), image.Reader(), image.Ext, image.ContentType)
		if err != nil {
			util.Error(w, r, err, "Error uploading image")
			return
		}

		util.JSON(w, r, http.StatusOK, Response{URL: fileURL})
	}
}
