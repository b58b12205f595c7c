package report

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/aquaswift/aquaswift-api/types"
	"github.com/aquaswift/aquaswift-api/util"
)

// Generator produces a water quality report from the questionnaire
type Generator interface {
	Generate(ctx context.Context, input types.ReportInput) (*types.ReportOutput, error)
}

// Routes creates a new Chi router with all of the routes for the report tool,
// at the root level
func Routes(generator Generator) *chi.Mux {
	router := chi.NewRouter()
	router.Post("/", Generate(generator))
	return router
}

// Generate runs the report generator on a JSON questionnaire
func Generate(generator Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input types.ReportInput
		if err := render.DecodeJSON(r.Body, &input); err != nil {
			util.ErrorWithCode(w, r, err, http.StatusBadRequest, "Invalid request body")
			return
		}

		output, err := generator.Generate(r.Context(), input)
		if err != nil {
			util.Error(w, r, err, "Error generating report")
			return
		}

		util.JSON(w, r, http.StatusOK, output)
	}
}
