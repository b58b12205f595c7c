package services

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/aquaswift/aquaswift-api/types"
	"github.com/aquaswift/aquaswift-api/util"
)

// Catalog is the fixed list of service offerings
var Catalog = []types.Service{
	{
		ID:          "1",
		Name:        "Standard Installation",
		Description: "Professional installation by our certified technicians to ensure your purifier works perfectly from day one.",
		Icon:        "Wrench",
	},
	{
		ID:          "2",
		Name:        "Annual Maintenance Contract",
		Description: "Comprehensive annual check-ups, filter replacements, and cleaning to prolong the life of your purifier.",
		Icon:        "ShieldCheck",
	},
	{
		ID:          "3",
		Name:        "On-Demand Repairs",
		Description: "Fast and reliable repair services for any issues you might face with your water purifier.",
		Icon:        "Droplets",
	},
}

// Routes creates a new Chi router with all of the routes for the services catalog,
// at the root level
func Routes() *chi.Mux {
	router := chi.NewRouter()
	router.Get("/", GetAll(Catalog))
	return router
}

// GetAll lists the service offerings
func GetAll(catalog []types.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		util.JSON(w, r, http.StatusOK, catalog)
	}
}
