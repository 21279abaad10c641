package api

import (
	"net/http"

	"github.com/asklokesh/ebt/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(
		mux,
		domain.Classifications.Handler().Routes(),
		domain.Regulations.Handler().Routes(),
		domain.Audit.Handler().Routes(),
		domain.Challenges.Handler().Routes(),
	)
}
