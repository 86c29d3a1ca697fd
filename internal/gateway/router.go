package gateway

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lenditapp/lendit-backend/api/middleware"
	"github.com/lenditapp/lendit-backend/api/responses"
	"github.com/lenditapp/lendit-backend/pkg/config"
	"github.com/lenditapp/lendit-backend/pkg/logger"
)

// NewRouter assembles the validating gateway. Every route runs its checks and
// hands the untouched request to the proxy.
func NewRouter(cfg *config.Config, logg *logger.Logger, proxy *Proxy, store rateLimiterStore) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	policy := NewRateLimitPolicy(cfg.Gateway.RateLimitWindow, cfg.Gateway.RateLimitIP, cfg.Gateway.RateLimitUser)
	r.Use(RateLimit(policy, store, logg))

	forward := func(checks ...checkFn) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			for _, check := range checks {
				if err := check(r); err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
			}
			proxy.Forward(w, r)
		}
	}

	bookingCreate := checkBookingCreate(time.Now)

	r.Get("/health/live", forward())
	r.Get("/health/ready", forward())

	r.Route("/users", func(r chi.Router) {
		r.Post("/", forward(checkUserCreate))
		r.Get("/", forward())
		r.Get("/{id}", forward(checkPathID))
		r.Patch("/{id}", forward(checkPathID, checkUserUpdate))
		r.Delete("/{id}", forward(checkPathID))
	})

	r.Route("/items", func(r chi.Router) {
		r.Post("/", forward(requireIdentity, checkItemCreate))
		r.Get("/", forward(requireIdentity, checkPage))
		r.Get("/search", forward(checkPage))
		r.Get("/{id}", forward(requireIdentity, checkPathID))
		r.Patch("/{id}", forward(requireIdentity, checkPathID))
		r.Post("/{id}/comment", forward(requireIdentity, checkPathID, checkCommentCreate))
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", forward(requireIdentity, bookingCreate))
		r.Get("/", forward(requireIdentity, checkState, checkPage))
		r.Get("/owner", forward(requireIdentity, checkState, checkPage))
		r.Get("/{id}", forward(requireIdentity, checkPathID))
		r.Patch("/{id}", forward(requireIdentity, checkPathID, checkBookingDecision))
	})

	r.Route("/requests", func(r chi.Router) {
		r.Post("/", forward(requireIdentity, checkRequestCreate))
		r.Get("/", forward(requireIdentity))
		r.Get("/all", forward(requireIdentity, checkPage))
		r.Get("/{id}", forward(requireIdentity, checkPathID))
	})

	return r
}
