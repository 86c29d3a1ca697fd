package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lenditapp/lendit-backend/api/controllers"
	"github.com/lenditapp/lendit-backend/api/middleware"
	"github.com/lenditapp/lendit-backend/internal/bookings"
	"github.com/lenditapp/lendit-backend/internal/items"
	"github.com/lenditapp/lendit-backend/internal/requests"
	"github.com/lenditapp/lendit-backend/internal/users"
	"github.com/lenditapp/lendit-backend/pkg/config"
	"github.com/lenditapp/lendit-backend/pkg/db"
	"github.com/lenditapp/lendit-backend/pkg/logger"
	"github.com/lenditapp/lendit-backend/pkg/metrics"
)

// NewRouter assembles the core API surface.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	httpMetrics *metrics.HTTPMetrics,
	userService users.Service,
	itemService items.Service,
	bookingService bookings.Service,
	requestService requests.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)
	if httpMetrics != nil {
		r.Use(httpMetrics.Middleware)
	}
	r.Use(middleware.Identity(logg))

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	if httpMetrics != nil {
		r.Method(http.MethodGet, "/metrics", httpMetrics.Handler())
	}

	r.Route("/users", func(r chi.Router) {
		r.Post("/", controllers.UserCreate(userService, logg))
		r.Get("/", controllers.UserList(userService, logg))
		r.Get("/{id}", controllers.UserGet(userService, logg))
		r.Patch("/{id}", controllers.UserUpdate(userService, logg))
		r.Delete("/{id}", controllers.UserDelete(userService, logg))
	})

	r.Route("/items", func(r chi.Router) {
		r.Post("/", controllers.ItemCreate(itemService, logg))
		r.Get("/", controllers.ItemList(itemService, logg))
		r.Get("/search", controllers.ItemSearch(itemService, logg))
		r.Get("/{id}", controllers.ItemGet(itemService, logg))
		r.Patch("/{id}", controllers.ItemUpdate(itemService, logg))
		r.Post("/{id}/comment", controllers.CommentCreate(itemService, logg))
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", controllers.BookingCreate(bookingService, logg))
		r.Get("/", controllers.BookingListForBooker(bookingService, logg))
		r.Get("/owner", controllers.BookingListForOwner(bookingService, logg))
		r.Get("/{id}", controllers.BookingGet(bookingService, logg))
		r.Patch("/{id}", controllers.BookingDecide(bookingService, logg))
	})

	r.Route("/requests", func(r chi.Router) {
		r.Post("/", controllers.RequestCreate(requestService, logg))
		r.Get("/", controllers.RequestListOwn(requestService, logg))
		r.Get("/all", controllers.RequestListOthers(requestService, logg))
		r.Get("/{id}", controllers.RequestGet(requestService, logg))
	})

	return r
}
