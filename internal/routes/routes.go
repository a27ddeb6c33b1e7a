package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"KANBAN_CRM_BACK-END/internal/auth"
	"KANBAN_CRM_BACK-END/internal/handlers"
	"KANBAN_CRM_BACK-END/internal/logging"
	"KANBAN_CRM_BACK-END/internal/middleware"
	"KANBAN_CRM_BACK-END/internal/utils"
)

// Handlers groups the HTTP handlers mounted by SetupRoutes
type Handlers struct {
	Auth    *handlers.AuthHandler
	Records *handlers.RecordHandler
	Books   *handlers.BookHandler
	Health  *handlers.HealthHandler
}

// Options carries the cross-cutting pieces the router needs
type Options struct {
	Tokens *auth.TokenIssuer
	Logger logging.Logger
	// Limiter guards /register and /login; nil disables rate limiting.
	Limiter middleware.Limiter
}

// SetupRoutes configures all application routes
func SetupRoutes(h Handlers, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(commonMiddleware(opts.Logger)...)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Not found", "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", "")
	})

	// Health check routes
	r.Get("/health", h.Health.HealthCheck)
	r.Get("/livez", h.Health.LivenessCheck)
	r.Get("/readyz", h.Health.ReadinessCheck)

	// API docs
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Authentication routes
	r.Group(func(r chi.Router) {
		if opts.Limiter != nil {
			r.Use(middleware.RateLimit(opts.Limiter, opts.Logger))
		}
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(opts.Tokens, opts.Logger))

		r.Route("/crm", func(r chi.Router) {
			r.Get("/", h.Records.ListRecords)
			r.Post("/", h.Records.CreateRecord)
			r.Put("/{id}", h.Records.UpdateRecord)
			r.Delete("/{id}", h.Records.DeleteRecord)
		})

		r.Route("/books", func(r chi.Router) {
			r.Get("/", h.Books.ListBooks)
			r.Post("/", h.Books.CreateBook)
			r.Put("/{id}", h.Books.UpdateBook)
			r.Delete("/{id}", h.Books.DeleteBook)
		})
	})

	// Root route
	r.Get("/", rootHandler)

	return r
}

// commonMiddleware wraps every route, outermost first. The request logger sits
// outside Recoverer so recovered panics are logged with their 500 status.
func commonMiddleware(logger logging.Logger) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestLogger(logger),
		chimw.Recoverer,
	}
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Kanban CRM backend is running."))
}
