package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"menuboard/internal/editor"
	"menuboard/internal/handler"
	"menuboard/internal/middleware"
	"menuboard/internal/storage"
	"menuboard/internal/store"
	ws "menuboard/internal/websocket"
)

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	sectionH     *handler.SectionHandler
	itemH        *handler.ItemHandler
	restaurantH  *handler.RestaurantHandler
	displayH     *handler.DisplayHandler
	adminH       *handler.AdminHandler
	eventsH      *handler.EventsHandler
	authH        *handler.AuthHandler
	sessionStore *store.SessionStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, baseURL string, storageCfg storage.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	gateway := store.NewGateway(db)
	itemStore := store.NewItemStore(db)
	userStore := store.NewUserStore(db)
	restaurantStore := store.NewRestaurantStore(db)
	sessionStore := store.NewSessionStore(db)

	editors := editor.NewManager(gateway, logger.With("component", "editor"))
	logos := storage.NewLogoStore(storageCfg)

	return &Server{
		db:           db,
		hub:          hub,
		sectionH:     handler.NewSectionHandler(editors, hub, logger.With("component", "section")),
		itemH:        handler.NewItemHandler(editors, itemStore, hub, logger.With("component", "item")),
		restaurantH:  handler.NewRestaurantHandler(editors, logos, hub, baseURL, logger.With("component", "restaurant")),
		displayH:     handler.NewDisplayHandler(gateway, hub, logger.With("component", "display")),
		adminH:       handler.NewAdminHandler(editors, baseURL, logger.With("component", "admin")),
		eventsH:      handler.NewEventsHandler(editors, hub, logger.With("component", "events")),
		authH:        handler.NewAuthHandler(userStore, sessionStore, restaurantStore, editors, logger.With("component", "auth")),
		sessionStore: sessionStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("GET /login", s.authH.LoginPage)
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /register", s.authH.RegisterPage)
	outerMux.HandleFunc("POST /register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Display surfaces carry no auth; the slug is the only key.
	outerMux.HandleFunc("GET /display/{slug}", s.displayH.Page)
	outerMux.HandleFunc("GET /display/{slug}/ws", s.displayH.Socket)
	outerMux.HandleFunc("GET /api/menu/{slug}", s.displayH.Menu)

	// Protected routes, wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /logout", s.authH.Logout)

	// Operator console
	mux.HandleFunc("GET /admin", s.adminH.Page)
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	})

	// Menu API: the operator's own restaurant, resolved from the session
	mux.HandleFunc("GET /api/menu", s.restaurantH.Menu)

	// Section API routes
	mux.HandleFunc("POST /api/sections", s.sectionH.Create)
	mux.HandleFunc("PUT /api/sections/{id}", s.sectionH.Update)
	mux.HandleFunc("DELETE /api/sections/{id}", s.sectionH.Delete)

	// Item API routes
	mux.HandleFunc("POST /api/sections/{section_id}/items", s.itemH.Create)
	mux.HandleFunc("PUT /api/items/{id}", s.itemH.Update)
	mux.HandleFunc("DELETE /api/items/{id}", s.itemH.Delete)

	// Restaurant settings
	mux.HandleFunc("PUT /api/restaurants/theme", s.restaurantH.UpdateTheme)
	mux.HandleFunc("POST /api/restaurants/logo", s.restaurantH.UploadLogo)
	mux.HandleFunc("GET /api/restaurants/qr.png", s.restaurantH.QRCode)

	// Display control
	mux.HandleFunc("POST /api/display/{slug}/fullscreen", s.restaurantH.Fullscreen)

	// Change notification stream for admin live views
	mux.HandleFunc("GET /api/events/ws", s.eventsH.Socket)
}
