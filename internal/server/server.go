// Package server wires the HTTP surface: routing, middleware and thin
// JSON handlers that decode input, resolve the caller and delegate to
// the services.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osgirl/groupbuyer/internal/auth"
	"github.com/osgirl/groupbuyer/internal/middleware"
	"github.com/osgirl/groupbuyer/internal/service"
	"github.com/osgirl/groupbuyer/internal/storage"
)

// Server bundles the services behind the HTTP API.
type Server struct {
	auth      *service.AuthService
	groupbuys *service.GroupbuyService
	items     *service.ItemService
	orders    *service.OrderService
	messages  *service.MessageService

	jwtManager *auth.JWTManager
	store      storage.Store
}

// New creates a Server over the given store and JWT manager.
func New(store storage.Store, jwtManager *auth.JWTManager) *Server {
	return &Server{
		auth: service.NewAuthService(
			auth.NewPasswordAuthenticator(store),
			jwtManager,
		),
		groupbuys:  service.NewGroupbuyService(store),
		items:      service.NewItemService(store),
		orders:     service.NewOrderService(store),
		messages:   service.NewMessageService(store),
		jwtManager: jwtManager,
		store:      store,
	}
}

// Router builds the chi router with the full route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(middleware.Authenticate(s.jwtManager, s.store))
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)

	r.Get("/healthz", s.handleHealth)
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
	})

	r.Route("/groupbuys", func(r chi.Router) {
		r.Get("/", s.handleListGroupbuys)
		r.Post("/", s.handleCreateGroupbuy)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetGroupbuy)
			r.Patch("/", s.handleUpdateGroupbuy)
			r.Post("/go-to/{status}", s.handleTransition)

			r.Post("/managers", s.handleAddManager)
			r.Delete("/managers/{userID}", s.handleRemoveManager)
			r.Post("/members", s.handleAddMember)
			r.Delete("/members/{userID}", s.handleRemoveMember)
			r.Post("/updates", s.handleAddUpdate)

			r.Post("/items", s.handleCreateItem)
			r.Get("/items", s.handleListItems)
			r.Patch("/items/{itemID}", s.handleUpdateItem)

			r.Get("/order", s.handleGetOrder)
			r.Post("/order/requests", s.handleAddRequest)
			r.Delete("/order/requests/{requestID}", s.handleRemoveRequest)
			r.Post("/order/calculate", s.handleCalculateOrder)
			r.Get("/orders", s.handleListOrders)

			r.Post("/messages", s.handleSendMessage)
			r.Get("/messages", s.handleInbox)
			r.Post("/messages/read", s.handleMarkRead)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
