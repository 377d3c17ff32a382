package api

import (
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/go-chi/chi/v5"

	"github.com/mosaic14/mosaic/internal/api/handler"
	"github.com/mosaic14/mosaic/internal/api/middleware"
	"github.com/mosaic14/mosaic/internal/auth"
	"github.com/mosaic14/mosaic/internal/conversation"
	"github.com/mosaic14/mosaic/internal/file"
	"github.com/mosaic14/mosaic/internal/memory"
	"github.com/mosaic14/mosaic/internal/page"
	"github.com/mosaic14/mosaic/internal/tools"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	AuthService      *auth.Service
	Tokens           *auth.TokenService
	UserRepo         auth.UserRepository
	ConversationRepo conversation.Repository
	MemoryStore      memory.Store
	PageRepo         page.Repository
	FileRepo         file.Repository
	Objects          handler.ObjectStore
	Tools            *tools.Registry
	DBPinger         handler.DBPinger
	Version          string
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	requireAuth := middleware.RequireAuth(deps.Tokens)
	optionalAuth := middleware.OptionalAuth(deps.Tokens)

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	authHandler := handler.NewAuthHandler(deps.AuthService, deps.UserRepo)
	convHandler := handler.NewConversationHandler(deps.ConversationRepo)
	memoryHandler := handler.NewMemoryHandler(deps.MemoryStore)
	fileHandler := handler.NewFileHandler(deps.FileRepo, deps.Objects)
	pageHandler := handler.NewPageHandler(deps.PageRepo)
	toolHandler := handler.NewToolHandler(deps.Tools)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/register", authHandler.Register)
			r.Post("/anonymous", authHandler.Anonymous)
			r.Post("/refresh", authHandler.Refresh)
			r.With(optionalAuth).Get("/me", authHandler.Me)
		})

		r.Route("/conversations", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", convHandler.Create)
			r.Get("/", convHandler.List)
			r.Get("/{id}", convHandler.GetByID)
			r.Patch("/{id}", convHandler.Update)
			r.Delete("/{id}", convHandler.Delete)
			r.Post("/{id}/messages", convHandler.AddMessage)
		})

		r.Route("/memories", func(r chi.Router) {
			r.Use(optionalAuth)
			r.Post("/", memoryHandler.Create)
			r.Get("/", memoryHandler.List)
			r.Delete("/{id}", memoryHandler.Delete)
		})

		r.Route("/files", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/uploads", fileHandler.CreateUpload)
			r.Post("/", fileHandler.Create)
			r.Get("/", fileHandler.List)
			r.Get("/{id}/download", fileHandler.Download)
			r.Delete("/{id}", fileHandler.Delete)
		})

		r.Route("/pages", func(r chi.Router) {
			r.Get("/", pageHandler.List)
			r.Get("/{slug}", pageHandler.GetBySlug)
			r.With(requireAuth).Post("/", pageHandler.Create)
			r.With(requireAuth).Patch("/{slug}", pageHandler.Update)
			r.With(requireAuth).Delete("/{slug}", pageHandler.Delete)
		})

		r.Route("/tools", func(r chi.Router) {
			r.Get("/", toolHandler.List)
			r.Get("/{name}", toolHandler.GetByName)
		})
	})

	return r
}
