package routes

import (
	"net/http"
	"time"

	"msp-bknd/internal/auth"
	"msp-bknd/internal/codec"
	"msp-bknd/internal/config"
	"msp-bknd/internal/handlers"
	"msp-bknd/internal/logger"
	"msp-bknd/internal/metrics"
	mdlwr "msp-bknd/internal/middleware"
	"msp-bknd/internal/report"
	"msp-bknd/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

func NewRouter(db *bun.DB, cfg *config.Config, logr *logger.Logger) http.Handler {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestDuration)

	// CORS middleware with config
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// init JWT manager
	jwtMgr, err := auth.NewJWTManager(cfg.JWTPrivateKeyPath, cfg.JWTPublicKeyPath, "msp-portal")
	if err != nil {
		logr.Fatal("failed to init jwt manager", zap.Error(err))
	}

	// services
	authSvc := services.NewAuthService(db, jwtMgr, cfg, logr)
	projectSvc := services.NewProjectService(db, logr.Logger)
	reportBuilder := report.NewBuilder(logr.Logger)
	workspaceSvc := services.NewWorkspaceService(cfg.HistoryLimit, reportBuilder, logr.Logger)
	importer := codec.NewImporter(logr.Logger)

	authMW := mdlwr.NewAuthMiddleware(jwtMgr, authSvc, logr.Logger)

	authHandler := handlers.NewAuthHandler(authSvc, logr, cfg)
	projectHandler := handlers.NewProjectHandler(projectSvc, logr.Logger)
	workspaceHandler := handlers.NewWorkspaceHandler(workspaceSvc, logr.Logger)
	geodataHandler := handlers.NewGeodataHandler(workspaceSvc, importer, logr.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			// Public routes
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			// Protected routes
			r.Group(func(r chi.Router) {
				r.Use(authMW.JWTAuth)
				r.Post("/logout", authHandler.Logout)
			})
		})

		r.Get("/templates", workspaceHandler.ListTemplates)

		r.Route("/projects", func(r chi.Router) {
			r.Use(authMW.JWTAuth)

			// persistence
			r.Get("/", projectHandler.ListProjects)
			r.Post("/", projectHandler.SaveProject)

			// workspace lifecycle
			r.Post("/open", workspaceHandler.OpenWorkspace)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", projectHandler.GetProject)
				r.Delete("/", projectHandler.DeleteProject)

				r.Post("/close", workspaceHandler.CloseWorkspace)
				r.Get("/workspace", workspaceHandler.GetWorkspace)

				r.Route("/shapes", func(r chi.Router) {
					r.Post("/", workspaceHandler.AddShape)
					r.Delete("/", workspaceHandler.ClearShapes)
					r.Patch("/{shapeID}", workspaceHandler.UpdateShape)
					r.Delete("/{shapeID}", workspaceHandler.RemoveShape)
				})

				r.Post("/undo", workspaceHandler.Undo)
				r.Post("/redo", workspaceHandler.Redo)
				r.Get("/history", workspaceHandler.GetHistory)

				r.Route("/session", func(r chi.Router) {
					r.Get("/", workspaceHandler.GetSession)
					r.Put("/mode", workspaceHandler.SetMode)
					r.Post("/click", workspaceHandler.Click)
					r.Post("/finish", workspaceHandler.FinishShape)
					r.Post("/cancel", workspaceHandler.CancelMode)
				})

				r.Post("/import", geodataHandler.ImportFile)
				r.Get("/export/{format}", geodataHandler.ExportFile)
				r.Post("/report", geodataHandler.GenerateReport)
			})
		})
	})

	return r
}

func requestDuration(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		metrics.RequestDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	})
}
