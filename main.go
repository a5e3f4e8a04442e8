package main

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	cache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/krllms-wq/CapTablePro8-sub000/src/config"
	"github.com/krllms-wq/CapTablePro8-sub000/src/database"
	"github.com/krllms-wq/CapTablePro8-sub000/src/handlers"
	"github.com/krllms-wq/CapTablePro8-sub000/src/logger"
	"github.com/krllms-wq/CapTablePro8-sub000/src/security"
	"github.com/krllms-wq/CapTablePro8-sub000/src/services"
	"github.com/krllms-wq/CapTablePro8-sub000/src/storage/sqlite"
)

func rateLimitMiddleware(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				logger.L.Warn("Rate limit exceeded", "path", r.URL.Path)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == config.Cfg.FrontendBaseURL {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Requested-With")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("CapTablePro backend server starting...")

	if len(config.Cfg.JWTSecret) < 32 {
		logger.L.Error("JWT_SECRET configuration invalid: must be at least 32 characters.")
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations(config.Cfg.DatabasePath)

	store := sqlite.NewStore(database.DB)
	resultCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)

	authService := security.NewAuthService(config.Cfg.JWTSecret, config.Cfg.AccessTokenExpiry)
	capTableService := services.NewCapTableService(store, resultCache)
	transferService := services.NewTransferService(store, capTableService)

	authHandler := handlers.NewAuthHandler(authService)
	capTableHandler := handlers.NewCapTableHandler(capTableService)
	convertibleHandler := handlers.NewConvertibleHandler(capTableService)
	transferHandler := handlers.NewTransferHandler(transferService)
	stakeholderHandler := handlers.NewStakeholderHandler(store, capTableService)

	limiter := rate.NewLimiter(rate.Every(config.Cfg.RateLimitInterval), config.Cfg.RateLimitBurst)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware(limiter))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(handlers.AuthMiddleware(authService))

			r.Route("/companies/{companyID}", func(r chi.Router) {
				r.Get("/captable", capTableHandler.HandleGetCapTable)
				r.Post("/convertibles/{convertibleID}/convert", convertibleHandler.HandlePreviewConversion)
				r.Post("/transfers", transferHandler.HandleTransferShares)
				r.Get("/stakeholders", stakeholderHandler.HandleListStakeholders)
				r.Post("/stakeholders", stakeholderHandler.HandleCreateStakeholder)
			})
		})
	})

	addr := ":" + config.Cfg.Port
	logger.L.Info("Server listening", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.L.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
