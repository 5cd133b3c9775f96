package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/famfolio/backend/src/config"
	"github.com/username/famfolio/backend/src/database"
	"github.com/username/famfolio/backend/src/handlers"
	"github.com/username/famfolio/backend/src/logger"
	"github.com/username/famfolio/backend/src/parsers"
	"github.com/username/famfolio/backend/src/security"
	"github.com/username/famfolio/backend/src/services"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000": true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Requested-With, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "ETag")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path, "origin", origin)
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Famfolio backend server starting...")

	if config.Cfg.FamilyPasswordHash != "" && len(config.Cfg.JWTSecret) < 32 {
		logger.L.Error("JWT_SECRET configuration invalid. Must be at least 32 bytes when authentication is enabled.")
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	logger.L.Info("Database initialized successfully.")

	logger.L.Info("Initializing report cache...")
	reportCache := cache.New(config.Cfg.ReportCacheExpiry, config.Cfg.ReportCacheCleanup)
	logger.L.Info("Report cache initialized.")

	logger.L.Info("Initializing services and handlers...")
	authService := security.NewAuthService(config.Cfg.JWTSecret, config.Cfg.AccessTokenExpiry)
	csvParser := parsers.NewSnapshotCSVParser()

	assetService := services.NewAssetService(database.DB, reportCache)
	importService := services.NewImportService(database.DB, csvParser, reportCache)
	reportService := services.NewReportService(assetService, reportCache)
	backupService := services.NewBackupService(database.DB, reportCache)

	authHandler := handlers.NewAuthHandler(authService)
	personHandler := handlers.NewPersonHandler(assetService)
	assetHandler := handlers.NewAssetHandler(assetService)
	entryHandler := handlers.NewEntryHandler(assetService)
	importHandler := handlers.NewImportHandler(importService)
	portfolioHandler := handlers.NewPortfolioHandler(reportService)
	backupHandler := handlers.NewBackupHandler(backupService)

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	authEnabled := config.Cfg.FamilyPasswordHash != ""
	protected := func(handler http.HandlerFunc) http.HandlerFunc {
		return handlers.AuthMiddleware(authService, authEnabled, handler)
	}

	apiRouter.HandleFunc("POST /api/auth/login", authHandler.HandleLogin)

	apiRouter.HandleFunc("GET /api/people", protected(personHandler.HandleListPeople))
	apiRouter.HandleFunc("POST /api/people", protected(personHandler.HandleCreatePerson))
	apiRouter.HandleFunc("DELETE /api/people/{id}", protected(personHandler.HandleDeletePerson))

	apiRouter.HandleFunc("GET /api/assets", protected(assetHandler.HandleListAssets))
	apiRouter.HandleFunc("POST /api/assets", protected(assetHandler.HandleCreateAsset))
	apiRouter.HandleFunc("GET /api/assets/{id}", protected(assetHandler.HandleGetAsset))
	apiRouter.HandleFunc("PUT /api/assets/{id}", protected(assetHandler.HandleUpdateAsset))
	apiRouter.HandleFunc("DELETE /api/assets/{id}", protected(assetHandler.HandleDeleteAsset))

	apiRouter.HandleFunc("GET /api/assets/{id}/entries", protected(entryHandler.HandleListEntries))
	apiRouter.HandleFunc("POST /api/assets/{id}/entries", protected(entryHandler.HandleAddEntry))
	apiRouter.HandleFunc("PUT /api/assets/{id}/entries/{entryID}", protected(entryHandler.HandleUpdateEntry))
	apiRouter.HandleFunc("DELETE /api/assets/{id}/entries/{entryID}", protected(entryHandler.HandleDeleteEntry))

	apiRouter.HandleFunc("POST /api/assets/{id}/import", protected(importHandler.HandleImport))
	apiRouter.HandleFunc("GET /api/assets/{id}/heatmap", protected(portfolioHandler.HandleGetAssetHeatmap))
	apiRouter.HandleFunc("GET /api/assets/{id}/performance", protected(portfolioHandler.HandleGetAssetPerformance))
	apiRouter.HandleFunc("GET /api/portfolio/stats", protected(portfolioHandler.HandleGetPortfolioStats))

	apiRouter.HandleFunc("GET /api/backup", protected(backupHandler.HandleExport))
	apiRouter.HandleFunc("POST /api/backup/restore", protected(backupHandler.HandleRestore))

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "FAMFOLIO Backend is running"})
		} else {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
				http.NotFound(w, r)
			}
		}
	})

	logger.L.Info("Applying global middleware...")
	finalHandler := enableCORS(rateLimitMiddleware(rootMux))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
