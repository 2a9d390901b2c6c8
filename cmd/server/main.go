package main

import (
	"context"
	"crypto/tls"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slidedeck/internal/config"
	"slidedeck/internal/db"
	"slidedeck/internal/handlers"
	"slidedeck/internal/services"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	// Initialize storage
	repo, closeRepo := openRepository(cfg.Storage)
	defer closeRepo()

	// Initialize services
	wsService := services.NewWebSocketService()
	go wsService.Run()
	defer wsService.Stop()

	images := services.NewSlideImageStore(cfg.Storage.DataPath)
	presentationService := services.NewPresentationService(repo, wsService, images)

	// Initialize handlers
	presentationHandler := handlers.NewPresentationHandler(presentationService)
	wsHandler := handlers.NewWebSocketHandler(wsService, presentationService)

	// Setup routes
	router := handlers.SetupRoutes(presentationHandler, wsHandler)

	// Configure server
	server := &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		var err error
		// Configure TLS if enabled
		if cfg.TLS.Enabled {
			server.TLSConfig = &tls.Config{
				MinVersion: getTLSVersion(cfg.TLS.MinVersion),
			}

			log.Printf("Starting HTTPS server on %s:%s", cfg.Server.Host, cfg.Server.Port)
			log.Printf("TLS Certificate: %s", cfg.TLS.CertFile)
			log.Printf("TLS Key: %s", cfg.TLS.KeyFile)
			log.Printf("TLS Min Version: %s", cfg.TLS.MinVersion)

			err = server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			log.Printf("Starting HTTP server on %s:%s", cfg.Server.Host, cfg.Server.Port)
			log.Printf("Warning: HTTP mode is not recommended for production")

			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Printf("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}
}

// openRepository picks the presentation storage backend
func openRepository(cfg config.StorageConfig) (services.PresentationRepository, func()) {
	switch cfg.Driver {
	case "json":
		store, err := services.NewPresentationStore(cfg.DataPath)
		if err != nil {
			log.Fatalf("Failed to initialize presentation store: %v", err)
		}
		return store, func() {}
	case "sqlite":
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		return services.NewSQLiteStore(database), func() { database.Close() }
	default:
		log.Fatalf("Unknown STORAGE_DRIVER %q (want sqlite or json)", cfg.Driver)
		return nil, nil
	}
}

// getTLSVersion converts string version to tls.Version constant
func getTLSVersion(version string) uint16 {
	switch version {
	case "1.0":
		return tls.VersionTLS10
	case "1.1":
		return tls.VersionTLS11
	case "1.2":
		return tls.VersionTLS12
	case "1.3":
		return tls.VersionTLS13
	default:
		return tls.VersionTLS12
	}
}
