package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cloudnote/internal/auth"
	"cloudnote/internal/config"
	"cloudnote/internal/domain/services"
	"cloudnote/internal/handler"
	"cloudnote/internal/middleware"
	"cloudnote/internal/repository/postgres"
	postgresNotebook "cloudnote/internal/repository/postgres/notebook"
	postgresSharing "cloudnote/internal/repository/postgres/sharing"
	"cloudnote/internal/service"
	"cloudnote/internal/service/attachment"
	serviceAuth "cloudnote/internal/service/auth"
	serviceNotebook "cloudnote/internal/service/notebook"
	"cloudnote/internal/service/notebook/content"
	serviceSharing "cloudnote/internal/service/sharing"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logger, closeLog, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer func() { _ = closeLog() }()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
	)

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if cfg.FirebaseProjectID == "" {
		log.Fatal("FIREBASE_PROJECT_ID is required")
	}

	if cfg.RunMigrations {
		if err := postgres.RunMigrations(cfg.DatabaseURL, logger); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Create JWT verifier for Firebase ID tokens
	jwtVerifier, err := auth.NewJWTVerifier(cfg.FirebaseJWKSURL, cfg.FirebaseProjectID, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer func() { _ = jwtVerifier.Close() }()

	// Create pgx connection pool
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(),
		Logger: logger,
	}
	noteRepo := postgresNotebook.NewNoteRepository(repoConfig)
	folderRepo := postgresNotebook.NewFolderRepository(repoConfig)
	globalNoteRepo := postgresSharing.NewGlobalNoteRepository(repoConfig)
	globalFolderRepo := postgresSharing.NewGlobalFolderRepository(repoConfig)
	profileRepo := postgres.NewUserProfileRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Create services
	authorizer := serviceAuth.NewOwnerBasedAuthorizer(noteRepo, folderRepo)
	profileService := service.NewUserProfileService(profileRepo, globalNoteRepo, globalFolderRepo, logger)
	adminService := service.NewAdminService(profileRepo, noteRepo, folderRepo, globalNoteRepo, globalFolderRepo, logger)
	sanitizer := content.NewHTMLSanitizer()
	exporter := content.NewMarkdownExporter(sanitizer)
	builder := serviceNotebook.NewStructureBuilder(folderRepo, noteRepo, logger)

	globalService := serviceSharing.NewGlobalService(
		noteRepo,
		folderRepo,
		globalNoteRepo,
		globalFolderRepo,
		txManager,
		authorizer,
		profileService,
		builder,
		logger,
	)
	noteService := serviceNotebook.NewNoteService(noteRepo, folderRepo, authorizer, profileService, globalService, sanitizer, exporter, logger)
	folderService := serviceNotebook.NewFolderService(folderRepo, noteRepo, globalFolderRepo, txManager, authorizer, profileService, builder, globalService, logger)

	// PDF storage: Backblaze B2 when configured, inline data URLs otherwise
	var store services.AttachmentStore = attachment.NewInlineStore()
	if cfg.B2Enabled() {
		b2, err := attachment.NewB2Store(attachment.B2Config{
			KeyID:          cfg.B2KeyID,
			ApplicationKey: cfg.B2ApplicationKey,
			BucketName:     cfg.B2BucketName,
			Region:         cfg.B2Region,
			Endpoint:       cfg.B2Endpoint,
			PublicURL:      cfg.B2PublicURL,
		}, logger)
		if err != nil {
			log.Fatalf("Failed to create B2 store: %v", err)
		}
		store = attachment.NewFallbackStore(b2, logger)
		logger.Info("pdf uploads use backblaze b2", "bucket", cfg.B2BucketName)
	} else {
		logger.Warn("B2 not configured, pdf uploads are stored inline as data URLs")
	}

	logger.Info("services initialized")

	mux := handler.NewRouter(handler.Handlers{
		Notes:       handler.NewNoteHandler(noteService, logger),
		Folders:     handler.NewFolderHandler(folderService, logger),
		Global:      handler.NewGlobalHandler(globalService, globalService, logger),
		Users:       handler.NewUserHandler(profileService, logger),
		Admin:       handler.NewAdminHandler(adminService, logger),
		Attachments: handler.NewAttachmentHandler(store, logger),
		Health:      handler.NewHealthHandler(pool, cfg.Environment, logger),
	}, jwtVerifier, cfg, logger)

	// Build middleware chain
	// Order: CORS → Recovery → Routes (auth is applied per route)
	var h http.Handler = mux
	h = middleware.Recovery(logger)(h)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	logger.Info("server stopped")
}
