package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"cloudnote/internal/config"
	"cloudnote/internal/domain/models"
	"cloudnote/internal/repository/postgres"
	postgresNotebook "cloudnote/internal/repository/postgres/notebook"
	postgresSharing "cloudnote/internal/repository/postgres/sharing"
	"cloudnote/internal/service"
	serviceAuth "cloudnote/internal/service/auth"
	serviceNotebook "cloudnote/internal/service/notebook"
	"cloudnote/internal/service/notebook/content"
	serviceSharing "cloudnote/internal/service/sharing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	clearData := flag.Bool("clear-data", false, "Delete the owner's notes, folders and global items, then exit")
	ownerID := flag.String("owner", "seed-user", "Firebase uid that owns the seeded workspace")
	email := flag.String("email", "seed@example.com", "Email used as the author fallback")
	displayName := flag.String("name", "Seed User", "Display name stored on the owner's profile")
	publish := flag.Bool("publish", false, "Share every seeded root folder to the global feed")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: cannot run destructive operations (--drop-tables or --clear-data) in production")
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *dropTables {
		log.Println("Dropping all tables...")
		if err := postgres.DropMigrations(cfg.DatabaseURL, logger); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	log.Println("Ensuring database schema is up to date...")
	if err := postgres.RunMigrations(cfg.DatabaseURL, logger); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames()

	if *clearData {
		log.Printf("Clearing data for owner %s...", *ownerID)
		if err := clearOwnerData(ctx, pool, tables, *ownerID); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("Data cleared")
		return
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	noteRepo := postgresNotebook.NewNoteRepository(repoConfig)
	folderRepo := postgresNotebook.NewFolderRepository(repoConfig)
	globalNoteRepo := postgresSharing.NewGlobalNoteRepository(repoConfig)
	globalFolderRepo := postgresSharing.NewGlobalFolderRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	authorizer := serviceAuth.NewOwnerBasedAuthorizer(noteRepo, folderRepo)
	profiles := service.NewUserProfileService(postgres.NewUserProfileRepository(repoConfig), globalNoteRepo, globalFolderRepo, logger)
	sanitizer := content.NewHTMLSanitizer()
	builder := serviceNotebook.NewStructureBuilder(folderRepo, noteRepo, logger)
	global := serviceSharing.NewGlobalService(noteRepo, folderRepo, globalNoteRepo, globalFolderRepo, txManager, authorizer, profiles, builder, logger)

	s := &seeder{
		notes:    serviceNotebook.NewNoteService(noteRepo, folderRepo, authorizer, profiles, global, sanitizer, content.NewMarkdownExporter(sanitizer), logger),
		folders:  serviceNotebook.NewFolderService(folderRepo, noteRepo, globalFolderRepo, txManager, authorizer, profiles, builder, global, logger),
		global:   global,
		profiles: profiles,
	}

	identity := &models.Identity{UserID: *ownerID, Email: *email}
	result, err := s.run(ctx, identity, *displayName, *publish)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeding complete: %d folders, %d notes for %s", result.Folders, result.Notes, *ownerID)
}

// clearOwnerData removes everything one owner created, snapshots included
func clearOwnerData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, ownerID string) error {
	statements := []string{
		fmt.Sprintf("DELETE FROM %s WHERE author_id = $1", tables.GlobalNotes),
		fmt.Sprintf("DELETE FROM %s WHERE author_id = $1", tables.GlobalFolders),
		fmt.Sprintf("DELETE FROM %s WHERE owner_id = $1", tables.Notes),
		fmt.Sprintf("DELETE FROM %s WHERE owner_id = $1", tables.Folders),
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, stmt := range statements {
		tag, err := tx.Exec(ctx, stmt, ownerID)
		if err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
		log.Printf("  %s -> %d rows", stmt, tag.RowsAffected())
	}

	return tx.Commit(ctx)
}
