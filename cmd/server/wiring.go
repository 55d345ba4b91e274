package main

import (
	"context"
	"database/sql"
	"fmt"

	"codetrek/internal/domain/repository"
	"codetrek/internal/domain/repository/memory"
	"codetrek/internal/platform/config"
	"codetrek/internal/platform/database"
	"codetrek/internal/platform/llm"
	"codetrek/internal/platform/logger"
	"codetrek/internal/platform/storage"
	"codetrek/internal/platform/vectorstore"

	"github.com/spf13/cobra"
)

// bootstrap loads configuration, applies command-line overrides and builds the logger.
func bootstrap(cmd *cobra.Command) (*config.Config, *logger.Logger, error) {
	cfg, dotenv := config.Load()
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.APIPort = port
	}
	if driver, _ := cmd.Flags().GetString("db-driver"); driver != "" {
		cfg.DBDriver = driver
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	if !dotenv {
		log.Debug("No .env file found, using process environment")
	}
	return cfg, log, nil
}

type repositories struct {
	users       repository.UserRepository
	profiles    repository.ProfileRepository
	tokens      repository.TokenRepository
	problems    repository.ProblemRepository
	chats       repository.ChatRepository
	submissions repository.SubmissionRepository
	files       repository.FileRepository
	tx          repository.TxManager
}

// openRepositories returns the repositories for cfg.DBDriver. The returned
// *sql.DB is nil for the memory driver.
func openRepositories(ctx context.Context, cfg *config.Config, log *logger.Logger) (*repositories, *sql.DB, error) {
	switch cfg.DBDriver {
	case config.DriverMemory:
		log.Warn("Using in-memory storage, data is lost on restart")
		s := memory.NewStore()
		return &repositories{
			users:       s.Users(),
			profiles:    s.Profiles(),
			tokens:      s.Tokens(),
			problems:    s.Problems(),
			chats:       s.Chats(),
			submissions: s.Submissions(),
			files:       s.Files(),
			tx:          s.TxManager(),
		}, nil, nil
	case config.DriverPostgres:
		db, err := database.Connect(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		if cfg.AutoMigrate {
			if err := database.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, nil, err
			}
			log.Info("Schema migrated")
		}
		return &repositories{
			users:       repository.NewPgUserRepository(db),
			profiles:    repository.NewPgProfileRepository(db),
			tokens:      repository.NewPgTokenRepository(db),
			problems:    repository.NewPgProblemRepository(db),
			chats:       repository.NewPgChatRepository(db),
			submissions: repository.NewPgSubmissionRepository(db),
			files:       repository.NewPgFileRepository(db),
			tx:          repository.NewSQLTxManager(db),
		}, db, nil
	default:
		return nil, nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}

func newGenerator(ctx context.Context, cfg *config.Config, log *logger.Logger) (*llm.Client, error) {
	provider, err := llm.NewProviderFromConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info("Language model configured", "provider", provider.Name(), "model", provider.ModelID())
	return llm.NewClient(provider, cfg.LLMTimeout, log), nil
}

// newConceptStore returns NopStore when QDRANT_URL is unset.
func newConceptStore(cfg *config.Config, log *logger.Logger) (vectorstore.Store, error) {
	if cfg.QdrantURL == "" {
		log.Info("Similarity search disabled, tutor answers without retrieved concepts")
		return vectorstore.NopStore{}, nil
	}
	embedder := vectorstore.NewOpenAIEmbedder(cfg.OllamaBaseURL, "", cfg.EmbeddingModel)
	return vectorstore.NewQdrantStore(log, vectorstore.QdrantConfig{
		URL:        cfg.QdrantURL,
		Collection: cfg.QdrantCollection,
		TextField:  cfg.QdrantTextField,
		Timeout:    cfg.VectorTimeout,
	}, embedder)
}

// mediaStore is the upload backend; local backends also serve their files.
type mediaStore struct {
	backend storage.Backend
	local   *storage.LocalStorage
	close   func() error
}

func newMediaStore(ctx context.Context, cfg *config.Config) (*mediaStore, error) {
	switch cfg.StorageBackend {
	case config.StorageLocal, "":
		local, err := storage.NewLocalStorage(cfg.MediaRoot, cfg.MediaURL)
		if err != nil {
			return nil, err
		}
		return &mediaStore{backend: local, local: local, close: func() error { return nil }}, nil
	case config.StorageGCS:
		gcs, err := storage.NewGCSStorage(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, err
		}
		return &mediaStore{backend: gcs, close: gcs.Close}, nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
}
