package queue

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	_ "github.com/joho/godotenv/autoload"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/proofmark/proofmark/internal/cache"
	"github.com/proofmark/proofmark/internal/chain"
	"github.com/proofmark/proofmark/internal/config"
	"github.com/proofmark/proofmark/internal/database"
	"github.com/proofmark/proofmark/internal/email"
	"github.com/proofmark/proofmark/internal/queue/handlers"
	"github.com/proofmark/proofmark/internal/usecase"
)

// Server wraps asynq.Server for processing tasks
type Server struct {
	asynqServer *asynq.Server
	mux         *asynq.ServeMux
	gormDB      *gorm.DB
	sqlDB       *sql.DB
}

// Worker represents a worker application with all its dependencies
type Worker struct {
	server *Server
}

// NewWorker creates a fully configured worker with all dependencies
func NewWorker(log *slog.Logger) (*Worker, error) {
	log.Info("Initializing worker dependencies...")

	// Setup database connection
	var (
		dbname = os.Getenv(config.ENV_KEY_DB_DATABASE)
		dbpass = os.Getenv(config.ENV_KEY_DB_PASSWORD)
		dbuser = os.Getenv(config.ENV_KEY_DB_USER)
		dbport = os.Getenv(config.ENV_KEY_DB_PORT)
		dbhost = os.Getenv(config.ENV_KEY_DB_HOST)
	)

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", dbuser, dbpass, dbhost, dbport, dbname)
	sqlDB, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to open gorm database connection: %w", err)
	}

	repo, err := database.New(gormDB)
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to create repository: %w", err)
	}

	// Setup providers
	cp := chain.NewGatewayProvider(
		os.Getenv(config.ENV_KEY_CHAIN_GATEWAY_URL),
		os.Getenv(config.ENV_KEY_CHAIN_API_KEY),
		os.Getenv(config.ENV_KEY_CHAIN_CONTRACT),
	)

	var mp usecase.MailProvider
	if os.Getenv(config.ENV_KEY_SMTP_HOST) != "" {
		mp = email.NewEmailProvider(
			os.Getenv(config.ENV_KEY_SMTP_HOST),
			os.Getenv(config.ENV_KEY_SMTP_USERNAME),
			os.Getenv(config.ENV_KEY_SMTP_PASSWORD),
			os.Getenv(config.ENV_KEY_SMTP_PORT),
		)
	}

	redisAddr := fmt.Sprintf("%s:%s",
		os.Getenv(config.ENV_KEY_REDIS_HOST),
		os.Getenv(config.ENV_KEY_REDIS_PORT),
	)
	redisPassword := os.Getenv(config.ENV_KEY_REDIS_PASSWORD)

	vc := cache.NewVerificationCache(redisAddr, redisPassword)

	// Workers settle outcomes; they never enqueue or issue tokens.
	uc := usecase.New(repo, nil, nil, mp, cp, nil, vc)

	workerConcurrency := 10
	if wc := os.Getenv(config.ENV_KEY_WORKER_CONCURRENCY); wc != "" {
		var n int
		if _, err := fmt.Sscanf(wc, "%d", &n); err == nil && n > 0 {
			workerConcurrency = n
		}
	}

	asynqServer := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: redisPassword,
		},
		asynq.Config{
			Concurrency: workerConcurrency,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	mux := asynq.NewServeMux()

	h := handlers.NewHandlers(uc)

	mux.HandleFunc(TaskTypeConfirmAnchor, h.HandleConfirmAnchor)

	log.Info("Worker registered handlers", "tasks", []string{TaskTypeConfirmAnchor})

	server := &Server{
		asynqServer: asynqServer,
		mux:         mux,
		gormDB:      gormDB,
		sqlDB:       sqlDB,
	}

	return &Worker{
		server: server,
	}, nil
}

// Start starts the worker server
func (w *Worker) Start() error {
	return w.server.asynqServer.Start(w.server.mux)
}

// Stop stops the worker server gracefully
func (w *Worker) Stop() {
	w.server.asynqServer.Shutdown()

	if w.server.sqlDB != nil {
		if err := w.server.sqlDB.Close(); err != nil {
			slog.Error("error closing database", "err", err)
		}
	}
}
