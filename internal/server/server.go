package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"

	"github.com/proofmark/proofmark/internal/cache"
	"github.com/proofmark/proofmark/internal/chain"
	"github.com/proofmark/proofmark/internal/config"
	"github.com/proofmark/proofmark/internal/database"
	"github.com/proofmark/proofmark/internal/email"
	"github.com/proofmark/proofmark/internal/filestorage"
	"github.com/proofmark/proofmark/internal/identity"
	"github.com/proofmark/proofmark/internal/queue"
	"github.com/proofmark/proofmark/internal/telemetry"
	"github.com/proofmark/proofmark/internal/usecase"
)

// Service is the surface the HTTP layer needs from the application core.
type Service interface {
	// Health returns a map of health status information.
	// The keys and values in the map are service-specific.
	Health() map[string]string

	// Close terminates the database connection.
	Close() error

	RegisterUser(context.Context, usecase.RegisterUser) (usecase.User, error)
	Login(ctx context.Context, name, password string) (string, usecase.User, error)
	VerifyIDToken(ctx context.Context, token string) (string, error)
	GetAuthUserByUID(ctx context.Context, uid string) (usecase.AuthUser, error)
	GetMe(context.Context) (usecase.User, error)

	Register(context.Context, usecase.RegisterAsset) (usecase.Asset, error)
	RegisterUpload(context.Context, usecase.UploadAsset) (usecase.Asset, error)
	AnchorAsset(context.Context, uuid.UUID) (usecase.Asset, error)
	GetAssetByID(context.Context, uuid.UUID) (usecase.Asset, error)
	ListMyAssets(context.Context, usecase.ListAssetsOption) ([]usecase.Asset, int, error)

	VerifyHash(context.Context, string) (usecase.VerificationResult, error)
	FindByHash(context.Context, string) ([]usecase.Asset, int, error)
	GetCertificate(context.Context, string) (usecase.Certificate, error)
}

type Server struct {
	server    Service
	validator *validator.Validate
	logger    *slog.Logger
}

// App bundles the HTTP server with the resources it owns.
type App struct {
	httpServer  *http.Server
	uc          usecase.Usecase
	queueClient *queue.Client
	vcache      *cache.VerificationCache
	otelClose   func(context.Context) error
}

// NewApp wires the full API server from the environment.
func NewApp() (*App, error) {
	logger := telemetry.NewLogger()
	slog.SetDefault(logger)

	otelClose, err := telemetry.Setup(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to set up telemetry: %w", err)
	}

	gormDB, err := database.Open()
	if err != nil {
		return nil, err
	}
	repo, err := database.New(gormDB)
	if err != nil {
		return nil, err
	}

	ip := identity.New()

	var fsp usecase.FileStorageProvider
	if endpoint := os.Getenv(config.ENV_KEY_MINIO_ENDPOINT); endpoint != "" {
		fsp = filestorage.NewMinIOStorage(
			os.Getenv(config.ENV_KEY_MINIO_BUCKET),
			os.Getenv(config.ENV_KEY_MINIO_FILES_PATH),
			endpoint,
			os.Getenv(config.ENV_KEY_MINIO_ACCESS_KEY),
			os.Getenv(config.ENV_KEY_MINIO_SECRET_KEY),
		)
	}

	var mp usecase.MailProvider
	if os.Getenv(config.ENV_KEY_SMTP_HOST) != "" {
		mp = email.NewEmailProvider(
			os.Getenv(config.ENV_KEY_SMTP_HOST),
			os.Getenv(config.ENV_KEY_SMTP_USERNAME),
			os.Getenv(config.ENV_KEY_SMTP_PASSWORD),
			os.Getenv(config.ENV_KEY_SMTP_PORT),
		)
	}

	cp := chain.NewGatewayProvider(
		os.Getenv(config.ENV_KEY_CHAIN_GATEWAY_URL),
		os.Getenv(config.ENV_KEY_CHAIN_API_KEY),
		os.Getenv(config.ENV_KEY_CHAIN_CONTRACT),
	)

	redisAddr := fmt.Sprintf("%s:%s",
		os.Getenv(config.ENV_KEY_REDIS_HOST),
		os.Getenv(config.ENV_KEY_REDIS_PORT),
	)
	redisPassword := os.Getenv(config.ENV_KEY_REDIS_PASSWORD)

	qc := queue.NewClient(redisAddr, redisPassword)
	vc := cache.NewVerificationCache(redisAddr, redisPassword)

	uc := usecase.New(repo, ip, fsp, mp, cp, qc, vc)

	sv := &Server{
		server:    uc,
		validator: validator.New(),
		logger:    logger,
	}

	port, _ := strconv.Atoi(os.Getenv(config.ENV_KEY_PORT))
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      sv.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	return &App{
		httpServer:  httpServer,
		uc:          uc,
		queueClient: qc,
		vcache:      vc,
		otelClose:   otelClose,
	}, nil
}

func (a *App) Addr() string {
	return a.httpServer.Addr
}

func (a *App) ListenAndServe() error {
	return a.httpServer.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.httpServer.Shutdown(ctx)

	if cerr := a.queueClient.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if cerr := a.vcache.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if cerr := a.uc.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if a.otelClose != nil {
		if cerr := a.otelClose(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}

	return err
}
