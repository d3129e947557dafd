package server

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/proofmark/proofmark/internal/config"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.Use(middleware.RequestID())
	e.Use(NewEchoLogger(s.logger))
	e.Use(middleware.Recover())
	e.Use(otelecho.Middleware("proofmark-api", otelecho.WithSkipper(skipper)))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.GET("/api/health", s.healthHandler)

	var authGroup = e.Group("/api/v1/auth")
	authGroup.POST("/register", s.RegisterUser)
	authGroup.POST("/login", s.Login)

	uploadLimit := os.Getenv(config.ENV_KEY_UPLOAD_LIMIT)
	if uploadLimit == "" {
		uploadLimit = config.DEFAULT_UPLOAD_LIMIT
	}

	var uploadGroup = e.Group("/api/v1/uploads", middleware.BodyLimit(uploadLimit))
	uploadGroup.POST("", s.UploadFile, s.AuthMiddleware)

	var assetGroup = e.Group("/api/v1/assets")
	assetGroup.POST("", s.CreateAsset, s.AuthMiddleware)
	assetGroup.GET("", s.ListMyAssets, s.AuthMiddleware)
	assetGroup.GET("/:id", s.GetAssetByID)
	assetGroup.POST("/:id/anchor", s.AnchorAsset, s.AuthMiddleware)
	assetGroup.GET("/:id/events", s.AssetEvents)

	var verifyGroup = e.Group("/api/v1/verify")
	verifyGroup.GET("/:hash", s.VerifyHash)
	verifyGroup.GET("/:hash/records", s.FindByHash)
	verifyGroup.GET("/:hash/certificate", s.GetCertificate)

	var userGroup = e.Group("/api/v1/users")
	userGroup.GET("/me", s.GetMe, s.AuthMiddleware)

	return e
}
