package server

import (
	"github.com/labstack/echo/v4"

	"github.com/proofmark/proofmark/internal/usecase"
)

type RegisterUserRequest struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8"`
	WalletAddress string `json:"wallet_address"`
}

func (s *Server) RegisterUser(ctx echo.Context) error {
	var req RegisterUserRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	user, err := s.server.RegisterUser(ctx.Request().Context(), usecase.RegisterUser{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		WalletAddress: req.WalletAddress,
	})
	if err != nil {
		return errorJSON(ctx, err)
	}

	return ctx.JSON(201, Res{
		Data:    ConvertUser(user),
		Message: "User created.",
	})
}

type LoginRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (s *Server) Login(ctx echo.Context) error {
	var req LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	token, user, err := s.server.Login(ctx.Request().Context(), req.Name, req.Password)
	if err != nil {
		return errorJSON(ctx, err)
	}

	return ctx.JSON(200, Res{
		Data: LoginResponse{
			Token: token,
			User:  ConvertUser(user),
		},
	})
}

type User struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	WalletAddress string `json:"wallet_address,omitempty"`
	CreatedAt     string `json:"created_at"`
}

func ConvertUser(u usecase.User) User {
	return User{
		ID:            u.ID.String(),
		Name:          u.Name,
		Email:         u.Email,
		WalletAddress: u.WalletAddress,
		CreatedAt:     u.CreatedAt.String(),
	}
}

func (s *Server) GetMe(ctx echo.Context) error {
	user, err := s.server.GetMe(ctx.Request().Context())
	if err != nil {
		return errorJSON(ctx, err)
	}
	return ctx.JSON(200, Res{Data: ConvertUser(user)})
}
