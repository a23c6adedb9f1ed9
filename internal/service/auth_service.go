package service

import (
	"context"
	"errors"

	"github.com/ahmadqo/e-evkin/internal/config"
	"github.com/ahmadqo/e-evkin/internal/model"
	"github.com/ahmadqo/e-evkin/internal/repository"
	"github.com/ahmadqo/e-evkin/internal/utils"
	"github.com/google/uuid"
)

// Request & Response DTOs
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  model.UserResponse `json:"user"`
	Token utils.TokenPair    `json:"token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Errors
var (
	ErrInvalidCredentials = errors.New("username atau password salah")
	ErrAccountDisabled    = errors.New("akun tidak aktif, hubungi administrator")
	ErrInvalidToken       = errors.New("refresh token tidak valid atau sudah expired")
	ErrUserNotFound       = errors.New("user tidak ditemukan")
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*utils.TokenPair, error)
	Me(ctx context.Context, userID string) (*model.UserResponse, error)
}

type authService struct {
	userRepo repository.UserRepository
	cfg      *config.JWTConfig
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.JWTConfig) AuthService {
	return &authService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	if !utils.CheckPassword(user.Password, req.Password) {
		return nil, ErrInvalidCredentials
	}

	tokenPair, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		User:  user.ToResponse(),
		Token: *tokenPair,
	}, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*utils.TokenPair, error) {
	claims, err := utils.ValidateToken(refreshToken, s.cfg.Secret, utils.TokenTypeRefresh)
	if err != nil {
		return nil, ErrInvalidToken
	}

	// Pastikan user masih ada dan aktif
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrAccountDisabled
	}

	return s.issue(user)
}

func (s *authService) Me(ctx context.Context, userID string) (*model.UserResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	resp := user.ToResponse()
	return &resp, nil
}

func (s *authService) issue(user *model.User) (*utils.TokenPair, error) {
	claims := model.JWTClaims{
		UserID:   user.ID.String(),
		Username: user.Username,
		Role:     string(user.Role),
		Nama:     user.Nama,
	}
	return utils.GenerateTokenPair(claims, s.cfg.Secret, s.cfg.ExpireHours, s.cfg.RefreshExpHours)
}
