package service

import (
	"context"
	"errors"

	"github.com/ahmadqo/e-evkin/internal/model"
	"github.com/ahmadqo/e-evkin/internal/repository"
	"github.com/ahmadqo/e-evkin/internal/response"
	"github.com/ahmadqo/e-evkin/internal/utils"
	"github.com/google/uuid"
)

var ErrUsernameAlreadyExists = errors.New("username sudah terdaftar")

type CreateUserRequest struct {
	Username      string     `json:"username"`
	Password      string     `json:"password"`
	Nama          string     `json:"nama"`
	Role          model.Role `json:"role"`
	IDBlud        *string    `json:"id_blud"`
	NamaPuskesmas *string    `json:"nama_puskesmas"`
	Kecamatan     *string    `json:"kecamatan"`
	Wilayah       *string    `json:"wilayah"`
}

type UserService interface {
	GetAll(ctx context.Context, filter model.UserFilter) ([]model.UserResponse, *response.Pagination, error)
	Create(ctx context.Context, req CreateUserRequest) (*model.UserResponse, error)
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) GetAll(ctx context.Context, filter model.UserFilter) ([]model.UserResponse, *response.Pagination, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 10
	}

	users, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	items := make([]model.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, u.ToResponse())
	}

	totalPages := int(total) / filter.PerPage
	if int(total)%filter.PerPage > 0 {
		totalPages++
	}

	return items, &response.Pagination{
		Page: filter.Page, PerPage: filter.PerPage,
		TotalItems: total, TotalPages: totalPages,
	}, nil
}

func (s *userService) Create(ctx context.Context, req CreateUserRequest) (*model.UserResponse, error) {
	existing, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameAlreadyExists
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	if req.Role == "" {
		req.Role = model.RolePuskesmas
	}
	if req.NamaPuskesmas == nil && req.Role == model.RolePuskesmas {
		nama := req.Nama
		req.NamaPuskesmas = &nama
	}

	user := &model.User{
		ID:            uuid.New(),
		Username:      req.Username,
		Password:      hashed,
		Nama:          req.Nama,
		Role:          req.Role,
		IDBlud:        req.IDBlud,
		NamaPuskesmas: req.NamaPuskesmas,
		Kecamatan:     req.Kecamatan,
		Wilayah:       req.Wilayah,
		IsActive:      true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	resp := user.ToResponse()
	return &resp, nil
}
