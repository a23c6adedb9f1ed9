package service

import (
	"context"

	"github.com/ahmadqo/e-evkin/internal/model"
	"github.com/ahmadqo/e-evkin/internal/repository"
)

type ReferensiService interface {
	GetSatuan(ctx context.Context) ([]*model.Satuan, error)
	GetSumberAnggaran(ctx context.Context) ([]*model.SumberAnggaran, error)
	GetKegiatan(ctx context.Context) ([]*model.Kegiatan, error)
	GetSubKegiatan(ctx context.Context, kegiatanID *int) ([]*model.SubKegiatan, error)
}

type referensiService struct {
	repo repository.ReferensiRepository
}

func NewReferensiService(repo repository.ReferensiRepository) ReferensiService {
	return &referensiService{repo: repo}
}

func (s *referensiService) GetSatuan(ctx context.Context) ([]*model.Satuan, error) {
	return s.repo.FindAllSatuan(ctx)
}

func (s *referensiService) GetSumberAnggaran(ctx context.Context) ([]*model.SumberAnggaran, error) {
	return s.repo.FindAllSumberAnggaran(ctx)
}

func (s *referensiService) GetKegiatan(ctx context.Context) ([]*model.Kegiatan, error) {
	return s.repo.FindAllKegiatan(ctx)
}

func (s *referensiService) GetSubKegiatan(ctx context.Context, kegiatanID *int) ([]*model.SubKegiatan, error) {
	return s.repo.FindSubKegiatan(ctx, kegiatanID)
}
