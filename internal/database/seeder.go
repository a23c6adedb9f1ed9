package database

import (
	"context"
	"fmt"

	"github.com/ahmadqo/e-evkin/internal/model"
	"github.com/ahmadqo/e-evkin/internal/repository"
	"github.com/ahmadqo/e-evkin/internal/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "Admin@123"
)

type Seeder struct {
	refRepo  repository.ReferensiRepository
	userRepo repository.UserRepository
	log      logrus.FieldLogger
}

func NewSeeder(refRepo repository.ReferensiRepository, userRepo repository.UserRepository, log logrus.FieldLogger) *Seeder {
	return &Seeder{refRepo: refRepo, userRepo: userRepo, log: log}
}

// SeedResult jumlah baris baru per tabel referensi
type SeedResult struct {
	Satuan         int
	SumberAnggaran int
	Kegiatan       int
	SubKegiatan    int
}

func (r SeedResult) Total() int {
	return r.Satuan + r.SumberAnggaran + r.Kegiatan + r.SubKegiatan
}

// SeedReferences memastikan semua data referensi ada. Baris yang sudah ada
// (berdasarkan ID) tidak diubah, jadi aman dijalankan berulang kali.
func (s *Seeder) SeedReferences(ctx context.Context) (SeedResult, error) {
	var res SeedResult

	for _, st := range satuanData {
		created, err := s.refRepo.EnsureSatuan(ctx, st)
		if err != nil {
			return res, fmt.Errorf("seed satuan %d: %w", st.ID, err)
		}
		if created {
			res.Satuan++
		}
	}

	for _, sa := range sumberAnggaranData {
		created, err := s.refRepo.EnsureSumberAnggaran(ctx, sa)
		if err != nil {
			return res, fmt.Errorf("seed sumber anggaran %d: %w", sa.ID, err)
		}
		if created {
			res.SumberAnggaran++
		}
	}

	// kegiatan harus ada sebelum sub kegiatan (foreign key)
	for _, k := range kegiatanData {
		created, err := s.refRepo.EnsureKegiatan(ctx, k)
		if err != nil {
			return res, fmt.Errorf("seed kegiatan %d: %w", k.ID, err)
		}
		if created {
			res.Kegiatan++
		}
	}

	for _, sk := range subKegiatanData {
		created, err := s.refRepo.EnsureSubKegiatan(ctx, sk)
		if err != nil {
			return res, fmt.Errorf("seed sub kegiatan %d: %w", sk.ID, err)
		}
		if created {
			res.SubKegiatan++
		}
	}

	s.log.WithFields(logrus.Fields{
		"satuan":          res.Satuan,
		"sumber_anggaran": res.SumberAnggaran,
		"kegiatan":        res.Kegiatan,
		"sub_kegiatan":    res.SubKegiatan,
	}).Info("reference data seeded")

	return res, nil
}

// SeedAdminUser membuat user admin default jika belum ada
func (s *Seeder) SeedAdminUser(ctx context.Context, password string) error {
	count, err := s.userRepo.CountByRole(ctx, model.RoleAdmin)
	if err != nil {
		return err
	}

	if count > 0 {
		s.log.Debug("admin user already exists, skipping seed")
		return nil
	}

	if password == "" {
		password = DefaultAdminPassword
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &model.User{
		ID:       uuid.New(),
		Username: DefaultAdminUsername,
		Password: hashed,
		Nama:     "Administrator",
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return err
	}

	s.log.WithField("username", DefaultAdminUsername).Warn("default admin user created, segera ganti password setelah login pertama")
	return nil
}
