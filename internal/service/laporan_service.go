package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ahmadqo/e-evkin/internal/model"
	"github.com/ahmadqo/e-evkin/internal/repository"
	"github.com/ahmadqo/e-evkin/internal/response"
	"github.com/ahmadqo/e-evkin/internal/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrLaporanNotFound  = errors.New("laporan tidak ditemukan")
	ErrLampiranNotFound = errors.New("lampiran tidak ditemukan")
	ErrOwnerRequired    = errors.New("user_id puskesmas wajib diisi untuk laporan yang dibuat admin")
	ErrOwnerNotFound    = errors.New("user puskesmas tidak ditemukan")
	ErrCatatanRequired  = errors.New("catatan wajib diisi saat menolak laporan")
	ErrTahunRequired    = errors.New("tahun wajib diisi")
)

const rekapInstansi = "DINAS KESEHATAN"

// FileStorage menyimpan file lampiran, diimplementasikan oleh *utils.LampiranStorage
type FileStorage interface {
	Put(ctx context.Context, up utils.LampiranUpload) (*utils.StoredLampiran, error)
	Remove(ctx context.Context, fileURL string) error
}

type LaporanService interface {
	GetAll(ctx context.Context, actor model.Actor, filter model.LaporanFilter) ([]*model.Laporan, *response.Pagination, error)
	GetByID(ctx context.Context, actor model.Actor, id string) (*model.LaporanWithLampiran, error)
	Create(ctx context.Context, actor model.Actor, req model.CreateLaporanRequest) (*model.Laporan, error)
	Update(ctx context.Context, actor model.Actor, id string, req model.UpdateLaporanRequest) (*model.Laporan, error)
	Delete(ctx context.Context, actor model.Actor, id string) error
	Submit(ctx context.Context, actor model.Actor, id string) (*model.Laporan, error)
	Verify(ctx context.Context, actor model.Actor, id string, req model.VerifikasiRequest) (*model.Laporan, error)
	Reject(ctx context.Context, actor model.Actor, id string, req model.VerifikasiRequest) (*model.Laporan, error)
	UploadLampiran(ctx context.Context, actor model.Actor, laporanID string, data []byte, contentType, fileName string) (*model.LaporanLampiran, error)
	DeleteLampiran(ctx context.Context, actor model.Actor, lampiranID string) error
	Export(ctx context.Context, actor model.Actor, filter model.LaporanFilter) ([]byte, error)
	Rekap(ctx context.Context, actor model.Actor, filter model.LaporanFilter) ([]byte, error)
}

type laporanService struct {
	repo     repository.LaporanRepository
	userRepo repository.UserRepository
	storage  FileStorage
	appURL   string
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewLaporanService(
	repo repository.LaporanRepository,
	userRepo repository.UserRepository,
	storage FileStorage,
	appURL string,
	log logrus.FieldLogger,
) LaporanService {
	return &laporanService{
		repo:     repo,
		userRepo: userRepo,
		storage:  storage,
		appURL:   strings.TrimRight(appURL, "/"),
		log:      log,
		now:      time.Now,
	}
}

// scope membatasi filter ke laporan milik sendiri untuk user puskesmas
func scope(actor model.Actor, filter model.LaporanFilter) model.LaporanFilter {
	if !actor.IsAdmin() {
		filter.UserID = actor.ID.String()
	}
	return filter
}

func (s *laporanService) GetAll(ctx context.Context, actor model.Actor, filter model.LaporanFilter) ([]*model.Laporan, *response.Pagination, error) {
	filter = scope(actor, filter)
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 10
	}

	items, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, nil, err
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

func (s *laporanService) GetByID(ctx context.Context, actor model.Actor, id string) (*model.LaporanWithLampiran, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrLaporanNotFound
	}

	laporan, err := s.repo.FindByIDWithLampiran(ctx, uid)
	if err != nil {
		return nil, err
	}
	if laporan == nil {
		return nil, ErrLaporanNotFound
	}
	if !CanView(actor, &laporan.Laporan) {
		return nil, ErrForbidden
	}
	return laporan, nil
}

// find memuat laporan dan memastikan actor boleh melihatnya
func (s *laporanService) find(ctx context.Context, actor model.Actor, id string) (*model.Laporan, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrLaporanNotFound
	}

	laporan, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if laporan == nil {
		return nil, ErrLaporanNotFound
	}
	if !CanView(actor, laporan) {
		return nil, ErrForbidden
	}
	return laporan, nil
}

func (s *laporanService) resolveOwner(ctx context.Context, actor model.Actor, userID string) (uuid.UUID, error) {
	if !actor.IsAdmin() {
		return actor.ID, nil
	}
	if userID == "" {
		return uuid.Nil, ErrOwnerRequired
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, ErrOwnerNotFound
	}
	owner, err := s.userRepo.FindByID(ctx, uid)
	if err != nil {
		return uuid.Nil, err
	}
	if owner == nil || owner.Role != model.RolePuskesmas {
		return uuid.Nil, ErrOwnerNotFound
	}
	return owner.ID, nil
}

func (s *laporanService) Create(ctx context.Context, actor model.Actor, req model.CreateLaporanRequest) (*model.Laporan, error) {
	if req.Status == "" {
		req.Status = model.StatusAwaiting
	}
	if err := CanSetStatus(req.Status); err != nil {
		return nil, err
	}

	ownerID, err := s.resolveOwner(ctx, actor, req.UserID)
	if err != nil {
		return nil, err
	}

	laporan := &model.Laporan{
		ID:               uuid.New(),
		UserID:           ownerID,
		KegiatanID:       req.KegiatanID,
		SubKegiatanID:    req.SubKegiatanID,
		SumberAnggaranID: req.SumberAnggaranID,
		SatuanID:         req.SatuanID,
		TargetK:          req.TargetK,
		Angkas:           req.Angkas,
		TargetRp:         req.TargetRp,
		RealisasiK:       req.RealisasiK,
		RealisasiRp:      req.RealisasiRp,
		Permasalahan:     req.Permasalahan,
		Upaya:            req.Upaya,
		Bulan:            req.Bulan,
		Tahun:            req.Tahun,
		Status:           req.Status,
	}

	if err := s.repo.Create(ctx, laporan); err != nil {
		return nil, err
	}
	return laporan, nil
}

func (s *laporanService) Update(ctx context.Context, actor model.Actor, id string, req model.UpdateLaporanRequest) (*model.Laporan, error) {
	laporan, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := CanModify(actor, laporan); err != nil {
		return nil, err
	}
	if req.Status != "" && req.Status != laporan.Status {
		if err := CanSetStatus(req.Status); err != nil {
			return nil, err
		}
		// keluar dari verified/rejected berarti hasil verifikasi lama tidak berlaku
		laporan.Status = req.Status
		laporan.VerifiedBy = nil
		laporan.VerifiedAt = nil
	}

	laporan.KegiatanID = req.KegiatanID
	laporan.SubKegiatanID = req.SubKegiatanID
	laporan.SumberAnggaranID = req.SumberAnggaranID
	laporan.SatuanID = req.SatuanID
	laporan.TargetK = req.TargetK
	laporan.Angkas = req.Angkas
	laporan.TargetRp = req.TargetRp
	laporan.RealisasiK = req.RealisasiK
	laporan.RealisasiRp = req.RealisasiRp
	laporan.Permasalahan = req.Permasalahan
	laporan.Upaya = req.Upaya
	laporan.Bulan = req.Bulan
	laporan.Tahun = req.Tahun

	if err := s.repo.Update(ctx, laporan); err != nil {
		return nil, err
	}
	return laporan, nil
}

func (s *laporanService) Delete(ctx context.Context, actor model.Actor, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrLaporanNotFound
	}

	laporan, err := s.repo.FindByIDWithLampiran(ctx, uid)
	if err != nil {
		return err
	}
	if laporan == nil {
		return ErrLaporanNotFound
	}
	if !CanView(actor, &laporan.Laporan) {
		return ErrForbidden
	}
	if err := CanModify(actor, &laporan.Laporan); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, uid); err != nil {
		return err
	}

	// baris lampiran ikut terhapus (cascade), file di MinIO dihapus manual
	for _, l := range laporan.Lampiran {
		if err := s.storage.Remove(ctx, l.FileURL); err != nil {
			s.log.WithError(err).WithField("file_url", l.FileURL).Warn("failed to delete lampiran file")
		}
	}
	return nil
}

// Submit mengirim laporan untuk diverifikasi. Laporan rejected boleh disubmit ulang.
func (s *laporanService) Submit(ctx context.Context, actor model.Actor, id string) (*model.Laporan, error) {
	laporan, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := CanModify(actor, laporan); err != nil {
		return nil, err
	}
	switch laporan.Status {
	case model.StatusSubmitted:
		return nil, ErrAlreadySubmitted
	case model.StatusVerified:
		return nil, ErrAlreadyVerified
	}

	laporan.Status = model.StatusSubmitted
	laporan.VerifiedBy = nil
	laporan.VerifiedAt = nil

	if err := s.repo.UpdateVerifikasi(ctx, laporan); err != nil {
		return nil, err
	}
	return laporan, nil
}

func (s *laporanService) Verify(ctx context.Context, actor model.Actor, id string, req model.VerifikasiRequest) (*model.Laporan, error) {
	return s.review(ctx, actor, id, model.StatusVerified, strings.TrimSpace(req.Catatan))
}

func (s *laporanService) Reject(ctx context.Context, actor model.Actor, id string, req model.VerifikasiRequest) (*model.Laporan, error) {
	catatan := strings.TrimSpace(req.Catatan)
	if catatan == "" {
		return nil, ErrCatatanRequired
	}
	return s.review(ctx, actor, id, model.StatusRejected, catatan)
}

func (s *laporanService) review(ctx context.Context, actor model.Actor, id string, status model.LaporanStatus, catatan string) (*model.Laporan, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}

	laporan, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := CanVerify(actor, laporan); err != nil {
		return nil, err
	}

	now := s.now()
	verifier := actor.ID
	laporan.Status = status
	laporan.VerifiedBy = &verifier
	laporan.VerifiedAt = &now
	laporan.Catatan = nil
	if catatan != "" {
		laporan.Catatan = &catatan
	}

	if err := s.repo.UpdateVerifikasi(ctx, laporan); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"laporan_id": laporan.ID,
		"status":     status,
		"admin_id":   actor.ID,
	}).Info("laporan reviewed")
	return laporan, nil
}

func (s *laporanService) UploadLampiran(ctx context.Context, actor model.Actor, laporanID string, data []byte, contentType, fileName string) (*model.LaporanLampiran, error) {
	laporan, err := s.find(ctx, actor, laporanID)
	if err != nil {
		return nil, err
	}
	if err := CanModify(actor, laporan); err != nil {
		return nil, err
	}

	stored, err := s.storage.Put(ctx, utils.LampiranUpload{
		Tahun:       laporan.Tahun,
		UserID:      laporan.UserID,
		LaporanID:   laporan.ID,
		FileName:    fileName,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		return nil, err
	}

	lampiran := &model.LaporanLampiran{
		ID:         uuid.New(),
		LaporanID:  laporan.ID,
		FileURL:    stored.URL,
		FileName:   stored.FileName,
		FileType:   stored.ContentType,
		UploadedAt: s.now(),
	}

	if err := s.repo.AddLampiran(ctx, lampiran); err != nil {
		if rmErr := s.storage.Remove(ctx, stored.URL); rmErr != nil {
			s.log.WithError(rmErr).WithField("key", stored.Key).Warn("failed to roll back lampiran file")
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"laporan_id": laporan.ID,
		"key":        stored.Key,
		"size":       stored.FileSize,
	}).Info("lampiran uploaded")
	return lampiran, nil
}

func (s *laporanService) DeleteLampiran(ctx context.Context, actor model.Actor, lampiranID string) error {
	uid, err := uuid.Parse(lampiranID)
	if err != nil {
		return ErrLampiranNotFound
	}

	lampiran, err := s.repo.FindLampiranByID(ctx, uid)
	if err != nil {
		return err
	}
	if lampiran == nil {
		return ErrLampiranNotFound
	}

	laporan, err := s.find(ctx, actor, lampiran.LaporanID.String())
	if err != nil {
		return err
	}
	if err := CanModify(actor, laporan); err != nil {
		return err
	}

	if err := s.repo.DeleteLampiran(ctx, uid); err != nil {
		return err
	}
	if err := s.storage.Remove(ctx, lampiran.FileURL); err != nil {
		s.log.WithError(err).WithField("file_url", lampiran.FileURL).Warn("failed to delete lampiran file")
	}
	return nil
}

func (s *laporanService) Export(ctx context.Context, actor model.Actor, filter model.LaporanFilter) ([]byte, error) {
	items, err := s.repo.FindAllUnpaged(ctx, scope(actor, filter))
	if err != nil {
		return nil, err
	}
	return utils.GenerateLaporanExcel(items)
}

// Rekap membuat PDF rekap per puskesmas untuk satu tahun (atau satu bulan)
func (s *laporanService) Rekap(ctx context.Context, actor model.Actor, filter model.LaporanFilter) ([]byte, error) {
	if filter.Tahun == nil {
		return nil, ErrTahunRequired
	}
	filter = scope(actor, filter)

	items, err := s.repo.FindAllUnpaged(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := utils.RekapPDFData{
		Instansi:      rekapInstansi,
		NamaPuskesmas: "Semua Puskesmas",
		Kecamatan:     "-",
		Tahun:         *filter.Tahun,
		GeneratedAt:   s.now(),
	}
	if filter.Bulan != nil {
		data.Bulan = *filter.Bulan
	}

	if filter.UserID != "" {
		if uid, err := uuid.Parse(filter.UserID); err == nil {
			user, err := s.userRepo.FindByID(ctx, uid)
			if err != nil {
				return nil, err
			}
			if user != nil {
				data.NamaPuskesmas = user.Nama
				if user.NamaPuskesmas != nil {
					data.NamaPuskesmas = *user.NamaPuskesmas
				}
				if user.Kecamatan != nil {
					data.Kecamatan = *user.Kecamatan
				}
			}
		}
	}

	for i, l := range items {
		row := utils.RekapRow{
			No:          i + 1,
			Bulan:       l.Bulan,
			TargetK:     l.TargetK,
			RealisasiK:  l.RealisasiK,
			TargetRp:    l.TargetRp,
			RealisasiRp: l.RealisasiRp,
			Status:      string(l.Status),
		}
		if l.NamaSubKegiatan != nil {
			row.SubKegiatan = *l.NamaSubKegiatan
		}
		if l.NamaSatuan != nil {
			row.Satuan = *l.NamaSatuan
		}
		data.Rows = append(data.Rows, row)
	}

	qr, err := utils.GenerateQRCodePNG(s.rekapURL(filter), 256)
	if err != nil {
		return nil, err
	}
	data.QRCodePNG = qr

	return utils.GenerateRekapPDF(data)
}

func (s *laporanService) rekapURL(filter model.LaporanFilter) string {
	q := url.Values{}
	q.Set("tahun", fmt.Sprint(*filter.Tahun))
	if filter.Bulan != nil {
		q.Set("bulan", fmt.Sprint(*filter.Bulan))
	}
	if filter.UserID != "" {
		q.Set("user_id", filter.UserID)
	}
	return s.appURL + "/rekap?" + q.Encode()
}
