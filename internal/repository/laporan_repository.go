package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmadqo/e-evkin/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type LaporanRepository interface {
	FindAll(ctx context.Context, filter model.LaporanFilter) ([]*model.Laporan, int64, error)
	FindAllUnpaged(ctx context.Context, filter model.LaporanFilter) ([]*model.Laporan, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Laporan, error)
	FindByIDWithLampiran(ctx context.Context, id uuid.UUID) (*model.LaporanWithLampiran, error)
	Create(ctx context.Context, laporan *model.Laporan) error
	Update(ctx context.Context, laporan *model.Laporan) error
	UpdateVerifikasi(ctx context.Context, laporan *model.Laporan) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Lampiran
	AddLampiran(ctx context.Context, l *model.LaporanLampiran) error
	FindLampiranByID(ctx context.Context, id uuid.UUID) (*model.LaporanLampiran, error)
	DeleteLampiran(ctx context.Context, id uuid.UUID) error
}

type laporanRepository struct {
	db *sqlx.DB
}

func NewLaporanRepository(db *sqlx.DB) LaporanRepository {
	return &laporanRepository{db: db}
}

const laporanSelect = `
	SELECT l.*, u.nama_puskesmas AS nama_puskesmas, k.nama AS nama_kegiatan,
	       sk.nama AS nama_sub_kegiatan, sa.nama AS nama_sumber, s.nama AS nama_satuan
	FROM laporan l
	LEFT JOIN users u ON l.user_id = u.id
	LEFT JOIN kegiatan k ON l.id_kegiatan = k.id
	LEFT JOIN sub_kegiatan sk ON l.id_sub_kegiatan = sk.id
	LEFT JOIN sumber_anggaran sa ON l.id_sumber_anggaran = sa.id
	LEFT JOIN satuan s ON l.id_satuan = s.id
`

func buildLaporanWhere(filter model.LaporanFilter) (string, []interface{}, int) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("l.user_id = $%d", argIdx))
		args = append(args, filter.UserID)
		argIdx++
	}
	if filter.KegiatanID != nil {
		conditions = append(conditions, fmt.Sprintf("l.id_kegiatan = $%d", argIdx))
		args = append(args, *filter.KegiatanID)
		argIdx++
	}
	if filter.Bulan != nil {
		conditions = append(conditions, fmt.Sprintf("l.bulan = $%d", argIdx))
		args = append(args, *filter.Bulan)
		argIdx++
	}
	if filter.Tahun != nil {
		conditions = append(conditions, fmt.Sprintf("l.tahun = $%d", argIdx))
		args = append(args, *filter.Tahun)
		argIdx++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("l.status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}

	return strings.Join(conditions, " AND "), args, argIdx
}

func (r *laporanRepository) FindAll(ctx context.Context, filter model.LaporanFilter) ([]*model.Laporan, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 10
	}

	where, args, argIdx := buildLaporanWhere(filter)

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM laporan l WHERE %s", where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PerPage
	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY l.tahun DESC, l.bulan DESC, l.created_at DESC
		LIMIT $%d OFFSET $%d
	`, laporanSelect, where, argIdx, argIdx+1)
	args = append(args, filter.PerPage, offset)

	var items []*model.Laporan
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *laporanRepository) FindAllUnpaged(ctx context.Context, filter model.LaporanFilter) ([]*model.Laporan, error) {
	where, args, _ := buildLaporanWhere(filter)
	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY u.nama_puskesmas, l.bulan, l.id_kegiatan, l.id_sub_kegiatan
	`, laporanSelect, where)

	var items []*model.Laporan
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *laporanRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Laporan, error) {
	var l model.Laporan
	err := r.db.GetContext(ctx, &l, laporanSelect+" WHERE l.id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *laporanRepository) FindByIDWithLampiran(ctx context.Context, id uuid.UUID) (*model.LaporanWithLampiran, error) {
	laporan, err := r.FindByID(ctx, id)
	if err != nil || laporan == nil {
		return nil, err
	}

	lampiran, err := r.findLampiranByLaporanID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &model.LaporanWithLampiran{
		Laporan:  *laporan,
		Lampiran: lampiran,
	}, nil
}

func (r *laporanRepository) Create(ctx context.Context, laporan *model.Laporan) error {
	query := `
		INSERT INTO laporan (id, user_id, id_kegiatan, id_sub_kegiatan, id_sumber_anggaran, id_satuan,
		                     target_k, angkas, target_rp, realisasi_k, realisasi_rp,
		                     permasalahan, upaya, bulan, tahun, status, legacy_id, created_at, updated_at)
		VALUES (:id, :user_id, :id_kegiatan, :id_sub_kegiatan, :id_sumber_anggaran, :id_satuan,
		        :target_k, :angkas, :target_rp, :realisasi_k, :realisasi_rp,
		        :permasalahan, :upaya, :bulan, :tahun, :status, :legacy_id, NOW(), NOW())
	`
	_, err := r.db.NamedExecContext(ctx, query, laporan)
	return err
}

func (r *laporanRepository) Update(ctx context.Context, laporan *model.Laporan) error {
	query := `
		UPDATE laporan SET
			id_kegiatan = :id_kegiatan, id_sub_kegiatan = :id_sub_kegiatan,
			id_sumber_anggaran = :id_sumber_anggaran, id_satuan = :id_satuan,
			target_k = :target_k, angkas = :angkas, target_rp = :target_rp,
			realisasi_k = :realisasi_k, realisasi_rp = :realisasi_rp,
			permasalahan = :permasalahan, upaya = :upaya,
			bulan = :bulan, tahun = :tahun, status = :status,
			verified_by = :verified_by, verified_at = :verified_at, updated_at = NOW()
		WHERE id = :id
	`
	_, err := r.db.NamedExecContext(ctx, query, laporan)
	return err
}

func (r *laporanRepository) UpdateVerifikasi(ctx context.Context, laporan *model.Laporan) error {
	query := `
		UPDATE laporan SET
			status = :status, verified_by = :verified_by, verified_at = :verified_at,
			catatan = :catatan, updated_at = NOW()
		WHERE id = :id
	`
	_, err := r.db.NamedExecContext(ctx, query, laporan)
	return err
}

func (r *laporanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM laporan WHERE id = $1", id)
	return err
}

func (r *laporanRepository) AddLampiran(ctx context.Context, l *model.LaporanLampiran) error {
	query := `
		INSERT INTO laporan_lampiran (id, laporan_id, file_url, file_name, file_type, uploaded_at)
		VALUES (:id, :laporan_id, :file_url, :file_name, :file_type, NOW())
	`
	_, err := r.db.NamedExecContext(ctx, query, l)
	return err
}

func (r *laporanRepository) FindLampiranByID(ctx context.Context, id uuid.UUID) (*model.LaporanLampiran, error) {
	var l model.LaporanLampiran
	err := r.db.GetContext(ctx, &l, "SELECT * FROM laporan_lampiran WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *laporanRepository) DeleteLampiran(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM laporan_lampiran WHERE id = $1", id)
	return err
}

func (r *laporanRepository) findLampiranByLaporanID(ctx context.Context, laporanID uuid.UUID) ([]model.LaporanLampiran, error) {
	var items []model.LaporanLampiran
	err := r.db.SelectContext(ctx, &items,
		"SELECT * FROM laporan_lampiran WHERE laporan_id = $1 ORDER BY uploaded_at ASC",
		laporanID,
	)
	return items, err
}
