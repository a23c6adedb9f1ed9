package repository

import (
	"context"

	"github.com/ahmadqo/e-evkin/internal/model"
	"github.com/jmoiron/sqlx"
)

type ReferensiRepository interface {
	// Ensure* menyisipkan baris jika ID belum ada; true berarti baris baru dibuat
	EnsureSatuan(ctx context.Context, s model.Satuan) (bool, error)
	EnsureSumberAnggaran(ctx context.Context, s model.SumberAnggaran) (bool, error)
	EnsureKegiatan(ctx context.Context, k model.Kegiatan) (bool, error)
	EnsureSubKegiatan(ctx context.Context, sk model.SubKegiatan) (bool, error)

	FindAllSatuan(ctx context.Context) ([]*model.Satuan, error)
	FindAllSumberAnggaran(ctx context.Context) ([]*model.SumberAnggaran, error)
	FindAllKegiatan(ctx context.Context) ([]*model.Kegiatan, error)
	FindSubKegiatan(ctx context.Context, kegiatanID *int) ([]*model.SubKegiatan, error)
}

type referensiRepository struct {
	db *sqlx.DB
}

func NewReferensiRepository(db *sqlx.DB) ReferensiRepository {
	return &referensiRepository{db: db}
}

func (r *referensiRepository) ensure(ctx context.Context, query string, arg interface{}) (bool, error) {
	res, err := r.db.NamedExecContext(ctx, query, arg)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *referensiRepository) EnsureSatuan(ctx context.Context, s model.Satuan) (bool, error) {
	return r.ensure(ctx, `
		INSERT INTO satuan (id, nama) VALUES (:id, :nama)
		ON CONFLICT (id) DO NOTHING
	`, s)
}

func (r *referensiRepository) EnsureSumberAnggaran(ctx context.Context, s model.SumberAnggaran) (bool, error) {
	return r.ensure(ctx, `
		INSERT INTO sumber_anggaran (id, nama) VALUES (:id, :nama)
		ON CONFLICT (id) DO NOTHING
	`, s)
}

func (r *referensiRepository) EnsureKegiatan(ctx context.Context, k model.Kegiatan) (bool, error) {
	return r.ensure(ctx, `
		INSERT INTO kegiatan (id, kode, nama) VALUES (:id, :kode, :nama)
		ON CONFLICT (id) DO NOTHING
	`, k)
}

func (r *referensiRepository) EnsureSubKegiatan(ctx context.Context, sk model.SubKegiatan) (bool, error) {
	return r.ensure(ctx, `
		INSERT INTO sub_kegiatan (id, id_kegiatan, kode, nama) VALUES (:id, :id_kegiatan, :kode, :nama)
		ON CONFLICT (id) DO NOTHING
	`, sk)
}

func (r *referensiRepository) FindAllSatuan(ctx context.Context) ([]*model.Satuan, error) {
	var items []*model.Satuan
	err := r.db.SelectContext(ctx, &items, "SELECT id, nama FROM satuan ORDER BY id")
	return items, err
}

func (r *referensiRepository) FindAllSumberAnggaran(ctx context.Context) ([]*model.SumberAnggaran, error) {
	var items []*model.SumberAnggaran
	err := r.db.SelectContext(ctx, &items, "SELECT id, nama FROM sumber_anggaran ORDER BY id")
	return items, err
}

func (r *referensiRepository) FindAllKegiatan(ctx context.Context) ([]*model.Kegiatan, error) {
	var items []*model.Kegiatan
	err := r.db.SelectContext(ctx, &items, "SELECT id, kode, nama FROM kegiatan ORDER BY id")
	return items, err
}

func (r *referensiRepository) FindSubKegiatan(ctx context.Context, kegiatanID *int) ([]*model.SubKegiatan, error) {
	var items []*model.SubKegiatan
	if kegiatanID != nil {
		err := r.db.SelectContext(ctx, &items,
			"SELECT id, id_kegiatan, kode, nama FROM sub_kegiatan WHERE id_kegiatan = $1 ORDER BY id",
			*kegiatanID,
		)
		return items, err
	}
	err := r.db.SelectContext(ctx, &items, "SELECT id, id_kegiatan, kode, nama FROM sub_kegiatan ORDER BY id")
	return items, err
}
