package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LaporanStatus string

const (
	StatusAwaiting  LaporanStatus = "awaiting"
	StatusSubmitted LaporanStatus = "submitted"
	StatusVerified  LaporanStatus = "verified"
	StatusRejected  LaporanStatus = "rejected"
	StatusStored    LaporanStatus = "stored"
)

func (s LaporanStatus) Valid() bool {
	switch s {
	case StatusAwaiting, StatusSubmitted, StatusVerified, StatusRejected, StatusStored:
		return true
	}
	return false
}

type Laporan struct {
	ID               uuid.UUID       `db:"id"                 json:"id"`
	UserID           uuid.UUID       `db:"user_id"            json:"user_id"`
	KegiatanID       int             `db:"id_kegiatan"        json:"id_kegiatan"`
	SubKegiatanID    int             `db:"id_sub_kegiatan"    json:"id_sub_kegiatan"`
	SumberAnggaranID int             `db:"id_sumber_anggaran" json:"id_sumber_anggaran"`
	SatuanID         int             `db:"id_satuan"          json:"id_satuan"`
	TargetK          decimal.Decimal `db:"target_k"           json:"target_k"`
	Angkas           decimal.Decimal `db:"angkas"             json:"angkas"`
	TargetRp         decimal.Decimal `db:"target_rp"          json:"target_rp"`
	RealisasiK       decimal.Decimal `db:"realisasi_k"        json:"realisasi_k"`
	RealisasiRp      decimal.Decimal `db:"realisasi_rp"       json:"realisasi_rp"`
	Permasalahan     string          `db:"permasalahan"       json:"permasalahan"`
	Upaya            string          `db:"upaya"              json:"upaya"`
	Bulan            int             `db:"bulan"              json:"bulan"`
	Tahun            int             `db:"tahun"              json:"tahun"`
	Status           LaporanStatus   `db:"status"             json:"status"`
	VerifiedBy       *uuid.UUID      `db:"verified_by"        json:"verified_by"`
	VerifiedAt       *time.Time      `db:"verified_at"        json:"verified_at"`
	Catatan          *string         `db:"catatan"            json:"catatan"`
	LegacyID         *int64          `db:"legacy_id"          json:"legacy_id,omitempty"`
	CreatedAt        time.Time       `db:"created_at"         json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"         json:"updated_at"`

	// Join fields
	NamaPuskesmas   *string `db:"nama_puskesmas"    json:"nama_puskesmas,omitempty"`
	NamaKegiatan    *string `db:"nama_kegiatan"     json:"nama_kegiatan,omitempty"`
	NamaSubKegiatan *string `db:"nama_sub_kegiatan" json:"nama_sub_kegiatan,omitempty"`
	NamaSumber      *string `db:"nama_sumber"       json:"nama_sumber,omitempty"`
	NamaSatuan      *string `db:"nama_satuan"       json:"nama_satuan,omitempty"`
}

type LaporanWithLampiran struct {
	Laporan
	Lampiran []LaporanLampiran `json:"lampiran"`
}

// LaporanLampiran adalah file bukti dukung sebuah laporan
type LaporanLampiran struct {
	ID         uuid.UUID `db:"id"          json:"id"`
	LaporanID  uuid.UUID `db:"laporan_id"  json:"laporan_id"`
	FileURL    string    `db:"file_url"    json:"file_url"`
	FileName   string    `db:"file_name"   json:"file_name"`
	FileType   string    `db:"file_type"   json:"file_type"`
	UploadedAt time.Time `db:"uploaded_at" json:"uploaded_at"`
}

type CreateLaporanRequest struct {
	UserID           string          `json:"user_id"` // hanya dipakai admin
	KegiatanID       int             `json:"id_kegiatan"`
	SubKegiatanID    int             `json:"id_sub_kegiatan"`
	SumberAnggaranID int             `json:"id_sumber_anggaran"`
	SatuanID         int             `json:"id_satuan"`
	TargetK          decimal.Decimal `json:"target_k"`
	Angkas           decimal.Decimal `json:"angkas"`
	TargetRp         decimal.Decimal `json:"target_rp"`
	RealisasiK       decimal.Decimal `json:"realisasi_k"`
	RealisasiRp      decimal.Decimal `json:"realisasi_rp"`
	Permasalahan     string          `json:"permasalahan"`
	Upaya            string          `json:"upaya"`
	Bulan            int             `json:"bulan"`
	Tahun            int             `json:"tahun"`
	Status           LaporanStatus   `json:"status"`
}

type UpdateLaporanRequest struct {
	KegiatanID       int             `json:"id_kegiatan"`
	SubKegiatanID    int             `json:"id_sub_kegiatan"`
	SumberAnggaranID int             `json:"id_sumber_anggaran"`
	SatuanID         int             `json:"id_satuan"`
	TargetK          decimal.Decimal `json:"target_k"`
	Angkas           decimal.Decimal `json:"angkas"`
	TargetRp         decimal.Decimal `json:"target_rp"`
	RealisasiK       decimal.Decimal `json:"realisasi_k"`
	RealisasiRp      decimal.Decimal `json:"realisasi_rp"`
	Permasalahan     string          `json:"permasalahan"`
	Upaya            string          `json:"upaya"`
	Bulan            int             `json:"bulan"`
	Tahun            int             `json:"tahun"`
	Status           LaporanStatus   `json:"status"`
}

type VerifikasiRequest struct {
	Catatan string `json:"catatan"`
}

type LaporanFilter struct {
	UserID     string
	KegiatanID *int
	Bulan      *int
	Tahun      *int
	Status     string
	Page       int
	PerPage    int
}

// Actor adalah user yang sedang mengakses, diambil dari JWT claims
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
