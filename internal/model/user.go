package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RolePuskesmas Role = "puskesmas"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	return r == RolePuskesmas || r == RoleAdmin
}

type User struct {
	ID            uuid.UUID `db:"id"             json:"id"`
	Username      string    `db:"username"       json:"username"`
	Password      string    `db:"password"       json:"-"` // never expose hash
	Nama          string    `db:"nama"           json:"nama"`
	Role          Role      `db:"role"           json:"role"`
	IDBlud        *string   `db:"id_blud"        json:"id_blud"`
	NamaPuskesmas *string   `db:"nama_puskesmas" json:"nama_puskesmas"`
	Kecamatan     *string   `db:"kecamatan"      json:"kecamatan"`
	Wilayah       *string   `db:"wilayah"        json:"wilayah"`
	IsActive      bool      `db:"is_active"      json:"is_active"`
	CreatedAt     time.Time `db:"created_at"     json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"     json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DTO untuk response login
type UserResponse struct {
	ID            uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	Nama          string    `json:"nama"`
	Role          Role      `json:"role"`
	IDBlud        *string   `json:"id_blud,omitempty"`
	NamaPuskesmas *string   `json:"nama_puskesmas,omitempty"`
	Kecamatan     *string   `json:"kecamatan,omitempty"`
	Wilayah       *string   `json:"wilayah,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:            u.ID,
		Username:      u.Username,
		Nama:          u.Nama,
		Role:          u.Role,
		IDBlud:        u.IDBlud,
		NamaPuskesmas: u.NamaPuskesmas,
		Kecamatan:     u.Kecamatan,
		Wilayah:       u.Wilayah,
		IsActive:      u.IsActive,
		CreatedAt:     u.CreatedAt,
	}
}

type UserFilter struct {
	Role    string
	Search  string
	Page    int
	PerPage int
}

// JWT Claims custom
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Nama     string `json:"nama"`
}
