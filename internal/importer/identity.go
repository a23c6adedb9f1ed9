package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmadqo/e-evkin/internal/model"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const AdminUsername = "admin"

var (
	ErrInvalidLegacyID   = errors.New("legacy puskesmas id is not an integer")
	ErrDuplicateLegacyID = errors.New("duplicate legacy puskesmas id")
	ErrMissingCredential = errors.New("legacy puskesmas has no username or password")
)

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
}

type LaporanStore interface {
	Create(ctx context.Context, laporan *model.Laporan) error
}

// PasswordHasher mengubah password plaintext menjadi hash yang disimpan
type PasswordHasher func(password string) (string, error)

type Importer struct {
	users   UserStore
	laporan LaporanStore
	hash    PasswordHasher
	log     logrus.FieldLogger
}

func New(users UserStore, laporan LaporanStore, hash PasswordHasher, log logrus.FieldLogger) *Importer {
	return &Importer{users: users, laporan: laporan, hash: hash, log: log}
}

// IdentityMapping memetakan id puskesmas lama ke id user baru.
// Hanya hidup selama satu kali proses import.
type IdentityMapping map[int64]uuid.UUID

func (m IdentityMapping) Resolve(legacyID Value) (uuid.UUID, bool) {
	id, ok := legacyID.Int()
	if !ok {
		return uuid.Nil, false
	}
	userID, ok := m[id]
	return userID, ok
}

type IdentityResult struct {
	Mapping          IdentityMapping
	AdminID          uuid.UUID
	AdminCreated     bool
	PuskesmasCreated int
}

// MigrateIdentities membuat satu admin dan satu user puskesmas per baris roster.
// Kegagalan pada satu baris membatalkan seluruh migrasi.
func (im *Importer) MigrateIdentities(ctx context.Context, roster []LegacyPuskesmas, adminPassword string) (*IdentityResult, error) {
	res := &IdentityResult{Mapping: make(IdentityMapping, len(roster))}

	adminHash, err := im.hash(adminPassword)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	admin := &model.User{
		ID:       uuid.New(),
		Username: AdminUsername,
		Password: adminHash,
		Nama:     "Administrator",
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	if err := im.users.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	res.AdminID = admin.ID
	res.AdminCreated = true
	im.log.WithField("username", AdminUsername).Info("admin user created")

	for i, p := range roster {
		legacyID, ok := p.ID.Int()
		if !ok {
			return nil, fmt.Errorf("roster row %d (id %q): %w", i+1, p.ID.Text(), ErrInvalidLegacyID)
		}
		if _, dup := res.Mapping[legacyID]; dup {
			return nil, fmt.Errorf("roster row %d (id %d): %w", i+1, legacyID, ErrDuplicateLegacyID)
		}
		if p.Username.IsEmpty() || p.Password.IsEmpty() {
			return nil, fmt.Errorf("roster row %d (id %d): %w", i+1, legacyID, ErrMissingCredential)
		}

		hashed, err := im.hash(p.Password.String())
		if err != nil {
			return nil, fmt.Errorf("hash password puskesmas %d: %w", legacyID, err)
		}

		user := &model.User{
			ID:            uuid.New(),
			Username:      p.Username.Text(),
			Password:      hashed,
			Nama:          p.Nama.Text(),
			Role:          model.RolePuskesmas,
			IDBlud:        p.IDBlud.TextPtr(),
			NamaPuskesmas: p.Nama.TextPtr(),
			Kecamatan:     p.Kecamatan.TextPtr(),
			Wilayah:       p.Wilayah.TextPtr(),
			IsActive:      true,
		}
		if err := im.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("create puskesmas %d (%s): %w", legacyID, user.Username, err)
		}

		res.Mapping[legacyID] = user.ID
		res.PuskesmasCreated++

		im.log.WithFields(logrus.Fields{
			"legacy_id": legacyID,
			"username":  user.Username,
		}).Debug("puskesmas user created")
	}

	im.log.WithField("count", res.PuskesmasCreated).Info("puskesmas users migrated")
	return res, nil
}
