// Command import membangun ulang database e-Evkin dari dump sistem lama:
// reset schema, seed data referensi, migrasi user puskesmas, lalu impor
// laporan satu tahun anggaran.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ahmadqo/e-evkin/internal/config"
	"github.com/ahmadqo/e-evkin/internal/database"
	"github.com/ahmadqo/e-evkin/internal/importer"
	"github.com/ahmadqo/e-evkin/internal/logger"
	"github.com/ahmadqo/e-evkin/internal/repository"
	"github.com/ahmadqo/e-evkin/internal/utils"
	"github.com/sirupsen/logrus"
)

const (
	rosterFile  = "puskesmas.json"
	laporanFile = "laporan.json"
)

func main() {
	cfg := config.Load()
	log := logger.New(&cfg.Log)

	if err := run(context.Background(), cfg, log); err != nil {
		log.WithError(err).Error("import failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	// input dibaca dulu supaya file yang rusak tidak sempat menghapus database
	roster, err := importer.LoadRoster(filepath.Join(cfg.Import.DataDir, rosterFile))
	if err != nil {
		return err
	}
	records, err := importer.LoadLaporan(filepath.Join(cfg.Import.DataDir, laporanFile))
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"puskesmas": len(roster),
		"laporan":   len(records),
		"data_dir":  cfg.Import.DataDir,
	}).Info("legacy data loaded")

	db, err := database.Connect(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	log.WithField("step", "reset").Info("resetting schema")
	if err := database.ResetSchema(ctx, db, cfg.Database.MigrationsPath, log); err != nil {
		return fmt.Errorf("reset schema: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	laporanRepo := repository.NewLaporanRepository(db)
	seeder := database.NewSeeder(repository.NewReferensiRepository(db), userRepo, log)

	log.WithField("step", "referensi").Info("seeding reference data")
	seeded, err := seeder.SeedReferences(ctx)
	if err != nil {
		return fmt.Errorf("seed referensi: %w", err)
	}

	im := importer.New(userRepo, laporanRepo, utils.HashPassword, log)

	log.WithField("step", "identitas").Info("migrating puskesmas users")
	ident, err := im.MigrateIdentities(ctx, roster, cfg.Import.AdminPassword)
	if err != nil {
		return fmt.Errorf("migrate identities: %w", err)
	}

	log.WithFields(logrus.Fields{"step": "laporan", "tahun": cfg.Import.Tahun}).Info("importing laporan")
	reports, err := im.ImportReports(ctx, records, ident.Mapping, cfg.Import.Tahun)
	if err != nil {
		return fmt.Errorf("import laporan: %w", err)
	}

	summary := &importer.Summary{
		Tahun:            cfg.Import.Tahun,
		Referensi:        seeded,
		AdminCreated:     ident.AdminCreated,
		PuskesmasCreated: ident.PuskesmasCreated,
		Reports:          reports,
	}
	summary.Write(os.Stdout)
	return nil
}
