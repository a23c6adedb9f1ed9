package importer

import (
	"context"
	"sort"
	"strconv"

	"github.com/ahmadqo/e-evkin/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	defaultSumberAnggaranID = 1
	defaultSatuanID         = 1
	progressEvery           = 1000
)

type ReportResult struct {
	Total    int // seluruh baris di file
	Filtered int // baris dengan tahun sesuai target
	Imported int
	Skipped  int // puskesmas_id tidak dikenal
	Failed   int // gagal insert

	unresolved map[string]struct{}
	FailedIDs  []string // id_evkin baris yang gagal insert
}

// UnresolvedIDs mengembalikan id puskesmas lama yang tidak dikenal, terurut
func (r *ReportResult) UnresolvedIDs() []string {
	ids := make([]string, 0, len(r.unresolved))
	for id := range r.unresolved {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.ParseInt(ids[i], 10, 64)
		b, errB := strconv.ParseInt(ids[j], 10, 64)
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return ids[i] < ids[j]
	})
	return ids
}

// ImportReports mengimpor laporan lama untuk satu tahun anggaran. Baris dengan
// puskesmas tidak dikenal dilewati, baris yang gagal insert dicatat; keduanya
// tidak menghentikan proses.
func (im *Importer) ImportReports(ctx context.Context, records []LegacyLaporan, mapping IdentityMapping, tahun int) (*ReportResult, error) {
	res := &ReportResult{
		Total:      len(records),
		unresolved: make(map[string]struct{}),
	}

	for _, rec := range records {
		if !matchesYear(rec, tahun) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Filtered++

		userID, ok := mapping.Resolve(rec.PuskesmasID)
		if !ok {
			res.Skipped++
			res.unresolved[unresolvedKey(rec.PuskesmasID)] = struct{}{}
			continue
		}

		laporan := NormalizeLaporan(rec, userID, tahun)
		if err := im.laporan.Create(ctx, laporan); err != nil {
			res.Failed++
			res.FailedIDs = append(res.FailedIDs, rec.IDEvkin.Text())
			im.log.WithFields(logrus.Fields{
				"id_evkin":     rec.IDEvkin.Text(),
				"puskesmas_id": rec.PuskesmasID.Text(),
			}).WithError(err).Error("failed to insert laporan")
			continue
		}
		res.Imported++

		if res.Imported%progressEvery == 0 {
			im.log.WithField("imported", res.Imported).Info("import progress")
		}
	}

	im.log.WithFields(logrus.Fields{
		"filtered": res.Filtered,
		"imported": res.Imported,
		"skipped":  res.Skipped,
		"failed":   res.Failed,
	}).Info("laporan import finished")

	return res, nil
}

// matchesYear: hanya baris dengan tahun persis sama dengan target yang diimpor
func matchesYear(rec LegacyLaporan, tahun int) bool {
	y, ok := rec.Tahun.Int()
	return ok && y == int64(tahun)
}

func unresolvedKey(v Value) string {
	if v.IsEmpty() {
		return "-"
	}
	if n, ok := v.Int(); ok {
		return strconv.FormatInt(n, 10)
	}
	return v.Text()
}

// NormalizeLaporan membentuk baris laporan dari data lama dengan nilai default
// untuk kolom yang kosong atau tidak valid.
func NormalizeLaporan(rec LegacyLaporan, userID uuid.UUID, tahun int) *model.Laporan {
	bulan := rec.Bulan.IntOr(1)
	if bulan < 1 || bulan > 12 {
		bulan = 1
	}

	l := &model.Laporan{
		ID:               uuid.New(),
		UserID:           userID,
		KegiatanID:       rec.KegiatanID.IntOr(0),
		SubKegiatanID:    rec.SubKegiatanID.IntOr(0),
		SumberAnggaranID: rec.SumberAnggaran.IntOr(defaultSumberAnggaranID),
		SatuanID:         rec.Satuan.IntOr(defaultSatuanID),
		TargetK:          rec.TargetK.DecimalOr(decimal.Zero),
		Angkas:           rec.Angkas.DecimalOr(decimal.Zero),
		TargetRp:         rec.TargetRp.DecimalOr(decimal.Zero),
		RealisasiK:       rec.RealisasiK.DecimalOr(decimal.Zero),
		RealisasiRp:      rec.RealisasiRp.DecimalOr(decimal.Zero),
		Permasalahan:     rec.Permasalahan.String(),
		Upaya:            rec.Upaya.String(),
		Bulan:            bulan,
		Tahun:            rec.Tahun.IntOr(tahun),
		Status:           model.StatusSubmitted,
	}
	if id, ok := rec.IDEvkin.Int(); ok {
		l.LegacyID = &id
	}
	return l
}
