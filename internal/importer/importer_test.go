package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/ahmadqo/e-evkin/internal/database"
	"github.com/ahmadqo/e-evkin/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	users  []*model.User
	failOn string // username yang gagal dibuat
}

func (f *fakeUserStore) Create(_ context.Context, u *model.User) error {
	if u.Username == f.failOn {
		return errors.New(`duplicate key value violates unique constraint "users_username_key"`)
	}
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return errors.New(`duplicate key value violates unique constraint "users_username_key"`)
		}
	}
	f.users = append(f.users, u)
	return nil
}

func (f *fakeUserStore) byRole(role model.Role) []*model.User {
	var out []*model.User
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out
}

// fakeLaporanStore menolak kegiatan yang tidak ada, seperti foreign key di database
type fakeLaporanStore struct {
	rows          []*model.Laporan
	knownKegiatan map[int]bool
}

func (f *fakeLaporanStore) Create(_ context.Context, l *model.Laporan) error {
	if f.knownKegiatan != nil && !f.knownKegiatan[l.KegiatanID] {
		return fmt.Errorf(`insert or update on table "laporan" violates foreign key constraint "laporan_id_kegiatan_fkey" (id_kegiatan=%d)`, l.KegiatanID)
	}
	f.rows = append(f.rows, l)
	return nil
}

func fakeHash(p string) (string, error) {
	return "hashed:" + p, nil
}

func newTestImporter(users *fakeUserStore, laporan *fakeLaporanStore) (*Importer, *logtest.Hook) {
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return New(users, laporan, fakeHash, log), hook
}

func roster(ids ...string) []LegacyPuskesmas {
	out := make([]LegacyPuskesmas, 0, len(ids))
	for _, id := range ids {
		out = append(out, LegacyPuskesmas{
			ID:        V(id),
			Username:  V("pkm" + id),
			Password:  V("pass" + id),
			Nama:      V("Puskesmas " + id),
			Kecamatan: V("Kecamatan " + id),
		})
	}
	return out
}

func TestMigrateIdentities_MapsEveryLegacyID(t *testing.T) {
	users := &fakeUserStore{}
	im, _ := newTestImporter(users, &fakeLaporanStore{})

	res, err := im.MigrateIdentities(context.Background(), roster("1", "2", "17"), "Admin@123")
	require.NoError(t, err)

	assert.True(t, res.AdminCreated)
	assert.Equal(t, 3, res.PuskesmasCreated)
	require.Len(t, res.Mapping, 3)

	byID := map[uuid.UUID]*model.User{}
	for _, u := range users.users {
		byID[u.ID] = u
	}
	seen := map[uuid.UUID]bool{}
	for legacyID, userID := range res.Mapping {
		u, ok := byID[userID]
		require.True(t, ok, "legacy id %d maps to an unknown user", legacyID)
		assert.Equal(t, model.RolePuskesmas, u.Role)
		assert.Equal(t, fmt.Sprintf("pkm%d", legacyID), u.Username)
		assert.False(t, seen[userID], "user id reused")
		seen[userID] = true
	}

	admins := users.byRole(model.RoleAdmin)
	require.Len(t, admins, 1)
	assert.Equal(t, AdminUsername, admins[0].Username)
	assert.Equal(t, res.AdminID, admins[0].ID)
}

func TestMigrateIdentities_HashesPasswordsAndCopiesMetadata(t *testing.T) {
	users := &fakeUserStore{}
	im, _ := newTestImporter(users, &fakeLaporanStore{})

	r := roster("5")
	r[0].IDBlud = V("BLUD-05")
	_, err := im.MigrateIdentities(context.Background(), r, "Admin@123")
	require.NoError(t, err)

	require.Len(t, users.users, 2)
	assert.Equal(t, "hashed:Admin@123", users.users[0].Password)

	pkm := users.users[1]
	assert.Equal(t, "hashed:pass5", pkm.Password)
	require.NotNil(t, pkm.IDBlud)
	assert.Equal(t, "BLUD-05", *pkm.IDBlud)
	require.NotNil(t, pkm.NamaPuskesmas)
	assert.Equal(t, "Puskesmas 5", *pkm.NamaPuskesmas)
	assert.Nil(t, pkm.Wilayah)
}

func TestMigrateIdentities_AbortsOnSingleFailure(t *testing.T) {
	users := &fakeUserStore{failOn: "pkm2"}
	im, _ := newTestImporter(users, &fakeLaporanStore{})

	res, err := im.MigrateIdentities(context.Background(), roster("1", "2", "3"), "Admin@123")

	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "create puskesmas 2")
}

func TestMigrateIdentities_RejectsBadRoster(t *testing.T) {
	tests := []struct {
		name   string
		roster []LegacyPuskesmas
		want   error
	}{
		{"duplicate id", roster("1", "1"), ErrDuplicateLegacyID},
		{"non integer id", roster("abc"), ErrInvalidLegacyID},
		{"missing password", []LegacyPuskesmas{{ID: V("3"), Username: V("pkm3")}}, ErrMissingCredential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			im, _ := newTestImporter(&fakeUserStore{}, &fakeLaporanStore{})
			_, err := im.MigrateIdentities(context.Background(), tt.roster, "Admin@123")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestImportReports_EndToEndScenario(t *testing.T) {
	users := &fakeUserStore{}
	laporan := &fakeLaporanStore{}
	im, _ := newTestImporter(users, laporan)
	ctx := context.Background()

	ident, err := im.MigrateIdentities(ctx, roster("1", "2"), "Admin@123")
	require.NoError(t, err)

	records := []LegacyLaporan{
		{IDEvkin: V("101"), PuskesmasID: V("1"), Tahun: V("2025"), KegiatanID: V("2"), SubKegiatanID: V("3"), Bulan: V("4")},
		{IDEvkin: V("102"), PuskesmasID: V("99"), Tahun: V("2025"), KegiatanID: V("2"), SubKegiatanID: V("3"), Bulan: V("4")},
		{IDEvkin: V("103"), PuskesmasID: V("1"), Tahun: V("2024"), KegiatanID: V("2"), SubKegiatanID: V("3"), Bulan: V("4")},
	}

	res, err := im.ImportReports(ctx, records, ident.Mapping, 2025)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Filtered)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, []string{"99"}, res.UnresolvedIDs())

	require.Len(t, laporan.rows, 1)
	row := laporan.rows[0]
	assert.Equal(t, ident.Mapping[1], row.UserID)
	require.NotNil(t, row.LegacyID)
	assert.Equal(t, int64(101), *row.LegacyID)
	assert.Equal(t, model.StatusSubmitted, row.Status)

	var out bytes.Buffer
	(&Summary{Tahun: 2025, AdminCreated: true, PuskesmasCreated: 2, Reports: res}).Write(&out)
	assert.Regexp(t, `Laporan diimpor\s+: 1`, out.String())
	assert.Regexp(t, `Dilewati \(pkm tak dikenal\)\s+: 1`, out.String())
}

func TestImportReports_InsertFailureIsSeparateFromSkip(t *testing.T) {
	laporan := &fakeLaporanStore{knownKegiatan: map[int]bool{2: true}}
	im, hook := newTestImporter(&fakeUserStore{}, laporan)

	mapping := IdentityMapping{1: uuid.New()}
	records := []LegacyLaporan{
		{IDEvkin: V("1"), PuskesmasID: V("1"), Tahun: V("2025"), KegiatanID: V("2")},
		{IDEvkin: V("2"), PuskesmasID: V("1"), Tahun: V("2025"), KegiatanID: V("77")},
		{IDEvkin: V("3"), PuskesmasID: V("5"), Tahun: V("2025"), KegiatanID: V("2")},
	}

	res, err := im.ImportReports(context.Background(), records, mapping, 2025)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, []string{"2"}, res.FailedIDs)
	assert.Equal(t, []string{"5"}, res.UnresolvedIDs(), "insert failures must not enter the unresolved set")

	var errorEntries []*logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			errorEntries = append(errorEntries, e)
		}
	}
	require.Len(t, errorEntries, 1, "only the insert failure is logged as an error")
	assert.Equal(t, "2", errorEntries[0].Data["id_evkin"])
}

func TestImportReports_EveryFilteredRecordLandsInOneBucket(t *testing.T) {
	laporan := &fakeLaporanStore{knownKegiatan: map[int]bool{1: true, 2: true}}
	im, _ := newTestImporter(&fakeUserStore{}, laporan)
	mapping := IdentityMapping{1: uuid.New(), 2: uuid.New(), 3: uuid.New()}

	// puskesmas 0 dan 4 tidak dikenal, kegiatan 0 dan 3 gagal FK
	var records []LegacyLaporan
	for i := 0; i < 60; i++ {
		records = append(records, LegacyLaporan{
			IDEvkin:     V(fmt.Sprint(i)),
			PuskesmasID: V(fmt.Sprint(i % 5)),
			Tahun:       V(fmt.Sprint(2023 + i%3)),
			KegiatanID:  V(fmt.Sprint(i % 4)),
		})
	}

	res, err := im.ImportReports(context.Background(), records, mapping, 2025)
	require.NoError(t, err)

	assert.Equal(t, 20, res.Filtered)
	assert.Equal(t, res.Filtered, res.Imported+res.Skipped+res.Failed)
	assert.Len(t, laporan.rows, res.Imported)
	assert.Equal(t, []string{"0", "4"}, res.UnresolvedIDs())
}

func TestImportReports_StopsOnCancelledContext(t *testing.T) {
	im, _ := newTestImporter(&fakeUserStore{}, &fakeLaporanStore{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := []LegacyLaporan{{PuskesmasID: V("1"), Tahun: V("2025")}}
	_, err := im.ImportReports(ctx, records, IdentityMapping{}, 2025)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestNormalizeLaporan_Defaults(t *testing.T) {
	userID := uuid.New()
	rec := LegacyLaporan{
		PuskesmasID:    V("1"),
		SumberAnggaran: V("APBD"),
		TargetRp:       V("1500000.50"),
		RealisasiK:     V("abc"),
		Bulan:          V("13"),
	}

	l := NormalizeLaporan(rec, userID, 2025)

	assert.Equal(t, userID, l.UserID)
	assert.True(t, l.TargetK.IsZero(), "missing target_k imports as 0")
	assert.True(t, l.RealisasiK.IsZero(), "unparsable realisasi_k imports as 0")
	assert.True(t, l.TargetRp.Equal(decimal.RequireFromString("1500000.5")))
	assert.Equal(t, 1, l.SumberAnggaranID, "non numeric sumber_anggaran imports as 1")
	assert.Equal(t, 1, l.SatuanID)
	assert.Equal(t, 0, l.KegiatanID)
	assert.Equal(t, 1, l.Bulan)
	assert.Equal(t, 2025, l.Tahun)
	assert.Equal(t, "", l.Permasalahan)
	assert.Nil(t, l.LegacyID)
}

func TestValue_UnmarshalJSON(t *testing.T) {
	var rec LegacyLaporan
	err := json.Unmarshal([]byte(`{
		"puskesmas_id": 12,
		"satuan": " 3 ",
		"sumber_anggaran": null,
		"target_k": "",
		"target_rp": 2500000.75,
		"tahun": "2025",
		"upaya": "  Koordinasi lintas sektor  "
	}`), &rec)
	require.NoError(t, err)

	id, ok := rec.PuskesmasID.Int()
	assert.True(t, ok)
	assert.Equal(t, int64(12), id)
	assert.Equal(t, 3, rec.Satuan.IntOr(1))
	assert.Equal(t, 1, rec.SumberAnggaran.IntOr(1))
	assert.True(t, rec.TargetK.IsEmpty())
	assert.Equal(t, "2500000.75", rec.TargetRp.DecimalOr(decimal.Zero).String())
	assert.Equal(t, "  Koordinasi lintas sektor  ", rec.Upaya.String(), "narrative text is kept verbatim")
	assert.Equal(t, "Koordinasi lintas sektor", rec.Upaya.Text())
	assert.True(t, rec.Permasalahan.IsEmpty())

	_, ok = V("12.5").Int()
	assert.False(t, ok)
	n, ok := V("12.0").Int()
	assert.True(t, ok)
	assert.Equal(t, int64(12), n)
}

func TestValue_IntRejectsOverflow(t *testing.T) {
	tests := []string{
		"18446744073709551617", // 2^64 + 1
		"9223372036854775808",  // MaxInt64 + 1
		"-9223372036854775809",
		"1e30",
	}
	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			_, ok := V(raw).Int()
			assert.False(t, ok)
			assert.Equal(t, 7, V(raw).IntOr(7))
		})
	}

	n, ok := V("9223372036854775807").Int()
	assert.True(t, ok)
	assert.Equal(t, int64(9223372036854775807), n)
}

func TestImportReports_OverflowingPuskesmasIDIsSkipped(t *testing.T) {
	laporan := &fakeLaporanStore{}
	im, _ := newTestImporter(&fakeUserStore{}, laporan)
	mapping := IdentityMapping{1: uuid.New()}

	records := []LegacyLaporan{
		{IDEvkin: V("1"), PuskesmasID: V("18446744073709551617"), Tahun: V("2025"), Satuan: V("18446744073709551617")},
	}
	res, err := im.ImportReports(context.Background(), records, mapping, 2025)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Imported)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, []string{"18446744073709551617"}, res.UnresolvedIDs())
	assert.Empty(t, laporan.rows)

	l := NormalizeLaporan(records[0], mapping[1], 2025)
	assert.Equal(t, 1, l.SatuanID, "overflowing satuan falls back to the default")
}

func TestImportReports_RowsWithoutYearAreFilteredOut(t *testing.T) {
	laporan := &fakeLaporanStore{}
	im, _ := newTestImporter(&fakeUserStore{}, laporan)
	mapping := IdentityMapping{1: uuid.New()}

	records := []LegacyLaporan{
		{IDEvkin: V("1"), PuskesmasID: V("1"), Tahun: V("2025")},
		{IDEvkin: V("2"), PuskesmasID: V("1")},
		{IDEvkin: V("3"), PuskesmasID: V("1"), Tahun: V("")},
		{IDEvkin: V("4"), PuskesmasID: V("1"), Tahun: V("dua ribu")},
	}
	res, err := im.ImportReports(context.Background(), records, mapping, 2025)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 1, res.Filtered)
	assert.Equal(t, 1, res.Imported)
	require.Len(t, laporan.rows, 1)
	assert.Equal(t, int64(1), *laporan.rows[0].LegacyID)
}

func TestNormalizeLaporan_KeepsNarrativeWhitespace(t *testing.T) {
	rec := LegacyLaporan{
		Tahun:        V(" 2025 "),
		Permasalahan: V("  - stok obat kurang\n"),
		Upaya:        V(" koordinasi "),
	}
	l := NormalizeLaporan(rec, uuid.New(), 2024)

	assert.Equal(t, 2025, l.Tahun)
	assert.Equal(t, "  - stok obat kurang\n", l.Permasalahan)
	assert.Equal(t, " koordinasi ", l.Upaya)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()

	rosterPath := filepath.Join(dir, "puskesmas.json")
	require.NoError(t, os.WriteFile(rosterPath, []byte(`[
		{"id": 1, "username": "pkm_a", "password": "a123", "nama": "Puskesmas A", "kecamatan": "A"},
		{"id": "2", "username": "pkm_b", "password": "b123", "nama": "Puskesmas B", "id_blud": null}
	]`), 0o644))

	laporanPath := filepath.Join(dir, "laporan.json")
	require.NoError(t, os.WriteFile(laporanPath, []byte(`{"data": [
		{"id_evkin": 9, "puskesmas_id": "1", "tahun": 2025, "bulan": "2"}
	]}`), 0o644))

	r, err := LoadRoster(rosterPath)
	require.NoError(t, err)
	require.Len(t, r, 2)
	assert.Equal(t, "pkm_b", r[1].Username.String())
	assert.Nil(t, r[1].IDBlud.TextPtr())

	l, err := LoadLaporan(laporanPath)
	require.NoError(t, err)
	require.Len(t, l, 1)
	assert.Equal(t, 2, l[0].Bulan.IntOr(1))

	_, err = LoadRoster(filepath.Join(dir, "tidak-ada.json"))
	assert.Error(t, err)
}

func TestSummary_TruncatesLongLists(t *testing.T) {
	res := &ReportResult{unresolved: map[string]struct{}{}}
	for i := 1; i <= 25; i++ {
		res.unresolved[fmt.Sprint(i*10)] = struct{}{}
	}
	res.unresolved["-"] = struct{}{}

	ids := res.UnresolvedIDs()
	assert.Equal(t, "10", ids[0])
	assert.Equal(t, "250", ids[24])
	assert.Equal(t, "-", ids[25])

	var out bytes.Buffer
	(&Summary{Tahun: 2025, Referensi: database.SeedResult{Satuan: 2}, Reports: res}).Write(&out)
	assert.Contains(t, out.String(), "... dan 6 lainnya")
	assert.Regexp(t, `Data referensi baru\s+: 2`, out.String())
}
