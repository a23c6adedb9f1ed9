package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"testing"
	"time"

	"github.com/ahmadqo/e-evkin/internal/config"
	"github.com/ahmadqo/e-evkin/internal/model"
	"github.com/ahmadqo/e-evkin/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// ── fakes ────────────────────────────────────────────

type fakeLaporanRepo struct {
	items      map[uuid.UUID]*model.Laporan
	lampiran   map[uuid.UUID]*model.LaporanLampiran
	lastFilter model.LaporanFilter
	failAdd    bool
}

func newFakeLaporanRepo() *fakeLaporanRepo {
	return &fakeLaporanRepo{
		items:    map[uuid.UUID]*model.Laporan{},
		lampiran: map[uuid.UUID]*model.LaporanLampiran{},
	}
}

func (f *fakeLaporanRepo) match(filter model.LaporanFilter) []*model.Laporan {
	var out []*model.Laporan
	for _, l := range f.items {
		if filter.UserID != "" && l.UserID.String() != filter.UserID {
			continue
		}
		if filter.Tahun != nil && l.Tahun != *filter.Tahun {
			continue
		}
		if filter.Bulan != nil && l.Bulan != *filter.Bulan {
			continue
		}
		if filter.Status != "" && string(l.Status) != filter.Status {
			continue
		}
		c := *l
		out = append(out, &c)
	}
	return out
}

func (f *fakeLaporanRepo) FindAll(_ context.Context, filter model.LaporanFilter) ([]*model.Laporan, int64, error) {
	f.lastFilter = filter
	items := f.match(filter)
	return items, int64(len(items)), nil
}

func (f *fakeLaporanRepo) FindAllUnpaged(_ context.Context, filter model.LaporanFilter) ([]*model.Laporan, error) {
	f.lastFilter = filter
	return f.match(filter), nil
}

func (f *fakeLaporanRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Laporan, error) {
	l, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	c := *l
	return &c, nil
}

func (f *fakeLaporanRepo) FindByIDWithLampiran(ctx context.Context, id uuid.UUID) (*model.LaporanWithLampiran, error) {
	l, _ := f.FindByID(ctx, id)
	if l == nil {
		return nil, nil
	}
	out := &model.LaporanWithLampiran{Laporan: *l}
	for _, a := range f.lampiran {
		if a.LaporanID == id {
			out.Lampiran = append(out.Lampiran, *a)
		}
	}
	return out, nil
}

func (f *fakeLaporanRepo) Create(_ context.Context, l *model.Laporan) error {
	c := *l
	f.items[l.ID] = &c
	return nil
}

// Update menulis kolom yang sama dengan query UPDATE di repository; catatan tidak ikut
func (f *fakeLaporanRepo) Update(_ context.Context, l *model.Laporan) error {
	c := *l
	if stored, ok := f.items[l.ID]; ok {
		c.Catatan = stored.Catatan
	}
	f.items[l.ID] = &c
	return nil
}

func (f *fakeLaporanRepo) UpdateVerifikasi(_ context.Context, l *model.Laporan) error {
	stored := f.items[l.ID]
	stored.Status = l.Status
	stored.VerifiedBy = l.VerifiedBy
	stored.VerifiedAt = l.VerifiedAt
	stored.Catatan = l.Catatan
	return nil
}

func (f *fakeLaporanRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.items, id)
	for lid, a := range f.lampiran {
		if a.LaporanID == id {
			delete(f.lampiran, lid)
		}
	}
	return nil
}

func (f *fakeLaporanRepo) AddLampiran(_ context.Context, l *model.LaporanLampiran) error {
	if f.failAdd {
		return errors.New("insert lampiran failed")
	}
	f.lampiran[l.ID] = l
	return nil
}

func (f *fakeLaporanRepo) FindLampiranByID(_ context.Context, id uuid.UUID) (*model.LaporanLampiran, error) {
	return f.lampiran[id], nil
}

func (f *fakeLaporanRepo) DeleteLampiran(_ context.Context, id uuid.UUID) error {
	delete(f.lampiran, id)
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	f := &fakeUserRepo{users: map[uuid.UUID]*model.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) FindAll(_ context.Context, filter model.UserFilter) ([]*model.User, int64, error) {
	var out []*model.User
	for _, u := range f.users {
		if filter.Role == "" || string(u.Role) == filter.Role {
			out = append(out, u)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) CountByRole(_ context.Context, role model.Role) (int, error) {
	n := 0
	for _, u := range f.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (f *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	f.users[u.ID] = u
	return nil
}

type fakeStorage struct {
	uploads  []utils.LampiranUpload
	uploaded []string
	deleted  []string
}

func (f *fakeStorage) Put(_ context.Context, up utils.LampiranUpload) (*utils.StoredLampiran, error) {
	ext, ok := utils.AllowedLampiranTypes[up.ContentType]
	if !ok {
		return nil, utils.ErrFileTypeNotAllowed
	}
	key := fmt.Sprintf("laporan/%d/%s/%s/%s%s", up.Tahun, up.UserID, up.LaporanID, uuid.NewString()[:8], ext)
	name := up.FileName
	if name == "" {
		name = path.Base(key)
	}
	u := "http://minio.local/evkin-lampiran/" + key
	f.uploads = append(f.uploads, up)
	f.uploaded = append(f.uploaded, u)
	return &utils.StoredLampiran{Key: key, URL: u, FileName: name, FileSize: int64(len(up.Data)), ContentType: up.ContentType}, nil
}

func (f *fakeStorage) Remove(_ context.Context, fileURL string) error {
	f.deleted = append(f.deleted, fileURL)
	return nil
}

// ── fixtures ─────────────────────────────────────────

type fixture struct {
	svc      LaporanService
	repo     *fakeLaporanRepo
	storage  *fakeStorage
	admin    model.Actor
	owner    model.Actor
	other    model.Actor
	ownerUsr *model.User
}

func newFixture() *fixture {
	nama := "Puskesmas Sukamaju"
	kec := "Sukamaju"
	ownerUser := &model.User{ID: uuid.New(), Username: "pkm_sukamaju", Nama: nama, Role: model.RolePuskesmas, NamaPuskesmas: &nama, Kecamatan: &kec}
	otherUser := &model.User{ID: uuid.New(), Username: "pkm_lain", Nama: "Puskesmas Lain", Role: model.RolePuskesmas}
	adminUser := &model.User{ID: uuid.New(), Username: "admin", Nama: "Administrator", Role: model.RoleAdmin}

	repo := newFakeLaporanRepo()
	storage := &fakeStorage{}
	log, _ := logtest.NewNullLogger()

	svc := NewLaporanService(repo, newFakeUserRepo(ownerUser, otherUser, adminUser), storage, "http://localhost:3000/", log)
	svc.(*laporanService).now = func() time.Time { return time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC) }

	return &fixture{
		svc:      svc,
		repo:     repo,
		storage:  storage,
		admin:    model.Actor{ID: adminUser.ID, Role: model.RoleAdmin},
		owner:    model.Actor{ID: ownerUser.ID, Role: model.RolePuskesmas},
		other:    model.Actor{ID: otherUser.ID, Role: model.RolePuskesmas},
		ownerUsr: ownerUser,
	}
}

func (fx *fixture) seed(status model.LaporanStatus) *model.Laporan {
	sub := "Pelayanan Kesehatan Ibu Hamil"
	sat := "Orang"
	l := &model.Laporan{
		ID: uuid.New(), UserID: fx.owner.ID,
		KegiatanID: 1, SubKegiatanID: 1, SumberAnggaranID: 1, SatuanID: 1,
		TargetK: decimal.NewFromInt(10), RealisasiK: decimal.NewFromInt(7),
		TargetRp: decimal.NewFromInt(1000000), RealisasiRp: decimal.NewFromInt(700000),
		Bulan: 3, Tahun: 2025, Status: status,
		NamaSubKegiatan: &sub, NamaSatuan: &sat,
	}
	fx.repo.items[l.ID] = l
	return l
}

func validCreate() model.CreateLaporanRequest {
	return model.CreateLaporanRequest{
		KegiatanID: 1, SubKegiatanID: 2, SumberAnggaranID: 1, SatuanID: 1,
		TargetK: decimal.NewFromInt(5), Bulan: 4, Tahun: 2025,
	}
}

// ── access rules ─────────────────────────────────────

func TestAccessRules(t *testing.T) {
	owner := model.Actor{ID: uuid.New(), Role: model.RolePuskesmas}
	other := model.Actor{ID: uuid.New(), Role: model.RolePuskesmas}
	admin := model.Actor{ID: uuid.New(), Role: model.RoleAdmin}

	submitted := &model.Laporan{UserID: owner.ID, Status: model.StatusSubmitted}
	verified := &model.Laporan{UserID: owner.ID, Status: model.StatusVerified}

	assert.True(t, CanView(owner, submitted))
	assert.True(t, CanView(admin, submitted))
	assert.False(t, CanView(other, submitted))

	assert.NoError(t, CanModify(owner, submitted))
	assert.ErrorIs(t, CanModify(other, submitted), ErrForbidden)
	assert.ErrorIs(t, CanModify(owner, verified), ErrAlreadyVerified)
	assert.NoError(t, CanModify(admin, verified))

	assert.NoError(t, CanVerify(admin, submitted))
	assert.ErrorIs(t, CanVerify(owner, submitted), ErrAdminOnly)
	assert.ErrorIs(t, CanVerify(admin, verified), ErrNotSubmitted)

	for _, s := range []model.LaporanStatus{model.StatusAwaiting, model.StatusStored, model.StatusSubmitted} {
		assert.NoError(t, CanSetStatus(s))
	}
	for _, s := range []model.LaporanStatus{model.StatusVerified, model.StatusRejected, "draft"} {
		assert.ErrorIs(t, CanSetStatus(s), ErrInvalidStatus)
	}
}

// ── laporan service ──────────────────────────────────

func TestGetAll_PuskesmasSeesOnlyOwnReports(t *testing.T) {
	fx := newFixture()
	fx.seed(model.StatusSubmitted)
	fx.repo.items[uuid.New()] = &model.Laporan{UserID: fx.other.ID, Tahun: 2025, Status: model.StatusSubmitted}

	items, page, err := fx.svc.GetAll(context.Background(), fx.owner, model.LaporanFilter{UserID: fx.other.ID.String()})
	require.NoError(t, err)

	assert.Equal(t, fx.owner.ID.String(), fx.repo.lastFilter.UserID)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.PerPage)
	assert.Equal(t, 1, page.TotalPages)

	items, _, err = fx.svc.GetAll(context.Background(), fx.admin, model.LaporanFilter{})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestGetByID(t *testing.T) {
	fx := newFixture()
	l := fx.seed(model.StatusAwaiting)
	ctx := context.Background()

	got, err := fx.svc.GetByID(ctx, fx.owner, l.ID.String())
	require.NoError(t, err)
	assert.Equal(t, l.ID, got.ID)

	_, err = fx.svc.GetByID(ctx, fx.other, l.ID.String())
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = fx.svc.GetByID(ctx, fx.admin, uuid.NewString())
	assert.ErrorIs(t, err, ErrLaporanNotFound)

	_, err = fx.svc.GetByID(ctx, fx.admin, "bukan-uuid")
	assert.ErrorIs(t, err, ErrLaporanNotFound)
}

func TestCreate_OwnerResolution(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	req := validCreate()
	req.UserID = fx.other.ID.String() // diabaikan untuk user puskesmas
	l, err := fx.svc.Create(ctx, fx.owner, req)
	require.NoError(t, err)
	assert.Equal(t, fx.owner.ID, l.UserID)
	assert.Equal(t, model.StatusAwaiting, l.Status)

	_, err = fx.svc.Create(ctx, fx.admin, validCreate())
	assert.ErrorIs(t, err, ErrOwnerRequired)

	req = validCreate()
	req.UserID = fx.admin.ID.String()
	_, err = fx.svc.Create(ctx, fx.admin, req)
	assert.ErrorIs(t, err, ErrOwnerNotFound, "reports belong to puskesmas users")

	req.UserID = fx.other.ID.String()
	l, err = fx.svc.Create(ctx, fx.admin, req)
	require.NoError(t, err)
	assert.Equal(t, fx.other.ID, l.UserID)

	req = validCreate()
	req.Status = model.StatusVerified
	_, err = fx.svc.Create(ctx, fx.owner, req)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdate_VerifiedIsImmutableForOwner(t *testing.T) {
	fx := newFixture()
	l := fx.seed(model.StatusVerified)
	ctx := context.Background()

	req := model.UpdateLaporanRequest{KegiatanID: 1, SubKegiatanID: 1, SumberAnggaranID: 1, SatuanID: 1,
		RealisasiK: decimal.NewFromInt(9), Bulan: 3, Tahun: 2025}

	_, err := fx.svc.Update(ctx, fx.owner, l.ID.String(), req)
	assert.ErrorIs(t, err, ErrAlreadyVerified)

	_, err = fx.svc.Update(ctx, fx.other, l.ID.String(), req)
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := fx.svc.Update(ctx, fx.admin, l.ID.String(), req)
	require.NoError(t, err)
	assert.Equal(t, model.StatusVerified, updated.Status, "empty status keeps the current one")
	assert.True(t, fx.repo.items[l.ID].RealisasiK.Equal(decimal.NewFromInt(9)))
}

func TestUpdate_OwnerStatusTransitions(t *testing.T) {
	fx := newFixture()
	l := fx.seed(model.StatusAwaiting)
	ctx := context.Background()

	req := model.UpdateLaporanRequest{Bulan: 3, Tahun: 2025, Status: model.StatusStored}
	updated, err := fx.svc.Update(ctx, fx.owner, l.ID.String(), req)
	require.NoError(t, err)
	assert.Equal(t, model.StatusStored, updated.Status)

	req.Status = model.StatusVerified
	_, err = fx.svc.Update(ctx, fx.owner, l.ID.String(), req)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdate_StatusChangeClearsVerification(t *testing.T) {
	ctx := context.Background()
	reviewedAt := time.Date(2025, 4, 30, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		from   model.LaporanStatus
		actor  func(fx *fixture) model.Actor
		status model.LaporanStatus
	}{
		{"admin reopens verified", model.StatusVerified, func(fx *fixture) model.Actor { return fx.admin }, model.StatusAwaiting},
		{"admin resubmits verified", model.StatusVerified, func(fx *fixture) model.Actor { return fx.admin }, model.StatusSubmitted},
		{"owner reworks rejected", model.StatusRejected, func(fx *fixture) model.Actor { return fx.owner }, model.StatusAwaiting},
		{"owner stores rejected", model.StatusRejected, func(fx *fixture) model.Actor { return fx.owner }, model.StatusStored},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture()
			l := fx.seed(tt.from)
			verifier := fx.admin.ID
			fx.repo.items[l.ID].VerifiedBy = &verifier
			fx.repo.items[l.ID].VerifiedAt = &reviewedAt

			req := model.UpdateLaporanRequest{KegiatanID: 1, SubKegiatanID: 1, SumberAnggaranID: 1, SatuanID: 1,
				Bulan: 3, Tahun: 2025, Status: tt.status}
			updated, err := fx.svc.Update(ctx, tt.actor(fx), l.ID.String(), req)
			require.NoError(t, err)

			stored := fx.repo.items[l.ID]
			assert.Equal(t, tt.status, stored.Status)
			assert.Nil(t, stored.VerifiedBy)
			assert.Nil(t, stored.VerifiedAt)
			assert.Nil(t, updated.VerifiedBy)
		})
	}
}

func TestUpdate_UnchangedStatusKeepsVerification(t *testing.T) {
	fx := newFixture()
	l := fx.seed(model.StatusVerified)
	verifier := fx.admin.ID
	reviewedAt := time.Date(2025, 4, 30, 9, 0, 0, 0, time.UTC)
	fx.repo.items[l.ID].VerifiedBy = &verifier
	fx.repo.items[l.ID].VerifiedAt = &reviewedAt

	req := model.UpdateLaporanRequest{KegiatanID: 1, SubKegiatanID: 1, SumberAnggaranID: 1, SatuanID: 1,
		Bulan: 3, Tahun: 2025, Status: model.StatusVerified}
	_, err := fx.svc.Update(context.Background(), fx.admin, l.ID.String(), req)
	require.NoError(t, err)

	stored := fx.repo.items[l.ID]
	assert.Equal(t, model.StatusVerified, stored.Status)
	require.NotNil(t, stored.VerifiedBy)
	assert.Equal(t, verifier, *stored.VerifiedBy)
	assert.Equal(t, reviewedAt, *stored.VerifiedAt)
}

func TestSubmit(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	rejected := fx.seed(model.StatusRejected)
	l, err := fx.svc.Submit(ctx, fx.owner, rejected.ID.String())
	require.NoError(t, err)
	assert.Equal(t, model.StatusSubmitted, l.Status)
	assert.Equal(t, model.StatusSubmitted, fx.repo.items[rejected.ID].Status)

	_, err = fx.svc.Submit(ctx, fx.owner, rejected.ID.String())
	assert.ErrorIs(t, err, ErrAlreadySubmitted)

	verified := fx.seed(model.StatusVerified)
	_, err = fx.svc.Submit(ctx, fx.admin, verified.ID.String())
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestVerifyAndReject(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	l := fx.seed(model.StatusSubmitted)

	_, err := fx.svc.Verify(ctx, fx.owner, l.ID.String(), model.VerifikasiRequest{})
	assert.ErrorIs(t, err, ErrAdminOnly)
	assert.Equal(t, model.StatusSubmitted, fx.repo.items[l.ID].Status)

	verified, err := fx.svc.Verify(ctx, fx.admin, l.ID.String(), model.VerifikasiRequest{Catatan: " sesuai "})
	require.NoError(t, err)
	assert.Equal(t, model.StatusVerified, verified.Status)
	require.NotNil(t, verified.VerifiedBy)
	assert.Equal(t, fx.admin.ID, *verified.VerifiedBy)
	require.NotNil(t, verified.VerifiedAt)
	assert.Equal(t, 2025, verified.VerifiedAt.Year())
	require.NotNil(t, verified.Catatan)
	assert.Equal(t, "sesuai", *verified.Catatan)

	_, err = fx.svc.Verify(ctx, fx.admin, l.ID.String(), model.VerifikasiRequest{})
	assert.ErrorIs(t, err, ErrNotSubmitted)

	toReject := fx.seed(model.StatusSubmitted)
	_, err = fx.svc.Reject(ctx, fx.admin, toReject.ID.String(), model.VerifikasiRequest{Catatan: "  "})
	assert.ErrorIs(t, err, ErrCatatanRequired)

	rejected, err := fx.svc.Reject(ctx, fx.admin, toReject.ID.String(), model.VerifikasiRequest{Catatan: "Lengkapi bukti dukung"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, rejected.Status)
	assert.Equal(t, "Lengkapi bukti dukung", *fx.repo.items[toReject.ID].Catatan)
}

func TestLampiranLifecycle(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()
	l := fx.seed(model.StatusAwaiting)

	att, err := fx.svc.UploadLampiran(ctx, fx.owner, l.ID.String(), []byte("%PDF-1.4"), "application/pdf", "bukti.pdf")
	require.NoError(t, err)
	assert.Equal(t, "bukti.pdf", att.FileName)
	assert.Equal(t, "application/pdf", att.FileType)
	assert.Contains(t, att.FileURL, "laporan/2025/"+fx.owner.ID.String()+"/"+l.ID.String())
	require.Len(t, fx.storage.uploads, 1)
	assert.Equal(t, l.ID, fx.storage.uploads[0].LaporanID)
	assert.Equal(t, "bukti.pdf", fx.storage.uploads[0].FileName)

	err = fx.svc.DeleteLampiran(ctx, fx.other, att.ID.String())
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, fx.svc.DeleteLampiran(ctx, fx.owner, att.ID.String()))
	assert.Equal(t, []string{att.FileURL}, fx.storage.deleted)
	assert.Empty(t, fx.repo.lampiran)

	err = fx.svc.DeleteLampiran(ctx, fx.owner, att.ID.String())
	assert.ErrorIs(t, err, ErrLampiranNotFound)
}

func TestUploadLampiran_RollsBackFileOnDBFailure(t *testing.T) {
	fx := newFixture()
	fx.repo.failAdd = true
	l := fx.seed(model.StatusAwaiting)

	_, err := fx.svc.UploadLampiran(context.Background(), fx.owner, l.ID.String(), []byte{0x89, 'P', 'N', 'G'}, "image/png", "")
	require.Error(t, err)

	require.Len(t, fx.storage.uploaded, 1)
	assert.Equal(t, fx.storage.uploaded, fx.storage.deleted)
}

func TestUploadLampiran_RejectedTypeStoresNothing(t *testing.T) {
	fx := newFixture()
	l := fx.seed(model.StatusAwaiting)

	_, err := fx.svc.UploadLampiran(context.Background(), fx.owner, l.ID.String(), []byte("PK"), "application/zip", "arsip.zip")

	assert.ErrorIs(t, err, utils.ErrFileTypeNotAllowed)
	assert.Empty(t, fx.repo.lampiran)
	assert.Empty(t, fx.storage.deleted)
}

func TestDelete_RemovesFiles(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()
	l := fx.seed(model.StatusStored)

	att, err := fx.svc.UploadLampiran(ctx, fx.owner, l.ID.String(), []byte("data"), "image/jpeg", "foto.jpg")
	require.NoError(t, err)

	assert.ErrorIs(t, fx.svc.Delete(ctx, fx.other, l.ID.String()), ErrForbidden)

	require.NoError(t, fx.svc.Delete(ctx, fx.owner, l.ID.String()))
	assert.NotContains(t, fx.repo.items, l.ID)
	assert.Equal(t, []string{att.FileURL}, fx.storage.deleted)
}

func TestExport_ScopedToOwner(t *testing.T) {
	fx := newFixture()
	fx.seed(model.StatusSubmitted)
	fx.repo.items[uuid.New()] = &model.Laporan{UserID: fx.other.ID, Bulan: 1, Tahun: 2025, Status: model.StatusAwaiting}

	data, err := fx.svc.Export(context.Background(), fx.owner, model.LaporanFilter{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Laporan")
	require.NoError(t, err)
	assert.Len(t, rows, 2, "header plus the owner's single report")
}

func TestRekap(t *testing.T) {
	fx := newFixture()
	fx.seed(model.StatusVerified)
	ctx := context.Background()

	_, err := fx.svc.Rekap(ctx, fx.owner, model.LaporanFilter{})
	assert.ErrorIs(t, err, ErrTahunRequired)

	tahun, bulan := 2025, 3
	data, err := fx.svc.Rekap(ctx, fx.owner, model.LaporanFilter{Tahun: &tahun, Bulan: &bulan})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.Equal(t, fx.owner.ID.String(), fx.repo.lastFilter.UserID)

	url := fx.svc.(*laporanService).rekapURL(model.LaporanFilter{Tahun: &tahun, Bulan: &bulan, UserID: "abc"})
	assert.Equal(t, "http://localhost:3000/rekap?bulan=3&tahun=2025&user_id=abc", url)
}

// ── auth & user service ──────────────────────────────

func TestAuthService(t *testing.T) {
	hash, err := utils.HashPassword("rahasia123")
	require.NoError(t, err)

	active := &model.User{ID: uuid.New(), Username: "pkm_a", Password: hash, Nama: "Puskesmas A", Role: model.RolePuskesmas, IsActive: true}
	disabled := &model.User{ID: uuid.New(), Username: "pkm_b", Password: hash, Role: model.RolePuskesmas}
	cfg := &config.JWTConfig{Secret: "test-secret", ExpireHours: 1, RefreshExpHours: 2}
	svc := NewAuthService(newFakeUserRepo(active, disabled), cfg)
	ctx := context.Background()

	_, err = svc.Login(ctx, LoginRequest{Username: "pkm_a", Password: "salah"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Username: "tidak_ada", Password: "rahasia123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Username: "pkm_b", Password: "rahasia123"})
	assert.ErrorIs(t, err, ErrAccountDisabled)

	resp, err := svc.Login(ctx, LoginRequest{Username: "pkm_a", Password: "rahasia123"})
	require.NoError(t, err)
	assert.Equal(t, "pkm_a", resp.User.Username)

	_, err = svc.RefreshToken(ctx, resp.Token.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "access token cannot be used to refresh")

	pair, err := svc.RefreshToken(ctx, resp.Token.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	me, err := svc.Me(ctx, active.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Puskesmas A", me.Nama)
}

func TestUserService_Create(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.Create(ctx, CreateUserRequest{Username: "pkm_baru", Password: "Rahasia123", Nama: "Puskesmas Baru"})
	require.NoError(t, err)
	assert.Equal(t, model.RolePuskesmas, user.Role)
	require.NotNil(t, user.NamaPuskesmas)
	assert.Equal(t, "Puskesmas Baru", *user.NamaPuskesmas)

	stored := repo.users[user.ID]
	assert.True(t, utils.CheckPassword(stored.Password, "Rahasia123"))

	_, err = svc.Create(ctx, CreateUserRequest{Username: "pkm_baru", Password: "Rahasia123", Nama: "Duplikat"})
	assert.ErrorIs(t, err, ErrUsernameAlreadyExists)

	items, page, err := svc.GetAll(ctx, model.UserFilter{Role: "puskesmas"})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(1), page.TotalItems)
}
