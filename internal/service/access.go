package service

import (
	"errors"

	"github.com/ahmadqo/e-evkin/internal/model"
)

var (
	ErrForbidden        = errors.New("anda tidak memiliki akses ke laporan ini")
	ErrAdminOnly        = errors.New("hanya admin yang dapat melakukan verifikasi laporan")
	ErrAlreadyVerified  = errors.New("laporan sudah diverifikasi dan tidak dapat diubah")
	ErrInvalidStatus    = errors.New("status laporan tidak valid")
	ErrNotSubmitted     = errors.New("hanya laporan berstatus submitted yang dapat diverifikasi")
	ErrAlreadySubmitted = errors.New("laporan sudah disubmit")
)

// CanView: pemilik laporan atau admin
func CanView(actor model.Actor, l *model.Laporan) bool {
	return actor.IsAdmin() || l.UserID == actor.ID
}

// CanModify mengecek hak ubah/hapus/submit/lampiran. Admin selalu boleh;
// pemilik hanya selama laporan belum verified.
func CanModify(actor model.Actor, l *model.Laporan) error {
	if actor.IsAdmin() {
		return nil
	}
	if l.UserID != actor.ID {
		return ErrForbidden
	}
	if l.Status == model.StatusVerified {
		return ErrAlreadyVerified
	}
	return nil
}

func CanVerify(actor model.Actor, l *model.Laporan) error {
	if !actor.IsAdmin() {
		return ErrAdminOnly
	}
	if l.Status != model.StatusSubmitted {
		return ErrNotSubmitted
	}
	return nil
}

// CanSetStatus berlaku untuk create/update. verified dan rejected hanya lewat
// Verify/Reject, sehingga verified_by dan verified_at selalu terisi.
func CanSetStatus(status model.LaporanStatus) error {
	switch status {
	case model.StatusAwaiting, model.StatusStored, model.StatusSubmitted:
		return nil
	}
	return ErrInvalidStatus
}
