package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/ahmadqo/e-evkin/internal/database"
)

const maxListedIDs = 20

type Summary struct {
	Tahun            int
	Referensi        database.SeedResult
	AdminCreated     bool
	PuskesmasCreated int
	Reports          *ReportResult
}

func (s *Summary) Write(w io.Writer) {
	r := s.Reports
	if r == nil {
		r = &ReportResult{}
	}

	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, " RINGKASAN IMPORT E-EVKIN TAHUN %d\n", s.Tahun)
	fmt.Fprintln(w, "========================================")
	line(w, "Data referensi baru", s.Referensi.Total())
	line(w, "Admin dibuat", yesNo(s.AdminCreated))
	line(w, "User puskesmas dibuat", s.PuskesmasCreated)
	line(w, "Total baris laporan", r.Total)
	line(w, fmt.Sprintf("Laporan tahun %d", s.Tahun), r.Filtered)
	line(w, "Laporan diimpor", r.Imported)
	line(w, "Dilewati (pkm tak dikenal)", r.Skipped)
	line(w, "Gagal insert", r.Failed)

	if ids := r.UnresolvedIDs(); len(ids) > 0 {
		line(w, "ID puskesmas tak dikenal", truncateList(ids, maxListedIDs))
	}
	if len(r.FailedIDs) > 0 {
		line(w, "id_evkin gagal insert", truncateList(r.FailedIDs, maxListedIDs))
	}
}

func line(w io.Writer, label string, value interface{}) {
	fmt.Fprintf(w, "%-28s: %v\n", label, value)
}

func yesNo(b bool) string {
	if b {
		return "ya"
	}
	return "tidak"
}

func truncateList(ids []string, max int) string {
	if len(ids) <= max {
		return strings.Join(ids, ", ")
	}
	return fmt.Sprintf("%s ... dan %d lainnya", strings.Join(ids[:max], ", "), len(ids)-max)
}
