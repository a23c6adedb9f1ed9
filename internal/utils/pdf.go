package utils

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

type RekapPDFData struct {
	Instansi      string
	NamaPuskesmas string
	Kecamatan     string
	Bulan         int // 0 berarti seluruh tahun
	Tahun         int
	Rows          []RekapRow
	QRCodePNG     []byte // QR code sebagai bytes PNG
	GeneratedAt   time.Time
}

type RekapRow struct {
	No          int
	SubKegiatan string
	Bulan       int
	Satuan      string
	TargetK     decimal.Decimal
	RealisasiK  decimal.Decimal
	TargetRp    decimal.Decimal
	RealisasiRp decimal.Decimal
	Status      string
}

func GenerateRekapPDF(data RekapPDFData) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// ─────────────────────────────────────────
	// HEADER
	// ─────────────────────────────────────────
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 102, 51)
	pdf.CellFormat(0, 8, data.Instansi, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 7, "REKAPITULASI LAPORAN EVALUASI KINERJA PUSKESMAS", "", 1, "C", false, 0, "")

	periode := fmt.Sprintf("Tahun %d", data.Tahun)
	if data.Bulan > 0 {
		periode = fmt.Sprintf("Bulan %s %d", BulanString(data.Bulan), data.Tahun)
	}
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, periode, "", 1, "C", false, 0, "")

	pdf.SetDrawColor(0, 102, 51)
	pdf.SetLineWidth(0.8)
	pdf.Line(15, pdf.GetY()+3, 282, pdf.GetY()+3)
	pdf.Ln(8)

	// ─────────────────────────────────────────
	// IDENTITAS PUSKESMAS
	// ─────────────────────────────────────────
	pdf.SetFont("Arial", "", 10)
	for _, row := range [][]string{
		{"Puskesmas", data.NamaPuskesmas},
		{"Kecamatan", data.Kecamatan},
	} {
		pdf.CellFormat(35, 6, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(5, 6, ":", "", 0, "C", false, 0, "")
		pdf.CellFormat(120, 6, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	// ─────────────────────────────────────────
	// TABEL
	// ─────────────────────────────────────────
	pdf.SetFont("Arial", "B", 8)
	pdf.SetFillColor(0, 102, 51)
	pdf.SetTextColor(255, 255, 255)

	headers := []string{"No", "Sub Kegiatan", "Bulan", "Satuan", "Target K", "Realisasi K", "Target Rp", "Realisasi Rp", "%", "Status"}
	widths := []float64{8, 82, 18, 18, 18, 20, 32, 32, 15, 24}

	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 7)
	pdf.SetTextColor(0, 0, 0)

	totalTargetRp := decimal.Zero
	totalRealisasiRp := decimal.Zero

	for i, r := range data.Rows {
		fill := i%2 == 0
		if fill {
			pdf.SetFillColor(235, 247, 240)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		pdf.CellFormat(widths[0], 6, fmt.Sprintf("%d", r.No), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(widths[1], 6, truncate(r.SubKegiatan, 60), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[2], 6, BulanString(r.Bulan), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(widths[3], 6, truncate(r.Satuan, 12), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(widths[4], 6, FormatAngka(r.TargetK), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(widths[5], 6, FormatAngka(r.RealisasiK), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(widths[6], 6, FormatRupiah(r.TargetRp), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(widths[7], 6, FormatRupiah(r.RealisasiRp), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(widths[8], 6, FormatAngka(Persentase(r.RealisasiRp, r.TargetRp)), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(widths[9], 6, r.Status, "1", 0, "C", fill, 0, "")
		pdf.Ln(-1)

		totalTargetRp = totalTargetRp.Add(r.TargetRp)
		totalRealisasiRp = totalRealisasiRp.Add(r.RealisasiRp)
	}

	// Baris total
	pdf.SetFont("Arial", "B", 7)
	labelWidth := widths[0] + widths[1] + widths[2] + widths[3] + widths[4] + widths[5]
	pdf.CellFormat(labelWidth, 6, "TOTAL", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[6], 6, FormatRupiah(totalTargetRp), "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[7], 6, FormatRupiah(totalRealisasiRp), "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[8], 6, FormatAngka(Persentase(totalRealisasiRp, totalTargetRp)), "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[9], 6, "", "1", 1, "C", false, 0, "")
	pdf.Ln(5)

	// QR code menuju halaman rekap di dashboard
	if len(data.QRCodePNG) > 0 {
		currentY := pdf.GetY()
		pdf.SetFont("Arial", "", 8)
		pdf.SetXY(15, currentY)
		pdf.CellFormat(60, 5, "Scan untuk membuka rekap di e-Evkin:", "", 1, "L", false, 0, "")

		qrReader := bytes.NewReader(data.QRCodePNG)
		pdf.RegisterImageOptionsReader("qrcode", gofpdf.ImageOptions{ImageType: "PNG"}, qrReader)
		pdf.ImageOptions("qrcode", 15, currentY+6, 30, 30, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	// ─────────────────────────────────────────
	// FOOTER
	// ─────────────────────────────────────────
	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 7)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 5,
		fmt.Sprintf("Dicetak dari e-Evkin pada %s", data.GeneratedAt.Format("02/01/2006 15:04")),
		"", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("gagal generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
