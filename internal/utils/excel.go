package utils

import (
	"bytes"
	"fmt"

	"github.com/ahmadqo/e-evkin/internal/model"
	"github.com/xuri/excelize/v2"
)

var LaporanExportHeader = []string{
	"No",
	"Puskesmas",
	"Bulan",
	"Tahun",
	"Kegiatan",
	"Sub Kegiatan",
	"Sumber Anggaran",
	"Satuan",
	"Target K",
	"Angkas",
	"Target Rp",
	"Realisasi K",
	"Realisasi Rp",
	"Permasalahan",
	"Upaya",
	"Status",
	"Catatan",
}

// GenerateLaporanExcel membuat file XLSX berisi daftar laporan
func GenerateLaporanExcel(items []*model.Laporan) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Laporan"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#006633"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, h := range LaporanExportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(LaporanExportHeader), 1)
	f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle)

	for i, l := range items {
		row := i + 2
		values := []interface{}{
			i + 1,
			deref(l.NamaPuskesmas),
			BulanString(l.Bulan),
			l.Tahun,
			deref(l.NamaKegiatan),
			deref(l.NamaSubKegiatan),
			deref(l.NamaSumber),
			deref(l.NamaSatuan),
			l.TargetK.InexactFloat64(),
			l.Angkas.InexactFloat64(),
			l.TargetRp.InexactFloat64(),
			l.RealisasiK.InexactFloat64(),
			l.RealisasiRp.InexactFloat64(),
			l.Permasalahan,
			l.Upaya,
			string(l.Status),
			deref(l.Catatan),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	f.SetColWidth(sheetName, "B", "B", 30)
	f.SetColWidth(sheetName, "E", "F", 45)
	f.SetColWidth(sheetName, "I", "M", 16)
	f.SetColWidth(sheetName, "N", "O", 40)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
