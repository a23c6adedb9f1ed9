package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

var NamaBulan = [...]string{"", "Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember"}

func BulanString(bulan int) string {
	if bulan < 1 || bulan > 12 {
		return ""
	}
	return NamaBulan[bulan]
}

// FormatRupiah memformat angka dengan pemisah ribuan titik, contoh: Rp 1.250.000
func FormatRupiah(d decimal.Decimal) string {
	return "Rp " + FormatAngka(d.Round(0))
}

// FormatAngka memformat angka dengan pemisah ribuan titik dan desimal koma
func FormatAngka(d decimal.Decimal) string {
	neg := d.IsNegative()
	s := d.Abs().String()

	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}

	out := b.String()
	if fracPart != "" {
		out += "," + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}

// Persentase realisasi terhadap target, 0 jika target kosong
func Persentase(realisasi, target decimal.Decimal) decimal.Decimal {
	if target.IsZero() {
		return decimal.Zero
	}
	return realisasi.Div(target).Mul(decimal.NewFromInt(100)).Round(2)
}
