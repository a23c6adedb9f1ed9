package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

// Value adalah nilai skalar dari dump JSON sistem lama. Kolom angka bisa
// datang sebagai number, string angka, string kosong, atau null.
type Value struct {
	raw     string
	present bool
}

func V(s string) Value {
	return Value{raw: s, present: true}
}

func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*v = Value{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Value{raw: s, present: true}
		return nil
	}
	*v = Value{raw: string(b), present: true}
	return nil
}

// String mengembalikan nilai apa adanya, termasuk spasi di awal dan akhir
func (v Value) String() string {
	return v.raw
}

// Text mengembalikan nilai tanpa spasi di awal dan akhir, untuk kolom identitas
func (v Value) Text() string {
	return strings.TrimSpace(v.raw)
}

func (v Value) IsEmpty() bool {
	return !v.present || v.Text() == ""
}

func (v Value) Decimal() (decimal.Decimal, bool) {
	if v.IsEmpty() {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(v.Text())
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func (v Value) DecimalOr(def decimal.Decimal) decimal.Decimal {
	if d, ok := v.Decimal(); ok {
		return d
	}
	return def
}

var (
	minInt64 = decimal.NewFromInt(math.MinInt64)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

// Int menerima "12", 12 dan 12.0; nilai pecahan atau di luar jangkauan int64
// dianggap tidak valid
func (v Value) Int() (int64, bool) {
	d, ok := v.Decimal()
	if !ok || !d.IsInteger() {
		return 0, false
	}
	if d.LessThan(minInt64) || d.GreaterThan(maxInt64) {
		return 0, false
	}
	return d.IntPart(), true
}

// IntOr juga jatuh ke default bila nilai tidak muat di int platform
func (v Value) IntOr(def int) int {
	n, ok := v.Int()
	if !ok || n < math.MinInt || n > math.MaxInt {
		return def
	}
	return int(n)
}

func (v Value) TextPtr() *string {
	if v.IsEmpty() {
		return nil
	}
	s := v.Text()
	return &s
}

// LegacyPuskesmas adalah satu baris roster puskesmas sistem lama
type LegacyPuskesmas struct {
	ID        Value `json:"id"`
	Username  Value `json:"username"`
	Password  Value `json:"password"`
	Nama      Value `json:"nama"`
	IDBlud    Value `json:"id_blud"`
	Kecamatan Value `json:"kecamatan"`
	Wilayah   Value `json:"wilayah"`
}

// LegacyLaporan adalah satu baris laporan sistem lama
type LegacyLaporan struct {
	PuskesmasID    Value `json:"puskesmas_id"`
	KegiatanID     Value `json:"id_kegiatan"`
	SubKegiatanID  Value `json:"id_sub_kegiatan"`
	SumberAnggaran Value `json:"sumber_anggaran"`
	Satuan         Value `json:"satuan"`
	TargetK        Value `json:"target_k"`
	Angkas         Value `json:"angkas"`
	TargetRp       Value `json:"target_rp"`
	RealisasiK     Value `json:"realisasi_k"`
	RealisasiRp    Value `json:"realisasi_rp"`
	Permasalahan   Value `json:"permasalahan"`
	Upaya          Value `json:"upaya"`
	Bulan          Value `json:"bulan"`
	Tahun          Value `json:"tahun"`
	IDEvkin        Value `json:"id_evkin"`
}

func LoadRoster(path string) ([]LegacyPuskesmas, error) {
	var items []LegacyPuskesmas
	if err := loadJSON(path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func LoadLaporan(path string) ([]LegacyLaporan, error) {
	var items []LegacyLaporan
	if err := loadJSON(path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// loadJSON membaca array JSON, atau objek {"data": [...]} hasil export lama
func loadJSON(path string, dst interface{}) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	content = bytes.TrimSpace(content)
	if len(content) > 0 && content[0] == '{' {
		var wrapper struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(content, &wrapper); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		content = wrapper.Data
	}

	if err := json.Unmarshal(content, dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
