package model

// Satuan adalah satuan ukur target/realisasi (Orang, Dokumen, ...)
type Satuan struct {
	ID   int    `db:"id"   json:"id"`
	Nama string `db:"nama" json:"nama"`
}

type SumberAnggaran struct {
	ID   int    `db:"id"   json:"id"`
	Nama string `db:"nama" json:"nama"`
}

type Kegiatan struct {
	ID   int    `db:"id"   json:"id"`
	Kode string `db:"kode" json:"kode"`
	Nama string `db:"nama" json:"nama"`
}

type SubKegiatan struct {
	ID         int    `db:"id"          json:"id"`
	KegiatanID int    `db:"id_kegiatan" json:"id_kegiatan"`
	Kode       string `db:"kode"        json:"kode"`
	Nama       string `db:"nama"        json:"nama"`
}
