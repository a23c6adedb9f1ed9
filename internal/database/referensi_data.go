package database

import "github.com/ahmadqo/e-evkin/internal/model"

// Data referensi tetap. Kode (ID) adalah kunci bisnis yang dipakai
// data laporan lama, jadi jangan diubah urutannya.

var satuanData = []model.Satuan{
	{ID: 1, Nama: "Orang"},
	{ID: 2, Nama: "Kegiatan"},
	{ID: 3, Nama: "Dokumen"},
	{ID: 4, Nama: "Paket"},
	{ID: 5, Nama: "Bulan"},
	{ID: 6, Nama: "Unit"},
	{ID: 7, Nama: "Persen"},
	{ID: 8, Nama: "Laporan"},
	{ID: 9, Nama: "Desa"},
	{ID: 10, Nama: "Sekolah"},
}

var sumberAnggaranData = []model.SumberAnggaran{
	{ID: 1, Nama: "APBD"},
	{ID: 2, Nama: "BLUD"},
	{ID: 3, Nama: "BOK (DAK Non Fisik)"},
	{ID: 4, Nama: "Dana Kapitasi JKN"},
	{ID: 5, Nama: "DBHCHT"},
	{ID: 6, Nama: "Lain-lain"},
}

var kegiatanData = []model.Kegiatan{
	{ID: 1, Kode: "1.02.02.2.01", Nama: "Penyediaan Fasilitas Pelayanan Kesehatan untuk UKM dan UKP Kewenangan Daerah Kabupaten/Kota"},
	{ID: 2, Kode: "1.02.02.2.02", Nama: "Penyediaan Layanan Kesehatan untuk UKM dan UKP Rujukan Tingkat Daerah Kabupaten/Kota"},
	{ID: 3, Kode: "1.02.02.2.03", Nama: "Penyelenggaraan Sistem Informasi Kesehatan secara Terintegrasi"},
	{ID: 4, Kode: "1.02.05.2.01", Nama: "Advokasi, Pemberdayaan, Kemitraan, Peningkatan Peran serta Masyarakat dan Lintas Sektor Tingkat Daerah Kabupaten/Kota"},
}

var subKegiatanData = []model.SubKegiatan{
	{ID: 1, KegiatanID: 1, Kode: "1.02.02.2.01.0020", Nama: "Pengadaan Obat, Bahan Habis Pakai, Bahan Medis Habis Pakai, Vaksin, Makanan dan Minuman di Fasilitas Kesehatan"},
	{ID: 2, KegiatanID: 1, Kode: "1.02.02.2.01.0026", Nama: "Operasional Pelayanan Puskesmas"},
	{ID: 3, KegiatanID: 2, Kode: "1.02.02.2.02.0001", Nama: "Pengelolaan Pelayanan Kesehatan Ibu Hamil"},
	{ID: 4, KegiatanID: 2, Kode: "1.02.02.2.02.0002", Nama: "Pengelolaan Pelayanan Kesehatan Ibu Bersalin"},
	{ID: 5, KegiatanID: 2, Kode: "1.02.02.2.02.0003", Nama: "Pengelolaan Pelayanan Kesehatan Bayi Baru Lahir"},
	{ID: 6, KegiatanID: 2, Kode: "1.02.02.2.02.0004", Nama: "Pengelolaan Pelayanan Kesehatan Balita"},
	{ID: 7, KegiatanID: 2, Kode: "1.02.02.2.02.0005", Nama: "Pengelolaan Pelayanan Kesehatan pada Usia Pendidikan Dasar"},
	{ID: 8, KegiatanID: 2, Kode: "1.02.02.2.02.0006", Nama: "Pengelolaan Pelayanan Kesehatan pada Usia Produktif"},
	{ID: 9, KegiatanID: 2, Kode: "1.02.02.2.02.0007", Nama: "Pengelolaan Pelayanan Kesehatan pada Usia Lanjut"},
	{ID: 10, KegiatanID: 2, Kode: "1.02.02.2.02.0008", Nama: "Pengelolaan Pelayanan Kesehatan Penderita Hipertensi"},
	{ID: 11, KegiatanID: 2, Kode: "1.02.02.2.02.0009", Nama: "Pengelolaan Pelayanan Kesehatan Penderita Diabetes Melitus"},
	{ID: 12, KegiatanID: 2, Kode: "1.02.02.2.02.0010", Nama: "Pengelolaan Pelayanan Kesehatan Orang dengan Gangguan Jiwa Berat"},
	{ID: 13, KegiatanID: 2, Kode: "1.02.02.2.02.0011", Nama: "Pengelolaan Pelayanan Kesehatan Orang Terduga Tuberkulosis"},
	{ID: 14, KegiatanID: 2, Kode: "1.02.02.2.02.0012", Nama: "Pengelolaan Pelayanan Kesehatan Orang dengan Risiko Terinfeksi HIV"},
	{ID: 15, KegiatanID: 2, Kode: "1.02.02.2.02.0016", Nama: "Pengelolaan Pelayanan Kesehatan Lingkungan"},
	{ID: 16, KegiatanID: 2, Kode: "1.02.02.2.02.0017", Nama: "Pengelolaan Pelayanan Promosi Kesehatan"},
	{ID: 17, KegiatanID: 2, Kode: "1.02.02.2.02.0020", Nama: "Pengelolaan Surveilans Kesehatan"},
	{ID: 18, KegiatanID: 2, Kode: "1.02.02.2.02.0025", Nama: "Pelayanan Kesehatan Penyakit Menular dan Tidak Menular"},
	{ID: 19, KegiatanID: 2, Kode: "1.02.02.2.02.0033", Nama: "Pengelolaan Pelayanan Kesehatan Gizi Masyarakat"},
	{ID: 20, KegiatanID: 2, Kode: "1.02.02.2.02.0034", Nama: "Pengelolaan Pelayanan Kesehatan Kerja dan Olahraga"},
	{ID: 21, KegiatanID: 2, Kode: "1.02.02.2.02.0036", Nama: "Pengelolaan Upaya Kesehatan Ibu dan Anak"},
	{ID: 22, KegiatanID: 2, Kode: "1.02.02.2.02.0038", Nama: "Pengelolaan Imunisasi"},
	{ID: 23, KegiatanID: 3, Kode: "1.02.02.2.03.0001", Nama: "Pengelolaan Data dan Informasi Kesehatan"},
	{ID: 24, KegiatanID: 3, Kode: "1.02.02.2.03.0002", Nama: "Pengelolaan Sistem Informasi Kesehatan"},
	{ID: 25, KegiatanID: 4, Kode: "1.02.05.2.01.0002", Nama: "Pelaksanaan Sehat dalam rangka Promotif Preventif Tingkat Daerah Kabupaten/Kota"},
	{ID: 26, KegiatanID: 4, Kode: "1.02.05.2.01.0003", Nama: "Pengembangan dan Pelaksanaan Upaya Kesehatan Bersumber Daya Masyarakat (UKBM) Tingkat Daerah Kabupaten/Kota"},
}
