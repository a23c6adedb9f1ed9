package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/ahmadqo/e-evkin/internal/config"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Tipe file bukti dukung laporan yang diizinkan
var AllowedLampiranTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": ".xlsx",
}

const MaxFileSize = 10 * 1024 * 1024 // 10 MB

const lampiranPrefix = "laporan"

var (
	ErrFileTypeNotAllowed = errors.New("format file tidak didukung. Gunakan JPG, PNG, PDF, atau XLSX")
	ErrFileTooLarge       = errors.New("ukuran file melebihi batas maksimal 10MB")
	ErrForeignObjectURL   = errors.New("url file bukan milik bucket lampiran")
)

// objectStore adalah bagian *minio.Client yang dipakai LampiranStorage
type objectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// LampiranStorage menyimpan bukti dukung laporan di MinIO dengan key
// laporan/{tahun}/{user_id}/{laporan_id}/{tanggal}-{acak}{ext}.
type LampiranStorage struct {
	objects objectStore
	bucket  string
	baseURL string // {scheme}://{endpoint}/{bucket}/
	now     func() time.Time
}

// LampiranUpload adalah satu file yang akan dilampirkan ke laporan
type LampiranUpload struct {
	Tahun       int
	UserID      uuid.UUID
	LaporanID   uuid.UUID
	FileName    string // nama asli dari client, boleh kosong
	ContentType string
	Data        []byte
}

type StoredLampiran struct {
	Key         string
	URL         string
	FileName    string
	FileSize    int64
	ContentType string
}

func NewLampiranStorage(cfg *config.MinIOConfig) (*LampiranStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.User, cfg.Password, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return newLampiranStorage(client, cfg.Bucket, fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)), nil
}

func newLampiranStorage(objects objectStore, bucket, endpoint string) *LampiranStorage {
	return &LampiranStorage{
		objects: objects,
		bucket:  bucket,
		baseURL: strings.TrimSuffix(endpoint, "/") + "/" + bucket + "/",
		now:     time.Now,
	}
}

// Put memvalidasi lalu menyimpan file. FileName pada hasil adalah nama asli
// yang sudah dibersihkan dari path, atau nama object bila client tidak mengirimnya.
func (s *LampiranStorage) Put(ctx context.Context, up LampiranUpload) (*StoredLampiran, error) {
	ext, ok := AllowedLampiranTypes[up.ContentType]
	if !ok {
		return nil, ErrFileTypeNotAllowed
	}
	if len(up.Data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	key := s.lampiranKey(up, ext)
	size := int64(len(up.Data))
	_, err := s.objects.PutObject(ctx, s.bucket, key, bytes.NewReader(up.Data), size, minio.PutObjectOptions{
		ContentType: up.ContentType,
		UserMetadata: map[string]string{
			"laporan-id": up.LaporanID.String(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gagal upload lampiran: %w", err)
	}

	name := cleanFileName(up.FileName)
	if name == "" {
		name = path.Base(key)
	}
	return &StoredLampiran{
		Key:         key,
		URL:         s.baseURL + key,
		FileName:    name,
		FileSize:    size,
		ContentType: up.ContentType,
	}, nil
}

// Remove menghapus lampiran berdasarkan URL yang tersimpan di database
func (s *LampiranStorage) Remove(ctx context.Context, fileURL string) error {
	key, err := s.KeyFromURL(fileURL)
	if err != nil {
		return err
	}
	return s.objects.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

// KeyFromURL hanya menerima URL di bawah bucket ini dan folder lampiran
func (s *LampiranStorage) KeyFromURL(fileURL string) (string, error) {
	if !strings.HasPrefix(fileURL, s.baseURL) {
		return "", ErrForeignObjectURL
	}
	key, err := url.PathUnescape(strings.TrimPrefix(fileURL, s.baseURL))
	if err != nil {
		return "", ErrForeignObjectURL
	}
	if path.Clean(key) != key || !strings.HasPrefix(key, lampiranPrefix+"/") {
		return "", ErrForeignObjectURL
	}
	return key, nil
}

func (s *LampiranStorage) lampiranKey(up LampiranUpload, ext string) string {
	return fmt.Sprintf("%s/%d/%s/%s/%s-%s%s",
		lampiranPrefix,
		up.Tahun,
		up.UserID,
		up.LaporanID,
		s.now().Format("20060102"),
		uuid.New().String()[:8],
		ext,
	)
}

// cleanFileName membuang path dari nama file client (termasuk path Windows)
func cleanFileName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = strings.TrimSpace(path.Base(name))
	if name == "." || name == "/" {
		return ""
	}
	return name
}
