// Package storage menyimpan foto selfie presensi. Core hanya memegang ref
// opaque; resolusi ke URL publik terjadi di lapisan response.
package storage

import (
	"context"
	"mime/multipart"
	"strings"

	"presensiku_backend/internals/configs"
)

type Storage interface {
	// Store menyimpan foto dan mengembalikan ref opaque (bukan URL).
	Store(ctx context.Context, fh *multipart.FileHeader) (string, error)
	// Resolve mengubah ref menjadi URL yang bisa diakses klien.
	Resolve(ref string) string
	// Remove menghapus foto yang sudah tersimpan (pembersihan bila
	// pembuatan catatan yang menyertainya gagal).
	Remove(ctx context.Context, ref string) error
}

// NewFromEnv memilih driver dari ENV: "oss" untuk Aliyun OSS,
// selain itu disk lokal (perilaku server lama).
func NewFromEnv() (Storage, error) {
	switch strings.ToLower(configs.GetEnv("STORAGE_DRIVER", "local")) {
	case "oss":
		return NewOSSStorageFromEnv()
	default:
		return NewLocalStorage(
			configs.GetEnv("UPLOAD_DIR", "./uploads"),
			configs.GetEnv("UPLOAD_BASE_URL", "/uploads"),
		)
	}
}
