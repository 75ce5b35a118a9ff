package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage menyimpan foto ke disk lokal, disajikan lewat app.Static.
type LocalStorage struct {
	dir     string
	baseURL string
}

func NewLocalStorage(dir, baseURL string) (*LocalStorage, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload dir kosong")
	}
	if err := os.MkdirAll(filepath.Join(dir, "presensi"), 0o755); err != nil {
		return nil, fmt.Errorf("buat upload dir: %w", err)
	}
	return &LocalStorage{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStorage) Store(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", fmt.Errorf("nil file header")
	}
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer src.Close()

	data, err := convertToWebP(src, fh.Filename)
	if err != nil {
		return "", err
	}

	ref := generateObjectKey("presensi", fh.Filename)
	dest := filepath.Join(s.dir, filepath.FromSlash(ref))
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("tulis file: %w", err)
	}
	return ref, nil
}

func (s *LocalStorage) Remove(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(ref)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("hapus file: %w", err)
	}
	return nil
}

func (s *LocalStorage) Resolve(ref string) string {
	if ref == "" {
		return ""
	}
	return s.baseURL + "/" + strings.TrimLeft(ref, "/")
}
