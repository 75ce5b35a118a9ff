package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"presensiku_backend/internals/configs"
)

// OSSStorage menyimpan foto ke Aliyun OSS.
type OSSStorage struct {
	bucket     *oss.Bucket
	endpoint   string
	bucketName string
	prefix     string
}

func NewOSSStorageFromEnv() (*OSSStorage, error) {
	endpoint := configs.GetEnv("OSS_ENDPOINT")
	ak := configs.GetEnv("OSS_ACCESS_KEY_ID")
	sk := configs.GetEnv("OSS_ACCESS_KEY_SECRET")
	bucketName := configs.GetEnv("OSS_BUCKET")
	if endpoint == "" || ak == "" || sk == "" || bucketName == "" {
		return nil, fmt.Errorf("konfigurasi OSS belum lengkap (OSS_ENDPOINT/OSS_ACCESS_KEY_ID/OSS_ACCESS_KEY_SECRET/OSS_BUCKET)")
	}

	client, err := oss.New(endpoint, ak, sk)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bkt, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("oss.Bucket: %w", err)
	}

	return &OSSStorage{
		bucket:     bkt,
		endpoint:   strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://"),
		bucketName: bucketName,
		prefix:     strings.Trim(configs.GetEnv("OSS_PREFIX", "presensi"), "/"),
	}, nil
}

func (s *OSSStorage) Store(ctx context.Context, fh *multipart.FileHeader) (string, error) {
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

	key := generateObjectKey(s.prefix, fh.Filename)
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType("image/webp"),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	}
	if err := s.bucket.PutObject(key, bytes.NewReader(data), opts...); err != nil {
		return "", fmt.Errorf("oss put: %w", err)
	}
	return key, nil
}

func (s *OSSStorage) Remove(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	if err := s.bucket.DeleteObject(strings.TrimLeft(ref, "/"), oss.WithContext(ctx)); err != nil {
		return fmt.Errorf("oss delete: %w", err)
	}
	return nil
}

func (s *OSSStorage) Resolve(ref string) string {
	if ref == "" {
		return ""
	}
	return fmt.Sprintf("https://%s.%s/%s", s.bucketName, s.endpoint, strings.TrimLeft(ref, "/"))
}
