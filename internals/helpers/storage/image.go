package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	maxUploadSize = 10 << 20 // 10MB
	maxDimension  = 1280
	webpQuality   = 80
)

// convertToWebP membaca foto (jpg/png/webp), downscale bila perlu, lalu
// re-encode sebagai WebP.
func convertToWebP(r io.Reader, filename string) ([]byte, error) {
	all, err := io.ReadAll(io.LimitReader(r, maxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("baca file: %w", err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	if len(all) > maxUploadSize {
		return nil, fmt.Errorf("file terlalu besar (max %d bytes)", maxUploadSize)
	}

	img, err := decodeImage(all, filename)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	if b.Dx() > maxDimension || b.Dy() > maxDimension {
		img = imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: webpQuality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeImage(all []byte, filename string) (image.Image, error) {
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)

	switch {
	case strings.Contains(ct, "jpeg"):
		return jpeg.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "png"):
		return png.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "webp"):
		return webp.Decode(bytes.NewReader(all))
	}

	// fallback by extension
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return jpeg.Decode(bytes.NewReader(all))
	case ".png":
		return png.Decode(bytes.NewReader(all))
	case ".webp":
		return webp.Decode(bytes.NewReader(all))
	}
	return nil, fmt.Errorf("format tidak didukung: %s", ct)
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

// generateObjectKey membuat nama objek unik: <prefix>/<yyyymmdd>-<uuid>-<nama>.webp
func generateObjectKey(prefix, originalFilename string) string {
	base := strings.TrimSuffix(originalFilename, filepath.Ext(originalFilename))
	safe := unsafeChars.ReplaceAllString(base, "_")
	if safe == "" {
		safe = "foto"
	}
	return fmt.Sprintf("%s/%s-%s-%s.webp",
		strings.Trim(prefix, "/"),
		time.Now().Format("20060102"),
		uuid.New().String(),
		safe,
	)
}
