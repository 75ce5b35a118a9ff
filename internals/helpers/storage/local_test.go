package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestConvertToWebPFromPNG(t *testing.T) {
	data, err := convertToWebP(bytes.NewReader(smallPNG(t, 8, 8)), "selfie.png")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	// RIFF....WEBP container
	require.True(t, len(data) > 12)
	assert.Equal(t, "RIFF", string(data[:4]))
	assert.Equal(t, "WEBP", string(data[8:12]))
}

func TestConvertToWebPDownscalesLargeImage(t *testing.T) {
	data, err := convertToWebP(bytes.NewReader(smallPNG(t, maxDimension+200, 64)), "wide.png")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestConvertToWebPRejectsGarbage(t *testing.T) {
	_, err := convertToWebP(strings.NewReader("bukan gambar sama sekali"), "notes.txt")
	assert.Error(t, err)
}

func TestConvertToWebPRejectsEmpty(t *testing.T) {
	_, err := convertToWebP(bytes.NewReader(nil), "kosong.png")
	assert.Error(t, err)
}

func TestGenerateObjectKey(t *testing.T) {
	key := generateObjectKey("presensi", "foto profil@!.jpeg")
	assert.True(t, strings.HasPrefix(key, "presensi/"))
	assert.True(t, strings.HasSuffix(key, ".webp"))
	assert.NotContains(t, key, "@")
	assert.NotContains(t, key, " ")

	// unik antar pemanggilan
	assert.NotEqual(t, key, generateObjectKey("presensi", "foto profil@!.jpeg"))
}

func TestLocalStorageResolve(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "/uploads/")
	require.NoError(t, err)

	assert.Equal(t, "/uploads/presensi/a.webp", s.Resolve("presensi/a.webp"))
	assert.Equal(t, "", s.Resolve(""))
}

func TestLocalStorageRemove(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "/uploads")
	require.NoError(t, err)

	path := filepath.Join(dir, "presensi", "a.webp")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	require.NoError(t, s.Remove(context.Background(), "presensi/a.webp"))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// idempoten: ref yang sudah hilang atau kosong bukan error
	assert.NoError(t, s.Remove(context.Background(), "presensi/a.webp"))
	assert.NoError(t, s.Remove(context.Background(), ""))
}
