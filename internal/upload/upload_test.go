package upload

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestIsImage(t *testing.T) {
	cases := map[string]bool{
		"image/png":                true,
		"IMAGE/JPEG":               true,
		" image/webp":              true,
		"text/plain":               false,
		"application/octet-stream": false,
		"":                         false,
		"imagex/png":               false,
	}
	for in, want := range cases {
		require.Equal(t, want, IsImage(in), "IsImage(%q)", in)
	}
}

func TestFromBytesSniffsContent(t *testing.T) {
	// name lies about the type; content wins
	f := FromBytes("photo.txt", pngBytes(t))
	require.Equal(t, "image/png", f.MediaType)
	require.True(t, f.IsImage())
	require.Equal(t, "photo.txt", f.Name)
}

func TestFromBytesFallsBackToExtension(t *testing.T) {
	f := FromBytes("notes.txt", []byte("just some words"))
	require.Equal(t, "text/plain", f.MediaType)
	require.False(t, f.IsImage())
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "face.png")
	data := pngBytes(t)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	f, err := Open(path, 0)
	require.NoError(t, err)
	require.Equal(t, "face.png", f.Name)
	require.Equal(t, "image/png", f.MediaType)
	require.Equal(t, len(data), f.Size())
}

func TestOpenTooLarge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t), 0o600))

	_, err := Open(path, 8)
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestOpenDirectory(t *testing.T) {
	_, err := Open(t.TempDir(), 0)
	require.Error(t, err)
}
