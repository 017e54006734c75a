// Package upload turns user-chosen paths or byte slices into files the
// prediction widget can accept.
package upload

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxBytes bounds a selection when the caller does not say otherwise.
const DefaultMaxBytes = 20 << 20

var ErrTooLarge = errors.New("upload: file too large")

// File is a selected file: its display name, declared media type and payload.
type File struct {
	Name      string
	MediaType string
	Data      []byte
}

// Size reports the payload length in bytes.
func (f File) Size() int { return len(f.Data) }

// IsImage reports whether the declared media type is an image/* type.
func (f File) IsImage() bool { return IsImage(f.MediaType) }

// IsImage reports whether mediaType begins with "image/", ignoring case and parameters.
func IsImage(mediaType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mediaType)), "image/")
}

// Open reads path and detects its media type. Files larger than maxBytes are
// rejected with ErrTooLarge; maxBytes <= 0 means DefaultMaxBytes.
func Open(path string, maxBytes int64) (File, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > maxBytes {
		return File{}, fmt.Errorf("%s is %d bytes, limit %d: %w", filepath.Base(path), info.Size(), maxBytes, ErrTooLarge)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read %s: %w", path, err)
	}
	return FromBytes(filepath.Base(path), data), nil
}

// FromBytes builds a File, sniffing the media type from the content and
// falling back to the name's extension when sniffing is inconclusive.
func FromBytes(name string, data []byte) File {
	return File{Name: name, MediaType: DetectMediaType(name, data), Data: data}
}

// DetectMediaType returns the media type for data without parameters.
func DetectMediaType(name string, data []byte) string {
	detected := mimetype.Detect(data)
	sniffed := detected.String()
	if base, _, err := mime.ParseMediaType(sniffed); err == nil {
		sniffed = base
	}
	if !isGeneric(sniffed) {
		return sniffed
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		if base, _, err := mime.ParseMediaType(byExt); err == nil {
			return base
		}
	}
	return sniffed
}

func isGeneric(mediaType string) bool {
	switch mediaType {
	case "", "application/octet-stream", "text/plain":
		return true
	}
	return false
}
