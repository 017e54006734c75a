// Package preview keeps decoded thumbnails of selected images and renders
// them as terminal half-block art. A Ref plays the part of an object URL:
// it is handed out on selection and must be released when the selection goes.
package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/nfnt/resize"

	"github.com/jask/realcheck/internal/upload"
)

// Ref identifies a live preview.
type Ref string

// Empty reports whether r refers to nothing.
func (r Ref) Empty() bool { return r == "" }

type entry struct {
	name      string
	mediaType string
	img       image.Image
	decodeErr error
	rendered  map[int]string // width -> art
}

// Store owns decoded previews. It is not safe for concurrent use.
type Store struct {
	entries map[Ref]*entry
}

func NewStore() *Store {
	return &Store{entries: make(map[Ref]*entry)}
}

// Create decodes f and registers it. Content that cannot be decoded still
// gets a Ref; Render then shows a placeholder instead of art.
func (s *Store) Create(f upload.File) (Ref, error) {
	if len(f.Data) == 0 {
		return "", fmt.Errorf("preview %s: empty file", f.Name)
	}
	img, _, err := image.Decode(bytes.NewReader(f.Data))
	ref := Ref("preview:" + uuid.NewString())
	s.entries[ref] = &entry{
		name:      f.Name,
		mediaType: f.MediaType,
		img:       img,
		decodeErr: err,
		rendered:  make(map[int]string),
	}
	return ref, nil
}

// Release frees the preview. Unknown or already released refs are ignored.
func (s *Store) Release(ref Ref) {
	delete(s.entries, ref)
}

// Len is the number of live previews.
func (s *Store) Len() int { return len(s.entries) }

// Bounds returns the source image size, or false when ref is unknown or the
// image could not be decoded.
func (s *Store) Bounds(ref Ref) (image.Rectangle, bool) {
	e, ok := s.entries[ref]
	if !ok || e.img == nil {
		return image.Rectangle{}, false
	}
	return e.img.Bounds(), true
}

// Render draws the preview width cells wide. Each cell holds two vertical
// pixels: the upper one as foreground of "▀", the lower one as background.
func (s *Store) Render(ref Ref, width int) string {
	e, ok := s.entries[ref]
	if !ok {
		return ""
	}
	if width < 4 {
		width = 4
	}
	if e.img == nil {
		return placeholder(e, width)
	}
	if art, ok := e.rendered[width]; ok {
		return art
	}
	art := halfBlocks(e.img, width)
	e.rendered[width] = art
	return art
}

func placeholder(e *entry, width int) string {
	msg := fmt.Sprintf("no preview for %s (%s)", e.name, e.mediaType)
	return lipgloss.NewStyle().Width(width).Italic(true).Faint(true).Render(msg)
}

func halfBlocks(img image.Image, width int) string {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return ""
	}
	// terminal cells are roughly twice as tall as wide; one cell row covers two pixel rows
	height := int(float64(b.Dy()) * float64(width) / float64(b.Dx()))
	if height < 2 {
		height = 2
	}
	if height%2 == 1 {
		height++
	}
	thumb := resize.Resize(uint(width), uint(height), img, resize.Lanczos3)
	tb := thumb.Bounds()

	var sb strings.Builder
	for y := tb.Min.Y; y < tb.Max.Y; y += 2 {
		for x := tb.Min.X; x < tb.Max.X; x++ {
			top := hex(thumb.At(x, y))
			bottom := top
			if y+1 < tb.Max.Y {
				bottom = hex(thumb.At(x, y+1))
			}
			sb.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom)).
				Render("▀"))
		}
		if y+2 < tb.Max.Y {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
