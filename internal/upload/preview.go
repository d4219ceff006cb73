package upload

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrNotImage is returned when the selected file is not an image at all.
var ErrNotImage = errors.New("not an image")

// Preview is a local snapshot of a selected file. It holds a temporary copy on
// disk until Release is called.
type Preview struct {
	path     string
	name     string
	size     int64
	lines    []string
	released bool
}

// NewPreview snapshots src into a temporary file and renders a thumbnail
// width cells wide (no thumbnail when width is 0). Images in a format that
// cannot be decoded here are still accepted, just without a thumbnail.
func NewPreview(src string, width int) (*Preview, error) {
	in, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp("", "agrochat-preview-*"+strings.ToLower(filepath.Ext(src)))
	if err != nil {
		return nil, fmt.Errorf("error creating preview file: %w", err)
	}
	size, err := io.Copy(tmp, in)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("error copying file: %w", err)
	}

	p := &Preview{path: tmp.Name(), name: filepath.Base(src), size: size}

	img, err := decode(p.path)
	if err != nil {
		if !isImage(p.path) {
			p.Release()
			return nil, fmt.Errorf("%w: %s", ErrNotImage, p.name)
		}
		return p, nil
	}
	p.lines = thumbnail(img, width)

	return p, nil
}

// Path returns the snapshot location. It is empty once released.
func (p *Preview) Path() string {
	if p.released {
		return ""
	}
	return p.path
}

// Name returns the base name of the selected file.
func (p *Preview) Name() string {
	return p.name
}

// Label returns "name · size" for display.
func (p *Preview) Label() string {
	return fmt.Sprintf("%s · %s", p.name, humanize.Bytes(uint64(p.size)))
}

// Lines returns the rendered thumbnail rows.
func (p *Preview) Lines() []string {
	return p.lines
}

// Release removes the snapshot. Calling it more than once is a no-op.
func (p *Preview) Release() error {
	if p == nil || p.released {
		return nil
	}
	p.released = true
	p.lines = nil
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error removing preview file: %w", err)
	}
	return nil
}

// isImage reports whether path looks like an image by extension or content.
func isImage(path string) bool {
	if strings.HasPrefix(mime.TypeByExtension(strings.ToLower(filepath.Ext(path))), "image/") {
		return true
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	head := make([]byte, 512)
	n, _ := io.ReadFull(f, head)
	return strings.HasPrefix(http.DetectContentType(head[:n]), "image/")
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// thumbnail renders img with upper half blocks: each cell shows two pixel rows,
// the top one as foreground and the bottom one as background.
func thumbnail(img image.Image, width int) []string {
	b := img.Bounds()
	if width <= 0 || b.Dx() == 0 || b.Dy() == 0 {
		return nil
	}

	rows := width * b.Dy() / b.Dx()
	if rows < 2 {
		rows = 2
	}
	if rows%2 == 1 {
		rows++
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, rows))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	lines := make([]string, 0, rows/2)
	for y := 0; y < rows; y += 2 {
		var sb strings.Builder
		for x := 0; x < width; x++ {
			cell := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hex(dst.RGBAAt(x, y)))).
				Background(lipgloss.Color(hex(dst.RGBAAt(x, y+1))))
			sb.WriteString(cell.Render("▀"))
		}
		lines = append(lines, sb.String())
	}
	return lines
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
