// Package artwork finds card photos on disk and turns them into ANSI art.
//
// Photos live at <root>/<set>/<name>.jpg. A card without a photo is shown
// with <root>/Placeholder.jpg instead; a missing photo is never an error.
package artwork

import (
	"crypto/md5"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
)

// PlaceholderFile is the photo shown for cards without their own.
const PlaceholderFile = "Placeholder.jpg"

// Default render size in terminal cells.
const (
	DefaultWidth  = 40
	DefaultHeight = 32
)

// ErrInvalidSize is returned for render sizes below one cell.
var ErrInvalidSize = errors.New("art width and height must be at least 1")

func checkSize(width, height int) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidSize, width, height)
	}
	return nil
}

// Path returns where the photo of a card is expected.
func Path(root, set, name string) string {
	return filepath.Join(root, set, name+".jpg")
}

// PlaceholderPath returns the placeholder photo under root.
func PlaceholderPath(root string) string {
	return filepath.Join(root, PlaceholderFile)
}

// Resolve returns the card's photo when it exists, or the placeholder.
// found reports which one was chosen.
func Resolve(root, set, name string) (path string, found bool) {
	p := Path(root, set, name)
	if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
		return p, true
	}
	return PlaceholderPath(root), false
}

// Render decodes the image at path and draws it as width x height cells of
// 24-bit colour half blocks.
func Render(path string, width, height int) (string, error) {
	if err := checkSize(width, height); err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	return toANSI(img, width, height), nil
}

// Cached renders path through an on-disk cache under cacheDir.
func Cached(cacheDir, path string, width, height int) (string, error) {
	if err := checkSize(width, height); err != nil {
		return "", err
	}

	dir := filepath.Join(cacheDir, "ansi")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create ANSI cache directory: %w", err)
	}

	key := fmt.Sprintf("%x.ansi", md5.Sum([]byte(fmt.Sprintf("%s@%dx%d", path, width, height))))
	cachePath := filepath.Join(dir, key)

	if data, err := os.ReadFile(cachePath); err == nil {
		return string(data), nil
	}

	art, err := Render(path, width, height)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(cachePath, []byte(art), 0644); err != nil {
		return "", fmt.Errorf("failed to write ANSI cache: %w", err)
	}
	return art, nil
}

// toANSI maps each cell to a 2x2 pixel block: the top pair becomes the
// foreground of '▀', the bottom pair its background.
func toANSI(img image.Image, width, height int) string {
	scaled := resize.Resize(uint(width*2), uint(height*2), img, resize.Lanczos3)

	var b strings.Builder
	for y := 0; y < height*2; y += 2 {
		for x := 0; x < width*2; x += 2 {
			top := sample(scaled, x, y).BlendRgb(sample(scaled, x+1, y), 0.5)
			bottom := sample(scaled, x, y+1).BlendRgb(sample(scaled, x+1, y+1), 0.5)

			fr, fg, fb := top.Clamped().RGB255()
			br, bg, bb := bottom.Clamped().RGB255()
			fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀", fr, fg, fb, br, bg, bb)
		}
		b.WriteString("\x1b[0m\n")
	}
	return b.String()
}

// sample reads a pixel, treating out-of-bounds and fully transparent pixels as black.
func sample(img image.Image, x, y int) colorful.Color {
	if !(image.Point{X: x, Y: y}.In(img.Bounds())) {
		return colorful.Color{}
	}
	c, ok := colorful.MakeColor(img.At(x, y))
	if !ok {
		c, _ = colorful.MakeColor(color.Black)
	}
	return c
}
