package artwork

import (
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJPEG(t *testing.T, path string, c color.Color) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))

	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, c)
		}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, jpeg.Encode(f, img, nil))
}

func TestPath(t *testing.T) {
	assert.Equal(t, filepath.Join("images", "Base Set", "Charizard.jpg"), Path("images", "Base Set", "Charizard"))
}

func TestResolve(t *testing.T) {
	root := t.TempDir()
	writeJPEG(t, Path(root, "Base Set", "Charizard"), color.RGBA{R: 255, A: 255})

	path, found := Resolve(root, "Base Set", "Charizard")
	assert.True(t, found)
	assert.Equal(t, Path(root, "Base Set", "Charizard"), path)

	path, found = Resolve(root, "Base Set", "Blastoise")
	assert.False(t, found)
	assert.Equal(t, filepath.Join(root, PlaceholderFile), path)
}

func TestResolve_DirectoryIsNotAPhoto(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(Path(root, "Base Set", "Weird"), 0755))

	_, found := Resolve(root, "Base Set", "Weird")
	assert.False(t, found)
}

func TestRender(t *testing.T) {
	root := t.TempDir()
	path := Path(root, "Base Set", "Charizard")
	writeJPEG(t, path, color.RGBA{R: 255, A: 255})

	art, err := Render(path, 4, 3)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(art, "\n"), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		assert.Equal(t, 4, strings.Count(line, "▀"))
		assert.True(t, strings.HasSuffix(line, "\x1b[0m"))
	}
	assert.Contains(t, art, "\x1b[38;2;")
}

func TestRender_Errors(t *testing.T) {
	root := t.TempDir()

	_, err := Render(filepath.Join(root, "missing.jpg"), 4, 4)
	assert.Error(t, err)

	notImage := filepath.Join(root, "notes.jpg")
	require.NoError(t, os.WriteFile(notImage, []byte("not an image"), 0644))
	_, err = Render(notImage, 4, 4)
	assert.Error(t, err)
}

func TestCached(t *testing.T) {
	root := t.TempDir()
	cache := t.TempDir()
	path := Path(root, "Fossil", "Gengar")
	writeJPEG(t, path, color.RGBA{B: 200, A: 255})

	first, err := Cached(cache, path, 5, 2)
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(cache, "ansi"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// Served from cache even after the source disappears.
	require.NoError(t, os.Remove(path))
	second, err := Cached(cache, path, 5, 2)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRender_InvalidSize(t *testing.T) {
	root := t.TempDir()
	path := Path(root, "Base Set", "Charizard")
	writeJPEG(t, path, color.RGBA{R: 255, A: 255})
	cache := t.TempDir()

	sizes := []struct{ width, height int }{{-1, 2}, {4, 0}, {0, 0}, {3, -5}}
	for _, sz := range sizes {
		_, err := Render(path, sz.width, sz.height)
		assert.ErrorIs(t, err, ErrInvalidSize)

		_, err = Cached(cache, path, sz.width, sz.height)
		assert.ErrorIs(t, err, ErrInvalidSize)
	}

	_, err := os.Stat(filepath.Join(cache, "ansi"))
	assert.True(t, os.IsNotExist(err))
}
