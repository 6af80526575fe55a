package certrender

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskTemplate(t *testing.T) {
	t.Run("loads and caches a png background", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "background.png")

		f, err := os.Create(path)
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 40, 30))))
		require.NoError(t, f.Close())

		tpl, err := NewDiskTemplate(path)
		require.NoError(t, err)

		first, err := tpl.Template()
		require.NoError(t, err)
		assert.Equal(t, 40, first.Bounds().Dx())

		// Removing the file proves the second call serves the cache.
		require.NoError(t, os.Remove(path))
		second, err := tpl.Template()
		require.NoError(t, err)
		assert.Equal(t, first.Bounds(), second.Bounds())
	})

	t.Run("missing file surfaces the error on every call", func(t *testing.T) {
		tpl, err := NewDiskTemplate(filepath.Join(t.TempDir(), "absent.png"))
		require.NoError(t, err)

		_, err = tpl.Template()
		require.Error(t, err)
		_, err = tpl.Template()
		require.Error(t, err)
	})

	t.Run("requires a path", func(t *testing.T) {
		_, err := NewDiskTemplate("")
		require.Error(t, err)
	})
}
