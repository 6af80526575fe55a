package certrender

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeQR(t *testing.T) {
	t.Run("encodes absolute url at requested size", func(t *testing.T) {
		img, err := EncodeQR("https://certs.compliqo.io/verify-certificate/CMQ-GDPR-1700000000000-a1b2c3d4", 256, nil)
		require.NoError(t, err)
		assert.Equal(t, 256, img.Bounds().Dx())
		assert.Equal(t, 256, img.Bounds().Dy())
	})

	t.Run("accepts custom foreground color", func(t *testing.T) {
		img, err := EncodeQR("https://certs.compliqo.io/verify-certificate/abc", 128, color.RGBA{R: 0x0f, G: 0x62, B: 0x5c, A: 0xff})
		require.NoError(t, err)
		assert.Equal(t, 128, img.Bounds().Dx())
	})

	t.Run("rejects relative url", func(t *testing.T) {
		_, err := EncodeQR("/verify-certificate/abc", 256, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "absolute url")
	})

	t.Run("rejects unparseable url", func(t *testing.T) {
		_, err := EncodeQR("://not-a-url", 256, nil)
		require.Error(t, err)
	})

	t.Run("rejects non-positive size", func(t *testing.T) {
		_, err := EncodeQR("https://certs.compliqo.io/verify-certificate/abc", 0, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "size must be positive")
	})
}
