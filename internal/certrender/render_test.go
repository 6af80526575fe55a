package certrender

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTemplate struct {
	img image.Image
	err error
}

func (s *stubTemplate) Template() (image.Image, error) {
	return s.img, s.err
}

func sampleFields() CertificateFields {
	return CertificateFields{
		StudentName:    "Ada Lovelace",
		CourseName:     "GDPR Essentials",
		Framework:      "GDPR",
		CompletionDate: time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC),
		CertificateID:  "CMQ-GDPR-1741774800000-a1b2c3d4",
		Tier:           "Expert",
		VerifyURL:      "https://certs.compliqo.io/verify-certificate/CMQ-GDPR-1741774800000-a1b2c3d4",
	}
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRendererRender(t *testing.T) {
	t.Run("produces page at fixed geometry", func(t *testing.T) {
		r, err := NewRenderer(nil, "Compliqo", 220)
		require.NoError(t, err)

		img, err := r.Render(sampleFields())
		require.NoError(t, err)
		assert.Equal(t, pageWidth, img.Bounds().Dx())
		assert.Equal(t, pageHeight, img.Bounds().Dy())
	})

	t.Run("identical fields render identically", func(t *testing.T) {
		r, err := NewRenderer(nil, "Compliqo", 220)
		require.NoError(t, err)

		first, err := r.Render(sampleFields())
		require.NoError(t, err)
		second, err := r.Render(sampleFields())
		require.NoError(t, err)

		assert.Equal(t, encodePNG(t, first), encodePNG(t, second))
	})

	t.Run("absent tier changes output without breaking layout", func(t *testing.T) {
		r, err := NewRenderer(nil, "Compliqo", 220)
		require.NoError(t, err)

		withTier, err := r.Render(sampleFields())
		require.NoError(t, err)

		fields := sampleFields()
		fields.Tier = ""
		withoutTier, err := r.Render(fields)
		require.NoError(t, err)

		assert.NotEqual(t, encodePNG(t, withTier), encodePNG(t, withoutTier))
		assert.Equal(t, pageWidth, withoutTier.Bounds().Dx())
	})

	t.Run("draws over provided template image", func(t *testing.T) {
		bg := image.NewRGBA(image.Rect(0, 0, pageWidth, pageHeight))
		r, err := NewRenderer(&stubTemplate{img: bg}, "Compliqo", 220)
		require.NoError(t, err)

		img, err := r.Render(sampleFields())
		require.NoError(t, err)
		assert.Equal(t, pageWidth, img.Bounds().Dx())
	})

	t.Run("template load failure aborts the render", func(t *testing.T) {
		r, err := NewRenderer(&stubTemplate{err: errors.New("missing template asset")}, "Compliqo", 220)
		require.NoError(t, err)

		_, err = r.Render(sampleFields())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "certificate template")
	})

	t.Run("qr failure aborts the render", func(t *testing.T) {
		r, err := NewRenderer(nil, "Compliqo", 220)
		require.NoError(t, err)

		fields := sampleFields()
		fields.VerifyURL = "not-an-absolute-url"
		_, err = r.Render(fields)
		require.Error(t, err)
	})

	t.Run("rejects missing required fields", func(t *testing.T) {
		r, err := NewRenderer(nil, "Compliqo", 220)
		require.NoError(t, err)

		fields := sampleFields()
		fields.StudentName = ""
		_, err = r.Render(fields)
		require.Error(t, err)
	})
}

// The embedded QR region must be pixel-identical to encoding the
// verification URL directly: a scanner reading the page reads exactly
// that URL.
func TestRenderEmbedsVerificationQR(t *testing.T) {
	const qrSize = 220
	fields := sampleFields()

	r, err := NewRenderer(nil, "Compliqo", qrSize)
	require.NoError(t, err)
	page, err := r.Render(fields)
	require.NoError(t, err)

	want, err := EncodeQR(fields.VerifyURL, qrSize, inkColor)
	require.NoError(t, err)
	require.Equal(t, qrSize, want.Bounds().Dx())

	qrX := pageWidth/2 - qrSize/2
	qrCenter := float64(pageHeight) * qrCenterY
	qrY := int(qrCenter) - qrSize/2

	wantMin := want.Bounds().Min
	for y := 0; y < qrSize; y++ {
		for x := 0; x < qrSize; x++ {
			wr, wg, wb, wa := want.At(wantMin.X+x, wantMin.Y+y).RGBA()
			gr, gg, gb, ga := page.At(qrX+x, qrY+y).RGBA()
			if wr != gr || wg != gg || wb != gb || wa != ga {
				t.Fatalf("QR pixel mismatch at (%d,%d): page %v, encoded %v",
					x, y, page.At(qrX+x, qrY+y), want.At(wantMin.X+x, wantMin.Y+y))
			}
		}
	}
}

func TestNewRenderer(t *testing.T) {
	t.Run("requires issuing organization", func(t *testing.T) {
		_, err := NewRenderer(nil, "", 220)
		require.Error(t, err)
	})

	t.Run("requires positive qr size", func(t *testing.T) {
		_, err := NewRenderer(nil, "Compliqo", 0)
		require.Error(t, err)
	})
}
