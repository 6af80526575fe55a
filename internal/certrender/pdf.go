package certrender

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// DocumentMetadata is embedded into the packaged document so the file
// remains self-describing outside the API response it shipped in.
type DocumentMetadata struct {
	Title        string
	Author       string
	Subject      string
	Keywords     string
	CreationDate time.Time
}

// PackagePDF wraps the rendered page into a single-page PDF whose page
// geometry matches the source image pixel-for-pixel (1px = 1pt). The
// image is embedded lossless as PNG.
func PackagePDF(surface image.Image, meta DocumentMetadata) ([]byte, error) {
	if surface == nil {
		return nil, fmt.Errorf("surface image is required")
	}
	bounds := surface.Bounds()
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())

	var buf bytes.Buffer
	if err := png.Encode(&buf, surface); err != nil {
		return nil, fmt.Errorf("encode page image: %w", err)
	}

	orientation := "P"
	if w > h {
		orientation = "L"
	}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: orientation,
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetTitle(meta.Title, false)
	pdf.SetAuthor(meta.Author, false)
	pdf.SetSubject(meta.Subject, false)
	pdf.SetKeywords(meta.Keywords, false)
	pdf.SetCreator(meta.Author, false)
	if !meta.CreationDate.IsZero() {
		pdf.SetCreationDate(meta.CreationDate)
	}
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader("certificate-page", opts, &buf)
	pdf.ImageOptions("certificate-page", 0, 0, w, h, false, opts, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return out.Bytes(), nil
}
