package certrender

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/fogleman/gg"
)

// Page geometry is fixed. Every coordinate below is derived from these
// two numbers, so a template image is expected at the same dimensions.
const (
	pageWidth  = 1600
	pageHeight = 1131
)

// Fractional vertical anchors for the overlaid text blocks.
const (
	orgLineY     = 0.12
	titleLineY   = 0.22
	leadLineY    = 0.33
	nameLineY    = 0.42
	courseLineY  = 0.58
	tierLineY    = 0.655
	footerLineY  = 0.72
	qrCenterY    = 0.855
	qrCaptionPad = 14.0
)

var (
	inkColor    = color.RGBA{R: 0x1f, G: 0x2a, B: 0x3a, A: 0xff}
	accentColor = color.RGBA{R: 0x0f, G: 0x62, B: 0x5c, A: 0xff}
	mutedColor  = color.RGBA{R: 0x5a, G: 0x64, B: 0x70, A: 0xff}
)

// CertificateFields is everything the renderer draws. Values are taken
// verbatim; the renderer never re-derives or reformats identifiers.
type CertificateFields struct {
	StudentName    string
	CourseName     string
	Framework      string
	CompletionDate time.Time
	CertificateID  string
	// Tier is drawn on its own line when non-empty. An enrollment
	// without a recorded score produces no tier and no placeholder.
	Tier      string
	VerifyURL string
}

// Renderer composes the certificate page: background (template image or
// synthesized canvas), overlaid text fields, and the verification QR.
type Renderer struct {
	template   TemplateProvider
	issuingOrg string
	qrSizePx   int
}

// NewRenderer builds a renderer. template may be nil, in which case the
// background is drawn programmatically.
func NewRenderer(template TemplateProvider, issuingOrg string, qrSizePx int) (*Renderer, error) {
	if issuingOrg == "" {
		return nil, fmt.Errorf("issuing organization is required")
	}
	if qrSizePx <= 0 {
		return nil, fmt.Errorf("qr size must be positive, got %d", qrSizePx)
	}
	return &Renderer{template: template, issuingOrg: issuingOrg, qrSizePx: qrSizePx}, nil
}

// Render draws the full certificate page. Identical fields always yield
// an identical image: fonts are embedded, the layout is fixed, and the
// QR payload is the caller-supplied URL.
func (r *Renderer) Render(fields CertificateFields) (image.Image, error) {
	if fields.StudentName == "" || fields.CourseName == "" || fields.CertificateID == "" {
		return nil, fmt.Errorf("student name, course name and certificate id are required")
	}
	if fields.VerifyURL == "" {
		return nil, fmt.Errorf("verification url is required")
	}

	fs, err := loadFonts()
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(pageWidth, pageHeight)
	if err := r.drawBackground(dc); err != nil {
		return nil, err
	}
	if err := r.drawText(dc, fs, fields); err != nil {
		return nil, err
	}
	if err := r.drawQR(dc, fs, fields.VerifyURL); err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

func (r *Renderer) drawBackground(dc *gg.Context) error {
	if r.template != nil {
		bg, err := r.template.Template()
		if err != nil {
			return fmt.Errorf("load certificate template: %w", err)
		}
		dc.DrawImage(bg, 0, 0)
		return nil
	}

	// Synthesized canvas: white page with a double accent border.
	dc.SetColor(color.White)
	dc.Clear()

	dc.SetColor(accentColor)
	dc.SetLineWidth(6)
	dc.DrawRectangle(40, 40, pageWidth-80, pageHeight-80)
	dc.Stroke()
	dc.SetLineWidth(2)
	dc.DrawRectangle(56, 56, pageWidth-112, pageHeight-112)
	dc.Stroke()
	return nil
}

func (r *Renderer) drawText(dc *gg.Context, fs *fontSet, fields CertificateFields) error {
	centerX := float64(pageWidth) / 2

	orgFace, err := fs.face(fs.bold, 34)
	if err != nil {
		return err
	}
	dc.SetFontFace(orgFace)
	dc.SetColor(mutedColor)
	dc.DrawStringAnchored(r.issuingOrg, centerX, pageHeight*orgLineY, 0.5, 0.5)

	titleFace, err := fs.face(fs.bold, 64)
	if err != nil {
		return err
	}
	dc.SetFontFace(titleFace)
	dc.SetColor(accentColor)
	dc.DrawStringAnchored("Certificate of Completion", centerX, pageHeight*titleLineY, 0.5, 0.5)

	leadFace, err := fs.face(fs.italic, 30)
	if err != nil {
		return err
	}
	dc.SetFontFace(leadFace)
	dc.SetColor(mutedColor)
	dc.DrawStringAnchored("This certifies that", centerX, pageHeight*leadLineY, 0.5, 0.5)

	nameFace, err := fs.face(fs.bold, 72)
	if err != nil {
		return err
	}
	dc.SetFontFace(nameFace)
	dc.SetColor(inkColor)
	dc.DrawStringAnchored(fields.StudentName, centerX, pageHeight*nameLineY, 0.5, 0.5)

	courseFace, err := fs.face(fs.regular, 36)
	if err != nil {
		return err
	}
	dc.SetFontFace(courseFace)
	dc.SetColor(inkColor)
	dc.DrawStringAnchored(fields.courseLine(), centerX, pageHeight*courseLineY, 0.5, 0.5)

	if fields.Tier != "" {
		tierFace, err := fs.face(fs.bold, 32)
		if err != nil {
			return err
		}
		dc.SetFontFace(tierFace)
		dc.SetColor(accentColor)
		dc.DrawStringAnchored("Certification Level: "+fields.Tier, centerX, pageHeight*tierLineY, 0.5, 0.5)
	}

	footerFace, err := fs.face(fs.regular, 26)
	if err != nil {
		return err
	}
	dc.SetFontFace(footerFace)
	dc.SetColor(mutedColor)
	dc.DrawStringAnchored(
		"Completed on "+fields.CompletionDate.Format("January 2, 2006"),
		96, pageHeight*footerLineY, 0, 0.5,
	)
	dc.DrawStringAnchored(
		"Certificate ID: "+fields.CertificateID,
		pageWidth-96, pageHeight*footerLineY, 1, 0.5,
	)
	return nil
}

func (r *Renderer) drawQR(dc *gg.Context, fs *fontSet, verifyURL string) error {
	qr, err := EncodeQR(verifyURL, r.qrSizePx, inkColor)
	if err != nil {
		return err
	}

	qrX := pageWidth/2 - r.qrSizePx/2
	qrCenter := float64(pageHeight) * qrCenterY
	qrY := int(qrCenter) - r.qrSizePx/2
	dc.DrawImage(qr, qrX, qrY)

	captionFace, err := fs.face(fs.regular, 22)
	if err != nil {
		return err
	}
	dc.SetFontFace(captionFace)
	dc.SetColor(mutedColor)
	dc.DrawStringAnchored(
		"Scan to verify",
		float64(pageWidth)/2,
		float64(qrY+r.qrSizePx)+qrCaptionPad,
		0.5, 0,
	)
	return nil
}

func (f CertificateFields) courseLine() string {
	if f.Framework != "" {
		return fmt.Sprintf("has completed %s (%s)", f.CourseName, f.Framework)
	}
	return "has completed " + f.CourseName
}
