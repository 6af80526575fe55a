package certrender

import (
	"fmt"
	"image"
	"image/color"
	"net/url"

	qrcode "github.com/skip2/go-qrcode"
)

// EncodeQR renders the verification URL as a QR bitmap at the requested
// pixel size. The payload must be the complete absolute URL so any scanner
// can resolve it without app logic. Encoding failure aborts the whole
// issuance; a certificate without a working code is invalid output.
func EncodeQR(verifyURL string, sizePx int, fg color.Color) (image.Image, error) {
	if sizePx <= 0 {
		return nil, fmt.Errorf("qr size must be positive, got %d", sizePx)
	}
	parsed, err := url.ParseRequestURI(verifyURL)
	if err != nil {
		return nil, fmt.Errorf("qr payload is not an absolute url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("qr payload must be an absolute url, got %q", verifyURL)
	}

	code, err := qrcode.New(verifyURL, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	if fg != nil {
		code.ForegroundColor = fg
	}
	code.BackgroundColor = color.White

	return code.Image(sizePx), nil
}
