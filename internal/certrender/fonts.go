package certrender

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// fontSet carries the parsed typefaces used on the certificate page.
// The Go fonts ship inside the binary, so rendering never depends on
// host-installed fonts and stays identical across machines.
type fontSet struct {
	regular *opentype.Font
	bold    *opentype.Font
	italic  *opentype.Font
}

var (
	fontsOnce sync.Once
	fonts     *fontSet
	fontsErr  error
)

func loadFonts() (*fontSet, error) {
	fontsOnce.Do(func() {
		regular, err := opentype.Parse(goregular.TTF)
		if err != nil {
			fontsErr = fmt.Errorf("parse regular font: %w", err)
			return
		}
		bold, err := opentype.Parse(gobold.TTF)
		if err != nil {
			fontsErr = fmt.Errorf("parse bold font: %w", err)
			return
		}
		italic, err := opentype.Parse(goitalic.TTF)
		if err != nil {
			fontsErr = fmt.Errorf("parse italic font: %w", err)
			return
		}
		fonts = &fontSet{regular: regular, bold: bold, italic: italic}
	})
	return fonts, fontsErr
}

func (f *fontSet) face(src *opentype.Font, sizePx float64) (font.Face, error) {
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("build font face at %.1fpx: %w", sizePx, err)
	}
	return face, nil
}
