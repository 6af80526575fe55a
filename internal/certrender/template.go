package certrender

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"
)

// TemplateProvider supplies the decoded background surface for a
// certificate. Implementations must be safe for concurrent use.
type TemplateProvider interface {
	Template() (image.Image, error)
}

// DiskTemplate loads a background image from disk once at first use and
// caches the decoded surface. Missing or undecodable files are deployment
// defects and are surfaced on every call rather than swallowed.
type DiskTemplate struct {
	path string

	once sync.Once
	img  image.Image
	err  error
}

// NewDiskTemplate builds a provider for the given image path.
func NewDiskTemplate(path string) (*DiskTemplate, error) {
	if path == "" {
		return nil, fmt.Errorf("template path is required")
	}
	return &DiskTemplate{path: path}, nil
}

// Template returns the cached decoded image.
func (d *DiskTemplate) Template() (image.Image, error) {
	d.once.Do(func() {
		f, err := os.Open(d.path)
		if err != nil {
			d.err = fmt.Errorf("open certificate template %q: %w", d.path, err)
			return
		}
		defer f.Close()

		img, _, err := image.Decode(f)
		if err != nil {
			d.err = fmt.Errorf("decode certificate template %q: %w", d.path, err)
			return
		}
		d.img = img
	})
	return d.img, d.err
}
