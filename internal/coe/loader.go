package coe

import (
	"bytes"
	"fmt"
	"image"
	"sort"
	"sync"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Document is one certificate being processed by a single request.
// It is never shared: each request loads its own copy and discards it
// when the response is written.
type Document struct {
	img        image.Image
	normalized bool
}

// Load decodes raw upload bytes into a Document. It tries a direct
// raster decode first; failing that, it treats the bytes as a PDF and
// pulls out the first embedded image in page order. The caller's
// claimed file type is never consulted.
func Load(data []byte) (*Document, error) {
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return &Document{img: img}, nil
	}

	if !isPDF(data) {
		return nil, ErrUnsupportedFormat
	}
	img, err := firstEmbeddedImage(data)
	if err != nil {
		return nil, err
	}
	return &Document{img: img}, nil
}

// Normalize stretches the image to the canonical 850x1000 frame.
// Aspect ratio is intentionally not preserved: the template rectangles
// are defined in this frame and nowhere else. Must run before any
// extraction call.
func (d *Document) Normalize() {
	dst := image.NewRGBA(image.Rect(0, 0, TargetWidth, TargetHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), d.img, d.img.Bounds(), draw.Src, nil)
	d.img = dst
	d.normalized = true
}

// Image returns the normalized certificate image.
func (d *Document) Image() (image.Image, error) {
	if !d.normalized {
		return nil, ErrNotNormalized
	}
	return d.img, nil
}

// isPDF reports whether the bytes parse as a PDF document at all.
// ledongthuc/pdf panics on some malformed xref tables, so the probe
// converts a panic into a negative answer.
func isPDF(data []byte) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	_, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	return err == nil
}

var pdfcpuSetup sync.Once

// firstEmbeddedImage scans pages in document order and returns the
// first embedded image found. Within a page, pdfcpu exposes images as
// an unordered map keyed by object number; ascending object number
// stands in for resource order so repeated calls pick the same image.
func firstEmbeddedImage(data []byte) (image.Image, error) {
	pdfcpuSetup.Do(api.DisableConfigDir)

	pages, err := api.ExtractImagesRaw(bytes.NewReader(data), nil, model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	for _, byObjNr := range pages {
		if len(byObjNr) == 0 {
			continue
		}
		objNrs := make([]int, 0, len(byObjNr))
		for nr := range byObjNr {
			objNrs = append(objNrs, nr)
		}
		sort.Ints(objNrs)

		img, _, err := image.Decode(byObjNr[objNrs[0]])
		if err != nil {
			return nil, fmt.Errorf("decode embedded image: %w", err)
		}
		return img, nil
	}
	return nil, ErrNoEmbeddedImage
}
