package coe

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// ClassRow holds the four crops that make up one enrolled-class row.
type ClassRow struct {
	ClassCode   image.Image
	SubjectName image.Image
	Schedule    image.Image
	UnitCount   image.Image
}

// TopBand returns the header strip holding name, course, student
// number, academic year, and semester. The band spans the full image
// width at call time rather than a template constant, so a future
// change to the canonical width does not strand it.
func (d *Document) TopBand() (image.Image, error) {
	img, err := d.Image()
	if err != nil {
		return nil, err
	}
	w := img.Bounds().Dx()
	return crop(img, image.Rect(0, topBandY, w, topBandY+topBandHeight)), nil
}

// BottomBand returns the class-list region.
func (d *Document) BottomBand() (image.Image, error) {
	img, err := d.Image()
	if err != nil {
		return nil, err
	}
	return crop(img, image.Rect(0, bottomBandY, bottomBandWidth, bottomBandY+bottomBandHeight)), nil
}

// ExtractField crops a single named field. Fields live in the top band
// except block_no, which lives in the bottom band.
func (d *Document) ExtractField(f Field) (image.Image, error) {
	rect, ok := fieldRects[f]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidField, string(f))
	}

	var band image.Image
	var err error
	if f == FieldBlockNo {
		band, err = d.BottomBand()
	} else {
		band, err = d.TopBand()
	}
	if err != nil {
		return nil, err
	}
	return crop(band, rect), nil
}

// ExtractClassRows walks the class list top to bottom and returns one
// ClassRow per full row.
func (d *Document) ExtractClassRows() ([]ClassRow, error) {
	bottom, err := d.BottomBand()
	if err != nil {
		return nil, err
	}
	return splitClassRows(bottom), nil
}

// splitClassRows slices fixed-height row bands out of the class-list
// region. A trailing band shorter than a full row is dropped, not
// truncated; zero rows is a valid result for a short band.
func splitClassRows(bottom image.Image) []ClassRow {
	var rows []ClassRow
	h := bottom.Bounds().Dy()
	for y := rowStart; y+rowHeight <= h; y += rowHeight {
		row := crop(bottom, image.Rect(0, y, bottomBandWidth, y+rowHeight))
		middle := crop(row, rowMiddleRect)
		rows = append(rows, ClassRow{
			ClassCode:   crop(row, rowClassCodeRect),
			SubjectName: crop(middle, rowSubjectRect),
			Schedule:    crop(middle, rowScheduleRect),
			UnitCount:   crop(row, rowUnitCountRect),
		})
	}
	return rows
}

// crop copies the rectangle out of img into a fresh image anchored at
// the origin, so crops stay valid after the source is discarded.
func crop(img image.Image, rect image.Rectangle) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(out, out.Bounds(), img, rect.Min, draw.Src)
	return out
}
