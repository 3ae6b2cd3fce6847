package coe

import "errors"

var (
	// ErrUnsupportedFormat means the input bytes decode as neither a
	// raster image nor a usable PDF.
	ErrUnsupportedFormat = errors.New("unsupported file format or corrupt data")

	// ErrNoEmbeddedImage means the input is a valid PDF but no page
	// carries an embedded image.
	ErrNoEmbeddedImage = errors.New("pdf does not contain any images")

	// ErrNotNormalized means a region was requested before the document
	// was loaded and resized to the canonical frame.
	ErrNotNormalized = errors.New("image not normalized; load and normalize first")

	// ErrInvalidField means an unknown field name was requested.
	ErrInvalidField = errors.New("invalid field name")
)
