package coe

import "image"

// Template constants. All crop rectangles below are expressed in the
// canonical 850x1000 frame produced by Normalize; nothing here is
// runtime-configurable.
const (
	// TargetWidth and TargetHeight define the canonical frame every
	// document is stretched to before extraction.
	TargetWidth  = 850
	TargetHeight = 1000

	// The top band holds the header fields (name, course, number, year,
	// semester). Its width follows the image, not the template.
	topBandY      = 112
	topBandHeight = 60

	// The bottom band holds the class list. 306 is the header offset
	// (206) plus the fixed footer reserve (100px); what remains below
	// y=206 is the usable class-list height.
	bottomBandY      = 206
	bottomBandWidth  = 520
	footerReserve    = 306
	bottomBandHeight = TargetHeight - footerReserve

	// Class rows start 30px into the bottom band and repeat every 45px.
	rowStart  = 30
	rowHeight = 45
)

// Field names a single croppable region of the certificate.
type Field string

const (
	FieldStudentName Field = "student_name"
	FieldCourse      Field = "course"
	FieldStudentNo   Field = "student_no"
	FieldAcadYear    Field = "acad_year"
	FieldSemester    Field = "semester"
	FieldBlockNo     Field = "block_no"
)

// fieldRects maps each field to its crop rectangle in band-local
// coordinates. All fields crop from the top band except block_no,
// which crops from the bottom band.
var fieldRects = map[Field]image.Rectangle{
	FieldStudentName: image.Rect(105, 20, 505, 40),
	FieldCourse:      image.Rect(105, 40, 505, 60),
	FieldStudentNo:   image.Rect(665, 20, 815, 40),
	FieldAcadYear:    image.Rect(665, 40, 815, 60),
	// semester reads from the very top of the band (y=0) while the
	// other header fields start 20px down. Carried over verbatim from
	// the production template: it looks like a mis-tuned offset, but
	// changing it would shift the crop for every existing client.
	FieldSemester: image.Rect(300, 0, 550, 17),
	FieldBlockNo:  image.Rect(275, 0, 375, 25),
}

// Row-local sub-rectangles of one 520x45 class row. The middle strip
// (subject name over schedule) excludes the class code on the left and
// the unit count on the right.
var (
	rowClassCodeRect = image.Rect(0, 0, 90, rowHeight)
	rowMiddleRect    = image.Rect(90, 0, 470, rowHeight)
	rowSubjectRect   = image.Rect(0, 0, 380, 22)
	rowScheduleRect  = image.Rect(0, 22, 380, 45)
	rowUnitCountRect = image.Rect(490, 5, 520, 40)
)

// Fields returns every extractable field name in a stable order.
func Fields() []Field {
	return []Field{
		FieldStudentName,
		FieldCourse,
		FieldStudentNo,
		FieldAcadYear,
		FieldSemester,
		FieldBlockNo,
	}
}
