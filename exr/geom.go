package exr

// V2i is an integer 2D point, used for the corners of a data window.
type V2i struct {
	X, Y int32
}

// Box2i is an axis-aligned integer rectangle, inclusive on both ends,
// matching the OpenEXR data/display window convention.
type Box2i struct {
	Min, Max V2i
}

// Width returns the number of pixel columns the box spans.
func (b Box2i) Width() int32 {
	return b.Max.X - b.Min.X + 1
}

// Height returns the number of pixel rows the box spans.
func (b Box2i) Height() int32 {
	return b.Max.Y - b.Min.Y + 1
}
