package exr

import "testing"

// TestChannelListPlanesSubsampling is spec.md §8's concrete scenario 5
// (Pxr24 Float subsampled): an R channel at full resolution alongside
// a G channel subsampled 2x2. Over a two-row data window, G must be
// active on row 0 only and contribute half as many samples per row as
// R, while R stays active and full-width on every row.
func TestChannelListPlanesSubsampling(t *testing.T) {
	cl := NewChannelList()
	r := NewChannel("R", PixelTypeFloat)
	cl.Add(r)
	g := NewChannel("G", PixelTypeHalf)
	g.XSampling = 2
	g.YSampling = 2
	cl.Add(g)

	dw := Box2i{Min: V2i{X: 0, Y: 0}, Max: V2i{X: 3, Y: 1}}
	planes := cl.Planes(dw)
	if len(planes) != 2 {
		t.Fatalf("len(planes) = %d, want 2", len(planes))
	}

	// SortedByName orders G before R.
	gPlane, rPlane := planes[0], planes[1]
	if gPlane.Name != "G" || rPlane.Name != "R" {
		t.Fatalf("planes = [%s, %s], want [G, R]", gPlane.Name, rPlane.Name)
	}

	if rPlane.Samples != 4 {
		t.Errorf("R.Samples = %d, want 4 (full width, no subsampling)", rPlane.Samples)
	}
	if !rPlane.ActiveAt(0) || !rPlane.ActiveAt(1) {
		t.Errorf("R must be active on every row, got row0=%v row1=%v", rPlane.ActiveAt(0), rPlane.ActiveAt(1))
	}

	if gPlane.Samples != 2 {
		t.Errorf("G.Samples = %d, want 2 (half width at 2x subsampling)", gPlane.Samples)
	}
	if !gPlane.ActiveAt(0) {
		t.Errorf("G must be active on row 0")
	}
	if gPlane.ActiveAt(1) {
		t.Errorf("G must be skipped on row 1 (2x vertical subsampling)")
	}
}

// TestNumSamplesOffsetDataWindow checks numSamples against a data
// window whose minimum column is itself a non-zero multiple of the
// subsampling stride — OpenEXR requires data window bounds to be
// divisible by a channel's sampling factors, so this is the offset
// case that actually occurs, as opposed to an arbitrary unaligned
// minX.
func TestNumSamplesOffsetDataWindow(t *testing.T) {
	cl := NewChannelList()
	c := NewChannel("Z", PixelTypeHalf)
	c.XSampling = 2
	cl.Add(c)

	dw := Box2i{Min: V2i{X: 2, Y: 0}, Max: V2i{X: 5, Y: 0}}
	planes := cl.Planes(dw)
	if len(planes) != 1 {
		t.Fatalf("len(planes) = %d, want 1", len(planes))
	}
	if got := planes[0].Samples; got != 2 {
		t.Errorf("Samples = %d, want 2 (columns 2 and 4 of [2,5] at stride 2)", got)
	}
}
