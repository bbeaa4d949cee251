// Package freeimage provides a thin conversion helper between decoded
// OpenEXR scanline channel data and FreeImage's RGBAF pixel layout. It
// intentionally carries no codec logic of its own; compression and
// decompression happen in the compression package.
package freeimage

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/jsm174/freeimage/exr"
)

// ErrNoChannels is returned when the channel list has nothing to convert.
var ErrNoChannels = errors.New("freeimage: channel list is empty")

// RGBAF is one FreeImage RGBAF pixel: four 32-bit floats. Samples from
// uint channels are scaled to [0, 1]; half and float samples are copied
// unscaled. Alpha defaults to 1 when the source has none.
type RGBAF struct {
	Red, Green, Blue, Alpha float32
}

// ConvertToRGBAF copies a decoded scanline batch (rows in
// exr.ChannelList.SortedByName channel order, as produced by
// compression.Pxr24Codec.Uncompress or an unpacked FastHuf buffer)
// into an interleaved RGBAF image of width x height pixels.
//
// Channel selection mirrors FreeImage's smart conversion: an R/G/B
// triple (with or without A) maps directly; a single channel is
// replicated across R, G, and B. Alpha defaults to 1.0 when the
// channel list has no A channel.
func ConvertToRGBAF(channels *exr.ChannelList, data []byte, width, height int) ([]RGBAF, error) {
	if channels.Len() == 0 {
		return nil, ErrNoChannels
	}

	sorted := channels.SortedByName()
	rowBytes := channels.BytesPerScanline(width)

	r := sorted[0].Name
	g := sorted[0].Name
	b := sorted[0].Name
	hasA := false
	aName := ""

	if rc := channels.Get("R"); rc != nil {
		r = "R"
	}
	if gc := channels.Get("G"); gc != nil {
		g = "G"
	}
	if bc := channels.Get("B"); bc != nil {
		b = "B"
	}
	if ac := channels.Get("A"); ac != nil {
		hasA = true
		aName = "A"
	}

	out := make([]RGBAF, width*height)

	for y := 0; y < height; y++ {
		row := data[y*rowBytes : (y+1)*rowBytes]
		offsets := channelOffsets(sorted, width)

		for x := 0; x < width; x++ {
			px := &out[y*width+x]
			px.Red = sampleChannel(sorted, offsets, r, row, x)
			px.Green = sampleChannel(sorted, offsets, g, row, x)
			px.Blue = sampleChannel(sorted, offsets, b, row, x)
			if hasA {
				px.Alpha = sampleChannel(sorted, offsets, aName, row, x)
			} else {
				px.Alpha = 1.0
			}
		}
	}

	return out, nil
}

// channelOffsets computes each channel's byte offset within one row,
// in the order channels appear in sorted.
func channelOffsets(sorted []exr.Channel, width int) map[string]int {
	offsets := make(map[string]int, len(sorted))
	pos := 0
	for _, c := range sorted {
		offsets[c.Name] = pos
		sampledWidth := (width + int(c.XSampling) - 1) / int(c.XSampling)
		pos += sampledWidth * c.Type.Size()
	}
	return offsets
}

// sampleChannel reads pixel x of the named channel from row, scaled
// to [0, 1] for integer channel types and copied directly for
// floating-point ones, matching FreeImage_ConvertToRGBAF's per-type
// scaling rules.
func sampleChannel(sorted []exr.Channel, offsets map[string]int, name string, row []byte, x int) float32 {
	var ch *exr.Channel
	for i := range sorted {
		if sorted[i].Name == name {
			ch = &sorted[i]
			break
		}
	}
	if ch == nil {
		return 0
	}

	sampledX := x / int(ch.XSampling)
	base := offsets[name] + sampledX*ch.Type.Size()

	switch ch.Type {
	case exr.PixelTypeUint:
		v := binary.LittleEndian.Uint32(row[base:])
		return float32(v) / float32(math.MaxUint32)
	case exr.PixelTypeHalf:
		v := binary.LittleEndian.Uint16(row[base:])
		return halfToFloat32(v)
	case exr.PixelTypeFloat:
		v := binary.LittleEndian.Uint32(row[base:])
		return math.Float32frombits(v)
	default:
		return 0
	}
}

// halfToFloat32 expands an IEEE 754 half-precision bit pattern to a
// 32-bit float, handling subnormals, infinities, and NaNs.
func halfToFloat32(h uint16) float32 {
	sign := uint32(h&0x8000) << 16
	exp := uint32(h&0x7c00) >> 10
	mant := uint32(h & 0x03ff)

	switch exp {
	case 0:
		if mant == 0 {
			return math.Float32frombits(sign)
		}
		// Subnormal half: normalize by shifting the mantissa until its
		// leading bit lands where an implicit 1 would sit.
		e := uint32(127 - 15 + 1)
		for mant&0x0400 == 0 {
			mant <<= 1
			e--
		}
		mant &= 0x03ff
		return math.Float32frombits(sign | (e << 23) | (mant << 13))
	case 0x1f:
		if mant == 0 {
			return math.Float32frombits(sign | 0x7f800000)
		}
		return math.Float32frombits(sign | 0x7f800000 | (mant << 13))
	default:
		e := exp - 15 + 127
		return math.Float32frombits(sign | (e << 23) | (mant << 13))
	}
}
