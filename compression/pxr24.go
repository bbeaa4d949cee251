package compression

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/jsm174/freeimage/exr"
)

var (
	// ErrInvalidScanLineSize is returned when NewPxr24Codec is given a
	// non-positive maxScanLineSize or numScanLines.
	ErrInvalidScanLineSize = errors.New("compression: pxr24 scan line size must be positive")

	// ErrBufferSizeOverflow is returned when the codec's buffer sizing
	// arithmetic would overflow a 64-bit unsigned integer.
	ErrBufferSizeOverflow = errors.New("compression: pxr24 buffer size overflow")

	// ErrNotEnoughData is returned when decompression's channel walk
	// would read past the end of the inflated scratch buffer.
	ErrNotEnoughData = errors.New("compression: pxr24 input data are shorter than expected")

	// ErrTooMuchData is returned when decompression's channel walk
	// finishes with inflated bytes still unconsumed.
	ErrTooMuchData = errors.New("compression: pxr24 input data are longer than expected")
)

// Pxr24Codec predicts, transposes, and deflates per-channel scanline
// data. A codec instance is bound to one header's channel layout and
// one maximum scanline batch size; it owns the scratch buffers needed
// to compress or decompress a batch of that size and reuses them
// across calls.
type Pxr24Codec struct {
	header          *exr.Header
	maxScanLineSize int
	numScanLines    int

	planes []exr.ChannelPlane

	tmpBuffer []byte
	deflate   *DeflateAdapter
}

// NewPxr24Codec allocates a codec sized for batches of up to
// numScanLines scanlines, each at most maxScanLineSize bytes of raw
// (pre-compression) channel data.
func NewPxr24Codec(header *exr.Header, maxScanLineSize, numScanLines int) (*Pxr24Codec, error) {
	if err := header.Validate(); err != nil {
		return nil, err
	}
	if maxScanLineSize <= 0 || numScanLines <= 0 {
		return nil, ErrInvalidScanLineSize
	}

	maxInBytes, err := uiMult(uint64(maxScanLineSize), uint64(numScanLines))
	if err != nil {
		return nil, err
	}

	return &Pxr24Codec{
		header:          header,
		maxScanLineSize: maxScanLineSize,
		numScanLines:    numScanLines,
		planes:          header.Channels().Planes(header.DataWindow()),
		tmpBuffer:       make([]byte, maxInBytes),
		deflate:         NewDeflateAdapter(),
	}, nil
}

// MaxOutputSize returns the largest number of compressed bytes
// Compress can produce for this codec's batch size, with the same
// headroom over the raw size that the reference compressor reserves.
func (c *Pxr24Codec) MaxOutputSize() (int, error) {
	maxInBytes := uint64(len(c.tmpBuffer))
	headroom, err := uiAdd(maxInBytes, uint64(math.Ceil(float64(maxInBytes)*0.01)))
	if err != nil {
		return 0, err
	}
	total, err := uiAdd(headroom, 100)
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

// uiMult multiplies two sizes, reporting ErrBufferSizeOverflow instead
// of silently wrapping.
func uiMult(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	r := a * b
	if r/a != b {
		return 0, ErrBufferSizeOverflow
	}
	return r, nil
}

// uiAdd adds two sizes, reporting ErrBufferSizeOverflow instead of
// silently wrapping.
func uiAdd(a, b uint64) (uint64, error) {
	r := a + b
	if r < a {
		return 0, ErrBufferSizeOverflow
	}
	return r, nil
}

// Compress predicts, transposes, and deflates the raw scanline bytes
// in data into dst, returning the number of compressed bytes written.
// data holds rows minY..maxY in order; within each row, channels
// appear in exr.ChannelList.SortedByName order (skipping rows a
// channel's vertical subsampling doesn't sample), each channel's
// pixels stored little-endian and back to back.
func (c *Pxr24Codec) Compress(dst, data []byte, minY, maxY int32) (int, error) {
	pos := 0
	inPos := 0

	for y := minY; y <= maxY; y++ {
		for pi := range c.planes {
			p := &c.planes[pi]
			if !p.ActiveAt(y) {
				continue
			}
			n := p.Samples

			switch p.Type {
			case exr.PixelTypeUint:
				ptr0, ptr1, ptr2, ptr3 := pos, pos+n, pos+2*n, pos+3*n
				var prev uint32
				for x := 0; x < n; x++ {
					pixel := binary.LittleEndian.Uint32(data[inPos:])
					inPos += 4
					diff := pixel - prev
					prev = pixel
					c.tmpBuffer[ptr0+x] = byte(diff >> 24)
					c.tmpBuffer[ptr1+x] = byte(diff >> 16)
					c.tmpBuffer[ptr2+x] = byte(diff >> 8)
					c.tmpBuffer[ptr3+x] = byte(diff)
				}
				pos += 4 * n

			case exr.PixelTypeHalf:
				ptr0, ptr1 := pos, pos+n
				var prev uint16
				for x := 0; x < n; x++ {
					pixel := binary.LittleEndian.Uint16(data[inPos:])
					inPos += 2
					diff := pixel - prev
					prev = pixel
					c.tmpBuffer[ptr0+x] = byte(diff >> 8)
					c.tmpBuffer[ptr1+x] = byte(diff)
				}
				pos += 2 * n

			case exr.PixelTypeFloat:
				ptr0, ptr1, ptr2 := pos, pos+n, pos+2*n
				var prev uint32
				for x := 0; x < n; x++ {
					f := math.Float32frombits(binary.LittleEndian.Uint32(data[inPos:]))
					inPos += 4
					pixel24 := FloatToFloat24(f)
					diff := pixel24 - prev
					prev = pixel24
					c.tmpBuffer[ptr0+x] = byte(diff >> 16)
					c.tmpBuffer[ptr1+x] = byte(diff >> 8)
					c.tmpBuffer[ptr2+x] = byte(diff)
				}
				pos += 3 * n
			}
		}
	}

	return c.deflate.Deflate(dst, c.tmpBuffer[:pos])
}

// CompressScanlines is Compress for the codec's fixed numScanLines
// batch starting at minY.
func (c *Pxr24Codec) CompressScanlines(dst, data []byte, minY int32) (int, error) {
	return c.Compress(dst, data, minY, minY+int32(c.numScanLines)-1)
}

// Uncompress inflates src and reconstructs the raw scanline bytes for
// rows minY..maxY into dst, in the same channel/row layout Compress
// consumes. It returns the number of raw bytes written.
func (c *Pxr24Codec) Uncompress(dst, src []byte, minY, maxY int32) (int, error) {
	tmpSize, err := c.deflate.Inflate(c.tmpBuffer, src)
	if err != nil {
		return 0, err
	}

	pos := 0
	outPos := 0

	for y := minY; y <= maxY; y++ {
		for pi := range c.planes {
			p := &c.planes[pi]
			if !p.ActiveAt(y) {
				continue
			}
			n := p.Samples

			switch p.Type {
			case exr.PixelTypeUint:
				if pos+4*n > tmpSize {
					return 0, ErrNotEnoughData
				}
				ptr0, ptr1, ptr2, ptr3 := pos, pos+n, pos+2*n, pos+3*n
				var pixel uint32
				for x := 0; x < n; x++ {
					diff := uint32(c.tmpBuffer[ptr0+x])<<24 |
						uint32(c.tmpBuffer[ptr1+x])<<16 |
						uint32(c.tmpBuffer[ptr2+x])<<8 |
						uint32(c.tmpBuffer[ptr3+x])
					pixel += diff
					binary.LittleEndian.PutUint32(dst[outPos:], pixel)
					outPos += 4
				}
				pos += 4 * n

			case exr.PixelTypeHalf:
				if pos+2*n > tmpSize {
					return 0, ErrNotEnoughData
				}
				ptr0, ptr1 := pos, pos+n
				var pixel uint16
				for x := 0; x < n; x++ {
					diff := uint16(c.tmpBuffer[ptr0+x])<<8 | uint16(c.tmpBuffer[ptr1+x])
					pixel += diff
					binary.LittleEndian.PutUint16(dst[outPos:], pixel)
					outPos += 2
				}
				pos += 2 * n

			case exr.PixelTypeFloat:
				if pos+3*n > tmpSize {
					return 0, ErrNotEnoughData
				}
				ptr0, ptr1, ptr2 := pos, pos+n, pos+2*n
				var pixel24 uint32
				for x := 0; x < n; x++ {
					diff := uint32(c.tmpBuffer[ptr0+x])<<16 |
						uint32(c.tmpBuffer[ptr1+x])<<8 |
						uint32(c.tmpBuffer[ptr2+x])
					pixel24 += diff
					binary.LittleEndian.PutUint32(dst[outPos:], math.Float32bits(Float24ToFloat32(pixel24)))
					outPos += 4
				}
				pos += 3 * n
			}
		}
	}

	if pos < tmpSize {
		return 0, ErrTooMuchData
	}
	return outPos, nil
}

// UncompressScanlines is Uncompress for the codec's fixed
// numScanLines batch starting at minY.
func (c *Pxr24Codec) UncompressScanlines(dst, src []byte, minY int32) (int, error) {
	return c.Uncompress(dst, src, minY, minY+int32(c.numScanLines)-1)
}
