package compression

import (
	"bytes"
	"errors"
	"io"

	"github.com/klauspost/compress/zlib"
)

var (
	// ErrDeflateFailed is returned when the zlib writer fails, or when
	// the compressed result would not fit in the caller-supplied
	// destination buffer.
	ErrDeflateFailed = errors.New("compression: deflate failed")

	// ErrInflateFailed is returned when the zlib reader rejects the
	// stream, or when it produces more bytes than the destination
	// buffer can hold.
	ErrInflateFailed = errors.New("compression: inflate failed")
)

// DeflateAdapter wraps klauspost/compress/zlib behind the deflate and
// inflate operations Pxr24Codec needs. A single adapter can be reused
// across many calls; the underlying zlib.Writer is reset rather than
// reallocated.
type DeflateAdapter struct {
	outBuf bytes.Buffer
	zw     *zlib.Writer
}

// NewDeflateAdapter returns a ready-to-use adapter.
func NewDeflateAdapter() *DeflateAdapter {
	return &DeflateAdapter{}
}

// Deflate compresses src into dst and returns the number of bytes
// written. dst must be large enough to hold the compressed stream;
// callers size it with headroom over len(src) (see Pxr24Codec's
// buffer sizing), since zlib output can occasionally exceed input
// size on incompressible data.
func (a *DeflateAdapter) Deflate(dst, src []byte) (int, error) {
	a.outBuf.Reset()
	if a.zw == nil {
		a.zw = zlib.NewWriter(&a.outBuf)
	} else {
		a.zw.Reset(&a.outBuf)
	}

	if _, err := a.zw.Write(src); err != nil {
		return 0, ErrDeflateFailed
	}
	if err := a.zw.Close(); err != nil {
		return 0, ErrDeflateFailed
	}
	if a.outBuf.Len() > len(dst) {
		return 0, ErrDeflateFailed
	}
	return copy(dst, a.outBuf.Bytes()), nil
}

// Inflate decompresses src into dst and returns the number of bytes
// actually produced. dst is sized to the worst-case uncompressed
// length; the stream may legitimately decompress to fewer bytes. If
// the stream holds more data than dst can hold, that's reported as
// ErrInflateFailed rather than silently truncated.
func (a *DeflateAdapter) Inflate(dst, src []byte) (int, error) {
	zr, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return 0, ErrInflateFailed
	}
	defer zr.Close()

	n := 0
	for n < len(dst) {
		m, rerr := zr.Read(dst[n:])
		n += m
		if rerr == io.EOF {
			return n, nil
		}
		if rerr != nil {
			return n, ErrInflateFailed
		}
		if m == 0 {
			return n, ErrInflateFailed
		}
	}

	var probe [1]byte
	if m, _ := zr.Read(probe[:]); m > 0 {
		return n, ErrInflateFailed
	}
	return n, nil
}
