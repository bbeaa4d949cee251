package exr

import "errors"

// Header errors.
var (
	ErrNoChannels      = errors.New("exr: no channels defined")
	ErrEmptyDataWindow = errors.New("exr: data window is empty")
)

// Header is the reduced header view Pxr24 needs: a channel
// list and the data window they're scanned over. It deliberately does
// not model the rest of an OpenEXR header (compression tag, attribute
// list, display window, tiling description) — those live in whatever
// container code calls into this package.
type Header struct {
	channels   *ChannelList
	dataWindow Box2i
}

// NewHeader builds a Header from a channel list and data window.
func NewHeader(channels *ChannelList, dataWindow Box2i) *Header {
	return &Header{channels: channels, dataWindow: dataWindow}
}

// NewScanlineHeader builds a default RGB header over the given pixel
// dimensions, matching the common case of a full-resolution,
// unsampled three-channel image.
func NewScanlineHeader(width, height int32) *Header {
	cl := NewChannelList()
	cl.Add(NewChannel("B", PixelTypeHalf))
	cl.Add(NewChannel("G", PixelTypeHalf))
	cl.Add(NewChannel("R", PixelTypeHalf))
	return NewHeader(cl, Box2i{Min: V2i{0, 0}, Max: V2i{width - 1, height - 1}})
}

// Channels returns the header's channel list.
func (h *Header) Channels() *ChannelList {
	return h.channels
}

// DataWindow returns the rectangle of pixels the image covers.
func (h *Header) DataWindow() Box2i {
	return h.dataWindow
}

// Validate checks the invariants Pxr24Codec relies on: at least one
// channel, and a non-empty data window.
func (h *Header) Validate() error {
	if h.channels == nil || h.channels.Len() == 0 {
		return ErrNoChannels
	}
	if h.dataWindow.Width() <= 0 || h.dataWindow.Height() <= 0 {
		return ErrEmptyDataWindow
	}
	return nil
}
