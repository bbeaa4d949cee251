// Package exr provides the reduced image-header view the compression
// package needs to drive a codec over scanline data: channel pixel
// types, subsampling factors, and the rectangular data window. It is
// not an EXR container reader or writer.
package exr

import "sort"

// PixelType defines the data type for pixel channel values.
type PixelType uint32

const (
	// PixelTypeUint is a 32-bit unsigned integer.
	PixelTypeUint PixelType = 0
	// PixelTypeHalf is a 16-bit IEEE 754 half-precision float.
	PixelTypeHalf PixelType = 1
	// PixelTypeFloat is a 32-bit IEEE 754 single-precision float.
	PixelTypeFloat PixelType = 2
)

// String returns a string representation of the pixel type.
func (pt PixelType) String() string {
	switch pt {
	case PixelTypeUint:
		return "uint"
	case PixelTypeHalf:
		return "half"
	case PixelTypeFloat:
		return "float"
	default:
		return "unknown"
	}
}

// Size returns the size in bytes of one pixel value.
func (pt PixelType) Size() int {
	switch pt {
	case PixelTypeUint:
		return 4
	case PixelTypeHalf:
		return 2
	case PixelTypeFloat:
		return 4
	default:
		return 0
	}
}

// Channel describes a single image channel.
type Channel struct {
	// Name is the channel name (e.g., "R", "G", "B", "A", "Z").
	Name string
	// Type is the pixel data type.
	Type PixelType
	// XSampling is the horizontal subsampling factor (1 = full resolution).
	XSampling int32
	// YSampling is the vertical subsampling factor (1 = full resolution).
	YSampling int32
	// PLinear indicates if the channel stores perceptually linear data.
	// This is a hint for display applications.
	PLinear bool
}

// NewChannel creates a new channel with the given name and type.
// XSampling and YSampling default to 1 (full resolution).
func NewChannel(name string, pixelType PixelType) Channel {
	return Channel{
		Name:      name,
		Type:      pixelType,
		XSampling: 1,
		YSampling: 1,
	}
}

// ChannelList represents an ordered collection of channels.
type ChannelList struct {
	channels []Channel
	byName   map[string]int
}

// NewChannelList creates an empty channel list.
func NewChannelList() *ChannelList {
	return &ChannelList{
		channels: make([]Channel, 0),
		byName:   make(map[string]int),
	}
}

// Add adds a channel to the list. Returns false if a channel with the
// same name already exists.
func (cl *ChannelList) Add(c Channel) bool {
	if _, exists := cl.byName[c.Name]; exists {
		return false
	}
	cl.byName[c.Name] = len(cl.channels)
	cl.channels = append(cl.channels, c)
	return true
}

// Get returns a channel by name, or nil if not found.
func (cl *ChannelList) Get(name string) *Channel {
	idx, exists := cl.byName[name]
	if !exists {
		return nil
	}
	return &cl.channels[idx]
}

// Len returns the number of channels.
func (cl *ChannelList) Len() int {
	return len(cl.channels)
}

// At returns the channel at the given index.
func (cl *ChannelList) At(i int) Channel {
	return cl.channels[i]
}

// Channels returns a copy of all channels in insertion order.
func (cl *ChannelList) Channels() []Channel {
	result := make([]Channel, len(cl.channels))
	copy(result, cl.channels)
	return result
}

// Names returns a slice of all channel names in insertion order.
func (cl *ChannelList) Names() []string {
	names := make([]string, len(cl.channels))
	for i, c := range cl.channels {
		names[i] = c.Name
	}
	return names
}

// SortedByName returns a copy of all channels sorted alphabetically by
// name. This is the canonical channel order Pxr24 walks in.
func (cl *ChannelList) SortedByName() []Channel {
	result := cl.Channels()
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// BytesPerPixel returns the total bytes needed per pixel across all
// channels, ignoring subsampling.
func (cl *ChannelList) BytesPerPixel() int {
	total := 0
	for _, c := range cl.channels {
		total += c.Type.Size()
	}
	return total
}

// BytesPerScanline returns the bytes needed for one scanline of the
// given width, accounting for each channel's horizontal subsampling.
// It assumes a data window starting at column 0; callers walking an
// arbitrary data window (Pxr24Codec) use Planes instead.
func (cl *ChannelList) BytesPerScanline(width int) int {
	total := 0
	for _, c := range cl.channels {
		sampledWidth := (width + int(c.XSampling) - 1) / int(c.XSampling)
		total += sampledWidth * c.Type.Size()
	}
	return total
}

// modp returns a folded into [0, b) — the row-sampling predicate
// channel subsampling uses: row y is sampled only when modp(y, b)==0.
func modp(a, b int32) int32 {
	return ((a % b) + b) % b
}

// numSamples counts the sampled coordinates of [a, b] under a stride
// of s, handling coordinates on either side of zero (a data window
// need not start at a non-negative column).
func numSamples(s, a, b int32) int {
	a1 := a
	if a < 0 {
		a1 = a - s + 1
	}
	b1 := b
	if b < 0 {
		b1 = b - s + 1
	}
	n := b1/s - a1/s
	if (a1/s)*s == a {
		n++
	}
	return int(n)
}

// ChannelPlane is one channel's row-sampling plan over a fixed data
// window: how many samples it contributes to a row it's active on,
// and the vertical subsampling that decides which rows it's active
// on at all. Pxr24Codec computes a plane list once per codec instance
// instead of re-deriving numSamples/modp for every row it walks.
type ChannelPlane struct {
	Name      string
	Type      PixelType
	YSampling int32
	Samples   int
}

// ActiveAt reports whether this channel is sampled on row y.
func (p ChannelPlane) ActiveAt(y int32) bool {
	return modp(y, p.YSampling) == 0
}

// Planes returns the list's channels sorted by name, each with its
// per-row sample count over dw already resolved.
func (cl *ChannelList) Planes(dw Box2i) []ChannelPlane {
	sorted := cl.SortedByName()
	planes := make([]ChannelPlane, len(sorted))
	for i, c := range sorted {
		planes[i] = ChannelPlane{
			Name:      c.Name,
			Type:      c.Type,
			YSampling: c.YSampling,
			Samples:   numSamples(c.XSampling, dw.Min.X, dw.Max.X),
		}
	}
	return planes
}
