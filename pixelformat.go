// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package avgraph

// PixelFormat identifies a concrete picture representation.
type PixelFormat int

// Pixel formats known to the negotiator.
const (
	PixelFormatYUV420P PixelFormat = iota + 1
	PixelFormatYUV422P
	PixelFormatYUV444P
	PixelFormatYUVA420P
	PixelFormatNV12
	PixelFormatRGB24
	PixelFormatBGR24
	PixelFormatRGBA
	PixelFormatBGRA
	PixelFormatGray8
	PixelFormatGray16
)

// pixelFormatDesc is the catalog entry backing the merge rules. The
// negotiator only ever consults component count and alpha presence; it
// never touches pixel data.
type pixelFormatDesc struct {
	name       string
	components int
	hasAlpha   bool
}

var pixelFormatDescs = map[PixelFormat]pixelFormatDesc{
	PixelFormatYUV420P:  {"yuv420p", 3, false},
	PixelFormatYUV422P:  {"yuv422p", 3, false},
	PixelFormatYUV444P:  {"yuv444p", 3, false},
	PixelFormatYUVA420P: {"yuva420p", 4, true},
	PixelFormatNV12:     {"nv12", 3, false},
	PixelFormatRGB24:    {"rgb24", 3, false},
	PixelFormatBGR24:    {"bgr24", 3, false},
	PixelFormatRGBA:     {"rgba", 4, true},
	PixelFormatBGRA:     {"bgra", 4, true},
	PixelFormatGray8:    {"gray8", 1, false},
	PixelFormatGray16:   {"gray16", 1, false},
}

func (f PixelFormat) String() string {
	if desc, ok := pixelFormatDescs[f]; ok {
		return desc.name
	}

	return "unknown"
}

// NewPixelFormat creates a PixelFormat from a name, returning the zero
// value for unknown names.
func NewPixelFormat(raw string) PixelFormat {
	for f := PixelFormatYUV420P; f <= PixelFormatGray16; f++ {
		if pixelFormatDescs[f].name == raw {
			return f
		}
	}

	return PixelFormat(0)
}

// Valid reports whether the format is part of the catalog.
func (f PixelFormat) Valid() bool {
	_, ok := pixelFormatDescs[f]

	return ok
}

// HasAlpha reports whether the format carries an alpha channel.
func (f PixelFormat) HasAlpha() bool {
	return pixelFormatDescs[f].hasAlpha
}

// HasChroma reports whether the format carries chroma information,
// that is anything beyond a single grayscale component.
func (f PixelFormat) HasChroma() bool {
	return pixelFormatDescs[f].components > 1
}
