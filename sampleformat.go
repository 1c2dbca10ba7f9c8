// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package avgraph

// SampleFormat identifies a concrete audio sample representation.
type SampleFormat int

// Sample formats known to the negotiator. The P variants are planar.
const (
	SampleFormatU8 SampleFormat = iota + 1
	SampleFormatS16
	SampleFormatS32
	SampleFormatFLT
	SampleFormatDBL
	SampleFormatU8P
	SampleFormatS16P
	SampleFormatS32P
	SampleFormatFLTP
	SampleFormatDBLP
)

var sampleFormatNames = map[SampleFormat]string{
	SampleFormatU8:   "u8",
	SampleFormatS16:  "s16",
	SampleFormatS32:  "s32",
	SampleFormatFLT:  "flt",
	SampleFormatDBL:  "dbl",
	SampleFormatU8P:  "u8p",
	SampleFormatS16P: "s16p",
	SampleFormatS32P: "s32p",
	SampleFormatFLTP: "fltp",
	SampleFormatDBLP: "dblp",
}

func (f SampleFormat) String() string {
	if name, ok := sampleFormatNames[f]; ok {
		return name
	}

	return "unknown"
}

// NewSampleFormat creates a SampleFormat from a name, returning the
// zero value for unknown names.
func NewSampleFormat(raw string) SampleFormat {
	for f := SampleFormatU8; f <= SampleFormatDBLP; f++ {
		if sampleFormatNames[f] == raw {
			return f
		}
	}

	return SampleFormat(0)
}

// Valid reports whether the format is part of the catalog.
func (f SampleFormat) Valid() bool {
	_, ok := sampleFormatNames[f]

	return ok
}

// IsPlanar reports whether each channel is stored in a separate plane.
func (f SampleFormat) IsPlanar() bool {
	return f >= SampleFormatU8P && f <= SampleFormatDBLP
}
