// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package avgraph

import (
	"fmt"
	"strconv"
)

// ChannelOrder describes how the channels of a layout are identified.
type ChannelOrder int

const (
	// ChannelOrderUnspecified marks a layout known only by its channel
	// count, with no named arrangement.
	ChannelOrderUnspecified ChannelOrder = iota

	// ChannelOrderNative marks a layout whose arrangement is described
	// by a channel position mask.
	ChannelOrderNative
)

// Channel position masks.
const (
	ChannelFrontLeft uint64 = 1 << iota
	ChannelFrontRight
	ChannelFrontCenter
	ChannelLowFrequency
	ChannelBackLeft
	ChannelBackRight
	ChannelSideLeft
	ChannelSideRight
)

// A ChannelLayout is one entry of a ChannelLayoutSet: either a known
// arrangement (ChannelOrderNative with a position mask) or a bare
// channel count (ChannelOrderUnspecified). The zero value is invalid.
type ChannelLayout struct {
	Order    ChannelOrder
	Channels int
	Mask     uint64
}

// Predefined known layouts.
var (
	ChannelLayoutMono     = ChannelLayout{ChannelOrderNative, 1, ChannelFrontCenter}
	ChannelLayoutStereo   = ChannelLayout{ChannelOrderNative, 2, ChannelFrontLeft | ChannelFrontRight}
	ChannelLayout2Point1  = ChannelLayout{ChannelOrderNative, 3, ChannelFrontLeft | ChannelFrontRight | ChannelLowFrequency}
	ChannelLayoutSurround = ChannelLayout{ChannelOrderNative, 3, ChannelFrontLeft | ChannelFrontRight | ChannelFrontCenter}
	ChannelLayoutQuad     = ChannelLayout{ChannelOrderNative, 4, ChannelFrontLeft | ChannelFrontRight | ChannelBackLeft | ChannelBackRight}
	ChannelLayout5Point1  = ChannelLayout{ChannelOrderNative, 6, ChannelFrontLeft | ChannelFrontRight | ChannelFrontCenter | ChannelLowFrequency |
		ChannelBackLeft | ChannelBackRight}
	ChannelLayout7Point1 = ChannelLayout{ChannelOrderNative, 8, ChannelFrontLeft | ChannelFrontRight | ChannelFrontCenter | ChannelLowFrequency |
		ChannelBackLeft | ChannelBackRight | ChannelSideLeft | ChannelSideRight}
)

var channelLayoutNames = map[uint64]string{
	ChannelLayoutMono.Mask:     "mono",
	ChannelLayoutStereo.Mask:   "stereo",
	ChannelLayout2Point1.Mask:  "2.1",
	ChannelLayoutSurround.Mask: "3.0",
	ChannelLayoutQuad.Mask:     "quad",
	ChannelLayout5Point1.Mask:  "5.1",
	ChannelLayout7Point1.Mask:  "7.1",
}

// GenericCountLayout returns the layout that specifies only a channel
// count, with no arrangement.
func GenericCountLayout(channels int) ChannelLayout {
	return ChannelLayout{Order: ChannelOrderUnspecified, Channels: channels}
}

// Known reports whether the layout has a concrete arrangement.
func (l ChannelLayout) Known() bool {
	return l.Order != ChannelOrderUnspecified
}

// Valid reports whether the layout describes at least one channel.
func (l ChannelLayout) Valid() bool {
	return l.Channels > 0
}

// Equal reports whether two layouts describe the same channels.
// Invalid layouts never compare equal, a known layout never equals a
// bare count.
func (l ChannelLayout) Equal(other ChannelLayout) bool {
	if !l.Valid() || !other.Valid() {
		return false
	}
	if l.Channels != other.Channels {
		return false
	}
	if l.Known() != other.Known() {
		return false
	}
	if !l.Known() {
		return true
	}

	return l.Mask == other.Mask
}

func (l ChannelLayout) String() string {
	switch {
	case !l.Valid():
		return "invalid"
	case !l.Known():
		return strconv.Itoa(l.Channels) + "C"
	}

	if name, ok := channelLayoutNames[l.Mask]; ok {
		return name
	}

	return fmt.Sprintf("0x%x", l.Mask)
}
