// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package avgraph

import "strings"

// MediaKind determines the kind of media carried by a link.
type MediaKind int

const (
	// MediaKindAudio indicates an audio link.
	MediaKindAudio MediaKind = iota + 1

	// MediaKindVideo indicates a video link.
	MediaKindVideo
)

func (k MediaKind) String() string {
	switch k {
	case MediaKindAudio:
		return "audio"
	case MediaKindVideo:
		return "video"
	default:
		return ErrUnknownKind.Error()
	}
}

// NewMediaKind creates a MediaKind from a string.
func NewMediaKind(raw string) MediaKind {
	switch {
	case strings.EqualFold(raw, MediaKindAudio.String()):
		return MediaKindAudio
	case strings.EqualFold(raw, MediaKindVideo.String()):
		return MediaKindVideo
	default:
		return MediaKind(0)
	}
}
