// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package avgraph

import (
	"fmt"

	"github.com/pion/avgraph/internal/util"
)

// NegotiationState describes how far the formats of one link have been
// negotiated.
type NegotiationState int

const (
	// NegotiationStateUnresolved indicates negotiation has not started
	// for the link.
	NegotiationStateUnresolved NegotiationState = iota + 1

	// NegotiationStateNegotiating indicates the link's attribute sets
	// are being merged.
	NegotiationStateNegotiating

	// NegotiationStateResolved indicates every attribute of the link
	// has collapsed to exactly one value shared by both sides.
	NegotiationStateResolved

	// NegotiationStateFailed indicates the two sides share no usable
	// representation and a conversion stage was not provided.
	NegotiationStateFailed
)

func (s NegotiationState) String() string {
	switch s {
	case NegotiationStateUnresolved:
		return "unresolved"
	case NegotiationStateNegotiating:
		return "negotiating"
	case NegotiationStateResolved:
		return "resolved"
	case NegotiationStateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// A FormatConfig holds the candidate sets declared for one end of one
// link, one slot per negotiated attribute. Formats carries pixel
// formats on video links and sample formats on audio links;
// SampleRates and ChannelLayouts are used on audio links only.
type FormatConfig struct {
	Formats        FormatSetRef
	SampleRates    FormatSetRef
	ChannelLayouts ChannelLayoutSetRef
}

// unrefAll releases every slot of the config.
func (c *FormatConfig) unrefAll() {
	c.Formats.Unref()
	c.SampleRates.Unref()
	c.ChannelLayouts.Unref()
}

// moveTo transfers every bound slot of the config to dst, preserving
// the owner counts of the underlying sets.
func (c *FormatConfig) moveTo(dst *FormatConfig) {
	c.Formats.MoveTo(&dst.Formats)
	c.SampleRates.MoveTo(&dst.SampleRates)
	c.ChannelLayouts.MoveTo(&dst.ChannelLayouts)
}

// A Link is a directed connection between two stages carrying one kind
// of media. Its two FormatConfigs hold what each side can handle;
// negotiation collapses them to a single shared representation.
type Link struct {
	id   string
	kind MediaKind
	src  *Stage
	dst  *Stage

	// srcCfg holds the candidates declared by the producing stage,
	// dstCfg those declared by the consuming stage.
	srcCfg FormatConfig
	dstCfg FormatConfig

	state NegotiationState
}

// ID returns the link's generated identifier.
func (l *Link) ID() string {
	return l.id
}

// Kind returns the kind of media the link carries.
func (l *Link) Kind() MediaKind {
	return l.kind
}

// Src returns the producing stage.
func (l *Link) Src() *Stage {
	return l.src
}

// Dst returns the consuming stage.
func (l *Link) Dst() *Stage {
	return l.dst
}

// State returns the link's negotiation state.
func (l *Link) State() NegotiationState {
	return l.state
}

// SrcConfig returns the candidate sets declared by the producing
// stage.
func (l *Link) SrcConfig() *FormatConfig {
	return &l.srcCfg
}

// DstConfig returns the candidate sets declared by the consuming
// stage.
func (l *Link) DstConfig() *FormatConfig {
	return &l.dstCfg
}

// NegotiatedPixelFormat returns the resolved pixel format of a video
// link, and whether one has been resolved.
func (l *Link) NegotiatedPixelFormat() (PixelFormat, bool) {
	if l.kind != MediaKindVideo {
		return 0, false
	}
	set := l.srcCfg.Formats.set
	if set == nil || !set.Resolved() {
		return 0, false
	}

	return PixelFormat(set.formats[0]), true
}

// NegotiatedSampleFormat returns the resolved sample format of an
// audio link, and whether one has been resolved.
func (l *Link) NegotiatedSampleFormat() (SampleFormat, bool) {
	if l.kind != MediaKindAudio {
		return 0, false
	}
	set := l.srcCfg.Formats.set
	if set == nil || !set.Resolved() {
		return 0, false
	}

	return SampleFormat(set.formats[0]), true
}

// NegotiatedSampleRate returns the resolved sample rate of an audio
// link, and whether one has been resolved.
func (l *Link) NegotiatedSampleRate() (int, bool) {
	if l.kind != MediaKindAudio {
		return 0, false
	}
	set := l.srcCfg.SampleRates.set
	if set == nil || !set.Resolved() {
		return 0, false
	}

	return int(set.formats[0]), true
}

// NegotiatedChannelLayout returns the resolved channel layout of an
// audio link, and whether one has been resolved.
func (l *Link) NegotiatedChannelLayout() (ChannelLayout, bool) {
	if l.kind != MediaKindAudio {
		return ChannelLayout{}, false
	}
	set := l.srcCfg.ChannelLayouts.set
	if set == nil || !set.Resolved() {
		return ChannelLayout{}, false
	}

	return set.layouts[0], true
}

// mergeAttributes runs the link's mergers across its two endpoint
// configs. Attributes with a probe are checked up front so an
// incompatibility found there mutates nothing; a probe-less merge can
// still fail afterwards, leaving its own sets untouched. The failing
// merger is returned, or nil when every attribute merged.
func (l *Link) mergeAttributes() (progress bool, failed *Merger) {
	mergers := GetNegotiation(l.kind).Mergers

	for i := range mergers {
		merger := &mergers[i]
		if merger.merged(&l.srcCfg, &l.dstCfg) {
			continue
		}
		if merger.CanMerge != nil && !merger.CanMerge(&l.srcCfg, &l.dstCfg) {
			return progress, merger
		}
	}

	for i := range mergers {
		merger := &mergers[i]
		if merger.merged(&l.srcCfg, &l.dstCfg) {
			continue
		}
		if !merger.Merge(&l.srcCfg, &l.dstCfg) {
			return progress, merger
		}
		progress = true
	}

	return progress, nil
}

// validate checks every candidate set declared on the link.
func (l *Link) validate() error {
	var errs []error
	for _, cfg := range []*FormatConfig{&l.srcCfg, &l.dstCfg} {
		switch l.kind {
		case MediaKindVideo:
			errs = append(errs, CheckPixelFormats(cfg.Formats.set))
		case MediaKindAudio:
			errs = append(errs,
				CheckSampleFormats(cfg.Formats.set),
				CheckSampleRates(cfg.SampleRates.set),
				CheckChannelLayouts(cfg.ChannelLayouts.set))
		}
	}
	for i, err := range errs {
		if err != nil {
			errs[i] = fmt.Errorf("link %s: %w", l.id, err)
		}
	}

	return util.FlattenErrs(errs)
}
