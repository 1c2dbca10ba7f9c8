// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package avgraph

// A Merger is the probe/merge function pair negotiating one attribute
// of one media kind across the two endpoint configs of a link.
type Merger struct {
	// Name identifies the negotiated attribute in diagnostics.
	Name string

	// CanMerge reports, without modifying anything, whether the
	// attribute's two sets can merge. Nil when no cheap probe exists
	// and only the merge itself can decide.
	CanMerge func(a, b *FormatConfig) bool

	// Merge merges the attribute's two sets in place, repointing all
	// owners onto the survivor. It returns false, leaving both sets
	// untouched, when they are incompatible.
	Merge func(a, b *FormatConfig) bool

	merged   func(a, b *FormatConfig) bool
	resolved func(cfg *FormatConfig) bool
	pick     func(cfg *FormatConfig) bool
}

// A Negotiation describes, for one media kind, the ordered attribute
// mergers and the canonical conversion stage able to bridge two stages
// whose sets cannot be merged.
type Negotiation struct {
	Mergers         []Merger
	ConversionStage string
}

// GetNegotiation returns the negotiation descriptor for a media kind,
// or nil for an unknown kind.
func GetNegotiation(kind MediaKind) *Negotiation {
	switch kind {
	case MediaKindVideo:
		return negotiationVideo
	case MediaKindAudio:
		return negotiationAudio
	default:
		return nil
	}
}

func scalarMerger(
	name string,
	slot func(cfg *FormatConfig) *FormatSetRef,
	canMerge, merge func(a, b *FormatSet) bool,
) Merger {
	return Merger{
		Name: name,
		CanMerge: func(a, b *FormatConfig) bool {
			return canMerge(slot(a).set, slot(b).set)
		},
		Merge: func(a, b *FormatConfig) bool {
			return merge(slot(a).set, slot(b).set)
		},
		merged: func(a, b *FormatConfig) bool {
			return slot(a).set == slot(b).set
		},
		resolved: func(cfg *FormatConfig) bool {
			set := slot(cfg).set

			return set != nil && set.Resolved()
		},
		pick: func(cfg *FormatConfig) bool {
			set := slot(cfg).set
			if set == nil || len(set.formats) == 0 {
				return false
			}
			set.formats = set.formats[:1]

			return true
		},
	}
}

func channelLayoutMerger() Merger {
	slot := func(cfg *FormatConfig) *ChannelLayoutSetRef {
		return &cfg.ChannelLayouts
	}

	return Merger{
		Name: "channel layout",
		Merge: func(a, b *FormatConfig) bool {
			return MergeChannelLayouts(slot(a).set, slot(b).set)
		},
		merged: func(a, b *FormatConfig) bool {
			return slot(a).set == slot(b).set
		},
		resolved: func(cfg *FormatConfig) bool {
			set := slot(cfg).set

			return set != nil && set.Resolved()
		},
		pick: func(cfg *FormatConfig) bool {
			set := slot(cfg).set
			// A wildcard set that was never demoted by a concrete
			// neighbor has nothing to pick from.
			if set == nil || len(set.layouts) == 0 {
				return false
			}
			set.layouts = set.layouts[:1]

			return true
		},
	}
}

func formatsSlot(cfg *FormatConfig) *FormatSetRef     { return &cfg.Formats }
func sampleRatesSlot(cfg *FormatConfig) *FormatSetRef { return &cfg.SampleRates }

var negotiationVideo = &Negotiation{
	Mergers: []Merger{
		scalarMerger("pixel format", formatsSlot, CanMergePixelFormats, MergePixelFormats),
	},
	ConversionStage: "scale",
}

var negotiationAudio = &Negotiation{
	Mergers: []Merger{
		channelLayoutMerger(),
		scalarMerger("sample rate", sampleRatesSlot, CanMergeSampleRates, MergeSampleRates),
		scalarMerger("sample format", formatsSlot, CanMergeSampleFormats, MergeSampleFormats),
	},
	ConversionStage: "aresample",
}
