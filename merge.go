// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package avgraph

// The merge functions below combine the candidate sets on the two
// sides of a link. A merge is all or nothing: on success the surviving
// set holds the common entries and every owner of both inputs is
// repointed at it, the donor being retired; on failure both inputs are
// left exactly as they were. The CanMerge variants perform the same
// computation without modifying anything.
//
// Both inputs of a mutating merge must have at least one owner.

// CanMergePixelFormats reports whether a and b have a usable common
// subset of pixel formats, without modifying either set.
func CanMergePixelFormats(a, b *FormatSet) bool {
	return mergeFormatsInternal(a, b, MediaKindVideo, true)
}

// MergePixelFormats merges the pixel format sets a and b.
//
// The merge fails not only on an empty intersection but also whenever
// it would silently discard chroma or alpha capability: if both sides
// offer chroma (resp. alpha) somewhere but no common format carries
// it, selecting the intersection would force a lossy conversion
// elsewhere in the graph, so the sets are reported incompatible to
// force an explicit conversion stage instead.
func MergePixelFormats(a, b *FormatSet) bool {
	return mergeFormatsInternal(a, b, MediaKindVideo, false)
}

// CanMergeSampleFormats reports whether a and b have a common sample
// format, without modifying either set.
func CanMergeSampleFormats(a, b *FormatSet) bool {
	return mergeFormatsInternal(a, b, MediaKindAudio, true)
}

// MergeSampleFormats merges the sample format sets a and b.
func MergeSampleFormats(a, b *FormatSet) bool {
	return mergeFormatsInternal(a, b, MediaKindAudio, false)
}

// CanMergeSampleRates reports whether a and b have a common sample
// rate, without modifying either set.
func CanMergeSampleRates(a, b *FormatSet) bool {
	return mergeSampleRatesInternal(a, b, true)
}

// MergeSampleRates merges the sample rate sets a and b. An empty rate
// set means "no constraint" and absorbs the other side unchanged.
func MergeSampleRates(a, b *FormatSet) bool {
	return mergeSampleRatesInternal(a, b, false)
}

func mergeFormatsInternal(a, b *FormatSet, kind MediaKind, check bool) bool {
	if a == b {
		return true
	}

	// Do not lose chroma or alpha in merging. That happens when both
	// lists have formats with chroma (resp. alpha) but the formats in
	// common do not, e.g. YUV+gray against RGB+gray: the merge would
	// select gray and cause a lossy conversion elsewhere in the graph.
	// Pretend there are no common formats so that a conversion stage
	// gets inserted here instead. The scan covers the whole cross
	// product so the verdict never depends on entry order.
	if kind == MediaKindVideo {
		var alphaBoth, alphaCommon, chromaBoth, chromaCommon bool
		for _, af := range a.formats {
			afmt := PixelFormat(af)
			for _, bf := range b.formats {
				bfmt := PixelFormat(bf)
				alphaBoth = alphaBoth || (afmt.HasAlpha() && bfmt.HasAlpha())
				chromaBoth = chromaBoth || (afmt.HasChroma() && bfmt.HasChroma())
				if af == bf {
					alphaCommon = alphaCommon || afmt.HasAlpha()
					chromaCommon = chromaCommon || afmt.HasChroma()
				}
			}
		}
		if (alphaBoth && !alphaCommon) || (chromaBoth && !chromaCommon) {
			return false
		}
	}

	return mergeScalar(a, b, false, check)
}

func mergeSampleRatesInternal(a, b *FormatSet, check bool) bool {
	if a == b {
		return true
	}

	return mergeScalar(a, b, true, check)
}

// mergeScalar intersects two scalar sets, preserving a's relative
// order. With emptyAllowed an empty set poses no constraint and the
// other side survives unchanged. In check mode nothing is modified.
func mergeScalar(a, b *FormatSet, emptyAllowed, check bool) bool {
	if emptyAllowed && (len(a.formats) == 0 || len(b.formats) == 0) {
		if check {
			return true
		}
		if len(a.formats) == 0 {
			a, b = b, a
		}
		a.absorb(b)

		return true
	}

	var common []int64
	for _, af := range a.formats {
		for _, bf := range b.formats {
			if af == bf {
				if check {
					return true
				}
				common = append(common, af)

				break
			}
		}
	}
	if len(common) == 0 {
		// Neither input was modified.
		return false
	}

	a.formats = common
	a.absorb(b)

	return true
}

// MergeChannelLayouts merges the channel layout sets a and b. There is
// no probe variant: generic entries on either side can produce result
// entries that neither side listed verbatim, so the merge itself is
// the only authority.
//
// A wildcard side absorbs a concrete side, demoting itself to the
// concrete entries. An "any known layout" wildcard first drops the
// concrete side's bare-count entries, since a bare count cannot be
// validated against it; the merge fails if nothing is left. Between
// two concrete sets the result is built from the cross product: known
// entries matching known entries, known entries matching the other
// side's bare counts, and bare counts matching bare counts. The
// operand with more owners survives, keeping the repoint cheap.
func MergeChannelLayouts(a, b *ChannelLayoutSet) bool {
	if a == b {
		return true
	}

	// Put the most generic set in a so each wildcard case is handled
	// once.
	if a.generality() < b.generality() {
		a, b = b, a
	}
	if a.generality() > 0 {
		if a.generality() == 1 && b.generality() == 0 {
			// Keep only the known layouts of b. A bare count dropped
			// here might have become known through a later merge.
			var known []ChannelLayout
			for _, layout := range b.layouts {
				if layout.Known() {
					known = append(known, layout)
				}
			}
			if len(known) == 0 {
				return false
			}
			b.layouts = known
		}
		b.absorb(a)

		return true
	}

	// Both sides are concrete. Work on copies and mark consumed
	// entries invalid, so a failed merge leaves the inputs untouched.
	as := append([]ChannelLayout(nil), a.layouts...)
	bs := append([]ChannelLayout(nil), b.layouts...)
	merged := make([]ChannelLayout, 0, len(as)+len(bs))

	// Known entries present on both sides.
	for i := range as {
		if !as[i].Known() {
			continue
		}
		for j := range bs {
			if as[i].Equal(bs[j]) {
				merged = append(merged, as[i])
				as[i], bs[j] = ChannelLayout{}, ChannelLayout{}

				break
			}
		}
	}

	// Known entries whose count appears as a bare count on the other
	// side; first as against bs, then the other way around.
	x, y := as, bs
	for round := 0; round < 2; round++ {
		for i := range x {
			layout := x[i]
			if !layout.Valid() || !layout.Known() {
				continue
			}
			count := GenericCountLayout(layout.Channels)
			for j := range y {
				if y[j].Equal(count) {
					merged = append(merged, layout)
				}
			}
		}
		x, y = y, x
	}

	// Bare counts present on both sides, kept as bare counts.
	for i := range as {
		if !as[i].Valid() || as[i].Known() {
			continue
		}
		for j := range bs {
			if as[i].Equal(bs[j]) {
				merged = append(merged, as[i])
			}
		}
	}

	if len(merged) == 0 {
		return false
	}

	if a.Refcount() > b.Refcount() {
		a, b = b, a
	}
	b.layouts = merged
	b.absorb(a)

	return true
}
