// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package avgraph

// A FormatSet is an ordered collection of scalar format identifiers:
// pixel formats on video links, sample formats or sample rates on
// audio links. One FormatSet is shared between every link endpoint
// that currently considers it a candidate; the endpoints jointly own
// it through their FormatSetRef slots.
//
// A FormatSet is released when its last owner unrefs it or when it is
// the donor side of a successful merge. Callers must not retain the
// set pointer past either event. FormatSet is not safe for concurrent
// use.
type FormatSet struct {
	formats []int64
	refs    []*FormatSetRef
}

// A FormatSetRef is one link endpoint's slot referencing a shared
// FormatSet. The zero value is an unbound slot.
type FormatSetRef struct {
	set *FormatSet
}

// NewPixelFormatSet creates a set from a literal list of pixel
// formats. The new set has no owners.
func NewPixelFormatSet(formats ...PixelFormat) *FormatSet {
	set := &FormatSet{}
	for _, f := range formats {
		set.formats = append(set.formats, int64(f))
	}

	return set
}

// NewSampleFormatSet creates a set from a literal list of sample
// formats. The new set has no owners.
func NewSampleFormatSet(formats ...SampleFormat) *FormatSet {
	set := &FormatSet{}
	for _, f := range formats {
		set.formats = append(set.formats, int64(f))
	}

	return set
}

// NewSampleRateSet creates a set from a literal list of sample rates.
// The new set has no owners.
func NewSampleRateSet(rates ...int) *FormatSet {
	set := &FormatSet{}
	for _, r := range rates {
		set.formats = append(set.formats, int64(r))
	}

	return set
}

// AllPixelFormats returns a set holding every pixel format of the
// catalog.
func AllPixelFormats() *FormatSet {
	set := &FormatSet{}
	for f := PixelFormatYUV420P; f <= PixelFormatGray16; f++ {
		set.formats = append(set.formats, int64(f))
	}

	return set
}

// AllSampleFormats returns a set holding every sample format of the
// catalog.
func AllSampleFormats() *FormatSet {
	set := &FormatSet{}
	for f := SampleFormatU8; f <= SampleFormatDBLP; f++ {
		set.formats = append(set.formats, int64(f))
	}

	return set
}

// PlanarSampleFormats returns a set holding every planar sample format
// of the catalog.
func PlanarSampleFormats() *FormatSet {
	set := &FormatSet{}
	for f := SampleFormatU8; f <= SampleFormatDBLP; f++ {
		if f.IsPlanar() {
			set.formats = append(set.formats, int64(f))
		}
	}

	return set
}

// AllSampleRates returns the unconstrained sample rate set. It carries
// no entries and merges with any concrete rate set by absorption.
func AllSampleRates() *FormatSet {
	return &FormatSet{}
}

// Add appends a format identifier to the set.
func (s *FormatSet) Add(format int64) {
	s.formats = append(s.formats, format)
}

// Formats returns the identifiers currently in the set, in negotiation
// order. The returned slice must not be modified.
func (s *FormatSet) Formats() []int64 {
	return s.formats
}

// Resolved reports whether the set has collapsed to exactly one entry.
func (s *FormatSet) Resolved() bool {
	return len(s.formats) == 1
}

// Refcount returns the number of endpoint slots sharing the set.
func (s *FormatSet) Refcount() int {
	return len(s.refs)
}

// Ref registers ref as an additional owner of the set and binds the
// slot to it. It fails if the slot already owns a set; the slot must
// be unrefed first.
func (s *FormatSet) Ref(ref *FormatSetRef) error {
	if s == nil {
		return ErrNilSet
	}
	if ref.set != nil {
		return ErrRefAlreadyBound
	}
	s.refs = append(s.refs, ref)
	ref.set = s

	return nil
}

// Get returns the set the slot currently owns, or nil for an unbound
// slot.
func (r *FormatSetRef) Get() *FormatSet {
	return r.set
}

// Unref removes the slot from the owners of its set and unbinds it.
// The set is released when its last owner goes away; callers must not
// retain the set pointer after that.
func (r *FormatSetRef) Unref() {
	set := r.set
	r.set = nil
	if set == nil {
		return
	}
	for i, ref := range set.refs {
		if ref == r {
			set.refs = append(set.refs[:i], set.refs[i+1:]...)

			break
		}
	}
	if len(set.refs) == 0 {
		set.formats = nil
		set.refs = nil
	}
}

// MoveTo transfers the slot's ownership to dst without changing the
// owner count of the set, for when an endpoint is redirected to a
// different link. dst must be unbound; r is left unbound.
func (r *FormatSetRef) MoveTo(dst *FormatSetRef) {
	if r.set == nil || r == dst {
		return
	}
	for i, ref := range r.set.refs {
		if ref == r {
			r.set.refs[i] = dst

			break
		}
	}
	dst.set = r.set
	r.set = nil
}

// absorb repoints every owner of donor at s and retires donor. The
// donor keeps neither entries nor owners afterwards.
func (s *FormatSet) absorb(donor *FormatSet) {
	for _, ref := range donor.refs {
		ref.set = s
	}
	s.refs = append(s.refs, donor.refs...)
	donor.refs = nil
	donor.formats = nil
}
