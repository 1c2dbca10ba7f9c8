// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package avgraph

// A ChannelLayoutSet is the channel layout counterpart of FormatSet:
// an ordered collection of layout descriptors shared between the audio
// link endpoints that currently consider it a candidate.
//
// Instead of concrete entries a set may be a wildcard: allLayouts
// accepts any known arrangement, allCounts additionally accepts bare
// channel counts. allCounts implies allLayouts; every operation keeps
// that ordering intact. A wildcard set carries no entries until a
// merge against a concrete set demotes it.
//
// Ownership follows FormatSet: the set is released when the last owner
// unrefs it or when it is the donor side of a successful merge.
// ChannelLayoutSet is not safe for concurrent use.
type ChannelLayoutSet struct {
	layouts    []ChannelLayout
	allLayouts bool
	allCounts  bool
	refs       []*ChannelLayoutSetRef
}

// A ChannelLayoutSetRef is one link endpoint's slot referencing a
// shared ChannelLayoutSet. The zero value is an unbound slot.
type ChannelLayoutSetRef struct {
	set *ChannelLayoutSet
}

// NewChannelLayoutSet creates a set from a literal list of layouts.
// The new set has no owners.
func NewChannelLayoutSet(layouts ...ChannelLayout) *ChannelLayoutSet {
	set := &ChannelLayoutSet{}
	set.layouts = append(set.layouts, layouts...)

	return set
}

// AllChannelLayouts returns the wildcard set accepting any known
// arrangement, but not bare channel counts.
func AllChannelLayouts() *ChannelLayoutSet {
	return &ChannelLayoutSet{allLayouts: true}
}

// AllChannelCounts returns the wildcard set accepting any channel
// count, known arrangement or not.
func AllChannelCounts() *ChannelLayoutSet {
	return &ChannelLayoutSet{allLayouts: true, allCounts: true}
}

// Add appends a layout to the set. Appending to a wildcard set is
// invalid.
func (s *ChannelLayoutSet) Add(layout ChannelLayout) error {
	if s.allLayouts {
		return ErrWildcardAppend
	}
	s.layouts = append(s.layouts, layout)

	return nil
}

// Layouts returns the entries currently in the set, in negotiation
// order. Wildcard sets have none. The returned slice must not be
// modified.
func (s *ChannelLayoutSet) Layouts() []ChannelLayout {
	return s.layouts
}

// AllLayouts reports whether the set accepts any known arrangement.
func (s *ChannelLayoutSet) AllLayouts() bool {
	return s.allLayouts
}

// AllCounts reports whether the set accepts any channel count.
func (s *ChannelLayoutSet) AllCounts() bool {
	return s.allCounts
}

// Resolved reports whether the set has collapsed to exactly one
// concrete entry.
func (s *ChannelLayoutSet) Resolved() bool {
	return !s.allLayouts && len(s.layouts) == 1
}

// Refcount returns the number of endpoint slots sharing the set.
func (s *ChannelLayoutSet) Refcount() int {
	return len(s.refs)
}

// generality orders sets by wildcard permissiveness: 2 for allCounts,
// 1 for allLayouts only, 0 for concrete sets.
func (s *ChannelLayoutSet) generality() int {
	g := 0
	if s.allLayouts {
		g++
	}
	if s.allCounts {
		g++
	}

	return g
}

// Ref registers ref as an additional owner of the set and binds the
// slot to it. It fails if the slot already owns a set; the slot must
// be unrefed first.
func (s *ChannelLayoutSet) Ref(ref *ChannelLayoutSetRef) error {
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
func (r *ChannelLayoutSetRef) Get() *ChannelLayoutSet {
	return r.set
}

// Unref removes the slot from the owners of its set and unbinds it.
// The set is released when its last owner goes away; callers must not
// retain the set pointer after that.
func (r *ChannelLayoutSetRef) Unref() {
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
		set.layouts = nil
		set.refs = nil
		set.allLayouts = false
		set.allCounts = false
	}
}

// MoveTo transfers the slot's ownership to dst without changing the
// owner count of the set. dst must be unbound; r is left unbound.
func (r *ChannelLayoutSetRef) MoveTo(dst *ChannelLayoutSetRef) {
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

// absorb repoints every owner of donor at s and retires donor.
func (s *ChannelLayoutSet) absorb(donor *ChannelLayoutSet) {
	for _, ref := range donor.refs {
		ref.set = s
	}
	s.refs = append(s.refs, donor.refs...)
	donor.refs = nil
	donor.layouts = nil
	donor.allLayouts = false
	donor.allCounts = false
}
