// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package avgraph

// DeclareFormatsFunc declares the candidate sets for the links of a
// stage. It runs once per stage before negotiation starts; any slot it
// leaves unbound is filled with the "accept anything" defaults of the
// link's media kind.
type DeclareFormatsFunc func(s *Stage) error

// A Stage is one processing element of a pipeline graph. Stages are
// created through Graph.NewStage and connected with Graph.Connect.
type Stage struct {
	name           string
	inputs         []*Link
	outputs        []*Link
	declareFormats DeclareFormatsFunc

	// converter marks a stage spliced in to bridge an incompatible
	// link. A converter failing to merge is a hard error, not another
	// conversion opportunity.
	converter bool
}

// Name returns the stage's name.
func (s *Stage) Name() string {
	return s.name
}

// Inputs returns the links feeding the stage.
func (s *Stage) Inputs() []*Link {
	return s.inputs
}

// Outputs returns the links the stage feeds.
func (s *Stage) Outputs() []*Link {
	return s.outputs
}

// formatSlots collects the stage's Formats slots for links matching
// kind (every link when kind is zero) that do not own a set yet.
func (s *Stage) formatSlots(kind MediaKind) []*FormatSetRef {
	var slots []*FormatSetRef
	for _, link := range s.inputs {
		if (kind == 0 || link.kind == kind) && link.dstCfg.Formats.set == nil {
			slots = append(slots, &link.dstCfg.Formats)
		}
	}
	for _, link := range s.outputs {
		if (kind == 0 || link.kind == kind) && link.srcCfg.Formats.set == nil {
			slots = append(slots, &link.srcCfg.Formats)
		}
	}

	return slots
}

// SetCommonFormats registers one set as the candidate formats of every
// link endpoint of the stage that matches kind (every endpoint when
// kind is zero) and does not own a format set yet.
//
// All matching endpoints share the single set instance. The fan-out is
// atomic: if registering any slot fails, the slots registered before
// it are released again. Matching no endpoint at all is a no-op and
// leaves the set without owners.
func (s *Stage) SetCommonFormats(set *FormatSet, kind MediaKind) error {
	if set == nil {
		return ErrNilSet
	}

	return broadcastFormats(set, s.formatSlots(kind))
}

// broadcastFormats registers set on every slot, all or nothing: if any
// registration fails the previous ones are rolled back, leaving the
// set without the partial owners.
func broadcastFormats(set *FormatSet, slots []*FormatSetRef) error {
	for i, slot := range slots {
		if err := set.Ref(slot); err != nil {
			for _, applied := range slots[:i] {
				applied.Unref()
			}

			return err
		}
	}

	return nil
}

// broadcastChannelLayouts is broadcastFormats for layout sets.
func broadcastChannelLayouts(set *ChannelLayoutSet, slots []*ChannelLayoutSetRef) error {
	for i, slot := range slots {
		if err := set.Ref(slot); err != nil {
			for _, applied := range slots[:i] {
				applied.Unref()
			}

			return err
		}
	}

	return nil
}

// SetCommonSampleRates registers one sample rate set on every audio
// link endpoint of the stage that does not own one yet, with the same
// sharing and atomicity as SetCommonFormats.
func (s *Stage) SetCommonSampleRates(set *FormatSet) error {
	if set == nil {
		return ErrNilSet
	}

	var slots []*FormatSetRef
	for _, link := range s.inputs {
		if link.kind == MediaKindAudio && link.dstCfg.SampleRates.set == nil {
			slots = append(slots, &link.dstCfg.SampleRates)
		}
	}
	for _, link := range s.outputs {
		if link.kind == MediaKindAudio && link.srcCfg.SampleRates.set == nil {
			slots = append(slots, &link.srcCfg.SampleRates)
		}
	}

	return broadcastFormats(set, slots)
}

// SetCommonChannelLayouts registers one channel layout set on every
// audio link endpoint of the stage that does not own one yet, with the
// same sharing and atomicity as SetCommonFormats.
func (s *Stage) SetCommonChannelLayouts(set *ChannelLayoutSet) error {
	if set == nil {
		return ErrNilSet
	}

	var slots []*ChannelLayoutSetRef
	for _, link := range s.inputs {
		if link.kind == MediaKindAudio && link.dstCfg.ChannelLayouts.set == nil {
			slots = append(slots, &link.dstCfg.ChannelLayouts)
		}
	}
	for _, link := range s.outputs {
		if link.kind == MediaKindAudio && link.srcCfg.ChannelLayouts.set == nil {
			slots = append(slots, &link.srcCfg.ChannelLayouts)
		}
	}

	return broadcastChannelLayouts(set, slots)
}

// SetCommonAllSampleRates declares the unconstrained sample rate set
// on every audio link endpoint of the stage lacking one.
func (s *Stage) SetCommonAllSampleRates() error {
	return s.SetCommonSampleRates(AllSampleRates())
}

// SetCommonAllChannelCounts declares the "any channel count" wildcard
// on every audio link endpoint of the stage lacking one.
func (s *Stage) SetCommonAllChannelCounts() error {
	return s.SetCommonChannelLayouts(AllChannelCounts())
}

// hasLinks reports whether any link of the stage carries kind.
func (s *Stage) hasLinks(kind MediaKind) bool {
	for _, link := range s.inputs {
		if link.kind == kind {
			return true
		}
	}
	for _, link := range s.outputs {
		if link.kind == kind {
			return true
		}
	}

	return false
}

// declareDefaults fills every slot the stage's declare callback left
// unbound with the loosest valid declaration for the link's kind.
//
// A regular stage shares one set instance across all its matching
// endpoints, which makes it format preserving: whatever resolves on
// one of its links resolves on all of them. A conversion stage instead
// gets an independent set per endpoint, since converting between
// representations is its entire point.
func (s *Stage) declareDefaults() error {
	if s.converter {
		return s.declareConverterDefaults()
	}
	if s.hasLinks(MediaKindVideo) {
		if err := s.SetCommonFormats(AllPixelFormats(), MediaKindVideo); err != nil {
			return err
		}
	}
	if s.hasLinks(MediaKindAudio) {
		if err := s.SetCommonFormats(AllSampleFormats(), MediaKindAudio); err != nil {
			return err
		}
		if err := s.SetCommonAllSampleRates(); err != nil {
			return err
		}
		if err := s.SetCommonAllChannelCounts(); err != nil {
			return err
		}
	}

	return nil
}

// declareConverterDefaults declares a fresh "accept anything" set for
// each unbound endpoint slot individually.
func (s *Stage) declareConverterDefaults() error {
	configs := make([]*FormatConfig, 0, len(s.inputs)+len(s.outputs))
	kinds := make([]MediaKind, 0, cap(configs))
	for _, link := range s.inputs {
		configs = append(configs, &link.dstCfg)
		kinds = append(kinds, link.kind)
	}
	for _, link := range s.outputs {
		configs = append(configs, &link.srcCfg)
		kinds = append(kinds, link.kind)
	}

	for i, cfg := range configs {
		switch kinds[i] {
		case MediaKindVideo:
			if cfg.Formats.set == nil {
				if err := AllPixelFormats().Ref(&cfg.Formats); err != nil {
					return err
				}
			}
		case MediaKindAudio:
			if cfg.Formats.set == nil {
				if err := AllSampleFormats().Ref(&cfg.Formats); err != nil {
					return err
				}
			}
			if cfg.SampleRates.set == nil {
				if err := AllSampleRates().Ref(&cfg.SampleRates); err != nil {
					return err
				}
			}
			if cfg.ChannelLayouts.set == nil {
				if err := AllChannelCounts().Ref(&cfg.ChannelLayouts); err != nil {
					return err
				}
			}
		}
	}

	return nil
}
