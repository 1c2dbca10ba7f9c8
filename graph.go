// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package avgraph negotiates, for every link of a media processing
// pipeline, a single concrete data representation (pixel format,
// sample format, sample rate, channel layout) acceptable to both the
// producing and the consuming stage. Stages declare sets of candidate
// representations; negotiation merges the sets across every link and
// either resolves a consistent assignment or reports where a
// conversion stage has to be spliced in.
package avgraph

import (
	"fmt"

	"github.com/pion/avgraph/internal/util"
	"github.com/pion/logging"
)

// ConversionHook is invoked when the two sides of a link turn out to
// be incompatible. It receives the failing link, the attribute that
// could not be merged and the canonical conversion stage name for the
// link's media kind. It returns the stage to splice into the link,
// created with Graph.NewStage, or nil to give up on the build.
type ConversionHook func(link *Link, attribute, conversionStage string) (*Stage, error)

// A Graph owns the stages and links of one pipeline build and drives
// format negotiation across them. Negotiation runs synchronously
// during pipeline construction, before any media flows; a Graph must
// only be used from a single goroutine.
type Graph struct {
	stages []*Stage
	links  []*Link

	onIncompatible ConversionHook
	log            logging.LeveledLogger
}

// NewGraph creates an empty pipeline graph. loggerFactory may be nil,
// in which case the default factory is used.
func NewGraph(loggerFactory logging.LoggerFactory) *Graph {
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}

	return &Graph{log: loggerFactory.NewLogger("avgraph")}
}

// OnIncompatible sets the hook consulted when a link cannot be merged.
// Without a hook, negotiation fails with an IncompatibleError naming
// the conversion stage that would have been needed.
func (g *Graph) OnIncompatible(hook ConversionHook) {
	g.onIncompatible = hook
}

// NewStage adds a stage to the graph. declare may be nil; slots not
// declared by the callback accept anything of their link's kind.
func (g *Graph) NewStage(name string, declare DeclareFormatsFunc) *Stage {
	stage := &Stage{name: name, declareFormats: declare}
	g.stages = append(g.stages, stage)

	return stage
}

// Links returns the graph's links, including any created by splicing
// conversion stages. The returned slice must not be modified.
func (g *Graph) Links() []*Link {
	return g.links
}

// Connect links src to dst with a directed link carrying kind.
func (g *Graph) Connect(src, dst *Stage, kind MediaKind) (*Link, error) {
	if src == nil || dst == nil {
		return nil, ErrNilStage
	}
	if GetNegotiation(kind) == nil {
		return nil, ErrUnknownKind
	}

	link := &Link{
		id:    fmt.Sprintf("%s->%s/%s", src.name, dst.name, util.MathRandAlpha(4)),
		kind:  kind,
		src:   src,
		dst:   dst,
		state: NegotiationStateUnresolved,
	}
	src.outputs = append(src.outputs, link)
	dst.inputs = append(dst.inputs, link)
	g.links = append(g.links, link)

	return link, nil
}

// Negotiate resolves a single representation for every attribute of
// every link. Stages declare their candidate sets, the sets are
// validated, then merged to a fixed point; remaining multi-entry sets
// are collapsed to their first entry. Incompatible links are bridged
// through the ConversionHook, or reported as an IncompatibleError.
// A failed negotiation is terminal for the build attempt.
func (g *Graph) Negotiate() error {
	for _, stage := range g.stages {
		if err := g.declareStage(stage); err != nil {
			return err
		}
	}
	if err := g.validateLinks(g.links); err != nil {
		return err
	}

	for {
		progress, err := g.mergeAllLinks()
		if err != nil {
			return err
		}
		if !progress {
			break
		}
	}

	return g.pickAll()
}

// Close releases every candidate set still owned by the graph's
// links. The graph must not be used afterwards.
func (g *Graph) Close() {
	for _, link := range g.links {
		link.srcCfg.unrefAll()
		link.dstCfg.unrefAll()
	}
}

// declareStage runs the stage's declare callback, then fills the slots
// it left unbound with defaults.
func (g *Graph) declareStage(stage *Stage) error {
	if stage.declareFormats != nil {
		if err := stage.declareFormats(stage); err != nil {
			return fmt.Errorf("stage %s: declare formats: %w", stage.name, err)
		}
	}
	if err := stage.declareDefaults(); err != nil {
		return fmt.Errorf("stage %s: declare formats: %w", stage.name, err)
	}

	return nil
}

func (g *Graph) validateLinks(links []*Link) error {
	errs := make([]error, 0, len(links))
	for _, link := range links {
		errs = append(errs, link.validate())
	}

	return util.FlattenErrs(errs)
}

// mergeAllLinks sweeps every link once. It reports whether any set
// changed; splicing a conversion stage counts as progress and restarts
// the sweep so the new links are visited.
func (g *Graph) mergeAllLinks() (bool, error) {
	progress := false
	for _, link := range g.links {
		if link.state == NegotiationStateUnresolved {
			link.state = NegotiationStateNegotiating
		}

		linkProgress, failed := link.mergeAttributes()
		progress = progress || linkProgress
		if failed == nil {
			continue
		}

		neg := GetNegotiation(link.kind)
		g.log.Debugf("link %s: no common %s", link.id, failed.Name)

		if link.src.converter || link.dst.converter {
			link.state = NegotiationStateFailed
			g.log.Warnf("link %s: conversion stage cannot bridge %s", link.id, failed.Name)

			return false, fmt.Errorf("%w: %s on link %s", ErrImpossibleConversion, failed.Name, link.id)
		}
		if g.onIncompatible == nil {
			link.state = NegotiationStateFailed
			g.log.Warnf("link %s: incompatible %s and no conversion hook", link.id, failed.Name)

			return false, &IncompatibleError{Link: link, Attribute: failed.Name, ConversionStage: neg.ConversionStage}
		}

		conv, err := g.onIncompatible(link, failed.Name, neg.ConversionStage)
		if err != nil {
			link.state = NegotiationStateFailed

			return false, err
		}
		if conv == nil {
			link.state = NegotiationStateFailed

			return false, &IncompatibleError{Link: link, Attribute: failed.Name, ConversionStage: neg.ConversionStage}
		}
		if err := g.insertStage(link, conv); err != nil {
			return false, err
		}
		g.log.Infof("link %s: spliced conversion stage %s", link.id, conv.name)

		return true, nil
	}

	return progress, nil
}

// insertStage splices conv into link: link is redirected to feed conv
// and a new link connects conv to the original consumer. The
// consumer's declared sets follow it onto the new link; conv then
// declares for both of its fresh endpoints.
func (g *Graph) insertStage(link *Link, conv *Stage) error {
	dst := link.dst
	conv.converter = true

	newLink := &Link{
		id:    fmt.Sprintf("%s->%s/%s", conv.name, dst.name, util.MathRandAlpha(4)),
		kind:  link.kind,
		src:   conv,
		dst:   dst,
		state: NegotiationStateNegotiating,
	}
	for i, in := range dst.inputs {
		if in == link {
			dst.inputs[i] = newLink

			break
		}
	}
	link.dst = conv
	conv.inputs = append(conv.inputs, link)
	conv.outputs = append(conv.outputs, newLink)
	g.links = append(g.links, newLink)

	link.dstCfg.moveTo(&newLink.dstCfg)

	if err := g.declareStage(conv); err != nil {
		return err
	}

	return g.validateLinks([]*Link{link, newLink})
}

// pickAll collapses every remaining multi-entry set to its first
// entry. Collapsing is done through the shared instances, so every
// endpoint owning a set observes the same final value.
func (g *Graph) pickAll() error {
	for _, link := range g.links {
		mergers := GetNegotiation(link.kind).Mergers
		for i := range mergers {
			merger := &mergers[i]
			if !merger.merged(&link.srcCfg, &link.dstCfg) {
				link.state = NegotiationStateFailed

				return fmt.Errorf("%w: %s on link %s", ErrUnresolvedFormat, merger.Name, link.id)
			}
			if merger.resolved(&link.srcCfg) {
				continue
			}
			if !merger.pick(&link.srcCfg) {
				link.state = NegotiationStateFailed

				return &InvalidConfigurationError{
					Err: fmt.Errorf("%w: %s on link %s", ErrUnresolvedFormat, merger.Name, link.id),
				}
			}
		}
		link.state = NegotiationStateResolved
		g.log.Tracef("link %s: resolved", link.id)
	}

	return nil
}
