// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package avgraph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphNegotiateVideoChain(t *testing.T) {
	graph := NewGraph(nil)
	src := graph.NewStage("src", func(s *Stage) error {
		return s.SetCommonFormats(NewPixelFormatSet(PixelFormatYUV422P, PixelFormatYUV420P), MediaKindVideo)
	})
	flt := graph.NewStage("flt", nil)
	sink := graph.NewStage("sink", nil)

	in, err := graph.Connect(src, flt, MediaKindVideo)
	require.NoError(t, err)
	out, err := graph.Connect(flt, sink, MediaKindVideo)
	require.NoError(t, err)

	require.NoError(t, graph.Negotiate())
	defer graph.Close()

	for _, link := range []*Link{in, out} {
		assert.Equal(t, NegotiationStateResolved, link.State())
		format, ok := link.NegotiatedPixelFormat()
		assert.True(t, ok)
		assert.Equal(t, PixelFormatYUV422P, format)
	}

	// The default declaration is shared across the filter's endpoint
	// slots, so both links end up resolving through one instance.
	assert.Same(t, in.SrcConfig().Formats.Get(), out.DstConfig().Formats.Get())
}

func TestGraphNegotiateAudioChain(t *testing.T) {
	graph := NewGraph(nil)
	src := graph.NewStage("src", func(s *Stage) error {
		if err := s.SetCommonFormats(NewSampleFormatSet(SampleFormatS16, SampleFormatFLT), MediaKindAudio); err != nil {
			return err
		}
		if err := s.SetCommonSampleRates(NewSampleRateSet(48000, 44100)); err != nil {
			return err
		}

		return s.SetCommonChannelLayouts(NewChannelLayoutSet(ChannelLayoutStereo, ChannelLayout5Point1))
	})
	flt := graph.NewStage("flt", nil)
	sink := graph.NewStage("sink", func(s *Stage) error {
		if err := s.SetCommonFormats(NewSampleFormatSet(SampleFormatS16), MediaKindAudio); err != nil {
			return err
		}
		if err := s.SetCommonSampleRates(NewSampleRateSet(48000)); err != nil {
			return err
		}

		return s.SetCommonChannelLayouts(NewChannelLayoutSet(ChannelLayoutStereo))
	})

	_, err := graph.Connect(src, flt, MediaKindAudio)
	require.NoError(t, err)
	out, err := graph.Connect(flt, sink, MediaKindAudio)
	require.NoError(t, err)

	require.NoError(t, graph.Negotiate())
	defer graph.Close()

	format, ok := out.NegotiatedSampleFormat()
	assert.True(t, ok)
	assert.Equal(t, SampleFormatS16, format)

	rate, ok := out.NegotiatedSampleRate()
	assert.True(t, ok)
	assert.Equal(t, 48000, rate)

	layout, ok := out.NegotiatedChannelLayout()
	assert.True(t, ok)
	assert.True(t, ChannelLayoutStereo.Equal(layout))
}

func TestGraphNegotiateIncompatibleWithoutHook(t *testing.T) {
	graph := NewGraph(nil)
	src := graph.NewStage("src", func(s *Stage) error {
		return s.SetCommonFormats(NewPixelFormatSet(PixelFormatYUV420P), MediaKindVideo)
	})
	sink := graph.NewStage("sink", func(s *Stage) error {
		return s.SetCommonFormats(NewPixelFormatSet(PixelFormatRGB24), MediaKindVideo)
	})

	link, err := graph.Connect(src, sink, MediaKindVideo)
	require.NoError(t, err)

	err = graph.Negotiate()
	defer graph.Close()

	var incompatibleErr *IncompatibleError
	require.ErrorAs(t, err, &incompatibleErr)
	assert.Same(t, link, incompatibleErr.Link)
	assert.Equal(t, "pixel format", incompatibleErr.Attribute)
	assert.Equal(t, "scale", incompatibleErr.ConversionStage)
	assert.Equal(t, NegotiationStateFailed, link.State())

	// The failed probe must not have touched either side.
	assert.Equal(t, []int64{int64(PixelFormatYUV420P)}, link.SrcConfig().Formats.Get().Formats())
	assert.Equal(t, []int64{int64(PixelFormatRGB24)}, link.DstConfig().Formats.Get().Formats())
}

func TestGraphNegotiateWithConversionHook(t *testing.T) {
	graph := NewGraph(nil)
	src := graph.NewStage("src", func(s *Stage) error {
		return s.SetCommonFormats(NewPixelFormatSet(PixelFormatYUV420P), MediaKindVideo)
	})
	sink := graph.NewStage("sink", func(s *Stage) error {
		return s.SetCommonFormats(NewPixelFormatSet(PixelFormatRGB24), MediaKindVideo)
	})

	_, err := graph.Connect(src, sink, MediaKindVideo)
	require.NoError(t, err)

	var hookAttribute, hookStage string
	graph.OnIncompatible(func(_ *Link, attribute, conversionStage string) (*Stage, error) {
		hookAttribute, hookStage = attribute, conversionStage

		return graph.NewStage("scale0", nil), nil
	})

	require.NoError(t, graph.Negotiate())
	defer graph.Close()

	assert.Equal(t, "pixel format", hookAttribute)
	assert.Equal(t, "scale", hookStage)

	links := graph.Links()
	require.Len(t, links, 2)

	format, ok := links[0].NegotiatedPixelFormat()
	assert.True(t, ok)
	assert.Equal(t, PixelFormatYUV420P, format)
	assert.Equal(t, "scale0", links[0].Dst().Name())

	format, ok = links[1].NegotiatedPixelFormat()
	assert.True(t, ok)
	assert.Equal(t, PixelFormatRGB24, format)
	assert.Equal(t, "scale0", links[1].Src().Name())

	for _, link := range links {
		assert.Equal(t, NegotiationStateResolved, link.State())
	}
}

func TestGraphNegotiateImpossibleConversion(t *testing.T) {
	graph := NewGraph(nil)
	src := graph.NewStage("src", func(s *Stage) error {
		return s.SetCommonFormats(NewPixelFormatSet(PixelFormatYUV420P), MediaKindVideo)
	})
	sink := graph.NewStage("sink", func(s *Stage) error {
		return s.SetCommonFormats(NewPixelFormatSet(PixelFormatRGB24), MediaKindVideo)
	})

	_, err := graph.Connect(src, sink, MediaKindVideo)
	require.NoError(t, err)

	// The spliced stage cannot bridge the link either; that must be a
	// hard failure instead of an endless chain of conversion stages.
	graph.OnIncompatible(func(_ *Link, _, _ string) (*Stage, error) {
		return graph.NewStage("scale0", func(s *Stage) error {
			return s.SetCommonFormats(NewPixelFormatSet(PixelFormatGray16), MediaKindVideo)
		}), nil
	})

	err = graph.Negotiate()
	defer graph.Close()
	assert.ErrorIs(t, err, ErrImpossibleConversion)
}

func TestGraphNegotiateHookError(t *testing.T) {
	graph := NewGraph(nil)
	src := graph.NewStage("src", func(s *Stage) error {
		return s.SetCommonFormats(NewPixelFormatSet(PixelFormatYUV420P), MediaKindVideo)
	})
	sink := graph.NewStage("sink", func(s *Stage) error {
		return s.SetCommonFormats(NewPixelFormatSet(PixelFormatRGB24), MediaKindVideo)
	})

	link, err := graph.Connect(src, sink, MediaKindVideo)
	require.NoError(t, err)

	hookErr := errors.New("no converter available")
	graph.OnIncompatible(func(_ *Link, _, _ string) (*Stage, error) {
		return nil, hookErr
	})

	err = graph.Negotiate()
	defer graph.Close()
	assert.ErrorIs(t, err, hookErr)
	assert.Equal(t, NegotiationStateFailed, link.State())
}

func TestGraphNegotiateUnresolvedSampleRate(t *testing.T) {
	graph := NewGraph(nil)
	src := graph.NewStage("src", func(s *Stage) error {
		return s.SetCommonChannelLayouts(NewChannelLayoutSet(ChannelLayoutStereo))
	})
	sink := graph.NewStage("sink", nil)

	_, err := graph.Connect(src, sink, MediaKindAudio)
	require.NoError(t, err)

	// Neither side constrains the sample rate, so nothing concrete can
	// be picked for it.
	err = graph.Negotiate()
	defer graph.Close()

	assert.ErrorIs(t, err, ErrUnresolvedFormat)

	var invalidErr *InvalidConfigurationError
	assert.ErrorAs(t, err, &invalidErr)
}

func TestGraphNegotiateDeclarationError(t *testing.T) {
	graph := NewGraph(nil)
	src := graph.NewStage("src", func(s *Stage) error {
		return s.SetCommonFormats(NewPixelFormatSet(), MediaKindVideo)
	})
	sink := graph.NewStage("sink", nil)

	_, err := graph.Connect(src, sink, MediaKindVideo)
	require.NoError(t, err)

	err = graph.Negotiate()
	defer graph.Close()
	assert.ErrorIs(t, err, ErrEmptyFormatList)
}

func TestGraphConnectErrors(t *testing.T) {
	graph := NewGraph(nil)
	src := graph.NewStage("src", nil)
	sink := graph.NewStage("sink", nil)

	_, err := graph.Connect(nil, sink, MediaKindVideo)
	assert.ErrorIs(t, err, ErrNilStage)

	_, err = graph.Connect(src, sink, MediaKind(0))
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestStageSetCommonFormatsSharing(t *testing.T) {
	graph := NewGraph(nil)
	src := graph.NewStage("src", nil)
	sinkA := graph.NewStage("sinkA", nil)
	sinkB := graph.NewStage("sinkB", nil)

	linkA, err := graph.Connect(src, sinkA, MediaKindVideo)
	require.NoError(t, err)
	linkB, err := graph.Connect(src, sinkB, MediaKindVideo)
	require.NoError(t, err)

	set := NewPixelFormatSet(PixelFormatYUV420P, PixelFormatRGB24)
	require.NoError(t, src.SetCommonFormats(set, MediaKindVideo))

	assert.Equal(t, 2, set.Refcount())
	assert.Same(t, set, linkA.SrcConfig().Formats.Get())
	assert.Same(t, set, linkB.SrcConfig().Formats.Get())

	// Slots already owning a set are skipped, so a second broadcast
	// touches nothing.
	other := NewPixelFormatSet(PixelFormatGray8)
	require.NoError(t, src.SetCommonFormats(other, MediaKindVideo))
	assert.Equal(t, 0, other.Refcount())
	assert.Same(t, set, linkA.SrcConfig().Formats.Get())

	graph.Close()
	assert.Equal(t, 0, set.Refcount())
	assert.Nil(t, linkA.SrcConfig().Formats.Get())
}

func TestNegotiationStateString(t *testing.T) {
	assert.Equal(t, "unresolved", NegotiationStateUnresolved.String())
	assert.Equal(t, "negotiating", NegotiationStateNegotiating.String())
	assert.Equal(t, "resolved", NegotiationStateResolved.String())
	assert.Equal(t, "failed", NegotiationStateFailed.String())
	assert.Equal(t, "unknown", NegotiationState(0).String())
}
