// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package avgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSetRefLifecycle(t *testing.T) {
	set := NewPixelFormatSet(PixelFormatYUV420P, PixelFormatGray8)
	var a, b FormatSetRef

	assert.NoError(t, set.Ref(&a))
	assert.NoError(t, set.Ref(&b))
	assert.Equal(t, 2, set.Refcount())
	assert.Same(t, set, a.Get())
	assert.Same(t, set, b.Get())

	// A bound slot must be unrefed before it can own another set.
	other := NewPixelFormatSet(PixelFormatRGB24)
	assert.ErrorIs(t, other.Ref(&a), ErrRefAlreadyBound)
	assert.Equal(t, 0, other.Refcount())

	a.Unref()
	assert.Nil(t, a.Get())
	assert.Equal(t, 1, set.Refcount())

	// Releasing the last owner releases the entries as well.
	b.Unref()
	assert.Nil(t, b.Get())
	assert.Equal(t, 0, set.Refcount())
	assert.Nil(t, set.Formats())
}

func TestFormatSetRefNil(t *testing.T) {
	var ref FormatSetRef

	ref.Unref()
	assert.Nil(t, ref.Get())

	var nilSet *FormatSet
	assert.ErrorIs(t, nilSet.Ref(&ref), ErrNilSet)
}

func TestFormatSetRefMoveTo(t *testing.T) {
	set := NewSampleRateSet(44100, 48000)
	var a, b FormatSetRef
	require.NoError(t, set.Ref(&a))

	a.MoveTo(&b)
	assert.Nil(t, a.Get())
	assert.Same(t, set, b.Get())
	assert.Equal(t, 1, set.Refcount())

	// Moving an unbound slot is a no-op.
	a.MoveTo(&b)
	assert.Same(t, set, b.Get())
	assert.Equal(t, 1, set.Refcount())
}

func TestFormatSetConstructors(t *testing.T) {
	assert.Equal(t, []int64{int64(PixelFormatYUV420P)}, NewPixelFormatSet(PixelFormatYUV420P).Formats())
	assert.True(t, NewSampleFormatSet(SampleFormatS16).Resolved())
	assert.False(t, NewSampleFormatSet(SampleFormatS16, SampleFormatFLTP).Resolved())
	assert.Empty(t, AllSampleRates().Formats())
	assert.Len(t, AllPixelFormats().Formats(), 11)
	assert.Len(t, AllSampleFormats().Formats(), 10)

	planar := PlanarSampleFormats()
	assert.Len(t, planar.Formats(), 5)
	for _, f := range planar.Formats() {
		assert.True(t, SampleFormat(f).IsPlanar())
	}

	set := NewSampleRateSet()
	set.Add(8000)
	assert.Equal(t, []int64{8000}, set.Formats())
}

func TestBroadcastFormatsRollback(t *testing.T) {
	set := NewSampleFormatSet(SampleFormatFLTP)
	var a, b FormatSetRef

	// Registering the same slot twice fails; everything registered
	// before the failure must be rolled back.
	err := broadcastFormats(set, []*FormatSetRef{&a, &b, &a})
	assert.ErrorIs(t, err, ErrRefAlreadyBound)
	assert.Equal(t, 0, set.Refcount())
	assert.Nil(t, a.Get())
	assert.Nil(t, b.Get())
}
