// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package avgraph

import "fmt"

// checkScalar rejects empty and duplicated scalar lists. A nil set is
// acceptable here; unbound slots are the stage's own problem and are
// filled by the default declaration.
func checkScalar(name string, set *FormatSet, emptyAllowed bool) error {
	if set == nil {
		return nil
	}
	if len(set.formats) == 0 {
		if emptyAllowed {
			return nil
		}

		return &InvalidConfigurationError{Err: fmt.Errorf("%w: %s", ErrEmptyFormatList, name)}
	}
	for i := 0; i < len(set.formats); i++ {
		for j := i + 1; j < len(set.formats); j++ {
			if set.formats[i] == set.formats[j] {
				return &InvalidConfigurationError{Err: fmt.Errorf("%w: %s", ErrDuplicateFormat, name)}
			}
		}
	}

	return nil
}

// CheckPixelFormats validates a declared pixel format set: it must be
// non-empty and free of duplicates.
func CheckPixelFormats(set *FormatSet) error {
	return checkScalar("pixel format", set, false)
}

// CheckSampleFormats validates a declared sample format set: it must
// be non-empty and free of duplicates.
func CheckSampleFormats(set *FormatSet) error {
	return checkScalar("sample format", set, false)
}

// CheckSampleRates validates a declared sample rate set. An empty set
// is valid: it means any rate.
func CheckSampleRates(set *FormatSet) error {
	return checkScalar("sample rate", set, true)
}

// layoutsRedundant reports whether two entries make each other
// redundant: literally equal, or a known layout next to the bare count
// it already covers.
func layoutsRedundant(a, b ChannelLayout) bool {
	return a.Equal(b) ||
		(a.Known() && !b.Known() && a.Channels == b.Channels) ||
		(b.Known() && !a.Known() && b.Channels == a.Channels)
}

// CheckChannelLayouts validates a declared channel layout set: its
// wildcard flags must be consistent, it must be non-empty unless
// wildcarded, and no entry may be redundant with another.
func CheckChannelLayouts(set *ChannelLayoutSet) error {
	if set == nil {
		return nil
	}
	if set.allCounts && !set.allLayouts {
		return &InvalidConfigurationError{Err: ErrInconsistentWildcards}
	}
	if !set.allLayouts && len(set.layouts) == 0 {
		return &InvalidConfigurationError{Err: fmt.Errorf("%w: channel layout", ErrEmptyFormatList)}
	}
	for i := 0; i < len(set.layouts); i++ {
		for j := i + 1; j < len(set.layouts); j++ {
			if layoutsRedundant(set.layouts[i], set.layouts[j]) {
				return &InvalidConfigurationError{Err: ErrRedundantChannelLayout}
			}
		}
	}

	return nil
}
