// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package avgraph

import (
	"errors"
	"fmt"
)

// Types of reference errors
var (
	ErrNilSet          = errors.New("nil format set")
	ErrRefAlreadyBound = errors.New("slot already owns a set")
	ErrWildcardAppend  = errors.New("cannot append a layout to a wildcard set")
)

// Types of InvalidConfigurationErrors
var (
	ErrEmptyFormatList        = errors.New("empty format list")
	ErrDuplicateFormat        = errors.New("duplicated format")
	ErrRedundantChannelLayout = errors.New("duplicated or redundant channel layout")
	ErrInconsistentWildcards  = errors.New("inconsistent generic channel layout list")
	ErrUnresolvedFormat       = errors.New("no format could be resolved")
)

// Types of graph errors
var (
	ErrUnknownKind          = errors.New("unknown media kind")
	ErrNilStage             = errors.New("stage must not be nil")
	ErrImpossibleConversion = errors.New("impossible to convert between the formats")
)

// InvalidConfigurationError indicates a declared candidate set that can
// never negotiate: empty, duplicated or redundant entries, or an
// attribute no merge sequence could resolve. It aborts the pipeline
// build attempt it occurred in.
type InvalidConfigurationError struct {
	Err error
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *InvalidConfigurationError) Unwrap() error {
	return e.Err
}

// IncompatibleError indicates a link whose two sides share no usable
// representation for one attribute. It is not fatal: the caller may
// splice the named conversion stage into the link and negotiate again.
// Both candidate sets are left exactly as they were.
type IncompatibleError struct {
	Link            *Link
	Attribute       string
	ConversionStage string
}

func (e *IncompatibleError) Error() string {
	return fmt.Sprintf("no common %s on link %s, conversion stage %q needed",
		e.Attribute, e.Link.ID(), e.ConversionStage)
}
