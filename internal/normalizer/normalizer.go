// =============================================================================
// Visitor Export - Field Normalizer
// =============================================================================
//
// This package turns raw phone / id / plate text into the representation the
// destination import system requires. Every field is run through a small
// chain of steps, the same way for spreadsheet rows and for manual entries.
//
// FIELD RULES:
//   - Phone, ID: trim; empty stays empty; otherwise append the "#" marker.
//   - Plate:     trim; upper-case ASCII letters; drop every rune that is not
//                A-Z, 0-9 or a CJK ideograph (U+4E00..U+9FA5). No marker.
//
// All functions are total over string input and never fail.
//
// =============================================================================

package normalizer

import (
	"strings"
)

// Marker terminates phone, id and approver id values in the export file.
const Marker = "#"

// CJK ideograph range accepted in plates.
const (
	cjkFirst = '一'
	cjkLast  = '龥'
)

// =============================================================================
// STEP CHAINS
// =============================================================================

// Step is a single transformation applied to a field value.
type Step func(string) string

// Chain applies steps in order.
func Chain(steps ...Step) Step {
	return func(value string) string {
		for _, step := range steps {
			value = step(value)
		}
		return value
	}
}

var (
	markedChain = Chain(strings.TrimSpace, AppendMarker)
	plateChain  = Chain(strings.TrimSpace, upperASCII, keepPlateRunes)
)

// Phone normalizes a raw phone number.
func Phone(raw string) string {
	return markedChain(raw)
}

// ID normalizes a raw identity document number. Same rule as Phone.
func ID(raw string) string {
	return markedChain(raw)
}

// Plate normalizes a raw vehicle plate.
func Plate(raw string) string {
	return plateChain(raw)
}

// =============================================================================
// STEPS
// =============================================================================

// AppendMarker adds the "#" terminator to a non-empty value. The value is not
// inspected for an existing marker: callers normalize raw input exactly once.
func AppendMarker(value string) string {
	if value == "" {
		return ""
	}
	return value + Marker
}

func upperASCII(value string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r - 'a' + 'A'
		}
		return r
	}, value)
}

func keepPlateRunes(value string) string {
	return strings.Map(func(r rune) rune {
		if isPlateRune(r) {
			return r
		}
		return -1
	}, value)
}

func isPlateRune(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r >= cjkFirst && r <= cjkLast:
		return true
	}
	return false
}

// IsPlateClean reports whether value already satisfies the plate rule.
func IsPlateClean(value string) bool {
	for _, r := range value {
		if !isPlateRune(r) {
			return false
		}
	}
	return true
}
