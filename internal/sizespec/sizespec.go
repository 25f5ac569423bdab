// Package sizespec parses human-readable size strings ("1G", "512K", "4096")
// into exact byte counts.
package sizespec

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidSizeSpec is returned for any size string that cannot be parsed.
var ErrInvalidSizeSpec = errors.New("invalid size")

// Unit multipliers, powers of 1024.
const (
	unitK uint64 = 1 << 10
	unitM uint64 = 1 << 20
	unitG uint64 = 1 << 30
)

const bitsPerByte = 8

// Parse converts a size string into a byte count.
//
// The string is a non-negative magnitude followed by an optional unit suffix
// K, M, or G (case-insensitive, powers of 1024). A trailing B or b after the
// unit letter is accepted and ignored ("1K", "1KB", "1Kb" are equivalent).
// Without a suffix the magnitude is a raw byte count.
//
// With bits set, suffixed magnitudes denote bits instead of bytes: the result
// is divided by 8, rounded down, with a minimum of 1 byte.
//
// The magnitude may be fractional ("1.5G"); the result truncates toward zero.
// Empty strings, negative or zero magnitudes, and unknown suffixes fail with
// [ErrInvalidSizeSpec].
func Parse(s string, bits bool) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty size string", ErrInvalidSizeSpec)
	}

	mag, mult, err := split(s)
	if err != nil {
		return 0, err
	}

	n, err := magnitude(mag, mult)
	if err != nil {
		return 0, err
	}

	if bits && mult > 1 {
		n /= bitsPerByte
		if n == 0 {
			n = 1
		}
	}

	if n == 0 {
		return 0, fmt.Errorf("%w: size must be > 0: %q", ErrInvalidSizeSpec, s)
	}

	return n, nil
}

// split separates the numeric magnitude from the unit suffix and resolves
// the suffix to its multiplier.
func split(s string) (string, uint64, error) {
	end := len(s)
	for end > 0 {
		c := s[end-1]
		if c >= '0' && c <= '9' || c == '.' {
			break
		}

		end--
	}

	mag := s[:end]
	suffix := strings.ToUpper(s[end:])

	// A lone trailing B is a byte marker, not a unit.
	suffix = strings.TrimSuffix(suffix, "B")

	var mult uint64

	switch suffix {
	case "":
		mult = 1
	case "K":
		mult = unitK
	case "M":
		mult = unitM
	case "G":
		mult = unitG
	default:
		return "", 0, fmt.Errorf("%w: unknown unit %q in %q", ErrInvalidSizeSpec, s[end:], s)
	}

	return mag, mult, nil
}

// magnitude parses mag and applies mult, truncating fractional results
// toward zero.
func magnitude(mag string, mult uint64) (uint64, error) {
	if mag == "" {
		return 0, fmt.Errorf("%w: missing magnitude", ErrInvalidSizeSpec)
	}

	// Fast path: integral magnitudes parse exactly.
	if n, err := strconv.ParseUint(mag, 10, 64); err == nil {
		if n != 0 && n > math.MaxUint64/mult {
			return 0, fmt.Errorf("%w: size overflows: %q", ErrInvalidSizeSpec, mag)
		}

		return n * mult, nil
	}

	f, err := strconv.ParseFloat(mag, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: bad magnitude %q", ErrInvalidSizeSpec, mag)
	}

	if f < 0 {
		return 0, fmt.Errorf("%w: size cannot be negative: %q", ErrInvalidSizeSpec, mag)
	}

	total := f * float64(mult)
	if total >= math.MaxUint64 {
		return 0, fmt.Errorf("%w: size overflows: %q", ErrInvalidSizeSpec, mag)
	}

	return uint64(total), nil
}
