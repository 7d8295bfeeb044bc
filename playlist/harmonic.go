// ABOUTME: Provides Camelot wheel harmonic mixing utilities
// ABOUTME: Parses canonical keys and computes circular harmonic distance between them

package playlist

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
)

// IncomparableDistance is returned when either key is unknown.
// It is larger than any real distance on the wheel (max 7).
const IncomparableDistance = 100

// wheelSize is the number of positions on the Camelot wheel
const wheelSize = 12

// Mode is the ring of the Camelot wheel a key sits on
type Mode byte

const (
	Minor Mode = 'A' // inner ring
	Major Mode = 'B' // outer ring
)

// String returns the Camelot letter for the mode
func (m Mode) String() string {
	return string(rune(m))
}

// CamelotKey represents a canonical position on the Camelot wheel
type CamelotKey struct {
	Number int  // 1-12
	Mode   Mode // Minor ("A") or Major ("B")
}

// AllKeys returns the 24 canonical keys in wheel order (1A, 1B, 2A, ... 12B)
func AllKeys() []CamelotKey {
	keys := make([]CamelotKey, 0, 2*wheelSize)
	for n := 1; n <= wheelSize; n++ {
		keys = append(keys, CamelotKey{Number: n, Mode: Minor}, CamelotKey{Number: n, Mode: Major})
	}

	return keys
}

// ParseCamelotKey parses a strict Camelot code like "8A" or "12B".
// Lowercase letters and out-of-range positions are rejected; use NormalizeKey
// for musical notation and other spellings.
func ParseCamelotKey(key string) (*CamelotKey, error) {
	if len(key) < 2 || len(key) > 3 {
		return nil, fmt.Errorf("invalid key format: %q", key)
	}

	mode := Mode(key[len(key)-1])
	if mode != Minor && mode != Major {
		return nil, fmt.Errorf("invalid key mode: %q", key)
	}

	digits := key[:len(key)-1]
	if digits[0] < '1' || digits[0] > '9' {
		return nil, fmt.Errorf("invalid key number: %q", digits)
	}

	number, err := strconv.Atoi(digits)
	if err != nil || number < 1 || number > wheelSize {
		return nil, fmt.Errorf("invalid key number: %q", digits)
	}

	return &CamelotKey{Number: number, Mode: mode}, nil
}

// String returns the canonical form without leading zero, e.g. "8A"
func (k CamelotKey) String() string {
	return strconv.Itoa(k.Number) + k.Mode.String()
}

// MarshalText encodes the key as its canonical string
func (k CamelotKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText accepts any spelling NormalizeKey understands
func (k *CamelotKey) UnmarshalText(text []byte) error {
	parsed := NormalizeKey(string(text))
	if parsed == nil {
		return fmt.Errorf("unrecognized key: %q", string(text))
	}

	*k = *parsed

	return nil
}

// Distance calculates the harmonic distance between two canonical keys.
//
//	0 = same key
//	1 = relative major/minor, or one step around the same ring
//	n = n steps around the same ring
//	n+1 = n steps around and a ring change
//
// Returns IncomparableDistance if either key is nil.
func Distance(k1, k2 *CamelotKey) int {
	if k1 == nil || k2 == nil {
		return IncomparableDistance
	}

	diff := abs(k1.Number - k2.Number)
	circular := min(diff, wheelSize-diff)

	switch {
	case circular == 0 && k1.Mode != k2.Mode:
		return 1
	case k1.Mode == k2.Mode:
		return circular
	default:
		return circular + 1
	}
}

// HarmonicDistance normalizes two raw key strings and returns their distance.
// Unrecognized keys yield IncomparableDistance.
func HarmonicDistance(key1, key2 string) int {
	return Distance(NormalizeKey(key1), NormalizeKey(key2))
}

// IsCompatible returns true if two raw keys mix perfectly (distance <= 1)
func IsCompatible(key1, key2 string) bool {
	return HarmonicDistance(key1, key2) <= 1
}

// CompatibleKeys returns every key within distance 2 of k, closest first.
// Keys at equal distance keep wheel order.
func CompatibleKeys(k CamelotKey) []CamelotKey {
	var compatible []CamelotKey

	for _, other := range AllKeys() {
		if Distance(&k, &other) <= 2 {
			compatible = append(compatible, other)
		}
	}

	slices.SortStableFunc(compatible, func(a, b CamelotKey) int {
		return cmp.Compare(Distance(&k, &a), Distance(&k, &b))
	})

	return compatible
}

func abs(x int) int {
	if x < 0 {
		return -x
	}

	return x
}
