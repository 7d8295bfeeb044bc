// ABOUTME: Tests for key normalization across notations used by DJ software
// ABOUTME: Covers Camelot, musical, long-form, Open Key, leading zeros and rejected inputs

package playlist

import "testing"

// TestNormalizeKey checks accepted spellings map to the right canonical key
func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"8A", "8A"},
		{"12B", "12B"},
		{"  8A ", "8A"},
		{"Am", "8A"},
		{"C", "8B"},
		{"F#", "2B"},
		{"Gb", "2B"},
		{"F#m", "11A"},
		{"Gbm", "11A"},
		{"Abm", "1A"},
		{"G#m", "1A"},
		{"Cmaj", "8B"},
		{"Amin", "8A"},
		{"8m", "8A"},
		{"8d", "8B"},
		{"12m", "12A"},
		{"08A", "8A"},
		{"01B", "1B"},
		{"am", "8A"},
		{"AM", "8A"},
		{"f#M", "11A"},
		{"cMAJ", "8B"},
		{"8M", "8A"},
	}

	for _, tt := range tests {
		got := NormalizeKey(tt.raw)
		if got == nil {
			t.Errorf("NormalizeKey(%q) = nil, want %s", tt.raw, tt.want)
			continue
		}

		if got.String() != tt.want {
			t.Errorf("NormalizeKey(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

// TestNormalizeKeyRejects checks unrecognized inputs yield nil
func TestNormalizeKeyRejects(t *testing.T) {
	for _, raw := range []string{"", "   ", "13A", "0B", "00A", "XYZ", "H", "8a", "Cb major", "8C"} {
		if got := NormalizeKey(raw); got != nil {
			t.Errorf("NormalizeKey(%q) = %s, want nil", raw, got)
		}
	}
}

// TestNormalizeKeyIdempotent checks canonical output normalizes to itself
func TestNormalizeKeyIdempotent(t *testing.T) {
	for _, s := range keySpellings {
		k := NormalizeKey(s.spelling)
		if k == nil {
			t.Errorf("NormalizeKey(%q) = nil", s.spelling)
			continue
		}

		again := NormalizeKey(k.String())
		if again == nil || *again != *k {
			t.Errorf("NormalizeKey(%q) = %v, not a fixed point of %v", k.String(), again, k)
		}
	}
}

// TestMusicalKeyName checks display names for every canonical key
func TestMusicalKeyName(t *testing.T) {
	for _, k := range AllKeys() {
		name := MusicalKeyName(k)
		if name == "" {
			t.Errorf("MusicalKeyName(%s) is empty", k)
			continue
		}

		if back := NormalizeKey(name); back == nil || *back != k {
			t.Errorf("NormalizeKey(MusicalKeyName(%s)) = %v", k, back)
		}
	}

	if got := MusicalKeyName(CamelotKey{Number: 8, Mode: Minor}); got != "Am" {
		t.Errorf("MusicalKeyName(8A) = %s, want Am", got)
	}
}
