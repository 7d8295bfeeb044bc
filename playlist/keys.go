// ABOUTME: Normalizes raw key strings from DJ software into canonical Camelot keys
// ABOUTME: Understands musical notation, enharmonics, long-form names, Open Key and leading zeros

package playlist

import "strings"

// keySpelling maps one accepted spelling to its Camelot code
type keySpelling struct {
	spelling string
	code     string
}

// keySpellings is ordered: the first entry wins on case-insensitive collisions
var keySpellings = []keySpelling{
	// Major keys (outer ring)
	{"B", "1B"}, {"F#", "2B"}, {"Gb", "2B"}, {"Db", "3B"}, {"C#", "3B"},
	{"Ab", "4B"}, {"Eb", "5B"}, {"Bb", "6B"}, {"F", "7B"}, {"C", "8B"},
	{"G", "9B"}, {"D", "10B"}, {"A", "11B"}, {"E", "12B"},

	// Minor keys (inner ring)
	{"Abm", "1A"}, {"G#m", "1A"}, {"Ebm", "2A"}, {"D#m", "2A"},
	{"Bbm", "3A"}, {"A#m", "3A"}, {"Fm", "4A"}, {"Cm", "5A"},
	{"Gm", "6A"}, {"Dm", "7A"}, {"Am", "8A"}, {"Em", "9A"},
	{"Bm", "10A"}, {"F#m", "11A"}, {"Gbm", "11A"}, {"C#m", "12A"}, {"Dbm", "12A"},

	// Long-form
	{"Bmaj", "1B"}, {"F#maj", "2B"}, {"Gbmaj", "2B"}, {"Dbmaj", "3B"},
	{"C#maj", "3B"}, {"Abmaj", "4B"}, {"Ebmaj", "5B"}, {"Bbmaj", "6B"},
	{"Fmaj", "7B"}, {"Cmaj", "8B"}, {"Gmaj", "9B"}, {"Dmaj", "10B"},
	{"Amaj", "11B"}, {"Emaj", "12B"},
	{"Abmin", "1A"}, {"G#min", "1A"}, {"Ebmin", "2A"}, {"D#min", "2A"},
	{"Bbmin", "3A"}, {"A#min", "3A"}, {"Fmin", "4A"}, {"Cmin", "5A"},
	{"Gmin", "6A"}, {"Dmin", "7A"}, {"Amin", "8A"}, {"Emin", "9A"},
	{"Bmin", "10A"}, {"F#min", "11A"}, {"Gbmin", "11A"}, {"C#min", "12A"},
	{"Dbmin", "12A"},

	// Open Key (d = major, m = minor)
	{"1d", "1B"}, {"2d", "2B"}, {"3d", "3B"}, {"4d", "4B"}, {"5d", "5B"},
	{"6d", "6B"}, {"7d", "7B"}, {"8d", "8B"}, {"9d", "9B"}, {"10d", "10B"},
	{"11d", "11B"}, {"12d", "12B"},
	{"1m", "1A"}, {"2m", "2A"}, {"3m", "3A"}, {"4m", "4A"}, {"5m", "5A"},
	{"6m", "6A"}, {"7m", "7A"}, {"8m", "8A"}, {"9m", "9A"}, {"10m", "10A"},
	{"11m", "11A"}, {"12m", "12A"},
}

// Lookup tables built once from keySpellings and never written afterwards
var (
	exactSpellings  map[string]CamelotKey
	foldedSpellings map[string]CamelotKey
)

// musicalNames is the display name for each canonical key
var musicalNames = map[CamelotKey]string{}

func init() {
	exactSpellings = make(map[string]CamelotKey, len(keySpellings))
	foldedSpellings = make(map[string]CamelotKey, len(keySpellings))

	for _, s := range keySpellings {
		k, err := ParseCamelotKey(s.code)
		if err != nil {
			panic("bad key table entry " + s.spelling + ": " + err.Error())
		}

		exactSpellings[s.spelling] = *k

		folded := strings.ToLower(s.spelling)
		if _, seen := foldedSpellings[folded]; !seen {
			foldedSpellings[folded] = *k
		}
	}

	for _, name := range []string{
		"Abm", "B", "Ebm", "F#", "Bbm", "Db", "Fm", "Ab", "Cm", "Eb", "Gm", "Bb",
		"Dm", "F", "Am", "C", "Em", "G", "Bm", "D", "F#m", "A", "C#m", "E",
	} {
		musicalNames[exactSpellings[name]] = name
	}
}

// NormalizeKey converts a raw key string into its canonical Camelot key.
// Accepts Camelot codes ("8A"), leading-zero codes ("08A"), musical notation
// ("Am", "F#", "Gbm"), long-form ("Cmaj", "Amin") and Open Key ("8m", "8d").
// Returns nil for anything it does not recognize.
func NormalizeKey(raw string) *CamelotKey {
	k := strings.TrimSpace(raw)
	if k == "" {
		return nil
	}

	if parsed, err := ParseCamelotKey(k); err == nil {
		return parsed
	}

	if known, ok := exactSpellings[k]; ok {
		return &known
	}

	// Some software zero-pads the position
	if strings.HasPrefix(k, "0") {
		if parsed, err := ParseCamelotKey(k[1:]); err == nil {
			return parsed
		}
	}

	if known, ok := foldedSpellings[strings.ToLower(k)]; ok {
		return &known
	}

	return nil
}

// MusicalKeyName returns the standard notation for a key, e.g. "Am" for 8A
func MusicalKeyName(k CamelotKey) string {
	return musicalNames[k]
}
