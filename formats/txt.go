// ABOUTME: Reads tab-delimited TXT track lists such as Rekordbox playlist exports
// ABOUTME: Decodes UTF-16 (LE or BE) and UTF-8 input based on the byte order mark

package formats

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"harmonic-sorter/playlist"
)

// ParseTXT reads tracks from tab-separated text with a header row
func ParseTXT(r io.Reader) ([]playlist.Track, error) {
	// Rekordbox writes UTF-16LE with a BOM; anything without a BOM is read as UTF-8
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var records [][]string

	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		records = append(records, strings.Split(line, "\t"))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read TXT: %w", err)
	}

	return recordsToTracks(records), nil
}
