// ABOUTME: Reads Rekordbox XML library exports
// ABOUTME: Prefers COLLECTION tracks and falls back to any TRACK element carrying track attributes

package formats

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"

	"golang.org/x/text/encoding/htmlindex"

	"harmonic-sorter/playlist"
)

// ParseRekordboxXML reads tracks from a Rekordbox DJ_PLAYLISTS document.
// Playlist references (<TRACK Key="1"/>) carry no name and are ignored.
func ParseRekordboxXML(r io.Reader) ([]playlist.Track, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	var (
		stack      []string
		collection []playlist.Track
		all        []playlist.Track
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to parse XML: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local == "TRACK" {
				if track, ok := xmlTrack(el.Attr); ok {
					all = append(all, track)

					if len(stack) > 0 && stack[len(stack)-1] == "COLLECTION" {
						collection = append(collection, track)
					}
				}
			}

			stack = append(stack, el.Name.Local)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if len(collection) > 0 {
		return collection, nil
	}

	return all, nil
}

// xmlTrack builds a track from TRACK attributes using the same rules as tabular rows
func xmlTrack(attrs []xml.Attr) (playlist.Track, bool) {
	title := attr(attrs, "Name", "TrackName", "Title")
	artist := attr(attrs, "Artist", "Creator")
	key := attr(attrs, "Tonality", "Key", "MusicalKey")

	if title == "" && artist == "" {
		return playlist.Track{}, false
	}

	if key == "" {
		return playlist.Track{}, false
	}

	track := newTrack(title, artist, key, attr(attrs, "AverageBpm", "BPM", "Tempo"))
	track.Album = attr(attrs, "Album")

	if location := attr(attrs, "Location"); location != "" {
		if u, err := url.Parse(location); err == nil && u.Path != "" {
			track.Path = u.Path
		}
	}

	return track, true
}

// attr returns the first non-empty attribute among names
func attr(attrs []xml.Attr, names ...string) string {
	for _, name := range names {
		for _, a := range attrs {
			if a.Name.Local == name && a.Value != "" {
				return a.Value
			}
		}
	}

	return ""
}

// charsetReader decodes documents declaring a non UTF-8 encoding
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported XML encoding %q: %w", label, err)
	}

	return enc.NewDecoder().Reader(input), nil
}
