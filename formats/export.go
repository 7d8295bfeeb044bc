// ABOUTME: Writes optimized playlists as Rekordbox XML or CSV
// ABOUTME: Rekordbox output holds a COLLECTION plus one playlist node referencing it in order

package formats

import (
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strconv"

	"harmonic-sorter/playlist"
)

// DefaultPlaylistName names the exported Rekordbox playlist node
const DefaultPlaylistName = "Harmonic Sorter Export"

type rekordboxDocument struct {
	XMLName    xml.Name            `xml:"DJ_PLAYLISTS"`
	Version    string              `xml:"Version,attr"`
	Product    rekordboxProduct    `xml:"PRODUCT"`
	Collection rekordboxCollection `xml:"COLLECTION"`
	Playlists  rekordboxPlaylists  `xml:"PLAYLISTS"`
}

type rekordboxProduct struct {
	Name    string `xml:"Name,attr"`
	Version string `xml:"Version,attr"`
	Company string `xml:"Company,attr"`
}

type rekordboxCollection struct {
	Entries int              `xml:"Entries,attr"`
	Tracks  []rekordboxTrack `xml:"TRACK"`
}

type rekordboxTrack struct {
	TrackID    int    `xml:"TrackID,attr"`
	Name       string `xml:"Name,attr"`
	Artist     string `xml:"Artist,attr"`
	Album      string `xml:"Album,attr,omitempty"`
	AverageBpm string `xml:"AverageBpm,attr"`
	Tonality   string `xml:"Tonality,attr"`
	Location   string `xml:"Location,attr,omitempty"`
}

type rekordboxPlaylists struct {
	Root rekordboxNode `xml:"NODE"`
}

type rekordboxNode struct {
	Type    int                `xml:"Type,attr"`
	Name    string             `xml:"Name,attr"`
	Count   int                `xml:"Count,attr,omitempty"`
	KeyType string             `xml:"KeyType,attr,omitempty"`
	Entries string             `xml:"Entries,attr,omitempty"`
	Nodes   []rekordboxNode    `xml:"NODE"`
	Tracks  []rekordboxReference `xml:"TRACK"`
}

type rekordboxReference struct {
	Key int `xml:"Key,attr"`
}

// WriteRekordboxXML writes tracks, in order, as a Rekordbox library with a single playlist
func WriteRekordboxXML(w io.Writer, tracks []playlist.Track, name string) error {
	if name == "" {
		name = DefaultPlaylistName
	}

	doc := rekordboxDocument{
		Version: "1.0.0",
		Product: rekordboxProduct{Name: "harmonic-sorter", Version: "1.0", Company: "harmonic-sorter"},
		Collection: rekordboxCollection{
			Entries: len(tracks),
			Tracks:  make([]rekordboxTrack, len(tracks)),
		},
	}

	playlistNode := rekordboxNode{
		Type:    1,
		Name:    name,
		KeyType: "0",
		Entries: strconv.Itoa(len(tracks)),
		Tracks:  make([]rekordboxReference, len(tracks)),
	}

	for i := range tracks {
		t := &tracks[i]
		id := i + 1

		doc.Collection.Tracks[i] = rekordboxTrack{
			TrackID:    id,
			Name:       t.Title,
			Artist:     t.Artist,
			Album:      t.Album,
			AverageBpm: strconv.FormatFloat(t.BPM, 'f', 2, 64),
			Tonality:   tonality(t),
			Location:   location(t.Path),
		}
		playlistNode.Tracks[i] = rekordboxReference{Key: id}
	}

	doc.Playlists.Root = rekordboxNode{Type: 0, Name: "ROOT", Count: 1, Nodes: []rekordboxNode{playlistNode}}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("failed to write XML header: %w", err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode Rekordbox XML: %w", err)
	}

	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("failed to write XML: %w", err)
	}

	return nil
}

// tonality prefers musical notation, which Rekordbox displays natively
func tonality(t *playlist.Track) string {
	if k := t.CanonicalKey(); k != nil {
		return playlist.MusicalKeyName(*k)
	}

	return t.Key
}

// location encodes a file path as a Rekordbox file URL
func location(path string) string {
	if path == "" {
		return ""
	}

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	u := url.URL{Scheme: "file", Host: "localhost", Path: filepath.ToSlash(path)}

	return u.String()
}

// csvHeader is the column layout of CSV exports
var csvHeader = []string{"#", "Title", "Artist", "Key", "Camelot Key", "BPM"}

// WriteCSV writes tracks, in order, with their raw and canonical keys
func WriteCSV(w io.Writer, tracks []playlist.Track) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range tracks {
		t := &tracks[i]

		camelot := ""
		if k := t.CanonicalKey(); k != nil {
			camelot = k.String()
		}

		bpm := ""
		if t.HasBPM() {
			bpm = strconv.FormatFloat(t.BPM, 'f', -1, 64)
		}

		row := []string{strconv.Itoa(i + 1), t.Title, t.Artist, t.Key, camelot, bpm}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i+1, err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	return nil
}
