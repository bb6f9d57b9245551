package model

import "path/filepath"

// Track is one media file written by the extraction backend.
type Track struct {
	// SourceURL is the URL the backend was invoked with.
	SourceURL string

	// Title is the media title reported by the backend.
	Title string

	// Path is the final location of the transcoded file.
	Path string

	// ThumbnailURL is the artwork URL reported by the backend, if any.
	ThumbnailURL string

	// Duration is the track length in seconds, 0 when unknown.
	Duration float64
}

// Ext returns the file extension of the track, including the dot.
func (t *Track) Ext() string {
	return filepath.Ext(t.Path)
}

// HasArtwork returns true if the backend reported a thumbnail for the track.
func (t *Track) HasArtwork() bool {
	return t.ThumbnailURL != ""
}
