package audio

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/handiism/audiograb/internal/model"
)

// TagEditAction defines how to handle individual ID3 tags.
type TagEditAction int

const (
	// TagEmpty clears the tag value.
	TagEmpty TagEditAction = iota

	// TagModify updates the tag with the value reported for the track.
	TagModify

	// TagDoNotModify leaves the existing tag value unchanged.
	TagDoNotModify
)

// TagConfig holds tagging configuration for each ID3 field we write.
type TagConfig struct {
	// ModifyTags is a master switch. If false, no text frames are touched.
	ModifyTags bool

	// TrackTitle controls the TIT2 (Title) frame.
	TrackTitle TagEditAction

	// Comments controls the COMM frame. When modified it holds the URL
	// the track was downloaded from.
	Comments TagEditAction
}

// DefaultTagConfig returns a config that writes the title and the source URL.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		ModifyTags: true,
		TrackTitle: TagModify,
		Comments:   TagModify,
	}
}

// Tagger writes ID3 tags to MP3 files produced by the backend.
//
// Other containers (flac, m4a, opus...) are tagged by the backend's
// post-processor already and are rejected with ErrNotMP3.
type Tagger struct {
	config *TagConfig
}

// ErrNotMP3 is returned by SaveTags for tracks that are not .mp3 files.
var ErrNotMP3 = errors.New("not an mp3 file")

// NewTagger creates a new Tagger. A nil config means DefaultTagConfig().
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// CanTag reports whether track is a file SaveTags accepts.
func CanTag(track *model.Track) bool {
	return track != nil && track.Ext() == ".mp3"
}

// SaveTags writes ID3 frames to the track's file and embeds artwork when
// it is non-nil.
func (t *Tagger) SaveTags(track *model.Track, artwork []byte) error {
	if !CanTag(track) {
		return fmt.Errorf("tag %s: %w", track.Path, ErrNotMP3)
	}

	tag, err := id3v2.Open(track.Path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open tags of %s: %w", track.Path, err)
	}
	defer tag.Close()

	if t.config.ModifyTags {
		t.updateStringTags(tag, track)
	}

	if artwork != nil {
		t.updateArtwork(tag, artwork)
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save tags of %s: %w", track.Path, err)
	}
	return nil
}

func (t *Tagger) updateStringTags(tag *id3v2.Tag, track *model.Track) {
	// Track Title (TIT2)
	switch t.config.TrackTitle {
	case TagEmpty:
		tag.SetTitle("")
	case TagModify:
		tag.SetTitle(track.Title)
	}

	// Comments (COMM)
	switch t.config.Comments {
	case TagEmpty:
		tag.DeleteFrames(tag.CommonID("Comments"))
	case TagModify:
		tag.DeleteFrames(tag.CommonID("Comments"))
		if track.SourceURL != "" {
			tag.AddCommentFrame(id3v2.CommentFrame{
				Encoding:    id3v2.EncodingUTF8,
				Language:    "eng",
				Description: "Source",
				Text:        track.SourceURL,
			})
		}
	}
}

// updateArtwork replaces any cover pictures with artwork.
func (t *Tagger) updateArtwork(tag *id3v2.Tag, artwork []byte) {
	tag.DeleteFrames(tag.CommonID("Attached picture"))

	mime := http.DetectContentType(artwork)
	if !strings.HasPrefix(mime, "image/") {
		mime = "image/jpeg"
	}
	tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    mime,
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     artwork,
	})
}
