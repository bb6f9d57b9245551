package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/audiograb/internal/model"
)

func writeTestMP3(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "song.mp3")
	require.NoError(t, os.WriteFile(path, []byte("not really audio frames"), 0644))
	return path
}

func TestTagger_SaveTags(t *testing.T) {
	track := &model.Track{
		Title:     "Fire on the Mountain",
		Path:      writeTestMP3(t),
		SourceURL: "https://archive.org/download/gd77/fire.mp3",
	}
	artwork := []byte{0xff, 0xd8, 0xff, 0xe0}

	require.NoError(t, NewTagger(nil).SaveTags(track, artwork))

	tag, err := id3v2.Open(track.Path, id3v2.Options{Parse: true})
	require.NoError(t, err)
	defer tag.Close()

	assert.Equal(t, "Fire on the Mountain", tag.Title())

	comments := tag.GetFrames(tag.CommonID("Comments"))
	require.Len(t, comments, 1)
	comment, ok := comments[0].(id3v2.CommentFrame)
	require.True(t, ok)
	assert.Equal(t, track.SourceURL, comment.Text)

	pictures := tag.GetFrames(tag.CommonID("Attached picture"))
	require.Len(t, pictures, 1)
	pic, ok := pictures[0].(id3v2.PictureFrame)
	require.True(t, ok)
	assert.Equal(t, artwork, pic.Picture)
}

func TestTagger_DoNotModify(t *testing.T) {
	track := &model.Track{Title: "x", Path: writeTestMP3(t), SourceURL: "u"}
	tagger := NewTagger(&TagConfig{ModifyTags: false, TrackTitle: TagModify, Comments: TagModify})

	require.NoError(t, tagger.SaveTags(track, nil))

	tag, err := id3v2.Open(track.Path, id3v2.Options{Parse: true})
	require.NoError(t, err)
	defer tag.Close()
	assert.Empty(t, tag.Title())
	assert.Empty(t, tag.GetFrames(tag.CommonID("Comments")))
}

func TestTagger_RejectsOtherContainers(t *testing.T) {
	track := &model.Track{Title: "x", Path: filepath.Join(t.TempDir(), "song.flac")}

	err := NewTagger(nil).SaveTags(track, nil)

	assert.ErrorIs(t, err, ErrNotMP3)
	assert.False(t, CanTag(track))
}
