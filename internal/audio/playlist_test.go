package audio

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/handiism/audiograb/internal/model"
)

const testDir = "/music"

func TestPlaylistCreator_M3U(t *testing.T) {
	creator := NewPlaylistCreator(model.PlaylistFormatM3U, false)

	content := creator.CreatePlaylist(testDir, "batch", createTestTracks())

	assert.Equal(t, "track1.mp3\n"+filepath.Join("live", "track2.flac")+"\n", content)
}

func TestPlaylistCreator_M3UExtended(t *testing.T) {
	creator := NewPlaylistCreator(model.PlaylistFormatM3U, true)

	content := creator.CreatePlaylist(testDir, "batch", createTestTracks())

	assert.True(t, strings.HasPrefix(content, "#EXTM3U\n"))
	assert.Contains(t, content, "#EXTINF:180,track1\n")
	assert.Contains(t, content, "#EXTINF:-1,track2\n")
}

func TestPlaylistCreator_PLS(t *testing.T) {
	creator := NewPlaylistCreator(model.PlaylistFormatPLS, false)

	content := creator.CreatePlaylist(testDir, "batch", createTestTracks())

	assert.True(t, strings.HasPrefix(content, "[playlist]"))
	assert.Contains(t, content, "File1=track1.mp3")
	assert.Contains(t, content, "Title2=track2")
	assert.Contains(t, content, "NumberOfEntries=2")
}

func TestPlaylistCreator_WPL(t *testing.T) {
	creator := NewPlaylistCreator(model.PlaylistFormatWPL, false)

	content := creator.CreatePlaylist(testDir, "batch", createTestTracks())

	assert.Contains(t, content, "<?wpl")
	assert.Contains(t, content, "<smil>")
	assert.Contains(t, content, "<title>batch</title>")
	assert.Contains(t, content, `<media src="track1.mp3"/>`)
}

func TestPlaylistCreator_ZPL(t *testing.T) {
	creator := NewPlaylistCreator(model.PlaylistFormatZPL, false)

	content := creator.CreatePlaylist(testDir, "batch", createTestTracks())

	assert.Contains(t, content, "<?zpl")
	assert.Contains(t, content, `<meta name="ItemCount" content="2"/>`)
	assert.Contains(t, content, `<media src="track1.mp3" trackTitle="track1" duration="180000"/>`)
	assert.Contains(t, content, `trackTitle="track2"/>`)
}

func TestPlaylistCreator_DurationsAgreeAcrossFormats(t *testing.T) {
	tracks := []*model.Track{
		{Title: "long", Path: "/music/long.mp3", Duration: 59.99},
		{Title: "unknown", Path: "/music/unknown.mp3"},
	}

	m3u := NewPlaylistCreator(model.PlaylistFormatM3U, true).CreatePlaylist(testDir, "x", tracks)
	pls := NewPlaylistCreator(model.PlaylistFormatPLS, false).CreatePlaylist(testDir, "x", tracks)
	zpl := NewPlaylistCreator(model.PlaylistFormatZPL, false).CreatePlaylist(testDir, "x", tracks)

	assert.Contains(t, m3u, "#EXTINF:59,long\n")
	assert.Contains(t, pls, "Length1=59\n")
	assert.Contains(t, zpl, `trackTitle="long" duration="59000"/>`)

	assert.Contains(t, m3u, "#EXTINF:-1,unknown\n")
	assert.Contains(t, pls, "Length2=-1\n")
	assert.Contains(t, zpl, `trackTitle="unknown"/>`)
	assert.NotContains(t, zpl, `duration="0"`)
}

func TestPlaylistCreator_XMLEscape(t *testing.T) {
	tracks := []*model.Track{{Title: `Track & "Quote"`, Path: "/music/a <b>.mp3"}}
	creator := NewPlaylistCreator(model.PlaylistFormatWPL, false)

	content := creator.CreatePlaylist(testDir, "Mix <Special>", tracks)

	assert.Contains(t, content, "Mix &lt;Special&gt;")
	assert.Contains(t, content, "a &lt;b&gt;.mp3")
	assert.NotContains(t, content, "<Special>")
}

func TestRelativePath(t *testing.T) {
	tests := []struct {
		name string
		dir  string
		path string
		want string
	}{
		{"same dir", "/music", "/music/a.flac", "a.flac"},
		{"nested", "/music", "/music/x/a.flac", filepath.Join("x", "a.flac")},
		{"outside", "/music", "/other/a.flac", "/other/a.flac"},
		{"no dir", "", "/other/a.flac", "a.flac"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relativePath(tt.dir, tt.path))
		})
	}
}

func createTestTracks() []*model.Track {
	return []*model.Track{
		{Title: "track1", Path: "/music/track1.mp3", Duration: 180.4, SourceURL: "http://example.com/1.mp3"},
		{Title: "track2", Path: "/music/live/track2.flac", SourceURL: "https://soundcloud.com/a/2"},
	}
}
