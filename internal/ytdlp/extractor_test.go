package ytdlp

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/audiograb/internal/model"
)

var testCfg = model.BackendConfig{
	OutputDir:       "/music",
	FilenamePattern: "%(title)s.%(ext)s",
	Codec:           "flac",
	Quality:         "0",
}

func TestArgs(t *testing.T) {
	args := Args("https://soundcloud.com/a/b", testCfg)

	assert.Equal(t, []string{
		"--no-simulate",
		"--no-warnings",
		"--yes-playlist",
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", "flac",
		"--audio-quality", "0",
		"-o", filepath.Join("/music", "%(title)s.%(ext)s"),
		"--print", "after_move:%()j",
		"--", "https://soundcloud.com/a/b",
	}, args)
}

func TestArgs_OmitsEmptyOptions(t *testing.T) {
	args := Args("https://x.bandcamp.com/track/y", model.BackendConfig{})

	assert.NotContains(t, args, "--audio-format")
	assert.NotContains(t, args, "--audio-quality")
	assert.NotContains(t, args, "-o")
	assert.Equal(t, "https://x.bandcamp.com/track/y", args[len(args)-1])
}

func TestParseOutput(t *testing.T) {
	stdout := []byte(`[download] noise that is not json
{"title": "Scarlet Begonias", "filepath": "/music/Scarlet Begonias.flac", "thumbnail": "https://img.example/1.webp", "duration": 612.5}

{"title": "", "_filename": "/music/NA.flac"}
`)

	tracks, err := ParseOutput("https://archive.org/details/gd77", stdout)

	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, &model.Track{
		SourceURL:    "https://archive.org/details/gd77",
		Title:        "Scarlet Begonias",
		Path:         "/music/Scarlet Begonias.flac",
		ThumbnailURL: "https://img.example/1.webp",
		Duration:     612.5,
	}, tracks[0])
	assert.Equal(t, "Unknown", tracks[1].Title)
	assert.Equal(t, "/music/NA.flac", tracks[1].Path)
}

func TestParseOutput_BadJSON(t *testing.T) {
	_, err := ParseOutput("u", []byte(`{"title": `))
	assert.Error(t, err)
}

func TestExtract(t *testing.T) {
	var gotName string
	var gotArgs []string
	e := New("/usr/local/bin/yt-dlp").WithRunner(func(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
		gotName = name
		gotArgs = args
		return []byte(`{"title":"t","filepath":"/music/t.flac"}` + "\n"), nil, nil
	})

	tracks, err := e.Extract(context.Background(), "https://soundcloud.com/a/t", testCfg)

	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "/usr/local/bin/yt-dlp", gotName)
	assert.Equal(t, Args("https://soundcloud.com/a/t", testCfg), gotArgs)
}

func TestExtract_CommandFailure(t *testing.T) {
	e := New("yt-dlp").WithRunner(func(context.Context, string, ...string) ([]byte, []byte, error) {
		return nil, []byte("WARNING: x\nERROR: Unsupported URL: https://example.com/a.mp3\n"), errors.New("exit status 1")
	})

	_, err := e.Extract(context.Background(), "https://example.com/a.mp3", testCfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 1")
	assert.Contains(t, err.Error(), "ERROR: Unsupported URL")
	assert.NotContains(t, err.Error(), "WARNING")
}

func TestExtract_NoTracks(t *testing.T) {
	e := New("yt-dlp").WithRunner(func(context.Context, string, ...string) ([]byte, []byte, error) {
		return []byte("\n"), nil, nil
	})

	_, err := e.Extract(context.Background(), "https://soundcloud.com/a", testCfg)

	assert.ErrorIs(t, err, ErrNoTracks)
}

func TestNew_DefaultBinary(t *testing.T) {
	assert.Equal(t, DefaultBinary, New("").Binary())
	assert.Equal(t, "/opt/bin/yt-dlp", New("/opt/bin/yt-dlp").Binary())
}
