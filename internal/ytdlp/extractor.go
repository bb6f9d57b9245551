// Package ytdlp invokes the yt-dlp binary as the media-extraction backend.
//
// One Extract call fetches and transcodes everything behind one URL (a
// single track, or every entry of a set/album) into the configured
// directory and reports the files it wrote.
package ytdlp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/handiism/audiograb/internal/model"
)

// DefaultBinary is looked up in PATH when no binary is configured.
const DefaultBinary = "yt-dlp"

// ErrNoTracks is returned when yt-dlp exits cleanly without writing anything.
var ErrNoTracks = errors.New("yt-dlp reported no downloaded tracks")

// Runner executes a command and returns its stdout and stderr.
type Runner func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

// Extractor runs yt-dlp once per URL.
type Extractor struct {
	binaryPath string
	run        Runner
}

// New creates an Extractor for the given binary. An empty path means
// DefaultBinary resolved through PATH.
func New(binaryPath string) *Extractor {
	if binaryPath == "" {
		binaryPath = DefaultBinary
	}
	return &Extractor{binaryPath: binaryPath, run: execRunner}
}

// WithRunner returns a copy of e that executes commands through r.
func (e *Extractor) WithRunner(r Runner) *Extractor {
	cp := *e
	cp.run = r
	return &cp
}

// Binary returns the executable the extractor invokes.
func (e *Extractor) Binary() string {
	return e.binaryPath
}

// Extract downloads url with cfg and returns the tracks yt-dlp wrote.
//
// The call is synchronous and never retried. Errors carry yt-dlp's
// stderr output.
func (e *Extractor) Extract(ctx context.Context, url string, cfg model.BackendConfig) ([]*model.Track, error) {
	stdout, stderr, err := e.run(ctx, e.binaryPath, Args(url, cfg)...)
	if err != nil {
		msg := strings.TrimSpace(string(stderr))
		if msg == "" {
			return nil, fmt.Errorf("yt-dlp failed: %w", err)
		}
		return nil, fmt.Errorf("yt-dlp failed: %w: %s", err, lastLine(msg))
	}

	tracks, err := ParseOutput(url, stdout)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, ErrNoTracks
	}
	return tracks, nil
}

// Args builds the yt-dlp command line for one URL.
//
// The info JSON of every entry is printed after its file has been moved
// to its final location, one object per line.
func Args(url string, cfg model.BackendConfig) []string {
	args := []string{
		"--no-simulate",
		"--no-warnings",
		"--yes-playlist",
		"-f", "bestaudio/best",
		"-x",
	}
	if cfg.Codec != "" {
		args = append(args, "--audio-format", cfg.Codec)
	}
	if cfg.Quality != "" {
		args = append(args, "--audio-quality", cfg.Quality)
	}
	if cfg.FilenamePattern != "" {
		args = append(args, "-o", filepath.Join(cfg.OutputDir, cfg.FilenamePattern))
	}
	args = append(args, "--print", "after_move:%()j", "--", url)
	return args
}

// infoJSON is the subset of the yt-dlp info dict we read.
type infoJSON struct {
	Title     string  `json:"title"`
	Filepath  string  `json:"filepath"`
	Filename  string  `json:"_filename"`
	Thumbnail string  `json:"thumbnail"`
	Duration  float64 `json:"duration"`
}

// ParseOutput decodes yt-dlp's stdout into tracks. Lines that are not JSON
// objects are ignored.
func ParseOutput(sourceURL string, stdout []byte) ([]*model.Track, error) {
	var tracks []*model.Track

	sc := bufio.NewScanner(bytes.NewReader(stdout))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 || line[0] != '{' {
			continue
		}

		var info infoJSON
		if err := json.Unmarshal(line, &info); err != nil {
			return nil, fmt.Errorf("decode yt-dlp output: %w", err)
		}

		path := info.Filepath
		if path == "" {
			path = info.Filename
		}
		title := info.Title
		if title == "" {
			title = "Unknown"
		}
		tracks = append(tracks, &model.Track{
			SourceURL:    sourceURL,
			Title:        title,
			Path:         path,
			ThumbnailURL: info.Thumbnail,
			Duration:     info.Duration,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read yt-dlp output: %w", err)
	}

	return tracks, nil
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	err := cmd.Run()
	return out.Bytes(), stderr.Bytes(), err
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
