package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	ioutils "github.com/handiism/audiograb/internal/io"
	"github.com/handiism/audiograb/internal/model"
)

// Environment variables read by ApplyEnv.
const (
	EnvOutputDir = "AUDIOGRAB_OUTPUT_DIR"
	EnvCodec     = "AUDIOGRAB_CODEC"
	EnvQuality   = "AUDIOGRAB_QUALITY"
	EnvYtDlp     = "AUDIOGRAB_YTDLP"
	EnvUserAgent = "AUDIOGRAB_USER_AGENT"
	EnvTimeout   = "AUDIOGRAB_HTTP_TIMEOUT"
)

// Settings holds all configuration options.
type Settings struct {
	// Output settings
	OutputDir      string `json:"output_dir"`
	FileNameFormat string `json:"file_name_format"`
	Codec          string `json:"codec"`
	Quality        string `json:"quality"`

	// Backend and network settings
	YtDlpPath          string `json:"ytdlp_path"`
	UserAgent          string `json:"user_agent"`
	HTTPTimeoutSeconds int    `json:"http_timeout_seconds"`

	// Cover art settings
	SaveCoverArtInTags   bool `json:"save_cover_art_in_tags"`
	SaveCoverArtInFolder bool `json:"save_cover_art_in_folder"`
	CoverArtResize       bool `json:"cover_art_resize"`
	CoverArtMaxSize      int  `json:"cover_art_max_size"`
	ConvertCoverArtToJPG bool `json:"convert_cover_art_to_jpg"`

	// Tag settings
	ModifyTags bool `json:"modify_tags"`

	// Playlist settings
	CreatePlaylist   bool   `json:"create_playlist"`
	PlaylistFormat   string `json:"playlist_format"` // m3u, pls, wpl, zpl
	PlaylistFileName string `json:"playlist_file_name"`
	M3UExtended      bool   `json:"m3u_extended"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		OutputDir:      "downloads",
		FileNameFormat: "%(title)s.%(ext)s",
		Codec:          "flac",
		Quality:        "0",

		YtDlpPath:          "yt-dlp",
		UserAgent:          "audiograb",
		HTTPTimeoutSeconds: 60,

		SaveCoverArtInTags:   true,
		SaveCoverArtInFolder: false,
		CoverArtResize:       true,
		CoverArtMaxSize:      1000,
		ConvertCoverArtToJPG: true,

		ModifyTags: true,

		CreatePlaylist:   false,
		PlaylistFormat:   "m3u",
		PlaylistFileName: "playlist",
		M3UExtended:      true,
	}
}

// Load reads settings from a JSON file on top of the defaults.
// A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// LoadDotEnv loads KEY=value pairs from the given files (".env" when none
// are given) into the process environment. Variables that are already set
// win. Missing files are not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// ApplyEnv overrides settings from AUDIOGRAB_* environment variables.
func (s *Settings) ApplyEnv() error {
	return s.applyEnv(os.LookupEnv)
}

func (s *Settings) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvOutputDir); ok && v != "" {
		s.OutputDir = v
	}
	if v, ok := lookup(EnvCodec); ok && v != "" {
		s.Codec = v
	}
	if v, ok := lookup(EnvQuality); ok && v != "" {
		s.Quality = v
	}
	if v, ok := lookup(EnvYtDlp); ok && v != "" {
		s.YtDlpPath = v
	}
	if v, ok := lookup(EnvUserAgent); ok && v != "" {
		s.UserAgent = v
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		s.HTTPTimeoutSeconds = secs
	}
	return nil
}

// Validate checks the settings the backend cannot run without.
func (s *Settings) Validate() error {
	var problems []string
	if strings.TrimSpace(s.FileNameFormat) == "" {
		problems = append(problems, "file_name_format is empty")
	}
	if strings.TrimSpace(s.Codec) == "" {
		problems = append(problems, "codec is empty")
	}
	if strings.TrimSpace(s.YtDlpPath) == "" {
		problems = append(problems, "ytdlp_path is empty")
	}
	if s.HTTPTimeoutSeconds < 0 {
		problems = append(problems, "http_timeout_seconds is negative")
	}
	if len(problems) > 0 {
		return errors.New("invalid settings: " + strings.Join(problems, ", "))
	}
	return nil
}

// HTTPTimeout returns the page/artwork request timeout.
func (s *Settings) HTTPTimeout() time.Duration {
	return time.Duration(s.HTTPTimeoutSeconds) * time.Second
}

// ToPlaylistFormat converts the playlist format setting.
func (s *Settings) ToPlaylistFormat() model.PlaylistFormat {
	return model.ParsePlaylistFormat(s.PlaylistFormat)
}

// ToBackendConfig builds the backend configuration for an output directory.
func (s *Settings) ToBackendConfig(outputDir string) model.BackendConfig {
	return model.BackendConfig{
		OutputDir:       outputDir,
		FilenamePattern: s.FileNameFormat,
		Codec:           s.Codec,
		Quality:         s.Quality,
	}
}

// ResolveBackend ensures OutputDir/subfolder exists and returns the backend
// configuration writing into it. The subfolder is optional.
//
// A directory that cannot be created is a setup error: callers should not
// start any job when it fails.
func (s *Settings) ResolveBackend(subfolder string) (model.BackendConfig, error) {
	dir, err := ioutils.ResolveDir(s.OutputDir, subfolder)
	if err != nil {
		return model.BackendConfig{}, err
	}
	return s.ToBackendConfig(dir), nil
}
