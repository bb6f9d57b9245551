package model

// BackendConfig is the naming and encoding configuration handed to the
// extraction backend for every track.
//
// It is built once by the output path resolver and never modified
// afterwards, so one value is shared by every job in a batch.
//
// Example:
//
//	cfg := BackendConfig{
//	    OutputDir:       "/music/downloads",
//	    FilenamePattern: "%(title)s.%(ext)s",
//	    Codec:           "flac",
//	    Quality:         "0",
//	}
type BackendConfig struct {
	// OutputDir is the directory the backend writes into. It exists.
	OutputDir string

	// FilenamePattern is the backend output template, relative to OutputDir.
	// It is keyed by track title and container extension.
	FilenamePattern string

	// Codec is the target audio codec (flac, mp3, m4a, opus, wav, ...).
	Codec string

	// Quality is the target bitrate ("320K") or VBR level ("0" best to "10").
	Quality string
}
