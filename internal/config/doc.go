// Package config provides configuration management for audiograb.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Environment overrides, optionally read from a .env file
//   - Resolving the output directory into a model.BackendConfig
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Downloads to ./downloads as FLAC named "%(title)s.%(ext)s"
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	// Uses defaults if the file doesn't exist
//
// # Environment
//
//	_ = config.LoadDotEnv()
//	err := settings.ApplyEnv() // AUDIOGRAB_OUTPUT_DIR, AUDIOGRAB_CODEC, ...
//
// # Output Resolution
//
//	backendCfg, err := settings.ResolveBackend("live recordings")
//	// creates ./downloads/live recordings
package config
