// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Output directory resolution and creation
//   - Filename sanitization for cross-platform compatibility
//   - File writing
//   - Cover art resizing and format conversion
//
// # File Operations
//
//	// Resolve <base>/<subfolder> and create it
//	dir, err := ioutils.ResolveDir("downloads", "archive finds")
//
//	// Write data to file
//	err := ioutils.WriteFile(ctx, "/path/to/playlist.m3u", []byte("content"))
//
// # Filename Sanitization
//
//	safe := ioutils.SanitizeFileName("Song: Part 1/2") // Returns "Song_ Part 1_2"
//
// # Image Processing
//
// The ImageService handles cover art manipulation:
//
//	svc := ioutils.NewImageService()
//	resized, _ := svc.ResizeImage(ctx, imageData, 500, 500)
//	jpeg, _ := svc.ConvertToJPEG(ctx, pngData)
package ioutils
