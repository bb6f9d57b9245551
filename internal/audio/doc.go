// Package audio post-processes files written by the extraction backend:
// ID3 tagging of MP3 outputs and playlist generation.
//
// # ID3 Tagging
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	err := tagger.SaveTags(track, jpegBytes)
//
// The tagger writes the track title, a comment holding the URL the track
// came from, and an optional front cover picture. Only .mp3 files are
// accepted; see CanTag.
//
// # Playlist Generation
//
//	creator := audio.NewPlaylistCreator(model.PlaylistFormatM3U, true)
//	content := creator.CreatePlaylist(dir, "audiograb", tracks)
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
//   - WPL (Windows Media Player)
//   - ZPL (Zune Media Player)
package audio
