// Package source classifies input URLs and holds the source-type rules the
// orchestrator branches on.
package source

import (
	"strings"

	"github.com/handiism/audiograb/internal/model"
)

const (
	archiveDomain    = "archive.org"
	soundCloudDomain = "soundcloud.com"
	bandcampDomain   = "bandcamp.com"
)

// Classify maps a URL to its source type. First match wins:
// archive.org, soundcloud.com, bandcamp.com, otherwise a direct link.
// Matching is a plain substring test on the raw string.
func Classify(url string) model.SourceType {
	switch {
	case strings.Contains(url, archiveDomain):
		return model.SourceArchive
	case strings.Contains(url, soundCloudDomain):
		return model.SourceSoundCloud
	case strings.Contains(url, bandcampDomain):
		return model.SourceBandcamp
	default:
		return model.SourceDirectLink
	}
}

// Resolve returns the concrete source type for a hint. SourceAuto is
// classified from the URL; any other hint is trusted as given.
func Resolve(hint model.SourceType, url string) model.SourceType {
	if hint == model.SourceAuto || hint == "" {
		return Classify(url)
	}
	return hint
}

// RequiresPlatformDomain reports whether URLs of type t must carry a
// soundcloud.com or bandcamp.com domain before anything is downloaded.
//
// Direct links are included, so the guard rejects every direct link that
// is not hosted on one of those platforms.
func RequiresPlatformDomain(t model.SourceType) bool {
	switch t {
	case model.SourceSoundCloud, model.SourceBandcamp, model.SourceDirectLink:
		return true
	}
	return false
}

// HasPlatformDomain reports whether url mentions soundcloud.com or bandcamp.com.
func HasPlatformDomain(url string) bool {
	return strings.Contains(url, soundCloudDomain) || strings.Contains(url, bandcampDomain)
}

// ShouldScrape reports whether a page is searched for embedded audio links.
// Archive pages always are.
func ShouldScrape(scrapeInternalLinks bool, t model.SourceType) bool {
	return scrapeInternalLinks || t == model.SourceArchive
}
