package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// SourceType tags where a URL comes from.
//
// The tag steers two decisions in the orchestrator: whether the URL must
// carry a platform domain, and whether the page is scraped for more audio
// links. SourceAuto is only valid as a hint on a Job; it is always resolved
// to one of the concrete types before anything branches on it.
type SourceType string

const (
	// SourceAuto asks the orchestrator to classify the URL itself.
	SourceAuto SourceType = "auto"

	// SourceArchive is an archive.org item page. Always scraped.
	SourceArchive SourceType = "archive"

	// SourceSoundCloud is a soundcloud.com track or set.
	SourceSoundCloud SourceType = "soundcloud"

	// SourceBandcamp is a bandcamp.com album or track.
	SourceBandcamp SourceType = "bandcamp"

	// SourceDirectLink is anything else.
	SourceDirectLink SourceType = "direct_link"
)

// SourceTypes lists the concrete source types in classifier priority order.
var SourceTypes = []SourceType{SourceArchive, SourceSoundCloud, SourceBandcamp, SourceDirectLink}

// String implements fmt.Stringer.
func (t SourceType) String() string {
	return string(t)
}

// IsConcrete reports whether t is one of the resolved source types.
func (t SourceType) IsConcrete() bool {
	switch t {
	case SourceArchive, SourceSoundCloud, SourceBandcamp, SourceDirectLink:
		return true
	}
	return false
}

// ParseSourceType converts a user supplied value into a SourceType.
//
// Accepted values are "auto" (or "auto_detect"), "archive", "soundcloud",
// "bandcamp" and "direct_link". Matching ignores case and surrounding
// whitespace.
//
// Example:
//
//	t, err := ParseSourceType("SoundCloud") // SourceSoundCloud, nil
//	t, err = ParseSourceType("auto_detect") // SourceAuto, nil
//	t, err = ParseSourceType("youtube")     // "", error
func ParseSourceType(s string) (SourceType, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "", "auto", "auto_detect":
		return SourceAuto, nil
	}
	t := SourceType(v)
	if !t.IsConcrete() {
		return "", fmt.Errorf("unknown source type %q (want auto, archive, soundcloud, bandcamp or direct_link)", s)
	}
	return t, nil
}

// Job is one orchestration request: a URL, whether to scrape it for
// embedded audio links, and a source-type hint.
//
// A Job is never modified once created. The ID only correlates log lines;
// it plays no part in any decision.
type Job struct {
	// ID is a random identifier assigned by NewJob.
	ID string

	// URL is the page or media URL handed to the extraction backend.
	URL string

	// ScrapeInternalLinks requests link discovery even for non-archive sources.
	ScrapeInternalLinks bool

	// SourceType is the caller's hint. SourceAuto means classify the URL.
	SourceType SourceType
}

// NewJob creates a Job with a fresh ID.
//
// An empty hint is treated as SourceAuto.
func NewJob(url string, scrapeInternalLinks bool, hint SourceType) Job {
	if hint == "" {
		hint = SourceAuto
	}
	return Job{
		ID:                  uuid.New().String(),
		URL:                 url,
		ScrapeInternalLinks: scrapeInternalLinks,
		SourceType:          hint,
	}
}

// NewJobs creates one Job per URL sharing the same options, keeping order.
func NewJobs(urls []string, scrapeInternalLinks bool, hint SourceType) []Job {
	jobs := make([]Job, 0, len(urls))
	for _, u := range urls {
		jobs = append(jobs, NewJob(u, scrapeInternalLinks, hint))
	}
	return jobs
}
