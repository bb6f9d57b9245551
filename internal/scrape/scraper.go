package scrape

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/handiism/audiograb/internal/progress"
)

// AudioExtensions are the href suffixes recognized as audio files.
// Matching is case-sensitive: ".MP3" is not recognized.
var AudioExtensions = []string{".mp3", ".wav", ".m4a"}

// ErrInvalidEncoding is returned when a fetched page is not valid UTF-8.
var ErrInvalidEncoding = errors.New("page body is not valid UTF-8")

// Fetcher retrieves a page body. *http.Client from internal/http satisfies it.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Scraper finds audio links embedded in a single page.
//
// Scrape never fails: fetch and decode problems are reported through the
// progress callback as one error event and produce an empty result, so a
// broken page only costs the batch its extra downloads.
//
// Example:
//
//	s := scrape.New(http.NewClient("", 0), onProgress)
//	links := s.Scrape(ctx, "https://archive.org/details/gd1977-05-08")
//	for _, link := range links {
//	    fmt.Println(link) // absolute URL ending in .mp3, .wav or .m4a
//	}
type Scraper struct {
	fetcher    Fetcher
	onProgress progress.Func
}

// New creates a Scraper fetching pages through f.
func New(f Fetcher, onProgress progress.Func) *Scraper {
	return &Scraper{fetcher: f, onProgress: onProgress}
}

// Scrape fetches pageURL and returns the absolute URLs of every anchor
// whose href ends with a recognized audio extension, in document order.
// Duplicates are kept.
func (s *Scraper) Scrape(ctx context.Context, pageURL string) []string {
	s.onProgress.Emit(progress.Event{Message: fmt.Sprintf("Scraping internal links: %s", pageURL), Level: progress.LevelVerbose, URL: pageURL})

	links, err := s.scrape(ctx, pageURL)
	if err != nil {
		s.onProgress.Emit(progress.Event{
			Message: fmt.Sprintf("Could not open %s: %v", pageURL, err),
			Level:   progress.LevelError,
			URL:     pageURL,
			Err:     err,
		})
		return []string{}
	}

	s.onProgress.Emit(progress.Event{Message: fmt.Sprintf("Found %d internal link(s) on %s", len(links), pageURL), Level: progress.LevelInfo, URL: pageURL})
	for _, link := range links {
		s.onProgress.Emit(progress.Event{Message: fmt.Sprintf("  %s", link), Level: progress.LevelVerbose, URL: link})
	}
	return links
}

func (s *Scraper) scrape(ctx context.Context, pageURL string) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}

	body, err := s.fetcher.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(body) {
		return nil, ErrInvalidEncoding
	}

	return ExtractAudioLinks(bytes.NewReader(body), base)
}

// ExtractAudioLinks reads an HTML document and resolves the audio hrefs
// of its anchors against base. Hrefs that cannot be parsed as URLs are
// skipped.
func ExtractAudioLinks(r io.Reader, base *url.URL) ([]string, error) {
	links := []string{}

	tok := NewTokenizer()
	tok.OnStartTag(func(tag StartTag) {
		if tag.Name != "a" {
			return
		}
		href, ok := tag.Attr("href")
		if !ok || !IsAudioLink(href) {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		links = append(links, base.ResolveReference(ref).String())
	})

	if err := tok.Feed(r); err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	return links, nil
}

// IsAudioLink reports whether href ends with one of AudioExtensions.
func IsAudioLink(href string) bool {
	for _, ext := range AudioExtensions {
		if strings.HasSuffix(href, ext) {
			return true
		}
	}
	return false
}
