// Package http provides the HTTP client used for page scraping and
// artwork downloads.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Timeout handling
//   - Non-2xx responses reported as errors
//
// # Basic Usage
//
//	client := http.NewClient("", 0)
//
//	// Fetch HTML page
//	page, err := client.Get(ctx, "https://archive.org/details/item")
//
//	// Download artwork
//	art, err := client.DownloadBytes(ctx, thumbnailURL)
package http
