// Package scrape discovers audio links embedded in a web page.
//
// The package is split in two layers:
//
//  1. Tokenizer turns an HTML stream into start-tag events and pushes
//     them to subscribed handlers.
//  2. Scraper fetches one page, subscribes to anchor tags and keeps the
//     hrefs ending in .mp3, .wav or .m4a, resolved against the page URL.
//
// Only anchors on the fetched page are considered. Links are not followed.
package scrape
