// Package download orchestrates batch audio downloads.
//
// # Manager
//
// The Manager runs each job through the same steps:
//
//  1. Resolve the source type (classify the URL unless a hint was given)
//  2. Reject soundcloud/bandcamp/direct_link jobs whose URL is not on
//     soundcloud.com or bandcamp.com
//  3. Scrape the page for audio links when asked to, or for archive URLs
//  4. Call the extraction backend for the job URL
//  5. Call it again for every discovered link, in document order
//  6. Tag MP3 outputs and attach cover art (optional)
//
// A batch additionally writes one playlist for all produced tracks.
//
// # Basic Usage
//
//	manager := download.NewManager(settings, httpClient, backendCfg,
//	    ytdlp.New(settings.YtDlpPath),
//	    scrape.New(httpClient, onProgress),
//	    onProgress)
//
// NewFromSettings does this wiring from a Settings value.
//
//	outcomes := manager.RunBatch(ctx, model.NewJobs(urls, false, model.SourceAuto))
//	summary := model.Summarize(outcomes)
//
// # Failure Semantics
//
// Backend errors for single URLs are reported and counted in the Outcome
// but do not fail the job. Jobs fail only on a domain mismatch or an
// unexpected error, and the batch always runs every job.
//
// # Concurrency
//
// Jobs, and the downloads within a job, run strictly one after another.
// A Manager must not be used from several goroutines at once.
//
// # Progress Tracking
//
// Progress is reported via the progress.Func passed to NewManager.
package download
