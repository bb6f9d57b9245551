package download

import (
	"context"
	"fmt"
	nethttp "net/http"
	"path/filepath"

	"github.com/handiism/audiograb/internal/audio"
	"github.com/handiism/audiograb/internal/config"
	"github.com/handiism/audiograb/internal/http"
	ioutils "github.com/handiism/audiograb/internal/io"
	"github.com/handiism/audiograb/internal/model"
	"github.com/handiism/audiograb/internal/progress"
	"github.com/handiism/audiograb/internal/source"
)

// Extractor fetches and transcodes the media behind one URL.
type Extractor interface {
	Extract(ctx context.Context, url string, cfg model.BackendConfig) ([]*model.Track, error)
}

// LinkScraper discovers audio links on a page. It never fails: errors are
// reported through its own progress callback and yield no links.
type LinkScraper interface {
	Scrape(ctx context.Context, pageURL string) []string
}

// Manager runs download jobs one after another.
type Manager struct {
	settings     *config.Settings
	backend      model.BackendConfig
	extractor    Extractor
	scraper      LinkScraper
	httpClient   *http.Client
	tagger       *audio.Tagger
	playlist     *audio.PlaylistCreator
	imageService *ioutils.ImageService

	// artwork caches raw thumbnails by URL; entries of one set usually
	// share the same image.
	artwork map[string][]byte

	onProgress progress.Func
}

// NewManager creates a new download Manager. backend is used read-only for
// every backend call the manager makes. client fetches artwork; a nil
// client is built from settings.
func NewManager(settings *config.Settings, client *http.Client, backend model.BackendConfig, extractor Extractor, scraper LinkScraper, onProgress progress.Func) *Manager {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	if client == nil {
		client = http.NewClient(settings.UserAgent, settings.HTTPTimeout())
	}

	tagCfg := audio.DefaultTagConfig()
	tagCfg.ModifyTags = settings.ModifyTags

	return &Manager{
		settings:     settings,
		backend:      backend,
		extractor:    extractor,
		scraper:      scraper,
		httpClient:   client,
		tagger:       audio.NewTagger(tagCfg),
		playlist:     audio.NewPlaylistCreator(settings.ToPlaylistFormat(), settings.M3UExtended),
		imageService: ioutils.NewImageService(),
		artwork:      make(map[string][]byte),
		onProgress:   onProgress,
	}
}

// Backend returns the backend configuration shared by all jobs.
func (m *Manager) Backend() model.BackendConfig {
	return m.backend
}

// RunBatch runs jobs sequentially in input order and returns one outcome
// per job. A failed job never stops the batch.
//
// When playlists are enabled, one playlist covering every produced track
// is written to the output directory afterwards.
func (m *Manager) RunBatch(ctx context.Context, jobs []model.Job) []model.Outcome {
	outcomes := make([]model.Outcome, 0, len(jobs))
	for i, job := range jobs {
		m.progress(progress.Event{
			Message: fmt.Sprintf("Job %d/%d: %s", i+1, len(jobs), job.URL),
			Level:   progress.LevelVerbose,
			JobID:   job.ID,
			URL:     job.URL,
		})
		outcomes = append(outcomes, m.Run(ctx, job))
	}

	if m.settings.CreatePlaylist {
		m.writePlaylist(ctx, outcomes)
	}

	s := model.Summarize(outcomes)
	level := progress.LevelSuccess
	if s.JobsFailed > 0 || s.TracksFailed > 0 {
		level = progress.LevelWarning
	}
	m.progress(progress.Event{
		Message: fmt.Sprintf("Finished %d jobs: %d succeeded, %d failed; %d tracks downloaded, %d downloads failed",
			s.Jobs, s.JobsSucceeded, s.JobsFailed, s.Tracks, s.TracksFailed),
		Level: level,
	})

	return outcomes
}

// Run executes one job: classify, domain check, optional link discovery,
// then one backend call for the job URL and one per discovered link.
//
// Backend errors are logged and counted but leave the job successful. The
// job fails only when the domain check rejects it or something unexpected
// aborts it (a panic, or a context cancelled before the job starts).
func (m *Manager) Run(ctx context.Context, job model.Job) (outcome model.Outcome) {
	outcome = model.Outcome{Job: job}

	defer func() {
		if r := recover(); r != nil {
			outcome.Success = false
			outcome.Reason = model.ReasonUnexpected
			outcome.Message = fmt.Sprintf("unexpected error: %v", r)
			m.progress(progress.Event{
				Message: fmt.Sprintf("Unexpected error processing %s: %v", job.URL, r),
				Level:   progress.LevelError,
				JobID:   job.ID,
				URL:     job.URL,
				Err:     fmt.Errorf("%v", r),
			})
		}
	}()

	if err := ctx.Err(); err != nil {
		outcome.Reason = model.ReasonUnexpected
		outcome.Message = err.Error()
		m.progress(progress.Event{
			Message: fmt.Sprintf("Skipping %s: %v", job.URL, err),
			Level:   progress.LevelError,
			JobID:   job.ID,
			URL:     job.URL,
			Err:     err,
		})
		return outcome
	}

	sourceType := source.Resolve(job.SourceType, job.URL)
	outcome.SourceType = sourceType
	m.progress(progress.Event{
		Message: fmt.Sprintf("Source type: %s", sourceType),
		Level:   progress.LevelVerbose,
		JobID:   job.ID,
		URL:     job.URL,
	})

	if source.RequiresPlatformDomain(sourceType) && !source.HasPlatformDomain(job.URL) {
		outcome.Reason = model.ReasonDomainMismatch
		outcome.Message = fmt.Sprintf("%s URL must be on soundcloud.com or bandcamp.com", sourceType)
		m.progress(progress.Event{
			Message: fmt.Sprintf("Invalid URL for %s: %s", sourceType, job.URL),
			Level:   progress.LevelError,
			JobID:   job.ID,
			URL:     job.URL,
		})
		return outcome
	}

	if source.ShouldScrape(job.ScrapeInternalLinks, sourceType) {
		outcome.Discovered = m.scraper.Scrape(ctx, job.URL)
	}

	m.download(ctx, job, job.URL, &outcome)
	for _, link := range outcome.Discovered {
		m.download(ctx, job, link, &outcome)
	}

	outcome.Success = true
	m.progress(progress.Event{
		Message: fmt.Sprintf("Finished %s (%d tracks, %d of %d downloads failed)",
			job.URL, len(outcome.Tracks), outcome.Failed, outcome.Attempted),
		Level: progress.LevelSuccess,
		JobID: job.ID,
		URL:   job.URL,
	})
	return outcome
}

// download makes exactly one backend call for url.
func (m *Manager) download(ctx context.Context, job model.Job, url string, outcome *model.Outcome) {
	outcome.Attempted++
	m.progress(progress.Event{
		Message: fmt.Sprintf("Downloading %s", url),
		Level:   progress.LevelInfo,
		JobID:   job.ID,
		URL:     url,
	})

	tracks, err := m.extractor.Extract(ctx, url, m.backend)
	if err != nil {
		outcome.Failed++
		m.progress(progress.Event{
			Message: fmt.Sprintf("Error downloading %s: %v", url, err),
			Level:   progress.LevelError,
			JobID:   job.ID,
			URL:     url,
			Err:     err,
		})
		return
	}

	for _, track := range tracks {
		m.postProcess(ctx, job, track)
		m.progress(progress.Event{
			Message: fmt.Sprintf("Downloaded: %s", filepath.Base(track.Path)),
			Level:   progress.LevelVerbose,
			JobID:   job.ID,
			URL:     url,
		})
	}
	outcome.Tracks = append(outcome.Tracks, tracks...)
}

// postProcess tags and attaches artwork to a track. Failures are warnings.
func (m *Manager) postProcess(ctx context.Context, job model.Job, track *model.Track) {
	taggable := audio.CanTag(track)
	artInTags := m.settings.SaveCoverArtInTags && taggable

	var artwork []byte
	if (artInTags || m.settings.SaveCoverArtInFolder) && track.HasArtwork() {
		artwork = m.downloadArtwork(ctx, job, track)
	}
	if !artInTags {
		artwork = nil
	}

	if !taggable || (!m.settings.ModifyTags && artwork == nil) {
		return
	}
	if err := m.tagger.SaveTags(track, artwork); err != nil {
		m.progress(progress.Event{
			Message: fmt.Sprintf("Error tagging %s: %v", track.Title, err),
			Level:   progress.LevelWarning,
			JobID:   job.ID,
			URL:     track.SourceURL,
			Err:     err,
		})
	}
}

// downloadArtwork fetches the track thumbnail, saves the folder copy when
// enabled and returns the image prepared for tags, or nil on failure.
func (m *Manager) downloadArtwork(ctx context.Context, job model.Job, track *model.Track) []byte {
	raw, ok := m.artwork[track.ThumbnailURL]
	if !ok {
		var err error
		raw, err = m.httpClient.DownloadBytes(ctx, track.ThumbnailURL)
		if err != nil {
			m.progress(progress.Event{
				Message: fmt.Sprintf("Error downloading artwork for %s: %v", track.Title, err),
				Level:   progress.LevelWarning,
				JobID:   job.ID,
				URL:     track.ThumbnailURL,
				Err:     err,
			})
			return nil
		}
		m.artwork[track.ThumbnailURL] = raw
	}

	artwork := m.prepareArtwork(ctx, job, raw)

	if m.settings.SaveCoverArtInFolder {
		path := filepath.Join(filepath.Dir(track.Path), ioutils.SanitizeFileName(track.Title)+imageExt(artwork))
		if err := ioutils.WriteFile(ctx, path, artwork); err != nil {
			m.progress(progress.Event{
				Message: fmt.Sprintf("Error saving artwork: %v", err),
				Level:   progress.LevelWarning,
				JobID:   job.ID,
				URL:     track.ThumbnailURL,
				Err:     err,
			})
		}
	}

	m.progress(progress.Event{
		Message: fmt.Sprintf("Downloaded artwork for %s", track.Title),
		Level:   progress.LevelVerbose,
		JobID:   job.ID,
		URL:     track.ThumbnailURL,
	})
	return artwork
}

// prepareArtwork applies the resize and JPEG settings. A step that fails
// leaves the image as it was.
func (m *Manager) prepareArtwork(ctx context.Context, job model.Job, data []byte) []byte {
	if m.settings.CoverArtResize && m.settings.CoverArtMaxSize > 0 {
		resized, err := m.imageService.ResizeImage(ctx, data, m.settings.CoverArtMaxSize, m.settings.CoverArtMaxSize)
		if err != nil {
			m.artworkWarning(job, "resize", err)
		} else {
			data = resized
		}
	}
	if m.settings.ConvertCoverArtToJPG {
		converted, err := m.imageService.ConvertToJPEG(ctx, data)
		if err != nil {
			m.artworkWarning(job, "convert", err)
		} else {
			data = converted
		}
	}
	return data
}

func (m *Manager) artworkWarning(job model.Job, step string, err error) {
	m.progress(progress.Event{
		Message: fmt.Sprintf("Could not %s artwork: %v", step, err),
		Level:   progress.LevelWarning,
		JobID:   job.ID,
		Err:     err,
	})
}

func (m *Manager) writePlaylist(ctx context.Context, outcomes []model.Outcome) {
	var tracks []*model.Track
	for _, o := range outcomes {
		tracks = append(tracks, o.Tracks...)
	}
	if len(tracks) == 0 {
		return
	}

	dir := m.backend.OutputDir
	name := ioutils.SanitizeFileName(m.settings.PlaylistFileName)
	if name == "" {
		name = "playlist"
	}
	path := filepath.Join(dir, name+m.playlist.Format().Extension())

	content := m.playlist.CreatePlaylist(dir, name, tracks)
	if err := ioutils.WriteFile(ctx, path, []byte(content)); err != nil {
		m.progress(progress.Event{
			Message: fmt.Sprintf("Error creating playlist: %v", err),
			Level:   progress.LevelWarning,
			Err:     err,
		})
		return
	}
	m.progress(progress.Event{
		Message: fmt.Sprintf("Created playlist %s (%d tracks)", path, len(tracks)),
		Level:   progress.LevelSuccess,
	})
}

func (m *Manager) progress(event progress.Event) {
	m.onProgress.Emit(event)
}

func imageExt(data []byte) string {
	switch nethttp.DetectContentType(data) {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}
