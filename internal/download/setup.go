package download

import (
	"github.com/handiism/audiograb/internal/config"
	"github.com/handiism/audiograb/internal/http"
	"github.com/handiism/audiograb/internal/progress"
	"github.com/handiism/audiograb/internal/scrape"
	"github.com/handiism/audiograb/internal/ytdlp"
)

// NewFromSettings wires a Manager with the yt-dlp backend and the HTML
// link scraper, sharing one HTTP client between page and artwork fetches.
// The output directory (plus subfolder) is created first; an error means
// no job should be started.
func NewFromSettings(settings *config.Settings, subfolder string, onProgress progress.Func) (*Manager, error) {
	backend, err := settings.ResolveBackend(subfolder)
	if err != nil {
		return nil, err
	}

	client := http.NewClient(settings.UserAgent, settings.HTTPTimeout())
	return NewManager(
		settings,
		client,
		backend,
		ytdlp.New(settings.YtDlpPath),
		scrape.New(client, onProgress),
		onProgress,
	), nil
}
