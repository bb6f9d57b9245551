package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/handiism/audiograb/internal/config"
	"github.com/handiism/audiograb/internal/download"
	"github.com/handiism/audiograb/internal/logging"
	"github.com/handiism/audiograb/internal/model"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Command line flags
	var (
		scrapeFlag    = flag.Bool("scrape", false, "Also download .mp3/.wav/.m4a links found on each page")
		sourceFlag    = flag.String("source", "auto", "Source type: auto, archive, soundcloud, bandcamp or direct_link")
		outputFlag    = flag.String("output", "", "Output directory (overrides config)")
		subfolderFlag = flag.String("subfolder", "", "Subfolder of the output directory to download into")
		configFlag    = flag.String("config", "", "Path to config file")
		codecFlag     = flag.String("codec", "", "Audio codec to extract to (overrides config)")
		qualityFlag   = flag.String("quality", "", "Audio quality, 0 (best) to 10 or a bitrate such as 192K")
		playlistFlag  = flag.Bool("playlist", false, "Create a playlist of all downloaded tracks")
		verboseFlag   = flag.Bool("verbose", false, "Show verbose output")
		jsonFlag      = flag.Bool("log-json", false, "Log JSON lines instead of console output")
	)

	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "audiograb - Download audio from SoundCloud, Bandcamp, archive.org and web pages")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  audiograb [options] <URL>...")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "For interactive mode, use: audiograb-tui")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()

	urls := flag.Args()
	if len(urls) == 0 {
		flag.Usage()
		return 1
	}

	hint, err := model.ParseSourceType(*sourceFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Load config
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
		return 1
	}
	settings := config.DefaultSettings()
	if *configFlag != "" {
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			return 1
		}
	}
	if err := settings.ApplyEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading environment: %v\n", err)
		return 1
	}

	// Apply flags
	if *outputFlag != "" {
		settings.OutputDir = *outputFlag
	}
	if *codecFlag != "" {
		settings.Codec = *codecFlag
	}
	if *qualityFlag != "" {
		settings.Quality = *qualityFlag
	}
	if *playlistFlag {
		settings.CreatePlaylist = true
	}
	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	log, err := logging.New(logging.Config{Verbose: *verboseFlag, JSON: *jsonFlag})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	// Handle interrupts
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager, err := download.NewFromSettings(settings, *subfolderFlag, logging.Bridge(log))
	if err != nil {
		log.Error("Output setup failed", zap.Error(err))
		return 1
	}

	log.Info("Starting batch",
		zap.Int("jobs", len(urls)),
		zap.String("output_dir", manager.Backend().OutputDir),
		zap.String("source", hint.String()),
		zap.Bool("scrape", *scrapeFlag),
	)

	outcomes := manager.RunBatch(ctx, model.NewJobs(urls, *scrapeFlag, hint))

	for _, o := range outcomes {
		if !o.Success {
			log.Warn("Job failed",
				zap.String("job_id", o.Job.ID),
				zap.String("url", o.Job.URL),
				zap.String("reason", o.Reason.String()),
				zap.String("message", o.Message),
			)
		}
	}

	if ctx.Err() != nil {
		log.Warn("Interrupted")
		return 130
	}
	return 0
}
