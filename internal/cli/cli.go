package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/trailday/internal/config"
	"github.com/pfrederiksen/trailday/internal/geocode"
	"github.com/pfrederiksen/trailday/internal/itinerary"
	"github.com/pfrederiksen/trailday/internal/logger"
	"github.com/pfrederiksen/trailday/internal/notifier"
	"github.com/pfrederiksen/trailday/internal/scraper"
	"github.com/pfrederiksen/trailday/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// Version is set at build time.
var Version = "dev"

var (
	flagConfig  string
	flagDataDir string
	flagVerbose bool

	flagScrapeFormat string
	flagBrowser      bool

	flagPlanFormat string
	flagPrefs      string

	flagPlacesFormat string
	flagSort         string

	flagMapOut string

	flagExportFormat string
	flagDate         string
	flagOut          string

	flagDryRun bool
)

// Collaborator constructors. Tests swap these for fakes.
var (
	newFetcher = func(cfg *config.Config, browser bool) scraper.Fetcher {
		if browser {
			return scraper.NewBrowserFetcher(cfg.Scrape.ChromeBin, cfg.ScrapeTimeout())
		}
		return scraper.NewHTTPFetcher(cfg.ScrapeTimeout())
	}
	newRetrier = func(cfg *config.Config) *scraper.Retrier {
		r := scraper.NewRetrier()
		if cfg.Scrape.MaxAttempts > 0 {
			r.MaxAttempts = cfg.Scrape.MaxAttempts
		}
		return r
	}
	newCompleter = func(cfg *config.Config) (itinerary.ChatCompleter, error) {
		return itinerary.NewOpenAIClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLMTimeout())
	}
	newGeocoder = func(cfg *config.Config) geocode.Geocoder {
		return geocode.NewNominatim(geocode.Options{
			BaseURL:   cfg.Geocode.BaseURL,
			UserAgent: cfg.Geocode.UserAgent,
			Timeout:   cfg.GeocodeTimeout(),
			Delay:     cfg.GeocodeDelay(),
		})
	}
	newTwitter = func(cfg *config.Config) (notifier.Notifier, error) {
		return notifier.NewTwitterNotifier(notifier.Credentials{
			APIKey:       cfg.Twitter.APIKey,
			APISecret:    cfg.Twitter.APISecret,
			AccessToken:  cfg.Twitter.AccessToken,
			AccessSecret: cfg.Twitter.AccessSecret,
		})
	}
)

// env is what every subcommand needs once flags are parsed.
type env struct {
	cfg   *config.Config
	store *storage.Storage
}

func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.Data.Dir = flagDataDir
	}

	level := logger.ParseLevel(cfg.Log.Level)
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	store, err := storage.New(cfg.Data.Dir)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	logger.Debug("Loaded configuration", logger.Fields{
		"config":   flagConfig,
		"data_dir": store.Dir(),
		"model":    cfg.LLM.Model,
	})
	return &env{cfg: cfg, store: store}, nil
}

func (e *env) loadSession() (*storage.Session, error) {
	session, err := e.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return session, nil
}

var (
	errNoTrail     = errors.New("no trail scraped yet: run 'trailday scrape URL' first")
	errNoItinerary = errors.New("no itinerary yet: run 'trailday plan' first")
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trailday",
		Short: "Plan a day around an AllTrails hike",
		Long: `Scrape an AllTrails hike page, generate a day itinerary around it with a
language model, and map every place the itinerary mentions.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if !flagVerbose {
				return nil
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "--- metrics ---")
			_, err := logger.GetMetricsSnapshot().WriteTo(cmd.ErrOrStderr())
			return err
		},
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "trailday.toml", "Path to TOML config file")
	cmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "~/.local/share/trailday", "Data directory for the session file")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging and print metrics")

	cmd.AddCommand(
		newValidateCmd(),
		newScrapeCmd(),
		newPlanCmd(),
		newPlacesCmd(),
		newMapCmd(),
		newExportCmd(),
		newShareCmd(),
		newResetCmd(),
	)

	return cmd
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(ExitError)
	}
}
