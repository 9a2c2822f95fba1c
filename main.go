package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"adscan/internal/config"
	"adscan/internal/extractor"
	"adscan/internal/fetcher"
	"adscan/internal/formatter"
	"adscan/internal/logger"
	"adscan/internal/models"
	"adscan/internal/writer"

	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	targetURL    string
	outputFile   string
	outputFormat string
	headless     bool
	engine       string
	profileName  string
	configFile   string
	maxItems     int
	timeout      time.Duration
	proxyURL     string
	logLevel     string
	dumpPage     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "adscan [URL]",
		Short:   "Scrape classifieds search results into CSV, JSON, Markdown or SQLite",
		Version: version,
		Long: `adscan loads a classifieds search-results page in a real browser,
extracts the listings (title, price, location, link, thumbnail) and writes
them to a file. The output format is chosen by the file extension or the
--format flag.`,
		Example: `  # Default OLX "car cover" search to results.csv, visible browser
  adscan

  # Specific search, headless, JSON output
  adscan --headless -o covers.json "https://www.olx.in/items/q-car-cover"

  # Server-rendered site without launching a browser
  adscan --engine static -o results.csv "https://example.com/search?q=sofa"

  # Custom selector profile from a config file
  adscan --config adscan.yaml --profile mysite -o out.sqlite

  # Save the rendered page for selector debugging
  adscan --headless --dump-page page.md -o results.json`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         run,
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVarP(&targetURL, "url", "u", "", "search results page to scrape (defaults to the OLX car cover search)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "results.csv", "output file; extension selects the format")
	rootCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format override (csv, json, markdown, sqlite)")
	rootCmd.Flags().BoolVar(&headless, "headless", false, "run the browser without a visible window (default: headed)")
	rootCmd.Flags().StringVar(&engine, "engine", "", "fetch engine: browser or static")
	rootCmd.Flags().StringVar(&profileName, "profile", "", "extraction profile (built-in: olx, generic)")
	rootCmd.Flags().StringVar(&configFile, "config", "", "YAML config file with settings and selector profiles")
	rootCmd.Flags().IntVarP(&maxItems, "max-items", "m", 0, "maximum number of records to emit")
	rootCmd.Flags().DurationVarP(&timeout, "timeout", "t", 0, "fetch timeout")
	rootCmd.Flags().StringVarP(&proxyURL, "proxy", "p", "", "proxy URL for the browser engine")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.Flags().StringVar(&dumpPage, "dump-page", "", "also save the rendered page to this path (.html or .md)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	cfg.RegisterProfiles()

	log := logger.New(cfg.LogLevel).With("run_id", uuid.NewString())

	// Resolve everything that can fail on bad input before any browser
	// process is started.
	target, err := fetcher.ValidateURL(cfg.URL)
	if err != nil {
		return err
	}

	format, err := resolveFormat(cfg)
	if err != nil {
		return err
	}

	profile, ok := extractor.Get(cfg.Profile)
	if !ok {
		return fmt.Errorf("%w: unknown profile %q (have %v)", fetcher.ErrInvalidInput, cfg.Profile, extractor.Names())
	}

	f, err := newFetcher(cfg, log)
	if err != nil {
		return err
	}

	log.Info("scrape starting", "url", target, "engine", cfg.Engine, "profile", profile.Name, "format", format)

	doc, err := f.Fetch(context.Background(), target)
	if err != nil {
		return err
	}
	log.Info("page fetched", "final_url", doc.URL, "load_time", doc.LoadTime)

	if dumpPage != "" {
		if err := formatter.DumpPage(doc, dumpPage); err != nil {
			return err
		}
		log.Info("rendered page saved", "path", dumpPage)
	}

	listings, err := extractor.Extract(doc.HTML, doc.URL, profile)
	if err != nil {
		return err
	}
	if len(listings) > cfg.MaxItems {
		listings = listings[:cfg.MaxItems]
	}
	if len(listings) == 0 {
		log.Warn("no listings matched; the site markup may have changed", "profile", profile.Name)
	}

	if err := writer.Write(cfg.Output, format, listings); err != nil {
		return err
	}

	log.Info("scrape finished", "records", len(listings), "output", cfg.Output)
	printSummary(listings, cfg.Output)
	return nil
}

// loadConfig builds the effective configuration: defaults, then the config
// file, then any flag the user set explicitly.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)

	if configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.Default()
	}

	if len(args) == 1 {
		cfg.URL = args[0]
	}
	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.URL = targetURL
	}
	if flags.Changed("output") {
		cfg.Output = outputFile
	}
	if flags.Changed("format") {
		cfg.Format = outputFormat
	}
	if flags.Changed("headless") {
		cfg.Headless = headless
	}
	if flags.Changed("engine") {
		cfg.Engine = engine
	}
	if flags.Changed("profile") {
		cfg.Profile = profileName
	}
	if flags.Changed("max-items") {
		cfg.MaxItems = maxItems
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSec = int(timeout.Seconds())
	}
	if flags.Changed("proxy") {
		cfg.Proxy = proxyURL
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveFormat(cfg *config.Config) (writer.Format, error) {
	if cfg.Format != "" {
		return writer.ParseFormat(cfg.Format)
	}
	return writer.DetectFormat(cfg.Output)
}

func newFetcher(cfg *config.Config, log *logger.Logger) (fetcher.Fetcher, error) {
	opts := fetcher.Options{
		Timeout:      cfg.Timeout(),
		Headless:     cfg.Headless,
		ProxyURL:     cfg.Proxy,
		ScrollPasses: cfg.ScrollPasses,
	}

	switch cfg.Engine {
	case "browser":
		return fetcher.NewBrowserFetcher(opts, log), nil
	case "static":
		return fetcher.NewStaticFetcher(opts, log), nil
	default:
		return nil, fmt.Errorf("%w: unknown engine %q", fetcher.ErrInvalidInput, cfg.Engine)
	}
}

// printSummary shows the first few records on stdout so a run is
// verifiable at a glance. Truncation is display-width aware for titles in
// non-Latin scripts.
func printSummary(listings []models.Listing, output string) {
	fmt.Printf("\nScraped %d listings -> %s\n", len(listings), output)

	show := listings
	if len(show) > 10 {
		show = show[:10]
	}
	for i, l := range show {
		title := l.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("  %2d. %-46s %-14s %s\n",
			i+1,
			runewidth.Truncate(title, 44, "..."),
			runewidth.Truncate(l.Price, 12, "..."),
			runewidth.Truncate(l.Location, 28, "..."),
		)
	}
	if len(listings) > len(show) {
		fmt.Printf("  ... and %d more\n", len(listings)-len(show))
	}
}
