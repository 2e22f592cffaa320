package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tickerherald/tickerherald/internal/config"
	"github.com/tickerherald/tickerherald/internal/database"
	"github.com/tickerherald/tickerherald/internal/fetch"
	"github.com/tickerherald/tickerherald/internal/gateway"
	"github.com/tickerherald/tickerherald/internal/market"
	"github.com/tickerherald/tickerherald/internal/news"
	"github.com/tickerherald/tickerherald/internal/pipeline"
	"github.com/tickerherald/tickerherald/internal/report"
	"github.com/tickerherald/tickerherald/internal/schedule"
	"github.com/tickerherald/tickerherald/internal/state"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "tickerherald",
	Short:   "Scheduled stock news bot",
	Long:    "tickerherald polls news providers for tracked ticker symbols, deduplicates results, and posts them to a Discord channel on sweep, digest, and daily-report schedules.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(digestCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(symbolsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("tickerherald", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/tickerherald/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to set the news channel ID, API keys, and schedules.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show tracked symbols and state-store status",
	RunE: func(cmd *cobra.Command, args []string) error {
		symbols, seen := openStores()
		db, err := openArchive()
		if err != nil {
			return err
		}
		defer db.Close()

		archived, err := db.CountDeliveries()
		if err != nil {
			return fmt.Errorf("counting deliveries: %w", err)
		}

		marketState := "closed"
		if marketHours().Open(time.Now()) {
			marketState = "open"
		}

		fmt.Printf("Today: %s (market %s)\n\n", database.Today(cfg.Location()), marketState)
		fmt.Printf("Tracked symbols: %d\n", len(symbols.List()))
		fmt.Printf("Seen fingerprints: %d\n", len(seen.Load()))
		fmt.Printf("Archived deliveries: %d\n", archived)
		return nil
	},
}

// --- scheduled-job commands ---

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to Discord and run the sweep/digest/report schedules",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp()
		if err != nil {
			return err
		}
		defer app.close()

		loc := cfg.Location()
		sched := schedule.New(loc)
		ctx := context.Background()

		if err := sched.AddEvery("sweep", cfg.Schedule.SweepEvery.Std(), func() error {
			return app.pipeline.Sweep(ctx, false)
		}); err != nil {
			return err
		}
		if err := sched.AddDaily("digest", cfg.Schedule.DigestHour, func() error {
			return app.pipeline.Digest(ctx, false)
		}); err != nil {
			return err
		}
		if err := sched.AddDaily("report", cfg.Schedule.ReportHour, func() error {
			return app.pipeline.Report(ctx)
		}); err != nil {
			return err
		}

		sched.Start()
		app.webhook.Log(fmt.Sprintf("✅ tickerherald %s started, tracking %d symbol(s).", version, len(app.symbols.List())))

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		fmt.Println("Shutting down...")
		sched.Stop()
		return nil
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one news sweep now and post the results",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp()
		if err != nil {
			return err
		}
		defer app.close()
		return app.pipeline.Sweep(context.Background(), true)
	},
}

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Post a consolidated news digest now",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp()
		if err != nil {
			return err
		}
		defer app.close()
		return app.pipeline.Digest(context.Background(), true)
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate and deliver the daily report now (resets dedup state)",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp()
		if err != nil {
			return err
		}
		defer app.close()
		return app.pipeline.Report(context.Background())
	},
}

// --- symbols command ---

var symbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "Manage tracked ticker symbols",
}

var symbolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked symbols",
	RunE: func(cmd *cobra.Command, args []string) error {
		symbols, _ := openStores()
		list := symbols.List()
		if len(list) == 0 {
			fmt.Println("No symbols tracked. Add one with: tickerherald symbols add AAPL")
			return nil
		}

		fmt.Println("📈 Tracked symbols:")
		for _, s := range list {
			fmt.Printf("  %-8s %s\n", s.Symbol, s.Type)
		}
		return nil
	},
}

var symbolsAddCmd = &cobra.Command{
	Use:   "add [symbol]",
	Short: "Track a new symbol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		symbols, _ := openStores()
		symbol := state.Normalize(args[0])

		symbolType := market.NewYahooQuoter().Classify(symbol)
		added, err := symbols.Add(symbol, symbolType)
		if err != nil {
			return err
		}
		if !added {
			fmt.Printf("%s is already being tracked.\n", symbol)
			return nil
		}
		fmt.Printf("✅ Added %s (%s).\n", symbol, symbolType)
		return nil
	},
}

var symbolsRemoveCmd = &cobra.Command{
	Use:   "remove [symbol]",
	Short: "Stop tracking a symbol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		symbols, _ := openStores()
		symbol := state.Normalize(args[0])

		removed, err := symbols.Remove(symbol)
		if err != nil {
			return err
		}
		if !removed {
			fmt.Printf("%s not found.\n", symbol)
			return nil
		}
		fmt.Printf("✅ Removed %s.\n", symbol)
		return nil
	},
}

var symbolsRevalidateCmd = &cobra.Command{
	Use:   "revalidate",
	Short: "Re-classify all tracked symbols against the reference data",
	RunE: func(cmd *cobra.Command, args []string) error {
		symbols, _ := openStores()
		quoter := market.NewYahooQuoter()

		for _, s := range symbols.List() {
			newType := quoter.Classify(s.Symbol)
			if newType == s.Type {
				continue
			}
			if err := symbols.Set(s.Symbol, newType); err != nil {
				return err
			}
			fmt.Printf("%s: %s -> %s\n", s.Symbol, s.Type, newType)
		}
		fmt.Println("Revalidation complete.")
		return nil
	},
}

func init() {
	symbolsCmd.AddCommand(symbolsListCmd)
	symbolsCmd.AddCommand(symbolsAddCmd)
	symbolsCmd.AddCommand(symbolsRemoveCmd)
	symbolsCmd.AddCommand(symbolsRevalidateCmd)
}

// --- wiring ---

// app is the application context built once per invocation and handed to
// every job; there are no package-level collaborators.
type app struct {
	pipeline *pipeline.Pipeline
	symbols  *state.SymbolStore
	webhook  *gateway.WebhookLogger
	discord  *gateway.Discord
	archive  *database.DB
}

func (a *app) close() {
	if a.discord != nil {
		a.discord.Close()
	}
	if a.archive != nil {
		a.archive.Close()
	}
}

// buildApp connects the gateway and wires the pipeline. An unreachable
// gateway or unusable archive aborts startup; everything downstream
// degrades gracefully instead.
func buildApp() (*app, error) {
	discord, err := gateway.NewDiscord(os.Getenv(cfg.Discord.TokenEnv))
	if err != nil {
		return nil, fmt.Errorf("connecting messaging gateway: %w", err)
	}
	if cfg.Discord.NewsChannelID == "" {
		discord.Close()
		return nil, fmt.Errorf("discord.news_channel_id is not configured")
	}

	archive, err := openArchive()
	if err != nil {
		discord.Close()
		return nil, err
	}

	symbols, seen := openStores()
	webhook := gateway.NewWebhookLogger(os.Getenv(cfg.Discord.LogWebhookEnv))

	var providers []news.Provider
	if cfg.Sources.NewsAPI.Enabled {
		api := news.NewAPIProvider(cfg.Sources.NewsAPI.APIKeyEnv, cfg.Sources.NewsAPI.Language)
		if api.IsConfigured() {
			providers = append(providers, api)
		} else {
			log.Printf("NewsAPI enabled but %s is not set; provider disabled", cfg.Sources.NewsAPI.APIKeyEnv)
		}
	}
	if cfg.Sources.Feed.Enabled {
		providers = append(providers, news.NewFeedProvider(cfg.Sources.Feed.URLTemplate, cfg.Sources.Feed.Name))
	}

	fetcher := news.NewFetcher(seen, providers, archive, webhook)
	generator := report.NewGenerator(
		archive,
		symbols,
		market.NewYahooQuoter(),
		cfg.Report.QuoteTimeout.Std(),
		fetch.NewExcerptFetcher(15*time.Second),
		filepath.Join(cfg.GetDataDir(), "reports"),
		cfg.Report.PDF,
	)

	p := pipeline.New(pipeline.Options{
		Gateway:   discord,
		Notifier:  webhook,
		Fetcher:   fetcher,
		Symbols:   symbols,
		Seen:      seen,
		Archive:   archive,
		Reports:   generator,
		Hours:     marketHours(),
		ChannelID: cfg.Discord.NewsChannelID,
		ChunkSize: cfg.Message.ChunkSize,
	})

	return &app{
		pipeline: p,
		symbols:  symbols,
		webhook:  webhook,
		discord:  discord,
		archive:  archive,
	}, nil
}

func openStores() (*state.SymbolStore, *state.SeenStore) {
	dataDir := cfg.GetDataDir()
	return state.NewSymbolStore(filepath.Join(dataDir, "symbols.json")),
		state.NewSeenStore(filepath.Join(dataDir, "seen.json"))
}

func openArchive() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return database.Open(filepath.Join(dataDir, "tickerherald.db"))
}

func marketHours() market.Hours {
	return market.NewHours(cfg.Location(), cfg.Market.OpenHour, cfg.Market.CloseHour)
}
