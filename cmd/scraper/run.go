package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go-dgpa-watcher/internal/browser"
	"go-dgpa-watcher/internal/config"
	"go-dgpa-watcher/internal/database"
	"go-dgpa-watcher/internal/dedup"
	"go-dgpa-watcher/internal/extract"
	"go-dgpa-watcher/internal/filter"
	"go-dgpa-watcher/internal/models"
	"go-dgpa-watcher/internal/scraper"
	"go-dgpa-watcher/internal/scraper/dgpa"
	"go-dgpa-watcher/internal/telegram"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runKeyword string
	runLimit   int
	dryRun     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scrape, extract and announce new postings (default)",
	Args:  cobra.NoArgs,
	RunE:  runWatcher,
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&runKeyword, "keyword", "k", "", "Search keyword (overrides config and DGPA_KEYWORD)")
	cmd.Flags().IntVarP(&runLimit, "limit", "n", 0, "Number of postings shown in the digest")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the digest instead of sending it")
}

func runWatcher(cmd *cobra.Command, args []string) error {
	//load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	for _, w := range cfg.Warnings {
		logger.Warn("⚠️ Config", zap.String("warning", w))
	}
	if runKeyword != "" {
		cfg.Keyword = runKeyword
	}
	if runLimit > 0 {
		cfg.PreviewLimit = runLimit
	}
	if err := cfg.Validate(!dryRun); err != nil {
		return err
	}
	logger.Info("🔧 Config loaded", zap.String("keyword", cfg.Keyword), zap.Bool("dry_run", dryRun))

	//init telegram bot
	var bot *telegram.Bot
	if !dryRun {
		bot, err = telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			return fmt.Errorf("failed to init Telegram bot: %w", err)
		}
		logger.Info("🤖 Telegram Bot initialized.")
	}

	//setup context with timeout = 10 mins, cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	logger.Info("🚀 Starting DGPA watcher...")
	if err := watch(ctx, cfg, bot, cmd); err != nil {
		logger.Error("❌ Run failed", zap.Error(err))
		if bot != nil {
			//report with a fresh context, the run context may be the reason for the failure
			sendCtx, sendCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer sendCancel()
			if sendErr := bot.SendError(sendCtx, err); sendErr != nil {
				logger.Warn("⚠️ Failed to send error to Telegram", zap.Error(sendErr))
			}
		}
		return err
	}

	logger.Info("🏁 Execution finished.")
	return nil
}

func watch(ctx context.Context, cfg *config.Config, bot *telegram.Bot, cmd *cobra.Command) error {
	html, err := acquire(ctx, cfg, dgpa.NewScraper(dgpa.Options{
		URL:       cfg.SearchURL,
		Retries:   cfg.Browser.Retries,
		TimeoutMs: float64(cfg.Browser.TimeoutSeconds * 1000),
	}, logger, browser.NewScreenshotDebugger("logs/screenshots", logger)))
	if err != nil {
		return err
	}

	res, err := newExtractor(cfg, cfg.FallbackEnabled()).Extract(html, cfg.Keyword)
	if err != nil {
		return err
	}
	if !res.TableFound {
		logger.Warn("⚠️ Results page has no table", zap.String("keyword", cfg.Keyword))
	}

	postings := res.Postings
	if cfg.OnlyActive {
		postings = filter.Active(postings, time.Now())
		logger.Info("Filtered active postings", zap.Int("active", len(postings)), zap.Int("total", len(res.Postings)))
	}

	persist(ctx, cfg, res, postings)

	//dedup postings
	cache := dedup.NewPostingCache(cfg.CachePath, logger)
	fresh := cache.Unseen(postings)
	logger.Info("🔍 Deduplication", zap.Int("total", len(postings)), zap.Int("unseen", len(fresh)))

	if dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), telegram.FormatDigest(cfg.Keyword, fresh, cfg.PreviewLimit))
	} else {
		if err := bot.SendDigest(ctx, cfg.Keyword, fresh, cfg.PreviewLimit); err != nil {
			return fmt.Errorf("failed to send digest: %w", err)
		}
		logger.Info("📨 Digest sent", zap.Int("postings", len(fresh)))

		//only mark postings that were actually sent
		if err := cache.Add(fresh); err != nil {
			logger.Warn("⚠️ Failed to save posting cache", zap.Error(err))
		}
	}

	saveResults(fresh)
	return nil
}

func acquire(ctx context.Context, cfg *config.Config, acq scraper.Acquirer) (string, error) {
	pwManager, err := browser.NewPlaywright(browser.Options{
		Headless:  cfg.Headless(),
		TimeoutMs: float64(cfg.Browser.TimeoutSeconds * 1000),
	})
	if err != nil {
		return "", err
	}
	//close playwright when the run ends
	defer func() {
		if err := pwManager.Close(); err != nil {
			logger.Warn("⚠️ Failed to close Playwright", zap.Error(err))
		}
	}()

	page, err := pwManager.NewPage()
	if err != nil {
		return "", err
	}
	logger.Info("✅ Browser initialized successfully!")

	logger.Info("▶️ Starting acquirer", zap.String("name", acq.Name()))
	return acq.Acquire(ctx, page, cfg.Keyword)
}

// persist stores postings and run counts when a database is configured. Failures are logged only.
func persist(ctx context.Context, cfg *config.Config, res extract.Result, postings []models.JobPosting) {
	if cfg.DatabaseURL == "" {
		return
	}

	repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Warn("⚠️ Database unavailable, skipping persistence", zap.Error(err))
		return
	}
	defer repo.Close()

	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Warn("⚠️ Skipping persistence", zap.Error(err))
		return
	}

	saved := 0
	for _, p := range postings {
		if _, err := repo.SavePosting(ctx, p, cfg.Keyword); err != nil {
			logger.Warn("⚠️ Failed to save posting", zap.String("title", p.Title), zap.Error(err))
			continue
		}
		saved++
	}

	if _, err := repo.RecordRun(ctx, cfg.Keyword, len(res.Postings), len(res.Unparsed)); err != nil {
		logger.Warn("⚠️ Failed to record run", zap.Error(err))
	}
	logger.Info("💾 Postings saved", zap.Int("saved", saved))
}

func saveResults(postings []models.JobPosting) {
	if len(postings) == 0 {
		logger.Info("ℹ️ No postings to save.")
		return
	}

	//create logs directory if not exists
	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		logger.Warn("⚠️ Failed to create logs directory", zap.Error(err))
		return
	}

	//gen filename: dgpa-postings-YYYY-MM-DD.json
	filePath := filepath.Join(logDir, fmt.Sprintf("dgpa-postings-%s.json", time.Now().Format("2006-01-02")))

	data, err := json.MarshalIndent(postings, "", " ")
	if err != nil {
		logger.Warn("⚠️ Failed to marshal postings to JSON", zap.Error(err))
		return
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		logger.Warn("⚠️ Failed to write results file", zap.Error(err))
		return
	}

	logger.Info("📁 Results saved", zap.String("path", filePath))
}
