package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// ScreenshotDebugger saves full-page screenshots when acquisition fails
type ScreenshotDebugger struct {
	outputDir string
	logger    *zap.Logger
}

func NewScreenshotDebugger(outputDir string, logger *zap.Logger) *ScreenshotDebugger {
	if outputDir == "" {
		outputDir = filepath.Join(".", "logs", "screenshots")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScreenshotDebugger{
		outputDir: outputDir,
		logger:    logger,
	}
}

func (s *ScreenshotDebugger) CaptureAndLog(page playwright.Page, name, message string) error {
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return fmt.Errorf("could not create screenshot directory: %w", err)
	}
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	path := filepath.Join(s.outputDir, fmt.Sprintf("%s_%s.png", name, timestamp))
	s.logger.Info("📸 "+message, zap.String("name", name))

	//Take screenshot
	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		s.logger.Warn("⚠️ Failed to capture screenshot", zap.Error(err))
		return err
	}

	s.logger.Info("Screenshot saved", zap.String("path", path))
	return nil
}
