package vrl

import (
	"context"
	"os"
	"os/exec"

	"github.com/chromedp/chromedp"

	"bus-scraper/config"
)

// newAllocator creates a Chrome exec allocator context from the given Config.
func newAllocator(parent context.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(cfg.UserAgent),
		chromedp.WindowSize(1440, 900),
	)
	if bin := findChromeBinary(cfg.ChromeBin); bin != "" {
		opts = append(opts, chromedp.ExecPath(bin))
	}
	return chromedp.NewExecAllocator(parent, opts...)
}

// findChromeBinary locates Chrome/Chromium, preferring the configured path.
// An empty result lets chromedp use its own lookup.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
