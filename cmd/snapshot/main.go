// Command snapshot renders the portfolio once and writes the page, the PDF
// report and the heatmap JSON to a directory, for static hosting.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/caiobertoldo/living-portfolio/internal/config"
	"github.com/caiobertoldo/living-portfolio/internal/github"
	"github.com/caiobertoldo/living-portfolio/internal/portfolio"
	"github.com/caiobertoldo/living-portfolio/internal/report"
	"github.com/caiobertoldo/living-portfolio/internal/settings"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	var (
		account string
		outDir  string
		skipPDF bool
	)
	flag.StringVar(&account, "user", cfg.GitHubUsername, "GitHub username to report on")
	flag.StringVar(&outDir, "out", "snapshot", "output directory")
	flag.BoolVar(&skipPDF, "no-pdf", false, "skip the PDF report")
	flag.Parse()

	if cfg.GitHubToken == "" {
		slog.Warn("GITHUB_TOKEN not set, using unauthenticated GitHub API (rate limited)")
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatalf("Failed to create %s: %v", outDir, err)
	}

	// three sequential fetches, each bounded by the client timeout
	ctx, cancel := context.WithTimeout(context.Background(), 3*cfg.GitHubTimeout+5*time.Second)
	defer cancel()

	client := github.NewClient(github.Options{
		Token:   cfg.GitHubToken,
		BaseURL: cfg.GitHubAPIURL,
		Timeout: cfg.GitHubTimeout,
	})
	source := portfolio.NewSource(client, account)

	now := time.Now()
	summary := portfolio.Collect(ctx, source, now, portfolio.NewRand(), portfolio.DefaultBaseline)

	written := []string{}

	page, err := report.RenderPage(report.BuildPage(summary, account, settings.NewDefaults(), now))
	if err != nil {
		log.Fatalf("Failed to render page: %v", err)
	}
	written = append(written, writeFile(outDir, "index.html", page))

	heatmap, err := json.MarshalIndent(summary.Heatmap, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode heatmap: %v", err)
	}
	written = append(written, writeFile(outDir, "heatmap.json", heatmap))

	if !skipPDF {
		if summary.ProfileFound {
			pdf, err := report.RenderPDF(report.Document{
				Profile:     summary.Profile,
				Languages:   summary.Languages,
				Featured:    summary.Featured,
				GeneratedAt: now,
			})
			if err != nil {
				log.Fatalf("Failed to render PDF: %v", err)
			}
			written = append(written, writeFile(outDir, report.PDFFilename(account, now), pdf))
		} else {
			slog.Warn("Profile unavailable, skipping PDF", "account", account)
		}
	}

	if summary.Synthetic {
		slog.Warn("Events unavailable, heatmap is synthetic", "account", account)
	}

	fmt.Printf("snapshot: wrote %d files for %q to %s\n", len(written), account, outDir)
	for _, path := range written {
		fmt.Printf("  %s\n", path)
	}
}

func writeFile(dir, name string, data []byte) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}
