package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/amosWeiskopf/quotesmith/internal/config"
	"github.com/amosWeiskopf/quotesmith/internal/models"
	"github.com/amosWeiskopf/quotesmith/pkg/analyzer"
	"github.com/amosWeiskopf/quotesmith/pkg/crawler"
	"github.com/amosWeiskopf/quotesmith/pkg/reporter"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	var configPath string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "quotesmith [OUTPUT]",
		Short: "Scrape quotes.toscrape.com into a CSV file",
		Long: `quotesmith walks every listing page of quotes.toscrape.com, starting at
page 1 and following the "next" control until it disappears, and writes each
quote's text, author and tags to OUTPUT (default quotes.csv).`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				v.Set("output.path", args[0])
			}
			cfg, err := config.LoadWith(v, configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if verbose {
				cfg.Logging.Level = "debug"
			}
			log, err := config.NewLoggerTo(cmd.OutOrStdout(), cfg.Logging)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, log)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "Config file path")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	flags.String("format", "csv", "Output format (csv, json)")
	flags.String("authors-output", "", "Also fetch author bios and write them to this CSV file")
	flags.Int("max-pages", 500, "Abort when the site has more pages than this (0 disables the check)")

	v.BindPFlag("output.format", flags.Lookup("format"))
	v.BindPFlag("output.authors_path", flags.Lookup("authors-output"))
	v.BindPFlag("crawler.max_pages", flags.Lookup("max-pages"))

	return cmd
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	c, err := crawler.New(crawler.Options{
		BaseURL:         cfg.Crawler.BaseURL,
		PagePath:        cfg.Crawler.PagePath,
		Timeout:         cfg.Crawler.Timeout,
		UserAgent:       cfg.Crawler.UserAgent,
		MaxPages:        cfg.Crawler.MaxPages,
		FollowRobotsTxt: cfg.Crawler.FollowRobotsTxt,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to create crawler: %w", err)
	}

	result, err := c.Crawl(ctx)
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	var authors []models.Author
	if cfg.Output.AuthorsPath != "" {
		authors, err = c.FetchAuthors(ctx, result.AuthorPaths)
		if err != nil {
			return fmt.Errorf("author bios failed: %w", err)
		}
	}

	r := reporter.New(cfg.Output.Format, cfg.Output.TagSeparator)
	if err := r.Write(result.Quotes, cfg.Output.Path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if cfg.Output.AuthorsPath != "" {
		if err := reporter.WriteAuthorsCSV(authors, cfg.Output.AuthorsPath); err != nil {
			return fmt.Errorf("failed to write author bios: %w", err)
		}
	}

	s := analyzer.Summarize(result, 5)
	log.WithFields(logrus.Fields{
		"pages":    s.Pages,
		"authors":  s.Authors,
		"tags":     s.Tags,
		"duration": s.Duration,
	}).Infof("Saved %d quotes to %s", s.Quotes, cfg.Output.Path)
	log.WithFields(logrus.Fields{
		"top_tags":    s.TopTags,
		"top_authors": s.TopAuthors,
	}).Debug("Summary")
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
