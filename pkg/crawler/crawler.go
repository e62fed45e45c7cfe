package crawler

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amosWeiskopf/quotesmith/internal/models"
	"github.com/amosWeiskopf/quotesmith/pkg/extractor"
	"github.com/amosWeiskopf/quotesmith/pkg/utils"
)

// crawlState is the pagination state machine: keep going while the last
// page showed a next control, stop on the first page that did not.
type crawlState int

const (
	stateHasNext crawlState = iota
	stateDone
)

type robotsLoader interface {
	loadRobots(ctx context.Context, baseURL, agent string) robotsPolicy
}

// Crawler walks the paginated listing from page 1 until the next control
// disappears. A Crawler keeps no state between runs.
type Crawler struct {
	opts    Options
	base    *url.URL
	fetcher PageFetcher
	parser  PageParser
	logger  logrus.FieldLogger
}

// New creates a crawler with the HTTP fetcher and the goquery extractor.
func New(opts Options, logger logrus.FieldLogger) (*Crawler, error) {
	if err := validateBaseURL(opts.BaseURL); err != nil {
		return nil, err
	}
	f, err := NewFetcher(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create fetcher: %w", err)
	}
	return NewWithComponents(opts, f, extractor.New(), logger)
}

// NewWithComponents creates a crawler around caller supplied fetcher and parser.
func NewWithComponents(opts Options, fetcher PageFetcher, parser PageParser, logger logrus.FieldLogger) (*Crawler, error) {
	if err := validateBaseURL(opts.BaseURL); err != nil {
		return nil, err
	}
	if opts.PagePath == "" {
		opts.PagePath = "page/%d/"
	}
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}
	base, _ := url.Parse(opts.BaseURL)
	return &Crawler{
		opts:    opts,
		base:    base,
		fetcher: fetcher,
		parser:  parser,
		logger:  logger,
	}, nil
}

func validateBaseURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid URL %q: must be absolute", rawURL)
	}
	return nil
}

// Crawl fetches every listing page in order and returns all quotes in page
// order, then document order within a page. Any failure aborts the crawl.
func (c *Crawler) Crawl(ctx context.Context) (*models.CrawlResult, error) {
	result := &models.CrawlResult{
		BaseURL:   c.opts.BaseURL,
		Quotes:    []models.Quote{},
		StartedAt: time.Now(),
	}

	robots := robotsPolicy{}
	if c.opts.FollowRobotsTxt {
		if rl, ok := c.fetcher.(robotsLoader); ok {
			robots = rl.loadRobots(ctx, c.opts.BaseURL, c.opts.agent())
		}
	}

	seenAuthors := make(map[string]bool)
	state := stateHasNext
	for n := 1; state == stateHasNext; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if c.opts.MaxPages > 0 && n > c.opts.MaxPages {
			return nil, &PageLimitError{Limit: c.opts.MaxPages}
		}

		page, err := c.crawlPage(ctx, n, robots)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", n, err)
		}

		result.Pages++
		result.Quotes = append(result.Quotes, page.Quotes...)
		for _, p := range page.AuthorPaths {
			key := utils.NormalizeURL(p)
			if !seenAuthors[key] {
				seenAuthors[key] = true
				result.AuthorPaths = append(result.AuthorPaths, p)
			}
		}

		if !page.HasNext {
			state = stateDone
		}
	}

	result.FinishedAt = time.Now()
	c.logger.WithFields(logrus.Fields{
		"pages":  result.Pages,
		"quotes": len(result.Quotes),
	}).Debug("Crawl finished")
	return result, nil
}

func (c *Crawler) crawlPage(ctx context.Context, n int, robots robotsPolicy) (models.Page, error) {
	pageURL := c.opts.PageURL(n)
	log := c.logger.WithField("url", pageURL)
	log.Infof("Start parsing page %d", n)

	if !robots.allowed(pageURL) {
		return models.Page{}, &FetchError{URL: pageURL, Err: ErrDisallowedByRobots}
	}

	body, err := c.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return models.Page{}, err
	}

	page, err := c.parser.Parse(body)
	if err != nil {
		return models.Page{}, err
	}
	page.Number = n
	page.URL = pageURL

	entry := log.WithFields(logrus.Fields{
		"quotes":   len(page.Quotes),
		"has_next": page.HasNext,
	})
	if len(page.Quotes) > 0 {
		entry = entry.WithField("first", utils.TruncateText(page.Quotes[0].Text, 40))
	}
	entry.Debug("Parsed page")
	return page, nil
}

// FetchAuthors fetches and parses the bio page behind each author path,
// one at a time and in the given order.
func (c *Crawler) FetchAuthors(ctx context.Context, paths []string) ([]models.Author, error) {
	authors := make([]models.Author, 0, len(paths))
	for i, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ref, err := url.Parse(p)
		if err != nil {
			return nil, fmt.Errorf("author path %q: %w", p, err)
		}
		authorURL := c.base.ResolveReference(ref).String()
		c.logger.WithField("url", authorURL).Infof("Start parsing author %d/%d", i+1, len(paths))

		body, err := c.fetcher.Fetch(ctx, authorURL)
		if err != nil {
			return nil, fmt.Errorf("author %s: %w", p, err)
		}
		a, err := c.parser.ParseAuthor(body)
		if err != nil {
			return nil, fmt.Errorf("author %s: %w", p, err)
		}
		a.URL = authorURL
		authors = append(authors, a)
	}
	return authors, nil
}
