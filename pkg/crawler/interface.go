package crawler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amosWeiskopf/quotesmith/internal/models"
)

// PageFetcher retrieves the raw HTML behind a URL.
type PageFetcher interface {
	// Fetch returns the body of url decoded to UTF-8
	Fetch(ctx context.Context, url string) (string, error)
}

// PageParser turns raw HTML into models. Implementations must be pure.
type PageParser interface {
	// Parse extracts the quotes and next-page flag of a listing page
	Parse(html string) (models.Page, error)

	// ParseAuthor extracts an author bio page
	ParseAuthor(html string) (models.Author, error)
}

// Options contains configuration for the crawler
type Options struct {
	BaseURL         string        // Listing root, also page 1
	PagePath        string        // Path template for page n >= 2, relative to BaseURL
	Timeout         time.Duration // Per request timeout
	UserAgent       string        // Empty keeps the HTTP client default
	MaxPages        int           // Traversal cap, 0 disables it
	FollowRobotsTxt bool          // Check robots.txt before fetching
}

// PageURL builds the URL of listing page n. Page 1 is the base URL itself.
func (o Options) PageURL(n int) string {
	if n <= 1 {
		return o.BaseURL
	}
	base := o.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + fmt.Sprintf(o.PagePath, n)
}

func (o Options) agent() string {
	if o.UserAgent != "" {
		return o.UserAgent
	}
	return "quotesmith"
}
