package crawler

import (
	"errors"
	"fmt"
)

// ErrDisallowedByRobots is wrapped in a FetchError when robots.txt forbids a page.
var ErrDisallowedByRobots = errors.New("disallowed by robots.txt")

// FetchError reports a page that could not be retrieved: a transport
// failure, a timeout or a non-2xx status.
type FetchError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("fetch %s: HTTP %d: %v", e.URL, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// PageLimitError is returned when the site still advertises a next page
// after MaxPages pages were crawled.
type PageLimitError struct {
	Limit int
}

func (e *PageLimitError) Error() string {
	return fmt.Sprintf("page limit of %d reached while the site still reports a next page", e.Limit)
}
