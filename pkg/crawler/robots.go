package crawler

import (
	"context"
	"net/http"
	"net/url"

	"github.com/temoto/robotstxt"
)

// robotsPolicy answers whether a page may be fetched. A nil data allows
// everything.
type robotsPolicy struct {
	data  *robotstxt.RobotsData
	agent string
}

// loadRobots fetches robots.txt next to baseURL. An unreachable or non-200
// robots.txt allows every page.
func (f *Fetcher) loadRobots(ctx context.Context, baseURL, agent string) robotsPolicy {
	policy := robotsPolicy{agent: agent}

	u, err := url.Parse(baseURL)
	if err != nil {
		return policy
	}
	robotsURL := u.ResolveReference(&url.URL{Path: "/robots.txt"}).String()

	res, err := f.get(ctx, robotsURL)
	if err != nil || res.StatusCode() != http.StatusOK {
		return policy
	}

	data, err := robotstxt.FromStatusAndBytes(res.StatusCode(), res.Body())
	if err != nil {
		return policy
	}
	policy.data = data
	return policy
}

func (p robotsPolicy) allowed(pageURL string) bool {
	if p.data == nil {
		return true
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return true
	}
	return p.data.TestAgent(u.RequestURI(), p.agent)
}
