package crawler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"
	"golang.org/x/net/publicsuffix"
)

// Fetcher performs plain GET requests. It never retries: a failed page is
// fatal for the run.
type Fetcher struct {
	client *resty.Client
}

// NewFetcher builds a Fetcher from the crawler options.
func NewFetcher(opts Options) (*Fetcher, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetRetryCount(0).
		SetCookieJar(jar)
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	return &Fetcher{client: client}, nil
}

// Fetch returns the body of pageURL decoded to UTF-8.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	res, err := f.get(ctx, pageURL)
	if err != nil {
		return "", err
	}
	if res.StatusCode() < http.StatusOK || res.StatusCode() >= http.StatusMultipleChoices {
		return "", &FetchError{URL: pageURL, StatusCode: res.StatusCode()}
	}

	r, err := charset.NewReader(bytes.NewReader(res.Body()), res.Header().Get("Content-Type"))
	if err != nil {
		return "", &FetchError{URL: pageURL, StatusCode: res.StatusCode(), Err: fmt.Errorf("decode body: %w", err)}
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", &FetchError{URL: pageURL, StatusCode: res.StatusCode(), Err: fmt.Errorf("decode body: %w", err)}
	}
	return string(body), nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (*resty.Response, error) {
	res, err := f.client.R().
		SetContext(ctx).
		Get(rawURL)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	return res, nil
}
