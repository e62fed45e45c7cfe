package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amosWeiskopf/quotesmith/pkg/crawler"
)

const page1 = `<html><body><div class="row"><div class="col-md-8">
<div class="quote"><span class="text">A</span><span>by <small class="author">X</small> <a href="/author/X">(about)</a></span>
<div class="tags"><a class="tag">wisdom</a><a class="tag">life</a></div></div>
<div class="quote"><span class="text">B, "quoted"</span><span>by <small class="author">Y</small></span><div class="tags"></div></div>
<nav><ul class="pager"><li class="next"><a href="/page/2/">Next</a></li></ul></nav>
</div></div></body></html>`

const page2 = `<html><body><div class="row"><div class="col-md-8">
<div class="quote"><span class="text">C</span><span>by <small class="author">X</small> <a href="/author/X">(about)</a></span><div class="tags"></div></div>
<nav><ul class="pager"><li class="previous"><a href="/">Previous</a></li></ul></nav>
</div></div></body></html>`

const authorX = `<html><body><h3 class="author-title">X</h3><span class="author-born-date">June 1, 1900</span>
<span class="author-born-location">in Nowhere</span><div class="author-description">Said things.</div></body></html>`

func newSite(t *testing.T, failPage2 bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, page1)
	})
	mux.HandleFunc("/page/2/", func(w http.ResponseWriter, r *http.Request) {
		if failPage2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, page2)
	})
	mux.HandleFunc("/author/X", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, authorX)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunWritesCSV(t *testing.T) {
	server := newSite(t, false)
	t.Setenv("QUOTESMITH_CRAWLER_BASE_URL", server.URL+"/")
	path := filepath.Join(t.TempDir(), "out.csv")

	logs, err := execute(t, path)
	require.NoError(t, err)

	assert.Contains(t, logs, "[    INFO]: Start parsing page 1")
	assert.Contains(t, logs, "[    INFO]: Start parsing page 2")
	assert.Contains(t, logs, "Saved 3 quotes to "+path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"text", "author", "tags"},
		{"A", "X", "wisdom|life"},
		{`B, "quoted"`, "Y", ""},
		{"C", "X", ""},
	}, records)
}

func TestRunFromConfigFile(t *testing.T) {
	server := newSite(t, false)
	dir := t.TempDir()
	out := filepath.Join(dir, "quotes.json")
	authors := filepath.Join(dir, "authors.csv")
	cfgPath := filepath.Join(dir, "quotesmith.yaml")
	cfg := fmt.Sprintf("crawler:\n  base_url: %s/\n  timeout: 5s\noutput:\n  path: %s\n", server.URL, out)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	_, err := execute(t, "--config", cfgPath, "--format", "json", "--authors-output", authors)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"text": "C"`)

	data, err = os.ReadFile(authors)
	require.NoError(t, err)
	assert.Equal(t,
		"name,born_date,born_location,description,url\n"+
			"X,\"June 1, 1900\",Nowhere,Said things.,"+server.URL+"/author/X\n",
		string(data))
}

func TestRunFetchFailureWritesNothing(t *testing.T) {
	server := newSite(t, true)
	t.Setenv("QUOTESMITH_CRAWLER_BASE_URL", server.URL+"/")
	path := filepath.Join(t.TempDir(), "out.csv")

	_, err := execute(t, path)
	require.Error(t, err)

	var fErr *crawler.FetchError
	require.ErrorAs(t, err, &fErr)
	assert.Equal(t, http.StatusInternalServerError, fErr.StatusCode)
	assert.NoFileExists(t, path)
}

func TestRunPageLimit(t *testing.T) {
	server := newSite(t, false)
	t.Setenv("QUOTESMITH_CRAWLER_BASE_URL", server.URL+"/")
	path := filepath.Join(t.TempDir(), "out.csv")

	_, err := execute(t, "--max-pages", "1", path)

	var limitErr *crawler.PageLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.NoFileExists(t, path)
}

func TestRunInvalidConfig(t *testing.T) {
	_, err := execute(t, "--format", "xml", filepath.Join(t.TempDir(), "out.xml"))
	assert.ErrorContains(t, err, "unsupported output.format: xml")
}

func TestRunRejectsExtraArgs(t *testing.T) {
	_, err := execute(t, "a.csv", "b.csv")
	assert.Error(t, err)
}
