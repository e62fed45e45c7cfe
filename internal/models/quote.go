package models

import (
	"strings"
	"time"
)

// QuoteFields is the column order used by every writer.
var QuoteFields = []string{"text", "author", "tags"}

// AuthorFields is the column order of the author bio output.
var AuthorFields = []string{"name", "born_date", "born_location", "description", "url"}

// Quote represents one quote extracted from a listing page
type Quote struct {
	Text   string   `json:"text"`
	Author string   `json:"author"`
	Tags   []string `json:"tags"`
}

// Row returns the quote as a record ordered like QuoteFields, with the
// tags joined by sep.
func (q Quote) Row(sep string) []string {
	return []string{q.Text, q.Author, strings.Join(q.Tags, sep)}
}

// Author represents the bio page of a quoted author
type Author struct {
	Name         string `json:"name"`
	BornDate     string `json:"born_date"`
	BornLocation string `json:"born_location"`
	Description  string `json:"description"`
	URL          string `json:"url"`
}

// Row returns the author ordered like AuthorFields.
func (a Author) Row() []string {
	return []string{a.Name, a.BornDate, a.BornLocation, a.Description, a.URL}
}

// Page is the parsed form of one listing page. It only lives for a single
// fetch/parse cycle.
type Page struct {
	Number      int      `json:"number"`
	URL         string   `json:"url"`
	Quotes      []Quote  `json:"quotes"`
	AuthorPaths []string `json:"author_paths"`
	HasNext     bool     `json:"has_next"`
}

// CrawlResult contains the results of a crawl operation
type CrawlResult struct {
	BaseURL     string    `json:"base_url"`
	Quotes      []Quote   `json:"quotes"`
	Pages       int       `json:"pages"`
	AuthorPaths []string  `json:"author_paths"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}
