package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/amosWeiskopf/quotesmith/internal/models"
)

func sampleResult() *models.CrawlResult {
	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return &models.CrawlResult{
		Pages: 2,
		Quotes: []models.Quote{
			{Text: "A", Author: "Einstein", Tags: []string{"life", "change"}},
			{Text: "B", Author: "Austen", Tags: []string{"love"}},
			{Text: "C", Author: "Einstein", Tags: []string{"life"}},
			{Text: "D", Author: "Twain", Tags: []string{}},
			{Text: "E", Author: "Austen", Tags: []string{"love", "life"}},
		},
		StartedAt:  start,
		FinishedAt: start.Add(1500 * time.Millisecond),
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleResult(), 2)

	assert.Equal(t, 5, s.Quotes)
	assert.Equal(t, 2, s.Pages)
	assert.Equal(t, 3, s.Authors)
	assert.Equal(t, 3, s.Tags)
	assert.Equal(t, 1, s.Untagged)
	assert.Equal(t, "1.5s", s.Duration)

	assert.Equal(t, []Count{{"life", 3}, {"love", 2}}, s.TopTags)
	// Austen and Einstein tie on two quotes each.
	assert.Equal(t, []Count{{"Austen", 2}, {"Einstein", 2}}, s.TopAuthors)
}

func TestSummarizeTopNLargerThanSet(t *testing.T) {
	s := Summarize(sampleResult(), 10)

	assert.Len(t, s.TopTags, 3)
	assert.Equal(t, Count{"change", 1}, s.TopTags[2])
	assert.Len(t, s.TopAuthors, 3)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(&models.CrawlResult{Pages: 1}, 5)

	assert.Zero(t, s.Quotes)
	assert.Equal(t, 1, s.Pages)
	assert.Empty(t, s.TopTags)
	assert.Empty(t, s.Duration)

	assert.NotPanics(t, func() { Summarize(nil, 5) })
}
