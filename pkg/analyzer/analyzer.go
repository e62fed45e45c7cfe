package analyzer

import (
	"sort"

	"github.com/amosWeiskopf/quotesmith/internal/models"
)

// Count is a name with its number of occurrences.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary describes a finished crawl.
type Summary struct {
	Quotes     int     `json:"quotes"`
	Pages      int     `json:"pages"`
	Authors    int     `json:"authors"`
	Tags       int     `json:"tags"`
	Untagged   int     `json:"untagged"`
	TopTags    []Count `json:"top_tags"`
	TopAuthors []Count `json:"top_authors"`
	Duration   string  `json:"duration"`
}

// Summarize counts quotes, authors and tags of a crawl result. TopTags and
// TopAuthors hold at most topN entries, highest count first, ties in
// alphabetical order.
func Summarize(result *models.CrawlResult, topN int) Summary {
	if result == nil {
		return Summary{TopTags: []Count{}, TopAuthors: []Count{}}
	}

	authors := make(map[string]int)
	tags := make(map[string]int)
	untagged := 0
	for _, q := range result.Quotes {
		authors[q.Author]++
		if len(q.Tags) == 0 {
			untagged++
		}
		for _, t := range q.Tags {
			tags[t]++
		}
	}

	s := Summary{
		Quotes:     len(result.Quotes),
		Pages:      result.Pages,
		Authors:    len(authors),
		Tags:       len(tags),
		Untagged:   untagged,
		TopTags:    topCounts(tags, topN),
		TopAuthors: topCounts(authors, topN),
	}
	if !result.FinishedAt.IsZero() {
		s.Duration = result.FinishedAt.Sub(result.StartedAt).String()
	}
	return s
}

func topCounts(counts map[string]int, n int) []Count {
	out := make([]Count, 0, len(counts))
	for name, c := range counts {
		out = append(out, Count{Name: name, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
