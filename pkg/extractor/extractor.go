package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/amosWeiskopf/quotesmith/internal/models"
	"github.com/amosWeiskopf/quotesmith/pkg/utils"
)

// Selectors for the quotes.toscrape.com markup. The markup is assumed
// stable; a missing text or author element is reported, never skipped.
const (
	QuoteSelector    = "div.quote"
	TextSelector     = ".text"
	AuthorSelector   = ".author"
	TagSelector      = ".tag"
	AuthorLinkSel    = "a[href]"
	NextPageSelector = "div.row > div.col-md-8 > nav > ul > li.next"

	AuthorTitleSelector    = ".author-title"
	AuthorBornDateSelector = ".author-born-date"
	AuthorBornLocSelector  = ".author-born-location"
	AuthorDescSelector     = ".author-description"
)

// MalformedPageError reports a quote fragment (or author page) that lacks
// one of its designated elements.
type MalformedPageError struct {
	Fragment int    // index of the div.quote on the page, -1 for author pages
	Selector string // the selector that matched nothing
}

func (e *MalformedPageError) Error() string {
	if e.Fragment < 0 {
		return fmt.Sprintf("malformed page: missing %q", e.Selector)
	}
	return fmt.Sprintf("malformed page: quote #%d has no %q element", e.Fragment+1, e.Selector)
}

// Extractor turns listing and author pages into models. It holds no state
// between calls.
type Extractor struct{}

// New creates a new Extractor instance
func New() *Extractor {
	return &Extractor{}
}

// Parse extracts every quote on a listing page, in document order, and
// reports whether the page carries a next-page control.
func (e *Extractor) Parse(htmlContent string) (models.Page, error) {
	doc, err := newDocument(htmlContent)
	if err != nil {
		return models.Page{}, err
	}

	page := models.Page{
		Quotes: []models.Quote{},
	}
	var parseErr error
	doc.Find(QuoteSelector).EachWithBreak(func(i int, s *goquery.Selection) bool {
		q, authorPath, err := parseQuote(i, s)
		if err != nil {
			parseErr = err
			return false
		}
		page.Quotes = append(page.Quotes, q)
		if authorPath != "" {
			page.AuthorPaths = append(page.AuthorPaths, authorPath)
		}
		return true
	})
	if parseErr != nil {
		return models.Page{}, parseErr
	}

	page.HasNext = doc.Find(NextPageSelector).Length() > 0
	return page, nil
}

func parseQuote(i int, s *goquery.Selection) (models.Quote, string, error) {
	text := s.Find(TextSelector).First()
	if text.Length() == 0 {
		return models.Quote{}, "", &MalformedPageError{Fragment: i, Selector: TextSelector}
	}
	author := s.Find(AuthorSelector).First()
	if author.Length() == 0 {
		return models.Quote{}, "", &MalformedPageError{Fragment: i, Selector: AuthorSelector}
	}

	tags := []string{}
	s.Find(TagSelector).Each(func(_ int, t *goquery.Selection) {
		tags = append(tags, t.Text())
	})

	// The "(about)" link sits next to the author name.
	authorPath, _ := author.Parent().Find(AuthorLinkSel).First().Attr("href")

	return models.Quote{
		Text:   text.Text(),
		Author: author.Text(),
		Tags:   tags,
	}, authorPath, nil
}

// ParseAuthor extracts the bio from an author detail page.
func (e *Extractor) ParseAuthor(htmlContent string) (models.Author, error) {
	doc, err := newDocument(htmlContent)
	if err != nil {
		return models.Author{}, err
	}

	title := doc.Find(AuthorTitleSelector).First()
	if title.Length() == 0 {
		return models.Author{}, &MalformedPageError{Fragment: -1, Selector: AuthorTitleSelector}
	}

	return models.Author{
		Name:         utils.CleanText(title.Text()),
		BornDate:     utils.CleanText(doc.Find(AuthorBornDateSelector).First().Text()),
		BornLocation: strings.TrimPrefix(utils.CleanText(doc.Find(AuthorBornLocSelector).First().Text()), "in "),
		Description:  utils.CleanText(doc.Find(AuthorDescSelector).First().Text()),
	}, nil
}

func newDocument(htmlContent string) (*goquery.Document, error) {
	root, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return goquery.NewDocumentFromNode(root), nil
}
