package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/amosWeiskopf/quotesmith/internal/models"
)

// DefaultTagSeparator joins the tags of one quote into a single CSV cell.
const DefaultTagSeparator = "|"

// IOError reports a failure to produce an output file.
type IOError struct {
	Path string
	Op   string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Reporter writes crawl output in one of the supported formats.
type Reporter struct {
	format       string
	tagSeparator string
}

// New creates a Reporter. An empty separator falls back to DefaultTagSeparator.
func New(format, tagSeparator string) *Reporter {
	if tagSeparator == "" {
		tagSeparator = DefaultTagSeparator
	}
	return &Reporter{
		format:       format,
		tagSeparator: tagSeparator,
	}
}

// Write stores quotes at path in the configured format.
func (r *Reporter) Write(quotes []models.Quote, path string) error {
	switch r.format {
	case "", "csv":
		return writeAtomic(path, func(w io.Writer) error {
			return encodeQuotesCSV(w, quotes, r.tagSeparator)
		})
	case "json":
		return WriteJSON(quotes, path)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

// WriteCSV writes a header row followed by one row per quote.
func WriteCSV(quotes []models.Quote, path string) error {
	return New("csv", DefaultTagSeparator).Write(quotes, path)
}

// WriteJSON writes quotes as an indented JSON array.
func WriteJSON(quotes []models.Quote, path string) error {
	if quotes == nil {
		quotes = []models.Quote{}
	}
	return writeAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(quotes)
	})
}

// WriteAuthorsCSV writes one row per author bio.
func WriteAuthorsCSV(authors []models.Author, path string) error {
	return writeAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(models.AuthorFields); err != nil {
			return err
		}
		for _, a := range authors {
			if err := cw.Write(a.Row()); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// SplitTags reverses the tag join of a CSV cell.
func SplitTags(cell, sep string) []string {
	if cell == "" {
		return []string{}
	}
	if sep == "" {
		sep = DefaultTagSeparator
	}
	return strings.Split(cell, sep)
}

func encodeQuotesCSV(w io.Writer, quotes []models.Quote, sep string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.QuoteFields); err != nil {
		return err
	}
	for _, q := range quotes {
		if err := cw.Write(q.Row(sep)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeAtomic renders into a temporary file next to path and renames it into
// place, so path either holds the complete output or is left untouched.
func writeAtomic(path string, render func(io.Writer) error) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return &IOError{Path: path, Op: "create", Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := render(tmp); err != nil {
		tmp.Close()
		return &IOError{Path: path, Op: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &IOError{Path: path, Op: "write", Err: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return &IOError{Path: path, Op: "chmod", Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &IOError{Path: path, Op: "rename", Err: err}
	}
	return nil
}
