// package formatter renders catalog listings and search results to various
// output formats (CSV, Markdown, plain text) for the non-TUI commands
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/redcliffe/strum/internal/models"
)

// Format identifies a supported output format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatPlain    Format = "plain"
)

// ParseFormat validates a format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatMarkdown, FormatPlain:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// SearchResultsToCSV converts search results to CSV with columns: Name, Artist, Source, SourceURL, Duration
func SearchResultsToCSV(results []models.SearchResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Name", "Artist", "Source", "SourceURL", "Duration"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range results {
		record := []string{r.Name, r.Artist, r.Source, r.SourceURL, r.Duration}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// SearchResultsToMarkdown converts search results to a Markdown table.
func SearchResultsToMarkdown(results []models.SearchResult) []byte {
	var buf bytes.Buffer

	buf.WriteString("| Name | Artist | Source | Duration |\n")
	buf.WriteString("|------|--------|--------|----------|\n")

	for _, r := range results {
		duration := r.Duration
		if duration == "" {
			duration = "—"
		}
		buf.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", r.Name, r.Artist, r.Source, duration))
	}

	return buf.Bytes()
}

// SearchResultsToPlain converts search results to numbered plain text lines.
func SearchResultsToPlain(results []models.SearchResult) []byte {
	var buf bytes.Buffer

	for i, r := range results {
		buf.WriteString(fmt.Sprintf("%d. %s — %s [%s]", i+1, r.Name, r.Artist, r.Source))
		if r.Duration != "" {
			buf.WriteString(fmt.Sprintf(" (%s)", r.Duration))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// ArtistsToCSV converts an artist listing to CSV.
func ArtistsToCSV(artists []models.Artist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"ID", "Name", "Songs"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, a := range artists {
		record := []string{strconv.Itoa(a.ID), a.Name, strconv.Itoa(a.SongCount)}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ArtistsToPlain converts an artist listing to plain text lines.
func ArtistsToPlain(artists []models.Artist) []byte {
	var buf bytes.Buffer

	for _, a := range artists {
		buf.WriteString(fmt.Sprintf("#%d %s (%d songs)\n", a.ID, a.Name, a.SongCount))
	}

	return buf.Bytes()
}

// SongsToPlain converts a song listing to plain text lines.
func SongsToPlain(songs []models.Song) []byte {
	var buf bytes.Buffer

	for _, s := range songs {
		buf.WriteString(fmt.Sprintf("#%d %s", s.ID, s.Name))
		if s.Duration != "" {
			buf.WriteString(fmt.Sprintf(" (%s)", s.Duration))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}
