// Package formatter renders a fetched page snapshot for selector
// debugging. When a profile stops matching, dumping the rendered document
// is the quickest way to find the new markup.
package formatter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"adscan/internal/fetcher"
	"adscan/internal/writer"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// DumpPage writes the rendered document to path: raw HTML for .html/.htm,
// a Markdown conversion for .md/.markdown.
func DumpPage(doc *fetcher.Document, path string) error {
	var (
		content string
		err     error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		content = doc.HTML
	case ".md", ".markdown":
		content, err = ToMarkdown(doc)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: page dump supports .html or .md, got %q", writer.ErrConfig, path)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("%w: %v", writer.ErrIO, err)
	}
	return nil
}

// ToMarkdown converts the document body to Markdown, prefixed with the
// page title and final URL.
func ToMarkdown(doc *fetcher.Document) (string, error) {
	converter := md.NewConverter("", true, nil)

	body, err := converter.ConvertString(doc.HTML)
	if err != nil {
		return "", fmt.Errorf("failed to convert page to markdown: %w", err)
	}

	var sb strings.Builder
	if doc.Title != "" {
		sb.WriteString("# " + doc.Title + "\n\n")
	}
	if doc.URL != "" {
		sb.WriteString("<" + doc.URL + ">\n\n")
	}
	sb.WriteString(body)
	sb.WriteString("\n")
	return sb.String(), nil
}
