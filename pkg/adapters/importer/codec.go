package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/wadjakorntonsri/smart-bookmark/pkg/core/domain"
	"gopkg.in/yaml.v3"
)

// Supported file formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatHTML = "html"
)

// FormatFromPath guesses the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) string {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return FormatYAML
	case strings.HasSuffix(lower, ".html"), strings.HasSuffix(lower, ".htm"):
		return FormatHTML
	default:
		return FormatJSON
	}
}

// Decode reads bookmarks in the given format.
func Decode(r io.Reader, format string) ([]domain.Bookmark, error) {
	var bookmarks []domain.Bookmark
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&bookmarks); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&bookmarks); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatHTML:
		return ParseNetscape(r)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	if bookmarks == nil {
		bookmarks = []domain.Bookmark{}
	}
	return bookmarks, nil
}

// Encode writes bookmarks in the given format.
func Encode(w io.Writer, format string, bookmarks []domain.Bookmark) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(bookmarks)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(bookmarks); err != nil {
			return err
		}
		return enc.Close()
	case FormatHTML:
		return WriteNetscape(w, bookmarks)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
