package importer

import (
	"fmt"
	"html"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/core/domain"
)

// ParseNetscape reads a browser bookmark export (NETSCAPE-Bookmark-file-1).
// Folders are flattened. Entries that are not http(s) links are skipped.
func ParseNetscape(r io.Reader) ([]domain.Bookmark, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse bookmark file: %w", err)
	}

	bookmarks := []domain.Bookmark{}
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		u, err := url.Parse(href)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return
		}

		title := strings.TrimSpace(a.Text())
		if title == "" {
			title = href
		}

		b := domain.Bookmark{Title: title, URL: href}
		if sec, err := strconv.ParseInt(a.AttrOr("add_date", ""), 10, 64); err == nil && sec > 0 {
			b.CreatedAt = time.Unix(sec, 0).UTC()
		}
		bookmarks = append(bookmarks, b)
	})
	return bookmarks, nil
}

// WriteNetscape renders bookmarks in the same format so exports can be loaded by a browser.
func WriteNetscape(w io.Writer, bookmarks []domain.Bookmark) error {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	sb.WriteString(`<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">` + "\n")
	sb.WriteString("<TITLE>Bookmarks</TITLE>\n<H1>Bookmarks</H1>\n<DL><p>\n")
	for _, b := range bookmarks {
		fmt.Fprintf(&sb, "    <DT><A HREF=\"%s\"", html.EscapeString(b.URL))
		if !b.CreatedAt.IsZero() {
			fmt.Fprintf(&sb, " ADD_DATE=\"%d\"", b.CreatedAt.Unix())
		}
		fmt.Fprintf(&sb, ">%s</A>\n", html.EscapeString(b.Title))
	}
	sb.WriteString("</DL><p>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}
