package engine

import (
	"fmt"
	"io"
	"strings"

	"github.com/mmcdole/gofeed"
)

// feedRenderer handles RSS and Atom feeds. Generic XML MIME types land here
// too; content that is not a feed falls back to plain text decoding so XML
// documents still yield something readable.
type feedRenderer struct {
	text renderer
}

func (f *feedRenderer) render(r io.ReadSeeker, req request) (string, error) {
	feed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		if _, serr := r.Seek(0, io.SeekStart); serr != nil {
			return "", fmt.Errorf("seek: %w", serr)
		}
		return f.text.render(r, req)
	}

	var b strings.Builder
	if feed.Title != "" {
		fmt.Fprintf(&b, "# %s\n", feed.Title)
	}
	if feed.Description != "" {
		fmt.Fprintf(&b, "%s\n", stripTags(feed.Description))
	}
	b.WriteString("\n")

	html := &htmlRenderer{}
	for _, item := range feed.Items {
		if item.Title != "" {
			fmt.Fprintf(&b, "## %s\n", item.Title)
		}
		if item.Published != "" {
			fmt.Fprintf(&b, "Published: %s\n\n", item.Published)
		} else if item.Updated != "" {
			fmt.Fprintf(&b, "Updated: %s\n\n", item.Updated)
		}

		content := item.Content
		if content == "" {
			content = item.Description
		}
		if content != "" {
			if strings.ContainsAny(content, "<") {
				if md, err := html.renderString(content); err == nil {
					content = md
				}
			}
			b.WriteString(content)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}
