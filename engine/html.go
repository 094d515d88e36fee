// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package engine

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"golang.org/x/net/html"
)

var (
	reScriptTag = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	reStyleTag  = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`)
	reDataURI   = regexp.MustCompile(`(data:[a-zA-Z0-9/+.-]+;base64,)[A-Za-z0-9+/=]{64,}`)
)

// htmlRenderer converts HTML to markdown. Large base64 data URIs are
// truncated so markup noise does not dominate the output.
type htmlRenderer struct{}

func (h *htmlRenderer) render(r io.ReadSeeker, _ request) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return h.renderString(decodeText(data))
}

func (h *htmlRenderer) renderString(htmlStr string) (string, error) {
	htmlStr = reScriptTag.ReplaceAllString(htmlStr, "")
	htmlStr = reStyleTag.ReplaceAllString(htmlStr, "")

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithHeadingStyle("atx"),
			),
			table.NewTablePlugin(),
		),
	)

	md, err := conv.ConvertString(htmlStr)
	if err != nil {
		return "", fmt.Errorf("convert HTML to markdown: %w", err)
	}

	return reDataURI.ReplaceAllString(md, "${1}..."), nil
}

// stripTags extracts the text content of an HTML fragment, for contexts
// where markdown structure is unwanted (table cells, alt text).
func stripTags(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(b.String())
}
