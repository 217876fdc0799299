package renderer

import (
	"bytes"
	"fmt"
	htmlutil "html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	ghtml "github.com/yuin/goldmark/renderer/html"
)

var (
	headingRe    = regexp.MustCompile(`<h([1-6])>(.*?)</h[1-6]>`)
	tagRe        = regexp.MustCompile(`<[^>]+>`)
	slugRemoveRe = regexp.MustCompile(`[^\p{L}\p{N}\s_-]`)
	spaceRe      = regexp.MustCompile(`\s+`)
	hyphensRe    = regexp.MustCompile(`-+`)
	noteRe       = regexp.MustCompile(`(?is)<blockquote>\s*<p>\s*\[!([A-Z]+)\]\s*(.*?)</p>(.*?)</blockquote>`)
	brSpaceRe    = regexp.MustCompile(`(?is)<br>\s+`)
)

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.DefinitionList,
		),
		goldmark.WithRendererOptions(
			ghtml.WithUnsafe(),
		),
	)
}

// convertMarkdown renders the index introduction. Headings get unique ids
// with a self link and [!NOTE] style blockquotes become callouts.
func convertMarkdown(md goldmark.Markdown, content string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	html := buf.String()

	used := map[string]int{}
	html = headingRe.ReplaceAllStringFunc(html, func(match string) string {
		parts := headingRe.FindStringSubmatch(match)
		level, text := parts[1], parts[2]
		id := slugify(htmlutil.UnescapeString(tagRe.ReplaceAllString(text, "")))
		if n := used[id]; n > 0 {
			used[id]++
			id = fmt.Sprintf("%s-%d", id, n)
		} else {
			used[id] = 1
		}
		return fmt.Sprintf(`<h%s id="%s"><a class="header" href="#%s">%s</a></h%s>`, level, id, id, text, level)
	})

	html = transformCallouts(html)
	html = brSpaceRe.ReplaceAllString(html, "<br>")
	return html, nil
}

// slugify converts heading text to an element id
func slugify(text string) string {
	s := strings.ToLower(text)
	s = slugRemoveRe.ReplaceAllString(s, "")
	s = spaceRe.ReplaceAllString(s, "-")
	s = hyphensRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// transformCallouts converts [!TAG] blockquotes into Bootstrap alerts.
func transformCallouts(html string) string {
	alert := map[string]string{
		"NOTE":      "info",
		"TIP":       "success",
		"IMPORTANT": "primary",
		"WARNING":   "warning",
		"CAUTION":   "danger",
	}
	return noteRe.ReplaceAllStringFunc(html, func(m string) string {
		parts := noteRe.FindStringSubmatch(m)
		tag := strings.ToUpper(parts[1])
		cls, ok := alert[tag]
		if !ok {
			return m
		}
		var sb strings.Builder
		sb.WriteString(`<div class="alert alert-` + cls + `" role="alert">`)
		sb.WriteString(`<p class="alert-heading"><b>` + strings.ToUpper(tag[:1]) + strings.ToLower(tag[1:]) + `</b></p>`)
		if strings.TrimSpace(parts[2]) != "" {
			sb.WriteString(`<p>` + parts[2] + `</p>`)
		}
		sb.WriteString(parts[3])
		sb.WriteString(`</div>`)
		return sb.String()
	})
}
