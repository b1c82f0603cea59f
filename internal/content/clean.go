package content

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	citationRE   = regexp.MustCompile(`\[\d+\]`)
	whitespaceRE = regexp.MustCompile(`\s+`)
)

// CleanText normalizes raw scraped or uploaded material: HTML markup is
// stripped, Wikipedia-style citation brackets ([1], [2], ...) are removed,
// and runs of whitespace collapse to a single space.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	if strings.ContainsAny(text, "<>") {
		text = stripHTML(text)
	}
	text = citationRE.ReplaceAllString(text, "")
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(text, " "))
}

// stripHTML extracts the text content of an HTML fragment, dropping script
// and style bodies. Plain text passes through unchanged apart from entity
// decoding.
func stripHTML(fragment string) string {
	tok := html.NewTokenizer(strings.NewReader(fragment))
	var sb strings.Builder
	skipDepth := 0

	for {
		switch tok.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.StartTagToken:
			name, _ := tok.TagName()
			if tag := string(name); tag == "script" || tag == "style" {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tok.TagName()
			if tag := string(name); (tag == "script" || tag == "style") && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				sb.Write(tok.Text())
				sb.WriteByte(' ')
			}
		}
	}
}
