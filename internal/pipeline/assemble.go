package pipeline

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/baedyl/proaicontent/internal/serp"
)

var h2Pattern = regexp.MustCompile(`(?m)^## `)

// spliceVideo inserts the video fragment immediately before the third H2
// when the article has at least three, otherwise appends it.
func spliceVideo(content string, video *serp.Video) string {
	fragment := fmt.Sprintf(`<div class="video-embed" data-src="%s" title="%s"></div>`, video.Link, video.Title)

	locs := h2Pattern.FindAllStringIndex(content, -1)
	if len(locs) >= 3 {
		at := locs[2][0]
		return strings.TrimRight(content[:at], "\n") + "\n\n" + fragment + "\n\n" + content[at:]
	}
	return strings.TrimRight(content, "\n") + "\n\n" + fragment + "\n"
}

// appendFAQ puts the FAQ section at the very end of the article.
func appendFAQ(content, fragment string) string {
	return strings.TrimRight(content, "\n") + "\n\n## Frequently Asked Questions\n\n" + fragment + "\n"
}

// leadSnippet returns the first n words of content, used as context for FAQ
// answer synthesis.
func leadSnippet(content string, n int) string {
	words := strings.Fields(content)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
