// Package sanitize is the last-chance safety filter applied to model output
// before it is shown or persisted: refusal boilerplate, leaked code and
// meta-commentary are stripped, whitespace is normalized.
package sanitize

import (
	"regexp"
	"strings"
)

// Issue categories reported on Result.Issues.
const (
	IssueRefusal        = "refusal"
	IssueCodeBlock      = "code_block"
	IssueMetaCommentary = "meta_commentary"
	IssueTrailer        = "trailing_refusal"
)

// Result reports what the cleanup did. SeverelyCorrupted output should be
// treated as a failure requiring regeneration, not a usable draft.
type Result struct {
	Text              string
	WasModified       bool
	Issues            []string
	SeverelyCorrupted bool
}

var refusalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bI'?m sorry\b`),
	regexp.MustCompile(`(?i)\bI apologi[sz]e\b`),
	regexp.MustCompile(`(?i)\bas an AI( language)? model\b`),
	regexp.MustCompile(`(?i)\bas a language model\b`),
	regexp.MustCompile(`(?i)\bI can'?t (fulfill|comply|assist|help) with\b`),
	regexp.MustCompile(`(?i)\bI cannot (fulfill|comply|assist|help|provide|generate)\b`),
	regexp.MustCompile(`(?i)\bI'?m (unable|not able) to\b`),
	regexp.MustCompile(`(?i)\bmy (purpose|goal) is to (assist|help)\b`),
	regexp.MustCompile(`(?i)\bI don'?t have (personal )?(opinions|feelings|access)\b`),
	regexp.MustCompile(`(?i)\bagainst my (guidelines|programming)\b`),
}

var codeBlockPatterns = []*regexp.Regexp{
	regexp.MustCompile("(?s)```(?:html|css|javascript|js|xml)\\n.*?```"),
	regexp.MustCompile(`(?is)<script\b.*?</script>`),
	regexp.MustCompile(`(?is)<style\b.*?</style>`),
	regexp.MustCompile(`(?is)<!DOCTYPE[^>]*>`),
}

var metaPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\[Note:[^\]]*\]`),
	regexp.MustCompile(`\[Word count:[^\]]*\]`),
	regexp.MustCompile(`(?im)^Editor'?s note:.*$`),
	regexp.MustCompile(`(?im)^Disclaimer:.*$`),
	regexp.MustCompile(`(?im)^\(?(End of article|This concludes the article)\.?\)?$`),
}

var (
	excessBlankLines = regexp.MustCompile(`\n{3,}`)
	trailingSpaces   = regexp.MustCompile(`(?m)[ \t]+$`)
	sentenceSplit    = regexp.MustCompile(`(?s)[^.!?]*[.!?]+|\S[^.!?]*$`)
)

// Clean runs every detector over text in order and normalizes whitespace.
func Clean(text string) Result {
	original := text
	issues := make(map[string]bool)

	text = stripRefusals(text, issues)
	text = stripBlocks(text, codeBlockPatterns, IssueCodeBlock, issues)
	text = stripBlocks(text, metaPatterns, IssueMetaCommentary, issues)
	text = trimTrailingRefusals(text, issues)

	text = trailingSpaces.ReplaceAllString(text, "")
	text = excessBlankLines.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)

	result := Result{
		Text:        text,
		WasModified: text != strings.TrimSpace(original),
	}
	for issue := range issues {
		result.Issues = append(result.Issues, issue)
	}
	result.SeverelyCorrupted = len(text) < len(original)/2 ||
		len(result.Issues) >= 3 ||
		len(text) < 100
	return result
}

// stripRefusals removes refusal text at paragraph granularity when the
// paragraph is dominated by it, otherwise sentence by sentence.
func stripRefusals(text string, issues map[string]bool) string {
	paragraphs := strings.Split(text, "\n\n")
	kept := make([]string, 0, len(paragraphs))
	for _, para := range paragraphs {
		if !matchesAny(para, refusalPatterns) {
			kept = append(kept, para)
			continue
		}
		issues[IssueRefusal] = true
		if len(para) < 300 {
			continue // short refusal paragraph, drop it whole
		}
		sentences := sentenceSplit.FindAllString(para, -1)
		var sb strings.Builder
		for _, s := range sentences {
			if matchesAny(s, refusalPatterns) {
				continue
			}
			sb.WriteString(s)
		}
		if cleaned := strings.TrimSpace(sb.String()); cleaned != "" {
			kept = append(kept, cleaned)
		}
	}
	return strings.Join(kept, "\n\n")
}

func stripBlocks(text string, patterns []*regexp.Regexp, issue string, issues map[string]bool) string {
	for _, re := range patterns {
		if re.MatchString(text) {
			issues[issue] = true
			text = re.ReplaceAllString(text, "")
		}
	}
	return text
}

// trimTrailingRefusals pops refusal lines off the end of the text, a legacy
// artifact of models appending apologies after otherwise good output.
func trimTrailingRefusals(text string, issues map[string]bool) string {
	lines := strings.Split(text, "\n")
	for len(lines) > 0 {
		last := strings.TrimSpace(lines[len(lines)-1])
		if last == "" {
			lines = lines[:len(lines)-1]
			continue
		}
		if matchesAny(last, refusalPatterns) {
			issues[IssueTrailer] = true
			lines = lines[:len(lines)-1]
			continue
		}
		break
	}
	return strings.Join(lines, "\n")
}

func matchesAny(s string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
