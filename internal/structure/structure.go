// Package structure mines heading hierarchies from top-ranked competitor
// pages and summarizes their structural patterns.
package structure

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/baedyl/proaicontent/internal/textutil"
	"github.com/baedyl/proaicontent/models"
)

const (
	minHeadingLen = 10
	maxHeadingLen = 200
	maxTopics     = 10
)

// contentSelectors is tried in order; the first match becomes the scrape
// root, falling back to body.
var contentSelectors = []string{
	"article",
	"main",
	"[role=main]",
	"#content",
	".content",
	".post-content",
	".entry-content",
	".article-body",
	".article-content",
}

var boilerplatePattern = regexp.MustCompile(`(?i)(menu|navigation|footer|sidebar|cookie|subscribe|newsletter|sign in|log in|related (posts|articles)|share this|table of contents|leave a (comment|reply))`)

// Agent fetches up to maxURLs competitor pages sequentially with a fixed
// delay between fetches. Per-URL failures are swallowed; the stage reports
// how many URLs actually contributed.
type Agent struct {
	fetcher *Fetcher
	maxURLs int
	delay   time.Duration
	logger  *zap.Logger
}

func NewAgent(fetcher *Fetcher, maxURLs int, delay time.Duration, logger *zap.Logger) *Agent {
	return &Agent{fetcher: fetcher, maxURLs: maxURLs, delay: delay, logger: logger}
}

func (a *Agent) Execute(ctx context.Context, urls []string) (*models.StructureResult, error) {
	if len(urls) > a.maxURLs {
		urls = urls[:a.maxURLs]
	}
	result := &models.StructureResult{RequestedURLs: len(urls)}

	for i, url := range urls {
		if i > 0 {
			select {
			case <-time.After(a.delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		headings, err := a.fetchHeadings(ctx, url)
		if err != nil {
			a.logger.Warn("skipping competitor url",
				zap.String("stage", "structure"),
				zap.String("url", url),
				zap.Error(err))
			continue
		}
		result.Headings = append(result.Headings, headings...)
		result.SuccessfulURLs++
	}

	result.Patterns = aggregatePatterns(result.Headings, result.SuccessfulURLs)
	a.logger.Info("structure mining complete",
		zap.Int("requestedUrls", result.RequestedURLs),
		zap.Int("successfulUrls", result.SuccessfulURLs),
		zap.Int("headings", len(result.Headings)))
	return result, nil
}

func (a *Agent) fetchHeadings(ctx context.Context, url string) ([]models.HeadingRecord, error) {
	body, err := a.fetcher.Visit(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	root := doc.Find("body")
	for _, sel := range contentSelectors {
		if found := doc.Find(sel); found.Length() > 0 {
			root = found.First()
			break
		}
	}

	var headings []models.HeadingRecord
	for level := 1; level <= 4; level++ {
		tag := fmt.Sprintf("h%d", level)
		root.Find(tag).Each(func(_ int, s *goquery.Selection) {
			text := strings.Join(strings.Fields(s.Text()), " ")
			if !usableHeading(text) {
				return
			}
			headings = append(headings, models.HeadingRecord{
				Level:     level,
				Text:      text,
				SourceURL: url,
			})
		})
	}
	return headings, nil
}

func usableHeading(text string) bool {
	if len(text) < minHeadingLen || len(text) > maxHeadingLen {
		return false
	}
	return !boilerplatePattern.MatchString(text)
}

func aggregatePatterns(headings []models.HeadingRecord, pages int) models.StructurePatterns {
	if pages == 0 {
		return models.StructurePatterns{}
	}
	var h2Texts []string
	h2Count, h3Count := 0, 0
	for _, h := range headings {
		switch h.Level {
		case 2:
			h2Count++
			h2Texts = append(h2Texts, h.Text)
		case 3:
			h3Count++
		}
	}
	return models.StructurePatterns{
		CommonTopics: textutil.TopTokens(h2Texts, maxTopics),
		AvgH2PerPage: float64(h2Count) / float64(pages),
		AvgH3PerPage: float64(h3Count) / float64(pages),
	}
}
