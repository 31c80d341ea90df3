package models

// ContentType selects the prompt shape used for outlining and drafting.
type ContentType string

const (
	ContentTypeArticle     ContentType = "article"
	ContentTypeReview      ContentType = "review"
	ContentTypeComparison  ContentType = "comparison"
	ContentTypePromotional ContentType = "promotional"
)

func (c ContentType) Valid() bool {
	switch c {
	case ContentTypeArticle, ContentTypeReview, ContentTypeComparison, ContentTypePromotional:
		return true
	}
	return false
}

// WordRange is the resolved acceptance window for a draft.
type WordRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (w WordRange) Span() int { return w.Max - w.Min }

func (w WordRange) Contains(n int) bool { return n >= w.Min && n <= w.Max }

// Mid returns the midpoint of the window, used as the nominal target.
func (w WordRange) Mid() int { return (w.Min + w.Max) / 2 }

// GenerationRequest is the caller-facing description of the artifact to produce.
// Exactly one of TargetWordCount or the MinWords/MaxWords pair must be set.
type GenerationRequest struct {
	Topic                    string      `json:"topic"`
	Keywords                 []string    `json:"keywords,omitempty"`
	ContentType              ContentType `json:"contentType"`
	Tone                     string      `json:"tone,omitempty"`
	Style                    string      `json:"style,omitempty"`
	TargetWordCount          int         `json:"targetWordCount,omitempty"`
	MinWords                 int         `json:"minWords,omitempty"`
	MaxWords                 int         `json:"maxWords,omitempty"`
	TargetAudience           string      `json:"targetAudience,omitempty"`
	AdditionalInstructions   string      `json:"additionalInstructions,omitempty"`
	PersonaID                string      `json:"personaId,omitempty"`
	Location                 string      `json:"location,omitempty"`
	IncludeFAQ               bool        `json:"includeFAQ,omitempty"`
	IncludeVideo             bool        `json:"includeVideo,omitempty"`
	IncludeCompetitorHeaders bool        `json:"includeCompetitorHeaders,omitempty"`
	UseSerpAnalysis          bool        `json:"useSerpAnalysis,omitempty"`
}

// PrimaryKeyword is the term sent to the search provider: the first explicit
// keyword when given, otherwise the topic itself.
func (r *GenerationRequest) PrimaryKeyword() string {
	if len(r.Keywords) > 0 && r.Keywords[0] != "" {
		return r.Keywords[0]
	}
	return r.Topic
}

// SerpResult is a single organic result from the search provider.
type SerpResult struct {
	Position        int    `json:"position"`
	Title           string `json:"title"`
	URL             string `json:"url"`
	Snippet         string `json:"snippet"`
	EstimatedLength int    `json:"estimatedLength"`
}

// GroundingResult holds everything derived from one search-provider call.
// Computed once per request and read-only afterward; absent entirely when
// grounding is disabled or the provider call fails.
type GroundingResult struct {
	Keyword             string       `json:"keyword"`
	Results             []SerpResult `json:"results"`
	RelatedQuestions    []string     `json:"relatedQuestions"`
	RelatedSearches     []string     `json:"relatedSearches"`
	AvgCompetitorLength int          `json:"avgCompetitorLength"`
	TopKeywords         []string     `json:"topKeywords"`
	ContentGaps         []string     `json:"contentGaps"`
	Recommendations     []string     `json:"recommendations"`
}

// TopURLs returns up to n ranked result URLs for structure mining.
func (g *GroundingResult) TopURLs(n int) []string {
	urls := make([]string, 0, n)
	for _, r := range g.Results {
		if r.URL == "" {
			continue
		}
		urls = append(urls, r.URL)
		if len(urls) == n {
			break
		}
	}
	return urls
}

// HeadingRecord is one heading scraped from a competitor page.
type HeadingRecord struct {
	Level     int    `json:"level"`
	Text      string `json:"text"`
	SourceURL string `json:"sourceUrl"`
}

// StructurePatterns summarizes heading usage across fetched competitor pages.
type StructurePatterns struct {
	CommonTopics []string `json:"commonTopics"`
	AvgH2PerPage float64  `json:"avgH2PerPage"`
	AvgH3PerPage float64  `json:"avgH3PerPage"`
}

// StructureResult is the aggregate output of competitor structure mining.
// Partial fetch failure is normal; SuccessfulURLs says how many pages
// actually contributed headings.
type StructureResult struct {
	Headings       []HeadingRecord   `json:"headings"`
	Patterns       StructurePatterns `json:"patterns"`
	RequestedURLs  int               `json:"requestedUrls"`
	SuccessfulURLs int               `json:"successfulUrls"`
}

// FAQItem pairs one related question with a short answer.
type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FAQResult carries the synthesized items plus a ready-to-embed fragment.
// Degraded is set when parsing failed and placeholder answers were used.
type FAQResult struct {
	Items    []FAQItem `json:"items"`
	Fragment string    `json:"fragment"`
	Degraded bool      `json:"degraded"`
}

// TerminationReason says how a draft attempt ended.
type TerminationReason string

const (
	TerminationAccepted        TerminationReason = "accepted"
	TerminationTokenLimit      TerminationReason = "token-limit"
	TerminationEmpty           TerminationReason = "empty"
	TerminationContentFiltered TerminationReason = "content-filtered"
	TerminationError           TerminationReason = "error"
)

// DraftAttempt records one pass of the convergence loop. Ephemeral: lives
// only inside a single request, never persisted.
type DraftAttempt struct {
	Index     int
	WordCount int
	Text      string
	Note      string
	Reason    TerminationReason
}

// TokenUsage sums prompt and completion tokens across all model calls made
// for one request.
type TokenUsage struct {
	Prompt     int64 `json:"prompt"`
	Completion int64 `json:"completion"`
	Total      int64 `json:"total"`
}

func (u *TokenUsage) Add(prompt, completion int64) {
	u.Prompt += prompt
	u.Completion += completion
	u.Total += prompt + completion
}

// GroundingSummary is the compact grounding view returned to callers.
type GroundingSummary struct {
	Keyword             string   `json:"keyword"`
	ResultCount         int      `json:"resultCount"`
	AvgCompetitorLength int      `json:"avgCompetitorLength"`
	TopKeywords         []string `json:"topKeywords"`
	ContentGapCount     int      `json:"contentGapCount"`
}

// PipelineResult is the final product of one generation request.
type PipelineResult struct {
	Content        string            `json:"content"`
	WordCount      int               `json:"wordCount"`
	Attempts       int               `json:"attempts"`
	Model          string            `json:"model"`
	TokensUsed     TokenUsage        `json:"tokensUsed"`
	RequestedRange WordRange         `json:"requestedRange"`
	Grounding      *GroundingSummary `json:"grounding,omitempty"`
	FAQIncluded    bool              `json:"faqIncluded"`
	VideoIncluded  bool              `json:"videoIncluded"`
	Degraded       bool              `json:"degraded"`
}

// Persona is a static catalog entry supplying voice guidance for prompts.
type Persona struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Voice string `json:"voice"`
}
