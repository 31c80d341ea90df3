package draft

import (
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"unicode"
)

// contractionProb is the per-occurrence chance a formal phrase is contracted.
// Deliberately below 1 so the result is not uniformly casual.
const contractionProb = 0.65

// blankLineProb is the chance of an extra blank line before an H2/H3.
const blankLineProb = 0.25

type contraction struct {
	formal string
	casual string
	re     *regexp.Regexp
}

// The table targets only the formal form, so re-running the humanizer over
// already-contracted text leaves it alone.
var contractions = buildContractions([][2]string{
	{"do not", "don't"},
	{"does not", "doesn't"},
	{"did not", "didn't"},
	{"cannot", "can't"},
	{"can not", "can't"},
	{"will not", "won't"},
	{"would not", "wouldn't"},
	{"should not", "shouldn't"},
	{"could not", "couldn't"},
	{"is not", "isn't"},
	{"are not", "aren't"},
	{"was not", "wasn't"},
	{"were not", "weren't"},
	{"has not", "hasn't"},
	{"have not", "haven't"},
	{"had not", "hadn't"},
	{"it is", "it's"},
	{"that is", "that's"},
	{"there is", "there's"},
	{"here is", "here's"},
	{"what is", "what's"},
	{"you are", "you're"},
	{"we are", "we're"},
	{"they are", "they're"},
	{"you will", "you'll"},
	{"we will", "we'll"},
	{"you have", "you've"},
	{"we have", "we've"},
	{"let us", "let's"},
})

func buildContractions(pairs [][2]string) []contraction {
	out := make([]contraction, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, contraction{
			formal: p[0],
			casual: p[1],
			re:     regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(p[0]) + `\b`),
		})
	}
	return out
}

var boldHeading = regexp.MustCompile(`(?m)^(#{1,6}\s*)\*\*(.*?)\*\*\s*$`)

// Humanizer is the deterministic (non-generative) naturalization pass:
// heading cleanup, probabilistic contractions, occasional extra spacing.
// One instance is shared by every request; rand.Rand is not safe for
// concurrent use, so the source is guarded.
type Humanizer struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewHumanizer(seed int64) *Humanizer {
	return &Humanizer{rnd: rand.New(rand.NewSource(seed))}
}

func (h *Humanizer) Apply(text string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	text = boldHeading.ReplaceAllString(text, "$1$2")
	text = h.applyContractions(text)
	text = h.varySpacing(text)
	return text
}

func (h *Humanizer) applyContractions(text string) string {
	for _, c := range contractions {
		text = c.re.ReplaceAllStringFunc(text, func(m string) string {
			if h.rnd.Float64() > contractionProb {
				return m
			}
			return matchCase(m, c.casual)
		})
	}
	return text
}

func matchCase(original, replacement string) string {
	if original == "" || replacement == "" {
		return replacement
	}
	first := []rune(original)[0]
	if unicode.IsUpper(first) {
		runes := []rune(replacement)
		runes[0] = unicode.ToUpper(runes[0])
		return string(runes)
	}
	return replacement
}

// varySpacing occasionally widens the gap before a section heading. Only a
// single-blank gap is ever widened, so repeated runs stop changing anything.
func (h *Humanizer) varySpacing(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines)+4)
	for i, line := range lines {
		isHeading := strings.HasPrefix(line, "## ") || strings.HasPrefix(line, "### ")
		if isHeading && i >= 2 && lines[i-1] == "" && lines[i-2] != "" && h.rnd.Float64() < blankLineProb {
			out = append(out, "")
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
