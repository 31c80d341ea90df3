package draft

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/baedyl/proaicontent/internal/textutil"
)

func TestHumanizerStripsBoldHeadings(t *testing.T) {
	h := NewHumanizer(1)
	out := h.Apply("## **Bold Section**\n\nBody text here.")
	assert.Contains(t, out, "## Bold Section")
	assert.NotContains(t, out, "**")
}

func TestHumanizerContractionsPreserveCase(t *testing.T) {
	h := NewHumanizer(7)
	// Enough occurrences that the 65% acceptance fires at least once.
	in := strings.Repeat("Do not forget. You are ready. It is done. ", 20)
	out := h.Apply(in)

	assert.True(t, strings.Contains(out, "Don't") || strings.Contains(out, "You're") || strings.Contains(out, "It's"),
		"expected at least one contraction in: %s", out)
	assert.NotContains(t, out, "don'T")
}

func TestHumanizerNotUniform(t *testing.T) {
	h := NewHumanizer(42)
	in := strings.Repeat("do not stop. ", 50)
	out := h.Apply(in)
	// Probabilistic application leaves some formal forms untouched.
	assert.Contains(t, out, "don't")
	assert.Contains(t, out, "do not")
}

func TestHumanizerIdempotentOnCasualText(t *testing.T) {
	h := NewHumanizer(3)
	in := "You don't need it. We can't say. It's fine, isn't it?"
	assert.Equal(t, in, h.Apply(in))
}

func TestHumanizerSecondPassChangesLess(t *testing.T) {
	h := NewHumanizer(11)
	in := strings.Repeat("We are sure you will like it. That is why we do not rush. ", 30)

	once := h.Apply(in)
	twice := h.Apply(once)

	// A second pass may only contract formal phrases the first pass skipped;
	// each substitution merges two words, so the count drops by at most the
	// remaining occurrences and nothing else changes.
	remaining := strings.Count(strings.ToLower(once), "we are") +
		strings.Count(strings.ToLower(once), "you will") +
		strings.Count(strings.ToLower(once), "that is") +
		strings.Count(strings.ToLower(once), "do not")
	diff := textutil.WordCount(once) - textutil.WordCount(twice)
	assert.GreaterOrEqual(t, diff, 0)
	assert.LessOrEqual(t, diff, remaining)
}

func TestHumanizerConcurrentApply(t *testing.T) {
	h := NewHumanizer(9)
	in := strings.Repeat("We do not stop here. It is a long section of text. ", 40) +
		"\n\n## Heading\n\nclosing words"
	full := textutil.WordCount(in)
	// Each contraction merges exactly two words; 80 candidates in the input.
	floor := full - 80

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				got := textutil.WordCount(h.Apply(in))
				if got < floor || got > full {
					t.Errorf("word count %d outside [%d, %d] under concurrency", got, floor, full)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestHumanizerSpacingOnlyWidensSingleGaps(t *testing.T) {
	h := NewHumanizer(5)
	in := "intro line\n\n## Section One\n\ntext\n\n## Section Two\n\ntext"
	out := h.Apply(in)
	// Never three or more blanks from one pass over single-blank gaps.
	assert.NotContains(t, out, "\n\n\n\n")
	assert.Equal(t, textutil.WordCount(in), textutil.WordCount(out))
}
