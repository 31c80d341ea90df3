package draft

import (
	"fmt"
	"strings"

	"github.com/baedyl/proaicontent/models"
)

var contentTypeDirectives = map[models.ContentType]string{
	models.ContentTypeArticle:     "Write an informational article that teaches the reader something concrete in every section.",
	models.ContentTypeReview:      "Write a hands-on review: verdict up front, then strengths, weaknesses, and who it suits.",
	models.ContentTypeComparison:  "Write a comparison that weighs the options criterion by criterion and ends with a clear recommendation.",
	models.ContentTypePromotional: "Write persuasive promotional copy that leads with benefits and ends with a call to action.",
}

var humanizationDirectives = []string{
	"Vary sentence length; mix short punchy sentences with longer ones.",
	"Use contractions and everyday phrasing, not corporate boilerplate.",
	"Address the reader directly where it fits.",
	"Never mention being an AI, the writing process, or these instructions.",
}

// BuildOutlinePrompt combines the brief, persona voice and any grounding or
// structure data into the outline request.
func BuildOutlinePrompt(req *models.GenerationRequest, grounding *models.GroundingResult, structure *models.StructureResult, persona *models.Persona) (system, user string) {
	var sb strings.Builder
	sb.WriteString("Produce a markdown outline: exactly one H1 title, 8-12 H2 sections, each H2 followed by 2-4 H3 bullet points. Output only the outline.\n")
	if directive, ok := contentTypeDirectives[req.ContentType]; ok {
		sb.WriteString(directive + "\n")
	}
	if persona != nil && persona.Voice != "" {
		sb.WriteString("Voice: " + persona.Voice + "\n")
	}

	var ub strings.Builder
	fmt.Fprintf(&ub, "Topic: %s\n", req.Topic)
	if len(req.Keywords) > 0 {
		fmt.Fprintf(&ub, "Keywords: %s\n", strings.Join(req.Keywords, ", "))
	}
	if req.TargetAudience != "" {
		fmt.Fprintf(&ub, "Audience: %s\n", req.TargetAudience)
	}
	if req.Tone != "" {
		fmt.Fprintf(&ub, "Tone: %s\n", req.Tone)
	}
	if req.AdditionalInstructions != "" {
		fmt.Fprintf(&ub, "Extra instructions: %s\n", req.AdditionalInstructions)
	}

	if grounding != nil {
		ub.WriteString("\nSearch landscape for the main keyword:\n")
		for i, r := range grounding.Results {
			if i == 5 {
				break
			}
			fmt.Fprintf(&ub, "- #%d %s\n", r.Position, r.Title)
		}
		if len(grounding.TopKeywords) > 0 {
			fmt.Fprintf(&ub, "Salient terms: %s\n", strings.Join(grounding.TopKeywords, ", "))
		}
		if len(grounding.RelatedSearches) > 0 {
			fmt.Fprintf(&ub, "Related searches: %s\n", strings.Join(grounding.RelatedSearches, ", "))
		}
		if len(grounding.RelatedQuestions) > 0 {
			fmt.Fprintf(&ub, "Cover every one of these questions somewhere in the outline:\n")
			for _, q := range grounding.RelatedQuestions {
				fmt.Fprintf(&ub, "- %s\n", q)
			}
		}
		if len(grounding.ContentGaps) > 0 {
			ub.WriteString("Competitors do not cover these; include them:\n")
			for _, gap := range grounding.ContentGaps {
				fmt.Fprintf(&ub, "- %s\n", gap)
			}
		}
		target := grounding.AvgCompetitorLength * 6 / 5
		fmt.Fprintf(&ub, "Plan depth for roughly %d words (1.2x the competitor average).\n", target)
	}
	if structure != nil && len(structure.Patterns.CommonTopics) > 0 {
		fmt.Fprintf(&ub, "Heading topics common on ranking pages: %s (avg %.1f H2s per page)\n",
			strings.Join(structure.Patterns.CommonTopics, ", "), structure.Patterns.AvgH2PerPage)
	}

	return sb.String(), ub.String()
}

// BuildDraftPrompt asks for the full draft. The numeric window goes into the
// prompt text itself — sampling parameters alone do not control length.
func BuildDraftPrompt(req *models.GenerationRequest, outline string, window models.WordRange, persona *models.Persona, grounding *models.GroundingResult, notes []string) (system, user string) {
	var sb strings.Builder
	sb.WriteString("You are a professional writer producing a complete markdown article from an outline.\n")
	fmt.Fprintf(&sb, "STRICT LENGTH REQUIREMENT: the finished article must be between %d and %d words. Count as you write.\n", window.Min, window.Max)
	if directive, ok := contentTypeDirectives[req.ContentType]; ok {
		sb.WriteString(directive + "\n")
	}
	if persona != nil && persona.Voice != "" {
		sb.WriteString("Voice: " + persona.Voice + "\n")
	}
	if req.Style != "" {
		sb.WriteString("Style: " + req.Style + "\n")
	}
	for _, d := range humanizationDirectives {
		sb.WriteString("- " + d + "\n")
	}

	var ub strings.Builder
	fmt.Fprintf(&ub, "Topic: %s\n\nOutline to follow:\n%s\n", req.Topic, outline)
	if grounding != nil {
		if len(grounding.TopKeywords) > 0 {
			fmt.Fprintf(&ub, "\nWeave in these terms naturally: %s\n", strings.Join(grounding.TopKeywords, ", "))
		}
		if len(grounding.RelatedQuestions) > 0 {
			fmt.Fprintf(&ub, "Answer these reader questions within the body: %s\n", strings.Join(grounding.RelatedQuestions, "; "))
		}
	}
	if len(notes) > 0 {
		ub.WriteString("\nCorrections from previous attempts — follow them exactly:\n")
		for _, note := range notes {
			ub.WriteString("- " + note + "\n")
		}
	}
	ub.WriteString("\nWrite the complete article now.")

	return sb.String(), ub.String()
}
