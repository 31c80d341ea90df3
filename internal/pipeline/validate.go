package pipeline

import (
	"fmt"
	"strings"

	"github.com/baedyl/proaicontent/models"
)

// ResolveWindow turns the request's length specification into a concrete
// [min,max] window. Exactly one of the single target or the explicit pair
// must be supplied. An explicit pair must fit the global bounds as given; a
// single target only needs to lie within them, its derived window is clamped.
func ResolveWindow(req *models.GenerationRequest, tolerance float64, bounds models.WordRange) (models.WordRange, error) {
	hasTarget := req.TargetWordCount > 0
	hasPair := req.MinWords > 0 || req.MaxWords > 0

	switch {
	case hasTarget && hasPair:
		return models.WordRange{}, models.NewPipelineError(models.ErrInvalidRequest,
			"provide either targetWordCount or minWords/maxWords, not both")
	case hasTarget:
		if req.TargetWordCount < bounds.Min || req.TargetWordCount > bounds.Max {
			return models.WordRange{}, models.NewPipelineError(models.ErrInvalidRequest,
				fmt.Sprintf("targetWordCount must lie within %d-%d", bounds.Min, bounds.Max))
		}
		delta := int(float64(req.TargetWordCount) * tolerance)
		window := models.WordRange{Min: req.TargetWordCount - delta, Max: req.TargetWordCount + delta}
		// The caller supplied only the target; the tolerance-derived edges
		// are implementation detail and get pulled inside the global bounds.
		if window.Min < bounds.Min {
			window.Min = bounds.Min
		}
		if window.Max > bounds.Max {
			window.Max = bounds.Max
		}
		return window, nil
	case hasPair:
		if req.MinWords <= 0 || req.MaxWords <= 0 {
			return models.WordRange{}, models.NewPipelineError(models.ErrInvalidRequest,
				"minWords and maxWords must both be provided")
		}
		if req.MinWords >= req.MaxWords {
			return models.WordRange{}, models.NewPipelineError(models.ErrInvalidRequest,
				fmt.Sprintf("minWords (%d) must be less than maxWords (%d)", req.MinWords, req.MaxWords))
		}
		return clampWindow(models.WordRange{Min: req.MinWords, Max: req.MaxWords}, bounds)
	default:
		return models.WordRange{}, models.NewPipelineError(models.ErrInvalidRequest,
			"either targetWordCount or minWords/maxWords is required")
	}
}

func clampWindow(window, bounds models.WordRange) (models.WordRange, error) {
	if window.Min < bounds.Min || window.Max > bounds.Max {
		return models.WordRange{}, models.NewPipelineError(models.ErrInvalidRequest,
			fmt.Sprintf("word counts must lie within %d-%d", bounds.Min, bounds.Max))
	}
	return window, nil
}

// ValidateRequest checks the non-length invariants.
func ValidateRequest(req *models.GenerationRequest) error {
	if strings.TrimSpace(req.Topic) == "" {
		return models.NewPipelineError(models.ErrInvalidRequest, "topic is required")
	}
	if req.ContentType == "" {
		req.ContentType = models.ContentTypeArticle
	}
	if !req.ContentType.Valid() {
		return models.NewPipelineError(models.ErrInvalidRequest,
			fmt.Sprintf("unknown content type %q", req.ContentType))
	}
	return nil
}
