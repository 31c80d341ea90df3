package pipeline

import "github.com/baedyl/proaicontent/models"

// PersonaCatalog resolves persona references to voice guidance. The catalog
// itself is static lookup data maintained outside this service.
type PersonaCatalog interface {
	Get(id string) *models.Persona
}

// StaticCatalog is a map-backed catalog with a small built-in default set.
type StaticCatalog struct {
	personas map[string]models.Persona
}

func NewStaticCatalog(extra ...models.Persona) *StaticCatalog {
	c := &StaticCatalog{personas: map[string]models.Persona{
		"expert": {
			ID:    "expert",
			Name:  "Industry Expert",
			Voice: "Authoritative and precise. Backs claims with specifics, avoids hedging, writes for readers who already know the basics.",
		},
		"friendly": {
			ID:    "friendly",
			Name:  "Friendly Guide",
			Voice: "Warm and conversational. Explains jargon in plain words, uses second person, keeps paragraphs short.",
		},
		"storyteller": {
			ID:    "storyteller",
			Name:  "Storyteller",
			Voice: "Opens sections with anecdotes or scenarios, favors concrete imagery over abstraction.",
		},
	}}
	for _, p := range extra {
		c.personas[p.ID] = p
	}
	return c
}

func (c *StaticCatalog) Get(id string) *models.Persona {
	if p, ok := c.personas[id]; ok {
		return &p
	}
	return nil
}
