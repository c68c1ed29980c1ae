// Package pipeline implements the slide generation pipeline: improve the
// user's markdown, render it into a themed reveal.js document, and persist
// the result. The runner owns the job lifecycle; failures become job state,
// never errors surfaced to whoever dispatched the run.
package pipeline

import "github.com/google/uuid"

// State is carried by value between stages. Stages add fields and never
// clear earlier ones, so a later stage can fall back to an earlier field
// when its preferred input is absent.
type State struct {
	// Inputs
	PresentationID uuid.UUID // uuid.Nil when only the natural key is known
	UserID         uuid.UUID
	Title          string
	MarkdownInput  string
	Theme          string

	// Stage outputs
	ImprovedMarkdown string
	HTMLContent      string
}
