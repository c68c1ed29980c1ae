package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/slidegenius/slidegenius/internal/generation"
	"github.com/slidegenius/slidegenius/internal/store"
	"github.com/slidegenius/slidegenius/pkg/models"
)

// Improve asks the model for a presentation-ready rewrite of the input
// markdown and resolves an "ai-suggest" theme into a concrete one. The
// model is advisory here: a failed completion leaves the user's markdown
// in place, and a useless theme suggestion falls through ResolveTheme's
// content heuristics.
func (r *Runner) Improve(ctx context.Context, st State) (State, error) {
	if strings.TrimSpace(st.MarkdownInput) == "" {
		return st, errors.New("empty markdown input")
	}

	out := r.gen.Generate(ctx, improvePrompt(st.Title, st.MarkdownInput))
	if generation.IsFailure(out) {
		st.ImprovedMarkdown = st.MarkdownInput
	} else {
		st.ImprovedMarkdown = ExtractMarkdown(out)
	}

	if st.Theme == models.ThemeAISuggest {
		suggestion := r.gen.Generate(ctx, themePrompt(st.ImprovedMarkdown))
		st.Theme = ResolveTheme(suggestion, st.ImprovedMarkdown)
		slog.Debug("resolved suggested theme",
			slog.String("presentation_id", st.PresentationID.String()),
			slog.String("theme", st.Theme))
	}
	return st, nil
}

// Render builds the baseline reveal.js document and offers it to the model
// for visual refinement. The restyled document is accepted only when the
// normalizer can cut a complete HTML document out of the completion; in
// every other case the baseline stands, so this stage always yields a
// servable deck.
func (r *Runner) Render(ctx context.Context, st State) (State, error) {
	content := st.ImprovedMarkdown
	if content == "" {
		content = st.MarkdownInput
	}
	if !IsValidTheme(st.Theme) {
		st.Theme = RenderTheme
	}

	baseline := BuildBaselineDocument(st.Title, content, st.Theme)
	out := r.gen.Generate(ctx, restylePrompt(baseline))
	st.HTMLContent = ExtractHTML(out, baseline)
	return st, nil
}

// Persist commits the run's outputs to its presentation record. The record
// is located by id when the state carries one, otherwise by the newest
// pending row matching (user, title). A vanished record is not an error:
// the run's work is simply discarded.
func (r *Runner) Persist(ctx context.Context, st State) (State, error) {
	target, err := r.findTarget(ctx, st)
	if errors.Is(err, store.ErrNotFound) {
		slog.Warn("no pending presentation for generation result",
			slog.String("user_id", st.UserID.String()),
			slog.String("title", st.Title))
		st.PresentationID = uuid.Nil
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("locating presentation: %w", err)
	}

	content := st.ImprovedMarkdown
	if content == "" {
		content = st.MarkdownInput
	}
	if err := r.store.CommitGeneration(ctx, target.ID, content, st.HTMLContent, st.Theme); err != nil {
		return st, fmt.Errorf("committing generation: %w", err)
	}
	st.PresentationID = target.ID
	return st, nil
}

func (r *Runner) findTarget(ctx context.Context, st State) (*models.Presentation, error) {
	if st.PresentationID != uuid.Nil {
		return r.store.GetPresentation(ctx, st.PresentationID)
	}
	return r.store.FindPendingPresentation(ctx, st.UserID, st.Title)
}
