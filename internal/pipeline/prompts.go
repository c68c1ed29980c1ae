package pipeline

import (
	"fmt"
	"strings"
)

// themePreviewLen caps how much content is sent with the theme suggestion
// prompt; the opening of a deck is enough to judge its tone.
const themePreviewLen = 400

func improvePrompt(title, markdown string) string {
	return fmt.Sprintf(`You are an expert presentation designer. Improve the following markdown content for a slide presentation titled "%s".

Make the content more engaging and presentation-friendly:
- Keep slides concise with clear headings
- Use bullet points for key ideas
- Separate slides with a line containing only ---
- Do not add commentary or explanations

Return only the improved markdown.

%s`, title, markdown)
}

func themePrompt(markdown string) string {
	preview := markdown
	if len(preview) > themePreviewLen {
		preview = preview[:themePreviewLen]
	}
	return fmt.Sprintf(`Pick the single best reveal.js theme for a presentation with the following content. Answer with exactly one theme name from this list and nothing else: %s.

Content:
%s`, strings.Join(Themes, ", "), preview)
}

func restylePrompt(document string) string {
	return fmt.Sprintf(`You are an expert front-end developer. Refine the visual styling of this reveal.js presentation HTML. Improve typography, spacing and visual hierarchy with inline CSS. Keep every slide, all content and all script tags intact. Return the complete HTML document and nothing else.

%s`, document)
}
