package pipeline

import (
	"regexp"
	"strings"
)

// slideSeparator matches a horizontal-rule line used as an explicit slide
// boundary.
var slideSeparator = regexp.MustCompile(`(?m)^\s*---\s*$`)

// SplitSlides breaks markdown into per-slide chunks. Explicit `---`
// separator lines win; without any, the content is split before each
// top-level `# ` heading. Content with neither becomes a single slide.
// Empty chunks are dropped, so the function is idempotent on its own
// output.
func SplitSlides(content string) []string {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	if slideSeparator.MatchString(content) {
		var slides []string
		for _, chunk := range slideSeparator.Split(content, -1) {
			if chunk = strings.TrimSpace(chunk); chunk != "" {
				slides = append(slides, chunk)
			}
		}
		if len(slides) > 0 {
			return slides
		}
		return []string{content}
	}

	var slides []string
	var current []string
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "# ") && len(current) > 0 {
			if chunk := strings.TrimSpace(strings.Join(current, "\n")); chunk != "" {
				slides = append(slides, chunk)
			}
			current = current[:0]
		}
		current = append(current, line)
	}
	if chunk := strings.TrimSpace(strings.Join(current, "\n")); chunk != "" {
		slides = append(slides, chunk)
	}
	if len(slides) == 0 {
		return []string{content}
	}
	return slides
}
