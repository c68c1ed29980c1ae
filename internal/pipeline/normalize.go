package pipeline

import (
	"strings"
)

// minMarkdownLen: cleaned output at or below this length is considered
// destroyed and the raw input is returned instead.
const minMarkdownLen = 10

// ExtractMarkdown strips the decoration language models wrap around markdown:
// code fences, conversational preamble before the first structural line.
// Text that needed no cleaning passes through byte-for-byte, and if cleaning
// leaves nothing usable the raw text is returned unchanged, so a malformed
// completion never loses a usable original.
func ExtractMarkdown(raw string) string {
	text, fenced := stripFence(raw, "markdown")

	lines := strings.Split(text, "\n")
	start := 0
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") || strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "*") {
			start = i
			break
		}
	}
	if !fenced && start == 0 {
		return raw
	}
	cleaned := strings.TrimSpace(strings.Join(lines[start:], "\n"))

	if len(cleaned) <= minMarkdownLen {
		return raw
	}
	return cleaned
}

// ExtractHTML pulls a complete HTML document out of a model completion.
// The result is always a closed document: either the span from the first
// document-start token through the first closing </html> inclusive, or the
// baseline when no such span exists.
func ExtractHTML(raw, baseline string) string {
	text, _ := stripFence(raw, "html")

	lower := strings.ToLower(text)
	start := strings.Index(lower, "<!doctype html>")
	if start < 0 {
		start = strings.Index(lower, "<html")
	}
	if start < 0 {
		return baseline
	}
	end := strings.Index(lower[start:], "</html>")
	if end < 0 {
		return baseline
	}
	return text[start : start+end+len("</html>")]
}

// stripFence removes a surrounding code fence and reports whether one was
// found. A fence tagged with lang is preferred; failing that, the content
// between the first pair of bare fence markers is taken. Text without fences
// passes through untouched.
func stripFence(raw, lang string) (string, bool) {
	tagged := "```" + lang
	if idx := strings.Index(raw, tagged); idx >= 0 {
		rest := raw[idx+len(tagged):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end]), true
		}
		return strings.TrimSpace(rest), true
	}
	if strings.Contains(raw, "```") {
		parts := strings.Split(raw, "```")
		if len(parts) >= 3 {
			return strings.TrimSpace(parts[1]), true
		}
	}
	return raw, false
}
