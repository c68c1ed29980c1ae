package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildBaselineDocument_CompleteDocument(t *testing.T) {
	doc := BuildBaselineDocument("My Deck", "# Hello\n\n- a point", "moon")

	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))
	assert.True(t, strings.HasSuffix(doc, "</html>"))
	assert.Contains(t, doc, "<title>My Deck</title>")
	assert.Contains(t, doc, revealCSS)
	assert.Contains(t, doc, revealThemes+"moon.min.css")
	assert.Contains(t, doc, "Reveal.initialize")
}

func TestBuildBaselineDocument_OneSectionPerSlide(t *testing.T) {
	doc := BuildBaselineDocument("Deck", "# One\n---\n# Two\n---\n# Three", "black")
	assert.Equal(t, 3, strings.Count(doc, "<section>"))
	assert.Equal(t, 3, strings.Count(doc, "</section>"))
}

func TestBuildBaselineDocument_RendersMarkdown(t *testing.T) {
	doc := BuildBaselineDocument("Deck", "# Heading\n\n- bullet one\n- bullet two", "white")
	assert.Contains(t, doc, "<h1")
	assert.Contains(t, doc, "<li>bullet one</li>")
}

func TestBuildBaselineDocument_InvalidThemeFallsBack(t *testing.T) {
	doc := BuildBaselineDocument("Deck", "# Hi there", "ai-suggest")
	assert.Contains(t, doc, revealThemes+RenderTheme+".min.css")
}

func TestBuildBaselineDocument_EscapesTitle(t *testing.T) {
	doc := BuildBaselineDocument(`<script>alert("x")</script>`, "# Hi there", "black")
	assert.NotContains(t, doc, `<title><script>`)
	assert.Contains(t, doc, "&lt;script&gt;")
}
