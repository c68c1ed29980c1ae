package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSlides_SeparatorLines(t *testing.T) {
	content := "# One\n\nfirst\n\n---\n\n# Two\n\nsecond\n\n  ---  \n\n# Three"
	slides := SplitSlides(content)
	assert.Len(t, slides, 3)
	assert.Equal(t, "# One\n\nfirst", slides[0])
	assert.Equal(t, "# Three", slides[2])
}

func TestSplitSlides_SeparatorWinsOverHeadings(t *testing.T) {
	// Explicit separators group two headings onto one slide.
	content := "# One\n# Two\n---\n# Three"
	slides := SplitSlides(content)
	assert.Len(t, slides, 2)
	assert.Equal(t, "# One\n# Two", slides[0])
}

func TestSplitSlides_HeadingFallback(t *testing.T) {
	content := "# Intro\n\nwelcome\n\n# Body\n\ndetails\n\n# Close"
	slides := SplitSlides(content)
	assert.Len(t, slides, 3)
	assert.Equal(t, "# Body\n\ndetails", slides[1])
}

func TestSplitSlides_NoMarkersSingleSlide(t *testing.T) {
	content := "just a paragraph\nwith two lines"
	slides := SplitSlides(content)
	assert.Equal(t, []string{content}, slides)
}

func TestSplitSlides_EmptyContent(t *testing.T) {
	assert.Nil(t, SplitSlides(""))
	assert.Nil(t, SplitSlides("  \n\t\n"))
}

func TestSplitSlides_DropsEmptyChunks(t *testing.T) {
	content := "---\n# Only\n---\n---"
	slides := SplitSlides(content)
	assert.Equal(t, []string{"# Only"}, slides)
}

func TestSplitSlides_IdempotentOnOwnOutput(t *testing.T) {
	content := "# One\n\nfirst\n\n---\n\n# Two\n\nsecond"
	for _, slide := range SplitSlides(content) {
		assert.Equal(t, []string{slide}, SplitSlides(slide))
	}
}
