package pipeline

import (
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	ghtml "github.com/yuin/goldmark/renderer/html"
)

// reveal.js distribution pinned to a known-good release on cdnjs.
const (
	revealVersion = "5.0.4"
	revealCSS     = "https://cdnjs.cloudflare.com/ajax/libs/reveal.js/" + revealVersion + "/reveal.min.css"
	revealJS      = "https://cdnjs.cloudflare.com/ajax/libs/reveal.js/" + revealVersion + "/reveal.min.js"
	revealThemes  = "https://cdnjs.cloudflare.com/ajax/libs/reveal.js/" + revealVersion + "/theme/"
)

var slideMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(ghtml.WithUnsafe()),
)

// BuildBaselineDocument renders markdown into a complete standalone
// reveal.js presentation. It is deterministic and total: any theme outside
// the shipped set falls back to RenderTheme, and markdown goldmark cannot
// convert is embedded escaped rather than dropped. The result is always
// servable as-is, which makes it the floor the restyle stage can never
// sink below.
func BuildBaselineDocument(title, markdown, theme string) string {
	if !IsValidTheme(theme) {
		theme = RenderTheme
	}

	var sections strings.Builder
	for _, slide := range SplitSlides(markdown) {
		sections.WriteString("                <section>\n")
		var body strings.Builder
		if err := slideMarkdown.Convert([]byte(slide), &body); err != nil {
			body.Reset()
			body.WriteString("<pre>" + html.EscapeString(slide) + "</pre>")
		}
		sections.WriteString(body.String())
		sections.WriteString("\n                </section>\n")
	}

	return fmt.Sprintf(baselineTemplate,
		html.EscapeString(title), revealCSS, revealThemes, theme, sections.String(), revealJS)
}

const baselineTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <link rel="stylesheet" href="%s">
    <link rel="stylesheet" href="%s%s.min.css">
    <style>
        .reveal .slides section {
            text-align: left;
        }
        .reveal h1, .reveal h2, .reveal h3 {
            text-transform: none;
        }
    </style>
</head>
<body>
    <div class="reveal">
        <div class="slides">
%s        </div>
    </div>
    <script src="%s"></script>
    <script>
        Reveal.initialize({
            hash: true,
            slideNumber: true,
            transition: 'slide'
        });
    </script>
</body>
</html>`
