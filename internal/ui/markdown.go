package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
)

// quoteMark prefixes quoted passages, which in a study journal are
// usually verses copied from the text.
const quoteMark = "┃ "

// RenderMarkdown renders an entry page for the terminal, word-wrapped at width.
func RenderMarkdown(content string, width int) (string, error) {
	if width <= 0 {
		width = Terminal{}.PageWidth()
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(pageStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}

	rendered, err := r.Render(content)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(rendered, "\n") + "\n", nil
}

// pageStyle covers what EntryMarkdown produces: the date heading, the body
// with its quotes and emphasis, and the scripture and topic lists.
func pageStyle() ansi.StyleConfig {
	muted := strPtr("8")
	accent := strPtr(defaultAccent)
	if color, ok := AccentColor(); ok {
		accent = strPtr(color)
	}

	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{BlockPrefix: "\n", BlockSuffix: "\n"},
			Margin:         uintPtr(PageMargin),
		},
		// The date.
		H1: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				BlockSuffix: "\n",
				Color:       accent,
				Bold:        boolPtr(true),
				Underline:   boolPtr(true),
			},
		},
		// Scriptures and Topics.
		H2: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				BlockSuffix: "\n",
				Color:       muted,
				Bold:        boolPtr(true),
				Upper:       boolPtr(true),
			},
		},
		BlockQuote: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Italic: boolPtr(true)},
			Indent:         uintPtr(1),
			IndentToken:    strPtr(quoteMark),
		},
		List: ansi.StyleList{LevelIndent: 2},
		Item: ansi.StylePrimitive{BlockPrefix: "• "},
		Enumeration: ansi.StylePrimitive{
			BlockPrefix: ". ",
		},
		Emph:   ansi.StylePrimitive{Italic: boolPtr(true)},
		Strong: ansi.StylePrimitive{Bold: boolPtr(true)},
		Link: ansi.StylePrimitive{
			Color:     muted,
			Underline: boolPtr(true),
		},
		HorizontalRule: ansi.StylePrimitive{
			Color:  muted,
			Format: "\n────────\n",
		},
	}
}

func boolPtr(v bool) *bool { return &v }

func strPtr(v string) *string { return &v }

func uintPtr(v uint) *uint { return &v }
