package ui

import (
	"os"

	"github.com/charmbracelet/x/term"

	"github.com/aidanlsb/insight/internal/format"
)

// PageMargin is the left and right margin of a rendered entry page.
const PageMargin = 2

// minPageWidth keeps very narrow terminals readable.
const minPageWidth = 40

// Terminal describes the output an entry page is rendered to.
type Terminal struct {
	Width int
	IsTTY bool
}

// DetectTerminal inspects f. Width is 0 when f is not a terminal or its size
// is unknown.
func DetectTerminal(f *os.File) Terminal {
	fd := f.Fd()
	t := Terminal{IsTTY: term.IsTerminal(fd)}
	if t.IsTTY {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			t.Width = w
		}
	}
	return t
}

// PageWidth is the word-wrap width for a rendered entry. Entries are stored
// wrapped at format.WrapWidth, so pages never get wider than that.
func (t Terminal) PageWidth() int {
	width := format.WrapWidth
	if t.Width > 0 && t.Width-2*PageMargin < width {
		width = t.Width - 2*PageMargin
	}
	if width < minPageWidth {
		width = minPageWidth
	}
	return width
}
