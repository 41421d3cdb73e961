package format

import (
	"strings"
	"unicode/utf8"
)

// WrapWidth is the rune position after which entry bodies are broken at the next space.
const WrapWidth = 120

// Wrap breaks each line of text at the first space at or after every WrapWidth
// runes. The space is replaced by a newline. Lines without such a space are left
// alone, and wrapping already-wrapped text changes nothing.
func Wrap(text string) string {
	if utf8.RuneCountInString(text) <= WrapWidth {
		return text
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = wrapLine(line)
	}
	return strings.Join(lines, "\n")
}

func wrapLine(line string) string {
	var b strings.Builder
	for {
		cut := breakAt(line)
		if cut < 0 {
			b.WriteString(line)
			return b.String()
		}
		b.WriteString(line[:cut])
		b.WriteByte('\n')
		line = line[cut+1:]
	}
}

// breakAt returns the byte offset of the first space at rune position WrapWidth
// or later, or -1.
func breakAt(line string) int {
	pos := 0
	for i, r := range line {
		if pos >= WrapWidth && r == ' ' {
			return i
		}
		pos++
	}
	return -1
}
