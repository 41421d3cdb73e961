package format

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/aidanlsb/insight/internal/journal"
	"github.com/aidanlsb/insight/internal/model"
	"github.com/aidanlsb/insight/internal/slugs"
)

var markdown = goldmark.New(
	goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
)

// BuildHTML writes a standalone HTML page with every entry body rendered from
// markdown, followed by the reverse index when ix is not nil. Raw HTML inside
// entry bodies is not passed through.
func BuildHTML(w io.Writer, title string, entries []*model.Entry, ix *journal.Index) error {
	var b bytes.Buffer
	esc := html.EscapeString

	fmt.Fprintf(&b, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n", esc(title))
	fmt.Fprintf(&b, "<h1>%s</h1>\n", esc(title))

	ids := slugs.NewSet()
	entryAnchors := make(map[string]string, len(entries))

	for _, e := range entries {
		id := ids.Unique("entry-" + slugs.EntryID(e.Date))
		if _, ok := entryAnchors[e.Date]; !ok {
			entryAnchors[e.Date] = id
		}

		fmt.Fprintf(&b, "<section class=\"entry\" id=\"%s\">\n<h2>%s</h2>\n", id, esc(e.Date))
		if err := markdown.Convert([]byte(e.Text), &b); err != nil {
			return fmt.Errorf("render entry %s: %w", e.Date, err)
		}

		if len(e.Scriptures) > 0 || len(e.Topics) > 0 {
			b.WriteString("<ul class=\"references\">\n")
			for _, ref := range e.Scriptures {
				fmt.Fprintf(&b, "<li class=\"scripture\"><a href=\"#%s\">%s</a></li>\n",
					bookAnchor(ref.Book), esc(ref.FullTitle()))
			}
			for _, topic := range e.Topics {
				fmt.Fprintf(&b, "<li class=\"topic\"><a href=\"#%s\">%s</a></li>\n",
					topicAnchor(topic), esc(topic))
			}
			b.WriteString("</ul>\n")
		}
		b.WriteString("</section>\n")
	}

	if ix != nil {
		b.WriteString("<section class=\"index\" id=\"index\">\n<h2>Scriptures</h2>\n")
		writeIndexGroup(&b, ix.Books(), ix.ByBook, bookAnchor, entryAnchors)
		b.WriteString("<h2>Topics</h2>\n")
		writeIndexGroup(&b, ix.Topics(), ix.ByTopic, topicAnchor, entryAnchors)
		b.WriteString("</section>\n")
	}

	b.WriteString("</body>\n</html>\n")

	_, err := w.Write(b.Bytes())
	return err
}

func writeIndexGroup(b *bytes.Buffer, names []string, dates map[string][]string, anchor func(string) string, entryAnchors map[string]string) {
	for _, name := range names {
		fmt.Fprintf(b, "<h3 id=\"%s\">%s</h3>\n<ul>\n", anchor(name), html.EscapeString(name))
		for _, date := range dates[name] {
			if id, ok := entryAnchors[date]; ok {
				fmt.Fprintf(b, "<li><a href=\"#%s\">%s</a></li>\n", id, html.EscapeString(date))
			} else {
				fmt.Fprintf(b, "<li>%s</li>\n", html.EscapeString(date))
			}
		}
		b.WriteString("</ul>\n")
	}
}

func bookAnchor(book string) string { return "book-" + slugs.Anchor(book) }

func topicAnchor(topic string) string { return "topic-" + slugs.Anchor(topic) }
