// Package format converts journal entries to and from their on-disk forms: the
// structured XML tree, the flat text form, and the HTML export.
package format

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/aidanlsb/insight/internal/model"
)

// Element and attribute names of the structured form.
const (
	ElemJournal   = "journal"
	ElemEntry     = "entry"
	ElemScripture = "scripture"
	ElemTopic     = "topic"
	ElemContent   = "content"

	AttrDate       = "date"
	AttrBook       = "book"
	AttrChapter    = "chapter"
	AttrStartVerse = "startverse"
	AttrEndVerse   = "endverse"
)

// ErrNotJournal is returned when a tree has no journal root element.
var ErrNotJournal = errors.New("document has no journal root")

var (
	rootExpr    = xpath.MustCompile("/" + ElemJournal)
	entriesExpr = xpath.MustCompile("//" + ElemEntry)
)

// BuildTree converts entries to a document whose root is a journal element.
// Zero entries produce an empty journal element.
func BuildTree(entries []*model.Entry) *xmlquery.Node {
	doc := &xmlquery.Node{Type: xmlquery.DocumentNode}

	decl := &xmlquery.Node{Type: xmlquery.DeclarationNode, Data: "xml"}
	xmlquery.AddAttr(decl, "version", "1.0")
	xmlquery.AddAttr(decl, "encoding", "UTF-8")
	xmlquery.AddChild(doc, decl)

	root := element(ElemJournal)
	xmlquery.AddChild(doc, root)

	for _, entry := range entries {
		entryNode := element(ElemEntry)
		xmlquery.AddAttr(entryNode, AttrDate, entry.Date)
		xmlquery.AddChild(root, entryNode)

		for _, ref := range entry.Scriptures {
			xmlquery.AddChild(entryNode, scriptureNode(ref))
		}
		for _, topic := range entry.Topics {
			xmlquery.AddChild(entryNode, textElement(ElemTopic, topic))
		}
		xmlquery.AddChild(entryNode, textElement(ElemContent, Wrap(entry.Text)))
	}

	return doc
}

func scriptureNode(ref model.Scripture) *xmlquery.Node {
	n := element(ElemScripture)
	for _, attr := range []struct{ name, value string }{
		{AttrBook, ref.Book},
		{AttrChapter, ref.Chapter},
		{AttrStartVerse, ref.StartVerse},
		{AttrEndVerse, ref.EndVerse},
	} {
		if attr.value != "" {
			xmlquery.AddAttr(n, attr.name, attr.value)
		}
	}
	return n
}

func element(name string) *xmlquery.Node {
	return &xmlquery.Node{Type: xmlquery.ElementNode, Data: name}
}

func textElement(name, text string) *xmlquery.Node {
	n := element(name)
	xmlquery.AddChild(n, &xmlquery.Node{Type: xmlquery.TextNode, Data: text})
	return n
}

// ParseTree reads entries from a document or journal element. Every entry
// element is read in document order; unknown children are ignored. Content is
// trimmed and wrapped.
func ParseTree(doc *xmlquery.Node) ([]*model.Entry, error) {
	if doc == nil {
		return nil, ErrNotJournal
	}
	if !(doc.Type == xmlquery.ElementNode && doc.Data == ElemJournal) && xmlquery.QuerySelector(doc, rootExpr) == nil {
		return nil, ErrNotJournal
	}

	var entries []*model.Entry
	for _, node := range xmlquery.QuerySelectorAll(doc, entriesExpr) {
		entry := model.NewEntry(node.SelectAttr(AttrDate), "")

		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != xmlquery.ElementNode {
				continue
			}
			switch child.Data {
			case ElemScripture:
				entry.AddScripture(model.Scripture{
					Book:       child.SelectAttr(AttrBook),
					Chapter:    child.SelectAttr(AttrChapter),
					StartVerse: child.SelectAttr(AttrStartVerse),
					EndVerse:   child.SelectAttr(AttrEndVerse),
				})
			case ElemTopic:
				if topic := strings.TrimSpace(child.InnerText()); topic != "" {
					entry.AddTopic(topic)
				}
			case ElemContent:
				entry.Text = Wrap(strings.TrimSpace(child.InnerText()))
			}
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// ReadTree parses an XML document.
func ReadTree(r io.Reader) (*xmlquery.Node, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing journal XML: %w", err)
	}
	return doc, nil
}

// ReadEntries parses an XML journal and returns its entries.
func ReadEntries(r io.Reader) ([]*model.Entry, error) {
	doc, err := ReadTree(r)
	if err != nil {
		return nil, err
	}
	return ParseTree(doc)
}

// WriteEntries builds the tree for entries and writes it to w.
func WriteEntries(w io.Writer, entries []*model.Entry) error {
	return WriteTree(w, BuildTree(entries))
}

// WriteTree writes n as indented XML. Elements holding only text are written on
// one line with their text verbatim, so entry bodies keep their line breaks.
func WriteTree(w io.Writer, n *xmlquery.Node) error {
	bw := bufio.NewWriter(w)
	if err := writeNode(bw, n, 0); err != nil {
		return err
	}
	return bw.Flush()
}

const indent = "  "

// textEscaper leaves line breaks alone; xml.EscapeText would turn them into
// character references.
var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\r", "&#xD;")

func writeNode(w *bufio.Writer, n *xmlquery.Node, depth int) error {
	switch n.Type {
	case xmlquery.DocumentNode:
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if err := writeNode(w, child, depth); err != nil {
				return err
			}
		}

	case xmlquery.DeclarationNode:
		w.WriteString("<?xml")
		for _, attr := range n.Attr {
			writeAttr(w, attr.Name.Local, attr.Value)
		}
		w.WriteString("?>\n")

	case xmlquery.ElementNode:
		writeIndent(w, depth)
		w.WriteString("<")
		w.WriteString(n.Data)
		for _, attr := range n.Attr {
			writeAttr(w, attr.Name.Local, attr.Value)
		}
		w.WriteString(">")

		if hasElementChildren(n) {
			w.WriteString("\n")
			for child := n.FirstChild; child != nil; child = child.NextSibling {
				switch child.Type {
				case xmlquery.ElementNode, xmlquery.CommentNode:
					if err := writeNode(w, child, depth+1); err != nil {
						return err
					}
				}
			}
			writeIndent(w, depth)
		} else {
			for child := n.FirstChild; child != nil; child = child.NextSibling {
				if child.Type == xmlquery.TextNode || child.Type == xmlquery.CharDataNode {
					textEscaper.WriteString(w, child.Data)
				}
			}
		}

		w.WriteString("</")
		w.WriteString(n.Data)
		w.WriteString(">\n")

	case xmlquery.CommentNode:
		writeIndent(w, depth)
		w.WriteString("<!--")
		w.WriteString(n.Data)
		w.WriteString("-->\n")
	}

	return nil
}

func hasElementChildren(n *xmlquery.Node) bool {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return true
		}
	}
	return false
}

func writeAttr(w *bufio.Writer, name, value string) {
	w.WriteString(" ")
	w.WriteString(name)
	w.WriteString(`="`)
	// Write errors are sticky on bufio.Writer and surface on Flush.
	_ = xml.EscapeText(w, []byte(value))
	w.WriteString(`"`)
}

func writeIndent(w *bufio.Writer, depth int) {
	for i := 0; i < depth; i++ {
		w.WriteString(indent)
	}
}
