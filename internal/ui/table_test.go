package ui

import (
	"strings"
	"testing"

	"github.com/aidanlsb/insight/internal/model"
)

func TestTableRender(t *testing.T) {
	tbl := NewTable("Book", "Entries")
	tbl.AddRow("Genesis", "2")
	tbl.AddRow("Alma")

	if tbl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tbl.Len())
	}

	out := tbl.String()
	for _, want := range []string{"BOOK", "ENTRIES", "Genesis", "Alma", "┌"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestList(t *testing.T) {
	l := NewList()
	l.Add("Genesis 1")
	l.Add("Faith")

	if got, want := l.String(), "  • Genesis 1\n  • Faith\n"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestEntryMarkdown(t *testing.T) {
	e := model.NewEntry("2024-01-01", "Read **Alma 32**.\n")
	e.AddScripture(model.Scripture{Book: "Alma", Chapter: "32", StartVerse: "21"})
	e.AddTopic("Faith")

	want := "# 2024-01-01\n\nRead **Alma 32**.\n\n## Scriptures\n\n- Alma 32 21\n\n## Topics\n\n- Faith\n"
	if got := EntryMarkdown(e); got != want {
		t.Errorf("EntryMarkdown() = %q, want %q", got, want)
	}

	if got := EntryMarkdown(model.NewEntry("d", "")); got != "# d\n\n" {
		t.Errorf("EntryMarkdown(empty) = %q", got)
	}
}
