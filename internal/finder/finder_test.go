package finder

import (
	"reflect"
	"strings"
	"testing"

	"github.com/aidanlsb/insight/internal/catalog"
	"github.com/aidanlsb/insight/internal/model"
	"github.com/aidanlsb/insight/internal/testutil"
)

func mustCompile(t *testing.T, cat *catalog.Catalog, rule VerseRule) *Finder {
	t.Helper()
	f, err := Compile(cat, Options{VerseRule: rule})
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}
	return f
}

func titles(refs []model.Scripture) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.FullTitle()
	}
	return out
}

func TestExtractScriptures(t *testing.T) {
	f := mustCompile(t, testutil.Catalog(t), VerseRuleObserved)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "no citations",
			text: "Hi my name is Grant Merrill",
			want: []string{},
		},
		{
			name: "drops unknown book",
			text: "hi 2 Nephi 22:3 and Enos 9 and gen 50",
			want: []string{"2 Nephi 22 3", "Genesis 50 "},
		},
		{
			name: "empty text",
			text: "",
			want: []string{},
		},
		{
			name: "chapter out of range",
			text: "Genesis 51 and Jacob 20",
			want: []string{},
		},
		{
			name: "chapter word",
			text: "read genesis chapter 3 today",
			want: []string{"Genesis 3 "},
		},
		{
			name: "section word",
			text: "studied D&C section 4:2",
			want: []string{"Doctrine and Covenants 4 2"},
		},
		{
			name: "aliases resolve to one citation",
			text: "gen 50 and then Genesis 50 again",
			want: []string{"Genesis 50 "},
		},
		{
			name: "case-insensitive",
			text: "ALMA 32:21",
			want: []string{"Alma 32 21"},
		},
		{
			name: "stray verse continues previous book",
			text: "Alma 32:21 and v. 23",
			want: []string{"Alma 32 21", "Alma 23 "},
		},
		{
			name: "stray verse without a previous citation",
			text: "see v.4 for more",
			want: []string{},
		},
		{
			name: "range ends at start verse",
			text: "alma 32:21-23",
			want: []string{"Alma 32 21"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := model.NewEntry("2024-01-01", tt.text)
			f.ExtractScriptures(entry)
			got := titles(entry.Scriptures)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractScriptures(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractScripturesSeparatedRanges(t *testing.T) {
	f := mustCompile(t, testutil.Catalog(t), VerseRuleSeparated)

	tests := []struct {
		text string
		want []string
	}{
		{text: "alma 32:21-23", want: []string{"Alma 32 21 - 23"}},
		{text: "Moroni chapter 10:3,5", want: []string{"Moroni 10 3 - 5"}},
		{text: "gen 1:1 and gen 1:1-3", want: []string{"Genesis 1 1", "Genesis 1 1 - 3"}},
		{text: "mosiah 2:17", want: []string{"Mosiah 2 17"}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			entry := model.NewEntry("2024-01-01", tt.text)
			f.ExtractScriptures(entry)
			if got := titles(entry.Scriptures); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractScriptures(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractScripturesReplacesPrevious(t *testing.T) {
	f := mustCompile(t, testutil.Catalog(t), VerseRuleObserved)

	entry := model.NewEntry("2024-01-01", "gen 1")
	entry.AddScripture(model.Scripture{Book: "Alma", Chapter: "5"})
	f.ExtractScriptures(entry)

	if got := titles(entry.Scriptures); !reflect.DeepEqual(got, []string{"Genesis 1 "}) {
		t.Errorf("expected extraction to replace earlier scriptures, got %q", got)
	}
}

func TestExtractTopics(t *testing.T) {
	f := mustCompile(t, testutil.Catalog(t), VerseRuleObserved)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "synonyms of one topic collapse",
			text: "stiffnecked and now humility and if you humble",
			want: []string{"Pride", "Humility"},
		},
		{
			name: "four topics",
			text: "holy ghost, covenant, Jesus, hope",
			want: []string{"Holy Ghost", "Covenants", "Jesus Christ", "Hope"},
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
		{
			name: "case-sensitive",
			text: "STIFFNECKED and HOPE",
			want: nil,
		},
		{
			name: "substring match",
			text: "they were prayerful",
			want: []string{"Prayer"},
		},
		{
			name: "longer synonym wins",
			text: "keep your covenants",
			want: []string{"Covenants"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := model.NewEntry("2024-01-01", tt.text)
			f.ExtractTopics(entry)
			if !reflect.DeepEqual(entry.Topics, tt.want) {
				t.Errorf("ExtractTopics(%q) = %q, want %q", tt.text, entry.Topics, tt.want)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	f := mustCompile(t, testutil.Catalog(t), VerseRuleObserved)

	entry := model.NewEntry("2024-03-01", "Read Moroni 10:4 about faith and prayer.")
	f.Extract(entry)

	if got := titles(entry.Scriptures); !reflect.DeepEqual(got, []string{"Moroni 10 4"}) {
		t.Errorf("scriptures = %q", got)
	}
	if !reflect.DeepEqual(entry.Topics, []string{"Faith", "Prayer"}) {
		t.Errorf("topics = %q", entry.Topics)
	}
}

func TestCompileWithEmptyCatalog(t *testing.T) {
	cat, err := catalog.Parse(nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	f := mustCompile(t, cat, VerseRuleObserved)

	entry := model.NewEntry("d", "Genesis 1 and faith and v. 2")
	f.Extract(entry)
	if len(entry.Scriptures) != 0 || len(entry.Topics) != 0 {
		t.Errorf("expected nothing from an empty catalog, got %+v", entry)
	}
	if len(f.TopicPatterns()) != 0 {
		t.Errorf("expected no topic patterns, got %q", f.TopicPatterns())
	}
}

func TestScripturePatternOrder(t *testing.T) {
	cat, err := catalog.Parse(
		strings.NewReader("Alma:63\n"),
		nil,
		strings.NewReader("Alma:alma\n"),
	)
	if err != nil {
		t.Fatal(err)
	}

	observed := mustCompile(t, cat, VerseRuleObserved).ScripturePatterns()
	wantObserved := []string{
		`alma chapter \d+:\d+`,
		`alma section \d+:\d+`,
		`alma chapter \d+`,
		`alma section \d+`,
		`alma \d+:\d+`,
		`alma \d+`,
		`v\.\d+`,
		`v\. \d+`,
	}
	if !reflect.DeepEqual(observed, wantObserved) {
		t.Errorf("observed patterns = %q, want %q", observed, wantObserved)
	}

	separated := mustCompile(t, cat, VerseRuleSeparated).ScripturePatterns()
	wantSeparated := []string{
		`alma chapter \d+:\d+[-,]\d+`,
		`alma chapter \d+:\d+`,
		`alma section \d+:\d+[-,]\d+`,
		`alma section \d+:\d+`,
		`alma chapter \d+`,
		`alma section \d+`,
		`alma \d+:\d+[-,]\d+`,
		`alma \d+:\d+`,
		`alma \d+`,
		`v\.\d+`,
		`v\. \d+`,
	}
	if !reflect.DeepEqual(separated, wantSeparated) {
		t.Errorf("separated patterns = %q, want %q", separated, wantSeparated)
	}
}

func TestAliasesAreQuoted(t *testing.T) {
	cat, err := catalog.Parse(
		strings.NewReader("Doctrine and Covenants:138\n"),
		nil,
		strings.NewReader("Doctrine and Covenants:d.c\n"),
	)
	if err != nil {
		t.Fatal(err)
	}
	f := mustCompile(t, cat, VerseRuleObserved)

	entry := model.NewEntry("d", "dxc 4 but d.c 5")
	f.ExtractScriptures(entry)
	if got := titles(entry.Scriptures); !reflect.DeepEqual(got, []string{"Doctrine and Covenants 5 "}) {
		t.Errorf("got %q", got)
	}
}

func TestTopicPatternOrder(t *testing.T) {
	cat, err := catalog.Parse(nil, strings.NewReader("Pride:pride,stiffnecked\nHope:hope,hopeful\n"), nil)
	if err != nil {
		t.Fatal(err)
	}

	got := mustCompile(t, cat, VerseRuleObserved).TopicPatterns()
	want := []string{"stiffnecked", "hopeful", "pride", "hope"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopicPatterns() = %q, want %q", got, want)
	}
}
