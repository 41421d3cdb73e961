package finder

import (
	"testing"

	"github.com/aidanlsb/insight/internal/model"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name   string
		phrase string
		rule   VerseRule
		want   model.Scripture
	}{
		{
			name:   "book and chapter",
			phrase: "genesis 50",
			want:   model.Scripture{Book: "genesis", Chapter: "50"},
		},
		{
			name:   "numeric book prefix",
			phrase: "2 nephi 22:3",
			want:   model.Scripture{Book: "2 nephi", Chapter: "22", StartVerse: "3"},
		},
		{
			name:   "observed rule keeps range in start verse",
			phrase: "alma 32:21-23",
			want:   model.Scripture{Book: "alma", Chapter: "32", StartVerse: "21-23"},
		},
		{
			name:   "separated rule splits on dash",
			phrase: "alma 32:21-23",
			rule:   VerseRuleSeparated,
			want:   model.Scripture{Book: "alma", Chapter: "32", StartVerse: "21", EndVerse: "23"},
		},
		{
			name:   "separated rule splits on comma",
			phrase: "moroni 10:3,5",
			rule:   VerseRuleSeparated,
			want:   model.Scripture{Book: "moroni", Chapter: "10", StartVerse: "3", EndVerse: "5"},
		},
		{
			name:   "stray verse",
			phrase: "v. 23",
			want:   model.Scripture{Book: "v.", Chapter: "23"},
		},
		{
			name:   "stray verse without space",
			phrase: "v.4",
			want:   model.Scripture{Book: "v.", Chapter: "4"},
		},
		{
			name:   "empty phrase",
			phrase: "",
			want:   model.Scripture{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Tokenize(tt.phrase, tt.rule); got != tt.want {
				t.Errorf("Tokenize(%q) = %+v, want %+v", tt.phrase, got, tt.want)
			}
		})
	}
}

func TestVerseRuleSet(t *testing.T) {
	var r VerseRule
	if err := r.Set("Separated"); err != nil || r != VerseRuleSeparated {
		t.Errorf("Set(Separated) = %v, rule %v", err, r)
	}
	if err := r.Set(""); err != nil || r != VerseRuleObserved {
		t.Errorf("Set(\"\") = %v, rule %v", err, r)
	}
	if err := r.Set("greedy"); err == nil {
		t.Error("expected error for unknown rule")
	}

	if err := r.UnmarshalText([]byte("separated")); err != nil || r.String() != "separated" {
		t.Errorf("UnmarshalText() = %v, rule %v", err, r)
	}
}
