package dates

import (
	"sort"
	"testing"
	"time"
)

func TestIsValidDate(t *testing.T) {
	valid := []string{"2025-01-01", "2024-12-31", "2000-06-15"}
	for _, d := range valid {
		if !IsValidDate(d) {
			t.Fatalf("expected %q to be valid", d)
		}
	}

	invalid := []string{"2025/01/01", "01-01-2025", "2025-13-01", "2025-01-32", "not-a-date", "", "2025-02-30"}
	for _, d := range invalid {
		if IsValidDate(d) {
			t.Fatalf("expected %q to be invalid", d)
		}
	}
}

func TestParseDateArg(t *testing.T) {
	now := time.Date(2025, 2, 15, 10, 0, 0, 0, time.UTC)

	today, err := ParseDateArg("", now)
	if err != nil || !today.Equal(now) {
		t.Fatalf("empty arg should default to now, got %v err=%v", today, err)
	}

	d, err := ParseDateArg("2025-02-01", now)
	if err != nil || d.Year() != 2025 || d.Month() != time.February || d.Day() != 1 {
		t.Fatalf("expected 2025-02-01, got %v err=%v", d, err)
	}

	_, err = ParseDateArg("02-01-2025", now)
	if err == nil {
		t.Fatalf("expected error for invalid date arg")
	}
}

func TestEntryDate(t *testing.T) {
	now := time.Date(2025, 3, 1, 23, 30, 0, 0, time.UTC)

	tests := []struct {
		arg  string
		want string
	}{
		{arg: "", want: "2025-03-01"},
		{arg: "Today", want: "2025-03-01"},
		{arg: "yesterday", want: "2025-02-28"},
		{arg: "tomorrow", want: "2025-03-02"},
		{arg: " 2024-12-25 ", want: "2024-12-25"},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := EntryDate(tt.arg, now)
			if err != nil {
				t.Fatalf("EntryDate(%q) error: %v", tt.arg, err)
			}
			if got != tt.want {
				t.Errorf("EntryDate(%q) = %q, want %q", tt.arg, got, tt.want)
			}
		})
	}

	if _, err := EntryDate("next week", now); err == nil {
		t.Error("expected error for unsupported argument")
	}
}

func TestCompare(t *testing.T) {
	got := []string{"Sunday", "2024-02-01", "2023-12-31", "Monday", "2024-01-15"}
	sort.SliceStable(got, func(i, j int) bool { return Compare(got[i], got[j]) < 0 })

	want := []string{"2023-12-31", "2024-01-15", "2024-02-01", "Monday", "Sunday"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted = %q, want %q", got, want)
		}
	}
}
