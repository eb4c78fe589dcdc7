package service

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Hello, World! 2024", "hello-world-2024"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"UPPER case Title", "upper-case-title"},
		{"multiple---separators___here", "multiple-separators-here"},
		{"Café au Lait", "caf-au-lait"},
		{"2024", "2024"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tc := range cases {
		if got := Slugify(tc.title); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestSlugifyShape(t *testing.T) {
	titles := []string{
		"Hello, World! 2024",
		"--- odd --- punctuation ---",
		"Tabs\tand\nnewlines",
		"ALL CAPS AND 123 NUMBERS",
		"ünïcôde héavy títle",
	}

	for _, title := range titles {
		slug := Slugify(title)
		if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
			t.Errorf("Slugify(%q) = %q has a leading or trailing hyphen", title, slug)
		}
		if strings.Contains(slug, "--") {
			t.Errorf("Slugify(%q) = %q contains a double hyphen", title, slug)
		}
		for _, r := range slug {
			if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '-' {
				t.Errorf("Slugify(%q) = %q contains %q", title, slug, r)
			}
		}
	}
}

func TestReadTime(t *testing.T) {
	word := "word "

	cases := []struct {
		name    string
		content string
		want    int
	}{
		{"empty", "", 0},
		{"whitespace only", "  \n\t ", 0},
		{"one word", "word", 1},
		{"exactly 200 words", strings.Repeat(word, 200), 1},
		{"201 words", strings.Repeat(word, 201), 2},
		{"exactly 400 words", strings.Repeat(word, 400), 2},
		{"401 words", strings.Repeat(word, 401), 3},
	}

	for _, tc := range cases {
		if got := ReadTime(tc.content); got != tc.want {
			t.Errorf("%s: ReadTime = %d, want %d", tc.name, got, tc.want)
		}
	}
}
