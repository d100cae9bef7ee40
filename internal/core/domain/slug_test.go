package domain

import "testing"

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World":                       "hello-world",
		"  Webinar PPOK 2025!  ":            "webinar-ppok-2025",
		"Multiple   spaces -- and--hyphens": "multiple-spaces-and-hyphens",
		"Ünïcode & symbols":                 "ncode-symbols",
		"---":                               "",
		"":                                  "",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSlugify_Idempotent(t *testing.T) {
	for _, in := range []string{"Hello World", "a -- b", "RSUP Persahabatan, Jakarta", "x"} {
		once := Slugify(in)
		if twice := Slugify(once); twice != once {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestSlugFor(t *testing.T) {
	if got := SlugFor("", "!!!", "Title Here", "id"); got != "title-here" {
		t.Fatalf("expected first usable candidate, got %q", got)
	}
	if got := SlugFor("", "  "); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
