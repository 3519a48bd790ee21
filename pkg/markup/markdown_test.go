package markup

import "testing"

func TestEscapeMarkdownV2ReservedCharacters(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "hello world", "hello world"},
		{"dot and bang", "Done. Really!", `Done\. Really\!`},
		{"parens and brackets", "see [docs](here)", `see \[docs\]\(here\)`},
		{"underscore", "snake_case", `snake\_case`},
		{"mid-line dash", "a-b", `a\-b`},
		{"hash and pipe", "# one | two", `\# one \| two`},
		{"bold preserved", "**important** note.", `**important** note\.`},
		{"single asterisk escaped", "2*3", `2\*3`},
		{"star bullet preserved", "* first\n* second", "* first\n* second"},
		{"dash bullet preserved", "- first\n- second", "- first\n- second"},
		{"indented bullet preserved", "  * item", "  * item"},
		{"unicode passthrough", "မင်္ဂလာပါ 🎤", "မင်္ဂလာပါ 🎤"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EscapeMarkdownV2(tc.input); got != tc.want {
				t.Fatalf("EscapeMarkdownV2(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestEscapeMarkdownV2Idempotent(t *testing.T) {
	inputs := []string{
		"hello world",
		"Done. Really!",
		"**bold** and (parens) and [brackets]",
		`already \. escaped \!`,
		"* bullet\n- dash bullet\nplain - dash.",
		"mixed **bold** with 2*3 and _under_",
		`back\\slash \. pair`,
	}

	for _, input := range inputs {
		once := EscapeMarkdownV2(input)
		twice := EscapeMarkdownV2(once)
		if once != twice {
			t.Fatalf("EscapeMarkdownV2 not idempotent for %q: once %q, twice %q", input, once, twice)
		}
	}
}
