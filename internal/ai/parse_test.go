package ai

import "testing"

func TestStripCodeFence(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `  {"mood":"calm"}  `, `{"mood":"calm"}`},
		{"json fence", "```json\n{\"mood\":\"calm\"}\n```", `{"mood":"calm"}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding text", "Here you go:\n```json\n{\"a\":1}\n```\nEnjoy", "Here you go:\n{\"a\":1}\nEnjoy"},
		{"only first fence", "```json\n{}\n```\n```\n[]\n```", "{}\n```\n[]\n```"},
		{"unterminated", "```json\n{\"a\":1}", "```json\n{\"a\":1}"},
	}
	for _, tc := range cases {
		if got := StripCodeFence(tc.in); got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}
