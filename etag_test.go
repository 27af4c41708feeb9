package repcache

import "testing"

func TestMatchNoneMatch(t *testing.T) {
	tok := Token(0x1234)
	tag := tok.ETag()
	cases := []struct {
		header string
		want   bool
	}{
		{"", false},
		{"   ", false},
		{"*", true},
		{tag, true},
		{"W/" + tag, true},
		{" " + tag + " ", true},
		{`"aaaa", ` + tag, true},
		{`"aaaa",W/` + tag + `, "bbbb"`, true},
		{"0000000000001234", true},
		{`"aaaa", "bbbb"`, false},
		{`"1234"`, false},
		{`W/"0000000000001235"`, false},
	}
	for _, tc := range cases {
		if got := MatchNoneMatch(tc.header, tok); got != tc.want {
			t.Fatalf("MatchNoneMatch(%q) = %v want %v", tc.header, got, tc.want)
		}
	}
}
