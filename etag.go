package repcache

import "strings"

// MatchNoneMatch reports whether an If-None-Match header value matches t.
// The header may be "*" or a comma separated list of entity tags; tags are
// compared weakly (a W/ prefix is ignored on either side). An empty header
// never matches.
func MatchNoneMatch(header string, t Token) bool {
	header = strings.TrimSpace(header)
	if header == "" {
		return false
	}
	if header == "*" {
		return true
	}
	want := t.Hex()
	for _, tag := range strings.Split(header, ",") {
		tag = strings.TrimSpace(tag)
		tag = strings.TrimPrefix(tag, "W/")
		if tag == "*" {
			return true
		}
		// unquoted tags are accepted for lenient clients
		tag = strings.TrimSuffix(strings.TrimPrefix(tag, `"`), `"`)
		if tag == want {
			return true
		}
	}
	return false
}
