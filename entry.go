package repcache

import "time"

// Entry is one cached representation. Entries are replaced wholesale,
// never mutated; Token is always TokenOf(Payload).
type Entry struct {
	Payload     []byte
	Token       Token
	ContentType string
	CreatedAt   time.Time
	// Gen is the resource generation the entry was built against.
	Gen uint64
}

// ETag is shorthand for e.Token.ETag().
func (e Entry) ETag() string { return e.Token.ETag() }
