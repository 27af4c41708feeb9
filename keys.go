package repcache

import (
	"strconv"
	"strings"
)

// ResourceKey identifies a logical resource, e.g. (shop, 7).
// Aggregate keys (collections, shop-scoped aliases) use the same shape.
type ResourceKey struct {
	Kind string
	ID   int64
}

// Key is shorthand for ResourceKey{Kind: kind, ID: id}.
func Key(kind string, id int64) ResourceKey { return ResourceKey{Kind: kind, ID: id} }

func (k ResourceKey) String() string {
	return k.Kind + ":" + strconv.FormatInt(k.ID, 10)
}

// RepresentationKind selects the serialized form of a record.
type RepresentationKind uint8

const (
	Descriptive RepresentationKind = iota
	Compact
)

// kinds lists every representation Invalidate must clear.
var kinds = [...]RepresentationKind{Descriptive, Compact}

func (r RepresentationKind) String() string {
	switch r {
	case Descriptive:
		return "descriptive"
	case Compact:
		return "compact"
	default:
		return "unknown(" + strconv.Itoa(int(r)) + ")"
	}
}

func (r RepresentationKind) valid() bool { return r == Descriptive || r == Compact }

// EntryKey addresses one cached entry. Variant is empty for single
// resources; list views put their canonical parameters there.
type EntryKey struct {
	Resource ResourceKey
	Kind     RepresentationKind
	Variant  string
}

// Entry builds the EntryKey of a resource in the given representation.
func (k ResourceKey) Entry(kind RepresentationKind) EntryKey {
	return EntryKey{Resource: k, Kind: kind}
}

// View is like Entry with a list variant.
func (k ResourceKey) View(kind RepresentationKind, variant string) EntryKey {
	return EntryKey{Resource: k, Kind: kind, Variant: variant}
}

// String is the provider storage key.
func (k EntryKey) String() string {
	var b strings.Builder
	b.Grow(len("entry:") + len(k.Resource.Kind) + 24 + len(k.Variant))
	b.WriteString("entry:")
	b.WriteString(k.Resource.Kind)
	b.WriteByte(':')
	b.WriteString(strconv.FormatInt(k.Resource.ID, 10))
	b.WriteByte(':')
	b.WriteString(k.Kind.String())
	if k.Variant != "" {
		b.WriteByte(':')
		b.WriteString(k.Variant)
	}
	return b.String()
}
