package shop

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// OrderColumns are the columns a list may be sorted by.
var OrderColumns = []string{"id", "created_at", "updated_at"}

// ListParams pages and sorts a list read.
type ListParams struct {
	Limit   int
	Offset  int
	OrderBy string
	Order   Order
}

// DefaultListParams is what an empty query string means.
func DefaultListParams() ListParams {
	return ListParams{Limit: DefaultLimit, OrderBy: "updated_at", Order: Desc}
}

// ParseListParams reads limit, offset, order_by and order from q, filling
// defaults for missing values.
func ParseListParams(q url.Values) (ListParams, error) {
	p := DefaultListParams()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > MaxLimit {
			return ListParams{}, invalid("limit must be between 1 and %d", MaxLimit)
		}
		p.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return ListParams{}, invalid("offset must be a non-negative integer")
		}
		p.Offset = n
	}
	if v := q.Get("order_by"); v != "" {
		if !slices.Contains(OrderColumns, v) {
			return ListParams{}, invalid("order_by must be one of %s", strings.Join(OrderColumns, ", "))
		}
		p.OrderBy = v
	}
	if v := q.Get("order"); v != "" {
		switch o := Order(strings.ToLower(v)); o {
		case Asc, Desc:
			p.Order = o
		default:
			return ListParams{}, invalid("order must be asc or desc")
		}
	}
	return p, nil
}

// Canonical is the cache variant of p. Equal parameters give equal strings
// however the query was spelled.
func (p ListParams) Canonical() string {
	var b strings.Builder
	b.WriteString("limit=")
	b.WriteString(strconv.Itoa(p.Limit))
	b.WriteString("&offset=")
	b.WriteString(strconv.Itoa(p.Offset))
	b.WriteString("&order_by=")
	b.WriteString(p.OrderBy)
	b.WriteString("&order=")
	b.WriteString(string(p.Order))
	return b.String()
}
