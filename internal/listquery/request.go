package listquery

import (
	"sort"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Filters are the identity-relevant filter values of a list view (status, project type...).
// An empty value means "no filter" and is dropped from the identity.
type Filters map[string]string

// Clone returns a copy without empty values.
func (f Filters) Clone() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		if v == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// Get returns the value for name or "".
func (f Filters) Get(name string) string {
	if f == nil {
		return ""
	}
	return f[name]
}

func (f Filters) canonical() string {
	keys := make([]string, 0, len(f))
	for k, v := range f {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strconv.Quote(f[k]))
	}
	return b.String()
}

// Request is what a Fetcher receives.
type Request struct {
	Page       int
	SearchTerm string
	Limit      int
	ScopeID    string // selected corporate, "" when none
	Filters    Filters
}

// PageInfo mirrors the upstream pagination envelope.
type PageInfo struct {
	Page      int `json:"page"`
	Limit     int `json:"limit"`
	Total     int `json:"total"`
	TotalPage int `json:"totalPage"`
}

// Key identifies one cacheable page of one list.
type Key struct {
	Namespace string
	Filters   string
	Page      int
	Search    string
	Limit     int
	Scope     string
}

func newKey(namespace string, req Request) Key {
	return Key{
		Namespace: namespace,
		Filters:   req.Filters.canonical(),
		Page:      req.Page,
		Search:    req.SearchTerm,
		Limit:     req.Limit,
		Scope:     req.ScopeID,
	}
}

// String renders the cache key. The namespace always comes first so a namespace
// can be invalidated by prefix.
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(k.Namespace)
	b.WriteString("|{")
	b.WriteString(k.Filters)
	b.WriteString("}|page=")
	b.WriteString(strconv.Itoa(k.Page))
	b.WriteString("|q=")
	b.WriteString(strconv.Quote(k.Search))
	b.WriteString("|limit=")
	b.WriteString(strconv.Itoa(k.Limit))
	b.WriteString("|scope=")
	b.WriteString(strconv.Quote(k.Scope))
	return b.String()
}

func namespacePrefix(namespace string) string {
	return namespace + "|"
}
