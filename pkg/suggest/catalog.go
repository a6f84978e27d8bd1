package suggest

import (
	"fmt"
	"strings"
)

// Function is an action the client can offer the user.
type Function struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Catalog is an ordered set of functions.
type Catalog struct {
	functions []Function
	byName    map[string]Function
}

// NewCatalog builds a Catalog. Later duplicates are ignored.
func NewCatalog(fns ...Function) *Catalog {
	c := &Catalog{byName: make(map[string]Function, len(fns))}
	for _, fn := range fns {
		if _, ok := c.byName[fn.Name]; ok {
			continue
		}
		c.byName[fn.Name] = fn
		c.functions = append(c.functions, fn)
	}
	return c
}

// DefaultCatalog returns the travel assistant's functions.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		Function{Name: "showImages", Description: "Display images of hotels or destinations"},
		Function{Name: "analyzeReviews", Description: "Analyze reviews for a specific hotel"},
		Function{Name: "bookRoom", Description: "Initiate the room booking process"},
	)
}

// Functions returns the catalog in declaration order.
func (c *Catalog) Functions() []Function {
	return append([]Function(nil), c.functions...)
}

// Lookup finds a function by exact name.
func (c *Catalog) Lookup(name string) (Function, bool) {
	fn, ok := c.byName[name]
	return fn, ok
}

// Filter keeps the names that are in the catalog, in input order, without
// duplicates. Each entry is normalized first, so "- bookRoom" and
// "bookRoom: start booking" both yield "bookRoom".
func (c *Catalog) Filter(names []string) []string {
	out := []string{}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = normalizeName(n)
		if _, ok := c.byName[n]; !ok {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Describe renders the catalog as "- name: description" lines for prompts.
func (c *Catalog) Describe() string {
	lines := make([]string, len(c.functions))
	for i, fn := range c.functions {
		lines[i] = fmt.Sprintf("- %s: %s", fn.Name, fn.Description)
	}
	return strings.Join(lines, "\n")
}

// normalizeName strips list decoration from a reply line: a leading bullet
// or number, a trailing ": description", quotes and a call suffix.
func normalizeName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "-*•+ \t")
	if i := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }); i > 0 && (s[i] == '.' || s[i] == ')') {
		s = s[i+1:]
	}
	if name, _, ok := strings.Cut(s, ":"); ok {
		s = name
	}
	s = strings.Trim(strings.TrimSpace(s), "`'\"*")
	return strings.TrimSuffix(s, "()")
}
