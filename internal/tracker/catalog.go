package tracker

import (
	"strings"

	"github.com/Wpsi1337/exile-tracker/internal/ninja"
	"github.com/Wpsi1337/exile-tracker/pkg/model"
)

// Catalog is the ordered set of category display names the dashboard cycles
// through. Names deduplicate on their normalized form, first spelling wins.
// Categories the upstream reports no dataset for get pruned at runtime.
type Catalog struct {
	names []string
	index int
}

// NewCatalog seeds the cycle for a game and positions it on initial. An
// initial category outside the known set is appended so a hand-configured
// category is never lost.
func NewCatalog(game model.Game, initial string) *Catalog {
	c := &Catalog{}
	seen := make(map[string]struct{})
	for _, name := range ninja.KnownCategories(game) {
		cleaned := strings.TrimSpace(name)
		norm := model.NormalizeCategory(cleaned)
		if cleaned == "" {
			continue
		}
		if _, dup := seen[norm]; dup {
			continue
		}
		c.names = append(c.names, cleaned)
		seen[norm] = struct{}{}
	}
	if cleaned := strings.TrimSpace(initial); cleaned != "" {
		c.index = c.Locate(cleaned)
	}
	return c
}

// Current returns the selected category's display name, or "" when the cycle
// has been pruned empty.
func (c *Catalog) Current() string {
	if len(c.names) == 0 {
		return ""
	}
	return c.names[c.index]
}

// Names returns a copy of the cycle in order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len returns the cycle length.
func (c *Catalog) Len() int {
	return len(c.names)
}

// Locate returns the index of category, appending it when absent so every
// requested category has a slot.
func (c *Catalog) Locate(category string) int {
	norm := model.NormalizeCategory(category)
	for i, name := range c.names {
		if model.NormalizeCategory(name) == norm {
			return i
		}
	}
	cleaned := strings.TrimSpace(category)
	if cleaned == "" {
		cleaned = "Currency"
	}
	c.names = append(c.names, cleaned)
	return len(c.names) - 1
}

// Select moves the cursor to category, appending it when absent, and returns
// its display name.
func (c *Catalog) Select(category string) string {
	c.index = c.Locate(category)
	return c.names[c.index]
}

// Advance steps the cursor by delta with wraparound and returns the new
// current name. Callers that skip failing categories bound their loop by Len.
func (c *Catalog) Advance(delta int) string {
	if len(c.names) == 0 {
		return ""
	}
	c.index = ((c.index+delta)%len(c.names) + len(c.names)) % len(c.names)
	return c.names[c.index]
}

// Remove prunes category from the cycle. The cursor lands on the entry that
// slid into the removed slot, wrapping at the end. Returns the removed display
// name and whether anything was removed.
func (c *Catalog) Remove(category string) (string, bool) {
	norm := model.NormalizeCategory(category)
	for i, name := range c.names {
		if model.NormalizeCategory(name) != norm {
			continue
		}
		c.names = append(c.names[:i], c.names[i+1:]...)
		if len(c.names) == 0 {
			c.index = 0
		} else {
			c.index = i % len(c.names)
		}
		return name, true
	}
	return "", false
}

// DisplayName resolves a normalized category back to its display spelling,
// falling back to the input when it is not in the cycle.
func (c *Catalog) DisplayName(normalized string) string {
	for _, name := range c.names {
		if model.NormalizeCategory(name) == normalized {
			return name
		}
	}
	return normalized
}
