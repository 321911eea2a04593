package tracker

import (
	"regexp"
	"sort"
	"strings"

	"github.com/Wpsi1337/exile-tracker/pkg/model"
)

// DisplayEntry is one renderable row: a price entry tagged with where it came
// from. Search results mix partitions, so every row carries its category.
type DisplayEntry struct {
	Category           string
	NormalizedCategory string
	Mode               model.PriceMode
	Entry              model.PriceEntry
}

// Searcher matches entries by name across every cached partition of the
// active game.
type Searcher struct {
	cache     *SnapshotCache
	annotator *Annotator
}

// NewSearcher creates a searcher over the snapshot cache.
func NewSearcher(cache *SnapshotCache, annotator *Annotator) *Searcher {
	return &Searcher{cache: cache, annotator: annotator}
}

// modeSuffix renders a non-default price mode into the category label.
func modeSuffix(category string, mode model.PriceMode) string {
	if mode == model.ModeStash {
		return category
	}
	label := string(mode)
	return category + " (" + strings.ToUpper(label[:1]) + label[1:] + ")"
}

// Search returns up to limit entries whose name contains query,
// case-insensitive, ordered by chaos value descending. Partitions of other
// games never contribute. Results are annotated with exalted values before
// ranking.
func (s *Searcher) Search(game model.Game, displayName func(string) string, query string, limit int) []DisplayEntry {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	needle := strings.ToLower(query)
	if limit < 1 {
		limit = 1
	}

	items := s.cache.Items()
	keys := make([]model.PartitionKey, 0, len(items))
	for k := range items {
		if k.Game == game {
			keys = append(keys, k)
		}
	}
	// Map order is random; fix partition order so equal-price rows rank
	// deterministically.
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	var matches []DisplayEntry
	for _, key := range keys {
		snap := items[key]
		s.annotator.Annotate(snap)
		label := modeSuffix(displayName(key.Category), key.Mode)
		for _, entry := range snap.Entries {
			if strings.Contains(strings.ToLower(entry.Name), needle) {
				matches = append(matches, DisplayEntry{
					Category:           label,
					NormalizedCategory: key.Category,
					Mode:               key.Mode,
					Entry:              entry,
				})
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Entry.ChaosValue > matches[j].Entry.ChaosValue
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

var categorySeparators = regexp.MustCompile(`[\s_-]+`)

// ResolveCategory matches query against the catalog for an enter-to-jump.
// Separators are ignored, so "uncut gems", "uncut-gems" and "uncutgems" all
// hit the same category. An exact match wins outright; a single substring
// match is accepted; several substring matches come back as candidates for
// the caller to report.
func ResolveCategory(catalog *Catalog, query string) (target string, candidates []string) {
	sanitizedQuery := categorySeparators.ReplaceAllString(model.NormalizeCategory(query), "")
	if sanitizedQuery == "" {
		return "", nil
	}

	var partial []string
	for _, name := range catalog.Names() {
		norm := categorySeparators.ReplaceAllString(model.NormalizeCategory(name), "")
		if norm == "" {
			continue
		}
		if norm == sanitizedQuery {
			return name, nil
		}
		if strings.Contains(norm, sanitizedQuery) {
			partial = append(partial, name)
		}
	}
	if len(partial) == 1 {
		return partial[0], nil
	}
	return "", partial
}
