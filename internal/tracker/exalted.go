package tracker

import (
	"strings"
	"sync"

	"github.com/Wpsi1337/exile-tracker/pkg/model"
)

const exaltedDetailsID = "exalted-orb"

// Annotator derives per-entry exalted values from a chaos-per-exalt baseline.
// The baseline comes from the snapshot itself when it contains an Exalted Orb
// line, otherwise from a cached currency partition of the same game. The last
// good baseline sticks per game, so item categories keep their exalted column
// even after the currency partition is invalidated.
type Annotator struct {
	mu        sync.Mutex
	cache     *SnapshotCache
	baselines map[model.Game]float64
}

// NewAnnotator creates an annotator backed by the snapshot cache.
func NewAnnotator(cache *SnapshotCache) *Annotator {
	return &Annotator{
		cache:     cache,
		baselines: make(map[model.Game]float64),
	}
}

// Annotate fills ExaltValue on every entry of snap in place. Entries with a
// zero chaos value get no ratio. Safe to call repeatedly on the same snapshot.
func (a *Annotator) Annotate(snap *model.Snapshot) {
	if snap == nil || len(snap.Entries) == 0 {
		return
	}

	a.mu.Lock()
	baseline, ok := extractExaltPrice(snap.Entries)
	if ok {
		a.baselines[snap.Game] = baseline
	} else {
		baseline, ok = a.currencyBaseline(snap.Game)
	}
	a.mu.Unlock()

	if !ok || baseline <= 0 {
		return
	}
	for i := range snap.Entries {
		entry := &snap.Entries[i]
		if entry.ChaosValue == 0 {
			entry.ExaltValue = nil
			continue
		}
		v := entry.ChaosValue / baseline
		entry.ExaltValue = &v
	}
}

// Baseline returns the sticky chaos-per-exalt ratio for game, if one has been
// observed.
func (a *Annotator) Baseline(game model.Game) (float64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, ok := a.baselines[game]
	return v, ok
}

// currencyBaseline looks up a cached currency partition of the same game,
// stash pricing before exchange, falling back to the sticky value. Caller
// holds the mutex.
func (a *Annotator) currencyBaseline(game model.Game) (float64, bool) {
	for _, mode := range game.PriceModes() {
		snap, _, ok := a.cache.Get(model.NewPartitionKey(game, "Currency", mode))
		if !ok {
			continue
		}
		if price, ok := extractExaltPrice(snap.Entries); ok {
			a.baselines[game] = price
			return price, true
		}
	}
	v, ok := a.baselines[game]
	return v, ok
}

// extractExaltPrice finds the chaos price of the Exalted Orb among entries.
// The details id is authoritative; the display name is a fallback for
// partitions that omit ids. Duplicate listings resolve to the cheapest
// positive price.
func extractExaltPrice(entries []model.PriceEntry) (float64, bool) {
	best := 0.0
	found := false
	for _, e := range entries {
		if e.ChaosValue <= 0 {
			continue
		}
		if strings.ToLower(strings.TrimSpace(e.DetailsID)) == exaltedDetailsID {
			if !found || e.ChaosValue < best {
				best = e.ChaosValue
				found = true
			}
		}
	}
	if found {
		return best, true
	}
	for _, e := range entries {
		if e.ChaosValue <= 0 {
			continue
		}
		if strings.ToLower(strings.TrimSpace(e.Name)) == "exalted orb" {
			if !found || e.ChaosValue < best {
				best = e.ChaosValue
				found = true
			}
		}
	}
	return best, found
}
