package model

import (
	"fmt"
	"strings"
	"time"
)

// Game identifies which Path of Exile economy a partition belongs to.
type Game string

const (
	GamePoE  Game = "poe"
	GamePoE2 Game = "poe2"
)

// ParseGame normalizes a game string, defaulting to poe2 on anything unknown.
func ParseGame(s string) Game {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(GamePoE):
		return GamePoE
	default:
		return GamePoE2
	}
}

// Valid reports whether g is one of the supported games.
func (g Game) Valid() bool {
	return g == GamePoE || g == GamePoE2
}

// PriceMode selects which upstream price source a partition is built from.
// Exchange pricing only exists for the original game.
type PriceMode string

const (
	ModeStash    PriceMode = "stash"
	ModeExchange PriceMode = "exchange"
)

// PriceModes returns the modes available for the game, primary mode first.
func (g Game) PriceModes() []PriceMode {
	if g == GamePoE {
		return []PriceMode{ModeStash, ModeExchange}
	}
	return []PriceMode{ModeStash}
}

// ParsePriceMode normalizes a mode string against the modes valid for game,
// falling back to the game's primary mode.
func ParsePriceMode(s string, game Game) PriceMode {
	candidate := PriceMode(strings.ToLower(strings.TrimSpace(s)))
	for _, mode := range game.PriceModes() {
		if candidate == mode {
			return candidate
		}
	}
	return game.PriceModes()[0]
}

// NormalizeCategory produces the canonical form used for partition keys and
// catalog deduplication.
func NormalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// PartitionKey identifies one cached dataset: a (game, category, price mode)
// slice of the economy. Category is stored normalized.
type PartitionKey struct {
	Game     Game
	Category string
	Mode     PriceMode
}

// NewPartitionKey builds a key, normalizing the category.
func NewPartitionKey(game Game, category string, mode PriceMode) PartitionKey {
	return PartitionKey{
		Game:     game,
		Category: NormalizeCategory(category),
		Mode:     mode,
	}
}

// String renders the key in the "game:category|mode" form used for Redis
// warm-store keys and log fields.
func (k PartitionKey) String() string {
	return fmt.Sprintf("%s:%s|%s", k.Game, k.Category, k.Mode)
}

// ParsePartitionKey is the inverse of String. Used when priming the in-memory
// cache from the warm store.
func ParsePartitionKey(s string) (PartitionKey, error) {
	game, rest, ok := strings.Cut(s, ":")
	if !ok {
		return PartitionKey{}, fmt.Errorf("partition key %q: missing game prefix", s)
	}
	category, mode, ok := strings.Cut(rest, "|")
	if !ok {
		return PartitionKey{}, fmt.Errorf("partition key %q: missing price mode", s)
	}
	g := Game(game)
	if !g.Valid() {
		return PartitionKey{}, fmt.Errorf("partition key %q: unknown game %q", s, game)
	}
	m := PriceMode(mode)
	if m != ModeStash && m != ModeExchange {
		return PartitionKey{}, fmt.Errorf("partition key %q: unknown price mode %q", s, mode)
	}
	return PartitionKey{Game: g, Category: category, Mode: m}, nil
}

// PriceEntry is one priced line of an overview snapshot. Server order is rank
// order and is preserved end to end.
type PriceEntry struct {
	Name        string    `json:"name"`
	DetailsID   string    `json:"details_id,omitempty"`
	ChaosValue  float64   `json:"chaos_value"`
	DivineValue float64   `json:"divine_value,omitempty"`
	TradeVolume int       `json:"trade_volume,omitempty"`
	Sparkline   []float64 `json:"sparkline,omitempty"`

	// ExaltValue is derived from the exalted baseline after fetch and is
	// never persisted. Nil means no ratio is available for this entry.
	ExaltValue *float64 `json:"-"`
}

// Snapshot is one partition's fetched dataset. It is replaced wholesale on the
// next successful fetch; the only in-place mutation is exalted annotation.
type Snapshot struct {
	League    string       `json:"league"`
	Game      Game         `json:"game"`
	Category  string       `json:"category"`
	Mode      PriceMode    `json:"mode"`
	FetchedAt time.Time    `json:"fetched_at"`
	Entries   []PriceEntry `json:"entries"`
}

// Key returns the partition key this snapshot belongs to.
func (s *Snapshot) Key() PartitionKey {
	return NewPartitionKey(s.Game, s.Category, s.Mode)
}

// TopEntries returns up to limit leading entries in server rank order.
func (s *Snapshot) TopEntries(limit int) []PriceEntry {
	if limit <= 0 || limit >= len(s.Entries) {
		return s.Entries
	}
	return s.Entries[:limit]
}
