package ninja

import (
	"strings"
	"time"

	"github.com/Wpsi1337/exile-tracker/pkg/model"
)

// sparklineWindow is the number of trend samples kept per entry (one week of
// daily points, matching the upstream series length).
const sparklineWindow = 7

// Overview type catalogs per game. Order matters: it is the order categories
// are cycled through in the dashboard.
var (
	poeCurrencyOverviewTypes = []string{"Currency", "Fragment"}

	poeItemOverviewTypes = []string{
		"Oil", "Incubator", "Scarab", "Fossil", "Resonator", "Essence",
		"DivinationCard", "SkillGem", "UniqueWeapon", "UniqueArmour",
		"UniqueAccessory", "UniqueFlask", "UniqueJewel", "Map",
		"DeliriumOrb", "Invitation", "Memory", "Beast",
	}

	poe2FallbackOverviews = []string{
		"Currency", "Fragments", "Runes", "Essences", "Omens",
		"Catalysts", "Soul Cores", "Talismans", "Waystones", "Expedition",
	}

	// poe2OverviewAliases groups display-name variants per overview type.
	// The first variant is the primary display name; the rest are accepted
	// on input but never shown.
	poe2OverviewAliases = map[string][]string{
		"uncutgems":          {"Uncut Gems", "UncutGems", "Gems"},
		"distilledemotions":  {"Distilled Emotions", "DistilledEmotions", "Emotions"},
		"lineagesupportgems": {"Lineage Support Gems", "LineageSupportGems"},
	}
)

// KnownCategories returns the seed category list for a game in cycle order.
// Alias groups contribute only their primary display name.
func KnownCategories(game model.Game) []string {
	switch game {
	case model.GamePoE:
		out := make([]string, 0, len(poeCurrencyOverviewTypes)+len(poeItemOverviewTypes))
		out = append(out, poeCurrencyOverviewTypes...)
		out = append(out, poeItemOverviewTypes...)
		return out
	case model.GamePoE2:
		out := make([]string, 0, len(poe2FallbackOverviews)+len(poe2OverviewAliases))
		out = append(out, poe2FallbackOverviews...)
		for _, key := range []string{"uncutgems", "distilledemotions", "lineagesupportgems"} {
			variants := poe2OverviewAliases[key]
			if len(variants) > 0 {
				out = append(out, variants[0])
			}
		}
		return out
	default:
		return nil
	}
}

// sanitize strips whitespace, hyphens and underscores and lowercases, so
// "Uncut Gems", "uncut-gems" and "UncutGems" all collide.
func sanitize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch r {
		case ' ', '\t', '-', '_':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// OverviewType resolves a display category to the upstream overview type
// parameter. Alias variants resolve to their canonical type; unknown
// categories are passed through with spaces removed, letting the upstream
// decide whether they exist.
func OverviewType(game model.Game, category string) string {
	key := sanitize(category)
	if game == model.GamePoE2 {
		for canonical, variants := range poe2OverviewAliases {
			if key == canonical {
				return strings.ReplaceAll(variants[0], " ", "")
			}
			for _, v := range variants {
				if sanitize(v) == key {
					return strings.ReplaceAll(variants[0], " ", "")
				}
			}
		}
	}
	return strings.ReplaceAll(strings.TrimSpace(category), " ", "")
}

// IsCurrencyOverview reports whether the category is served by the currency
// overview endpoint rather than the item one.
func IsCurrencyOverview(game model.Game, category string) bool {
	key := sanitize(category)
	if game == model.GamePoE {
		for _, name := range poeCurrencyOverviewTypes {
			if sanitize(name) == key {
				return true
			}
		}
		return false
	}
	return key == "currency" || key == "fragments"
}

// Mapper converts upstream payloads into domain snapshots.
type Mapper struct{}

// NewMapper constructs a Mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// FromCurrencyOverview maps a currency overview payload, preserving server
// order (server order is rank order).
func (m *Mapper) FromCurrencyOverview(resp *CurrencyOverviewResponse, league, category string, game model.Game, mode model.PriceMode) *model.Snapshot {
	entries := make([]model.PriceEntry, 0, len(resp.Lines))
	for _, line := range resp.Lines {
		if line.CurrencyTypeName == "" {
			continue
		}
		entry := model.PriceEntry{
			Name:       line.CurrencyTypeName,
			DetailsID:  line.DetailsID,
			ChaosValue: line.ChaosEquivalent,
			Sparkline:  trendSeries(line.ReceiveSparkLine),
		}
		if line.ChaosEquivalent == 0 && line.Receive != nil {
			entry.ChaosValue = line.Receive.Value
		}
		if line.Receive != nil {
			entry.TradeVolume = line.Receive.Count
		}
		entries = append(entries, entry)
	}
	return m.snapshot(entries, league, category, game, mode)
}

// FromItemOverview maps an item overview payload.
func (m *Mapper) FromItemOverview(resp *ItemOverviewResponse, league, category string, game model.Game, mode model.PriceMode) *model.Snapshot {
	entries := make([]model.PriceEntry, 0, len(resp.Lines))
	for _, line := range resp.Lines {
		if line.Name == "" {
			continue
		}
		entries = append(entries, model.PriceEntry{
			Name:        line.Name,
			DetailsID:   line.DetailsID,
			ChaosValue:  line.ChaosValue,
			DivineValue: line.DivineValue,
			TradeVolume: line.ListingCount,
			Sparkline:   trendSeries(line.Sparkline),
		})
	}
	return m.snapshot(entries, league, category, game, mode)
}

func (m *Mapper) snapshot(entries []model.PriceEntry, league, category string, game model.Game, mode model.PriceMode) *model.Snapshot {
	return &model.Snapshot{
		League:    league,
		Game:      game,
		Category:  category,
		Mode:      mode,
		FetchedAt: time.Now().UTC(),
		Entries:   entries,
	}
}

// trendSeries flattens a sparkline into a fixed window of samples,
// most-recent-last. Null samples become zeros.
func trendSeries(s *SparkLine) []float64 {
	if s == nil || len(s.Data) == 0 {
		return nil
	}
	data := s.Data
	if len(data) > sparklineWindow {
		data = data[len(data)-sparklineWindow:]
	}
	out := make([]float64, 0, len(data))
	for _, p := range data {
		if p == nil {
			out = append(out, 0)
			continue
		}
		out = append(out, *p)
	}
	return out
}
