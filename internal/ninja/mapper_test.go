package ninja

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wpsi1337/exile-tracker/pkg/model"
)

func fptr(v float64) *float64 { return &v }

// ─── Category Tables ────────────────────────────────────────────────────────

func TestKnownCategories_PoE(t *testing.T) {
	cats := KnownCategories(model.GamePoE)
	require.NotEmpty(t, cats)
	assert.Equal(t, "Currency", cats[0])
	assert.Equal(t, "Fragment", cats[1])
	assert.Contains(t, cats, "DivinationCard")
	assert.Contains(t, cats, "UniqueWeapon")
}

func TestKnownCategories_PoE2IncludesAliasPrimaries(t *testing.T) {
	cats := KnownCategories(model.GamePoE2)
	assert.Contains(t, cats, "Uncut Gems")
	assert.Contains(t, cats, "Distilled Emotions")
	assert.Contains(t, cats, "Lineage Support Gems")
	assert.NotContains(t, cats, "UncutGems", "only the primary display name is seeded")
}

func TestOverviewType_AliasesResolveToCanonical(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Uncut Gems", "UncutGems"},
		{"uncut-gems", "UncutGems"},
		{"uncut_gems", "UncutGems"},
		{"Gems", "UncutGems"},
		{"Emotions", "DistilledEmotions"},
		{"Waystones", "Waystones"},
		{"Soul Cores", "SoulCores"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OverviewType(model.GamePoE2, tt.in), tt.in)
	}
}

func TestOverviewType_PoEPassthrough(t *testing.T) {
	assert.Equal(t, "DivinationCard", OverviewType(model.GamePoE, "DivinationCard"))
	assert.Equal(t, "Scarab", OverviewType(model.GamePoE, " Scarab "))
}

func TestIsCurrencyOverview(t *testing.T) {
	assert.True(t, IsCurrencyOverview(model.GamePoE, "Currency"))
	assert.True(t, IsCurrencyOverview(model.GamePoE, "fragment"))
	assert.False(t, IsCurrencyOverview(model.GamePoE, "Scarab"))
	assert.True(t, IsCurrencyOverview(model.GamePoE2, "Currency"))
	assert.True(t, IsCurrencyOverview(model.GamePoE2, "Fragments"))
	assert.False(t, IsCurrencyOverview(model.GamePoE2, "Runes"))
}

// ─── Payload Mapping ────────────────────────────────────────────────────────

func TestFromCurrencyOverview(t *testing.T) {
	resp := &CurrencyOverviewResponse{Lines: []CurrencyLine{
		{
			CurrencyTypeName: "Divine Orb",
			ChaosEquivalent:  180.5,
			DetailsID:        "divine-orb",
			Receive:          &CurrencyTrade{Value: 180.2, Count: 4120},
			ReceiveSparkLine: &SparkLine{Data: []*float64{fptr(0), fptr(1.2), nil, fptr(2.5)}},
		},
		{
			// Unnamed lines are upstream noise and are dropped.
			CurrencyTypeName: "",
			ChaosEquivalent:  1,
		},
		{
			CurrencyTypeName: "Exalted Orb",
			DetailsID:        "exalted-orb",
			Receive:          &CurrencyTrade{Value: 22.1, Count: 900},
		},
	}}

	snap := NewMapper().FromCurrencyOverview(resp, "Standard", "Currency", model.GamePoE, model.ModeStash)

	require.Len(t, snap.Entries, 2)
	assert.Equal(t, "Standard", snap.League)
	assert.Equal(t, model.GamePoE, snap.Game)
	assert.Equal(t, "Currency", snap.Category)
	assert.Equal(t, model.ModeStash, snap.Mode)
	assert.False(t, snap.FetchedAt.IsZero())

	divine := snap.Entries[0]
	assert.Equal(t, "Divine Orb", divine.Name)
	assert.Equal(t, 180.5, divine.ChaosValue)
	assert.Equal(t, 4120, divine.TradeVolume)
	assert.Equal(t, []float64{0, 1.2, 0, 2.5}, divine.Sparkline, "null samples become zeros")

	// chaosEquivalent of 0 falls back to the receive value.
	exalt := snap.Entries[1]
	assert.Equal(t, 22.1, exalt.ChaosValue)
	assert.Equal(t, "exalted-orb", exalt.DetailsID)
}

func TestFromItemOverview(t *testing.T) {
	resp := &ItemOverviewResponse{Lines: []ItemLine{
		{Name: "Mageblood", ChaosValue: 90000, DivineValue: 500, DetailsID: "mageblood", ListingCount: 35},
		{Name: "Headhunter", ChaosValue: 54000, DivineValue: 300, ListingCount: 80},
	}}

	snap := NewMapper().FromItemOverview(resp, "Standard", "UniqueAccessory", model.GamePoE, model.ModeStash)

	require.Len(t, snap.Entries, 2)
	assert.Equal(t, "Mageblood", snap.Entries[0].Name, "server rank order preserved")
	assert.Equal(t, 500.0, snap.Entries[0].DivineValue)
	assert.Equal(t, 35, snap.Entries[0].TradeVolume)
	assert.Equal(t, 80, snap.Entries[1].TradeVolume)
}

func TestTrendSeries_Window(t *testing.T) {
	long := &SparkLine{Data: []*float64{
		fptr(1), fptr(2), fptr(3), fptr(4), fptr(5), fptr(6), fptr(7), fptr(8), fptr(9),
	}}
	assert.Equal(t, []float64{3, 4, 5, 6, 7, 8, 9}, trendSeries(long), "only the trailing window is kept")

	assert.Nil(t, trendSeries(nil))
	assert.Nil(t, trendSeries(&SparkLine{}))
}
