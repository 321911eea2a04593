package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGame(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Game
	}{
		{"poe", "poe", GamePoE},
		{"poe2", "poe2", GamePoE2},
		{"uppercase", "POE", GamePoE},
		{"padded", "  poe2  ", GamePoE2},
		{"unknown falls back to poe2", "poe3", GamePoE2},
		{"empty falls back to poe2", "", GamePoE2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseGame(tt.input))
		})
	}
}

func TestPriceModes(t *testing.T) {
	assert.Equal(t, []PriceMode{ModeStash, ModeExchange}, GamePoE.PriceModes())
	assert.Equal(t, []PriceMode{ModeStash}, GamePoE2.PriceModes())
}

func TestParsePriceMode(t *testing.T) {
	assert.Equal(t, ModeExchange, ParsePriceMode("exchange", GamePoE))
	assert.Equal(t, ModeStash, ParsePriceMode("Exchange ", GamePoE2), "exchange is invalid for poe2")
	assert.Equal(t, ModeStash, ParsePriceMode("garbage", GamePoE))
	assert.Equal(t, ModeStash, ParsePriceMode("", GamePoE2))
}

func TestPartitionKey_Equality(t *testing.T) {
	a := NewPartitionKey(GamePoE, "  Currency ", ModeStash)
	b := NewPartitionKey(GamePoE, "currency", ModeStash)
	assert.Equal(t, a, b, "keys must match after trim+lowercase normalization")

	c := NewPartitionKey(GamePoE2, "currency", ModeStash)
	assert.NotEqual(t, a, c, "game is part of key identity")
}

func TestPartitionKey_StringRoundTrip(t *testing.T) {
	key := NewPartitionKey(GamePoE, "Divination Card", ModeExchange)
	assert.Equal(t, "poe:divination card|exchange", key.String())

	parsed, err := ParsePartitionKey(key.String())
	require.NoError(t, err)
	assert.Equal(t, key, parsed)
}

func TestParsePartitionKey_Invalid(t *testing.T) {
	for _, input := range []string{"", "currency|stash", "poe:currency", "poe3:currency|stash", "poe:currency|retail"} {
		_, err := ParsePartitionKey(input)
		assert.Error(t, err, "input %q should not parse", input)
	}
}

func TestSnapshot_TopEntries(t *testing.T) {
	snap := &Snapshot{
		Entries: []PriceEntry{{Name: "a"}, {Name: "b"}, {Name: "c"}},
	}
	assert.Len(t, snap.TopEntries(2), 2)
	assert.Len(t, snap.TopEntries(0), 3, "non-positive limit returns everything")
	assert.Len(t, snap.TopEntries(10), 3)
	assert.Equal(t, "a", snap.TopEntries(1)[0].Name, "server order preserved")
}
