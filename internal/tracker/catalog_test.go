package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wpsi1337/exile-tracker/pkg/model"
)

func TestNewCatalog_SeedsKnownCategories(t *testing.T) {
	c := NewCatalog(model.GamePoE, "Currency")
	names := c.Names()
	require.NotEmpty(t, names)
	assert.Equal(t, "Currency", names[0])
	assert.Equal(t, "Currency", c.Current())
	assert.Contains(t, names, "Scarab")
}

func TestNewCatalog_UnknownInitialAppended(t *testing.T) {
	c := NewCatalog(model.GamePoE, "Tattoo")
	assert.Equal(t, "Tattoo", c.Current())
	assert.Equal(t, "Tattoo", c.Names()[c.Len()-1])
}

func TestNewCatalog_InitialMatchIsCaseInsensitive(t *testing.T) {
	c := NewCatalog(model.GamePoE, " currency ")
	assert.Equal(t, "Currency", c.Current(), "existing spelling wins over the configured one")
}

func TestCatalog_AdvanceWraps(t *testing.T) {
	c := NewCatalog(model.GamePoE, "Currency")
	n := c.Len()

	assert.Equal(t, "Fragment", c.Advance(1))
	assert.Equal(t, "Currency", c.Advance(-1))

	// A full forward loop returns to the start.
	for i := 0; i < n; i++ {
		c.Advance(1)
	}
	assert.Equal(t, "Currency", c.Current())

	// Backwards from index 0 wraps to the end.
	last := c.Names()[n-1]
	assert.Equal(t, last, c.Advance(-1))
}

func TestCatalog_RemoveAdvancesToNext(t *testing.T) {
	c := NewCatalog(model.GamePoE, "Currency")

	removed, ok := c.Remove("currency")
	require.True(t, ok)
	assert.Equal(t, "Currency", removed)
	assert.Equal(t, "Fragment", c.Current(), "cursor lands on the entry after the removed one")
	assert.NotContains(t, c.Names(), "Currency")
}

func TestCatalog_RemoveLastEntryWraps(t *testing.T) {
	c := NewCatalog(model.GamePoE, "Currency")
	last := c.Names()[c.Len()-1]
	c.Select(last)

	_, ok := c.Remove(last)
	require.True(t, ok)
	assert.Equal(t, "Currency", c.Current())
}

func TestCatalog_RemoveUnknownIsNoop(t *testing.T) {
	c := NewCatalog(model.GamePoE, "Currency")
	n := c.Len()
	_, ok := c.Remove("definitely-not-a-category")
	assert.False(t, ok)
	assert.Equal(t, n, c.Len())
}

func TestCatalog_RemoveDownToEmpty(t *testing.T) {
	c := NewCatalog(model.GamePoE2, "Currency")
	for _, name := range c.Names() {
		_, ok := c.Remove(name)
		require.True(t, ok)
	}
	assert.Zero(t, c.Len())
	assert.Empty(t, c.Current())
	assert.Empty(t, c.Advance(1))
}

func TestCatalog_SelectAppendsUnknown(t *testing.T) {
	c := NewCatalog(model.GamePoE2, "Currency")
	got := c.Select("Relics")
	assert.Equal(t, "Relics", got)
	assert.Equal(t, "Relics", c.Current())
}

func TestCatalog_DisplayName(t *testing.T) {
	c := NewCatalog(model.GamePoE2, "Currency")
	assert.Equal(t, "Uncut Gems", c.DisplayName("uncut gems"))
	assert.Equal(t, "mystery", c.DisplayName("mystery"))
}
