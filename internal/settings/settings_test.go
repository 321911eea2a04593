package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Wpsi1337/exile-tracker/pkg/model"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(zap.NewNop(), filepath.Join(t.TempDir(), "tracker_config.json"))
}

func TestSanitize_Floors(t *testing.T) {
	s := Sanitize(Settings{Game: "poe", Interval: 5, Limit: 0})
	assert.Equal(t, 60, s.Interval)
	assert.Equal(t, defaultLimit, s.Limit)

	s = Sanitize(Settings{Game: "poe", Interval: 300, Limit: 25})
	assert.Equal(t, 300, s.Interval)
	assert.Equal(t, 25, s.Limit)
}

func TestSanitize_GameAndMode(t *testing.T) {
	s := Sanitize(Settings{Game: "nonsense", PriceMode: "exchange"})
	assert.Equal(t, model.GamePoE2, s.Game)
	assert.Equal(t, model.ModeStash, s.PriceMode, "exchange is not valid for poe2")

	s = Sanitize(Settings{Game: "poe", PriceMode: "exchange"})
	assert.Equal(t, model.ModeExchange, s.PriceMode)
}

func TestSanitize_TrimsAndDefaults(t *testing.T) {
	s := Sanitize(Settings{League: "  Settlers  ", Category: ""})
	assert.Equal(t, "Settlers", s.League)
	assert.Equal(t, "Currency", s.Category)
	assert.Equal(t, "Standard", Sanitize(Settings{}).League)
}

func TestStore_RoundTrip(t *testing.T) {
	st := tempStore(t)
	assert.False(t, st.Exists())

	in := Settings{
		Game:      model.GamePoE,
		League:    "Settlers",
		Category:  "Scarab",
		PriceMode: model.ModeExchange,
		Interval:  30, // below floor, must come back as 60
		Limit:     0,  // below floor
	}
	require.NoError(t, st.Save(in))
	assert.True(t, st.Exists())

	out := st.Load()
	assert.Equal(t, Sanitize(in), out)
	assert.Equal(t, 60, out.Interval)
	assert.Equal(t, defaultLimit, out.Limit)
}

func TestStore_LoadMissingFileGivesDefaults(t *testing.T) {
	st := tempStore(t)
	assert.Equal(t, Default(), st.Load())
}

func TestStore_LoadCorruptFileGivesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker_config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	st := NewStore(zap.NewNop(), path)
	assert.Equal(t, Default(), st.Load())
}

func TestStore_SaveCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "tracker_config.json")
	st := NewStore(zap.NewNop(), path)
	require.NoError(t, st.Save(Default()))
	assert.FileExists(t, path)
}
