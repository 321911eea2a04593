package app

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wpsi1337/exile-tracker/internal/tracker"
)

func decodeAll(t *testing.T, input []byte) []tracker.Key {
	t.Helper()
	kr := NewKeyReader(bytes.NewReader(input))
	var keys []tracker.Key
	for {
		key, err := kr.Next()
		if err == io.EOF {
			return keys
		}
		require.NoError(t, err)
		keys = append(keys, key)
	}
}

func TestKeyReader_Printables(t *testing.T) {
	keys := decodeAll(t, []byte("qr/"))
	require.Len(t, keys, 3)
	assert.Equal(t, tracker.Key{Kind: tracker.KeyRune, Rune: 'q'}, keys[0])
	assert.Equal(t, tracker.Key{Kind: tracker.KeyRune, Rune: 'r'}, keys[1])
	assert.Equal(t, tracker.Key{Kind: tracker.KeyRune, Rune: '/'}, keys[2])
}

func TestKeyReader_ControlKeys(t *testing.T) {
	keys := decodeAll(t, []byte{'\t', '\r', '\n', 0x7f, 0x08})
	require.Len(t, keys, 5)
	assert.Equal(t, tracker.KeyTab, keys[0].Kind)
	assert.Equal(t, tracker.KeyEnter, keys[1].Kind)
	assert.Equal(t, tracker.KeyEnter, keys[2].Kind)
	assert.Equal(t, tracker.KeyBackspace, keys[3].Kind)
	assert.Equal(t, tracker.KeyBackspace, keys[4].Kind)
}

func TestKeyReader_ArrowSequences(t *testing.T) {
	keys := decodeAll(t, []byte("\x1b[A\x1b[B\x1b[C\x1b[D\x1b[Z"))
	require.Len(t, keys, 5)
	assert.Equal(t, tracker.KeyUp, keys[0].Kind)
	assert.Equal(t, tracker.KeyDown, keys[1].Kind)
	assert.Equal(t, tracker.KeyRight, keys[2].Kind)
	assert.Equal(t, tracker.KeyLeft, keys[3].Kind)
	assert.Equal(t, tracker.KeyBackTab, keys[4].Kind)
}

func TestKeyReader_PageKeys(t *testing.T) {
	keys := decodeAll(t, []byte("\x1b[5~\x1b[6~"))
	require.Len(t, keys, 2)
	assert.Equal(t, tracker.KeyPageUp, keys[0].Kind)
	assert.Equal(t, tracker.KeyPageDown, keys[1].Kind)
}

func TestKeyReader_LoneEscape(t *testing.T) {
	keys := decodeAll(t, []byte{0x1b})
	require.Len(t, keys, 1)
	assert.Equal(t, tracker.KeyEscape, keys[0].Kind)
}

func TestKeyReader_SkipsUnknownBytes(t *testing.T) {
	keys := decodeAll(t, []byte{0x01, 0x02, 'q'})
	require.Len(t, keys, 1)
	assert.Equal(t, 'q', keys[0].Rune)
}
