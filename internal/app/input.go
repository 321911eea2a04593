package app

import (
	"bufio"
	"io"

	"github.com/Wpsi1337/exile-tracker/internal/tracker"
)

// KeyReader decodes raw terminal bytes into key events. Escape sequences are
// disambiguated by peeking the reader's buffer: a lone ESC with nothing
// buffered behind it is the Escape key, ESC '[' starts a CSI sequence.
type KeyReader struct {
	r *bufio.Reader
}

func NewKeyReader(r io.Reader) *KeyReader {
	return &KeyReader{r: bufio.NewReader(r)}
}

// Next blocks for one decoded key. Unrecognized bytes are skipped until a
// known key arrives.
func (k *KeyReader) Next() (tracker.Key, error) {
	for {
		b, err := k.r.ReadByte()
		if err != nil {
			return tracker.Key{}, err
		}
		switch b {
		case 0x1b:
			if k.r.Buffered() == 0 {
				return tracker.Key{Kind: tracker.KeyEscape}, nil
			}
			if key, ok := k.readCSI(); ok {
				return key, nil
			}
		case '\t':
			return tracker.Key{Kind: tracker.KeyTab}, nil
		case '\r', '\n':
			return tracker.Key{Kind: tracker.KeyEnter}, nil
		case 0x7f, 0x08:
			return tracker.Key{Kind: tracker.KeyBackspace}, nil
		default:
			if b >= 32 && b <= 126 {
				return tracker.Key{Kind: tracker.KeyRune, Rune: rune(b)}, nil
			}
		}
	}
}

func (k *KeyReader) readCSI() (tracker.Key, bool) {
	b, err := k.r.ReadByte()
	if err != nil || b != '[' {
		return tracker.Key{}, false
	}
	b, err = k.r.ReadByte()
	if err != nil {
		return tracker.Key{}, false
	}
	switch b {
	case 'A':
		return tracker.Key{Kind: tracker.KeyUp}, true
	case 'B':
		return tracker.Key{Kind: tracker.KeyDown}, true
	case 'C':
		return tracker.Key{Kind: tracker.KeyRight}, true
	case 'D':
		return tracker.Key{Kind: tracker.KeyLeft}, true
	case 'Z':
		return tracker.Key{Kind: tracker.KeyBackTab}, true
	case '5', '6':
		tilde, err := k.r.ReadByte()
		if err != nil || tilde != '~' {
			return tracker.Key{}, false
		}
		if b == '5' {
			return tracker.Key{Kind: tracker.KeyPageUp}, true
		}
		return tracker.Key{Kind: tracker.KeyPageDown}, true
	}
	return tracker.Key{}, false
}
