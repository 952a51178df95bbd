package widget

// Special keys without a character representation.
type Special uint8

const (
	KeyNone Special = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
)

// Control characters with an editing meaning.
const (
	KeyBackspace = "\b"
	KeyTab       = "\t"
	KeyLF        = "\n"
	KeyCR        = "\r"
	KeyDel       = "\x7f"
)

// Key is a keyboard event, either a special key or the bytes of the typed
// characters.
type Key struct {
	Special Special
	Text    string

	// Up is set for key releases, which are ignored.
	Up bool
}

// Char returns the key press typing s.
func Char(s string) Key {
	return Key{Text: s}
}

// Press returns the key press of a special key.
func Press(s Special) Key {
	return Key{Special: s}
}
