package input

import "unicode/utf8"

// Decode reads one key from raw terminal input and returns its name and the
// number of bytes consumed. Unknown escape sequences decode to "" and are
// skipped whole.
func Decode(b []byte) (string, int) {
	if len(b) == 0 {
		return "", 0
	}
	switch c := b[0]; {
	case c == 0x1b:
		if len(b) == 1 {
			return KeyEscape, 1
		}
		if b[1] == '[' {
			n := 2
			for n < len(b) && (b[n] < 0x40 || b[n] > 0x7e) {
				n++
			}
			if n < len(b) {
				n++
			}
			if n == 4 && b[2] == '3' && b[3] == '~' {
				return KeyDelete, n
			}
			if n == 3 {
				if k, ok := arrows[b[2]]; ok {
					return k, n
				}
			}
			return "", n
		}
		return KeyEscape, 1
	case c == '\t':
		return KeyTab, 1
	case c == '\r' || c == '\n':
		return KeyEnter, 1
	case c == 0x7f || c == 0x08:
		return KeyBackspace, 1
	case c == ' ':
		return KeySpace, 1
	case c < 0x20:
		return ctrlName(c), 1
	}
	r, n := utf8.DecodeRune(b)
	if r == utf8.RuneError {
		return "", n
	}
	return string(r), n
}

var arrows = map[byte]string{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
}

func ctrlName(c byte) string {
	return "ctrl+" + string(rune('a'+c-1))
}
