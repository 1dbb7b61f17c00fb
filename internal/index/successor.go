package index

import (
	"unicode/utf8"
)

const (
	surrogateMin = 0xD800
	surrogateMax = 0xDFFF
)

// Successor returns the smallest string greater than every string that starts
// with prefix. The last rune is incremented, skipping the surrogate gap; a
// trailing utf8.MaxRune is dropped and the increment carries into the rune
// before it. ok is false when no such bound exists (empty prefix or every rune
// is utf8.MaxRune), meaning the range is open-ended.
//
// prefix must be valid UTF-8 so that byte order matches code point order.
func Successor(prefix string) (string, bool) {
	s := prefix
	for s != "" {
		r, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-size]
		if r == utf8.MaxRune {
			continue
		}
		next := r + 1
		if next >= surrogateMin && next <= surrogateMax {
			next = surrogateMax + 1
		}
		return s + string(next), true
	}
	return "", false
}
