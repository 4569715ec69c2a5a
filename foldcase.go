package pegcore

import (
	"unicode"
	"unicode/utf8"
)

// foldCaseWorkAround avoids a handful of runes unicode.SimpleFold treats
// specially (e.g. long s, Kelvin sign) folding to something other than
// their ASCII counterpart.
var foldCaseWorkAround = map[rune]rune{
	'ſ': 's',
	'K': 'k',
}

// foldCase performs Unicode case folding for strings, ported from the
// teacher's foldcase.go. Like the teacher (see its "TODO" in text.go),
// this assumes the folded text has the same UTF-8 byte length as the
// input for the handful of runes whose case folding changes byte length;
// IgnoreCase literal/keyword matching on such runes is a known, inherited
// limitation rather than a new one introduced by this module.
func foldCase(s string) string {
	encoded := make([]byte, 0, len(s))
	buf := make([]byte, 4)
	for _, r := range s {
		n := utf8.EncodeRune(buf, runeFoldCase(r))
		encoded = append(encoded, buf[:n]...)
	}
	return string(encoded)
}

func runeFoldCase(r rune) rune {
	if w, ok := foldCaseWorkAround[r]; ok {
		return w
	}
	r0 := unicode.SimpleFold(r)
	if r0 == r {
		return r
	}
	for r0 > r {
		r0 = unicode.SimpleFold(r0)
	}
	return r0
}
