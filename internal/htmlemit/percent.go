package htmlemit

import "strings"

const upperhex = "0123456789ABCDEF"

// PercentEncode escapes every byte of s as %XX except ASCII letters, digits,
// "_.-~" and the bytes listed in safe. Multi-byte runes are escaped byte by
// byte from their UTF-8 encoding.
func PercentEncode(s, safe string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAlnum(c) || c == '_' || c == '.' || c == '-' || c == '~' || strings.IndexByte(safe, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}
