package bytestream

import "unicode/utf8"

// Decode converts MUTF-8 bytes to a Go string. The two-byte sequence C0 80
// (the Java-specific encoding of U+0000) is rewritten to a literal NUL
// before the remainder is treated as standard UTF-8. Decoding is lenient:
// any byte sequence that is not valid UTF-8 after that rewrite becomes the
// Unicode replacement character rather than an error, per spec.md §4.1.
func Decode(raw []byte) string {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); {
		if raw[i] == 0xC0 && i+1 < len(raw) && raw[i+1] == 0x80 {
			out = append(out, 0x00)
			i += 2
			continue
		}
		r, size := utf8.DecodeRune(raw[i:])
		if r == utf8.RuneError && size <= 1 {
			out = append(out, string(utf8.RuneError)...)
			i++
			continue
		}
		out = append(out, raw[i:i+size]...)
		i += size
	}
	return string(out)
}

// Encode converts a Go string to MUTF-8 bytes. Every NUL byte is rewritten
// to the two-byte sequence C0 80; all other runes are encoded as standard
// UTF-8. Encode(Decode(b)) round-trips for any b produced by Encode.
func Encode(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r == 0 {
			out = append(out, 0xC0, 0x80)
			continue
		}
		var buf [utf8.UTFMax]byte
		n := utf8.EncodeRune(buf[:], r)
		out = append(out, buf[:n]...)
	}
	return out
}
