package ident

import "strings"

// Mangle maps a qualified name to its canonical symbol form. Every
// segment is length-prefixed so the encoding is injective across
// distinct PathKey inputs: no sequence of segments can be re-split two
// different ways.
func Mangle(q QualifiedName) string {
	var b strings.Builder
	b.WriteString("_C0")
	for _, seg := range q.Module {
		writeLengthPrefixed(&b, seg)
	}
	writeLengthPrefixed(&b, q.Name)
	return b.String()
}

// ManglePath mangles a bare module path (no trailing item name), used
// for per-module output file names.
func ManglePath(p Path) string {
	var b strings.Builder
	b.WriteString("_C0M")
	for _, seg := range p {
		writeLengthPrefixed(&b, seg)
	}
	return b.String()
}

func writeLengthPrefixed(b *strings.Builder, seg string) {
	b.WriteByte('$')
	// Decimal length prefix followed by '_' delimits the segment from its
	// own content, so digits inside seg cannot be misread as the next
	// length prefix.
	writeUint(b, uint64(len(seg)))
	b.WriteByte('_')
	b.WriteString(seg)
}

func writeUint(b *strings.Builder, v uint64) {
	if v == 0 {
		b.WriteByte('0')
		return
	}
	var digits [20]byte
	i := len(digits)
	for v > 0 {
		i--
		digits[i] = byte('0' + v%10)
		v /= 10
	}
	b.Write(digits[i:])
}
