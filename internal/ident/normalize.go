package ident

import "golang.org/x/text/unicode/norm"

// Normalize applies Unicode NFC normalization to an identifier's source
// text before it is interned or compared. Identifier equality is
// byte-identity over the normalized form, so two canonically-equal
// spellings can never end up as distinct symbols.
func Normalize(name string) string {
	if norm.NFC.IsNormalString(name) {
		return name
	}
	return norm.NFC.String(name)
}
