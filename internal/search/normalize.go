// Package search ranks in-memory food records against free-text queries and
// category/tag filters. It performs no I/O: callers load a catalog snapshot
// (typically store.GetAll) and hand it in, so ranking stays a pure function
// of its inputs.
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, drops combining marks, and recomposes, so
// "proteína" and "proteina" normalize identically.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lower-cases s and strips diacritics. It is deterministic and
// idempotent; every text comparison in this package goes through it.
func Normalize(s string) string {
	lowered := strings.ToLower(s)
	stripped, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		return lowered
	}
	return stripped
}
