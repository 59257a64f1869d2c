package images

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxSlugBytes keeps cache file names well under common file-system limits.
const maxSlugBytes = 64

var (
	lower      = cases.Lower(language.Und)
	stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
)

// Slug turns free text into a lowercase file-name fragment. Letters that
// fold to ASCII are folded ("São Paulo" becomes "sao_paulo"); other scripts
// are kept as written ("東京", "москва"). Text with nothing usable maps to a
// hash of the input so distinct destinations never share a name. Blank input
// maps to "unnamed".
func Slug(s string) string {
	s = strings.TrimSpace(lower.String(norm.NFC.String(s)))
	if s == "" {
		return "unnamed"
	}

	var b strings.Builder
	underscore, afterLetter := false, false
	for _, r := range s {
		switch {
		case r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if folded, ok := asciiFold(r); ok {
				b.WriteString(folded)
			} else {
				b.WriteRune(r)
			}
		case unicode.IsMark(r) && afterLetter:
			// vowel signs and similar belong to the preceding letter
			b.WriteRune(r)
			continue
		default:
			afterLetter = false
			if !underscore && b.Len() > 0 {
				b.WriteByte('_')
				underscore = true
			}
			continue
		}
		underscore, afterLetter = false, true
	}

	slug := strings.TrimSuffix(b.String(), "_")
	switch {
	case slug == "":
		return "h" + shortHash(s)
	case len(slug) > maxSlugBytes:
		cut := maxSlugBytes
		for cut > 0 && !utf8.RuneStart(slug[cut]) {
			cut--
		}
		return strings.TrimSuffix(slug[:cut], "_") + "_" + shortHash(s)
	}
	return slug
}

// asciiFold returns the ASCII letters r decomposes to, if any.
func asciiFold(r rune) (string, bool) {
	folded, _, err := transform.String(stripMarks, string(r))
	if err != nil || folded == "" {
		return "", false
	}
	for i := 0; i < len(folded); i++ {
		c := folded[i]
		if !(c >= 'a' && c <= 'z') && !(c >= '0' && c <= '9') {
			return "", false
		}
	}
	return folded, true
}

func shortHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:4])
}

// CityKey is the cache file name of a destination's cover picture.
func CityKey(destination string) string {
	return "city_" + Slug(destination) + ".png"
}

// InterestKey is the cache file name of an interest picture for a destination.
func InterestKey(interest, destination string) string {
	return Slug(interest) + "_" + Slug(destination) + ".png"
}
