package search

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// CompletionSuffix returns the original-case remainder of fullText when input
// is a case-insensitive prefix of it, and whether there is anything to append.
func CompletionSuffix(input, fullText string) (string, bool) {
	if input == "" || fullText == "" {
		return "", false
	}
	offset := foldPrefixLen(input, fullText)
	if offset < 0 {
		return "", false
	}
	suffix := fullText[offset:]
	return suffix, suffix != ""
}

// foldPrefixLen reports the byte offset into s just past a case-insensitive
// match of prefix, or -1 when prefix does not match. The offset is tracked
// against s itself: case mapping can change a rune's encoded length, so byte
// positions in a lowercased copy do not transfer back.
func foldPrefixLen(prefix, s string) int {
	offset := 0
	for _, pr := range prefix {
		sr, size := utf8.DecodeRuneInString(s[offset:])
		if size == 0 || !foldEqual(pr, sr) {
			return -1
		}
		offset += size
	}
	return offset
}

// foldEqual reports whether two runes are equal under simple case folding,
// the same relation strings.EqualFold uses.
func foldEqual(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}

// StripProtocol removes an http:// or https:// prefix so typed input like
// "example.com" can match stored URLs.
func StripProtocol(url string) string {
	if strings.HasPrefix(url, "https://") {
		return url[8:]
	}
	if strings.HasPrefix(url, "http://") {
		return url[7:]
	}
	return url
}

// URLCompletionSuffix matches typed input against a stored URL, trying the
// full URL first, then the protocol-stripped form, then tolerating a www.
// mismatch between the two. It returns the suffix to append after the input
// and the URL form it matched against.
func URLCompletionSuffix(input, fullURL string) (suffix string, matchedURL string, ok bool) {
	if suffix, ok := CompletionSuffix(input, fullURL); ok {
		return suffix, fullURL, true
	}

	stripped := StripProtocol(fullURL)
	if suffix, ok := CompletionSuffix(input, stripped); ok {
		return suffix, stripped, true
	}

	inputNoWWW := strings.TrimPrefix(input, "www.")
	strippedNoWWW := strings.TrimPrefix(stripped, "www.")
	if suffix, ok := CompletionSuffix(inputNoWWW, strippedNoWWW); ok {
		if off := foldPrefixLen(input, stripped); off >= 0 {
			return stripped[off:], stripped, true
		}
		return suffix, strippedNoWWW, true
	}

	return "", "", false
}
