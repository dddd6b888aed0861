package solr

import (
	"fmt"
	"regexp"
	"strings"
)

// Characters the Solr query parser treats as syntax.
const reservedChars = `\/+-&|!(){}[]^"~*?:`

// Native mode keeps '"' and '*' raw so callers may embed phrase quoting
// and wildcards themselves.
const reservedCharsNative = `\/+-&|!(){}[]^~?:`

// Standalone reserved boolean keywords. Case-sensitive: only the
// uppercase forms are query syntax.
var keywordRe = regexp.MustCompile(`\b(AND|NOT|OR)\b`)

// Escape prepares a value for embedding in a query string. Booleans
// become the integers 0/1, other non-string values pass through
// unchanged. Strings first get standalone AND/NOT/OR lowered (substrings
// inside words are untouched), then every reserved character prefixed
// with a backslash. With native enabled the keyword lowering is skipped
// and '"' and '*' stay unescaped.
func Escape(v any, native bool) any {
	switch t := v.(type) {
	case bool:
		if t {
			return 1
		}
		return 0
	case string:
		return escapeString(t, native)
	default:
		return v
	}
}

func escapeString(s string, native bool) string {
	set := reservedChars
	if native {
		set = reservedCharsNative
	} else {
		s = keywordRe.ReplaceAllStringFunc(s, strings.ToLower)
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		if r < 0x80 && strings.ContainsRune(set, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// literal renders an escaped value as query text.
func literal(v any, native bool) string {
	return fmt.Sprint(Escape(v, native))
}
