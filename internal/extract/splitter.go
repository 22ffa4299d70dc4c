package extract

import "strings"

// SplitTitleOrg splits the combined title+organization span. The first keyword in
// list order that occurs anywhere in span ends the title. Without a keyword the first
// fallbackRunes runes are the title; that split is a known-crude heuristic for unknown
// title vocabularies and is only guaranteed to be deterministic.
func SplitTitleOrg(span string, keywords []string, fallbackRunes int) (title, org string) {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if idx := strings.Index(span, kw); idx >= 0 {
			pos := idx + len(kw)
			return strings.TrimSpace(span[:pos]), strings.TrimSpace(span[pos:])
		}
	}

	rs := []rune(span)
	if fallbackRunes < 0 {
		fallbackRunes = 0
	}
	if len(rs) <= fallbackRunes {
		return strings.TrimSpace(span), ""
	}
	return strings.TrimSpace(string(rs[:fallbackRunes])), strings.TrimSpace(string(rs[fallbackRunes:]))
}
