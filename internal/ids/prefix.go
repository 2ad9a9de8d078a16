package ids

import internalstrings "github.com/amonks/taskmaster/internal/strings"

// MatchPrefix finds the ID that input identifies, either exactly or as a
// unique case-insensitive prefix. ambiguous is set when several IDs share the
// prefix.
func MatchPrefix(ids []string, input string) (match string, matched bool, ambiguous bool) {
	needle := internalstrings.NormalizeLowerTrimSpace(input)
	if needle == "" {
		return "", false, false
	}
	for _, id := range ids {
		if internalstrings.NormalizeLower(id) == needle {
			return id, true, false
		}
	}
	for _, id := range ids {
		lower := internalstrings.NormalizeLower(id)
		if len(lower) < len(needle) || lower[:len(needle)] != needle {
			continue
		}
		if matched && match != id {
			return "", false, true
		}
		match, matched = id, true
	}
	return match, matched, false
}
