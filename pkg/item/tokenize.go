package item

import "strings"

// ParseCLIInput tokenizes a line of CLI words into boards, tags, a
// description, and a priority.
//
// A word beginning with "@" (longer than one character) is a board token;
// a word beginning with "+" (longer than one character) is a tag token; the
// literal tokens "p:1", "p:2", "p:3" set the priority (default 1);
// everything else is joined, in order, into the description. A quoted
// board name with embedded spaces (e.g. `@"name with spaces"`) arrives here
// as a single already-shell-unquoted word, so it needs no special handling
// beyond the ordinary "@" case.
//
// Boards default to DefaultBoard when none are given and are deduplicated
// case-insensitively; tags are deduplicated case-sensitively. Both preserve
// first-occurrence order.
func ParseCLIInput(words []string) (boards, tags []string, description string, priority int) {
	priority = 1
	desc := make([]string, 0, len(words))

	for _, w := range words {
		switch {
		case isPriorityToken(w):
			priority = int(w[2] - '0')
		case strings.HasPrefix(w, "@") && len(w) > 1:
			boards = appendUniqueBoard(boards, NormalizeBoard(w))
		case strings.HasPrefix(w, "+") && len(w) > 1:
			tags = appendUniqueTag(tags, strings.TrimPrefix(w, "+"))
		default:
			desc = append(desc, w)
		}
	}

	if len(boards) == 0 {
		boards = []string{DefaultBoard}
	}
	return boards, tags, strings.Join(desc, " "), priority
}

func isPriorityToken(s string) bool {
	return s == "p:1" || s == "p:2" || s == "p:3"
}

func appendUniqueBoard(boards []string, b string) []string {
	if HasBoard(boards, b) {
		return boards
	}
	return append(boards, b)
}

func appendUniqueTag(tags []string, t string) []string {
	for _, existing := range tags {
		if existing == t {
			return tags
		}
	}
	return append(tags, t)
}
