package mail

import "strings"

// CleanBody normalizes raw provider body text: whitespace runs collapse to a
// single space, line breaks flatten, and leading/trailing whitespace is
// trimmed. Records fetched from the provider always carry normalized bodies.
func CleanBody(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
