package commitmsg

import "strings"

// Split returns the subject line of msg as name and
// msg itself as description. A message without a
// newline is its own name.
func Split(msg string) (name string, description string) {
	name, _, _ = strings.Cut(msg, "\n")

	return name, msg
}
