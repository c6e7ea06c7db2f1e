package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// CleanTitle normalizes a resolved track title for display. Whitespace runs
// collapse to single spaces. Titles that arrive fully lowercased or fully
// uppercased are title-cased; mixed-case titles are kept as the source wrote
// them. Empty input becomes "Untitled".
func CleanTitle(raw string) string {
	collapsed := strings.Join(strings.Fields(raw), " ")
	if collapsed == "" {
		return "Untitled"
	}
	if collapsed == strings.ToLower(collapsed) || collapsed == strings.ToUpper(collapsed) {
		return titleCaser.String(strings.ToLower(collapsed))
	}
	return collapsed
}
