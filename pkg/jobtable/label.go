package jobtable

import (
	"regexp"
	"strings"
	"time"
)

// reDayLabel matches labels like "Thursday, Nov 13": a weekday name, an
// optional comma, a month word and a day number.
var reDayLabel = regexp.MustCompile(`(?i)\b(?:mon|tues|wednes|thurs|fri|satur|sun)day,?\s+[a-z]+\.?\s+\d{1,2}\b`)

// FallbackLayout renders the calendar fallback, e.g. "Thursday, 13 Nov".
const FallbackLayout = "Monday, 2 Jan"

// ExtractLabel returns the day label found on the first line of text, verbatim.
// When the first line carries no recognisable label it falls back to now
// formatted with FallbackLayout. The result is never empty.
func ExtractLabel(text string, now time.Time) string {
	first, _, _ := strings.Cut(text, "\n")
	if m := reDayLabel.FindString(first); m != "" {
		return m
	}
	return now.Format(FallbackLayout)
}
