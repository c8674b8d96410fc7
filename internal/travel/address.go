package travel

import (
	"net/url"
	"regexp"
	"strings"
)

// DefaultMapsBaseURL is the directions endpoint used for map links.
const DefaultMapsBaseURL = "https://www.google.com/maps/dir/"

// minQueryLength is the shortest geocode query worth sending to a provider.
const minQueryLength = 3

var (
	postcodePattern   = regexp.MustCompile(`(?i)\b([A-Z]{1,2}\d[A-Z\d]?)\s*(\d[A-Z]{2})\b`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// GeocodeQuery normalizes a free-text address for forward geocoding.
// A UK postcode anywhere in the text wins and is returned uppercased.
// Otherwise newlines and table pipes become spaces and whitespace is collapsed.
func GeocodeQuery(address string) string {
	for _, m := range postcodePattern.FindAllStringSubmatch(address, -1) {
		if isOrdinal(m[2]) {
			continue
		}
		return strings.ToUpper(collapse(m[0]))
	}
	return collapse(strings.ReplaceAll(address, "|", " "))
}

// isOrdinal reports whether an inward-code shaped token is really an
// ordinal such as "3rd" or "5th".
func isOrdinal(inward string) bool {
	suffix := strings.ToLower(inward[1:])
	switch inward[0] {
	case '1':
		return suffix == "st"
	case '2':
		return suffix == "nd"
	case '3':
		return suffix == "rd"
	default:
		return suffix == "th"
	}
}

// MapsQuery normalizes an address for use in a map link.
func MapsQuery(address string) string {
	return collapse(address)
}

// MapsURL builds a driving-directions link between two addresses.
func MapsURL(baseURL, origin, destination string) string {
	if baseURL == "" {
		baseURL = DefaultMapsBaseURL
	}
	return baseURL + "?api=1&origin=" + encodeComponent(MapsQuery(origin)) +
		"&destination=" + encodeComponent(MapsQuery(destination))
}

func collapse(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// encodeComponent percent-encodes s with %20 for spaces.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
