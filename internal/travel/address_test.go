package travel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeocodeQuery(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    string
	}{
		{"postcode wins", "12 Elm Road, Leamington cv32 5ab", "CV32 5AB"},
		{"postcode without space", "flat 2, sw1a1aa", "SW1A1AA"},
		{"postcode extra spaces", "B1   1AA", "B1 1AA"},
		{"newlines and pipes", "12 Elm Road\nLeamington | Spa", "12 Elm Road Leamington Spa"},
		{"whitespace collapse", "  3   Mill   Lane  ", "3 Mill Lane"},
		{"empty", "", ""},
		{"letters glued to house number", "Apt4 5th Avenue, Leeds", "Apt4 5th Avenue, Leeds"},
		{"ordinal after flat number", "Flat B12 3rd Floor, Mill Road", "Flat B12 3rd Floor, Mill Road"},
		{"ordinal skipped, later postcode wins", "Flat B12 3rd Floor, Mill Road, B1 1AA", "B1 1AA"},
		{"word containing postcode shape", "Unit XB12 3AAB Estate", "Unit XB12 3AAB Estate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GeocodeQuery(tt.address))
		})
	}
}

func TestMapsQuery_KeepsPipes(t *testing.T) {
	assert.Equal(t, "a | b c", MapsQuery("a |\n b  c"))
}

func TestMapsURL(t *testing.T) {
	got := MapsURL("", "1 High St\nCoventry", "B1 1AA")
	assert.Equal(t, "https://www.google.com/maps/dir/?api=1&origin=1%20High%20St%20Coventry&destination=B1%201AA", got)

	got = MapsURL("https://maps.example/dir/", "a&b", "c/d")
	assert.Equal(t, "https://maps.example/dir/?api=1&origin=a%26b&destination=c%2Fd", got)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "0 min", FormatDuration(29))
	assert.Equal(t, "1 min", FormatDuration(30))
	assert.Equal(t, "120 min", FormatDuration(7200))
	assert.Equal(t, "0.0 mi", FormatDistance(0))
	assert.Equal(t, "12.4 mi", FormatDistance(20000))
}
