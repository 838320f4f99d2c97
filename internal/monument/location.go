package monument

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const mapsSearchURL = "https://www.google.com/maps/search/?api=1&query="

// decimal matches plain signed decimals only; ParseFloat alone would also
// take hex floats, exponents, underscores and Inf/NaN.
var decimal = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$`)

// Coordinates keeps the textual components of a validated location so the
// client renders exactly what was entered.
type Coordinates struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// ParseLocation accepts "lat,lng" with both parts plain decimals in range.
func ParseLocation(location string) (Coordinates, bool) {
	parts := strings.Split(location, ",")
	if len(parts) != 2 {
		return Coordinates{}, false
	}
	lat, lng := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if !inRange(lat, 90) || !inRange(lng, 180) {
		return Coordinates{}, false
	}
	return Coordinates{Latitude: lat, Longitude: lng}, true
}

func inRange(s string, limit float64) bool {
	if !decimal.MatchString(s) {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}
	return f >= -limit && f <= limit
}

// MapsURL links to a map search for the raw location. An empty location
// still yields a link with an empty query.
func MapsURL(location string) string {
	return mapsSearchURL + url.QueryEscape(location)
}
