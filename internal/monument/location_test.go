package monument

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation_TajMahal(t *testing.T) {
	c, ok := ParseLocation("27.1751,78.0421")
	require.True(t, ok)
	assert.Equal(t, "27.1751", c.Latitude)
	assert.Equal(t, "78.0421", c.Longitude)
}

func TestParseLocation_Rejects(t *testing.T) {
	for _, in := range []string{
		"",
		"27.1751",
		"27.1751,78.0421,5",
		"north,east",
		"91,10",
		"10,181",
		"NaN,10",
		"Inf,10",
		"0x1p3,0x1p4",
		"1e1,2e1",
		"1_0,20",
		"10.,20",
		".5,20",
	} {
		_, ok := ParseLocation(in)
		assert.False(t, ok, "location %q should be treated as absent", in)
	}
}

func TestParseLocation_TrimsSpaces(t *testing.T) {
	c, ok := ParseLocation(" -33.8568 , 151.2153 ")
	require.True(t, ok)
	assert.Equal(t, Coordinates{Latitude: "-33.8568", Longitude: "151.2153"}, c)
}

func TestParseLocation_SignedDecimals(t *testing.T) {
	c, ok := ParseLocation("+12.5,-0.1278")
	require.True(t, ok)
	assert.Equal(t, Coordinates{Latitude: "+12.5", Longitude: "-0.1278"}, c)

	_, ok = ParseLocation("90,180")
	assert.True(t, ok)
}

func TestMapsURL(t *testing.T) {
	assert.Equal(t, "https://www.google.com/maps/search/?api=1&query=", MapsURL(""))
	assert.Equal(t, "https://www.google.com/maps/search/?api=1&query=27.1751%2C78.0421", MapsURL("27.1751,78.0421"))
}

func TestPatchApply(t *testing.T) {
	m := &Monument{Title: "Qutub Minar", Place: "Delhi", State: "DL"}
	place := "Mehrauli"
	(&Patch{Place: &place}).Apply(m)
	assert.Equal(t, "Qutub Minar", m.Title)
	assert.Equal(t, "Mehrauli", m.Place)
}
