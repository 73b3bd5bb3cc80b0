package itinerary

import (
	"strings"
	"unicode/utf8"

	"github.com/pfrederiksen/trailday/internal/trail"
)

// Place is a name/address pair read from itinerary text.
type Place struct {
	Name    string `json:"name" yaml:"name"`
	Address string `json:"address" yaml:"address"`
}

const placeSeparator = " - "

const bulletGlyphs = "•-*→▶▸▹▻▪▫◦‣⁃"

var placeholderNames = map[string]bool{
	"none":    true,
	"unknown": true,
	"n/a":     true,
}

// ExtractPlaces returns the places listed after the "Places Mentioned"
// heading, in the order they appear. Only bulleted "Name - address" lines
// count; the split happens at the first separator so hyphenated addresses
// survive. Text without the heading yields nil.
func ExtractPlaces(text string) []Place {
	idx := strings.Index(text, PlacesAnchor)
	if idx < 0 {
		return nil
	}

	var places []Place
	for _, line := range strings.Split(text[idx:], "\n") {
		line = strings.TrimSpace(line)
		if !startsWithBullet(line) {
			continue
		}
		name, address, ok := strings.Cut(line, placeSeparator)
		if !ok {
			continue
		}
		name = cleanPlaceField(name)
		address = cleanPlaceField(address)

		if utf8.RuneCountInString(name) <= 2 || utf8.RuneCountInString(address) <= 10 {
			continue
		}
		if placeholderNames[strings.ToLower(name)] {
			continue
		}
		places = append(places, Place{Name: name, Address: address})
	}
	return places
}

// cleanPlaceField drops bold markers and leading bullet glyphs.
func cleanPlaceField(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(s), bulletGlyphs+" \t"))
}

func startsWithBullet(line string) bool {
	r, _ := utf8.DecodeRuneInString(line)
	return r != utf8.RuneError && strings.ContainsRune(bulletGlyphs, r)
}

// Names lists the place names in order.
func Names(places []Place) []string {
	names := make([]string, len(places))
	for i, p := range places {
		names[i] = p.Name
	}
	return names
}

// Query is the geocoding query for a place: its address with any leading
// bullet residue removed.
func (p Place) Query() string {
	return trail.CleanLocation(p.Address)
}
