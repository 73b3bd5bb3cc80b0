package cli

import (
	"sort"
	"strings"
)

// SortOrder represents the available sorting options for places
type SortOrder string

const (
	SortByAppearance SortOrder = "appearance"
	SortByName       SortOrder = "name"
	SortByCategory   SortOrder = "category"
)

// sortPlaces orders rows in place. Appearance order is the extraction order
// and leaves rows untouched.
func sortPlaces(rows []placeRow, order SortOrder) {
	switch order {
	case SortByName:
		sort.SliceStable(rows, func(i, j int) bool {
			return strings.ToLower(rows[i].Name) < strings.ToLower(rows[j].Name)
		})
	case SortByCategory:
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].Category != rows[j].Category {
				return rows[i].Category < rows[j].Category
			}
			// same category keeps name order
			return strings.ToLower(rows[i].Name) < strings.ToLower(rows[j].Name)
		})
	}
}

func validSortOrder(s string) bool {
	switch SortOrder(s) {
	case SortByAppearance, SortByName, SortByCategory:
		return true
	}
	return false
}
