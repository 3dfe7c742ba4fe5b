package model

// Station identifies a logical preparation area that owns a subset of the
// menu (main kitchen, dessert, beverages). Menu rows store a raw station
// string; every routing decision must go through NormalizeStation so that
// the legacy "bar" value and missing values resolve the same way everywhere.
type Station string

const (
	StationMain      Station = "main"
	StationDessert   Station = "dessert"
	StationBeverages Station = "beverages"
)

// NormalizeStation maps a raw menu station value to its logical station.
// "bar" is an alias of "beverages"; an empty value defaults to "main".
// Unknown values pass through unchanged so new stations can be introduced
// without a code change.
func NormalizeStation(raw string) Station {
	switch raw {
	case "", "main":
		return StationMain
	case "bar", "beverages":
		return StationBeverages
	default:
		return Station(raw)
	}
}

// RequiresPrep reports whether items for the station go through the kitchen
// queue. Beverage items need retrieval only: they are created directly in
// status done and never receive a queue entry.
func RequiresPrep(s Station) bool {
	return s != StationBeverages
}

// RawValues returns the set of raw menu station strings that normalize to s.
// Repositories use it to build station predicates in SQL without duplicating
// the alias mapping.
func RawValues(s Station) []string {
	switch s {
	case StationMain:
		return []string{"main", ""}
	case StationBeverages:
		return []string{"beverages", "bar"}
	default:
		return []string{string(s)}
	}
}
