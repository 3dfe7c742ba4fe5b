package model

import (
	"reflect"
	"testing"
)

func TestNormalizeStation(t *testing.T) {
	cases := []struct {
		raw  string
		want Station
	}{
		{"", StationMain},
		{"main", StationMain},
		{"bar", StationBeverages},
		{"beverages", StationBeverages},
		{"dessert", StationDessert},
		{"grill", Station("grill")},
	}
	for _, tc := range cases {
		if got := NormalizeStation(tc.raw); got != tc.want {
			t.Errorf("NormalizeStation(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestRequiresPrep(t *testing.T) {
	if RequiresPrep(StationBeverages) {
		t.Error("beverages must not require preparation")
	}
	if !RequiresPrep(StationMain) || !RequiresPrep(StationDessert) {
		t.Error("kitchen stations must require preparation")
	}
	if RequiresPrep(NormalizeStation("bar")) {
		t.Error("the bar alias must resolve to a no-prep station")
	}
}

func TestRawValues(t *testing.T) {
	if got := RawValues(StationBeverages); !reflect.DeepEqual(got, []string{"beverages", "bar"}) {
		t.Errorf("RawValues(beverages) = %v", got)
	}
	if got := RawValues(StationMain); !reflect.DeepEqual(got, []string{"main", ""}) {
		t.Errorf("RawValues(main) = %v", got)
	}
	if got := RawValues(Station("grill")); !reflect.DeepEqual(got, []string{"grill"}) {
		t.Errorf("RawValues(grill) = %v", got)
	}
}

func TestRawValuesRoundTrip(t *testing.T) {
	for _, s := range []Station{StationMain, StationDessert, StationBeverages} {
		for _, raw := range RawValues(s) {
			if NormalizeStation(raw) != s {
				t.Errorf("raw value %q of %q does not normalize back", raw, s)
			}
		}
	}
}
