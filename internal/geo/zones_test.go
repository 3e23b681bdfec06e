package geo

import (
	"errors"
	"testing"
)

func TestResolveZoneCountry(t *testing.T) {
	region, err := ResolveZone("Malaysia")
	if err != nil {
		t.Fatalf("resolve country: %v", err)
	}
	if region != MalaysiaBounds {
		t.Fatalf("expected country envelope, got %v", region)
	}
}

func TestResolveZoneStateAndCity(t *testing.T) {
	state, err := ResolveZone("Selangor")
	if err != nil {
		t.Fatalf("resolve state: %v", err)
	}
	if err := state.Validate(); err != nil {
		t.Fatalf("state bounds invalid: %v", err)
	}

	city, err := ResolveZone("kuala lumpur")
	if err != nil {
		t.Fatalf("resolve city: %v", err)
	}
	if !city.Contains(3.139, 101.687) {
		t.Fatalf("city bounds do not contain city center: %v", city)
	}
}

func TestResolveZoneExplicitBBox(t *testing.T) {
	region, err := ResolveZone("1.2,103.5,1.5,104.0")
	if err != nil {
		t.Fatalf("resolve bbox: %v", err)
	}
	if region.South != 1.2 || region.East != 104.0 {
		t.Fatalf("unexpected bbox: %v", region)
	}
}

func TestResolveZoneUnknown(t *testing.T) {
	_, err := ResolveZone("Atlantis")
	if !errors.Is(err, ErrUnknownZone) {
		t.Fatalf("expected ErrUnknownZone, got %v", err)
	}
}

func TestStateBoundsInsideCountry(t *testing.T) {
	for _, s := range States() {
		if s.Bounds.South < MalaysiaBounds.South-0.01 || s.Bounds.North > MalaysiaBounds.North+0.01 {
			t.Fatalf("state %s latitude outside country envelope", s.Name)
		}
		if s.Bounds.West < MalaysiaBounds.West-0.01 || s.Bounds.East > MalaysiaBounds.East+0.01 {
			t.Fatalf("state %s longitude outside country envelope", s.Name)
		}
	}
}

func TestRegionValidate(t *testing.T) {
	cases := []struct {
		name    string
		region  Region
		wantErr bool
	}{
		{"valid", Region{South: 1, West: 100, North: 2, East: 101}, false},
		{"inverted latitude", Region{South: 2, West: 100, North: 1, East: 101}, true},
		{"inverted longitude", Region{South: 1, West: 101, North: 2, East: 100}, true},
		{"out of world", Region{South: -95, West: 100, North: 2, East: 101}, true},
	}
	for _, tc := range cases {
		err := tc.region.Validate()
		if tc.wantErr && err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
	}
}

func TestRegionKeyStable(t *testing.T) {
	a := Region{South: 3.0000001, West: 101.5, North: 3.2, East: 101.7}
	b := Region{South: 3.0000002, West: 101.5, North: 3.2, East: 101.7}
	if a.Key() != b.Key() {
		t.Fatalf("keys should agree at fixed precision: %s vs %s", a.Key(), b.Key())
	}
}
