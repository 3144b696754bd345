package style

import "testing"

func TestByID(t *testing.T) {
	for _, id := range []string{StreetID, SatelliteID} {
		def, ok := ByID(id)
		if !ok || def.ID != id {
			t.Fatalf("ByID(%s) = (%q, %v)", id, def.ID, ok)
		}
		if len(def.Sources) == 0 || len(def.Layers) == 0 {
			t.Fatalf("ByID(%s) returned empty definition", id)
		}
	}
	if _, ok := ByID("sepia"); ok {
		t.Fatal("ByID accepted unknown id")
	}
}

func TestNext_Toggles(t *testing.T) {
	if got := Next(StreetID); got != SatelliteID {
		t.Fatalf("Next(street) = %q", got)
	}
	if got := Next(SatelliteID); got != StreetID {
		t.Fatalf("Next(satellite) = %q", got)
	}
	if got := Next("unknown"); got != StreetID {
		t.Fatalf("Next(unknown) = %q", got)
	}
}
