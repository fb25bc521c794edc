package mongo

import (
	"testing"

	"hotelier/internal/hotel/repository"
)

func TestCollectionsMatchRepository(t *testing.T) {
	defs := Collections()
	if len(defs) != 2 {
		t.Fatalf("expected 2 collections, got %d", len(defs))
	}
	if defs[0].Name != repository.RoomsCollection || defs[1].Name != repository.BookingsCollection {
		t.Errorf("unexpected collection names: %s, %s", defs[0].Name, defs[1].Name)
	}
	for _, def := range defs {
		if def.Validator["$jsonSchema"] == nil {
			t.Errorf("%s has no $jsonSchema validator", def.Name)
		}
		if len(def.Indexes) == 0 {
			t.Errorf("%s has no indexes", def.Name)
		}
	}
}

func TestRoomNumberIndexIsUnique(t *testing.T) {
	opts := RoomsIndexes[0].Options
	if opts == nil || opts.Unique == nil || !*opts.Unique {
		t.Error("room_number index must be unique")
	}
}
