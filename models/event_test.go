package models

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func TestParseRules(t *testing.T) {
	got := ParseRules("Bring ID\r\n\n   \nNo phones on stage\n")
	want := []string{"Bring ID", "No phones on stage"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseRules = %q, want %q", got, want)
	}
	if got := ParseRules(""); got == nil || len(got) != 0 {
		t.Errorf("empty text should give an empty, non-nil list, got %#v", got)
	}

	e := Event{Rules: want}
	if !reflect.DeepEqual(ParseRules(e.RulesText()), want) {
		t.Error("RulesText/ParseRules should round-trip")
	}
}

func TestTeamSizeBounds(t *testing.T) {
	min, max := 2, 4
	tests := []struct {
		name             string
		event            Event
		wantMin, wantMax int
	}{
		{"individual ignores sizes", Event{Subcategory: SubcategoryIndividual, MinTeamSize: &min, MaxTeamSize: &max}, 1, 1},
		{"group uses sizes", Event{Subcategory: SubcategoryGroup, MinTeamSize: &min, MaxTeamSize: &max}, 2, 4},
		{"group without sizes", Event{Subcategory: SubcategoryGroup}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMin, gotMax := tt.event.TeamSizeBounds()
			if gotMin != tt.wantMin || gotMax != tt.wantMax {
				t.Errorf("got [%d, %d], want [%d, %d]", gotMin, gotMax, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestStudentCoordinators(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	list := StudentCoordinators{{ProfileID: a, Name: "A"}, {ProfileID: b, Name: "B"}}

	if !list.Contains(a) || list.Contains(uuid.New()) {
		t.Error("Contains mismatch")
	}
	without := list.Without(a)
	if len(without) != 1 || without[0].ProfileID != b || len(list) != 2 {
		t.Errorf("Without must return a new list, got %+v (original %+v)", without, list)
	}

	var scanned StudentCoordinators
	if err := scanned.Scan(`[{"profile_id":"` + b.String() + `","name":"B"}]`); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(scanned) != 1 || scanned[0].ProfileID != b {
		t.Errorf("unexpected scan result: %+v", scanned)
	}
	if err := scanned.Scan(nil); err != nil {
		t.Errorf("nil source should be accepted: %v", err)
	}
}
