package plan

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		item    ExerciseItem
		wantErr bool
	}{
		{"strength", NewStrength("Bench", 3, 8), false},
		{"timed", NewTimed("Treadmill", 20), false},
		{"neither mode", ExerciseItem{Name: "Mystery"}, false},
		{"both modes", ExerciseItem{Name: "Confused", NumberOfSets: 3, DurationMin: 20}, true},
		{"duration plus reps", ExerciseItem{Name: "Confused", RepsPerSet: 8, DurationMin: 20}, true},
		{"empty name", ExerciseItem{NumberOfSets: 3}, true},
		{"negative sets", ExerciseItem{Name: "Bad", NumberOfSets: -1}, true},
		{"negative duration", ExerciseItem{Name: "Bad", DurationMin: -5}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.item.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateBothModesSentinel(t *testing.T) {
	item := ExerciseItem{Name: "Confused", NumberOfSets: 3, DurationMin: 20}
	if err := item.Validate(); !errors.Is(err, ErrBothModes) {
		t.Errorf("Validate() = %v, want ErrBothModes", err)
	}
}

func TestTimed(t *testing.T) {
	if NewStrength("Bench", 3, 8).Timed() {
		t.Error("strength exercise reported as timed")
	}
	if !NewTimed("Plank", 5).Timed() {
		t.Error("timed exercise not reported as timed")
	}
}

func TestNewWeekly(t *testing.T) {
	p := NewWeekly()
	if len(p.Days) != 7 {
		t.Fatalf("weekly plan has %d days, want 7", len(p.Days))
	}
	for i, name := range WeekdayNames {
		if p.Days[i].Name != name {
			t.Errorf("day %d = %q, want %q", i, p.Days[i].Name, name)
		}
		if len(p.Days[i].Items) != 0 {
			t.Errorf("day %q starts with %d items, want 0", name, len(p.Days[i].Items))
		}
	}
	if p.DayByName("Wednesday") == nil {
		t.Error("DayByName(Wednesday) = nil")
	}
	if p.DayByName("Funday") != nil {
		t.Error("DayByName(Funday) != nil")
	}
}
