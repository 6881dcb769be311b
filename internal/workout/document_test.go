package workout

import "testing"

// TestIsStructuredEnough verifies the item and block thresholds.
func TestIsStructuredEnough(t *testing.T) {
	one := Block{Title: "Workout", Items: []Item{{Name: "Squat"}}}
	three := Block{Title: "Workout", Items: []Item{{Name: "a"}, {Name: "b"}, {Name: "c"}}}
	empty := Block{Title: "Main", Items: []Item{}}

	tests := []struct {
		name   string
		blocks []Block
		want   bool
	}{
		{"none", nil, false},
		{"one item", []Block{one}, false},
		{"three items", []Block{three}, true},
		{"two empty blocks", []Block{empty, empty}, true},
	}
	for _, tt := range tests {
		if got := IsStructuredEnough(tt.blocks); got != tt.want {
			t.Errorf("%s: IsStructuredEnough = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// TestBuild verifies Build keeps the raw text and sets Structured from the parse.
func TestBuild(t *testing.T) {
	meta := Meta{WorkoutType: "Push", Date: "Monday"}

	d := Build("Do some pushups", meta)
	if d.Structured {
		t.Error("single line should not be structured")
	}
	if d.Raw != "Do some pushups" {
		t.Errorf("Raw = %q", d.Raw)
	}

	d = Build(sampleWorkout, meta)
	if !d.Structured {
		t.Error("sample workout should be structured")
	}
	if d.ItemCount() != 9 {
		t.Errorf("ItemCount = %d, want 9", d.ItemCount())
	}
}

// TestChips verifies reps and rest chips are omitted when auto or unset.
func TestChips(t *testing.T) {
	d := Document{Meta: Meta{
		WorkoutType: "Legs",
		Difficulty:  "intermediate",
		SplitType:   "push-pull-legs",
		RepsStyle:   "auto",
		RestSeconds: "60",
	}}
	chips := d.Chips()
	if len(chips) != 4 {
		t.Fatalf("chips = %+v, want 4", chips)
	}
	if chips[3].Label != "Rest" || chips[3].Value != "60s" {
		t.Errorf("chips[3] = %+v, want Rest 60s", chips[3])
	}

	d.Meta.RepsStyle = "strength"
	d.Meta.RestSeconds = ""
	chips = d.Chips()
	if len(chips) != 4 || chips[3].Label != "Reps" {
		t.Errorf("chips = %+v, want trailing Reps chip", chips)
	}
}
