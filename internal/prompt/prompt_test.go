package prompt

import (
	"strings"
	"testing"
)

// TestBuildIncludesDayAndEquipment verifies the day, focus and machine list
// reach the prompt.
func TestBuildIncludesDayAndEquipment(t *testing.T) {
	p := Build(Options{
		WorkoutType: "Push",
		Focus:       "Chest, Shoulders, Triceps",
		Difficulty:  "intermediate",
		Machines:    []string{"Bench", "Cable Machine"},
	})
	for _, want := range []string{
		"Create a concise intermediate level workout plan for a Push day focusing on Chest, Shoulders, Triceps.",
		"Available machines/equipment: Bench, Cable Machine",
		"Difficulty Level: INTERMEDIATE",
		"Balanced workout with 3-4 sets of 8-12 reps.",
		"2. 5-6 main exercises",
		"Choose reps appropriate for the difficulty level.",
		"Prefer equipment-based movements over bodyweight.",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q\n%s", want, p)
		}
	}
}

// TestBuildAdvanced verifies advanced users get more exercises.
func TestBuildAdvanced(t *testing.T) {
	p := Build(Options{WorkoutType: "Legs", Focus: "Quads", Difficulty: "advanced"})
	if !strings.Contains(p, "2. 8-10 main exercises") {
		t.Errorf("advanced prompt should ask for 8-10 exercises\n%s", p)
	}
	if !strings.Contains(p, "Include 3-4 exercises per major muscle group") {
		t.Errorf("advanced detail missing\n%s", p)
	}
}

// TestBuildExtras verifies optional preferences are included only when set.
func TestBuildExtras(t *testing.T) {
	p := Build(Options{
		WorkoutType:        "Upper",
		Difficulty:         "beginner",
		ExercisesPerMuscle: "2",
		SetsPerExercise:    "auto",
		RestSeconds:        "90",
		IncludeBodyweight:  true,
		FocusedMuscle:      "back",
	})
	for _, want := range []string{
		"Aim for 2 exercises per primary muscle group.",
		"Rest 90 seconds between sets.",
		"You may include bodyweight movements where appropriate.",
		"Prioritize exercises that emphasize the back today.",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(p, "sets per exercise") {
		t.Error("auto sets should not be mentioned")
	}
}

// TestRepsGuidance verifies each style and the custom range defaults.
func TestRepsGuidance(t *testing.T) {
	tests := []struct {
		style  string
		lo, hi int
		want   string
	}{
		{"strength", 0, 0, "Use 3–5 reps per set focused on strength."},
		{"endurance", 0, 0, "Use 12–15 reps per set for muscular endurance."},
		{"custom", 5, 7, "Use 5–7 reps per set across main exercises."},
		{"custom", 0, 0, "Use 8–12 reps per set across main exercises."},
		{"auto", 3, 4, "Choose reps appropriate for the difficulty level."},
		{"", 0, 0, "Choose reps appropriate for the difficulty level."},
	}
	for _, tt := range tests {
		if got := RepsGuidance(tt.style, tt.lo, tt.hi); got != tt.want {
			t.Errorf("RepsGuidance(%q, %d, %d) = %q, want %q", tt.style, tt.lo, tt.hi, got, tt.want)
		}
	}
}
