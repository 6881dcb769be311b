// Package prompt builds the text-generation request for a workout day.
package prompt

import (
	"fmt"
	"strings"
)

// Options describes the day and the user's preferences. Empty or "auto"
// string fields contribute no guidance.
type Options struct {
	WorkoutType string
	Focus       string
	Difficulty  string
	Machines    []string

	RepsStyle string
	RepsMin   int
	RepsMax   int

	ExercisesPerMuscle string
	SetsPerExercise    string
	RestSeconds        string
	IncludeBodyweight  bool
	FocusedMuscle      string
}

const (
	DefaultRepsMin = 8
	DefaultRepsMax = 12
)

var difficultyGuidance = map[string]string{
	"beginner":     "Focus on proper form and lighter weights. Include 2-3 sets of 10-15 reps for most exercises. Include more rest time between sets.",
	"intermediate": "Balanced workout with 3-4 sets of 8-12 reps. Mix compound and isolation exercises.",
	"advanced":     "Intense workout with 4-5 sets of 6-10 reps for strength, or higher volume for hypertrophy. Include advanced techniques like drop sets or supersets.",
}

// RepsGuidance returns the sentence describing the rep range for style.
func RepsGuidance(style string, lo, hi int) string {
	switch style {
	case "strength":
		return "Use 3–5 reps per set focused on strength."
	case "power":
		return "Use 6–8 reps per set for power/hypertrophy."
	case "hypertrophy":
		return "Use 8–12 reps per set for hypertrophy."
	case "endurance":
		return "Use 12–15 reps per set for muscular endurance."
	case "custom":
		if lo <= 0 {
			lo = DefaultRepsMin
		}
		if hi <= 0 {
			hi = DefaultRepsMax
		}
		return fmt.Sprintf("Use %d–%d reps per set across main exercises.", lo, hi)
	default:
		return "Choose reps appropriate for the difficulty level."
	}
}

// Build renders the generation prompt.
func Build(o Options) string {
	exerciseCount := "5-6"
	exerciseDetail := "Mix compound and isolation exercises efficiently."
	if o.Difficulty == "advanced" {
		exerciseCount = "8-10"
		exerciseDetail = "Include 3-4 exercises per major muscle group being targeted. Use compound movements and isolation exercises."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a concise %s level workout plan for a %s day focusing on %s.\n\n", o.Difficulty, o.WorkoutType, o.Focus)
	fmt.Fprintf(&b, "Available machines/equipment: %s\n\n", strings.Join(o.Machines, ", "))
	fmt.Fprintf(&b, "Difficulty Level: %s\n%s\n\n", strings.ToUpper(o.Difficulty), difficultyGuidance[o.Difficulty])
	b.WriteString("Please provide a CLEAN, ORGANIZED workout with:\n")
	b.WriteString("1. A brief warm-up (2-3 exercises)\n")
	fmt.Fprintf(&b, "2. %s main exercises using the available equipment\n", exerciseCount)
	fmt.Fprintf(&b, "3. Sets x Reps for each exercise. %s\n", RepsGuidance(o.RepsStyle, o.RepsMin, o.RepsMax))
	b.WriteString("4. A short cool-down (2-3 stretches)\n\n")
	fmt.Fprintf(&b, "%s\n\n", exerciseDetail)
	fmt.Fprintf(&b, "%s\n\n", strings.Join(extras(o), " "))
	b.WriteString("Format as a simple list with clear headings. Keep descriptions brief and actionable. No long paragraphs or excessive explanations.")
	return b.String()
}

func extras(o Options) []string {
	var out []string
	if isSet(o.ExercisesPerMuscle) {
		out = append(out, fmt.Sprintf("Aim for %s exercises per primary muscle group.", o.ExercisesPerMuscle))
	}
	if isSet(o.SetsPerExercise) {
		out = append(out, fmt.Sprintf("Use %s sets per exercise.", o.SetsPerExercise))
	}
	if isSet(o.RestSeconds) {
		out = append(out, fmt.Sprintf("Rest %s seconds between sets.", o.RestSeconds))
	}
	if o.IncludeBodyweight {
		out = append(out, "You may include bodyweight movements where appropriate.")
	} else {
		out = append(out, "Prefer equipment-based movements over bodyweight.")
	}
	if o.FocusedMuscle != "" && o.FocusedMuscle != "none" {
		out = append(out, fmt.Sprintf("Prioritize exercises that emphasize the %s today.", o.FocusedMuscle))
	}
	return out
}

func isSet(v string) bool {
	return v != "" && v != "auto"
}
