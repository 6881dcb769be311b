package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/momentumx/momentumx/internal/schedule"
	"github.com/momentumx/momentumx/internal/workout"
)

const renderText = `Warm-up:
- Treadmill walk (5 minutes)
Main:
1. Chest Press 3x10
2. Cable Fly 3x12-15 rest 60s
Cool-down:
- Pec stretch`

var renderMeta = workout.Meta{
	WorkoutType: "Push",
	Date:        "Wednesday, October 14, 2026",
	Difficulty:  "intermediate",
	SplitType:   "push-pull-legs",
}

// TestRenderDocumentPlain verifies the plain layout of a structured workout.
func TestRenderDocumentPlain(t *testing.T) {
	var buf bytes.Buffer
	r := Renderer{Width: 80}
	if err := r.Document(&buf, workout.Build(renderText, renderMeta)); err != nil {
		t.Fatal(err)
	}
	got := buf.String()

	for _, want := range []string{
		"Push Workout - Wednesday, October 14, 2026\n",
		"Type: Push · Difficulty: intermediate · Split: push-pull-legs\n",
		"\nWARM-UP\n  Treadmill walk\n    5 minutes\n",
		"\nMAIN\n  Chest Press     [3x10]\n  Cable Fly       [3x12–15] [60s]\n",
		"\nCOOL-DOWN\n  Pec stretch\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "\x1b[") {
		t.Error("plain output contains escape codes")
	}
}

// TestRenderDocumentUnstructured verifies raw text is printed under the header.
func TestRenderDocumentUnstructured(t *testing.T) {
	var buf bytes.Buffer
	doc := workout.Build("Just go for a run today", renderMeta)
	if err := (Renderer{Width: 80}).Document(&buf, doc); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(buf.String(), "\n\nJust go for a run today\n") {
		t.Errorf("output = %q", buf.String())
	}
}

// TestRenderTruncatesLongNames verifies names are capped at half the width.
func TestRenderTruncatesLongNames(t *testing.T) {
	var buf bytes.Buffer
	doc := workout.Build("Main:\n1. Single Arm Landmine Press With Pause At Chest 3x8\n2. Dip 3x10\n3. Row 3x10", renderMeta)
	if err := (Renderer{Width: 30}).Document(&buf, doc); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "  Single Arm Lan…  [3x8]\n") {
		t.Errorf("output = %q", buf.String())
	}
}

// TestRenderDay verifies training and rest days print differently.
func TestRenderDay(t *testing.T) {
	var buf bytes.Buffer
	r := Renderer{}
	if err := r.Day(&buf, "Monday", schedule.ResolvedDay{WorkoutType: "Pull", WorkoutFocus: "Back, Biceps"}); err != nil {
		t.Fatal(err)
	}
	if err := r.Day(&buf, "Sunday", schedule.ResolvedDay{WorkoutType: schedule.RestType, WorkoutFocus: "Recovery"}); err != nil {
		t.Fatal(err)
	}
	want := "Monday: Pull (Back, Biceps)\nSunday: Rest Day\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

// TestShouldUseColorNonFile verifies buffers never receive styles.
func TestShouldUseColorNonFile(t *testing.T) {
	if ShouldUseColor(&bytes.Buffer{}) {
		t.Error("ShouldUseColor(buffer) = true")
	}
	if got := TerminalWidth(&bytes.Buffer{}); got != terminalWidthBackup {
		t.Errorf("TerminalWidth(buffer) = %d, want %d", got, terminalWidthBackup)
	}
}
