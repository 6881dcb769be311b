package workout

import (
	"testing"
)

// TestParseExerciseLineVerbose verifies the "N sets x M reps" form and that the
// sets/reps text is removed from the name.
func TestParseExerciseLineVerbose(t *testing.T) {
	it, ok := ParseExerciseLine("3 sets x 10 reps Bench Press")
	if !ok {
		t.Fatal("expected an item")
	}
	if it.Name != "Bench Press" {
		t.Errorf("Name = %q, want %q", it.Name, "Bench Press")
	}
	if it.SetsReps != "3x10" {
		t.Errorf("SetsReps = %q, want %q", it.SetsReps, "3x10")
	}
	if len(it.Tags) != 1 || it.Tags[0].Kind != TagSets || it.Tags[0].Text != "3x10" {
		t.Errorf("Tags = %+v, want one sets tag 3x10", it.Tags)
	}
}

// TestParseExerciseLineCompactWithRest verifies the compact form, rep ranges,
// en-dash display and rest normalization.
func TestParseExerciseLineCompactWithRest(t *testing.T) {
	it, ok := ParseExerciseLine("Squat 4x8-10 rest 90s")
	if !ok {
		t.Fatal("expected an item")
	}
	if it.Name != "Squat" {
		t.Errorf("Name = %q, want Squat", it.Name)
	}
	if it.SetsReps != "4x8-10" {
		t.Errorf("SetsReps = %q, want 4x8-10", it.SetsReps)
	}
	if it.Rest != "90s" {
		t.Errorf("Rest = %q, want 90s", it.Rest)
	}
	if len(it.Tags) != 2 {
		t.Fatalf("Tags = %+v, want 2", it.Tags)
	}
	if it.Tags[0].Text != "4x8–10" {
		t.Errorf("sets tag = %q, want 4x8–10", it.Tags[0].Text)
	}
	if it.Tags[1].Kind != TagRest || it.Tags[1].Text != "90s" {
		t.Errorf("rest tag = %+v", it.Tags[1])
	}
}

// TestParseExerciseLineDiscard verifies lines without any signal are dropped.
func TestParseExerciseLineDiscard(t *testing.T) {
	for _, line := range []string{"", "   ", "-", "—", "**", "1. "} {
		if it, ok := ParseExerciseLine(line); ok {
			t.Errorf("ParseExerciseLine(%q) = %+v, want discard", line, it)
		}
	}
}

// TestParseExerciseLineNotes verifies the first parenthetical becomes notes and
// is removed before other extraction.
func TestParseExerciseLineNotes(t *testing.T) {
	it, ok := ParseExerciseLine("Romanian Deadlift 3x12 (keep a soft knee) (slow)")
	if !ok {
		t.Fatal("expected an item")
	}
	if it.Notes != "keep a soft knee" {
		t.Errorf("Notes = %q", it.Notes)
	}
	if it.Name != "Romanian Deadlift (slow)" {
		t.Errorf("Name = %q", it.Name)
	}
	if it.SetsReps != "3x12" {
		t.Errorf("SetsReps = %q", it.SetsReps)
	}
}

// TestParseExerciseLineRestUnits verifies minute and second unit spellings.
func TestParseExerciseLineRestUnits(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"Deadlift 5x5 rest: 3 minutes", "3m"},
		{"Deadlift 5x5 rest - 2 min", "2m"},
		{"Curl 3x12 Rest 045 sec", "45s"},
		{"Curl 3x12 rest 60 seconds between sets", "60s"},
		{"Lunges 3x10 rest 30s", "30s"},
	}
	for _, tt := range tests {
		it, ok := ParseExerciseLine(tt.line)
		if !ok {
			t.Fatalf("ParseExerciseLine(%q) discarded", tt.line)
		}
		if it.Rest != tt.want {
			t.Errorf("ParseExerciseLine(%q).Rest = %q, want %q", tt.line, it.Rest, tt.want)
		}
	}
}

// TestParseExerciseLineTagOrder verifies tags appear as sets, rest, tempo, BW.
func TestParseExerciseLineTagOrder(t *testing.T) {
	it, ok := ParseExerciseLine("Push-ups 3 x 15 bodyweight rest 45s tempo 2-0-1")
	if !ok {
		t.Fatal("expected an item")
	}
	want := []TagKind{TagSets, TagRest, TagTempo, TagBodyweight}
	if len(it.Tags) != len(want) {
		t.Fatalf("Tags = %+v, want kinds %v", it.Tags, want)
	}
	for i, k := range want {
		if it.Tags[i].Kind != k {
			t.Errorf("Tags[%d].Kind = %q, want %q", i, it.Tags[i].Kind, k)
		}
	}
	if it.Tempo != "2-0-1" {
		t.Errorf("Tempo = %q, want 2-0-1", it.Tempo)
	}
	if it.Tags[3].Text != "BW" {
		t.Errorf("bw tag text = %q, want BW", it.Tags[3].Text)
	}
	if it.Name != "Push-ups bodyweight" {
		t.Errorf("Name = %q", it.Name)
	}
}

// TestParseExerciseLineDecoratedName verifies list ordinals, emphasis and
// trailing separators are stripped from the name.
func TestParseExerciseLineDecoratedName(t *testing.T) {
	it, ok := ParseExerciseLine("1. **Barbell Squat**: 4 sets × 6–8 reps")
	if !ok {
		t.Fatal("expected an item")
	}
	if it.Name != "Barbell Squat" {
		t.Errorf("Name = %q, want Barbell Squat", it.Name)
	}
	if it.SetsReps != "4x6-8" {
		t.Errorf("SetsReps = %q, want 4x6-8", it.SetsReps)
	}
}

// TestParseExerciseLineNoFalsePositives verifies plain names do not produce
// sets, rest or tempo data, including words that merely contain "rest".
func TestParseExerciseLineNoFalsePositives(t *testing.T) {
	for _, name := range []string{
		"Bench Press", "Forest walk 5 min", "Tempo squats", "Jumping jacks",
		"Cat-cow stretch", "Interest 10 m", "Box jumps",
	} {
		it, ok := ParseExerciseLine(name)
		if !ok {
			t.Fatalf("ParseExerciseLine(%q) discarded", name)
		}
		if it.SetsReps != "" || it.Rest != "" || it.Tempo != "" {
			t.Errorf("ParseExerciseLine(%q) fabricated data: %+v", name, it)
		}
		if it.Name != name {
			t.Errorf("Name = %q, want %q", it.Name, name)
		}
	}
}

// TestParseExerciseLineRestOnly verifies a rest-only line is kept without a name.
func TestParseExerciseLineRestOnly(t *testing.T) {
	it, ok := ParseExerciseLine("Rest 2 minutes between rounds")
	if !ok {
		t.Fatal("expected an item")
	}
	if it.Name != "" || it.Rest != "2m" {
		t.Errorf("got %+v, want unnamed item with rest 2m", it)
	}
}

func TestItemVolume(t *testing.T) {
	tests := []struct {
		setsReps     string
		sets, lo, hi int
		ok           bool
	}{
		{"3x10", 3, 10, 10, true},
		{"4x8-10", 4, 8, 10, true},
		{"", 0, 0, 0, false},
		{"ax10", 0, 0, 0, false},
	}
	for _, tt := range tests {
		sets, lo, hi, ok := Item{SetsReps: tt.setsReps}.Volume()
		if sets != tt.sets || lo != tt.lo || hi != tt.hi || ok != tt.ok {
			t.Errorf("Volume(%q) = %d,%d,%d,%v", tt.setsReps, sets, lo, hi, ok)
		}
	}
}

func TestItemRestSeconds(t *testing.T) {
	if s, ok := (Item{Rest: "2m"}).RestSeconds(); !ok || s != 120 {
		t.Errorf("2m = %d,%v, want 120", s, ok)
	}
	if s, ok := (Item{Rest: "90s"}).RestSeconds(); !ok || s != 90 {
		t.Errorf("90s = %d,%v, want 90", s, ok)
	}
	if _, ok := (Item{}).RestSeconds(); ok {
		t.Error("empty rest should not convert")
	}
}

// TestParseExerciseLineTimedReps verifies a time unit right after the sets
// match is not left in the name.
func TestParseExerciseLineTimedReps(t *testing.T) {
	tests := []struct {
		line string
		name string
	}{
		{"Plank 3x30s", "Plank"},
		{"Plank 3x30 sec", "Plank"},
		{"Wall sit 2 x 1 min rest 60s", "Wall sit"},
		{"Squat 3x10 sets to failure", "Squat sets to failure"},
	}
	for _, tt := range tests {
		it, ok := ParseExerciseLine(tt.line)
		if !ok {
			t.Errorf("ParseExerciseLine(%q) discarded", tt.line)
			continue
		}
		if it.Name != tt.name {
			t.Errorf("ParseExerciseLine(%q).Name = %q, want %q", tt.line, it.Name, tt.name)
		}
	}
}

// TestParseExerciseLineRestOverflow verifies an out-of-range rest duration is
// dropped instead of clamped.
func TestParseExerciseLineRestOverflow(t *testing.T) {
	it, ok := ParseExerciseLine("Row 3x10 rest 99999999999999999999s")
	if !ok {
		t.Fatal("expected an item")
	}
	if it.Rest != "" {
		t.Errorf("Rest = %q, want empty", it.Rest)
	}
	if it.Name != "Row" || it.SetsReps != "3x10" {
		t.Errorf("item = %+v", it)
	}
	if _, ok := it.RestSeconds(); ok {
		t.Error("RestSeconds reported a value")
	}
}
