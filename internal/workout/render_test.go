package workout

import (
	"strings"
	"testing"
)

// TestRenderHTMLEscapes verifies user-controlled text never reaches the output
// unescaped.
func TestRenderHTMLEscapes(t *testing.T) {
	d := Assemble([]Block{{
		Title: "Main",
		Items: []Item{
			{Name: "<script>alert(1)</script>", Tags: []Tag{{Kind: TagSets, Text: "3x10"}}},
			{Notes: "<b>careful</b>"},
		},
	}}, Meta{WorkoutType: "Push", Date: "Monday"})

	out, err := RenderHTML(d)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	s := string(out)
	if strings.Contains(s, "<script>") || strings.Contains(s, "<b>") {
		t.Errorf("unescaped markup in output:\n%s", s)
	}
	if !strings.Contains(s, "&lt;script&gt;") {
		t.Errorf("escaped name missing:\n%s", s)
	}
	if !strings.Contains(s, `<span class="tag tag--sets">3x10</span>`) {
		t.Errorf("sets tag missing:\n%s", s)
	}
	if !strings.Contains(s, `<div class="row-notes">&lt;b&gt;careful&lt;/b&gt;</div>`) {
		t.Errorf("note row missing:\n%s", s)
	}
}

// TestRenderHTMLStructured verifies block and chip markup.
func TestRenderHTMLStructured(t *testing.T) {
	d := Build(sampleWorkout, Meta{WorkoutType: "Push", Date: "Monday", Difficulty: "beginner", SplitType: "push-pull-legs"})
	out, err := RenderHTML(d)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	s := string(out)
	for _, want := range []string{
		"<h3>Push Workout - Monday</h3>",
		`<div class="block-title">Warm-up</div>`,
		`<div class="block-title">Cool-down</div>`,
		`<span class="meta-chip"><em>Difficulty</em>beginner</span>`,
		`<span class="tag tag--rest">90s</span>`,
		`<span class="tag tag--bw">BW</span>`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Count(s, `class="workout-block"`) != 3 {
		t.Errorf("want 3 blocks in:\n%s", s)
	}
}

// TestRenderHTMLFallback verifies unstructured documents use the raw formatter.
func TestRenderHTMLFallback(t *testing.T) {
	d := Build("**Just walk** <i>today</i>", Meta{WorkoutType: "Cardio", Date: "Sunday"})
	out, err := RenderHTML(d)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, `<div class="formatted-workout"><strong>Just walk</strong> &lt;i&gt;today&lt;/i&gt;</div>`) {
		t.Errorf("fallback body wrong:\n%s", s)
	}
	if strings.Contains(s, "workout-block") {
		t.Error("fallback should not render blocks")
	}
}

// TestFormatRaw verifies the light formatting rules.
func TestFormatRaw(t *testing.T) {
	got := string(FormatRaw("1. Squat\r\n- Lunge 3 sets x 10 reps\r\n\r\nDone"))
	want := `<div class="formatted-workout">` +
		`<div class="workout-section"><strong>Squat</strong></div><br>` +
		`<div class="exercise-item">• Lunge <span class="sets-reps">3 sets x 10 reps</span></div><br><br>` +
		`Done</div>`
	if got != want {
		t.Errorf("FormatRaw =\n%s\nwant\n%s", got, want)
	}
}

// TestRestDayHTML verifies the date is included and escaped.
func TestRestDayHTML(t *testing.T) {
	s := string(RestDayHTML("Sunday <3"))
	if !strings.Contains(s, "Rest Day - Sunday &lt;3") {
		t.Errorf("RestDayHTML = %s", s)
	}
}
