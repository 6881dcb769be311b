package workout

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strings"
)

var documentTmpl = template.Must(template.New("document").Parse(`<div class="workout-content">
<div class="workout-header">
<h3>{{.Meta.WorkoutType}} Workout - {{.Meta.Date}}</h3>
<div class="workout-meta">{{range .Chips}}<span class="meta-chip"><em>{{.Label}}</em>{{.Value}}</span>{{end}}</div>
</div>
{{range .Blocks}}<div class="workout-block">
<div class="block-title">{{.Title}}</div>
<div class="workout-rows">
{{- range .Items}}
{{- if .IsNote}}
<div class="row-notes">{{.Notes}}</div>
{{- else}}
<div class="workout-row"><div class="row-name">{{.Name}}</div><div class="row-tags">{{range .Tags}}<span class="tag tag--{{.Kind}}">{{.Text}}</span>{{end}}</div></div>
{{- with .Notes}}
<div class="row-notes">{{.}}</div>
{{- end}}
{{- end}}
{{- end}}
</div>
</div>
{{end}}</div>
`))

var fallbackTmpl = template.Must(template.New("fallback").Parse(`<div class="workout-content">
<h3>{{.Meta.WorkoutType}} Workout - {{.Meta.Date}}</h3>
<div class="workout-text">{{.Body}}</div>
</div>
`))

var restDayTmpl = template.Must(template.New("rest").Parse(`<div class="workout-content">
<h3>Rest Day - {{.}}</h3>
<div class="workout-text">
<p>🛌 <strong>Today is your rest day!</strong></p>
<p>Rest days are crucial for muscle recovery and growth. Consider:</p>
<ul>
<li>Light stretching or yoga</li>
<li>Going for a walk</li>
<li>Foam rolling</li>
<li>Staying hydrated</li>
<li>Getting adequate sleep</li>
</ul>
<p>Come back tomorrow for your next workout! 💪</p>
</div>
</div>
`))

// RenderHTML renders d as an HTML fragment. Structured documents get the
// block layout; others get the raw-text fallback. All text is escaped.
func RenderHTML(d Document) (template.HTML, error) {
	var buf bytes.Buffer
	if d.Structured {
		if err := documentTmpl.Execute(&buf, d); err != nil {
			return "", fmt.Errorf("rendering workout: %w", err)
		}
		return template.HTML(buf.String()), nil
	}

	data := struct {
		Meta Meta
		Body template.HTML
	}{Meta: d.Meta, Body: FormatRaw(d.Raw)}
	if err := fallbackTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering raw workout: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// RestDayHTML renders the fixed rest-day message for the given display date.
func RestDayHTML(date string) template.HTML {
	var buf bytes.Buffer
	// The template has no failure paths for a string argument.
	_ = restDayTmpl.Execute(&buf, date)
	return template.HTML(buf.String())
}

var rawRules = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`\*\*(.*?)\*\*`), `<strong>$1</strong>`},
	{regexp.MustCompile(`\*(.*?)\*`), `<em>$1</em>`},
	{regexp.MustCompile(`(?m)^\d+\.\s(.+)$`), `<div class="workout-section"><strong>$1</strong></div>`},
	{regexp.MustCompile(`(?m)^- (.+)$`), `<div class="exercise-item">• $1</div>`},
	{regexp.MustCompile(`(?i)(\d+ sets? x \d+(?:-\d+)? reps?)`), `<span class="sets-reps">$1</span>`},
	{regexp.MustCompile(`\n{2,}`), `<br><br>`},
	{regexp.MustCompile(`\n`), `<br>`},
}

// FormatRaw lightly formats unstructured text: emphasis markers, numbered
// headings, bullets, sets/reps spans and line breaks. The text is escaped
// before any markup is introduced.
func FormatRaw(text string) template.HTML {
	s := strings.ReplaceAll(text, "\r\n", "\n")
	s = html.EscapeString(strings.TrimSpace(s))
	for _, r := range rawRules {
		s = r.re.ReplaceAllString(s, r.repl)
	}
	return template.HTML(`<div class="formatted-workout">` + s + `</div>`)
}
