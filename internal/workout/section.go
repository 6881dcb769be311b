package workout

import (
	"regexp"
	"strings"
)

// Section is the canonical kind of a workout block.
type Section int

const (
	SectionWorkout Section = iota
	SectionWarmUp
	SectionMain
	SectionCoolDown
	SectionFinisher
	SectionAccessories
	SectionStretches
)

var sectionTitles = [...]string{
	SectionWorkout:     "Workout",
	SectionWarmUp:      "Warm-up",
	SectionMain:        "Main",
	SectionCoolDown:    "Cool-down",
	SectionFinisher:    "Finisher",
	SectionAccessories: "Accessories",
	SectionStretches:   "Stretches",
}

// String returns the display title.
func (s Section) String() string {
	if s < 0 || int(s) >= len(sectionTitles) {
		return sectionTitles[SectionWorkout]
	}
	return sectionTitles[s]
}

// sectionRules are checked in order; the first substring found wins.
var sectionRules = []struct {
	substr  string
	section Section
}{
	{"warm", SectionWarmUp},
	{"cool", SectionCoolDown},
	{"finish", SectionFinisher},
	{"accessor", SectionAccessories},
	{"stretch", SectionStretches},
	{"main", SectionMain},
	{"workout", SectionWorkout},
}

// ClassifySection maps raw header text to a Section. ok is false when none of
// the known keywords occur.
func ClassifySection(raw string) (Section, bool) {
	lower := strings.ToLower(raw)
	for _, r := range sectionRules {
		if strings.Contains(lower, r.substr) {
			return r.section, true
		}
	}
	return SectionWorkout, false
}

var wordStartRe = regexp.MustCompile(`\b\w`)

// NormalizeTitle returns the canonical title for raw header text, falling back
// to the title-cased text with markdown markers removed.
func NormalizeTitle(raw string) string {
	if s, ok := ClassifySection(raw); ok {
		return s.String()
	}
	t := strings.TrimSpace(strings.NewReplacer("*", "", "#", "").Replace(raw))
	if t == "" {
		return SectionWorkout.String()
	}
	return wordStartRe.ReplaceAllStringFunc(t, strings.ToUpper)
}
