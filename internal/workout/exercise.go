package workout

import (
	"regexp"
	"strconv"
	"strings"
)

// TagKind identifies what a Tag annotates.
type TagKind string

const (
	TagSets       TagKind = "sets"
	TagRest       TagKind = "rest"
	TagTempo      TagKind = "tempo"
	TagBodyweight TagKind = "bw"
)

// Tag is a short structured annotation shown next to an item.
type Tag struct {
	Kind TagKind `json:"type"`
	Text string  `json:"text"`
}

// Item is one exercise or free-form note line.
type Item struct {
	Name       string `json:"name,omitempty"`
	SetsReps   string `json:"sets_reps,omitempty"`
	Rest       string `json:"rest,omitempty"`
	Tempo      string `json:"tempo,omitempty"`
	Bodyweight bool   `json:"bodyweight,omitempty"`
	Tags       []Tag  `json:"tags,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// IsNote reports whether the item is a bare note without an exercise name.
func (it Item) IsNote() bool {
	return it.Name == "" && it.Notes != ""
}

var (
	parenRe = regexp.MustCompile(`\(([^)]+)\)`)

	// "3 sets x 10 reps", "4 sets × 8-10"
	verboseSetsRe = regexp.MustCompile(`(?i)(\d+)\s*sets?\s*[x×]\s*(\d+(?:[-–]\d+)?)(?:\s*reps?\b)?`)
	// "3x10", "4 × 8-10". \d+ is greedy, so a match never ends right before another digit.
	compactSetsRe = regexp.MustCompile(`(?i)(\d+)\s*[x×]\s*(\d+(?:[-–]\d+)?)`)
	// Time unit directly after a sets match ("3x30s", "3x30 sec"); removed from the name only.
	repsUnitRe    = regexp.MustCompile(`(?i)^\s*(?:s|secs?|seconds?|mins?|minutes?)\b`)

	restRe       = regexp.MustCompile(`(?i)\brest\s*[:\-]?\s*(\d+)\s*(sec|secs|seconds|s|min|mins|minutes|m)`)
	bodyweightRe = regexp.MustCompile(`(?i)\b(?:bodyweight|bw)\b`)
	tempoRe      = regexp.MustCompile(`(?i)\btempo\s*[:\-]?\s*([0-9xX\-]+)`)

	ordinalRe      = regexp.MustCompile(`^\d+[.)](?:\s+|$)`)
	trailingSepRe  = regexp.MustCompile(`[\s,;:\-–—]+$`)
	decorationOnly = regexp.MustCompile(`^[-*_=#•\s]*$`)
)

// ParseExerciseLine extracts exercise attributes from a single content line.
// ok is false when the line carries no name, sets/reps, rest or notes.
func ParseExerciseLine(line string) (Item, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Item{}, false
	}

	var it Item
	if m := parenRe.FindStringSubmatch(line); m != nil {
		it.Notes = strings.TrimSpace(m[1])
		line = strings.TrimSpace(strings.Replace(line, m[0], "", 1))
	}

	setsLoc := verboseSetsRe.FindStringSubmatchIndex(line)
	if setsLoc == nil {
		setsLoc = compactSetsRe.FindStringSubmatchIndex(line)
	}
	if setsLoc != nil {
		sets := line[setsLoc[2]:setsLoc[3]]
		reps := strings.ReplaceAll(line[setsLoc[4]:setsLoc[5]], "–", "-")
		it.SetsReps = sets + "x" + reps
	}

	restLoc := restRe.FindStringSubmatchIndex(line)
	if restLoc != nil {
		// Out-of-range durations are dropped; the span still ends the name.
		if n, err := strconv.Atoi(line[restLoc[2]:restLoc[3]]); err == nil {
			unit := strings.ToLower(line[restLoc[4]:restLoc[5]])
			if strings.HasPrefix(unit, "m") {
				it.Rest = strconv.Itoa(n) + "m"
			} else {
				it.Rest = strconv.Itoa(n) + "s"
			}
		}
	}

	it.Bodyweight = bodyweightRe.MatchString(line)

	tempoLoc := tempoRe.FindStringSubmatchIndex(line)
	if tempoLoc != nil {
		it.Tempo = line[tempoLoc[2]:tempoLoc[3]]
	}

	it.Name = exerciseName(line, setsLoc, restLoc, tempoLoc)

	if it.Name == "" && it.SetsReps == "" && it.Rest == "" && it.Notes == "" {
		return Item{}, false
	}
	it.Tags = buildTags(it)
	return it, true
}

// exerciseName removes the matched sets/reps span and everything from a rest
// or tempo spec onward, then strips list and emphasis decoration.
func exerciseName(line string, setsLoc, restLoc, tempoLoc []int) string {
	cut := len(line)
	if restLoc != nil && restLoc[0] < cut {
		cut = restLoc[0]
	}
	if tempoLoc != nil && tempoLoc[0] < cut {
		cut = tempoLoc[0]
	}

	name := line[:cut]
	if setsLoc != nil && setsLoc[0] < cut {
		end := min(setsLoc[1], cut)
		if m := repsUnitRe.FindStringIndex(line[end:cut]); m != nil {
			end += m[1]
		}
		name = line[:setsLoc[0]] + " " + line[end:cut]
	}

	name = strings.TrimSpace(name)
	name = ordinalRe.ReplaceAllString(name, "")
	name = strings.ReplaceAll(name, "*", "")
	name = trailingSepRe.ReplaceAllString(name, "")
	name = strings.Join(strings.Fields(name), " ")
	if decorationOnly.MatchString(name) {
		return ""
	}
	return name
}

func buildTags(it Item) []Tag {
	var tags []Tag
	if it.SetsReps != "" {
		tags = append(tags, Tag{Kind: TagSets, Text: strings.ReplaceAll(it.SetsReps, "-", "–")})
	}
	if it.Rest != "" {
		tags = append(tags, Tag{Kind: TagRest, Text: it.Rest})
	}
	if it.Tempo != "" {
		tags = append(tags, Tag{Kind: TagTempo, Text: it.Tempo})
	}
	if it.Bodyweight {
		tags = append(tags, Tag{Kind: TagBodyweight, Text: "BW"})
	}
	return tags
}

// Volume decodes SetsReps ("4x8-10") into sets and a rep range. For a single
// rep count repsMax equals repsMin.
func (it Item) Volume() (sets, repsMin, repsMax int, ok bool) {
	s, reps, found := strings.Cut(it.SetsReps, "x")
	if !found {
		return 0, 0, 0, false
	}
	sets, err := strconv.Atoi(s)
	if err != nil {
		return 0, 0, 0, false
	}
	lo, hi, isRange := strings.Cut(reps, "-")
	repsMin, err = strconv.Atoi(lo)
	if err != nil {
		return 0, 0, 0, false
	}
	repsMax = repsMin
	if isRange {
		if repsMax, err = strconv.Atoi(hi); err != nil {
			return 0, 0, 0, false
		}
	}
	return sets, repsMin, repsMax, true
}

// RestSeconds converts Rest ("90s", "2m") into seconds.
func (it Item) RestSeconds() (int, bool) {
	if len(it.Rest) < 2 {
		return 0, false
	}
	n, err := strconv.Atoi(it.Rest[:len(it.Rest)-1])
	if err != nil {
		return 0, false
	}
	if strings.HasSuffix(it.Rest, "m") {
		return n * 60, true
	}
	return n, true
}
