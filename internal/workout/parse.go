// Package workout turns free-form generated workout text into titled blocks
// of exercises and renders them for display.
package workout

import (
	"regexp"
	"strings"
)

// Block is a titled section of a workout.
type Block struct {
	Title string `json:"title"`
	Items []Item `json:"items"`
}

var (
	// Optional "1." or bullet prefix, then a section keyword. Only the start is anchored.
	sectionRe = regexp.MustCompile(`(?i)^(?:\d+\.|[-*•])?\s*(warm\s*-?\s*up|warmup|main(?:\s*(?:workout|lifts))?|workout|cool\s*-?\s*down|cooldown|finisher|accessor(?:y|ies)|stretch(?:es)?)`)

	boldHeaderRe     = regexp.MustCompile(`^\*\*(.+)\*\*$`)
	italicHeaderRe   = regexp.MustCompile(`^\*(.+)\*$`)
	markdownHeaderRe = regexp.MustCompile(`^#{1,6}\s*(.+)$`)
	bulletRe         = regexp.MustCompile(`^[-*•]\s*(.+)$`)
)

// ParseText splits text into blocks. Lines are processed strictly in order:
// a header opens a new block, any other line is parsed as an exercise (or kept
// as a note) and appended to the open block. Content before the first header
// goes to an implicit "Workout" block. Empty input yields one empty block.
func ParseText(text string) []Block {
	var blocks []Block
	open := func(title string) {
		blocks = append(blocks, Block{Title: title, Items: []Item{}})
	}

	for _, raw := range splitLines(text) {
		if title, ok := headerTitle(raw); ok {
			open(NormalizeTitle(title))
			continue
		}

		line := raw
		if m := bulletRe.FindStringSubmatch(raw); m != nil {
			line = m[1]
		}
		if len(blocks) == 0 {
			open(SectionWorkout.String())
		}
		item, ok := ParseExerciseLine(line)
		if !ok {
			item = Item{Notes: line}
			if decorationOnly.MatchString(line) {
				item.Notes = raw
			}
		}
		cur := &blocks[len(blocks)-1]
		cur.Items = append(cur.Items, item)
	}

	if len(blocks) == 0 {
		open(SectionWorkout.String())
	}
	return blocks
}

// headerTitle reports whether line is a section header and returns the text
// to normalize into a title.
func headerTitle(line string) (string, bool) {
	if m := boldHeaderRe.FindStringSubmatch(line); m != nil && sectionRe.MatchString(m[1]) {
		return m[1], true
	}
	if m := sectionRe.FindStringSubmatch(line); m != nil {
		if strings.HasSuffix(line, ":") || strings.HasSuffix(line, ".") || strings.EqualFold(line, m[0]) {
			return m[1], true
		}
	}
	if m := italicHeaderRe.FindStringSubmatch(line); m != nil && sectionRe.MatchString(m[1]) {
		return m[1], true
	}
	if m := markdownHeaderRe.FindStringSubmatch(line); m != nil {
		inner := strings.Trim(m[1], "* ")
		if sectionRe.MatchString(inner) {
			return inner, true
		}
	}
	return "", false
}

// splitLines returns the trimmed non-empty lines of text (\n or \r\n).
func splitLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
