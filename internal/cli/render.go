package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/momentumx/momentumx/internal/schedule"
	"github.com/momentumx/momentumx/internal/workout"
)

const (
	terminalWidthBackup = 80
	minNameWidth        = 12
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	chipStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	blockStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	nameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	noteStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#8C8C8C"))
	restStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4FA3FF"))

	tagStyles = map[workout.TagKind]lipgloss.Style{
		workout.TagSets:       lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")),
		workout.TagRest:       lipgloss.NewStyle().Foreground(lipgloss.Color("#4FA3FF")),
		workout.TagTempo:      lipgloss.NewStyle().Foreground(lipgloss.Color("#B37FEB")),
		workout.TagBodyweight: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF9C6E")),
	}
)

// Renderer writes workouts for a terminal. With Color unset it emits plain
// text suitable for pipes and files.
type Renderer struct {
	Color bool
	Width int
}

// NewRenderer configures a Renderer for w, enabling color only on a terminal
// and when NO_COLOR is not set.
func NewRenderer(w io.Writer) Renderer {
	return Renderer{Color: ShouldUseColor(w), Width: TerminalWidth(w)}
}

// ShouldUseColor reports whether w is a terminal that should receive styles.
func ShouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// TerminalWidth returns the column count of w, or a fallback when w is not a terminal.
func TerminalWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok {
		return terminalWidthBackup
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func (r Renderer) style(s lipgloss.Style, text string) string {
	if !r.Color {
		return text
	}
	return s.Render(text)
}

// Day writes the resolved workout for a weekday.
func (r Renderer) Day(w io.Writer, dayName string, day schedule.ResolvedDay) error {
	if day.IsRest() {
		_, err := fmt.Fprintf(w, "%s: %s\n", dayName, r.style(restStyle, "Rest Day"))
		return err
	}
	_, err := fmt.Fprintf(w, "%s: %s %s\n", dayName, r.style(headerStyle, day.WorkoutType), r.style(chipStyle, "("+day.WorkoutFocus+")"))
	return err
}

// RestDay writes the rest-day message for a display date.
func (r Renderer) RestDay(w io.Writer, date string) error {
	lines := []string{
		r.style(restStyle, "Rest Day - "+date),
		"Today is your rest day. Stretch, walk, hydrate and sleep well.",
		"Come back tomorrow for your next workout!",
	}
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

// Document writes d. Unstructured documents print their raw text under the header.
func (r Renderer) Document(w io.Writer, d workout.Document) error {
	var b strings.Builder
	b.WriteString(r.style(headerStyle, fmt.Sprintf("%s Workout - %s", d.Meta.WorkoutType, d.Meta.Date)))
	b.WriteByte('\n')

	chips := make([]string, 0, 5)
	for _, c := range d.Chips() {
		if c.Value == "" {
			continue
		}
		chips = append(chips, c.Label+": "+c.Value)
	}
	if len(chips) > 0 {
		b.WriteString(r.style(chipStyle, strings.Join(chips, " · ")))
		b.WriteByte('\n')
	}

	if !d.Structured {
		b.WriteByte('\n')
		b.WriteString(strings.TrimSpace(d.Raw))
		b.WriteByte('\n')
		_, err := io.WriteString(w, b.String())
		return err
	}

	nameWidth := r.nameWidth(d.Blocks)
	for _, blk := range d.Blocks {
		b.WriteByte('\n')
		b.WriteString(r.style(blockStyle, strings.ToUpper(blk.Title)))
		b.WriteByte('\n')
		for _, it := range blk.Items {
			b.WriteString(r.item(it, nameWidth))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// nameWidth is the widest exercise name, capped at half the terminal.
func (r Renderer) nameWidth(blocks []workout.Block) int {
	widest := minNameWidth
	for _, blk := range blocks {
		for _, it := range blk.Items {
			widest = max(widest, runewidth.StringWidth(it.Name))
		}
	}
	if limit := r.Width / 2; limit > minNameWidth && widest > limit {
		return limit
	}
	return widest
}

func (r Renderer) item(it workout.Item, nameWidth int) string {
	if it.IsNote() {
		return "  " + r.style(noteStyle, it.Notes) + "\n"
	}

	name := runewidth.Truncate(it.Name, nameWidth, "…")
	line := "  " + r.style(nameStyle, runewidth.FillRight(name, nameWidth))

	tags := make([]string, 0, len(it.Tags))
	for _, t := range it.Tags {
		tags = append(tags, r.style(tagStyles[t.Kind], "["+t.Text+"]"))
	}
	if len(tags) > 0 {
		line += "  " + strings.Join(tags, " ")
	}
	line = strings.TrimRight(line, " ") + "\n"

	if it.Notes != "" {
		line += "    " + r.style(noteStyle, it.Notes) + "\n"
	}
	return line
}
