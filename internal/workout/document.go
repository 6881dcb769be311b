package workout

// Thresholds for IsStructuredEnough.
const (
	minStructuredItems  = 3
	minStructuredBlocks = 2
)

// autoValue is the preference value meaning "no explicit choice".
const autoValue = "auto"

// Meta is the header information shown above a workout.
type Meta struct {
	WorkoutType string `json:"workout_type"`
	Date        string `json:"date"`
	Difficulty  string `json:"difficulty"`
	SplitType   string `json:"split_type"`
	RepsStyle   string `json:"reps_style,omitempty"`
	RestSeconds string `json:"rest_seconds,omitempty"`
}

// Chip is one label/value pair in the metadata row.
type Chip struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Document is a workout ready for rendering. When Structured is false the
// caller must fall back to the lightly formatted Raw text.
type Document struct {
	Meta       Meta    `json:"meta"`
	Blocks     []Block `json:"blocks"`
	Structured bool    `json:"structured"`
	Raw        string  `json:"-"`
}

// IsStructuredEnough reports whether blocks hold at least three items in total
// or at least two blocks.
func IsStructuredEnough(blocks []Block) bool {
	if len(blocks) >= minStructuredBlocks {
		return true
	}
	n := 0
	for _, b := range blocks {
		n += len(b.Items)
	}
	return n >= minStructuredItems
}

// Assemble combines parsed blocks with header metadata into a structured document.
func Assemble(blocks []Block, meta Meta) Document {
	return Document{Meta: meta, Blocks: blocks, Structured: true}
}

// Build parses text and assembles it, marking the document unstructured when
// the parse does not meet the sufficiency threshold.
func Build(text string, meta Meta) Document {
	blocks := ParseText(text)
	doc := Assemble(blocks, meta)
	doc.Structured = IsStructuredEnough(blocks)
	doc.Raw = text
	return doc
}

// Chips returns the metadata row. Reps style and rest are omitted when unset or auto.
func (d Document) Chips() []Chip {
	chips := []Chip{
		{Label: "Type", Value: d.Meta.WorkoutType},
		{Label: "Difficulty", Value: d.Meta.Difficulty},
		{Label: "Split", Value: d.Meta.SplitType},
	}
	if isSet(d.Meta.RepsStyle) {
		chips = append(chips, Chip{Label: "Reps", Value: d.Meta.RepsStyle})
	}
	if isSet(d.Meta.RestSeconds) {
		chips = append(chips, Chip{Label: "Rest", Value: d.Meta.RestSeconds + "s"})
	}
	return chips
}

// ItemCount returns the number of items across all blocks.
func (d Document) ItemCount() int {
	n := 0
	for _, b := range d.Blocks {
		n += len(b.Items)
	}
	return n
}

func isSet(v string) bool {
	return v != "" && v != autoValue
}
