package model

// Result is JSON-serialisable as-is.
type Result struct {
	Original      string       `json:"original"`         // checked text
	CorrectedText string       `json:"correctedText"`    // provider's fully corrected text
	EditDistance  int          `json:"editDistance"`     // Levenshtein(original, correctedText)
	CharCount     int          `json:"charCount"`        // UTF-8 rune length
	ChunkCount    int          `json:"chunkCount"`       // provider calls made
	ErrorCount    int          `json:"errorCount"`       // len(Corrections)
	Corrections   []Correction `json:"corrections"`      // disjoint, ascending by StartIndex
	Degraded      bool         `json:"degraded"`         // at least one chunk fell back
	Failure       *Failure     `json:"failure,omitempty"` // first provider failure, if any
}

// Correction is a suggested edit against one text snapshot.
// StartIndex/EndIndex are half-open rune offsets into that snapshot.
type Correction struct {
	Original    string `json:"original"`
	Suggestion  string `json:"suggestion"`
	StartIndex  int    `json:"startIndex"`
	EndIndex    int    `json:"endIndex"`
	Explanation string `json:"explanation,omitempty"`
	Distance    int    `json:"distance"` // Levenshtein(original, suggestion)
}

// Key identifies a correction inside a set.
func (c Correction) Key() Span { return Span{Start: c.StartIndex, End: c.EndIndex} }

// Span is a half-open rune range.
type Span struct {
	Start int `json:"startIndex"`
	End   int `json:"endIndex"`
}

// Overlaps reports whether two half-open ranges intersect.
func (s Span) Overlaps(o Span) bool { return s.Start < o.End && o.Start < s.End }

type SegmentKind string

const (
	SegmentPlain       SegmentKind = "plain"
	SegmentHighlighted SegmentKind = "highlighted"
)

// Segment is one display run produced by rendering a correction set.
type Segment struct {
	Kind       SegmentKind `json:"kind"`
	Content    string      `json:"content"`
	StartIndex int         `json:"startIndex"`
	EndIndex   int         `json:"endIndex"`
	Correction *Correction `json:"correction,omitempty"` // highlighted only
}

// Failure is the user-facing view of a provider error.
type Failure struct {
	Kind      string `json:"kind"` // unavailable | rate_limited | malformed
	Provider  string `json:"provider,omitempty"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}
